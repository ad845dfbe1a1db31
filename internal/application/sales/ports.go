package sales

import (
	"bytes"
	"context"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

// TxRunner abre una transacción con los repos que participan en una venta
// POS: verificación de sesión, descuento de stock e inserción de la venta en
// la misma tx. Lo implementa infrastructure/postgres.TxRunner.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		sessionRepo repository.SessionRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// CacheInvalidator invalida el caché del dashboard tras vender o anular.
// Lo implementa infrastructure/cache.Cache.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// ReceiptRenderer genera el PDF del recibo de una venta.
// Lo implementa infrastructure/pdf.MarotoReceiptGenerator.
type ReceiptRenderer interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, vendor *entity.Vendor, location *entity.Location) ([]byte, error)
}

// ReceiptMailer encola el envío del recibo por correo (lo procesa el worker).
// Lo implementa jobs.Enqueuer.
type ReceiptMailer interface {
	EnqueueReceiptEmail(ctx context.Context, saleID, email string) error
}

// Exporter genera el XLSX del historial de ventas.
// Lo implementa infrastructure/excel.Exporter.
type Exporter interface {
	ExportSales(sales []*entity.Sale) (*bytes.Buffer, error)
}
