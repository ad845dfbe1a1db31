package inventory

import (
	"bytes"
	"context"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de ajustes de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		adjRepo repository.AdjustmentRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// Exporter genera los reportes XLSX descargables de inventario.
// Lo implementa infrastructure/excel.Exporter.
type Exporter interface {
	ExportInventoryLevels(levels []entity.InventoryLevel) (*bytes.Buffer, error)
	ExportAdjustments(adjustments []repository.AdjustmentRow) (*bytes.Buffer, error)
}
