// Package sales implementa la venta POS: recálculo de totales en el servidor,
// descuento de stock transaccional, código de verificación del recibo,
// anulación con restitución de stock y sesiones de caja.
package sales

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/pos"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
	"github.com/dcastano/VerdePOS-api/pkg/docnum"
)

const (
	// numberPrefix prefijo del consecutivo legible de ventas.
	numberPrefix = "POS"
	// exportLimit tope de filas para el export XLSX del historial.
	exportLimit = 10000
)

// SaleUseCase procesa ventas POS. Los totales del cliente son una declaración:
// el servidor los recalcula con aritmética decimal y rechaza la venta si no
// coinciden, de modo que un cliente desactualizado no pueda cobrar mal.
type SaleUseCase struct {
	txRunner     TxRunner
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	vendorRepo   repository.VendorRepository
	receiptCodes *pos.ReceiptCodeService
	numbers      *docnum.Generator
	exporter     Exporter
	renderer     ReceiptRenderer
	mailer       ReceiptMailer
	cache        CacheInvalidator
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	vendorRepo repository.VendorRepository,
	receiptCodes *pos.ReceiptCodeService,
	numbers *docnum.Generator,
	exporter Exporter,
	renderer ReceiptRenderer,
	mailer ReceiptMailer,
	cache CacheInvalidator,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:     txRunner,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		vendorRepo:   vendorRepo,
		receiptCodes: receiptCodes,
		numbers:      numbers,
		exporter:     exporter,
		renderer:     renderer,
		mailer:       mailer,
		cache:        cache,
	}
}

// Create registra la venta: valida sesión abierta en la sucursal, recalcula
// los totales contra los del cliente (ErrTotalMismatch si difieren) y en una
// sola transacción descuenta el stock de cada línea e inserta venta+líneas.
// Stock insuficiente en cualquier línea revierte la venta completa.
func (uc *SaleUseCase) Create(ctx context.Context, vendorID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	location, err := uc.locationRepo.GetByID(ctx, in.LocationID)
	if err != nil || location == nil {
		return nil, domain.ErrNotFound
	}
	if location.VendorID != vendorID {
		return nil, domain.ErrForbidden
	}

	items, subtotal, taxTotal, err := uc.buildItems(ctx, vendorID, in.Items)
	if err != nil {
		return nil, err
	}
	total := subtotal.Add(taxTotal)

	// Los totales se comparan redondeados a 2 decimales: el cliente redondea
	// para mostrar y el servidor no debe rechazar por residuos de precisión.
	if !subtotal.Round(2).Equal(in.Subtotal.Round(2)) ||
		!taxTotal.Round(2).Equal(in.TaxTotal.Round(2)) ||
		!total.Round(2).Equal(in.Total.Round(2)) {
		return nil, domain.ErrTotalMismatch
	}

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		VendorID:      vendorID,
		LocationID:    in.LocationID,
		SessionID:     in.SessionID,
		UserID:        userID,
		Number:        uc.numbers.Next(numberPrefix),
		Subtotal:      subtotal,
		TaxTotal:      taxTotal,
		Total:         total,
		Status:        entity.SaleStatusCompleted,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     time.Now(),
		Items:         items,
	}
	if err := uc.applyPayment(sale, in); err != nil {
		return nil, err
	}

	code, err := uc.receiptCodes.Calculate(&pos.ReceiptParams{
		Number:     sale.Number,
		IssuedAt:   sale.CreatedAt.UTC().Format(time.RFC3339),
		Subtotal:   sale.Subtotal,
		TaxTotal:   sale.TaxTotal,
		Total:      sale.Total,
		VendorID:   sale.VendorID,
		LocationID: sale.LocationID,
	})
	if err != nil {
		return nil, err
	}
	sale.ReceiptCode = code

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		sessionRepo repository.SessionRepository,
		_ repository.ProductRepository,
	) error {
		session, err := sessionRepo.GetByID(ctx, in.SessionID)
		if err != nil {
			return err
		}
		if session == nil || session.VendorID != vendorID {
			return domain.ErrNotFound
		}
		if session.Status != entity.SessionStatusOpen || session.LocationID != in.LocationID {
			return domain.ErrSessionClosed
		}
		for _, item := range sale.Items {
			stock, err := stockRepo.GetForUpdate(ctx, item.ProductID, in.LocationID)
			if err != nil {
				return err
			}
			after := stock.Quantity.Sub(item.Quantity)
			if after.IsNegative() {
				return domain.ErrInsufficientStock
			}
			stock.Quantity = after
			stock.UpdatedAt = sale.CreatedAt
			if err := stockRepo.Upsert(ctx, stock); err != nil {
				return err
			}
		}
		return saleRepo.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	// La venta ya quedó confirmada; un bump fallido solo retrasa el refresco
	// del dashboard hasta que expire el TTL.
	_ = uc.cache.Bump(ctx)

	resp := toSaleResponse(sale)
	return &resp, nil
}

// Void anula una venta completada: en una transacción restituye el stock de
// cada línea y marca la venta como anulada con quién y cuándo.
func (uc *SaleUseCase) Void(ctx context.Context, vendorID, userID, saleID string) (*dto.SaleResponse, error) {
	var voided *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		stockRepo repository.StockRepository,
		_ repository.SessionRepository,
		_ repository.ProductRepository,
	) error {
		sale, err := saleRepo.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil || sale.VendorID != vendorID {
			return domain.ErrNotFound
		}
		if sale.Status != entity.SaleStatusCompleted {
			return domain.ErrConflict
		}
		now := time.Now()
		for _, item := range sale.Items {
			stock, err := stockRepo.GetForUpdate(ctx, item.ProductID, sale.LocationID)
			if err != nil {
				return err
			}
			stock.Quantity = stock.Quantity.Add(item.Quantity)
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(ctx, stock); err != nil {
				return err
			}
		}
		if err := saleRepo.Void(ctx, sale.ID, userID, now); err != nil {
			return err
		}
		sale.Status = entity.SaleStatusVoided
		sale.VoidedBy = &userID
		sale.VoidedAt = &now
		voided = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = uc.cache.Bump(ctx)

	resp := toSaleResponse(voided)
	return &resp, nil
}

// GetByID devuelve la venta con sus líneas, o nil si no existe o no pertenece
// al comercio.
func (uc *SaleUseCase) GetByID(ctx context.Context, vendorID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.getOwned(ctx, vendorID, id)
	if err != nil || sale == nil {
		return nil, err
	}
	resp := toSaleResponse(sale)
	return &resp, nil
}

// List historial de ventas del comercio, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, vendorID string, in dto.ListSalesRequest) (*dto.SaleListResponse, error) {
	in.DefaultPage()
	from, to, err := in.Parse()
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	salesList, err := uc.saleRepo.List(ctx, repository.SaleFilter{
		VendorID:   vendorID,
		LocationID: in.LocationID,
		SessionID:  in.SessionID,
		From:       from,
		To:         to,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(salesList))
	for _, s := range salesList {
		items = append(items, toSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Export genera el XLSX del historial de ventas con los mismos filtros del
// listado, sin paginar (tope exportLimit).
func (uc *SaleUseCase) Export(ctx context.Context, vendorID string, in dto.ListSalesRequest) (*bytes.Buffer, error) {
	from, to, err := in.Parse()
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	salesList, err := uc.saleRepo.List(ctx, repository.SaleFilter{
		VendorID:   vendorID,
		LocationID: in.LocationID,
		SessionID:  in.SessionID,
		From:       from,
		To:         to,
		Limit:      exportLimit,
	})
	if err != nil {
		return nil, err
	}
	return uc.exporter.ExportSales(salesList)
}

// GetReceiptPDF genera el PDF del recibo de la venta.
func (uc *SaleUseCase) GetReceiptPDF(ctx context.Context, vendorID, saleID string) ([]byte, string, error) {
	sale, err := uc.getOwned(ctx, vendorID, saleID)
	if err != nil {
		return nil, "", err
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	vendor, err := uc.vendorRepo.GetByID(ctx, vendorID)
	if err != nil || vendor == nil {
		return nil, "", domain.ErrNotFound
	}
	location, err := uc.locationRepo.GetByID(ctx, sale.LocationID)
	if err != nil || location == nil {
		return nil, "", domain.ErrNotFound
	}
	pdfBytes, err := uc.renderer.GenerateReceiptPDF(ctx, sale, vendor, location)
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, "recibo-" + sale.Number + ".pdf", nil
}

// EmailReceipt encola el envío del recibo por correo; el worker genera el PDF
// y lo envía, con reintentos si el SMTP falla.
func (uc *SaleUseCase) EmailReceipt(ctx context.Context, vendorID, saleID, email string) error {
	sale, err := uc.getOwned(ctx, vendorID, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	return uc.mailer.EnqueueReceiptEmail(ctx, sale.ID, email)
}

// buildItems resuelve productos y recalcula las líneas con aritmética
// decimal: precio unitario en cero usa el precio vigente del producto y la
// tasa se normaliza (19 → 0.19) como en el catálogo.
func (uc *SaleUseCase) buildItems(ctx context.Context, vendorID string, in []dto.SaleItemRequest) ([]entity.SaleItem, decimal.Decimal, decimal.Decimal, error) {
	var subtotal, taxTotal decimal.Decimal
	if len(in) == 0 {
		return nil, subtotal, taxTotal, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in))
	items := make([]entity.SaleItem, 0, len(in))
	for _, l := range in {
		if l.ProductID == "" || seen[l.ProductID] {
			return nil, subtotal, taxTotal, domain.ErrInvalidInput
		}
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, subtotal, taxTotal, domain.ErrInvalidInput
		}
		seen[l.ProductID] = true

		product, err := uc.productRepo.GetByID(ctx, l.ProductID)
		if err != nil || product == nil {
			return nil, subtotal, taxTotal, domain.ErrNotFound
		}
		if product.VendorID != vendorID {
			return nil, subtotal, taxTotal, domain.ErrForbidden
		}

		unitPrice := l.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.Price
		}
		if unitPrice.IsNegative() {
			return nil, subtotal, taxTotal, domain.ErrInvalidInput
		}
		rate := taxRateDecimal(product.TaxRate)
		lineSubtotal := l.Quantity.Mul(unitPrice)
		lineTax := lineSubtotal.Mul(rate)

		items = append(items, entity.SaleItem{
			ID:           uuid.New().String(),
			ProductID:    l.ProductID,
			Name:         product.Name,
			Quantity:     l.Quantity,
			UnitPrice:    unitPrice,
			TaxRate:      rate,
			LineSubtotal: lineSubtotal,
			LineTax:      lineTax,
			LineTotal:    lineSubtotal.Add(lineTax),
		})
		subtotal = subtotal.Add(lineSubtotal)
		taxTotal = taxTotal.Add(lineTax)
	}
	return items, subtotal, taxTotal, nil
}

// applyPayment valida y estampa los campos del método de pago: el efectivo
// exige monto recibido suficiente y calcula el vuelto; la tarjeta registra la
// metadata que devolvió la terminal.
func (uc *SaleUseCase) applyPayment(sale *entity.Sale, in dto.CreateSaleRequest) error {
	switch in.PaymentMethod {
	case entity.PaymentMethodCash:
		if in.Tendered == nil || in.Tendered.LessThan(sale.Total.Round(2)) {
			return domain.ErrInvalidInput
		}
		change := in.Tendered.Sub(sale.Total.Round(2))
		sale.Tendered = in.Tendered
		sale.ChangeDue = &change
	case entity.PaymentMethodCard:
		sale.ProcessorID = in.ProcessorID
		sale.PaymentRef = in.PaymentRef
		sale.CardBrand = in.CardBrand
		sale.CardLast4 = in.CardLast4
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// taxRateDecimal normaliza la tasa de impuesto: acepta porcentaje (19) o
// fracción (0.19) y devuelve siempre la fracción.
func taxRateDecimal(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}

// getOwned obtiene la venta verificando pertenencia al comercio; nil si no
// existe o es de otro comercio.
func (uc *SaleUseCase) getOwned(ctx context.Context, vendorID, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.VendorID != vendorID {
		return nil, nil
	}
	return sale, nil
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Name:         it.Name,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			TaxRate:      it.TaxRate,
			LineSubtotal: it.LineSubtotal,
			LineTax:      it.LineTax,
			LineTotal:    it.LineTotal,
		})
	}
	return dto.SaleResponse{
		ID:            s.ID,
		VendorID:      s.VendorID,
		LocationID:    s.LocationID,
		SessionID:     s.SessionID,
		UserID:        s.UserID,
		Number:        s.Number,
		Subtotal:      s.Subtotal,
		TaxTotal:      s.TaxTotal,
		Total:         s.Total,
		Status:        s.Status,
		PaymentMethod: s.PaymentMethod,
		ProcessorID:   s.ProcessorID,
		PaymentRef:    s.PaymentRef,
		CardBrand:     s.CardBrand,
		CardLast4:     s.CardLast4,
		Tendered:      s.Tendered,
		ChangeDue:     s.ChangeDue,
		ReceiptCode:   s.ReceiptCode,
		VoidedBy:      s.VoidedBy,
		VoidedAt:      s.VoidedAt,
		CreatedAt:     s.CreatedAt,
		Items:         items,
	}
}
