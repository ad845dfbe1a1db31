package inventory

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	domaininv "github.com/dcastano/VerdePOS-api/internal/domain/inventory"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

// exportLimit tope de filas para los exports XLSX.
const exportLimit = 10000

// ParseQuantity convierte el acumulador del teclado numérico del cliente en
// decimal: "-5" → -5, "3.5" → 3.5. Cadena vacía o no numérica es inválida.
// No rechaza cero: el cero es un conteo válido en auditorías; los ajustes
// manuales rechazan el delta cero en la validación del caso de uso.
func ParseQuantity(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, domain.ErrInvalidInput
	}
	qty, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, domain.ErrInvalidInput
	}
	return qty, nil
}

// AdjustmentUseCase registra ajustes de inventario de forma transaccional con
// bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback. Es la única ruta de
// creación de ajustes: los manuales y los generados por auditorías pasan por
// Create con la misma validación.
type AdjustmentUseCase struct {
	txRunner     TxRunner
	adjRepo      repository.AdjustmentRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	exporter     Exporter
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(
	txRunner TxRunner,
	adjRepo repository.AdjustmentRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	exporter Exporter,
) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		txRunner:     txRunner,
		adjRepo:      adjRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		exporter:     exporter,
	}
}

// AdjustmentInput entrada ya parseada para crear un ajuste.
// BatchID viene nil en ajustes manuales; las auditorías lo estampan con el id
// de su cabecera.
type AdjustmentInput struct {
	VendorID   string
	UserID     string
	ProductID  string
	LocationID string
	Type       string
	Quantity   decimal.Decimal
	Reason     string
	Notes      string
	UnitCost   *decimal.Decimal
	BatchID    *string
}

// CreateFromRequest adapta el request HTTP al caso de uso Create: parsea la
// cantidad en string y devuelve el ajuste creado con los nombres resueltos.
func (uc *AdjustmentUseCase) CreateFromRequest(ctx context.Context, vendorID, userID string, in dto.CreateAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	qty, err := ParseQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	adj, err := uc.Create(ctx, AdjustmentInput{
		VendorID:   vendorID,
		UserID:     userID,
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Type:       in.Type,
		Quantity:   qty,
		Reason:     in.Reason,
		Notes:      in.Notes,
		UnitCost:   in.UnitCost,
	})
	if err != nil {
		return nil, err
	}
	row, err := uc.adjRepo.GetByID(ctx, adj.ID)
	if err != nil || row == nil {
		// el ajuste quedó persistido; sin la fila enriquecida se responde con lo que hay
		resp := AdjustmentResponseFromRow(repository.AdjustmentRow{InventoryAdjustment: *adj})
		return &resp, nil
	}
	resp := AdjustmentResponseFromRow(*row)
	return &resp, nil
}

// Create valida la entrada, inicia una transacción, bloquea la fila de stock,
// calcula quantity_before/quantity_after en el servidor y persiste el ajuste
// inmutable junto con la existencia resultante. Rechaza con
// ErrInsufficientStock si la existencia quedaría negativa.
func (uc *AdjustmentUseCase) Create(ctx context.Context, input AdjustmentInput) (*entity.InventoryAdjustment, error) {
	if input.ProductID == "" || input.LocationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidAdjustmentTypes[input.Type] {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, domain.ErrInvalidInput
	}
	// El costo unitario solo aplica a recepciones con entrada positiva.
	if input.UnitCost != nil {
		if input.Type != entity.AdjustmentReceiving || input.UnitCost.LessThan(decimal.Zero) || !input.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	if product.VendorID != input.VendorID {
		return nil, domain.ErrForbidden
	}
	location, err := uc.locationRepo.GetByID(ctx, input.LocationID)
	if err != nil || location == nil {
		return nil, domain.ErrNotFound
	}
	if location.VendorID != input.VendorID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	adj := &entity.InventoryAdjustment{
		ID:             uuid.New().String(),
		VendorID:       input.VendorID,
		ProductID:      input.ProductID,
		LocationID:     input.LocationID,
		Type:           input.Type,
		QuantityChange: input.Quantity,
		Reason:         strings.TrimSpace(input.Reason),
		Notes:          input.Notes,
		UnitCost:       input.UnitCost,
		BatchID:        input.BatchID,
		CreatedAt:      now,
		CreatedBy:      input.UserID,
	}

	err = uc.txRunner.Run(ctx, func(
		adjRepo repository.AdjustmentRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la fila de stock para que before/after sean consistentes
		// frente a ventas y traslados concurrentes.
		stock, err := stockRepo.GetForUpdate(ctx, input.ProductID, input.LocationID)
		if err != nil {
			return err
		}
		before := stock.Quantity
		after := before.Add(input.Quantity)
		if after.IsNegative() {
			return domain.ErrInsufficientStock
		}

		// Recepción con costo declarado: recalcula el costo promedio ponderado.
		if input.Type == entity.AdjustmentReceiving && input.UnitCost != nil {
			newCost := domaininv.CostCalculator(before, product.Cost, input.Quantity, *input.UnitCost)
			if err := productRepo.UpdateCost(ctx, input.ProductID, newCost); err != nil {
				return err
			}
		}

		stock.Quantity = after
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(ctx, stock); err != nil {
			return err
		}

		adj.QuantityBefore = before
		adj.QuantityAfter = after
		return adjRepo.Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	return adj, nil
}

// GetByID devuelve un ajuste con nombres resueltos, o nil si no existe o no
// pertenece al comercio.
func (uc *AdjustmentUseCase) GetByID(ctx context.Context, vendorID, id string) (*dto.AdjustmentResponse, error) {
	row, err := uc.adjRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil || row.VendorID != vendorID {
		return nil, nil
	}
	resp := AdjustmentResponseFromRow(*row)
	return &resp, nil
}

// List lista ajustes del comercio, más recientes primero.
func (uc *AdjustmentUseCase) List(ctx context.Context, vendorID string, in dto.ListAdjustmentsRequest) (*dto.AdjustmentListResponse, error) {
	in.DefaultPage()
	from, to, err := in.Parse()
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	rows, err := uc.adjRepo.List(ctx, repository.AdjustmentFilter{
		VendorID:   vendorID,
		LocationID: in.LocationID,
		ProductID:  in.ProductID,
		Type:       in.Type,
		From:       from,
		To:         to,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.AdjustmentResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, AdjustmentResponseFromRow(row))
	}
	return &dto.AdjustmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Export genera el historial de ajustes en XLSX con los filtros del listado.
func (uc *AdjustmentUseCase) Export(ctx context.Context, vendorID string, in dto.ListAdjustmentsRequest) (*bytes.Buffer, error) {
	from, to, err := in.Parse()
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	rows, err := uc.adjRepo.List(ctx, repository.AdjustmentFilter{
		VendorID:   vendorID,
		LocationID: in.LocationID,
		ProductID:  in.ProductID,
		Type:       in.Type,
		From:       from,
		To:         to,
		Limit:      exportLimit,
	})
	if err != nil {
		return nil, err
	}
	return uc.exporter.ExportAdjustments(rows)
}

// AdjustmentResponseFromRow mapea la fila enriquecida al DTO de salida.
func AdjustmentResponseFromRow(row repository.AdjustmentRow) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		ID:             row.ID,
		ProductID:      row.ProductID,
		ProductName:    row.ProductName,
		ProductSKU:     row.ProductSKU,
		LocationID:     row.LocationID,
		LocationName:   row.LocationName,
		Type:           row.Type,
		QuantityChange: row.QuantityChange,
		QuantityBefore: row.QuantityBefore,
		QuantityAfter:  row.QuantityAfter,
		Reason:         row.Reason,
		Notes:          row.Notes,
		BatchID:        row.BatchID,
		CreatedBy:      row.CreatedBy,
		CreatedByName:  row.CreatedByName,
		CreatedAt:      row.CreatedAt,
	}
}
