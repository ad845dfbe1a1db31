package inventory

import (
	"bytes"
	"context"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

// LevelsUseCase consultas de solo lectura del inventario agregado por sucursal:
// on_hand, held (traslados salientes en borrador o aprobados) y available.
type LevelsUseCase struct {
	levelRepo    repository.InventoryLevelRepository
	locationRepo repository.LocationRepository
	exporter     Exporter
}

// NewLevelsUseCase construye el caso de uso.
func NewLevelsUseCase(
	levelRepo repository.InventoryLevelRepository,
	locationRepo repository.LocationRepository,
	exporter Exporter,
) *LevelsUseCase {
	return &LevelsUseCase{levelRepo: levelRepo, locationRepo: locationRepo, exporter: exporter}
}

// List devuelve una fila por producto en la sucursal con retenciones
// calculadas. categoryID opcional filtra por categoría.
func (uc *LevelsUseCase) List(ctx context.Context, vendorID, locationID, categoryID string, page dto.PageRequest) (*dto.InventoryLevelListResponse, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	location, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil || location == nil {
		return nil, domain.ErrNotFound
	}
	if location.VendorID != vendorID {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	levels, err := uc.levelRepo.ListWithHolds(ctx, vendorID, locationID, categoryID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryLevelResponse, 0, len(levels))
	for _, l := range levels {
		items = append(items, dto.InventoryLevelResponse{
			ProductID:    l.ProductID,
			SKU:          l.SKU,
			Name:         l.ProductName,
			CategoryName: l.CategoryName,
			OnHand:       l.OnHand,
			Held:         l.Held,
			Available:    l.Available,
		})
	}
	return &dto.InventoryLevelListResponse{
		LocationID: locationID,
		Items:      items,
		Page:       dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListLowStock devuelve los productos en o por debajo de su umbral de alerta.
// locationID vacío agrega las existencias de todas las sucursales.
func (uc *LevelsUseCase) ListLowStock(ctx context.Context, vendorID, locationID string) (*dto.LowStockListResponse, error) {
	rows, err := uc.levelRepo.ListLowStock(ctx, vendorID, locationID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItemResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.LowStockItemResponse{
			ProductID:  r.ProductID,
			SKU:        r.SKU,
			Name:       r.ProductName,
			LocationID: r.LocationID,
			OnHand:     r.OnHand,
			MinStock:   r.MinStock,
		})
	}
	return &dto.LowStockListResponse{Items: items}, nil
}

// Export genera el inventario de la sucursal en XLSX.
func (uc *LevelsUseCase) Export(ctx context.Context, vendorID, locationID, categoryID string) (*bytes.Buffer, error) {
	if locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	location, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil || location == nil {
		return nil, domain.ErrNotFound
	}
	if location.VendorID != vendorID {
		return nil, domain.ErrForbidden
	}
	levels, err := uc.levelRepo.ListWithHolds(ctx, vendorID, locationID, categoryID, exportLimit, 0)
	if err != nil {
		return nil, err
	}
	return uc.exporter.ExportInventoryLevels(levels)
}
