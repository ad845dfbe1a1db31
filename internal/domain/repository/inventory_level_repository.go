package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// LowStockRow producto en o por debajo de su umbral de alerta.
type LowStockRow struct {
	ProductID   string
	SKU         string
	ProductName string
	LocationID  string
	OnHand      decimal.Decimal
	MinStock    decimal.Decimal
}

// InventoryLevelRepository consultas de solo lectura del inventario agregado.
// Held se calcula sumando líneas de traslados salientes en draft/approved.
type InventoryLevelRepository interface {
	// ListWithHolds devuelve una fila por producto en la sucursal con
	// on_hand, held y available. categoryID opcional filtra por categoría.
	ListWithHolds(ctx context.Context, vendorID, locationID, categoryID string, limit, offset int) ([]entity.InventoryLevel, error)
	// ListLowStock devuelve productos en o por debajo de min_stock.
	ListLowStock(ctx context.Context, vendorID, locationID string) ([]LowStockRow, error)
}
