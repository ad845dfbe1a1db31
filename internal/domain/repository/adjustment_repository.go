package repository

import (
	"context"
	"time"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// AdjustmentFilter criterios de listado de ajustes.
type AdjustmentFilter struct {
	VendorID   string
	LocationID string // opcional
	ProductID  string // opcional
	Type       string // opcional
	From, To   *time.Time
	Limit      int
	Offset     int
}

// AdjustmentRow es un ajuste enriquecido con los nombres que el cliente
// muestra sin hacer round-trips adicionales. Lo produce la DB con JOINs.
type AdjustmentRow struct {
	entity.InventoryAdjustment
	ProductName   string
	ProductSKU    string
	LocationName  string
	CreatedByName string
}

// AdjustmentRepository define el puerto de persistencia para ajustes de
// inventario. Los ajustes son inmutables: no hay Update ni Delete.
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.InventoryAdjustment) error
	GetByID(ctx context.Context, id string) (*AdjustmentRow, error)
	List(ctx context.Context, filter AdjustmentFilter) ([]AdjustmentRow, error)
	// ListByBatchID devuelve los ajustes estampados con un batch_id de auditoría.
	ListByBatchID(ctx context.Context, vendorID, batchID string) ([]AdjustmentRow, error)
}
