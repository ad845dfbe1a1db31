package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAdjustmentRequest body de POST /api/inventory/adjustments.
// Quantity llega como string: el teclado numérico del punto de venta envía su
// acumulador sin convertir ("-5", "3.5"); el servidor lo parsea y valida.
type CreateAdjustmentRequest struct {
	ProductID  string           `json:"product_id" validate:"required"`
	LocationID string           `json:"location_id" validate:"required"`
	Type       string           `json:"type" validate:"required"`
	Quantity   string           `json:"quantity" validate:"required"`
	Reason     string           `json:"reason" validate:"required,max=300"`
	Notes      string           `json:"notes" validate:"omitempty,max=1000"`
	UnitCost   *decimal.Decimal `json:"unit_cost"` // solo recepciones; recalcula el costo promedio
}

// ListAdjustmentsRequest filtros de GET /api/inventory/adjustments.
type ListAdjustmentsRequest struct {
	LocationID string `query:"location_id"`
	ProductID  string `query:"product_id"`
	Type       string `query:"type"`
	DateRangeRequest
	PageRequest
}

// AdjustmentResponse salida de un ajuste con los nombres ya resueltos.
type AdjustmentResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	ProductSKU     string          `json:"product_sku"`
	LocationID     string          `json:"location_id"`
	LocationName   string          `json:"location_name"`
	Type           string          `json:"type"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Reason         string          `json:"reason"`
	Notes          string          `json:"notes,omitempty"`
	BatchID        *string         `json:"batch_id,omitempty"`
	CreatedBy      string          `json:"created_by"`
	CreatedByName  string          `json:"created_by_name,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AdjustmentListResponse lista paginada de ajustes.
type AdjustmentListResponse struct {
	Items []AdjustmentResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// InventoryLevelResponse una fila de inventario con retenciones:
// available = on_hand - held.
type InventoryLevelResponse struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	CategoryName string          `json:"category_name,omitempty"`
	OnHand       decimal.Decimal `json:"on_hand"`
	Held         decimal.Decimal `json:"held"`
	Available    decimal.Decimal `json:"available"`
}

// InventoryLevelListResponse inventario de la sucursal.
type InventoryLevelListResponse struct {
	LocationID string                   `json:"location_id"`
	Items      []InventoryLevelResponse `json:"items"`
	Page       PageResponse             `json:"page"`
}

// LowStockItemResponse producto en o por debajo de su umbral de alerta.
type LowStockItemResponse struct {
	ProductID  string          `json:"product_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	LocationID string          `json:"location_id,omitempty"`
	OnHand     decimal.Decimal `json:"on_hand"`
	MinStock   decimal.Decimal `json:"min_stock"`
}

// LowStockListResponse alertas de stock bajo.
type LowStockListResponse struct {
	Items []LowStockItemResponse `json:"items"`
}
