package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferLineRequest una línea del carrito de traslado.
type TransferLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateTransferRequest body de POST /api/transfers (borrador) y de
// POST /api/transfers/ship (crear y despachar en una sola transacción).
type CreateTransferRequest struct {
	FromLocationID string                `json:"from_location_id" validate:"required"`
	ToLocationID   string                `json:"to_location_id" validate:"required"`
	Notes          string                `json:"notes" validate:"omitempty,max=1000"`
	Lines          []TransferLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdateTransferRequest guardado explícito del carrito: reemplaza las líneas
// y notas de un borrador.
type UpdateTransferRequest struct {
	Notes string                `json:"notes" validate:"omitempty,max=1000"`
	Lines []TransferLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ListTransfersRequest filtros de GET /api/transfers.
type ListTransfersRequest struct {
	LocationID string `query:"location_id"`
	Status     string `query:"status" validate:"omitempty,oneof=draft approved in_transit completed cancelled"`
	PageRequest
}

// TransferLineResponse salida de una línea de traslado.
type TransferLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// TransferResponse salida de un traslado con sus líneas.
type TransferResponse struct {
	ID             string                 `json:"id"`
	VendorID       string                 `json:"vendor_id"`
	Number         string                 `json:"number"`
	FromLocationID string                 `json:"from_location_id"`
	ToLocationID   string                 `json:"to_location_id"`
	Status         string                 `json:"status"`
	Notes          string                 `json:"notes,omitempty"`
	CreatedBy      string                 `json:"created_by"`
	ApprovedBy     *string                `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time             `json:"approved_at,omitempty"`
	ShippedAt      *time.Time             `json:"shipped_at,omitempty"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Lines          []TransferLineResponse `json:"lines,omitempty"`
}

// TransferListResponse lista paginada de traslados (sin líneas).
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
