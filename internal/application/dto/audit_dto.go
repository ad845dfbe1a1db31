package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditCountRequest conteo físico de un producto. CountedQuantity llega como
// string con la misma semántica de teclado numérico que los ajustes.
type AuditCountRequest struct {
	ProductID       string `json:"product_id" validate:"required"`
	CountedQuantity string `json:"counted_quantity" validate:"required"`
}

// CreateAuditRequest body de POST /api/audits: una sesión de conteo físico.
type CreateAuditRequest struct {
	LocationID  string              `json:"location_id" validate:"required"`
	Name        string              `json:"name" validate:"required,min=1,max=200"`
	CategoryIDs []string            `json:"category_ids"`
	Counts      []AuditCountRequest `json:"counts" validate:"required,min=1,dive"`
}

// AuditItemError error de un producto durante el conteo best-effort.
type AuditItemError struct {
	ProductID string `json:"product_id"`
	Error     string `json:"error"`
}

// AuditResultResponse resultado del procesamiento del conteo.
type AuditResultResponse struct {
	Audit   AuditResponse    `json:"audit"`
	Applied int              `json:"applied"`
	Failed  int              `json:"failed"`
	Skipped int              `json:"skipped"`
	Errors  []AuditItemError `json:"errors,omitempty"`
}

// AuditResponse cabecera de una auditoría. Su ID es el batch_id estampado en
// los ajustes count_correction del conteo.
type AuditResponse struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendor_id"`
	LocationID  string    `json:"location_id"`
	Name        string    `json:"name"`
	CategoryIDs []string  `json:"category_ids,omitempty"`
	Applied     int       `json:"applied"`
	Failed      int       `json:"failed"`
	Skipped     int       `json:"skipped"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuditListResponse lista paginada de auditorías.
type AuditListResponse struct {
	Items []AuditResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// AuditDetailResponse cabecera más los ajustes que generó.
type AuditDetailResponse struct {
	Audit       AuditResponse        `json:"audit"`
	Adjustments []AdjustmentResponse `json:"adjustments"`
}

// FeedBatchResponse lote del feed de auditorías: varios ajustes de la misma
// sesión de conteo fundidos en una entrada.
type FeedBatchResponse struct {
	BatchID             string               `json:"batch_id"`
	Reason              string               `json:"reason"`
	LocationID          string               `json:"location_id"`
	CreatedAt           time.Time            `json:"created_at"`
	AdjustmentCount     int                  `json:"adjustment_count"`
	TotalQuantityChange decimal.Decimal      `json:"total_quantity_change"`
	Adjustments         []AdjustmentResponse `json:"adjustments"`
}

// FeedEntryResponse elemento del feed: exactamente uno de los dos campos viene
// poblado según Kind ("adjustment" o "batch").
type FeedEntryResponse struct {
	Kind       string              `json:"kind"`
	Adjustment *AdjustmentResponse `json:"adjustment,omitempty"`
	Batch      *FeedBatchResponse  `json:"batch,omitempty"`
}

// AuditFeedResponse feed ordenado descendente por fecha, listo para que el
// cliente lo agrupe por día calendario.
type AuditFeedResponse struct {
	Entries []FeedEntryResponse `json:"entries"`
}
