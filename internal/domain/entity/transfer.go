package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un traslado.
const (
	TransferStatusDraft     = "draft"      // carrito guardado, editable
	TransferStatusApproved  = "approved"   // aprobado por un manager, listo para despachar
	TransferStatusInTransit = "in_transit" // despachado: stock descontado en origen
	TransferStatusCompleted = "completed"  // recibido: stock sumado en destino
	TransferStatusCancelled = "cancelled"  // descartado antes de despachar
)

// transferTransitions transiciones válidas entre estados.
var transferTransitions = map[string][]string{
	TransferStatusDraft:     {TransferStatusApproved, TransferStatusInTransit, TransferStatusCancelled},
	TransferStatusApproved:  {TransferStatusInTransit, TransferStatusCancelled},
	TransferStatusInTransit: {TransferStatusCompleted},
}

// Transfer representa un traslado de inventario entre dos sucursales.
// Los borradores y aprobados retienen stock en la sucursal de origen
// (ver InventoryLevel.Held); el despacho descuenta y la recepción suma.
type Transfer struct {
	ID             string
	VendorID       string
	Number         string // consecutivo legible (snowflake)
	FromLocationID string
	ToLocationID   string
	Status         string
	Notes          string
	CreatedBy      string
	ApprovedBy     *string
	ApprovedAt     *time.Time
	ShippedAt      *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Lines          []TransferLine
}

// TransferLine una línea del traslado; las líneas se indexan por producto
// (un producto no puede repetirse dentro del mismo traslado).
type TransferLine struct {
	ID         string
	TransferID string
	ProductID  string
	Quantity   decimal.Decimal // siempre positiva
}

// CanTransitionTo indica si el estado actual admite la transición solicitada.
func (t Transfer) CanTransitionTo(next string) bool {
	for _, s := range transferTransitions[t.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// IsEditable indica si las líneas aún pueden modificarse (solo en borrador).
func (t Transfer) IsEditable() bool {
	return t.Status == TransferStatusDraft
}
