package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de caja.
const (
	SessionStatusOpen   = "open"
	SessionStatusClosed = "closed"
)

// RegisterSession representa un turno de caja en una sucursal. Toda venta POS
// referencia una sesión abierta; al cerrar se registra el efectivo contado y
// la diferencia contra el esperado (apertura + ventas en efectivo).
type RegisterSession struct {
	ID           string
	VendorID     string
	LocationID   string
	OpenedBy     string
	OpeningCash  decimal.Decimal
	ClosedBy     *string
	ClosingCash  *decimal.Decimal // efectivo contado al cierre
	ExpectedCash *decimal.Decimal // apertura + ventas en efectivo, calculado al cierre
	Status       string
	OpenedAt     time.Time
	ClosedAt     *time.Time
}
