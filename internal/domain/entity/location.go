package entity

import "time"

// Location representa una sucursal o punto de venta donde se mantiene inventario.
type Location struct {
	ID        string
	VendorID  string
	Name      string
	Code      string // código corto único por comercio (ej. "CEN", "NOR")
	Address   string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
