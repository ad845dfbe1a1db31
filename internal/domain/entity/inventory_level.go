package entity

import "github.com/shopspring/decimal"

// InventoryLevel es la vista agregada de inventario por sucursal con retenciones:
// OnHand viene de stocks, Held suma las líneas de traslados salientes en borrador
// o aprobados (aún no despachados) y Available = OnHand - Held. Solo lectura,
// calculada por consulta; nunca se persiste.
type InventoryLevel struct {
	ProductID    string
	SKU          string
	ProductName  string
	CategoryName string
	LocationID   string
	OnHand       decimal.Decimal
	Held         decimal.Decimal
	Available    decimal.Decimal
}
