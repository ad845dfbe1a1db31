package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta POS.
const (
	SaleStatusCompleted = "completed"
	SaleStatusVoided    = "voided"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
)

// Sale representa la cabecera de una venta POS. Los totales los recalcula el
// servidor con aritmética decimal a partir de las líneas; si no coinciden con
// los enviados por el cliente la venta se rechaza. ReceiptCode es un código de
// verificación determinista (SHA-256) impreso en el recibo.
type Sale struct {
	ID            string
	VendorID      string
	LocationID    string
	SessionID     string
	UserID        string
	Number        string // consecutivo legible (snowflake)
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	Total         decimal.Decimal
	Status        string
	PaymentMethod string // cash, card
	ProcessorID   *string
	PaymentRef    string           // referencia/autorización devuelta por la terminal
	CardBrand     string           // visa, mastercard... (solo card)
	CardLast4     string           // últimos 4 dígitos (solo card)
	Tendered      *decimal.Decimal // efectivo recibido (solo cash)
	ChangeDue     *decimal.Decimal // vuelto (solo cash)
	ReceiptCode   string
	VoidedBy      *string
	VoidedAt      *time.Time
	CreatedAt     time.Time
	Items         []SaleItem
}

// SaleItem representa una línea de la venta. Name es una copia del nombre del
// producto al momento de la venta (el catálogo puede cambiar después).
type SaleItem struct {
	ID           string
	SaleID       string
	ProductID    string
	Name         string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	TaxRate      decimal.Decimal
	LineSubtotal decimal.Decimal // Quantity * UnitPrice
	LineTax      decimal.Decimal // LineSubtotal * TaxRate
	LineTotal    decimal.Decimal // LineSubtotal + LineTax
}
