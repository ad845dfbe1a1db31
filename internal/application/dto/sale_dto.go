package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest una línea del carrito de venta. UnitPrice en cero usa el
// precio vigente del producto.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body de POST /api/sales. El cliente envía los totales que
// calculó; el servidor los recalcula con aritmética decimal y rechaza la venta
// si no coinciden (422).
type CreateSaleRequest struct {
	LocationID    string            `json:"location_id" validate:"required"`
	SessionID     string            `json:"session_id" validate:"required"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	TaxTotal      decimal.Decimal   `json:"tax_total"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card"`

	// Pago con tarjeta: resultado del flujo semi-integrado de la terminal.
	ProcessorID *string `json:"processor_id"`
	PaymentRef  string  `json:"payment_ref" validate:"omitempty,max=100"`
	CardBrand   string  `json:"card_brand" validate:"omitempty,max=20"`
	CardLast4   string  `json:"card_last4" validate:"omitempty,len=4"`

	// Pago en efectivo: monto recibido; el servidor calcula el vuelto.
	Tendered *decimal.Decimal `json:"tendered"`
}

// ListSalesRequest filtros de GET /api/sales.
type ListSalesRequest struct {
	LocationID string `query:"location_id"`
	SessionID  string `query:"session_id"`
	DateRangeRequest
	PageRequest
}

// SaleItemResponse salida de una línea de venta.
type SaleItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	LineTax      decimal.Decimal `json:"line_tax"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// SaleResponse confirmación de la venta con el código de verificación del recibo.
type SaleResponse struct {
	ID            string             `json:"id"`
	VendorID      string             `json:"vendor_id"`
	LocationID    string             `json:"location_id"`
	SessionID     string             `json:"session_id"`
	UserID        string             `json:"user_id"`
	Number        string             `json:"number"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TaxTotal      decimal.Decimal    `json:"tax_total"`
	Total         decimal.Decimal    `json:"total"`
	Status        string             `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	ProcessorID   *string            `json:"processor_id,omitempty"`
	PaymentRef    string             `json:"payment_ref,omitempty"`
	CardBrand     string             `json:"card_brand,omitempty"`
	CardLast4     string             `json:"card_last4,omitempty"`
	Tendered      *decimal.Decimal   `json:"tendered,omitempty"`
	ChangeDue     *decimal.Decimal   `json:"change_due,omitempty"`
	ReceiptCode   string             `json:"receipt_code"`
	VoidedBy      *string            `json:"voided_by,omitempty"`
	VoidedAt      *time.Time         `json:"voided_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleItemResponse `json:"items,omitempty"`
}

// SaleListResponse historial paginado de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// EmailReceiptRequest body de POST /api/sales/:id/receipt/email.
type EmailReceiptRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// OpenSessionRequest apertura de caja en una sucursal.
type OpenSessionRequest struct {
	LocationID  string          `json:"location_id" validate:"required"`
	OpeningCash decimal.Decimal `json:"opening_cash"`
}

// CloseSessionRequest cierre de caja con el efectivo contado.
type CloseSessionRequest struct {
	ClosingCash decimal.Decimal `json:"closing_cash"`
}

// SessionResponse salida de una sesión de caja. Variance = contado - esperado,
// presente solo en sesiones cerradas.
type SessionResponse struct {
	ID           string           `json:"id"`
	VendorID     string           `json:"vendor_id"`
	LocationID   string           `json:"location_id"`
	OpenedBy     string           `json:"opened_by"`
	OpeningCash  decimal.Decimal  `json:"opening_cash"`
	ClosedBy     *string          `json:"closed_by,omitempty"`
	ClosingCash  *decimal.Decimal `json:"closing_cash,omitempty"`
	ExpectedCash *decimal.Decimal `json:"expected_cash,omitempty"`
	Variance     *decimal.Decimal `json:"variance,omitempty"`
	Status       string           `json:"status"`
	OpenedAt     time.Time        `json:"opened_at"`
	ClosedAt     *time.Time       `json:"closed_at,omitempty"`
}

// SessionListResponse lista paginada de sesiones de caja.
type SessionListResponse struct {
	Items []SessionResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
