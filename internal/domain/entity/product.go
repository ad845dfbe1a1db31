package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-sucursal).
// El stock se maneja por sucursal en la tabla stock; Attributes guarda campos
// propios del retail cannábico (strain, thc_percent, lote) como JSON libre.
type Product struct {
	ID          string
	VendorID    string
	CategoryID  string
	SKU         string // código único por comercio
	Barcode     string // EAN/UPC opcional, validado con dígito de control
	Name        string
	Description string
	Unit        string          // ea, g, 8th, oz, ml (ver pkg/catalog)
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo de reposición
	TaxRate     decimal.Decimal // tasa de impuesto (0, 0.08, 0.19...)
	MinStock    decimal.Decimal // umbral de alerta de stock bajo
	Attributes  json.RawMessage
	Status      string // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
