package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Attributes acepta JSON libre para campos del retail cannábico
// (strain, thc_percent, lote, etc.).
type CreateProductRequest struct {
	CategoryID  string          `json:"category_id" validate:"omitempty,uuid4"`
	SKU         string          `json:"sku" validate:"required,min=1,max=50"`
	Barcode     string          `json:"barcode" validate:"omitempty,max=14"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Unit        string          `json:"unit" validate:"omitempty,max=10"`
	Price       decimal.Decimal `json:"price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	MinStock    decimal.Decimal `json:"min_stock"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto.
// Cost no se actualiza por aquí: lo recalculan los ajustes de recepción.
type UpdateProductRequest struct {
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid4"`
	Barcode     *string          `json:"barcode" validate:"omitempty,max=14"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Unit        *string          `json:"unit" validate:"omitempty,max=10"`
	Price       *decimal.Decimal `json:"price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	Attributes  json.RawMessage  `json:"attributes,omitempty"`
	Status      *string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	VendorID    string          `json:"vendor_id"`
	CategoryID  string          `json:"category_id,omitempty"`
	SKU         string          `json:"sku"`
	Barcode     string          `json:"barcode,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	MinStock    decimal.Decimal `json:"min_stock"`
	Attributes  json.RawMessage `json:"attributes,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
