package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByVendorAndSKU(ctx context.Context, vendorID, sku string) (*entity.Product, error)
	// GetByVendorAndBarcode busca por código de barras (escaneo en el POS).
	GetByVendorAndBarcode(ctx context.Context, vendorID, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	// ListByVendor lista productos del comercio; search filtra por nombre o SKU
	// sin distinguir mayúsculas ni acentos, y categoryID es opcional.
	ListByVendor(ctx context.Context, vendorID, categoryID, search string, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
