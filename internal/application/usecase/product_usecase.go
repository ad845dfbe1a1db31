package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
	"github.com/dcastano/VerdePOS-api/pkg/barcode"
	"github.com/dcastano/VerdePOS-api/pkg/catalog"
)

// ProductUseCase casos de uso CRUD para productos del catálogo. Cost no se
// edita por aquí: lo recalculan los ajustes de recepción con costo declarado.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo}
}

// Create crea un producto. El SKU es único por comercio, el código de barras
// (si viene) debe tener dígito de control GS1 válido y Cost inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, vendorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByVendorAndSKU(ctx, vendorID, sku)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.Barcode != "" {
		if err := barcode.Validate(in.Barcode); err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	unit := in.Unit
	if unit == "" {
		unit = catalog.UnitEach
	}
	if !catalog.ValidUnits[unit] {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.MinStock.IsNegative() || in.TaxRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.CategoryID != "" {
		if err := uc.checkCategory(ctx, vendorID, in.CategoryID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		VendorID:    vendorID,
		CategoryID:  in.CategoryID,
		SKU:         sku,
		Barcode:     in.Barcode,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Unit:        unit,
		Price:       in.Price,
		Cost:        decimal.Zero,
		TaxRate:     in.TaxRate,
		MinStock:    in.MinStock,
		Attributes:  in.Attributes,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto, o nil si no existe o no pertenece al comercio.
func (uc *ProductUseCase) GetByID(ctx context.Context, vendorID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.VendorID != vendorID {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// GetByBarcode resuelve el producto de un escaneo en caja. El código vacío no
// busca: coincidiría con cualquier producto sin código de barras.
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, vendorID, barcode string) (*dto.ProductResponse, error) {
	if barcode == "" {
		return nil, nil
	}
	product, err := uc.repo.GetByVendorAndBarcode(ctx, vendorID, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. El SKU no cambia después de creado y Cost se
// maneja vía ajustes de recepción.
func (uc *ProductUseCase) Update(ctx context.Context, vendorID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.VendorID != vendorID {
		return nil, nil
	}
	if in.CategoryID != nil {
		if *in.CategoryID != "" {
			if err := uc.checkCategory(ctx, vendorID, *in.CategoryID); err != nil {
				return nil, err
			}
		}
		product.CategoryID = *in.CategoryID
	}
	if in.Barcode != nil {
		if *in.Barcode != "" {
			if err := barcode.Validate(*in.Barcode); err != nil {
				return nil, domain.ErrInvalidInput
			}
		}
		product.Barcode = *in.Barcode
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Unit != nil {
		if !catalog.ValidUnits[*in.Unit] {
			return nil, domain.ErrInvalidInput
		}
		product.Unit = *in.Unit
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.TaxRate != nil {
		if in.TaxRate.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.TaxRate = *in.TaxRate
	}
	if in.MinStock != nil {
		if in.MinStock.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = *in.MinStock
	}
	if len(in.Attributes) > 0 {
		product.Attributes = in.Attributes
	}
	if in.Status != nil {
		product.Status = *in.Status
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos del comercio con búsqueda por nombre/SKU y filtro por
// categoría.
func (uc *ProductUseCase) List(ctx context.Context, vendorID, categoryID, search string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByVendor(ctx, vendorID, categoryID, search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto del comercio.
func (uc *ProductUseCase) Delete(ctx context.Context, vendorID, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.VendorID != vendorID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(ctx, id)
}

// checkCategory verifica que la categoría exista y sea del comercio.
func (uc *ProductUseCase) checkCategory(ctx context.Context, vendorID, categoryID string) error {
	category, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil || category == nil {
		return domain.ErrNotFound
	}
	if category.VendorID != vendorID {
		return domain.ErrForbidden
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		VendorID:    p.VendorID,
		CategoryID:  p.CategoryID,
		SKU:         p.SKU,
		Barcode:     p.Barcode,
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		Price:       p.Price,
		Cost:        p.Cost,
		TaxRate:     p.TaxRate,
		MinStock:    p.MinStock,
		Attributes:  p.Attributes,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
