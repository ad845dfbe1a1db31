package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, vendor_id, category_id, sku, barcode, name, description, unit, price, cost, tax_rate, min_stock, attributes, status, created_at, updated_at`

// Create persiste un nuevo producto. Cost inicia en 0 y se recalcula con las recepciones.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.VendorID, nullIfEmpty(product.CategoryID), product.SKU, product.Barcode,
		product.Name, product.Description, product.Unit, product.Price, product.Cost,
		product.TaxRate, product.MinStock, product.Attributes, product.Status,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByVendorAndSKU obtiene un producto por vendor y SKU.
func (r *ProductRepo) GetByVendorAndSKU(ctx context.Context, vendorID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE vendor_id = $1 AND sku = $2`
	p, err := scanProduct(r.q.QueryRow(ctx, query, vendorID, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// GetByVendorAndBarcode busca por código de barras (escaneo en el POS).
func (r *ProductRepo) GetByVendorAndBarcode(ctx context.Context, vendorID, barcode string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE vendor_id = $1 AND barcode = $2`
	p, err := scanProduct(r.q.QueryRow(ctx, query, vendorID, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return p, nil
}

// Update actualiza un producto existente. No permite modificar Cost (se maneja vía ajustes de recepción).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET category_id = $2, sku = $3, barcode = $4, name = $5, description = $6,
			unit = $7, price = $8, tax_rate = $9, min_stock = $10, attributes = $11, status = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, nullIfEmpty(product.CategoryID), product.SKU, product.Barcode, product.Name,
		product.Description, product.Unit, product.Price, product.TaxRate,
		product.MinStock, product.Attributes, product.Status, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateCost actualiza solo el costo del producto (usado por el motor de inventario).
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`,
		productID, cost,
	)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

// ListByVendor lista productos del vendor con paginación. El término de
// búsqueda se normaliza (minúsculas, sin acentos) y se compara contra name y
// sku. Requiere la extensión unaccent en la base de datos.
func (r *ProductRepo) ListByVendor(ctx context.Context, vendorID, categoryID, search string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE vendor_id = $1`
	args := []interface{}{vendorID}
	pos := 2

	if categoryID != "" {
		query += fmt.Sprintf(" AND category_id = $%d", pos)
		args = append(args, categoryID)
		pos++
	}
	if search != "" {
		term := normalizeSearchTerm(search)
		query += fmt.Sprintf(" AND (lower(unaccent(name)) LIKE $%d OR lower(sku) LIKE $%d)", pos, pos)
		args = append(args, "%"+escapeLike(term)+"%")
		pos++
	}

	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un producto por ID. Falla con ErrConflict si el producto
// tiene movimientos históricos (ajustes, traslados o ventas).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	var categoryID *string // NULL cuando la categoría fue eliminada (ON DELETE SET NULL)
	err := row.Scan(
		&p.ID, &p.VendorID, &categoryID, &p.SKU, &p.Barcode, &p.Name, &p.Description,
		&p.Unit, &p.Price, &p.Cost, &p.TaxRate, &p.MinStock, &p.Attributes, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	return &p, nil
}
