package postgres

import (
	"context"
	"fmt"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

var _ repository.InventoryLevelRepository = (*InventoryLevelRepo)(nil)

// InventoryLevelRepo implementación de InventoryLevelRepository sobre PostgreSQL.
// Vista de solo lectura: agrega stock más retenciones por traslados pendientes.
type InventoryLevelRepo struct {
	q Querier
}

// NewInventoryLevelRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryLevelRepository(q Querier) *InventoryLevelRepo {
	return &InventoryLevelRepo{q: q}
}

// ListWithHolds devuelve una fila por producto en la sucursal. held suma las
// líneas de traslados salientes en draft o approved: los in_transit ya
// descontaron stock al despachar, sumarlos duplicaría la retención.
func (r *InventoryLevelRepo) ListWithHolds(ctx context.Context, vendorID, locationID, categoryID string, limit, offset int) ([]entity.InventoryLevel, error) {
	query := `
		SELECT
			p.id,
			p.sku,
			p.name,
			COALESCE(c.name, '')         AS category_name,
			$2::text                     AS location_id,
			COALESCE(s.quantity, 0)      AS on_hand,
			COALESCE(h.held, 0)          AS held,
			COALESCE(s.quantity, 0) - COALESCE(h.held, 0) AS available
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN stock s ON s.product_id = p.id AND s.location_id = $2
		LEFT JOIN (
			SELECT tl.product_id, SUM(tl.quantity) AS held
			FROM transfer_lines tl
			JOIN transfers t ON t.id = tl.transfer_id
			WHERE t.from_location_id = $2 AND t.status IN ('draft', 'approved')
			GROUP BY tl.product_id
		) h ON h.product_id = p.id
		WHERE p.vendor_id = $1 AND p.status = 'active'`

	args := []interface{}{vendorID, locationID}
	pos := 3

	if categoryID != "" {
		query += fmt.Sprintf(" AND p.category_id = $%d", pos)
		args = append(args, categoryID)
		pos++
	}

	query += fmt.Sprintf(" ORDER BY p.name ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory with holds: %w", err)
	}
	defer rows.Close()

	var levels []entity.InventoryLevel
	for rows.Next() {
		var l entity.InventoryLevel
		if err := rows.Scan(
			&l.ProductID, &l.SKU, &l.ProductName, &l.CategoryName, &l.LocationID,
			&l.OnHand, &l.Held, &l.Available,
		); err != nil {
			return nil, fmt.Errorf("scan inventory level: %w", err)
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

// ListLowStock devuelve los productos del vendor cuyo stock actual está en o
// por debajo de su umbral min_stock. Si locationID es vacío, considera el
// stock agregado de todas las sucursales. Ordena por déficit descendente.
func (r *InventoryLevelRepo) ListLowStock(ctx context.Context, vendorID, locationID string) ([]repository.LowStockRow, error) {
	var (
		query string
		args  []any
	)

	if locationID != "" {
		query = `
			SELECT
				p.id,
				p.sku,
				p.name,
				$2::text                 AS location_id,
				COALESCE(s.quantity, 0)  AS on_hand,
				p.min_stock
			FROM products p
			LEFT JOIN stock s ON s.product_id = p.id AND s.location_id = $2
			WHERE p.vendor_id = $1
			  AND p.status    = 'active'
			  AND p.min_stock > 0
			  AND COALESCE(s.quantity, 0) <= p.min_stock
			ORDER BY (p.min_stock - COALESCE(s.quantity, 0)) DESC`
		args = []any{vendorID, locationID}
	} else {
		query = `
			SELECT
				p.id,
				p.sku,
				p.name,
				''                           AS location_id,
				COALESCE(SUM(s.quantity), 0) AS on_hand,
				p.min_stock
			FROM products p
			LEFT JOIN stock s ON s.product_id = p.id
			WHERE p.vendor_id = $1
			  AND p.status    = 'active'
			  AND p.min_stock > 0
			GROUP BY p.id, p.sku, p.name, p.min_stock
			HAVING COALESCE(SUM(s.quantity), 0) <= p.min_stock
			ORDER BY (p.min_stock - COALESCE(SUM(s.quantity), 0)) DESC`
		args = []any{vendorID}
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var items []repository.LowStockRow
	for rows.Next() {
		var item repository.LowStockRow
		if err := rows.Scan(
			&item.ProductID, &item.SKU, &item.ProductName,
			&item.LocationID, &item.OnHand, &item.MinStock,
		); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
