package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard de ventas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics devuelve total vendido y número de ventas no anuladas del período.
// Usa COALESCE para devolver cero si no hay filas (período sin ventas).
func (r *AnalyticsRepo) GetSalesMetrics(
	ctx context.Context,
	vendorID, locationID string,
	from, to time.Time,
) (total decimal.Decimal, count int, err error) {
	query := `
	SELECT
	    COALESCE(SUM(total), 0) AS total,
	    COUNT(*)                AS sale_count
	FROM sales
	WHERE vendor_id = $1
	  AND created_at BETWEEN $2 AND $3
	  AND status = 'completed'`

	args := []interface{}{vendorID, from, to}
	if locationID != "" {
		query += ` AND location_id = $4`
		args = append(args, locationID)
	}

	err = r.q.QueryRow(ctx, query, args...).Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}
	return total, count, nil
}

// GetTopProducts devuelve los `limit` productos con mayor ingreso en el período.
func (r *AnalyticsRepo) GetTopProducts(
	ctx context.Context,
	vendorID string,
	from, to time.Time,
	limit int,
) ([]repository.TopProductRow, error) {
	const query = `
	SELECT
	    p.id                  AS product_id,
	    p.sku,
	    p.name                AS product_name,
	    SUM(si.quantity)      AS units_sold,
	    SUM(si.line_total)    AS revenue
	FROM sale_items si
	JOIN sales s    ON s.id = si.sale_id
	JOIN products p ON p.id = si.product_id
	WHERE s.vendor_id = $1
	  AND s.created_at BETWEEN $2 AND $3
	  AND s.status = 'completed'
	GROUP BY p.id, p.sku, p.name
	ORDER BY revenue DESC
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, vendorID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.TopProductRow
	for rows.Next() {
		var row repository.TopProductRow
		if err := rows.Scan(
			&row.ProductID,
			&row.SKU,
			&row.ProductName,
			&row.UnitsSold,
			&row.Revenue,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts rows: %w", err)
	}
	if results == nil {
		results = []repository.TopProductRow{}
	}
	return results, nil
}

// GetLowStockCount cuenta productos activos en o por debajo de su umbral min_stock
// agregando el stock de todas las sucursales.
func (r *AnalyticsRepo) GetLowStockCount(ctx context.Context, vendorID string) (int, error) {
	const query = `
	SELECT COUNT(*) FROM (
	    SELECT p.id
	    FROM products p
	    LEFT JOIN stock s ON s.product_id = p.id
	    WHERE p.vendor_id = $1
	      AND p.status    = 'active'
	      AND p.min_stock > 0
	    GROUP BY p.id, p.min_stock
	    HAVING COALESCE(SUM(s.quantity), 0) <= p.min_stock
	) low`

	var count int
	if err := r.q.QueryRow(ctx, query, vendorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("analytics.GetLowStockCount: %w", err)
	}
	return count, nil
}
