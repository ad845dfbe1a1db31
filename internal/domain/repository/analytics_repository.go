package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TopProductRow resultado crudo de la consulta de productos más vendidos.
// Lo produce la DB; el use case lo convierte en DTO.
type TopProductRow struct {
	ProductID   string
	SKU         string
	ProductName string
	UnitsSold   decimal.Decimal
	Revenue     decimal.Decimal // suma de line_total de ventas no anuladas
}

// AnalyticsRepository define las consultas de lectura para el dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// GetSalesMetrics devuelve total vendido y número de ventas no anuladas
	// del comercio en el rango dado. locationID opcional restringe a una sucursal.
	// Usa COALESCE para devolver cero si no hay ventas en el período.
	GetSalesMetrics(ctx context.Context, vendorID, locationID string, from, to time.Time) (total decimal.Decimal, count int, err error)

	// GetTopProducts devuelve los `limit` productos con mayor ingreso en el período.
	GetTopProducts(ctx context.Context, vendorID string, from, to time.Time, limit int) ([]TopProductRow, error)

	// GetLowStockCount cuenta productos en o por debajo de su min_stock.
	GetLowStockCount(ctx context.Context, vendorID string) (int, error)
}
