package dto

import "github.com/shopspring/decimal"

// TopProductDTO un producto del ranking de más vendidos.
type TopProductDTO struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitsSold decimal.Decimal `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DashboardResponse resumen del día y del mes para el panel del comercio.
type DashboardResponse struct {
	TodaySales    decimal.Decimal `json:"today_sales"`
	TodayCount    int             `json:"today_count"`
	AverageTicket decimal.Decimal `json:"average_ticket"` // del día; 0 si no hay ventas
	MonthSales    decimal.Decimal `json:"month_sales"`
	MonthCount    int             `json:"month_count"`
	LowStockCount int             `json:"low_stock_count"`
	TopProducts   []TopProductDTO `json:"top_products"`
	DateLabel     string          `json:"date_label"` // ej: "Agosto 2026"
}
