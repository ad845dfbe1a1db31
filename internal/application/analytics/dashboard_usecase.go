// Package analytics construye el resumen del panel del comercio: ventas de
// hoy y del mes en curso, ticket promedio, alerta de stock bajo y productos
// más vendidos.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
	"github.com/dcastano/VerdePOS-api/internal/infrastructure/cache"
)

const dashboardTopProducts = 5 // productos en el widget de más vendidos

// DashboardUseCase genera el resumen del panel. El resultado se cachea en
// Redis con clave versionada (la clave incluye la fecha, así el caché rueda
// solo a medianoche; vender o anular incrementa la versión y lo invalida).
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	cache         *cache.Cache
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, c *cache.Cache) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, cache: c}
}

// GetSummary construye el DashboardResponse del comercio. locationID vacío
// agrega todas las sucursales.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, vendorID, locationID string) (*dto.DashboardResponse, error) {
	now := time.Now()
	day := now.Format("2006-01-02")
	key, err := uc.cache.BuildKey(ctx, cache.DashboardKey(vendorID, locationID, day, day)...)
	if err != nil {
		return nil, fmt.Errorf("dashboard: clave de caché: %w", err)
	}
	var out dto.DashboardResponse
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return uc.loadSummary(ctx, vendorID, locationID, now)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// loadSummary corre las cuatro consultas del panel en paralelo.
//
//  1. GetSalesMetrics(hoy)  → TodaySales + TodayCount (y el ticket promedio)
//  2. GetSalesMetrics(mes)  → MonthSales + MonthCount
//  3. GetTopProducts(mes)   → TopProducts
//  4. GetLowStockCount      → LowStockCount
func (uc *DashboardUseCase) loadSummary(ctx context.Context, vendorID, locationID string, now time.Time) (*dto.DashboardResponse, error) {
	// ── Rangos de fecha ────────────────────────────────────────────────────────
	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayEnd

	// ── Goroutines para paralelizar las 4 consultas DB ────────────────────────
	type metricsResult struct {
		total decimal.Decimal
		count int
		err   error
	}
	type topResult struct {
		rows []repository.TopProductRow
		err  error
	}
	type lowStockResult struct {
		count int
		err   error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)
	lowCh := make(chan lowStockResult, 1)

	go func() {
		total, count, err := uc.analyticsRepo.GetSalesMetrics(ctx, vendorID, locationID, todayStart, todayEnd)
		todayCh <- metricsResult{total, count, err}
	}()
	go func() {
		total, count, err := uc.analyticsRepo.GetSalesMetrics(ctx, vendorID, locationID, monthStart, monthEnd)
		monthCh <- metricsResult{total, count, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetTopProducts(ctx, vendorID, monthStart, monthEnd, dashboardTopProducts)
		topCh <- topResult{rows, err}
	}()
	go func() {
		count, err := uc.analyticsRepo.GetLowStockCount(ctx, vendorID)
		lowCh <- lowStockResult{count, err}
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh
	low := <-lowCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: productos top: %w", top.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}

	// ── Ticket promedio del día ────────────────────────────────────────────────
	averageTicket := decimal.Zero
	if today.count > 0 {
		averageTicket = today.total.Div(decimal.NewFromInt(int64(today.count))).Round(2)
	}

	topProducts := make([]dto.TopProductDTO, 0, len(top.rows))
	for _, r := range top.rows {
		topProducts = append(topProducts, dto.TopProductDTO{
			ProductID: r.ProductID,
			SKU:       r.SKU,
			Name:      r.ProductName,
			UnitsSold: r.UnitsSold,
			Revenue:   r.Revenue.Round(2),
		})
	}

	return &dto.DashboardResponse{
		TodaySales:    today.total.Round(2),
		TodayCount:    today.count,
		AverageTicket: averageTicket,
		MonthSales:    month.total.Round(2),
		MonthCount:    month.count,
		LowStockCount: low.count,
		TopProducts:   topProducts,
		DateLabel:     monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Agosto 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
