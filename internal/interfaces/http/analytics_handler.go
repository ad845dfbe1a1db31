package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dcastano/VerdePOS-api/internal/application/analytics"
	"github.com/dcastano/VerdePOS-api/internal/application/dto"
)

// AnalyticsHandler métricas del tablero.
type AnalyticsHandler struct {
	uc *analytics.DashboardUseCase
}

func NewAnalyticsHandler(uc *analytics.DashboardUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Resumen del tablero
// @Description  Ventas de hoy y del mes, ticket promedio, productos más vendidos y alertas de stock bajo. El resultado se cachea por unos minutos.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "limitar a una sucursal"
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	vendorID := GetVendorID(c)
	if vendorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin comercio"})
	}
	out, err := h.uc.GetSummary(c.Context(), vendorID, c.Query("location_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
