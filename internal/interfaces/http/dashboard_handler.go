package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/gestion-stock/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats devuelve los totales del inventario y las ventas del mes en curso.
// GET /api/stats
//
// Respuesta: DashboardStatsDTO (total_quantity, product_count, low_stock_count,
// monthly_sales, stock_value, date_label).
// Se sirve desde caché hasta la siguiente escritura confirmada.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.ComputeDashboardStats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}
