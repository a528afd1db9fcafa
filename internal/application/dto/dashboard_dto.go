package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/stats.
type DashboardStatsDTO struct {
	TotalQuantity int             `json:"total_quantity"`  // unidades en existencia
	ProductCount  int             `json:"product_count"`   // productos distintos
	LowStockCount int             `json:"low_stock_count"` // quantity <= min_stock
	MonthlySales  int             `json:"monthly_sales"`   // ventas del mes calendario en curso
	StockValue    decimal.Decimal `json:"stock_value"`     // Σ quantity × unit_price
	DateLabel     string          `json:"date_label"`      // ej: "Octubre 2026"
}
