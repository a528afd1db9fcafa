package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// InventoryTotals agregados del catálogo para el dashboard.
type InventoryTotals struct {
	TotalQuantity int
	ProductCount  int
	LowStockCount int             // quantity <= min_stock
	StockValue    decimal.Decimal // Σ quantity × unit_price
}

// AnalyticsRepository consultas de solo lectura para el dashboard.
type AnalyticsRepository interface {
	GetInventoryTotals(ctx context.Context) (InventoryTotals, error)
}
