package memory

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregados de solo lectura sobre el estado publicado.
type AnalyticsRepo struct {
	s *Store
}

// GetInventoryTotals suma cantidades, cuenta productos y productos en stock bajo.
func (r *AnalyticsRepo) GetInventoryTotals(_ context.Context) (repository.InventoryTotals, error) {
	totals := repository.InventoryTotals{StockValue: decimal.Zero}
	err := r.s.view(nil, func(st *state) error {
		for _, p := range st.products {
			totals.ProductCount++
			totals.TotalQuantity += p.Quantity
			if p.IsLowStock() {
				totals.LowStockCount++
			}
			totals.StockValue = totals.StockValue.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
		}
		return nil
	})
	return totals, err
}
