package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetInventoryTotals agrega el catálogo en una sola consulta.
// COALESCE devuelve cero con el catálogo vacío.
func (r *AnalyticsRepo) GetInventoryTotals(ctx context.Context) (repository.InventoryTotals, error) {
	const query = `
	SELECT
	    COALESCE(SUM(quantity), 0)::BIGINT                    AS total_quantity,
	    COUNT(*)                                              AS product_count,
	    COUNT(*) FILTER (WHERE quantity <= min_stock)         AS low_stock_count,
	    COALESCE(SUM(quantity * unit_price), 0)               AS stock_value
	FROM products`

	var totals repository.InventoryTotals
	var totalQuantity, productCount, lowStock int64
	err := r.q.QueryRow(ctx, query).Scan(&totalQuantity, &productCount, &lowStock, &totals.StockValue)
	if err != nil {
		return repository.InventoryTotals{}, fmt.Errorf("analytics.GetInventoryTotals: %w", err)
	}
	totals.TotalQuantity = int(totalQuantity)
	totals.ProductCount = int(productCount)
	totals.LowStockCount = int(lowStock)
	return totals, nil
}
