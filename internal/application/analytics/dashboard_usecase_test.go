package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/application/analytics"
	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/cache"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memory"
)

func addProduct(t *testing.T, store *memory.Store, id string, qty, minStock int, price string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, store.Products().Create(context.Background(), &entity.Product{
		ID: id, Name: id, Reference: "REF-" + id, Quantity: qty, MinStock: minStock,
		UnitPrice: decimal.RequireFromString(price), CreatedAt: now, UpdatedAt: now,
	}))
}

func TestComputeDashboardStats(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	addProduct(t, store, "A", 20, 10, "2.50")
	addProduct(t, store, "B", 10, 10, "1") // en el umbral: stock bajo
	addProduct(t, store, "C", 0, 5, "100") // agotado: stock bajo
	now := time.Now()
	require.NoError(t, store.Sales().Create(ctx, &entity.Sale{ID: "s1", Quantity: 1, Date: now}))
	require.NoError(t, store.Sales().Create(ctx, &entity.Sale{ID: "s2", Quantity: 1, Date: now}))
	require.NoError(t, store.Sales().Create(ctx, &entity.Sale{ID: "old", Quantity: 1, Date: now.AddDate(0, -2, 0)}))

	uc := analytics.NewDashboardUseCase(store.Analytics(), store.Sales(), nil, 0, nil)
	stats, err := uc.ComputeDashboardStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 30, stats.TotalQuantity)
	assert.Equal(t, 3, stats.ProductCount)
	assert.Equal(t, 2, stats.LowStockCount)
	assert.Equal(t, 2, stats.MonthlySales)
	assert.True(t, decimal.NewFromInt(60).Equal(stats.StockValue), stats.StockValue.String())
	assert.NotEmpty(t, stats.DateLabel)
}

func TestComputeDashboardStats_CatalogoVacio(t *testing.T) {
	store := memory.New()
	uc := analytics.NewDashboardUseCase(store.Analytics(), store.Sales(), nil, 0, nil)
	stats, err := uc.ComputeDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalQuantity)
	assert.Zero(t, stats.ProductCount)
	assert.Zero(t, stats.MonthlySales)
	assert.True(t, stats.StockValue.IsZero())
}

func TestComputeDashboardStats_CacheEInvalidacion(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	addProduct(t, store, "A", 20, 10, "1")

	c := cache.NewMemoryCache()
	uc := analytics.NewDashboardUseCase(store.Analytics(), store.Sales(), c, time.Minute, nil)
	ledger := inventory.NewLedgerUseCase(memory.NewTxRunner(store), uc, nil)

	first, err := uc.ComputeDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, first.TotalQuantity)

	// Escritura fuera del libro: la caché sigue sirviendo el valor anterior.
	require.NoError(t, store.Products().UpdateQuantity(ctx, "A", 99))
	cached, err := uc.ComputeDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, cached.TotalQuantity)

	// Un lote confirmado invalida la caché.
	_, err = ledger.ApplyMovementBatch(ctx, inventory.MovementBatchInput{
		Type:   entity.MovementTypeExit,
		Items:  []inventory.MovementItem{{ProductID: "A", Quantity: 9}},
		Reason: entity.ReasonSale,
	})
	require.NoError(t, err)

	fresh, err := uc.ComputeDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90, fresh.TotalQuantity)
	assert.Equal(t, 1, fresh.MonthlySales)
}

type failingTotals struct{}

func (failingTotals) GetInventoryTotals(context.Context) (repository.InventoryTotals, error) {
	return repository.InventoryTotals{}, errors.New("conexión perdida")
}

func TestComputeDashboardStats_ErrorDeRepositorio(t *testing.T) {
	store := memory.New()
	uc := analytics.NewDashboardUseCase(failingTotals{}, store.Sales(), cache.NewNullCache(), time.Minute, nil)
	_, err := uc.ComputeDashboardStats(context.Background())
	require.ErrorIs(t, err, domain.ErrStoreFailure)
	assert.Contains(t, err.Error(), "conexión perdida")
}

// commitDuringRead simula un lote confirmado mientras se leen los totales: la lectura
// devuelve el valor previo y el libro invalida antes de que el cálculo guarde en caché.
type commitDuringRead struct {
	repository.AnalyticsRepository
	store *memory.Store
	uc    *analytics.DashboardUseCase
	once  bool
}

func (r *commitDuringRead) GetInventoryTotals(ctx context.Context) (repository.InventoryTotals, error) {
	totals, err := r.AnalyticsRepository.GetInventoryTotals(ctx)
	if !r.once {
		r.once = true
		if err := r.store.Products().UpdateQuantity(ctx, "A", 5); err != nil {
			return totals, err
		}
		r.uc.Invalidate(ctx)
	}
	return totals, err
}

func TestComputeDashboardStats_InvalidacionDuranteLecturaNoCacheaValorViejo(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	addProduct(t, store, "A", 20, 10, "1")

	repo := &commitDuringRead{AnalyticsRepository: store.Analytics(), store: store}
	uc := analytics.NewDashboardUseCase(repo, store.Sales(), cache.NewMemoryCache(), time.Minute, nil)
	repo.uc = uc

	stale, err := uc.ComputeDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, stale.TotalQuantity, "la lectura cruzada devuelve lo que leyó")

	fresh, err := uc.ComputeDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, fresh.TotalQuantity, "el valor viejo no quedó en caché")
}
