// Package analytics contiene los casos de uso de lectura del dashboard de inventario.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// StatsCacheKey clave de las estadísticas en caché.
const StatsCacheKey = "dashboard:stats"

// ErrCacheMiss lo devuelve StatsCache.Get cuando no hay valor vigente.
var ErrCacheMiss = errors.New("stats: sin valor en caché")

// StatsCache puerto de caché para las estadísticas. Get devuelve un error que cumple
// errors.Is(err, ErrCacheMiss) o cualquier otro error cuando no hay valor.
type StatsCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// DashboardUseCase calcula las estadísticas de GET /api/stats.
//
// Fuente de datos: AnalyticsRepository (agregados del catálogo) y SaleRepository (ventas del mes).
// El resultado se guarda en caché ttl y se invalida tras cada escritura confirmada del libro.
// generation cuenta las invalidaciones: un cálculo que se cruzó con una no se guarda.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	saleRepo      repository.SaleRepository
	cache         StatsCache
	ttl           time.Duration
	log           *logger.Logger
	now           func() time.Time
	generation    atomic.Uint64
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	saleRepo repository.SaleRepository,
	cache StatsCache,
	ttl time.Duration,
	log *logger.Logger,
) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		saleRepo:      saleRepo,
		cache:         cache,
		ttl:           ttl,
		log:           log,
		now:           time.Now,
	}
}

// ComputeDashboardStats devuelve totales de inventario y ventas del mes calendario en curso.
//
// Dos consultas en paralelo:
//  1. GetInventoryTotals        → TotalQuantity, ProductCount, LowStockCount, StockValue
//  2. CountBetween(inicio de mes, inicio del mes siguiente) → MonthlySales
func (uc *DashboardUseCase) ComputeDashboardStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	if uc.cache != nil {
		var cached dto.DashboardStatsDTO
		err := uc.cache.Get(ctx, StatsCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			uc.log.Warn().Err(err).Msg("caché de estadísticas no disponible")
		}
	}

	gen := uc.generation.Load()
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	type totalsResult struct {
		totals repository.InventoryTotals
		err    error
	}
	type salesResult struct {
		count int
		err   error
	}
	totalsCh := make(chan totalsResult, 1)
	salesCh := make(chan salesResult, 1)

	go func() {
		t, err := uc.analyticsRepo.GetInventoryTotals(ctx)
		totalsCh <- totalsResult{t, err}
	}()
	go func() {
		n, err := uc.saleRepo.CountBetween(ctx, monthStart, nextMonth)
		salesCh <- salesResult{n, err}
	}()

	totals := <-totalsCh
	sales := <-salesCh
	if totals.err != nil {
		return nil, domain.WrapStore("estadísticas: totales de inventario", totals.err)
	}
	if sales.err != nil {
		return nil, domain.WrapStore("estadísticas: ventas del mes", sales.err)
	}

	stats := &dto.DashboardStatsDTO{
		TotalQuantity: totals.totals.TotalQuantity,
		ProductCount:  totals.totals.ProductCount,
		LowStockCount: totals.totals.LowStockCount,
		MonthlySales:  sales.count,
		StockValue:    totals.totals.StockValue.Round(2),
		DateLabel:     monthLabel(now),
	}

	if uc.cache != nil {
		uc.store(ctx, gen, stats)
	}
	return stats, nil
}

// store guarda stats salvo que haya habido una invalidación desde gen. Si la invalidación
// llega entre la comprobación y el Set, la segunda comprobación borra lo guardado.
func (uc *DashboardUseCase) store(ctx context.Context, gen uint64, stats *dto.DashboardStatsDTO) {
	if uc.generation.Load() != gen {
		return
	}
	if err := uc.cache.Set(ctx, StatsCacheKey, stats, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo guardar estadísticas en caché")
		return
	}
	if uc.generation.Load() != gen {
		if err := uc.cache.Del(ctx, StatsCacheKey); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de estadísticas")
		}
	}
}

// Invalidate descarta las estadísticas en caché. Se llama después de cada commit del libro.
func (uc *DashboardUseCase) Invalidate(ctx context.Context) {
	uc.generation.Add(1)
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Del(ctx, StatsCacheKey); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de estadísticas")
	}
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
