// Package bootstrap abre el almacenamiento elegido por STORE_DRIVER y expone sus repositorios
// a los binarios de cmd/.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-stock/internal/application/backup"
	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-stock/pkg/config"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// Repositories puertos de persistencia de un mismo almacenamiento.
type Repositories struct {
	Products     repository.ProductRepository
	Movements    repository.MovementRepository
	Sales        repository.SaleRepository
	Returns      repository.ReturnRepository
	PointsOfSale repository.PointOfSaleRepository
	Users        repository.UserRepository
	Analytics    repository.AnalyticsRepository
	TxRunner     inventory.TxRunner
	BackupStore  backup.Store
}

// BackupSource lee las tablas respaldadas en una sola transacción de lectura.
func (r *Repositories) BackupSource() backup.TxSource {
	return backup.TxSource{Reader: r.BackupStore}
}

// Open conecta el almacenamiento. La función devuelta libera el pool; con memory no hace nada.
// En development el almacenamiento en memoria arranca con productos de ejemplo.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Repositories, func(), error) {
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.New()
		if cfg.App.Env == "development" {
			store = memory.NewSeeded()
		}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		runner := memory.NewTxRunner(store)
		return &Repositories{
			Products:     store.Products(),
			Movements:    store.Movements(),
			Sales:        store.Sales(),
			Returns:      store.Returns(),
			PointsOfSale: store.PointsOfSale(),
			Users:        store.Users(),
			Analytics:    store.Analytics(),
			TxRunner:     runner,
			BackupStore:  runner,
		}, func() {}, nil

	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		runner := postgres.NewTxRunner(pool)
		return &Repositories{
			Products:     postgres.NewProductRepository(pool),
			Movements:    postgres.NewMovementRepository(pool),
			Sales:        postgres.NewSaleRepository(pool),
			Returns:      postgres.NewReturnRepository(pool),
			PointsOfSale: postgres.NewPointOfSaleRepository(pool),
			Users:        postgres.NewUserRepository(pool),
			Analytics:    postgres.NewAnalyticsRepository(pool),
			TxRunner:     runner,
			BackupStore:  runner,
		}, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("STORE_DRIVER no soportado %q", cfg.App.StoreDriver)
	}
}
