package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/gestion-stock/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// truncateBackedUp vacía las tablas que cubre un respaldo; users queda intacta.
const truncateBackedUp = `TRUNCATE returns, sales, movements, products, points_of_sale`

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	return r.run(ctx, pgx.TxOptions{}, "", fn)
}

// ReadOnly ejecuta fn en una transacción REPEATABLE READ de solo lectura: todas las
// consultas ven la misma instantánea aunque haya lotes confirmándose en paralelo.
func (r *TxRunner) ReadOnly(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, "", fn)
}

// Replace trunca las tablas respaldadas y ejecuta fn en la misma transacción.
func (r *TxRunner) Replace(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	return r.run(ctx, pgx.TxOptions{}, truncateBackedUp, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, prelude string, fn func(repos inventory.TxRepositories) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if prelude != "" {
		if _, err := tx.Exec(ctx, prelude); err != nil {
			return fmt.Errorf("vaciar tablas: %w", err)
		}
	}

	repos := inventory.TxRepositories{
		Products:     NewProductRepository(tx),
		Movements:    NewMovementRepository(tx),
		Sales:        NewSaleRepository(tx),
		Returns:      NewReturnRepository(tx),
		PointsOfSale: NewPointOfSaleRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
