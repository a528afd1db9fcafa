package inventory

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// TxRepositories repositorios atados a una misma transacción.
type TxRepositories struct {
	Products     repository.ProductRepository
	Movements    repository.MovementRepository
	Sales        repository.SaleRepository
	Returns      repository.ReturnRepository
	PointsOfSale repository.PointOfSaleRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Commit si fn retorna nil, Rollback en cualquier otro caso. Garantiza atomicidad para el motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepositories) error) error
}

// StatsInvalidator descarta las estadísticas en caché después de una escritura confirmada.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}
