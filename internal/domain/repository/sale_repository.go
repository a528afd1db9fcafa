package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// SaleRepository puerto de persistencia para ventas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, error)
	// CountBetween cuenta las ventas con fecha en [from, to).
	CountBetween(ctx context.Context, from, to time.Time) (int, error)
}

// ReturnRepository puerto de persistencia para devoluciones.
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.SaleReturn) error
	// SumQuantityBySale total ya devuelto de una venta (0 si no hay devoluciones).
	SumQuantityBySale(ctx context.Context, saleID string) (int, error)
	List(ctx context.Context, limit, offset int) ([]*entity.SaleReturn, error)
}
