package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// PointOfSaleRepository puerto de persistencia para puntos de venta.
type PointOfSaleRepository interface {
	Create(ctx context.Context, pos *entity.PointOfSale) error
	GetByID(ctx context.Context, id string) (*entity.PointOfSale, error)
	Update(ctx context.Context, pos *entity.PointOfSale) error
	List(ctx context.Context) ([]*entity.PointOfSale, error)
	Delete(ctx context.Context, id string) error
}
