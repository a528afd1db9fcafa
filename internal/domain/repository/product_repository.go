package repository

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get* devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y lo bloquea hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByReference(ctx context.Context, reference string) (*entity.Product, error)
	// Update modifica los campos descriptivos; nunca Quantity.
	Update(ctx context.Context, product *entity.Product) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	// List con limit <= 0 devuelve todos los productos.
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	ListBelowThreshold(ctx context.Context) ([]*entity.Product, error)
	// Delete elimina el producto y en cascada sus movimientos, ventas y devoluciones.
	Delete(ctx context.Context, id string) error
}
