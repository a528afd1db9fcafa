package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s  *Store
	tx *state
}

// Create persiste un nuevo producto; la referencia debe ser única.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.s.update(r.tx, func(st *state) error {
		if _, ok := st.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		if referenceTaken(st, product.Reference, "") {
			return domain.ErrDuplicate
		}
		st.products[product.ID] = *product
		return nil
	})
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.view(r.tx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: dentro de una transacción el lock global ya está tomado.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// GetByReference obtiene un producto por referencia.
func (r *ProductRepo) GetByReference(_ context.Context, reference string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.view(r.tx, func(st *state) error {
		for _, p := range st.products {
			if p.Reference == reference {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Update actualiza los campos descriptivos. No modifica Quantity ni CreatedAt.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.s.update(r.tx, func(st *state) error {
		current, ok := st.products[product.ID]
		if !ok {
			return nil
		}
		if referenceTaken(st, product.Reference, product.ID) {
			return domain.ErrDuplicate
		}
		current.Name = product.Name
		current.ConventionalName = product.ConventionalName
		current.Reference = product.Reference
		current.Barcode = product.Barcode
		current.MinStock = product.MinStock
		current.Category = product.Category
		current.Brand = product.Brand
		current.Warehouse = product.Warehouse
		current.Image = product.Image
		current.UnitPrice = product.UnitPrice
		current.UpdatedAt = product.UpdatedAt
		st.products[product.ID] = current
		return nil
	})
}

// UpdateQuantity fija la cantidad del producto.
func (r *ProductRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	return r.s.update(r.tx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return nil
		}
		p.Quantity = quantity
		p.UpdatedAt = time.Now()
		st.products[id] = p
		return nil
	})
}

// List lista productos del más reciente al más antiguo.
func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.s.view(r.tx, func(st *state) error {
		out = paginate(sortedProducts(st, nil), limit, offset)
		return nil
	})
	return out, err
}

// ListBelowThreshold lista productos con quantity <= min_stock, de menor a mayor existencia.
func (r *ProductRepo) ListBelowThreshold(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.s.view(r.tx, func(st *state) error {
		out = sortedProducts(st, func(p *entity.Product) bool { return p.IsLowStock() })
		sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
		return nil
	})
	return out, err
}

// Delete elimina el producto y en cascada sus movimientos, ventas y devoluciones.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.s.update(r.tx, func(st *state) error {
		delete(st.products, id)
		st.movements = filter(st.movements, func(m entity.Movement) bool { return m.ProductID != id })
		st.sales = filter(st.sales, func(s entity.Sale) bool { return s.ProductID != id })
		st.returns = filter(st.returns, func(r entity.SaleReturn) bool { return r.ProductID != id })
		return nil
	})
}

func referenceTaken(st *state, reference, exceptID string) bool {
	for id, p := range st.products {
		if id != exceptID && p.Reference == reference {
			return true
		}
	}
	return false
}

func sortedProducts(st *state, keep func(*entity.Product) bool) []*entity.Product {
	list := make([]*entity.Product, 0, len(st.products))
	for _, p := range st.products {
		p := p
		if keep == nil || keep(&p) {
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Reference < list[j].Reference })
	sortByNewest(list, func(p *entity.Product) time.Time { return p.CreatedAt })
	return list
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
