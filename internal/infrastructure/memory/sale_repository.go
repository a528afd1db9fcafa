package memory

import (
	"context"
	"time"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var (
	_ repository.SaleRepository   = (*SaleRepo)(nil)
	_ repository.ReturnRepository = (*ReturnRepo)(nil)
)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	s  *Store
	tx *state
}

// Create persiste una venta.
func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.s.update(r.tx, func(st *state) error {
		st.sales = append(st.sales, *sale)
		return nil
	})
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.s.view(r.tx, func(st *state) error {
		for _, s := range st.sales {
			if s.ID == id {
				s := s
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID dentro de la transacción serializada.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

// List lista ventas de la más reciente a la más antigua (por fecha).
func (r *SaleRepo) List(_ context.Context, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.s.view(r.tx, func(st *state) error {
		list := make([]*entity.Sale, 0, len(st.sales))
		for _, s := range newestFirst(st.sales) {
			s := s
			list = append(list, &s)
		}
		sortByNewest(list, func(s *entity.Sale) time.Time { return s.Date })
		out = paginate(list, limit, offset)
		return nil
	})
	return out, err
}

// CountBetween cuenta las ventas con fecha en [from, to).
func (r *SaleRepo) CountBetween(_ context.Context, from, to time.Time) (int, error) {
	n := 0
	err := r.s.view(r.tx, func(st *state) error {
		for _, s := range st.sales {
			if !s.Date.Before(from) && s.Date.Before(to) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// ReturnRepo devoluciones en memoria.
type ReturnRepo struct {
	s  *Store
	tx *state
}

// Create persiste una devolución.
func (r *ReturnRepo) Create(_ context.Context, ret *entity.SaleReturn) error {
	return r.s.update(r.tx, func(st *state) error {
		st.returns = append(st.returns, *ret)
		return nil
	})
}

// SumQuantityBySale total ya devuelto de una venta.
func (r *ReturnRepo) SumQuantityBySale(_ context.Context, saleID string) (int, error) {
	total := 0
	err := r.s.view(r.tx, func(st *state) error {
		for _, ret := range st.returns {
			if ret.SaleID == saleID {
				total += ret.Quantity
			}
		}
		return nil
	})
	return total, err
}

// List lista devoluciones de la más reciente a la más antigua.
func (r *ReturnRepo) List(_ context.Context, limit, offset int) ([]*entity.SaleReturn, error) {
	var out []*entity.SaleReturn
	err := r.s.view(r.tx, func(st *state) error {
		list := make([]*entity.SaleReturn, 0, len(st.returns))
		for _, ret := range newestFirst(st.returns) {
			ret := ret
			list = append(list, &ret)
		}
		out = paginate(list, limit, offset)
		return nil
	})
	return out, err
}
