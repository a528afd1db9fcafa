package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var _ repository.PointOfSaleRepository = (*PointOfSaleRepo)(nil)

// PointOfSaleRepo puntos de venta en memoria.
type PointOfSaleRepo struct {
	s  *Store
	tx *state
}

// Create persiste un punto de venta.
func (r *PointOfSaleRepo) Create(_ context.Context, pos *entity.PointOfSale) error {
	return r.s.update(r.tx, func(st *state) error {
		if _, ok := st.pointsOfSale[pos.ID]; ok {
			return domain.ErrDuplicate
		}
		st.pointsOfSale[pos.ID] = *pos
		return nil
	})
}

// GetByID obtiene un punto de venta por ID.
func (r *PointOfSaleRepo) GetByID(_ context.Context, id string) (*entity.PointOfSale, error) {
	var out *entity.PointOfSale
	err := r.s.view(r.tx, func(st *state) error {
		if p, ok := st.pointsOfSale[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// Update reemplaza los datos del punto de venta (conserva CreatedAt).
func (r *PointOfSaleRepo) Update(_ context.Context, pos *entity.PointOfSale) error {
	return r.s.update(r.tx, func(st *state) error {
		current, ok := st.pointsOfSale[pos.ID]
		if !ok {
			return nil
		}
		updated := *pos
		updated.CreatedAt = current.CreatedAt
		st.pointsOfSale[pos.ID] = updated
		return nil
	})
}

// List lista puntos de venta por nombre.
func (r *PointOfSaleRepo) List(_ context.Context) ([]*entity.PointOfSale, error) {
	var out []*entity.PointOfSale
	err := r.s.view(r.tx, func(st *state) error {
		out = make([]*entity.PointOfSale, 0, len(st.pointsOfSale))
		for _, p := range st.pointsOfSale {
			p := p
			out = append(out, &p)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

// Delete elimina un punto de venta.
func (r *PointOfSaleRepo) Delete(_ context.Context, id string) error {
	return r.s.update(r.tx, func(st *state) error {
		delete(st.pointsOfSale, id)
		return nil
	})
}
