package memory

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos en memoria (solo inserción).
type MovementRepo struct {
	s  *Store
	tx *state
}

// Create agrega un movimiento al final del libro.
func (r *MovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	return r.s.update(r.tx, func(st *state) error {
		st.movements = append(st.movements, *movement)
		return nil
	})
}

// List lista movimientos del más reciente al más antiguo.
func (r *MovementRepo) List(_ context.Context, limit, offset int) ([]*entity.Movement, error) {
	return r.list(func(entity.Movement) bool { return true }, limit, offset)
}

// ListByProduct lista los movimientos de un producto.
func (r *MovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.Movement, error) {
	return r.list(func(m entity.Movement) bool { return m.ProductID == productID }, limit, offset)
}

func (r *MovementRepo) list(keep func(entity.Movement) bool, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.s.view(r.tx, func(st *state) error {
		var list []*entity.Movement
		for _, m := range newestFirst(st.movements) {
			m := m
			if keep(m) {
				list = append(list, &m)
			}
		}
		out = paginate(list, limit, offset)
		return nil
	})
	return out, err
}
