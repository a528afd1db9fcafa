package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, transaction_id, product_id, type, quantity, reason, customer,
	from_location, to_location, date, user_name, created_at`

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento. El libro es solo de inserción.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TransactionID, m.ProductID, m.Type, m.Quantity, nullString(m.Reason),
		nullString(m.Customer), nullString(m.FromLocation), nullString(m.ToLocation),
		m.Date, m.UserName, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// List lista movimientos del más reciente al más antiguo.
func (r *MovementRepo) List(ctx context.Context, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements
		ORDER BY date DESC, seq DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limitArg(limit), offsetArg(offset))
}

// ListByProduct lista los movimientos de un producto.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE product_id = $1
		ORDER BY date DESC, seq DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, productID, limitArg(limit), offsetArg(offset))
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := []*entity.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var reason, customer, from, to *string
	if err := row.Scan(
		&m.ID, &m.TransactionID, &m.ProductID, &m.Type, &m.Quantity, &reason,
		&customer, &from, &to, &m.Date, &m.UserName, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	m.Reason = derefString(reason)
	m.Customer = derefString(customer)
	m.FromLocation = derefString(from)
	m.ToLocation = derefString(to)
	return &m, nil
}
