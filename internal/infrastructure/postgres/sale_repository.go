package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var (
	_ repository.SaleRepository   = (*SaleRepo)(nil)
	_ repository.ReturnRepository = (*ReturnRepo)(nil)
)

const saleColumns = `id, movement_id, product_id, product_name, quantity, customer,
	date, user_name, status, created_at`

// SaleRepo ventas sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste una venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.MovementID, s.ProductID, s.ProductName, s.Quantity, nullString(s.Customer),
		s.Date, s.UserName, s.Status, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate bloquea la venta hasta el fin de la transacción (serializa devoluciones).
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) getOne(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// List lista ventas de la más reciente a la más antigua.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+saleColumns+` FROM sales ORDER BY date DESC, seq DESC LIMIT $1 OFFSET $2`,
		limitArg(limit), offsetArg(offset),
	)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	list := []*entity.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// CountBetween cuenta las ventas con fecha en [from, to).
func (r *SaleRepo) CountBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM sales WHERE date >= $1 AND date < $2`, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customer *string
	if err := row.Scan(
		&s.ID, &s.MovementID, &s.ProductID, &s.ProductName, &s.Quantity, &customer,
		&s.Date, &s.UserName, &s.Status, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	s.Customer = derefString(customer)
	return &s, nil
}

const returnColumns = `id, sale_id, movement_id, product_id, product_name, quantity, customer,
	reason, date, user_name, created_at`

// ReturnRepo devoluciones sobre PostgreSQL (usable con pool o tx).
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

// Create persiste una devolución.
func (r *ReturnRepo) Create(ctx context.Context, ret *entity.SaleReturn) error {
	query := `
		INSERT INTO returns (` + returnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		ret.ID, ret.SaleID, ret.MovementID, ret.ProductID, ret.ProductName, ret.Quantity,
		nullString(ret.Customer), nullString(ret.Reason), ret.Date, ret.UserName, ret.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create return: %w", err)
	}
	return nil
}

// SumQuantityBySale total ya devuelto de una venta (0 si no hay devoluciones).
func (r *ReturnRepo) SumQuantityBySale(ctx context.Context, saleID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0)::INT FROM returns WHERE sale_id = $1`, saleID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum returns: %w", err)
	}
	return total, nil
}

// List lista devoluciones de la más reciente a la más antigua.
func (r *ReturnRepo) List(ctx context.Context, limit, offset int) ([]*entity.SaleReturn, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+returnColumns+` FROM returns ORDER BY date DESC, seq DESC LIMIT $1 OFFSET $2`,
		limitArg(limit), offsetArg(offset),
	)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()
	list := []*entity.SaleReturn{}
	for rows.Next() {
		var ret entity.SaleReturn
		var customer, reason *string
		if err := rows.Scan(
			&ret.ID, &ret.SaleID, &ret.MovementID, &ret.ProductID, &ret.ProductName, &ret.Quantity,
			&customer, &reason, &ret.Date, &ret.UserName, &ret.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan return: %w", err)
		}
		ret.Customer = derefString(customer)
		ret.Reason = derefString(reason)
		list = append(list, &ret)
	}
	return list, rows.Err()
}
