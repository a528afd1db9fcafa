package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

var _ repository.PointOfSaleRepository = (*PointOfSaleRepo)(nil)

// PointOfSaleRepo puntos de venta sobre PostgreSQL.
type PointOfSaleRepo struct {
	q Querier
}

// NewPointOfSaleRepository construye el adaptador.
func NewPointOfSaleRepository(q Querier) *PointOfSaleRepo {
	return &PointOfSaleRepo{q: q}
}

// Create persiste un punto de venta.
func (r *PointOfSaleRepo) Create(ctx context.Context, p *entity.PointOfSale) error {
	query := `
		INSERT INTO points_of_sale (id, name, address, phone, email, manager, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, nullString(p.Address), nullString(p.Phone), nullString(p.Email),
		nullString(p.Manager), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert point of sale: %w", err)
	}
	return nil
}

// GetByID obtiene un punto de venta por ID.
func (r *PointOfSaleRepo) GetByID(ctx context.Context, id string) (*entity.PointOfSale, error) {
	p, err := scanPointOfSale(r.q.QueryRow(ctx, `
		SELECT id, name, address, phone, email, manager, created_at, updated_at
		FROM points_of_sale WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get point of sale: %w", err)
	}
	return p, nil
}

// Update reemplaza los datos del punto de venta (conserva created_at).
func (r *PointOfSaleRepo) Update(ctx context.Context, p *entity.PointOfSale) error {
	_, err := r.q.Exec(ctx, `
		UPDATE points_of_sale SET name = $2, address = $3, phone = $4, email = $5, manager = $6, updated_at = $7
		WHERE id = $1`,
		p.ID, p.Name, nullString(p.Address), nullString(p.Phone), nullString(p.Email),
		nullString(p.Manager), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update point of sale: %w", err)
	}
	return nil
}

// List lista puntos de venta por nombre.
func (r *PointOfSaleRepo) List(ctx context.Context) ([]*entity.PointOfSale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, address, phone, email, manager, created_at, updated_at
		FROM points_of_sale ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list points of sale: %w", err)
	}
	defer rows.Close()
	list := []*entity.PointOfSale{}
	for rows.Next() {
		p, err := scanPointOfSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan point of sale: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un punto de venta.
func (r *PointOfSaleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM points_of_sale WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete point of sale: %w", err)
	}
	return nil
}

func scanPointOfSale(row pgx.Row) (*entity.PointOfSale, error) {
	var p entity.PointOfSale
	var address, phone, email, manager *string
	if err := row.Scan(&p.ID, &p.Name, &address, &phone, &email, &manager, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Address = derefString(address)
	p.Phone = derefString(phone)
	p.Email = derefString(email)
	p.Manager = derefString(manager)
	return &p, nil
}
