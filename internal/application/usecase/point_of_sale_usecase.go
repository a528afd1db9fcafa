package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// PointOfSaleUseCase CRUD de puntos de venta.
type PointOfSaleUseCase struct {
	repo repository.PointOfSaleRepository
	now  func() time.Time
}

// NewPointOfSaleUseCase construye el caso de uso.
func NewPointOfSaleUseCase(repo repository.PointOfSaleRepository) *PointOfSaleUseCase {
	return &PointOfSaleUseCase{repo: repo, now: time.Now}
}

// Create registra un punto de venta.
func (uc *PointOfSaleUseCase) Create(ctx context.Context, in dto.PointOfSaleRequest) (*dto.PointOfSaleResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	now := uc.now()
	pos := &entity.PointOfSale{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		Manager:   in.Manager,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, pos); err != nil {
		return nil, domain.WrapStore("crear punto de venta", err)
	}
	return toPointOfSaleResponse(pos), nil
}

// GetByID obtiene un punto de venta.
func (uc *PointOfSaleUseCase) GetByID(ctx context.Context, id string) (*dto.PointOfSaleResponse, error) {
	pos, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPointOfSaleResponse(pos), nil
}

// Update reemplaza los datos del punto de venta.
func (uc *PointOfSaleUseCase) Update(ctx context.Context, id string, in dto.PointOfSaleRequest) (*dto.PointOfSaleResponse, error) {
	pos, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	pos.Name = name
	pos.Address = in.Address
	pos.Phone = in.Phone
	pos.Email = in.Email
	pos.Manager = in.Manager
	pos.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, pos); err != nil {
		return nil, domain.WrapStore("actualizar punto de venta", err)
	}
	return toPointOfSaleResponse(pos), nil
}

// List devuelve todos los puntos de venta ordenados por nombre.
func (uc *PointOfSaleUseCase) List(ctx context.Context) ([]dto.PointOfSaleResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, domain.WrapStore("listar puntos de venta", err)
	}
	out := make([]dto.PointOfSaleResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPointOfSaleResponse(p))
	}
	return out, nil
}

// Delete elimina un punto de venta. Los movimientos que lo nombran conservan la etiqueta.
func (uc *PointOfSaleUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return domain.WrapStore("eliminar punto de venta", err)
	}
	return nil
}

func (uc *PointOfSaleUseCase) get(ctx context.Context, id string) (*entity.PointOfSale, error) {
	pos, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapStore("obtener punto de venta", err)
	}
	if pos == nil {
		return nil, &domain.NotFoundError{Resource: "punto de venta", ID: id}
	}
	return pos, nil
}

func toPointOfSaleResponse(p *entity.PointOfSale) *dto.PointOfSaleResponse {
	return &dto.PointOfSaleResponse{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		Phone:     p.Phone,
		Email:     p.Email,
		Manager:   p.Manager,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
