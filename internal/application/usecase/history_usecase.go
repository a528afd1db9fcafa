package usecase

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
)

// HistoryUseCase consultas de solo lectura sobre el libro: movimientos, ventas y devoluciones.
// Todos los listados van del más reciente al más antiguo.
type HistoryUseCase struct {
	movements repository.MovementRepository
	sales     repository.SaleRepository
	returns   repository.ReturnRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(movements repository.MovementRepository, sales repository.SaleRepository, returns repository.ReturnRepository) *HistoryUseCase {
	return &HistoryUseCase{movements: movements, sales: sales, returns: returns}
}

// ListMovements lista movimientos; productID vacío = todos los productos.
func (uc *HistoryUseCase) ListMovements(ctx context.Context, productID string, limit, offset int) (*dto.MovementListResponse, error) {
	var (
		list []*entity.Movement
		err  error
	)
	if productID != "" {
		list, err = uc.movements.ListByProduct(ctx, productID, limit, offset)
	} else {
		list, err = uc.movements.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, domain.WrapStore("listar movimientos", err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, inventory.ToMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// ListSales lista ventas.
func (uc *HistoryUseCase) ListSales(ctx context.Context, limit, offset int) (*dto.SaleListResponse, error) {
	list, err := uc.sales.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.WrapStore("listar ventas", err)
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, inventory.ToSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// ListReturns lista devoluciones.
func (uc *HistoryUseCase) ListReturns(ctx context.Context, limit, offset int) (*dto.ReturnListResponse, error) {
	list, err := uc.returns.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.WrapStore("listar devoluciones", err)
	}
	items := make([]dto.ReturnResponse, 0, len(list))
	for _, r := range list {
		items = append(items, inventory.ToReturnResponse(r))
	}
	return &dto.ReturnListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}
