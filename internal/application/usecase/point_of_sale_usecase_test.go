package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memory"
)

func TestPointOfSaleUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewPointOfSaleUseCase(memory.New().PointsOfSale())

	norte, err := uc.Create(ctx, dto.PointOfSaleRequest{Name: "Norte", Address: "Calle 1", Manager: "Ana"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.PointOfSaleRequest{Name: "Centro"})
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Centro", list[0].Name)
	assert.Equal(t, "Norte", list[1].Name)

	updated, err := uc.Update(ctx, norte.ID, dto.PointOfSaleRequest{Name: "Norte 2", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, "Norte 2", updated.Name)
	assert.Equal(t, "555", updated.Phone)
	assert.Empty(t, updated.Address)
	assert.Equal(t, norte.CreatedAt, updated.CreatedAt)

	got, err := uc.GetByID(ctx, norte.ID)
	require.NoError(t, err)
	assert.Equal(t, "Norte 2", got.Name)

	require.NoError(t, uc.Delete(ctx, norte.ID))
	_, err = uc.GetByID(ctx, norte.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, norte.ID), domain.ErrNotFound)
}

func TestPointOfSaleUseCase_Validacion(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewPointOfSaleUseCase(memory.New().PointsOfSale())

	_, err := uc.Create(ctx, dto.PointOfSaleRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	pos, err := uc.Create(ctx, dto.PointOfSaleRequest{Name: "Sur"})
	require.NoError(t, err)
	_, err = uc.Update(ctx, pos.ID, dto.PointOfSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(ctx, "no-existe", dto.PointOfSaleRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
