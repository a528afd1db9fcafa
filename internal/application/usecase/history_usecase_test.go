package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memory"
)

func TestHistoryUseCase(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	products := usecase.NewProductUseCase(store.Products(), nil)
	ledger := inventory.NewLedgerUseCase(memory.NewTxRunner(store), nil, nil)
	history := usecase.NewHistoryUseCase(store.Movements(), store.Sales(), store.Returns())

	a, err := products.Create(ctx, dto.CreateProductRequest{Name: "A", Reference: "A-1", Quantity: 10})
	require.NoError(t, err)
	b, err := products.Create(ctx, dto.CreateProductRequest{Name: "B", Reference: "B-1", Quantity: 10})
	require.NoError(t, err)

	_, err = ledger.ApplyMovementBatch(ctx, inventory.MovementBatchInput{
		Type:  entity.MovementTypeEntry,
		Items: []inventory.MovementItem{{ProductID: a.ID, Quantity: 1}, {ProductID: b.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	sold, err := ledger.ApplyMovementBatch(ctx, inventory.MovementBatchInput{
		Type:     entity.MovementTypeExit,
		Items:    []inventory.MovementItem{{ProductID: a.ID, Quantity: 3}},
		Reason:   entity.ReasonSale,
		Customer: "Acme",
	})
	require.NoError(t, err)
	_, err = ledger.RecordReturn(ctx, inventory.RecordReturnInput{SaleID: sold.Sales[0].ID, Quantity: 1})
	require.NoError(t, err)

	all, err := history.ListMovements(ctx, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, all.Items, 4)
	assert.Equal(t, entity.ReasonReturn, all.Items[0].Reason)

	onlyB, err := history.ListMovements(ctx, b.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, onlyB.Items, 1)
	assert.Equal(t, b.ID, onlyB.Items[0].ProductID)

	page, err := history.ListMovements(ctx, "", 2, 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, dto.PageResponse{Limit: 2, Offset: 1}, page.Page)

	sales, err := history.ListSales(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, sales.Items, 1)
	assert.Equal(t, "Acme", sales.Items[0].Customer)
	assert.Equal(t, "A", sales.Items[0].ProductName)

	returns, err := history.ListReturns(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, returns.Items, 1)
	assert.Equal(t, sold.Sales[0].ID, returns.Items[0].SaleID)
}
