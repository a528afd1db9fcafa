package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memory"
)

type fixture struct {
	store       *memory.Store
	uc          *inventory.LedgerUseCase
	invalidated int
	mu          sync.Mutex
}

func (f *fixture) Invalidate(context.Context) {
	f.mu.Lock()
	f.invalidated++
	f.mu.Unlock()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.New()}
	f.uc = inventory.NewLedgerUseCase(memory.NewTxRunner(f.store), f, nil)
	return f
}

func (f *fixture) addProduct(t *testing.T, id string, qty int) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.store.Products().Create(context.Background(), &entity.Product{
		ID: id, Name: "Producto " + id, Reference: "REF-" + id,
		Quantity: qty, MinStock: entity.DefaultMinStock, CreatedAt: now, UpdatedAt: now,
	}))
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func (f *fixture) movements(t *testing.T) []*entity.Movement {
	t.Helper()
	list, err := f.store.Movements().List(context.Background(), 0, 0)
	require.NoError(t, err)
	return list
}

func TestApplyMovementBatch_EntradaYSalidaInsuficiente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "P", 20)

	res, err := f.uc.ApplyMovementBatch(ctx, inventory.MovementBatchInput{
		Type:   entity.MovementTypeEntry,
		Items:  []inventory.MovementItem{{ProductID: "P", Quantity: 15}},
		Reason: "Réception",
	})
	require.NoError(t, err)
	assert.Equal(t, 35, f.quantity(t, "P"))
	require.Len(t, res.Movements, 1)
	assert.Equal(t, entity.DefaultUserName, res.Movements[0].UserName)
	assert.Empty(t, res.Sales)

	_, err = f.uc.ApplyMovementBatch(ctx, inventory.MovementBatchInput{
		Type:  entity.MovementTypeExit,
		Items: []inventory.MovementItem{{ProductID: "P", Quantity: 40}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "P", stockErr.ProductID)
	assert.Equal(t, 35, stockErr.Available)
	assert.Equal(t, 5, stockErr.Shortfall)

	assert.Equal(t, 35, f.quantity(t, "P"))
	assert.Len(t, f.movements(t), 1, "el lote rechazado no deja movimientos")
	assert.Equal(t, 1, f.invalidated, "solo el lote confirmado invalida estadísticas")
}

func TestApplyMovementBatch_VenteCreaVenta(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "P", 20)

	res, err := f.uc.ApplyMovementBatch(ctx, inventory.MovementBatchInput{
		Type:     entity.MovementTypeExit,
		Items:    []inventory.MovementItem{{ProductID: "P", Quantity: 5}},
		Reason:   entity.ReasonSale,
		Customer: "Acme",
		UserName: "maria",
	})
	require.NoError(t, err)
	assert.Equal(t, 15, f.quantity(t, "P"))

	require.Len(t, res.Sales, 1)
	sale := res.Sales[0]
	assert.Equal(t, 5, sale.Quantity)
	assert.Equal(t, "Acme", sale.Customer)
	assert.Equal(t, "Producto P", sale.ProductName)
	assert.Equal(t, entity.SaleStatusCompleted, sale.Status)
	assert.Equal(t, res.Movements[0].ID, sale.MovementID)
	assert.Equal(t, "maria", sale.UserName)

	stored, err := f.store.Sales().GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestApplyMovementBatch_SalidaSinVenteNoCreaVenta(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "P", 20)

	res, err := f.uc.ApplyMovementBatch(context.Background(), inventory.MovementBatchInput{
		Type:     entity.MovementTypeExit,
		Items:    []inventory.MovementItem{{ProductID: "P", Quantity: 2}},
		Reason:   "Casse",
		Customer: "Acme",
	})
	require.NoError(t, err)
	assert.Empty(t, res.Sales)
	assert.Equal(t, "Acme", res.Movements[0].Customer)
}

func TestApplyMovementBatch_TodoONada(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "A", 10)
	f.addProduct(t, "B", 1)

	_, err := f.uc.ApplyMovementBatch(ctx, inventory.MovementBatchInput{
		Type: entity.MovementTypeExit,
		Items: []inventory.MovementItem{
			{ProductID: "A", Quantity: 3},
			{ProductID: "B", Quantity: 2},
		},
		Reason: entity.ReasonSale,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 10, f.quantity(t, "A"))
	assert.Equal(t, 1, f.quantity(t, "B"))
	assert.Empty(t, f.movements(t))
	sales, _ := f.store.Sales().List(ctx, 0, 0)
	assert.Empty(t, sales)
}

func TestApplyMovementBatch_MismoProductoRepetidoAcumula(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "P", 5)

	_, err := f.uc.ApplyMovementBatch(context.Background(), inventory.MovementBatchInput{
		Type: entity.MovementTypeExit,
		Items: []inventory.MovementItem{
			{ProductID: "P", Quantity: 3},
			{ProductID: "P", Quantity: 3},
		},
	})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 2, stockErr.Available, "la segunda línea ve la cantidad de trabajo")
	assert.Equal(t, 1, stockErr.Shortfall)
	assert.Equal(t, 5, f.quantity(t, "P"))

	res, err := f.uc.ApplyMovementBatch(context.Background(), inventory.MovementBatchInput{
		Type: entity.MovementTypeExit,
		Items: []inventory.MovementItem{
			{ProductID: "P", Quantity: 2},
			{ProductID: "P", Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Len(t, res.Movements, 2)
	assert.Zero(t, f.quantity(t, "P"), "la cantidad puede llegar exactamente a cero")
}

func TestApplyMovementBatch_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "A", 10)

	_, err := f.uc.ApplyMovementBatch(context.Background(), inventory.MovementBatchInput{
		Type: entity.MovementTypeEntry,
		Items: []inventory.MovementItem{
			{ProductID: "A", Quantity: 1},
			{ProductID: "ZZZ", Quantity: 1},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "ZZZ", nf.ID)
	assert.Equal(t, 10, f.quantity(t, "A"))
}

func TestApplyMovementBatch_Traslado(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "P", 8)

	res, err := f.uc.ApplyMovementBatch(context.Background(), inventory.MovementBatchInput{
		Type:         entity.MovementTypeTransfer,
		Items:        []inventory.MovementItem{{ProductID: "P", Quantity: 3}},
		FromLocation: "Dépôt A",
		ToLocation:   "Boutique B",
		Customer:     "ignorado",
		Reason:       entity.ReasonSale,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, f.quantity(t, "P"))
	mov := res.Movements[0]
	assert.Equal(t, "Dépôt A", mov.FromLocation)
	assert.Equal(t, "Boutique B", mov.ToLocation)
	assert.Empty(t, mov.Customer, "el cliente solo se conserva en salidas")
	assert.Empty(t, res.Sales, "un traslado nunca genera venta")
}

func TestApplyMovementBatch_Validacion(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "P", 8)

	cases := []struct {
		name string
		in   inventory.MovementBatchInput
	}{
		{"tipo inválido", inventory.MovementBatchInput{Type: "adjust", Items: []inventory.MovementItem{{ProductID: "P", Quantity: 1}}}},
		{"lote vacío", inventory.MovementBatchInput{Type: entity.MovementTypeEntry}},
		{"cantidad cero", inventory.MovementBatchInput{Type: entity.MovementTypeEntry, Items: []inventory.MovementItem{{ProductID: "P", Quantity: 0}}}},
		{"cantidad negativa", inventory.MovementBatchInput{Type: entity.MovementTypeEntry, Items: []inventory.MovementItem{{ProductID: "P", Quantity: -1}}}},
		{"sin producto", inventory.MovementBatchInput{Type: entity.MovementTypeEntry, Items: []inventory.MovementItem{{Quantity: 1}}}},
		{"traslado sin destino", inventory.MovementBatchInput{Type: entity.MovementTypeTransfer, FromLocation: "A", Items: []inventory.MovementItem{{ProductID: "P", Quantity: 1}}}},
		{"traslado mismo lugar", inventory.MovementBatchInput{Type: entity.MovementTypeTransfer, FromLocation: "A", ToLocation: "A", Items: []inventory.MovementItem{{ProductID: "P", Quantity: 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.ApplyMovementBatch(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 8, f.quantity(t, "P"))
	assert.Empty(t, f.movements(t))
}

func TestApplyMovementBatch_MovimientosCompartenTransaccion(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "A", 1)
	f.addProduct(t, "B", 1)

	res, err := f.uc.ApplyMovementBatch(context.Background(), inventory.MovementBatchInput{
		Type:  entity.MovementTypeEntry,
		Items: []inventory.MovementItem{{ProductID: "B", Quantity: 1}, {ProductID: "A", Quantity: 2}},
	})
	require.NoError(t, err)
	require.Len(t, res.Movements, 2)
	assert.Equal(t, "B", res.Movements[0].ProductID, "se respeta el orden del lote")
	for _, m := range res.Movements {
		assert.Equal(t, res.TransactionID, m.TransactionID)
	}
}

func TestApplyMovementBatch_ConcurrenciaNoSobrevende(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "P", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.ApplyMovementBatch(ctx, inventory.MovementBatchInput{
				Type:   entity.MovementTypeExit,
				Items:  []inventory.MovementItem{{ProductID: "P", Quantity: 1}},
				Reason: entity.ReasonSale,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 10, rejected)
	assert.Zero(t, f.quantity(t, "P"))
	sales, _ := f.store.Sales().List(ctx, 0, 0)
	assert.Len(t, sales, 10)
}

// failingRunner envuelve el runner en memoria y sustituye el repositorio de movimientos
// por uno que falla, para comprobar que una falla de escritura revierte todo el lote.
type failingRunner struct {
	inner inventory.TxRunner
}

type failingMovements struct {
	repository.MovementRepository
}

func (failingMovements) Create(context.Context, *entity.Movement) error {
	return errors.New("disk full")
}

func (r failingRunner) Run(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	return r.inner.Run(ctx, func(repos inventory.TxRepositories) error {
		repos.Movements = failingMovements{repos.Movements}
		return fn(repos)
	})
}

func TestApplyMovementBatch_FallaDeAlmacenamientoRevierte(t *testing.T) {
	store := memory.New()
	f := &fixture{store: store}
	f.addProduct(t, "P", 10)
	uc := inventory.NewLedgerUseCase(failingRunner{inner: memory.NewTxRunner(store)}, f, nil)

	_, err := uc.ApplyMovementBatch(context.Background(), inventory.MovementBatchInput{
		Type:  entity.MovementTypeExit,
		Items: []inventory.MovementItem{{ProductID: "P", Quantity: 4}},
	})
	require.ErrorIs(t, err, domain.ErrStoreFailure)
	var storeErr *domain.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.EqualError(t, storeErr.Err, "disk full")

	assert.Equal(t, 10, f.quantity(t, "P"), "la cantidad ya escrita se revierte")
	assert.Empty(t, f.movements(t))
	assert.Zero(t, f.invalidated)
}

func TestApplyMovementBatch_CantidadFueraDeRango(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "P", 10)

	_, err := f.uc.ApplyMovementBatch(ctx, inventory.MovementBatchInput{
		Type:  entity.MovementTypeEntry,
		Items: []inventory.MovementItem{{ProductID: "P", Quantity: 1<<63 - 1}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "quantity", vErr.Field)

	_, err = f.uc.ApplyMovementBatch(ctx, inventory.MovementBatchInput{
		Type:  entity.MovementTypeEntry,
		Items: []inventory.MovementItem{{ProductID: "P", Quantity: entity.MaxQuantity - 5}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "la existencia resultante no cabe")

	assert.Equal(t, 10, f.quantity(t, "P"))
	assert.Empty(t, f.movements(t))
	assert.Zero(t, f.invalidated)
}
