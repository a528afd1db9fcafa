package memory_test

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
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memory"
)

func newProduct(id, ref string, qty int) *entity.Product {
	now := time.Now()
	return &entity.Product{ID: id, Name: "Producto " + ref, Reference: ref, Quantity: qty, MinStock: entity.DefaultMinStock, CreatedAt: now, UpdatedAt: now}
}

func TestTxRunner_CommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, newProduct("p1", "REF-1", 5)))

	err := memory.NewTxRunner(store).Run(ctx, func(repos inventory.TxRepositories) error {
		return repos.Products.UpdateQuantity(ctx, "p1", 9)
	})
	require.NoError(t, err)

	p, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 9, p.Quantity)
}

func TestTxRunner_ErrorDescartaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, newProduct("p1", "REF-1", 5)))
	boom := errors.New("boom")

	err := memory.NewTxRunner(store).Run(ctx, func(repos inventory.TxRepositories) error {
		require.NoError(t, repos.Products.UpdateQuantity(ctx, "p1", 0))
		require.NoError(t, repos.Movements.Create(ctx, &entity.Movement{ID: "m1", ProductID: "p1"}))
		// Dentro de la tx los cambios son visibles.
		p, _ := repos.Products.GetByID(ctx, "p1")
		assert.Equal(t, 0, p.Quantity)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := store.Products().GetByID(ctx, "p1")
	assert.Equal(t, 5, p.Quantity, "rollback: la cantidad no debe cambiar")
	movs, _ := store.Movements().List(ctx, 0, 0)
	assert.Empty(t, movs, "rollback: no deben quedar movimientos")
}

func TestTxRunner_ContextoCanceladoNoInicia(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewTxRunner(memory.New()).Run(ctx, func(inventory.TxRepositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTxRunner_SerializaTransacciones(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, newProduct("p1", "REF-1", 0)))
	runner := memory.NewTxRunner(store)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = runner.Run(ctx, func(repos inventory.TxRepositories) error {
				p, err := repos.Products.GetForUpdate(ctx, "p1")
				if err != nil {
					return err
				}
				return repos.Products.UpdateQuantity(ctx, "p1", p.Quantity+1)
			})
		}()
	}
	wg.Wait()

	p, _ := store.Products().GetByID(ctx, "p1")
	assert.Equal(t, 50, p.Quantity, "ningún incremento debe perderse")
}

func TestTxRunner_ReadOnlyVeUnSoloInstante(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, newProduct("p1", "REF-1", 20)))
	runner := memory.NewTxRunner(store)

	committed := make(chan struct{})
	err := runner.ReadOnly(ctx, func(repos inventory.TxRepositories) error {
		before, err := repos.Products.GetByID(ctx, "p1")
		require.NoError(t, err)

		// Un lote concurrente: baja la cantidad y registra su movimiento.
		go func() {
			defer close(committed)
			_ = runner.Run(ctx, func(w inventory.TxRepositories) error {
				if err := w.Products.UpdateQuantity(ctx, "p1", 15); err != nil {
					return err
				}
				return w.Movements.Create(ctx, &entity.Movement{ID: "m1", ProductID: "p1", Quantity: 5})
			})
		}()

		select {
		case <-committed:
			t.Error("el lote no debe confirmarse durante la lectura")
		case <-time.After(20 * time.Millisecond):
		}
		movs, err := repos.Movements.List(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 20, before.Quantity)
		assert.Empty(t, movs, "la lectura no ve movimientos de un lote posterior")
		return nil
	})
	require.NoError(t, err)

	<-committed
	p, _ := store.Products().GetByID(ctx, "p1")
	assert.Equal(t, 15, p.Quantity)
}

func TestTxRunner_ReadOnlyDescartaEscrituras(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, newProduct("p1", "REF-1", 5)))

	err := memory.NewTxRunner(store).ReadOnly(ctx, func(repos inventory.TxRepositories) error {
		return repos.Products.UpdateQuantity(ctx, "p1", 99)
	})
	require.NoError(t, err)
	p, _ := store.Products().GetByID(ctx, "p1")
	assert.Equal(t, 5, p.Quantity)
}

func TestTxRunner_ReplaceConservaUsuarios(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, newProduct("p1", "REF-1", 5)))
	require.NoError(t, store.PointsOfSale().Create(ctx, &entity.PointOfSale{ID: "pos1", Name: "Centro"}))
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u1", Email: "ana@example.com"}))
	runner := memory.NewTxRunner(store)

	boom := errors.New("boom")
	err := runner.Replace(ctx, func(repos inventory.TxRepositories) error {
		list, err := repos.Products.List(ctx, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, list, "Replace arranca con las tablas vacías")
		return boom
	})
	require.ErrorIs(t, err, boom)
	p, _ := store.Products().GetByID(ctx, "p1")
	assert.NotNil(t, p, "un Replace fallido no borra nada")

	err = runner.Replace(ctx, func(repos inventory.TxRepositories) error {
		return repos.Products.Create(ctx, newProduct("p2", "REF-2", 7))
	})
	require.NoError(t, err)

	old, _ := store.Products().GetByID(ctx, "p1")
	assert.Nil(t, old)
	fresh, _ := store.Products().GetByID(ctx, "p2")
	require.NotNil(t, fresh)
	pos, _ := store.PointsOfSale().List(ctx)
	assert.Empty(t, pos)
	u, _ := store.Users().GetByID(ctx, "u1")
	assert.NotNil(t, u)
}

func TestProductRepo_ReferenciaUnica(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Products()
	require.NoError(t, repo.Create(ctx, newProduct("p1", "REF-1", 1)))
	require.NoError(t, repo.Create(ctx, newProduct("p2", "REF-2", 1)))

	assert.ErrorIs(t, repo.Create(ctx, newProduct("p3", "REF-1", 1)), domain.ErrDuplicate)

	p2, _ := repo.GetByID(ctx, "p2")
	p2.Reference = "REF-1"
	assert.ErrorIs(t, repo.Update(ctx, p2), domain.ErrDuplicate)

	byRef, err := repo.GetByReference(ctx, "REF-2")
	require.NoError(t, err)
	require.NotNil(t, byRef)
	assert.Equal(t, "p2", byRef.ID)

	missing, err := repo.GetByReference(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductRepo_UpdateNoTocaCantidad(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Products()
	require.NoError(t, repo.Create(ctx, newProduct("p1", "REF-1", 7)))

	edit := newProduct("p1", "REF-1", 999)
	edit.Name = "Nuevo nombre"
	require.NoError(t, repo.Update(ctx, edit))

	p, _ := repo.GetByID(ctx, "p1")
	assert.Equal(t, "Nuevo nombre", p.Name)
	assert.Equal(t, 7, p.Quantity)
}

func TestProductRepo_DeleteEnCascada(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Products().Create(ctx, newProduct("p1", "REF-1", 7)))
	require.NoError(t, store.Products().Create(ctx, newProduct("p2", "REF-2", 7)))
	require.NoError(t, store.Movements().Create(ctx, &entity.Movement{ID: "m1", ProductID: "p1"}))
	require.NoError(t, store.Movements().Create(ctx, &entity.Movement{ID: "m2", ProductID: "p2"}))
	require.NoError(t, store.Sales().Create(ctx, &entity.Sale{ID: "s1", ProductID: "p1", Quantity: 1}))
	require.NoError(t, store.Returns().Create(ctx, &entity.SaleReturn{ID: "r1", SaleID: "s1", ProductID: "p1", Quantity: 1}))

	require.NoError(t, store.Products().Delete(ctx, "p1"))

	movs, _ := store.Movements().List(ctx, 0, 0)
	require.Len(t, movs, 1)
	assert.Equal(t, "m2", movs[0].ID)
	sales, _ := store.Sales().List(ctx, 0, 0)
	assert.Empty(t, sales)
	rets, _ := store.Returns().List(ctx, 0, 0)
	assert.Empty(t, rets)
}

func TestProductRepo_ListBelowThreshold(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Products()
	require.NoError(t, repo.Create(ctx, newProduct("p1", "REF-1", 10))) // en el umbral
	require.NoError(t, repo.Create(ctx, newProduct("p2", "REF-2", 11)))
	require.NoError(t, repo.Create(ctx, newProduct("p3", "REF-3", 2)))

	low, err := repo.ListBelowThreshold(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "p3", low[0].ID)
	assert.Equal(t, "p1", low[1].ID)
}

func TestMovementRepo_ListMasRecientePrimeroYPaginado(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Movements()
	for _, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, repo.Create(ctx, &entity.Movement{ID: id, ProductID: "p1"}))
	}
	require.NoError(t, repo.Create(ctx, &entity.Movement{ID: "m4", ProductID: "p2"}))

	all, _ := repo.List(ctx, 2, 1)
	require.Len(t, all, 2)
	assert.Equal(t, "m3", all[0].ID)
	assert.Equal(t, "m2", all[1].ID)

	byProduct, _ := repo.ListByProduct(ctx, "p1", 0, 0)
	assert.Len(t, byProduct, 3)

	empty, _ := repo.List(ctx, 10, 50)
	assert.Empty(t, empty)
}

func TestSaleRepo_CountBetween(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Sales()
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	require.NoError(t, repo.Create(ctx, &entity.Sale{ID: "s1", Date: from}))
	require.NoError(t, repo.Create(ctx, &entity.Sale{ID: "s2", Date: to.Add(-time.Second)}))
	require.NoError(t, repo.Create(ctx, &entity.Sale{ID: "s3", Date: to}))
	require.NoError(t, repo.Create(ctx, &entity.Sale{ID: "s4", Date: from.Add(-time.Second)}))

	n, err := repo.CountBetween(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReturnRepo_SumQuantityBySale(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Returns()
	require.NoError(t, repo.Create(ctx, &entity.SaleReturn{ID: "r1", SaleID: "s1", Quantity: 2}))
	require.NoError(t, repo.Create(ctx, &entity.SaleReturn{ID: "r2", SaleID: "s1", Quantity: 1}))
	require.NoError(t, repo.Create(ctx, &entity.SaleReturn{ID: "r3", SaleID: "s2", Quantity: 4}))

	sum, err := repo.SumQuantityBySale(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, sum)

	none, err := repo.SumQuantityBySale(ctx, "s9")
	require.NoError(t, err)
	assert.Zero(t, none)
}

func TestUserRepo_EmailUnicoSinMayusculas(t *testing.T) {
	ctx := context.Background()
	repo := memory.New().Users()
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Email: "ana@example.com"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.User{ID: "u2", Email: "ANA@example.com"}), domain.ErrEmailAlreadyExists)

	u, err := repo.GetByEmail(ctx, "Ana@Example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	n, _ := repo.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestNewSeeded_ProductosDemo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeeded()
	list, err := store.Products().List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	totals, err := store.Analytics().GetInventoryTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 73, totals.TotalQuantity)
	assert.Equal(t, 3, totals.ProductCount)
	assert.Equal(t, 1, totals.LowStockCount, "solo el iPhone (3 <= 10) está en stock bajo")
}
