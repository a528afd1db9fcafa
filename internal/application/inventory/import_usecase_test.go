package inventory_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/jhoicas/gestion-stock/internal/infrastructure/memory"
)

func TestImportBatch_CreaYActualizaPorReferencia(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.uc.ImportBatch(ctx, []inventory.ImportRecord{
		{"Nom": "Clavier", "Référence": "KB-1", "Quantité": "12", "Prix": "19,90"},
		{"name": "Souris", "reference": "MS-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Zero(t, res.Updated)

	kb, err := f.store.Products().GetByReference(ctx, "KB-1")
	require.NoError(t, err)
	require.NotNil(t, kb)
	assert.Equal(t, "Clavier", kb.Name)
	assert.Equal(t, 12, kb.Quantity)
	assert.True(t, decimal.RequireFromString("19.90").Equal(kb.UnitPrice))
	assert.Equal(t, entity.DefaultMinStock, kb.MinStock)

	res, err = f.uc.ImportBatch(ctx, []inventory.ImportRecord{
		{"Nom": "Clavier AZERTY", "Référence": "KB-1", "Stock Min": "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	kb, _ = f.store.Products().GetByReference(ctx, "KB-1")
	assert.Equal(t, "Clavier AZERTY", kb.Name)
	assert.Equal(t, 12, kb.Quantity, "sin columna de cantidad la existencia se conserva")
	assert.Equal(t, 3, kb.MinStock)

	assert.Empty(t, f.movements(t), "la importación no registra movimientos")
}

func TestImportBatch_UltimaFilaGana(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.uc.ImportBatch(ctx, []inventory.ImportRecord{
		{"name": "Primero", "ref": "DUP", "qty": "1"},
		{"name": "Segundo", "ref": "DUP", "qty": "7"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)

	list, _ := f.store.Products().List(ctx, 0, 0)
	require.Len(t, list, 1)
	assert.Equal(t, "Segundo", list[0].Name)
	assert.Equal(t, 7, list[0].Quantity)
}

func TestImportBatch_FilasOmitidas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.uc.ImportBatch(ctx, []inventory.ImportRecord{
		{"category": "sin nombre ni referencia"},
		{"name": "Negativo", "quantity": "-3"},
		{"name": "Texto", "quantity": "muchos"},
		{"name": "Fraccion", "quantity": "2.5"},
		{"name": "Entero decimal", "quantity": "4.0"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Skipped)
	assert.Equal(t, 1, res.Created)

	list, _ := f.store.Products().List(ctx, 0, 0)
	require.Len(t, list, 1)
	assert.Equal(t, 4, list[0].Quantity)
	assert.True(t, strings.HasPrefix(list[0].Reference, "IMP-"), "sin referencia se sintetiza una")
}

func TestImportBatch_NombreAusenteUsaReferencia(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.ImportBatch(ctx, []inventory.ImportRecord{{"SKU": "X-9"}})
	require.NoError(t, err)
	p, _ := f.store.Products().GetByReference(ctx, "X-9")
	require.NotNil(t, p)
	assert.Equal(t, "X-9", p.Name)
}

func TestImportBatch_SinFilasValidasNoAbreTransaccion(t *testing.T) {
	f := newFixture(t)
	res, err := f.uc.ImportBatch(context.Background(), []inventory.ImportRecord{{"foo": "bar"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, f.invalidated)
}

func TestImportBatch_CantidadFueraDeRangoSeOmite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.uc.ImportBatch(ctx, []inventory.ImportRecord{
		{"name": "Grande", "reference": "BIG-1", "quantity": "9223372036854775808"},
		{"name": "Envuelve", "reference": "BIG-2", "quantity": "18446744073709551621"},
		{"name": "Umbral", "reference": "BIG-3", "min_stock": "2147483648"},
		{"name": "Tope", "reference": "BIG-4", "quantity": "2147483647"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Skipped)
	assert.Equal(t, 1, res.Created)

	for _, ref := range []string{"BIG-1", "BIG-2", "BIG-3"} {
		p, err := f.store.Products().GetByReference(ctx, ref)
		require.NoError(t, err)
		assert.Nil(t, p, ref)
	}
	tope, err := f.store.Products().GetByReference(ctx, "BIG-4")
	require.NoError(t, err)
	require.NotNil(t, tope)
	assert.Equal(t, entity.MaxQuantity, tope.Quantity)
}

// failingProducts deja pasar la primera alta y falla en la segunda.
type failingProducts struct {
	repository.ProductRepository
	creates *int
}

func (r failingProducts) Create(ctx context.Context, p *entity.Product) error {
	*r.creates++
	if *r.creates > 1 {
		return errors.New("disk full")
	}
	return r.ProductRepository.Create(ctx, p)
}

type failingProductsRunner struct {
	inner inventory.TxRunner
}

func (r failingProductsRunner) Run(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	creates := 0
	return r.inner.Run(ctx, func(repos inventory.TxRepositories) error {
		repos.Products = failingProducts{ProductRepository: repos.Products, creates: &creates}
		return fn(repos)
	})
}

func TestImportBatch_FallaDeAlmacenamientoRevierte(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	f := &fixture{store: store}
	f.addProduct(t, "P", 10)
	uc := inventory.NewLedgerUseCase(failingProductsRunner{inner: memory.NewTxRunner(store)}, f, nil)

	_, err := uc.ImportBatch(ctx, []inventory.ImportRecord{
		{"name": "Renombrado", "reference": "REF-P", "quantity": "99"},
		{"name": "Nuevo A", "reference": "A-1"},
		{"name": "Nuevo B", "reference": "B-1"},
	})
	require.ErrorIs(t, err, domain.ErrStoreFailure)

	assert.Equal(t, 10, f.quantity(t, "P"), "la actualización previa se revierte")
	p, err := store.Products().GetByID(ctx, "P")
	require.NoError(t, err)
	assert.Equal(t, "Producto P", p.Name)
	a, err := store.Products().GetByReference(ctx, "A-1")
	require.NoError(t, err)
	assert.Nil(t, a, "el alta previa a la falla se revierte")
	assert.Zero(t, f.invalidated)
}
