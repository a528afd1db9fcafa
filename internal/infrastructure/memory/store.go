// Package memory implementa los puertos de persistencia en memoria para desarrollo y tests.
//
// Un único mutex es el punto de serialización: cada transacción toma el lock de escritura,
// trabaja sobre una copia del estado y la publica solo en Commit; un error la descarta.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

type state struct {
	products     map[string]entity.Product
	movements    []entity.Movement   // orden de inserción
	sales        []entity.Sale       // orden de inserción
	returns      []entity.SaleReturn // orden de inserción
	pointsOfSale map[string]entity.PointOfSale
	users        map[string]entity.User
}

func newState() *state {
	return &state{
		products:     map[string]entity.Product{},
		pointsOfSale: map[string]entity.PointOfSale{},
		users:        map[string]entity.User{},
	}
}

func (st *state) clone() *state {
	c := &state{
		products:     make(map[string]entity.Product, len(st.products)),
		movements:    append([]entity.Movement(nil), st.movements...),
		sales:        append([]entity.Sale(nil), st.sales...),
		returns:      append([]entity.SaleReturn(nil), st.returns...),
		pointsOfSale: make(map[string]entity.PointOfSale, len(st.pointsOfSale)),
		users:        make(map[string]entity.User, len(st.users)),
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.pointsOfSale {
		c.pointsOfSale[k] = v
	}
	for k, v := range st.users {
		c.users[k] = v
	}
	return c
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

// view ejecuta fn en lectura: sobre tx si la hay, si no sobre el estado publicado con RLock.
func (s *Store) view(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

// update ejecuta fn en escritura: sobre tx si la hay, si no sobre el estado publicado con Lock.
func (s *Store) update(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Repositorios fuera de transacción.
func (s *Store) Products() *ProductRepo         { return &ProductRepo{s: s} }
func (s *Store) Movements() *MovementRepo       { return &MovementRepo{s: s} }
func (s *Store) Sales() *SaleRepo               { return &SaleRepo{s: s} }
func (s *Store) Returns() *ReturnRepo           { return &ReturnRepo{s: s} }
func (s *Store) PointsOfSale() *PointOfSaleRepo { return &PointOfSaleRepo{s: s} }
func (s *Store) Users() *UserRepo               { return &UserRepo{s: s} }
func (s *Store) Analytics() *AnalyticsRepo      { return &AnalyticsRepo{s: s} }

// TxRunner ejecuta callbacks sobre una copia del estado y la publica al confirmar.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run toma el lock de escritura durante toda la transacción: las transacciones se serializan.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	return r.write(ctx, false, fn)
}

// Replace vacía productos, movimientos, ventas, devoluciones y puntos de venta y ejecuta fn
// en la misma transacción. Los usuarios se conservan.
func (r *TxRunner) Replace(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	return r.write(ctx, true, fn)
}

// ReadOnly ejecuta fn sobre una copia tomada bajo un solo RLock: todas las tablas
// corresponden al mismo instante. Lo que fn escriba se descarta.
func (r *TxRunner) ReadOnly(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return fn(r.s.txRepositories(r.s.st.clone()))
}

func (r *TxRunner) write(ctx context.Context, reset bool, fn func(repos inventory.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	work := r.s.st.clone()
	if reset {
		users := work.users
		work = newState()
		work.users = users
	}
	if err := fn(r.s.txRepositories(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	r.s.st = work
	return nil
}

func (s *Store) txRepositories(work *state) inventory.TxRepositories {
	return inventory.TxRepositories{
		Products:     &ProductRepo{s: s, tx: work},
		Movements:    &MovementRepo{s: s, tx: work},
		Sales:        &SaleRepo{s: s, tx: work},
		Returns:      &ReturnRepo{s: s, tx: work},
		PointsOfSale: &PointOfSaleRepo{s: s, tx: work},
	}
}

// paginate aplica limit/offset; limit <= 0 devuelve todo desde offset.
func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// sortByNewest ordena por fecha descendente; los empates conservan el orden recibido.
func sortByNewest[T any](items []T, date func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return date(items[i]).After(date(items[j]))
	})
}

// newestFirst copia items en orden inverso de inserción.
func newestFirst[T any](items []T) []T {
	out := make([]T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
	}
	return out
}
