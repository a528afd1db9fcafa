package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrInvalidReturnQuantity = errors.New("cantidad de devolución inválida")
	ErrStoreFailure          = errors.New("falla del almacenamiento")
)

// NotFoundError indica que un producto, venta u otro recurso no existe.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Resource, e.ID)
}

// Is permite errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError indica que un movimiento dejaría la cantidad del producto en negativo.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
	Shortfall int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s: disponible %d, solicitado %d (faltan %d)",
		e.ProductID, e.Available, e.Requested, e.Shortfall)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// InvalidReturnQuantityError indica que la devolución supera lo vendido (descontando devoluciones previas).
type InvalidReturnQuantityError struct {
	SaleID     string
	Requested  int
	Returnable int
}

func (e *InvalidReturnQuantityError) Error() string {
	return fmt.Sprintf("devolución inválida para la venta %s: solicitado %d, devolvible %d",
		e.SaleID, e.Requested, e.Returnable)
}

// Is permite errors.Is(err, ErrInvalidReturnQuantity).
func (e *InvalidReturnQuantityError) Is(target error) bool { return target == ErrInvalidReturnQuantity }

// ValidationError describe una solicitud mal formada (campo y motivo).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validación: " + e.Reason
	}
	return fmt.Sprintf("validación: %s %s", e.Field, e.Reason)
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError atajo para construir un ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StoreError envuelve una falla de persistencia; siempre implica rollback de la operación.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStoreFailure, e.Err)
}

// Is permite errors.Is(err, ErrStoreFailure).
func (e *StoreError) Is(target error) bool { return target == ErrStoreFailure }

func (e *StoreError) Unwrap() error { return e.Err }

// IsDomainError indica si err ya pertenece a la taxonomía de errores del dominio.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrUserNotFound, ErrEmailAlreadyExists, ErrInvalidInput, ErrDuplicate,
		ErrUnauthorized, ErrForbidden, ErrInsufficientStock, ErrInvalidReturnQuantity, ErrStoreFailure,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// WrapStore convierte errores de infraestructura en StoreError; los errores de dominio pasan intactos.
func WrapStore(op string, err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
