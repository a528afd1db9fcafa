package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/jhoicas/gestion-stock/internal/domain/repository"
	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// LedgerUseCase es la única autoridad que modifica cantidades de producto y registra
// el motivo de cada cambio. Cada operación abre exactamente una transacción.
type LedgerUseCase struct {
	txRunner    TxRunner
	invalidator StatsInvalidator
	log         *logger.Logger
	now         func() time.Time
}

// NewLedgerUseCase construye el caso de uso. invalidator puede ser nil.
func NewLedgerUseCase(txRunner TxRunner, invalidator StatsInvalidator, log *logger.Logger) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner:    txRunner,
		invalidator: invalidator,
		log:         log,
		now:         time.Now,
	}
}

// MovementItem una línea del lote: producto y cantidad (> 0).
type MovementItem struct {
	ProductID string
	Quantity  int
}

// MovementBatchInput entrada de ApplyMovementBatch.
// Customer solo aplica a salidas; FromLocation y ToLocation solo a traslados.
type MovementBatchInput struct {
	Type         string
	Items        []MovementItem
	Reason       string
	Customer     string
	FromLocation string
	ToLocation   string
	UserName     string
}

// MovementBatchResult movimientos y ventas creados por un lote confirmado.
type MovementBatchResult struct {
	TransactionID string
	Movements     []*entity.Movement
	Sales         []*entity.Sale
}

func (in MovementBatchInput) validate() error {
	if !entity.IsValidMovementType(in.Type) {
		return domain.NewValidationError("type", "debe ser entry, exit o transfer")
	}
	if len(in.Items) == 0 {
		return domain.NewValidationError("items", "el lote no puede estar vacío")
	}
	for _, item := range in.Items {
		if item.ProductID == "" {
			return domain.NewValidationError("product_id", "es requerido")
		}
		if item.Quantity <= 0 {
			return domain.NewValidationError("quantity", "debe ser un entero positivo")
		}
		if item.Quantity > entity.MaxQuantity {
			return domain.NewValidationError("quantity", fmt.Sprintf("no puede superar %d", entity.MaxQuantity))
		}
	}
	if in.Type == entity.MovementTypeTransfer {
		if in.FromLocation == "" || in.ToLocation == "" {
			return domain.NewValidationError("from_location/to_location", "son requeridos en un traslado")
		}
		if in.FromLocation == in.ToLocation {
			return domain.NewValidationError("to_location", "debe ser distinto del origen")
		}
	}
	return nil
}

// ApplyMovementBatch aplica un lote de movimientos todo-o-nada.
//
// Bloquea (SELECT FOR UPDATE) todos los productos del lote en orden de ID, recorre los ítems
// en el orden recibido acumulando la cantidad de trabajo de cada producto, y solo escribe
// si ningún ítem falla. Una salida con motivo "Vente" genera además una venta.
//
// Errores: ValidationError, NotFoundError, InsufficientStockError o StoreError.
func (uc *LedgerUseCase) ApplyMovementBatch(ctx context.Context, in MovementBatchInput) (*MovementBatchResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Type != entity.MovementTypeExit {
		in.Customer = ""
	}
	if in.Type != entity.MovementTypeTransfer {
		in.FromLocation, in.ToLocation = "", ""
	}
	userName := in.UserName
	if userName == "" {
		userName = entity.DefaultUserName
	}

	now := uc.now()
	result := &MovementBatchResult{TransactionID: uuid.New().String()}

	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		products, err := lockProducts(ctx, repos.Products, in.Items)
		if err != nil {
			return err
		}

		working := make(map[string]int, len(products))
		for id, p := range products {
			if p != nil {
				working[id] = p.Quantity
			}
		}

		movements := make([]*entity.Movement, 0, len(in.Items))
		var sales []*entity.Sale
		for _, item := range in.Items {
			product := products[item.ProductID]
			if product == nil {
				return &domain.NotFoundError{Resource: "producto", ID: item.ProductID}
			}
			current := working[item.ProductID]
			next := current + item.Quantity
			if in.Type != entity.MovementTypeEntry {
				next = current - item.Quantity
			}
			if next < 0 {
				return &domain.InsufficientStockError{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: current,
					Shortfall: -next,
				}
			}
			if next > entity.MaxQuantity {
				return domain.NewValidationError("quantity", fmt.Sprintf("la existencia de %s superaría %d", item.ProductID, entity.MaxQuantity))
			}
			working[item.ProductID] = next

			mov := &entity.Movement{
				ID:            uuid.New().String(),
				TransactionID: result.TransactionID,
				ProductID:     item.ProductID,
				Type:          in.Type,
				Quantity:      item.Quantity,
				Reason:        in.Reason,
				Customer:      in.Customer,
				FromLocation:  in.FromLocation,
				ToLocation:    in.ToLocation,
				Date:          now,
				UserName:      userName,
				CreatedAt:     now,
			}
			movements = append(movements, mov)

			if in.Type == entity.MovementTypeExit && in.Reason == entity.ReasonSale {
				sales = append(sales, &entity.Sale{
					ID:          uuid.New().String(),
					MovementID:  mov.ID,
					ProductID:   item.ProductID,
					ProductName: product.Name,
					Quantity:    item.Quantity,
					Customer:    in.Customer,
					Date:        now,
					UserName:    userName,
					Status:      entity.SaleStatusCompleted,
					CreatedAt:   now,
				})
			}
		}

		// Todas las validaciones pasaron: escribir.
		for _, id := range sortedKeys(working) {
			if working[id] == products[id].Quantity {
				continue
			}
			if err := repos.Products.UpdateQuantity(ctx, id, working[id]); err != nil {
				return err
			}
		}
		for _, mov := range movements {
			if err := repos.Movements.Create(ctx, mov); err != nil {
				return err
			}
		}
		for _, sale := range sales {
			if err := repos.Sales.Create(ctx, sale); err != nil {
				return err
			}
		}
		result.Movements = movements
		result.Sales = sales
		return nil
	})
	if err != nil {
		err = domain.WrapStore("aplicar lote de movimientos", err)
		uc.log.Warn().Err(err).
			Str("type", in.Type).
			Int("items", len(in.Items)).
			Msg("lote de movimientos rechazado")
		return nil, err
	}

	uc.afterCommit(ctx)
	uc.log.Info().
		Str("transaction_id", result.TransactionID).
		Str("type", in.Type).
		Int("movements", len(result.Movements)).
		Int("sales", len(result.Sales)).
		Msg("lote de movimientos aplicado")
	return result, nil
}

// lockProducts bloquea cada producto distinto del lote en orden ascendente de ID, para que
// lotes concurrentes se serialicen sobre las mismas filas sin interbloquearse.
// Los productos inexistentes quedan en el mapa con valor nil.
func lockProducts(ctx context.Context, repo repository.ProductRepository, items []MovementItem) (map[string]*entity.Product, error) {
	products := make(map[string]*entity.Product, len(items))
	for _, item := range items {
		products[item.ProductID] = nil
	}
	for _, id := range sortedKeys(products) {
		p, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		products[id] = p
	}
	return products, nil
}

func (uc *LedgerUseCase) afterCommit(ctx context.Context) {
	if uc.invalidator != nil {
		uc.invalidator.Invalidate(ctx)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
