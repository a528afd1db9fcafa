package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock/internal/domain"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// RecordReturnInput entrada de RecordReturn.
type RecordReturnInput struct {
	SaleID   string
	Quantity int
	Reason   string
	UserName string
}

// RecordReturn registra la devolución de una venta de forma atómica: suma la cantidad al
// producto, inserta la devolución y una entrada compensatoria con motivo "Return".
//
// La cantidad más lo ya devuelto de esa venta no puede superar la cantidad vendida
// (InvalidReturnQuantityError). La venta se bloquea durante la transacción, así dos
// devoluciones concurrentes no pueden exceder juntas el total vendido.
func (uc *LedgerUseCase) RecordReturn(ctx context.Context, in RecordReturnInput) (*entity.SaleReturn, error) {
	if in.SaleID == "" {
		return nil, domain.NewValidationError("sale_id", "es requerido")
	}
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser un entero positivo")
	}
	if in.Quantity > entity.MaxQuantity {
		return nil, domain.NewValidationError("quantity", fmt.Sprintf("no puede superar %d", entity.MaxQuantity))
	}
	userName := in.UserName
	if userName == "" {
		userName = entity.DefaultUserName
	}

	now := uc.now()
	var created *entity.SaleReturn

	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		sale, err := repos.Sales.GetForUpdate(ctx, in.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return &domain.NotFoundError{Resource: "venta", ID: in.SaleID}
		}

		returned, err := repos.Returns.SumQuantityBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		if returnable := sale.Quantity - returned; in.Quantity > returnable {
			return &domain.InvalidReturnQuantityError{SaleID: sale.ID, Requested: in.Quantity, Returnable: returnable}
		}

		product, err := repos.Products.GetForUpdate(ctx, sale.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.NotFoundError{Resource: "producto", ID: sale.ProductID}
		}
		if product.Quantity+in.Quantity > entity.MaxQuantity {
			return domain.NewValidationError("quantity", fmt.Sprintf("la existencia de %s superaría %d", product.ID, entity.MaxQuantity))
		}
		if err := repos.Products.UpdateQuantity(ctx, product.ID, product.Quantity+in.Quantity); err != nil {
			return err
		}

		mov := &entity.Movement{
			ID:            uuid.New().String(),
			TransactionID: uuid.New().String(),
			ProductID:     product.ID,
			Type:          entity.MovementTypeEntry,
			Quantity:      in.Quantity,
			Reason:        entity.ReasonReturn,
			Customer:      sale.Customer,
			Date:          now,
			UserName:      userName,
			CreatedAt:     now,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return err
		}

		ret := &entity.SaleReturn{
			ID:          uuid.New().String(),
			SaleID:      sale.ID,
			MovementID:  mov.ID,
			ProductID:   product.ID,
			ProductName: sale.ProductName,
			Quantity:    in.Quantity,
			Customer:    sale.Customer,
			Reason:      in.Reason,
			Date:        now,
			UserName:    userName,
			CreatedAt:   now,
		}
		if err := repos.Returns.Create(ctx, ret); err != nil {
			return err
		}
		created = ret
		return nil
	})
	if err != nil {
		err = domain.WrapStore("registrar devolución", err)
		uc.log.Warn().Err(err).Str("sale_id", in.SaleID).Int("quantity", in.Quantity).Msg("devolución rechazada")
		return nil, err
	}

	uc.afterCommit(ctx)
	uc.log.Info().
		Str("return_id", created.ID).
		Str("sale_id", created.SaleID).
		Int("quantity", created.Quantity).
		Msg("devolución registrada")
	return created, nil
}
