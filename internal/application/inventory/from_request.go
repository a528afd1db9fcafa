package inventory

import (
	"context"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
)

// ApplyMovementBatchFromRequest adapta el request HTTP al caso de uso ApplyMovementBatch.
// userName es la etiqueta del usuario autenticado.
func (uc *LedgerUseCase) ApplyMovementBatchFromRequest(ctx context.Context, userName string, in dto.MovementBatchRequest) (*dto.MovementBatchResponse, error) {
	input := MovementBatchInput{
		Type:         in.Type,
		Items:        make([]MovementItem, 0, len(in.Items)),
		Reason:       in.Reason,
		Customer:     in.Customer,
		FromLocation: in.FromLocation,
		ToLocation:   in.ToLocation,
		UserName:     userName,
	}
	for _, item := range in.Items {
		input.Items = append(input.Items, MovementItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	res, err := uc.ApplyMovementBatch(ctx, input)
	if err != nil {
		return nil, err
	}
	out := &dto.MovementBatchResponse{
		TransactionID: res.TransactionID,
		Movements:     make([]dto.MovementResponse, 0, len(res.Movements)),
		Sales:         make([]dto.SaleResponse, 0, len(res.Sales)),
	}
	for _, m := range res.Movements {
		out.Movements = append(out.Movements, ToMovementResponse(m))
	}
	for _, s := range res.Sales {
		out.Sales = append(out.Sales, ToSaleResponse(s))
	}
	return out, nil
}

// RecordReturnFromRequest adapta el request HTTP al caso de uso RecordReturn.
func (uc *LedgerUseCase) RecordReturnFromRequest(ctx context.Context, userName string, in dto.RecordReturnRequest) (*dto.ReturnResponse, error) {
	ret, err := uc.RecordReturn(ctx, RecordReturnInput{
		SaleID:   in.SaleID,
		Quantity: in.Quantity,
		Reason:   in.Reason,
		UserName: userName,
	})
	if err != nil {
		return nil, err
	}
	out := ToReturnResponse(ret)
	return &out, nil
}

// ImportBatchFromRequest adapta el request HTTP al caso de uso ImportBatch.
func (uc *LedgerUseCase) ImportBatchFromRequest(ctx context.Context, in dto.ImportProductsRequest) (*dto.ImportProductsResponse, error) {
	records := make([]ImportRecord, 0, len(in.Rows))
	for _, row := range in.Rows {
		records = append(records, ImportRecord(row))
	}
	res, err := uc.ImportBatch(ctx, records)
	if err != nil {
		return nil, err
	}
	return &dto.ImportProductsResponse{Created: res.Created, Updated: res.Updated, Skipped: res.Skipped}, nil
}

// ToMovementResponse convierte la entidad al DTO de salida.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		Reason:        m.Reason,
		Customer:      m.Customer,
		FromLocation:  m.FromLocation,
		ToLocation:    m.ToLocation,
		Date:          m.Date,
		UserName:      m.UserName,
	}
}

// ToSaleResponse convierte la entidad al DTO de salida.
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:          s.ID,
		MovementID:  s.MovementID,
		ProductID:   s.ProductID,
		ProductName: s.ProductName,
		Quantity:    s.Quantity,
		Customer:    s.Customer,
		Date:        s.Date,
		UserName:    s.UserName,
		Status:      s.Status,
	}
}

// ToReturnResponse convierte la entidad al DTO de salida.
func ToReturnResponse(r *entity.SaleReturn) dto.ReturnResponse {
	return dto.ReturnResponse{
		ID:          r.ID,
		SaleID:      r.SaleID,
		MovementID:  r.MovementID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		Customer:    r.Customer,
		Reason:      r.Reason,
		Date:        r.Date,
		UserName:    r.UserName,
	}
}
