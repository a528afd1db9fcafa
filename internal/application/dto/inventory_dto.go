package dto

import "time"

// MovementItemRequest una línea del lote.
type MovementItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// MovementBatchRequest entrada HTTP para aplicar un lote de movimientos.
type MovementBatchRequest struct {
	Type         string                `json:"type" validate:"required,oneof=entry exit transfer"`
	Items        []MovementItemRequest `json:"items" validate:"required,min=1,dive"`
	Reason       string                `json:"reason"`
	Customer     string                `json:"customer"`      // solo exit
	FromLocation string                `json:"from_location"` // solo transfer
	ToLocation   string                `json:"to_location"`   // solo transfer
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	Reason        string    `json:"reason,omitempty"`
	Customer      string    `json:"customer,omitempty"`
	FromLocation  string    `json:"from_location,omitempty"`
	ToLocation    string    `json:"to_location,omitempty"`
	Date          time.Time `json:"date"`
	UserName      string    `json:"user_name"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID          string    `json:"id"`
	MovementID  string    `json:"movement_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Customer    string    `json:"customer,omitempty"`
	Date        time.Time `json:"date"`
	UserName    string    `json:"user_name"`
	Status      string    `json:"status"`
}

// MovementBatchResponse resultado de un lote confirmado.
type MovementBatchResponse struct {
	TransactionID string             `json:"transaction_id"`
	Movements     []MovementResponse `json:"movements"`
	Sales         []SaleResponse     `json:"sales"`
}

// RecordReturnRequest entrada HTTP para registrar una devolución.
type RecordReturnRequest struct {
	SaleID   string `json:"sale_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Reason   string `json:"reason"`
}

// ReturnResponse salida de una devolución.
type ReturnResponse struct {
	ID          string    `json:"id"`
	SaleID      string    `json:"sale_id"`
	MovementID  string    `json:"movement_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Customer    string    `json:"customer,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Date        time.Time `json:"date"`
	UserName    string    `json:"user_name"`
}

// MovementListResponse, SaleListResponse y ReturnListResponse listados paginados.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

type ReturnListResponse struct {
	Items []ReturnResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
