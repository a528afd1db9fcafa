package entity

import "time"

// SaleReturn reversa parcial o total de una venta.
type SaleReturn struct {
	ID          string
	SaleID      string
	MovementID  string // entrada compensatoria
	ProductID   string
	ProductName string
	Quantity    int
	Customer    string
	Reason      string
	Date        time.Time
	UserName    string
	CreatedAt   time.Time
}
