package entity

import "time"

// SaleStatusCompleted estado con el que nace toda venta derivada de una salida.
const SaleStatusCompleted = "completed"

// Sale registro derivado de una salida con motivo de venta.
type Sale struct {
	ID          string
	MovementID  string
	ProductID   string
	ProductName string // copia del nombre al momento de la venta
	Quantity    int
	Customer    string
	Date        time.Time
	UserName    string
	Status      string
	CreatedAt   time.Time
}
