package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeEntry    = "entry"    // entrada
	MovementTypeExit     = "exit"     // salida
	MovementTypeTransfer = "transfer" // traslado entre ubicaciones
)

// Motivos reconocidos por el motor.
const (
	ReasonSale   = "Vente"  // una salida con este motivo genera una venta
	ReasonReturn = "Return" // motivo fijo de la entrada compensatoria de una devolución
)

// DefaultUserName etiqueta de usuario cuando la operación no trae uno.
const DefaultUserName = "Admin"

// Movement entrada inmutable del libro de movimientos.
type Movement struct {
	ID            string
	TransactionID string // agrupa los movimientos de un mismo lote
	ProductID     string
	Type          string
	Quantity      int // siempre positiva; el signo lo da Type
	Reason        string
	Customer      string // solo salidas
	FromLocation  string // solo traslados
	ToLocation    string // solo traslados
	Date          time.Time
	UserName      string
	CreatedAt     time.Time
}

// IsValidMovementType indica si t es entry, exit o transfer.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeTransfer:
		return true
	}
	return false
}
