package entity

import "time"

// PointOfSale punto de venta (etiqueta para clientes y ubicaciones de movimientos).
type PointOfSale struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Email     string
	Manager   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
