package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMinStock umbral de stock mínimo cuando el producto no define uno.
const DefaultMinStock = 10

// MaxQuantity tope de cantidades y umbrales (columna INTEGER).
const MaxQuantity = math.MaxInt32

// Product representa un artículo en existencia.
// Quantity solo cambia vía el motor de movimientos (o la importación masiva) y nunca es negativa.
type Product struct {
	ID               string
	Name             string
	ConventionalName string
	Reference        string // código único, obligatorio
	Barcode          string
	Quantity         int
	MinStock         int
	Category         string
	Brand            string
	Warehouse        string // etiqueta de bodega/ubicación
	Image            string
	UnitPrice        decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsLowStock indica si el producto está en o por debajo de su umbral.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}
