package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-stock/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// NewSeeded crea un almacén con productos de demostración (modo desarrollo).
func NewSeeded() *Store {
	s := New()
	now := time.Now()
	for i, p := range []entity.Product{
		{Name: "Ordinateur Portable Dell XPS 13", ConventionalName: "Dell XPS", Reference: "DELL-XPS-001", Barcode: "1234567890123",
			Quantity: 25, MinStock: 5, Category: "Informatique", Brand: "Dell", Warehouse: "Entrepôt A", UnitPrice: decimal.RequireFromString("1299.00")},
		{Name: "iPhone 15 Pro Max", ConventionalName: "iPhone 15", Reference: "APPLE-IPH-015", Barcode: "1234567890124",
			Quantity: 3, MinStock: 10, Category: "Téléphones", Brand: "Apple", Warehouse: "Entrepôt A", UnitPrice: decimal.RequireFromString("1479.00")},
		{Name: "Samsung Galaxy S24 Ultra", ConventionalName: "Galaxy S24", Reference: "SAM-GAL-024", Barcode: "1234567890125",
			Quantity: 45, MinStock: 15, Category: "Téléphones", Brand: "Samsung", Warehouse: "Entrepôt B", UnitPrice: decimal.RequireFromString("1419.00")},
	} {
		p.ID = uuid.New().String()
		p.CreatedAt = now.Add(time.Duration(i) * time.Second)
		p.UpdatedAt = p.CreatedAt
		s.st.products[p.ID] = p
	}
	return s
}
