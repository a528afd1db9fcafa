package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Quantity es la existencia inicial.
type CreateProductRequest struct {
	Name             string           `json:"name" validate:"required,max=200"`
	ConventionalName string           `json:"conventional_name"`
	Reference        string           `json:"reference" validate:"required"`
	Barcode          string           `json:"barcode"`
	Quantity         int              `json:"quantity" validate:"min=0"`
	MinStock         *int             `json:"min_stock" validate:"omitempty,min=0"` // nil = 10
	Category         string           `json:"category"`
	Brand            string           `json:"brand"`
	Warehouse        string           `json:"warehouse"`
	Image            string           `json:"image"`
	UnitPrice        *decimal.Decimal `json:"unit_price"`
}

// UpdateProductRequest campos descriptivos editables; la cantidad solo cambia vía movimientos.
type UpdateProductRequest struct {
	Name             *string          `json:"name"`
	ConventionalName *string          `json:"conventional_name"`
	Reference        *string          `json:"reference"`
	Barcode          *string          `json:"barcode"`
	MinStock         *int             `json:"min_stock"`
	Category         *string          `json:"category"`
	Brand            *string          `json:"brand"`
	Warehouse        *string          `json:"warehouse"`
	Image            *string          `json:"image"`
	UnitPrice        *decimal.Decimal `json:"unit_price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ConventionalName string          `json:"conventional_name,omitempty"`
	Reference        string          `json:"reference"`
	Barcode          string          `json:"barcode,omitempty"`
	Quantity         int             `json:"quantity"`
	MinStock         int             `json:"min_stock"`
	LowStock         bool            `json:"low_stock"`
	Category         string          `json:"category,omitempty"`
	Brand            string          `json:"brand,omitempty"`
	Warehouse        string          `json:"warehouse,omitempty"`
	Image            string          `json:"image,omitempty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ImportProductsRequest filas crudas de una hoja de cálculo (encabezado → valor).
type ImportProductsRequest struct {
	Rows []map[string]string `json:"rows"`
}

// ImportProductsResponse resultado de la importación.
type ImportProductsResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
