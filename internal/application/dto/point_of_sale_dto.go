package dto

import "time"

// PointOfSaleRequest entrada para crear o actualizar un punto de venta.
type PointOfSaleRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Manager string `json:"manager"`
}

// PointOfSaleResponse salida de un punto de venta.
type PointOfSaleResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Manager   string    `json:"manager,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
