package dto

import "time"

// CreateLocationRequest entrada para crear una sucursal.
type CreateLocationRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Code    string `json:"code" validate:"required,min=1,max=10"`
	Address string `json:"address"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
}

// UpdateLocationRequest entrada para actualizar una sucursal.
type UpdateLocationRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Active  *bool   `json:"active"`
}

// LocationResponse salida de una sucursal.
type LocationResponse struct {
	ID        string    `json:"id"`
	VendorID  string    `json:"vendor_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationListResponse lista paginada de sucursales.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
