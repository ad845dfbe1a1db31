package entity

import "time"

// Category representa una categoría de productos (flor, comestibles, extractos...).
type Category struct {
	ID          string
	VendorID    string
	Name        string
	Description string
	Status      string // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
