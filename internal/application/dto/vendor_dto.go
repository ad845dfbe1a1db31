package dto

import "time"

// UpdateVendorRequest actualización parcial del comercio.
type UpdateVendorRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=2,max=200"`
	LicenseNumber *string `json:"license_number" validate:"omitempty,max=50"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone" validate:"omitempty,max=30"`
	Email         *string `json:"email" validate:"omitempty,email"`
}

// VendorResponse salida del comercio.
type VendorResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	LicenseNumber string    `json:"license_number"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SetModuleRequest activa o desactiva un módulo SaaS del comercio.
type SetModuleRequest struct {
	ModuleName string     `json:"module_name" validate:"required,oneof=transfers audits processors"`
	IsActive   bool       `json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// ModuleResponse estado de un módulo SaaS.
type ModuleResponse struct {
	ModuleName  string     `json:"module_name"`
	IsActive    bool       `json:"is_active"`
	ActivatedAt time.Time  `json:"activated_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// ModuleListResponse módulos del comercio.
type ModuleListResponse struct {
	Items []ModuleResponse `json:"items"`
}
