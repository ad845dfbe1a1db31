package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"
	RoleBudtender = "budtender"
)

// User representa un usuario del sistema (pertenece a un Vendor).
type User struct {
	ID           string
	VendorID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, manager, budtender
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
