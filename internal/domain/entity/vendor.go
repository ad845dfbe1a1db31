package entity

import "time"

// Vendor representa un comercio/tenant del sistema (dispensario o tienda retail).
type Vendor struct {
	ID            string
	Name          string
	LicenseNumber string // licencia de operación del comercio (formato según jurisdicción)
	Address       string
	Phone         string
	Email         string
	Status        string // active, suspended, inactive
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Módulos SaaS disponibles (deben coincidir con el CHECK de la tabla vendor_modules).
const (
	ModuleTransfers  = "transfers"
	ModuleAudits     = "audits"
	ModuleProcessors = "processors"
)

// ValidModules conjunto de módulos aceptados al activar/desactivar.
var ValidModules = map[string]bool{
	ModuleTransfers:  true,
	ModuleAudits:     true,
	ModuleProcessors: true,
}

// VendorModule representa la activación de un módulo SaaS en un comercio.
type VendorModule struct {
	ID          string
	VendorID    string
	ModuleName  string // ver constantes Module*
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
