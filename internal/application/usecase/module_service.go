package usecase

import (
	"context"
	"fmt"

	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

// ModuleService verifica qué módulos SaaS tiene activos un comercio.
// Es el único punto de la aplicación que conoce la lógica de activación.
type ModuleService struct {
	vendorRepo repository.VendorRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(vendorRepo repository.VendorRepository) *ModuleService {
	return &ModuleService{vendorRepo: vendorRepo}
}

// HasActiveModule informa si el comercio tiene el módulo activo y sin vencer.
// Devuelve false (sin error) si el comercio no tiene el módulo contratado.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *ModuleService) HasActiveModule(ctx context.Context, vendorID, moduleName string) (bool, error) {
	if vendorID == "" || moduleName == "" {
		return false, fmt.Errorf("module: vendorID y moduleName son obligatorios")
	}
	return s.vendorRepo.IsModuleEnabled(ctx, vendorID, moduleName)
}
