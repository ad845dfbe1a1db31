package repository

import (
	"context"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// VendorRepository define el puerto de persistencia para Vendor y sus módulos SaaS (DIP).
type VendorRepository interface {
	Create(ctx context.Context, vendor *entity.Vendor) error
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
	Update(ctx context.Context, vendor *entity.Vendor) error

	// Módulos activables por comercio (transfers, audits, processors).
	ListModules(ctx context.Context, vendorID string) ([]*entity.VendorModule, error)
	SetModule(ctx context.Context, module *entity.VendorModule) error
	IsModuleEnabled(ctx context.Context, vendorID, moduleName string) (bool, error)
}
