package repository

import (
	"context"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// AuditRepository define el puerto de persistencia para cabeceras de auditoría.
type AuditRepository interface {
	Create(ctx context.Context, audit *entity.Audit) error
	GetByID(ctx context.Context, id string) (*entity.Audit, error)
	// UpdateTallies actualiza los contadores al terminar el procesamiento best-effort.
	UpdateTallies(ctx context.Context, id string, applied, failed, skipped int) error
	ListByVendor(ctx context.Context, vendorID, locationID string, limit, offset int) ([]*entity.Audit, error)
}
