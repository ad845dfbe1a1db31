package repository

import (
	"context"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// SessionRepository define el puerto de persistencia para sesiones de caja.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.RegisterSession) error
	GetByID(ctx context.Context, id string) (*entity.RegisterSession, error)
	// GetOpenByLocation devuelve la sesión abierta de la sucursal, o nil si no hay.
	GetOpenByLocation(ctx context.Context, locationID string) (*entity.RegisterSession, error)
	// Close persiste cierre: efectivo contado, esperado, usuario y hora.
	Close(ctx context.Context, session *entity.RegisterSession) error
	ListByVendor(ctx context.Context, vendorID, locationID string, limit, offset int) ([]*entity.RegisterSession, error)
}
