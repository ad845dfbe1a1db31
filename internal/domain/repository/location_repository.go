package repository

import (
	"context"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetByVendorAndCode(ctx context.Context, vendorID, code string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*entity.Location, error)
	Delete(ctx context.Context, id string) error
}
