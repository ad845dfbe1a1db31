package repository

import (
	"context"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*entity.Category, error)
	Delete(ctx context.Context, id string) error
}
