package repository

import (
	"context"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByEmailAndVendor(ctx context.Context, email, vendorID string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
}
