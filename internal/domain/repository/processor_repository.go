package repository

import (
	"context"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// ProcessorRepository define el puerto de persistencia para procesadores de pago.
type ProcessorRepository interface {
	Create(ctx context.Context, processor *entity.PaymentProcessor) error
	GetByID(ctx context.Context, id string) (*entity.PaymentProcessor, error)
	Update(ctx context.Context, processor *entity.PaymentProcessor) error
	ListByVendor(ctx context.Context, vendorID string, onlyActive bool) ([]*entity.PaymentProcessor, error)
	Delete(ctx context.Context, id string) error
}
