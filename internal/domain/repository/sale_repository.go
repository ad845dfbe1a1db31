package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// SaleFilter criterios del historial de ventas.
type SaleFilter struct {
	VendorID   string
	LocationID string // opcional
	SessionID  string // opcional
	From, To   *time.Time
	Limit      int
	Offset     int
}

// SaleRepository define el puerto de persistencia para ventas POS.
type SaleRepository interface {
	// Create inserta cabecera y líneas de la venta.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	// Void marca la venta como anulada (el stock se restituye en la misma transacción).
	Void(ctx context.Context, saleID, voidedBy string, at time.Time) error
	// SumCashBySession suma las ventas en efectivo no anuladas de una sesión
	// (efectivo esperado al cierre de caja).
	SumCashBySession(ctx context.Context, sessionID string) (decimal.Decimal, error)
}
