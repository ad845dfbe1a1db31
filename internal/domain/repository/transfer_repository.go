package repository

import (
	"context"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// TransferFilter criterios de listado de traslados.
type TransferFilter struct {
	VendorID   string
	LocationID string // opcional; coincide con origen o destino
	Status     string // opcional
	Limit      int
	Offset     int
}

// TransferRepository define el puerto de persistencia para traslados.
type TransferRepository interface {
	// Create inserta cabecera y líneas.
	Create(ctx context.Context, transfer *entity.Transfer) error
	// GetByID devuelve el traslado con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	// ReplaceLines reemplaza las líneas de un borrador (guardado explícito del carrito).
	ReplaceLines(ctx context.Context, transferID string, lines []entity.TransferLine) error
	// UpdateStatus persiste el estado y los sellos de tiempo/usuario del traslado.
	UpdateStatus(ctx context.Context, transfer *entity.Transfer) error
	UpdateNotes(ctx context.Context, transferID, notes string) error
	List(ctx context.Context, filter TransferFilter) ([]*entity.Transfer, error)
}
