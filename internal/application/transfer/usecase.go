// Package transfer implementa el ciclo de vida de traslados entre sucursales:
// borrador, aprobación, despacho (descuenta origen), recepción (suma destino)
// y cancelación. Despacho y recepción mueven stock dentro de una transacción.
package transfer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
	"github.com/dcastano/VerdePOS-api/pkg/docnum"
)

// numberPrefix prefijo del consecutivo legible de traslados.
const numberPrefix = "TRF"

// TransferUseCase gestiona traslados de inventario. Los borradores y
// aprobados retienen stock en origen (ver inventario con holds); solo el
// despacho descuenta existencias y solo la recepción las suma.
type TransferUseCase struct {
	txRunner     TxRunner
	transferRepo repository.TransferRepository
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	numbers      *docnum.Generator
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	transferRepo repository.TransferRepository,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	numbers *docnum.Generator,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		transferRepo: transferRepo,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		numbers:      numbers,
	}
}

// Create crea un traslado en borrador con sus líneas. El carrito se indexa
// por producto: los repetidos se rechazan y las cantidades deben ser
// positivas. Cabecera y líneas se insertan en una sola transacción.
func (uc *TransferUseCase) Create(ctx context.Context, vendorID, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	transfer, err := uc.buildTransfer(ctx, vendorID, userID, in)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.StockRepository,
	) error {
		return transferRepo.Create(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}
	resp := toTransferResponse(transfer)
	return &resp, nil
}

// CreateAndShip crea el traslado ya despachado en una sola transacción:
// inserta cabecera+líneas con estado in_transit y descuenta cada línea del
// stock de origen. Stock insuficiente en cualquier línea revierte todo.
func (uc *TransferUseCase) CreateAndShip(ctx context.Context, vendorID, userID string, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	transfer, err := uc.buildTransfer(ctx, vendorID, userID, in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	transfer.Status = entity.TransferStatusInTransit
	transfer.ShippedAt = &now
	transfer.UpdatedAt = now

	err = uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		stockRepo repository.StockRepository,
	) error {
		if err := transferRepo.Create(ctx, transfer); err != nil {
			return err
		}
		return deductLines(ctx, stockRepo, transfer, now)
	})
	if err != nil {
		return nil, err
	}
	resp := toTransferResponse(transfer)
	return &resp, nil
}

// SaveDraft guardado explícito del carrito: reemplaza líneas y notas de un
// borrador. Sobre un traslado que ya no es editable devuelve ErrConflict.
func (uc *TransferUseCase) SaveDraft(ctx context.Context, vendorID, id string, in dto.UpdateTransferRequest) (*dto.TransferResponse, error) {
	transfer, err := uc.getOwned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if !transfer.IsEditable() {
		return nil, domain.ErrConflict
	}
	lines, err := uc.validateLines(ctx, vendorID, in.Lines)
	if err != nil {
		return nil, err
	}
	if err := uc.transferRepo.ReplaceLines(ctx, transfer.ID, lines); err != nil {
		return nil, err
	}
	if err := uc.transferRepo.UpdateNotes(ctx, transfer.ID, strings.TrimSpace(in.Notes)); err != nil {
		return nil, err
	}
	refreshed, err := uc.transferRepo.GetByID(ctx, transfer.ID)
	if err != nil {
		return nil, err
	}
	resp := toTransferResponse(refreshed)
	return &resp, nil
}

// Approve marca un borrador como aprobado y registra quién y cuándo.
func (uc *TransferUseCase) Approve(ctx context.Context, vendorID, userID, id string) (*dto.TransferResponse, error) {
	transfer, err := uc.getOwned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if !transfer.CanTransitionTo(entity.TransferStatusApproved) {
		return nil, domain.ErrInvalidTransition
	}
	now := time.Now()
	transfer.Status = entity.TransferStatusApproved
	transfer.ApprovedBy = &userID
	transfer.ApprovedAt = &now
	transfer.UpdatedAt = now
	if err := uc.transferRepo.UpdateStatus(ctx, transfer); err != nil {
		return nil, err
	}
	resp := toTransferResponse(transfer)
	return &resp, nil
}

// Ship despacha el traslado: una transacción descuenta cada línea del stock
// de origen y marca in_transit. Se relee dentro de la transacción para que
// dos despachos concurrentes no descuenten dos veces.
func (uc *TransferUseCase) Ship(ctx context.Context, vendorID, id string) (*dto.TransferResponse, error) {
	var shipped *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		stockRepo repository.StockRepository,
	) error {
		transfer, err := transferRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if transfer == nil || transfer.VendorID != vendorID {
			return domain.ErrNotFound
		}
		if !transfer.CanTransitionTo(entity.TransferStatusInTransit) {
			return domain.ErrInvalidTransition
		}
		now := time.Now()
		if err := deductLines(ctx, stockRepo, transfer, now); err != nil {
			return err
		}
		transfer.Status = entity.TransferStatusInTransit
		transfer.ShippedAt = &now
		transfer.UpdatedAt = now
		if err := transferRepo.UpdateStatus(ctx, transfer); err != nil {
			return err
		}
		shipped = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toTransferResponse(shipped)
	return &resp, nil
}

// Complete recibe el traslado en destino: una transacción suma cada línea al
// stock de la sucursal destino y marca completed.
func (uc *TransferUseCase) Complete(ctx context.Context, vendorID, id string) (*dto.TransferResponse, error) {
	var completed *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		transferRepo repository.TransferRepository,
		stockRepo repository.StockRepository,
	) error {
		transfer, err := transferRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if transfer == nil || transfer.VendorID != vendorID {
			return domain.ErrNotFound
		}
		if !transfer.CanTransitionTo(entity.TransferStatusCompleted) {
			return domain.ErrInvalidTransition
		}
		now := time.Now()
		for _, line := range transfer.Lines {
			stock, err := stockRepo.GetForUpdate(ctx, line.ProductID, transfer.ToLocationID)
			if err != nil {
				return err
			}
			stock.Quantity = stock.Quantity.Add(line.Quantity)
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(ctx, stock); err != nil {
				return err
			}
		}
		transfer.Status = entity.TransferStatusCompleted
		transfer.CompletedAt = &now
		transfer.UpdatedAt = now
		if err := transferRepo.UpdateStatus(ctx, transfer); err != nil {
			return err
		}
		completed = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toTransferResponse(completed)
	return &resp, nil
}

// Cancel descarta un traslado que aún no se despachó (borrador o aprobado).
// Como el stock no se tocó, cancelar solo cambia el estado y libera el hold.
func (uc *TransferUseCase) Cancel(ctx context.Context, vendorID, id string) (*dto.TransferResponse, error) {
	transfer, err := uc.getOwned(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if !transfer.CanTransitionTo(entity.TransferStatusCancelled) {
		return nil, domain.ErrInvalidTransition
	}
	now := time.Now()
	transfer.Status = entity.TransferStatusCancelled
	transfer.CancelledAt = &now
	transfer.UpdatedAt = now
	if err := uc.transferRepo.UpdateStatus(ctx, transfer); err != nil {
		return nil, err
	}
	resp := toTransferResponse(transfer)
	return &resp, nil
}

// GetByID devuelve el traslado con sus líneas, o nil si no existe o no
// pertenece al comercio.
func (uc *TransferUseCase) GetByID(ctx context.Context, vendorID, id string) (*dto.TransferResponse, error) {
	transfer, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transfer == nil || transfer.VendorID != vendorID {
		return nil, nil
	}
	resp := toTransferResponse(transfer)
	return &resp, nil
}

// List lista traslados del comercio filtrando por estado y/o sucursal
// (origen o destino). La lista viene sin líneas.
func (uc *TransferUseCase) List(ctx context.Context, vendorID string, in dto.ListTransfersRequest) (*dto.TransferListResponse, error) {
	in.DefaultPage()
	transfers, err := uc.transferRepo.List(ctx, repository.TransferFilter{
		VendorID:   vendorID,
		LocationID: in.LocationID,
		Status:     in.Status,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		items = append(items, toTransferResponse(t))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// buildTransfer valida sucursales y líneas y arma la entidad en borrador.
func (uc *TransferUseCase) buildTransfer(ctx context.Context, vendorID, userID string, in dto.CreateTransferRequest) (*entity.Transfer, error) {
	if in.FromLocationID == "" || in.ToLocationID == "" || in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrInvalidInput
	}
	for _, locID := range []string{in.FromLocationID, in.ToLocationID} {
		location, err := uc.locationRepo.GetByID(ctx, locID)
		if err != nil || location == nil {
			return nil, domain.ErrNotFound
		}
		if location.VendorID != vendorID {
			return nil, domain.ErrForbidden
		}
	}
	lines, err := uc.validateLines(ctx, vendorID, in.Lines)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &entity.Transfer{
		ID:             uuid.New().String(),
		VendorID:       vendorID,
		Number:         uc.numbers.Next(numberPrefix),
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Status:         entity.TransferStatusDraft,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
		Lines:          lines,
	}, nil
}

// validateLines valida el carrito: al menos una línea, productos del
// comercio, cantidades positivas y sin productos repetidos.
func (uc *TransferUseCase) validateLines(ctx context.Context, vendorID string, in []dto.TransferLineRequest) ([]entity.TransferLine, error) {
	if len(in) == 0 {
		return nil, domain.ErrEmptyTransfer
	}
	seen := make(map[string]bool, len(in))
	lines := make([]entity.TransferLine, 0, len(in))
	for _, l := range in {
		if l.ProductID == "" || seen[l.ProductID] {
			return nil, domain.ErrInvalidInput
		}
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		seen[l.ProductID] = true
		product, err := uc.productRepo.GetByID(ctx, l.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		if product.VendorID != vendorID {
			return nil, domain.ErrForbidden
		}
		lines = append(lines, entity.TransferLine{
			ID:        uuid.New().String(),
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	return lines, nil
}

// getOwned obtiene el traslado verificando que pertenezca al comercio.
func (uc *TransferUseCase) getOwned(ctx context.Context, vendorID, id string) (*entity.Transfer, error) {
	transfer, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	if transfer.VendorID != vendorID {
		return nil, domain.ErrForbidden
	}
	return transfer, nil
}

// deductLines descuenta cada línea del stock de la sucursal de origen con
// bloqueo de fila. Cualquier existencia que quedaría negativa corta con
// ErrInsufficientStock y revierte la transacción completa.
func deductLines(ctx context.Context, stockRepo repository.StockRepository, transfer *entity.Transfer, now time.Time) error {
	for _, line := range transfer.Lines {
		stock, err := stockRepo.GetForUpdate(ctx, line.ProductID, transfer.FromLocationID)
		if err != nil {
			return err
		}
		after := stock.Quantity.Sub(line.Quantity)
		if after.IsNegative() {
			return domain.ErrInsufficientStock
		}
		stock.Quantity = after
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(ctx, stock); err != nil {
			return err
		}
	}
	return nil
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	lines := make([]dto.TransferLineResponse, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, dto.TransferLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	return dto.TransferResponse{
		ID:             t.ID,
		VendorID:       t.VendorID,
		Number:         t.Number,
		FromLocationID: t.FromLocationID,
		ToLocationID:   t.ToLocationID,
		Status:         t.Status,
		Notes:          t.Notes,
		CreatedBy:      t.CreatedBy,
		ApprovedBy:     t.ApprovedBy,
		ApprovedAt:     t.ApprovedAt,
		ShippedAt:      t.ShippedAt,
		CompletedAt:    t.CompletedAt,
		CancelledAt:    t.CancelledAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		Lines:          lines,
	}
}
