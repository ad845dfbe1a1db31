// Package audit orquesta las auditorías de conteo físico: el alta masiva de
// correcciones best-effort y el feed agrupado de conteos.
package audit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dcastano/VerdePOS-api/internal/application/dto"
	"github.com/dcastano/VerdePOS-api/internal/application/inventory"
	"github.com/dcastano/VerdePOS-api/internal/domain"
	domainaudit "github.com/dcastano/VerdePOS-api/internal/domain/audit"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

// feedLimit cuántos ajustes recientes alimentan el feed de conteos.
const feedLimit = 500

// AuditUseCase procesa sesiones de conteo físico. Cada producto contado con
// diferencia genera un ajuste count_correction por la ruta canónica de
// inventario, estampado con el id de la auditoría como batch_id.
type AuditUseCase struct {
	auditRepo    repository.AuditRepository
	adjRepo      repository.AdjustmentRepository
	stockRepo    repository.StockRepository
	locationRepo repository.LocationRepository
	adjustments  *inventory.AdjustmentUseCase
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(
	auditRepo repository.AuditRepository,
	adjRepo repository.AdjustmentRepository,
	stockRepo repository.StockRepository,
	locationRepo repository.LocationRepository,
	adjustments *inventory.AdjustmentUseCase,
) *AuditUseCase {
	return &AuditUseCase{
		auditRepo:    auditRepo,
		adjRepo:      adjRepo,
		stockRepo:    stockRepo,
		locationRepo: locationRepo,
		adjustments:  adjustments,
	}
}

// Create procesa el conteo: persiste la cabecera y recorre los productos en
// orden, cada corrección en su propia transacción. El fallo de un producto no
// aborta los demás (best-effort); los conteos iguales a la existencia se
// omiten. Devuelve los contadores y el error por producto.
func (uc *AuditUseCase) Create(ctx context.Context, vendorID, userID string, in dto.CreateAuditRequest) (*dto.AuditResultResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.LocationID == "" || len(in.Counts) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in.Counts))
	for _, c := range in.Counts {
		if c.ProductID == "" || seen[c.ProductID] {
			return nil, domain.ErrInvalidInput
		}
		seen[c.ProductID] = true
	}
	location, err := uc.locationRepo.GetByID(ctx, in.LocationID)
	if err != nil || location == nil {
		return nil, domain.ErrNotFound
	}
	if location.VendorID != vendorID {
		return nil, domain.ErrForbidden
	}

	audit := &entity.Audit{
		ID:          uuid.New().String(),
		VendorID:    vendorID,
		LocationID:  in.LocationID,
		Name:        name,
		CategoryIDs: in.CategoryIDs,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
	}
	// La cabecera se persiste primero: su ID es el batch_id de los ajustes.
	if err := uc.auditRepo.Create(ctx, audit); err != nil {
		return nil, err
	}

	reason := entity.AuditReasonPrefix + " " + name
	var applied, failed, skipped int
	var itemErrors []dto.AuditItemError

	for _, c := range in.Counts {
		counted, err := inventory.ParseQuantity(c.CountedQuantity)
		if err != nil {
			failed++
			itemErrors = append(itemErrors, dto.AuditItemError{ProductID: c.ProductID, Error: "cantidad contada inválida"})
			continue
		}
		stock, err := uc.stockRepo.Get(ctx, c.ProductID, in.LocationID)
		if err != nil {
			failed++
			itemErrors = append(itemErrors, dto.AuditItemError{ProductID: c.ProductID, Error: err.Error()})
			continue
		}
		delta := counted.Sub(stock.Quantity)
		if delta.IsZero() {
			skipped++
			continue
		}
		_, err = uc.adjustments.Create(ctx, inventory.AdjustmentInput{
			VendorID:   vendorID,
			UserID:     userID,
			ProductID:  c.ProductID,
			LocationID: in.LocationID,
			Type:       entity.AdjustmentCountCorrection,
			Quantity:   delta,
			Reason:     reason,
			BatchID:    &audit.ID,
		})
		if err != nil {
			failed++
			itemErrors = append(itemErrors, dto.AuditItemError{ProductID: c.ProductID, Error: err.Error()})
			continue
		}
		applied++
	}

	audit.Applied, audit.Failed, audit.Skipped = applied, failed, skipped
	if err := uc.auditRepo.UpdateTallies(ctx, audit.ID, applied, failed, skipped); err != nil {
		return nil, err
	}

	return &dto.AuditResultResponse{
		Audit:   toAuditResponse(audit),
		Applied: applied,
		Failed:  failed,
		Skipped: skipped,
		Errors:  itemErrors,
	}, nil
}

// GetFeed construye el feed de conteos de la sucursal: los ajustes con
// batch_id se agrupan por ese id y los antiguos pasan por la agrupación
// heurística de 60 segundos. El resultado viene ordenado descendente por
// fecha, listo para agrupar por día en el cliente.
func (uc *AuditUseCase) GetFeed(ctx context.Context, vendorID, locationID string) (*dto.AuditFeedResponse, error) {
	rows, err := uc.adjRepo.List(ctx, repository.AdjustmentFilter{
		VendorID:   vendorID,
		LocationID: locationID,
		Limit:      feedLimit,
	})
	if err != nil {
		return nil, err
	}

	rowByID := make(map[string]repository.AdjustmentRow, len(rows))
	adjustments := make([]entity.InventoryAdjustment, 0, len(rows))
	for _, row := range rows {
		rowByID[row.ID] = row
		adjustments = append(adjustments, row.InventoryAdjustment)
	}

	entries := domainaudit.BuildFeed(adjustments)

	out := make([]dto.FeedEntryResponse, 0, len(entries))
	for _, e := range entries {
		if e.Batch != nil {
			members := make([]dto.AdjustmentResponse, 0, len(e.Batch.Adjustments))
			for _, m := range e.Batch.Adjustments {
				members = append(members, uc.resolveRow(rowByID, m))
			}
			out = append(out, dto.FeedEntryResponse{
				Kind: "batch",
				Batch: &dto.FeedBatchResponse{
					BatchID:             e.Batch.ID,
					Reason:              e.Batch.Reason,
					LocationID:          e.Batch.LocationID,
					CreatedAt:           e.Batch.CreatedAt,
					AdjustmentCount:     len(e.Batch.Adjustments),
					TotalQuantityChange: e.Batch.TotalQuantityChange,
					Adjustments:         members,
				},
			})
			continue
		}
		resp := uc.resolveRow(rowByID, *e.Adjustment)
		out = append(out, dto.FeedEntryResponse{Kind: "adjustment", Adjustment: &resp})
	}
	return &dto.AuditFeedResponse{Entries: out}, nil
}

// resolveRow recupera la fila enriquecida del ajuste para conservar los
// nombres de producto y sucursal en el feed.
func (uc *AuditUseCase) resolveRow(rowByID map[string]repository.AdjustmentRow, adj entity.InventoryAdjustment) dto.AdjustmentResponse {
	if row, ok := rowByID[adj.ID]; ok {
		return inventory.AdjustmentResponseFromRow(row)
	}
	return inventory.AdjustmentResponseFromRow(repository.AdjustmentRow{InventoryAdjustment: adj})
}

// List lista las cabeceras de auditorías pasadas, más recientes primero.
func (uc *AuditUseCase) List(ctx context.Context, vendorID, locationID string, page dto.PageRequest) (*dto.AuditListResponse, error) {
	page.DefaultPage()
	audits, err := uc.auditRepo.ListByVendor(ctx, vendorID, locationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditResponse, 0, len(audits))
	for _, a := range audits {
		items = append(items, toAuditResponse(a))
	}
	return &dto.AuditListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetByID devuelve la cabecera con los ajustes que generó, o nil si no existe
// o no pertenece al comercio.
func (uc *AuditUseCase) GetByID(ctx context.Context, vendorID, id string) (*dto.AuditDetailResponse, error) {
	audit, err := uc.auditRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if audit == nil || audit.VendorID != vendorID {
		return nil, nil
	}
	rows, err := uc.adjRepo.ListByBatchID(ctx, vendorID, audit.ID)
	if err != nil {
		return nil, err
	}
	adjustments := make([]dto.AdjustmentResponse, 0, len(rows))
	for _, row := range rows {
		adjustments = append(adjustments, inventory.AdjustmentResponseFromRow(row))
	}
	return &dto.AuditDetailResponse{
		Audit:       toAuditResponse(audit),
		Adjustments: adjustments,
	}, nil
}

func toAuditResponse(a *entity.Audit) dto.AuditResponse {
	return dto.AuditResponse{
		ID:          a.ID,
		VendorID:    a.VendorID,
		LocationID:  a.LocationID,
		Name:        a.Name,
		CategoryIDs: a.CategoryIDs,
		Applied:     a.Applied,
		Failed:      a.Failed,
		Skipped:     a.Skipped,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
	}
}
