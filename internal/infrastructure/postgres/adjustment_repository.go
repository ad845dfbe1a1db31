package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

// AdjustmentRepo implementación del puerto AdjustmentRepository sobre PostgreSQL (usable con pool o tx).
// Los ajustes son inmutables: solo se insertan y se consultan, nunca se
// actualizan ni se borran.
type AdjustmentRepo struct {
	q Querier
}

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

const adjustmentSelectColumns = `
		a.id, a.vendor_id, a.location_id, a.product_id, a.type, a.quantity_change,
		a.quantity_before, a.quantity_after, a.reason, a.notes, a.unit_cost,
		a.batch_id, a.created_by, a.created_at,
		p.name, p.sku, l.name, COALESCE(u.name, '')`

const adjustmentFromClause = `
	FROM inventory_adjustments a
	JOIN products p ON p.id = a.product_id
	JOIN locations l ON l.id = a.location_id
	LEFT JOIN users u ON u.id = a.created_by`

// Create inserta un ajuste ya calculado (before/after resueltos por el caso de uso).
func (r *AdjustmentRepo) Create(ctx context.Context, adjustment *entity.InventoryAdjustment) error {
	if adjustment.ID == "" {
		adjustment.ID = uuid.New().String()
	}

	query := `
		INSERT INTO inventory_adjustments (
			id, vendor_id, location_id, product_id, type, quantity_change,
			quantity_before, quantity_after, reason, notes, unit_cost,
			batch_id, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.q.Exec(ctx, query,
		adjustment.ID,
		adjustment.VendorID,
		adjustment.LocationID,
		adjustment.ProductID,
		adjustment.Type,
		adjustment.QuantityChange,
		adjustment.QuantityBefore,
		adjustment.QuantityAfter,
		adjustment.Reason,
		adjustment.Notes,
		adjustment.UnitCost,
		adjustment.BatchID,
		adjustment.CreatedBy,
		adjustment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error al crear ajuste de inventario: %w", err)
	}

	return nil
}

func (r *AdjustmentRepo) GetByID(ctx context.Context, id string) (*repository.AdjustmentRow, error) {
	query := `SELECT` + adjustmentSelectColumns + adjustmentFromClause + `
	WHERE a.id = $1`

	row := r.q.QueryRow(ctx, query, id)
	adjustment, err := scanAdjustmentRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error al obtener ajuste: %w", err)
	}

	return adjustment, nil
}

// List devuelve ajustes del vendor ordenados del más reciente al más antiguo.
func (r *AdjustmentRepo) List(ctx context.Context, filter repository.AdjustmentFilter) ([]repository.AdjustmentRow, error) {
	query := `SELECT` + adjustmentSelectColumns + adjustmentFromClause + `
	WHERE a.vendor_id = $1`

	args := []interface{}{filter.VendorID}
	pos := 2

	if filter.LocationID != "" {
		query += fmt.Sprintf(" AND a.location_id = $%d", pos)
		args = append(args, filter.LocationID)
		pos++
	}
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND a.product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND a.type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND a.created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND a.created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}

	query += fmt.Sprintf(" ORDER BY a.created_at DESC, a.id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error al listar ajustes: %w", err)
	}
	defer rows.Close()

	var adjustments []repository.AdjustmentRow
	for rows.Next() {
		adjustment, err := scanAdjustmentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("error al escanear ajuste: %w", err)
		}
		adjustments = append(adjustments, *adjustment)
	}

	return adjustments, rows.Err()
}

// ListByBatchID devuelve los miembros de un lote de auditoría.
func (r *AdjustmentRepo) ListByBatchID(ctx context.Context, vendorID, batchID string) ([]repository.AdjustmentRow, error) {
	query := `SELECT` + adjustmentSelectColumns + adjustmentFromClause + `
	WHERE a.vendor_id = $1 AND a.batch_id = $2
	ORDER BY a.created_at DESC, a.id DESC`

	rows, err := r.q.Query(ctx, query, vendorID, batchID)
	if err != nil {
		return nil, fmt.Errorf("error al listar ajustes del lote: %w", err)
	}
	defer rows.Close()

	var adjustments []repository.AdjustmentRow
	for rows.Next() {
		adjustment, err := scanAdjustmentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("error al escanear ajuste: %w", err)
		}
		adjustments = append(adjustments, *adjustment)
	}

	return adjustments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAdjustmentRow(row rowScanner) (*repository.AdjustmentRow, error) {
	var adjustment repository.AdjustmentRow
	err := row.Scan(
		&adjustment.ID,
		&adjustment.VendorID,
		&adjustment.LocationID,
		&adjustment.ProductID,
		&adjustment.Type,
		&adjustment.QuantityChange,
		&adjustment.QuantityBefore,
		&adjustment.QuantityAfter,
		&adjustment.Reason,
		&adjustment.Notes,
		&adjustment.UnitCost,
		&adjustment.BatchID,
		&adjustment.CreatedBy,
		&adjustment.CreatedAt,
		&adjustment.ProductName,
		&adjustment.ProductSKU,
		&adjustment.LocationName,
		&adjustment.CreatedByName,
	)
	if err != nil {
		return nil, err
	}
	return &adjustment, nil
}
