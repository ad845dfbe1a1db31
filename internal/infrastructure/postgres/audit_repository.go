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

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación de AuditRepository sobre PostgreSQL.
// category_ids se guarda como text[] de PostgreSQL.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de persistencia para auditorías.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create persiste la cabecera de la auditoría. El ID generado aquí es el
// batch_id que se estampa en los ajustes del conteo.
func (r *AuditRepo) Create(ctx context.Context, audit *entity.Audit) error {
	if audit.ID == "" {
		audit.ID = uuid.New().String()
	}
	query := `
		INSERT INTO audits (id, vendor_id, location_id, name, category_ids, applied, failed, skipped, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		audit.ID, audit.VendorID, audit.LocationID, audit.Name, audit.CategoryIDs,
		audit.Applied, audit.Failed, audit.Skipped, audit.CreatedBy, audit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

// GetByID obtiene una auditoría por ID.
func (r *AuditRepo) GetByID(ctx context.Context, id string) (*entity.Audit, error) {
	query := `
		SELECT id, vendor_id, location_id, name, category_ids, applied, failed, skipped, created_by, created_at
		FROM audits WHERE id = $1`
	var a entity.Audit
	err := r.q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.VendorID, &a.LocationID, &a.Name, &a.CategoryIDs,
		&a.Applied, &a.Failed, &a.Skipped, &a.CreatedBy, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit: %w", err)
	}
	return &a, nil
}

// UpdateTallies actualiza los contadores al terminar el procesamiento.
func (r *AuditRepo) UpdateTallies(ctx context.Context, id string, applied, failed, skipped int) error {
	_, err := r.q.Exec(ctx,
		`UPDATE audits SET applied = $2, failed = $3, skipped = $4 WHERE id = $1`,
		id, applied, failed, skipped,
	)
	if err != nil {
		return fmt.Errorf("update audit tallies: %w", err)
	}
	return nil
}

// ListByVendor lista auditorías del vendor, más recientes primero.
func (r *AuditRepo) ListByVendor(ctx context.Context, vendorID, locationID string, limit, offset int) ([]*entity.Audit, error) {
	query := `
		SELECT id, vendor_id, location_id, name, category_ids, applied, failed, skipped, created_by, created_at
		FROM audits WHERE vendor_id = $1`
	args := []interface{}{vendorID}
	pos := 2

	if locationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, locationID)
		pos++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()

	var list []*entity.Audit
	for rows.Next() {
		var a entity.Audit
		if err := rows.Scan(&a.ID, &a.VendorID, &a.LocationID, &a.Name, &a.CategoryIDs,
			&a.Applied, &a.Failed, &a.Skipped, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
