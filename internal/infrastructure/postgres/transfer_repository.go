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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, vendor_id, number, from_location_id, to_location_id, status, notes,
	       created_by, approved_by, approved_at, shipped_at, completed_at, cancelled_at,
	       created_at, updated_at`

// Create persiste la cabecera del traslado y sus líneas.
func (r *TransferRepo) Create(ctx context.Context, transfer *entity.Transfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		transfer.ID, transfer.VendorID, transfer.Number,
		transfer.FromLocationID, transfer.ToLocationID, transfer.Status, transfer.Notes,
		transfer.CreatedBy, transfer.ApprovedBy, transfer.ApprovedAt,
		transfer.ShippedAt, transfer.CompletedAt, transfer.CancelledAt,
		transfer.CreatedAt, transfer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	for i := range transfer.Lines {
		if err := r.insertLine(ctx, transfer.ID, &transfer.Lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *TransferRepo) insertLine(ctx context.Context, transferID string, line *entity.TransferLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	line.TransferID = transferID
	_, err := r.q.Exec(ctx,
		`INSERT INTO transfer_lines (id, transfer_id, product_id, quantity) VALUES ($1, $2, $3, $4)`,
		line.ID, line.TransferID, line.ProductID, line.Quantity,
	)
	if err != nil {
		return fmt.Errorf("insert transfer line: %w", err)
	}
	return nil
}

// GetByID obtiene el traslado completo (cabecera + líneas).
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	var t entity.Transfer
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.VendorID, &t.Number, &t.FromLocationID, &t.ToLocationID, &t.Status, &t.Notes,
		&t.CreatedBy, &t.ApprovedBy, &t.ApprovedAt, &t.ShippedAt, &t.CompletedAt, &t.CancelledAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}

	lines, err := r.linesByTransferID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Lines = lines
	return &t, nil
}

func (r *TransferRepo) linesByTransferID(ctx context.Context, transferID string) ([]entity.TransferLine, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, transfer_id, product_id, quantity FROM transfer_lines WHERE transfer_id = $1 ORDER BY id`,
		transferID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transfer lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.TransferLine
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.ID, &l.TransferID, &l.ProductID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan transfer line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ReplaceLines reemplaza las líneas del traslado (guardado explícito del carrito).
// Solo el caso de uso valida que el traslado siga en borrador.
func (r *TransferRepo) ReplaceLines(ctx context.Context, transferID string, lines []entity.TransferLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM transfer_lines WHERE transfer_id = $1`, transferID); err != nil {
		return fmt.Errorf("clear transfer lines: %w", err)
	}
	for i := range lines {
		if err := r.insertLine(ctx, transferID, &lines[i]); err != nil {
			return err
		}
	}
	if _, err := r.q.Exec(ctx, `UPDATE transfers SET updated_at = now() WHERE id = $1`, transferID); err != nil {
		return fmt.Errorf("touch transfer: %w", err)
	}
	return nil
}

// UpdateStatus persiste el estado y los sellos de tiempo/usuario del traslado.
func (r *TransferRepo) UpdateStatus(ctx context.Context, transfer *entity.Transfer) error {
	query := `
		UPDATE transfers
		SET status       = $2,
		    approved_by  = COALESCE($3, approved_by),
		    approved_at  = COALESCE($4, approved_at),
		    shipped_at   = COALESCE($5, shipped_at),
		    completed_at = COALESCE($6, completed_at),
		    cancelled_at = COALESCE($7, cancelled_at),
		    updated_at   = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		transfer.ID, transfer.Status,
		transfer.ApprovedBy, transfer.ApprovedAt,
		transfer.ShippedAt, transfer.CompletedAt, transfer.CancelledAt,
		transfer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	return nil
}

// UpdateNotes actualiza solo las notas del traslado.
func (r *TransferRepo) UpdateNotes(ctx context.Context, transferID, notes string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE transfers SET notes = $2, updated_at = now() WHERE id = $1`,
		transferID, notes,
	)
	if err != nil {
		return fmt.Errorf("update transfer notes: %w", err)
	}
	return nil
}

// List devuelve traslados del vendor, más recientes primero. No carga líneas.
func (r *TransferRepo) List(ctx context.Context, filter repository.TransferFilter) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE vendor_id = $1`
	args := []interface{}{filter.VendorID}
	pos := 2

	if filter.LocationID != "" {
		query += fmt.Sprintf(" AND (from_location_id = $%d OR to_location_id = $%d)", pos, pos)
		args = append(args, filter.LocationID)
		pos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transfer
	for rows.Next() {
		var t entity.Transfer
		if err := rows.Scan(
			&t.ID, &t.VendorID, &t.Number, &t.FromLocationID, &t.ToLocationID, &t.Status, &t.Notes,
			&t.CreatedBy, &t.ApprovedBy, &t.ApprovedAt, &t.ShippedAt, &t.CompletedAt, &t.CancelledAt,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
