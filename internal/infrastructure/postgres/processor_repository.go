package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

var _ repository.ProcessorRepository = (*ProcessorRepo)(nil)

// ProcessorRepo implementación de ProcessorRepository sobre PostgreSQL.
// Las credenciales se persisten como jsonb.
type ProcessorRepo struct {
	q Querier
}

// NewProcessorRepository construye el adaptador de persistencia para procesadores.
func NewProcessorRepository(q Querier) *ProcessorRepo {
	return &ProcessorRepo{q: q}
}

// Create persiste un nuevo procesador.
func (r *ProcessorRepo) Create(ctx context.Context, processor *entity.PaymentProcessor) error {
	if processor.ID == "" {
		processor.ID = uuid.New().String()
	}
	creds, err := json.Marshal(processor.Credentials)
	if err != nil {
		return fmt.Errorf("marshal processor credentials: %w", err)
	}
	query := `
		INSERT INTO payment_processors (id, vendor_id, location_id, type, name, credentials, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, query,
		processor.ID, processor.VendorID, processor.LocationID, processor.Type,
		processor.Name, creds, processor.Active,
		processor.CreatedAt, processor.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payment processor: %w", err)
	}
	return nil
}

// GetByID obtiene un procesador por ID.
func (r *ProcessorRepo) GetByID(ctx context.Context, id string) (*entity.PaymentProcessor, error) {
	query := `
		SELECT id, vendor_id, location_id, type, name, credentials, active, created_at, updated_at
		FROM payment_processors WHERE id = $1`
	p, err := scanProcessor(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment processor: %w", err)
	}
	return p, nil
}

// Update actualiza un procesador existente (credenciales incluidas).
func (r *ProcessorRepo) Update(ctx context.Context, processor *entity.PaymentProcessor) error {
	creds, err := json.Marshal(processor.Credentials)
	if err != nil {
		return fmt.Errorf("marshal processor credentials: %w", err)
	}
	query := `
		UPDATE payment_processors
		SET location_id = $2, type = $3, name = $4, credentials = $5, active = $6, updated_at = $7
		WHERE id = $1`
	_, err = r.q.Exec(ctx, query,
		processor.ID, processor.LocationID, processor.Type, processor.Name,
		creds, processor.Active, processor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update payment processor: %w", err)
	}
	return nil
}

// ListByVendor lista procesadores del vendor. onlyActive filtra los inactivos.
func (r *ProcessorRepo) ListByVendor(ctx context.Context, vendorID string, onlyActive bool) ([]*entity.PaymentProcessor, error) {
	query := `
		SELECT id, vendor_id, location_id, type, name, credentials, active, created_at, updated_at
		FROM payment_processors WHERE vendor_id = $1`
	if onlyActive {
		query += ` AND active = true`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.q.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list payment processors: %w", err)
	}
	defer rows.Close()

	var list []*entity.PaymentProcessor
	for rows.Next() {
		p, err := scanProcessor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment processor: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un procesador por ID. Falla con ErrConflict si alguna venta
// lo referencia; en ese caso conviene desactivarlo en lugar de borrarlo.
func (r *ProcessorRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM payment_processors WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete payment processor: %w", err)
	}
	return nil
}

func scanProcessor(row rowScanner) (*entity.PaymentProcessor, error) {
	var p entity.PaymentProcessor
	var creds []byte
	err := row.Scan(
		&p.ID, &p.VendorID, &p.LocationID, &p.Type, &p.Name, &creds, &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(creds) > 0 {
		if err := json.Unmarshal(creds, &p.Credentials); err != nil {
			return nil, fmt.Errorf("unmarshal processor credentials: %w", err)
		}
	}
	return &p, nil
}
