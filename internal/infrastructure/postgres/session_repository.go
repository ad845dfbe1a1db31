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

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación de SessionRepository (usable con pool o tx).
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

const sessionColumns = `id, vendor_id, location_id, opened_by, opening_cash,
	       closed_by, closing_cash, expected_cash, status, opened_at, closed_at`

// Create abre una nueva sesión de caja.
func (r *SessionRepo) Create(ctx context.Context, session *entity.RegisterSession) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	query := `
		INSERT INTO register_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		session.ID, session.VendorID, session.LocationID, session.OpenedBy, session.OpeningCash,
		session.ClosedBy, session.ClosingCash, session.ExpectedCash, session.Status,
		session.OpenedAt, session.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("insert register session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*entity.RegisterSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM register_sessions WHERE id = $1`
	s, err := scanSession(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get register session: %w", err)
	}
	return s, nil
}

// GetOpenByLocation devuelve la sesión abierta de la sucursal, o nil si no hay.
func (r *SessionRepo) GetOpenByLocation(ctx context.Context, locationID string) (*entity.RegisterSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM register_sessions
		WHERE location_id = $1 AND status = $2 ORDER BY opened_at DESC LIMIT 1`
	s, err := scanSession(r.q.QueryRow(ctx, query, locationID, entity.SessionStatusOpen))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open session: %w", err)
	}
	return s, nil
}

// Close persiste el cierre de la sesión.
func (r *SessionRepo) Close(ctx context.Context, session *entity.RegisterSession) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE register_sessions
		SET status = $2, closed_by = $3, closing_cash = $4, expected_cash = $5, closed_at = $6
		WHERE id = $1 AND status = $7`,
		session.ID, entity.SessionStatusClosed, session.ClosedBy,
		session.ClosingCash, session.ExpectedCash, session.ClosedAt,
		entity.SessionStatusOpen,
	)
	if err != nil {
		return fmt.Errorf("close register session: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("close register session %s: no open session found", session.ID)
	}
	return nil
}

// ListByVendor lista sesiones del vendor, más recientes primero.
func (r *SessionRepo) ListByVendor(ctx context.Context, vendorID, locationID string, limit, offset int) ([]*entity.RegisterSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM register_sessions WHERE vendor_id = $1`
	args := []interface{}{vendorID}
	pos := 2

	if locationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, locationID)
		pos++
	}

	query += fmt.Sprintf(" ORDER BY opened_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list register sessions: %w", err)
	}
	defer rows.Close()

	var list []*entity.RegisterSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan register session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSession(row rowScanner) (*entity.RegisterSession, error) {
	var s entity.RegisterSession
	err := row.Scan(
		&s.ID, &s.VendorID, &s.LocationID, &s.OpenedBy, &s.OpeningCash,
		&s.ClosedBy, &s.ClosingCash, &s.ExpectedCash, &s.Status,
		&s.OpenedAt, &s.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
