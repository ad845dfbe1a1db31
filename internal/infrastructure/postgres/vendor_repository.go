package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dcastano/VerdePOS-api/internal/domain"
	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

// Asegura que VendorRepo implementa repository.VendorRepository.
var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo implementación del puerto VendorRepository sobre PostgreSQL.
type VendorRepo struct {
	q Querier
}

// NewVendorRepository construye el adaptador de persistencia para comercios.
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

// Create persiste un nuevo comercio.
func (r *VendorRepo) Create(ctx context.Context, vendor *entity.Vendor) error {
	query := `
		INSERT INTO vendors (id, name, license_number, address, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		vendor.ID, vendor.Name, vendor.LicenseNumber, vendor.Address,
		vendor.Phone, vendor.Email, vendor.Status,
		vendor.CreatedAt, vendor.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID obtiene un comercio por ID.
func (r *VendorRepo) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	query := `
		SELECT id, name, license_number, address, phone, email, status, created_at, updated_at
		FROM vendors WHERE id = $1`
	var v entity.Vendor
	err := r.q.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.LicenseNumber, &v.Address, &v.Phone, &v.Email, &v.Status,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return &v, nil
}

// Update actualiza un comercio existente.
func (r *VendorRepo) Update(ctx context.Context, vendor *entity.Vendor) error {
	query := `
		UPDATE vendors SET name = $2, license_number = $3, address = $4, phone = $5, email = $6, status = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		vendor.ID, vendor.Name, vendor.LicenseNumber, vendor.Address,
		vendor.Phone, vendor.Email, vendor.Status, vendor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vendor: %w", err)
	}
	return nil
}

// ListModules devuelve la configuración de módulos del comercio.
func (r *VendorRepo) ListModules(ctx context.Context, vendorID string) ([]*entity.VendorModule, error) {
	query := `
		SELECT id, vendor_id, module_name, is_active, activated_at, expires_at, created_at, updated_at
		FROM vendor_modules WHERE vendor_id = $1 ORDER BY module_name ASC`
	rows, err := r.q.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("list vendor modules: %w", err)
	}
	defer rows.Close()

	var list []*entity.VendorModule
	for rows.Next() {
		var m entity.VendorModule
		if err := rows.Scan(&m.ID, &m.VendorID, &m.ModuleName, &m.IsActive, &m.ActivatedAt, &m.ExpiresAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor module: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SetModule activa o desactiva un módulo (upsert por vendor+módulo).
func (r *VendorRepo) SetModule(ctx context.Context, module *entity.VendorModule) error {
	query := `
		INSERT INTO vendor_modules (id, vendor_id, module_name, is_active, activated_at, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (vendor_id, module_name)
		DO UPDATE SET is_active = EXCLUDED.is_active, activated_at = EXCLUDED.activated_at,
			expires_at = EXCLUDED.expires_at, updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		module.ID, module.VendorID, module.ModuleName, module.IsActive,
		module.ActivatedAt, module.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("set vendor module: %w", err)
	}
	return nil
}

// IsModuleEnabled informa si el comercio tiene el módulo activo y sin vencer.
// Consulta directamente vendor_modules para una respuesta O(1) vía índice.
func (r *VendorRepo) IsModuleEnabled(ctx context.Context, vendorID, moduleName string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM vendor_modules
			 WHERE vendor_id   = $1
			   AND module_name = $2
			   AND is_active   = true
			   AND (expires_at IS NULL OR expires_at > now())
		)`
	var active bool
	if err := r.q.QueryRow(ctx, query, vendorID, moduleName).Scan(&active); err != nil {
		return false, fmt.Errorf("check module %s: %w", moduleName, err)
	}
	return active, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
