package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, vendor_id, location_id, session_id, user_id, number,
	       subtotal, tax_total, total, status, payment_method, processor_id,
	       payment_ref, card_brand, card_last4, tendered, change_due,
	       receipt_code, voided_by, voided_at, created_at`

// Create persiste la cabecera de la venta y sus líneas.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.VendorID, sale.LocationID, sale.SessionID, sale.UserID, sale.Number,
		sale.Subtotal, sale.TaxTotal, sale.Total, sale.Status, sale.PaymentMethod, sale.ProcessorID,
		nullIfEmpty(sale.PaymentRef), nullIfEmpty(sale.CardBrand), nullIfEmpty(sale.CardLast4),
		sale.Tendered, sale.ChangeDue,
		sale.ReceiptCode, sale.VoidedBy, sale.VoidedAt, sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sale number already exists: %w", err)
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.SaleID = sale.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, name, quantity, unit_price, tax_rate, line_subtotal, line_tax, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			item.ID, item.SaleID, item.ProductID, item.Name, item.Quantity,
			item.UnitPrice, item.TaxRate, item.LineSubtotal, item.LineTax, item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta completa (cabecera + líneas).
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	sale, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, name, quantity, unit_price, tax_rate, line_subtotal, line_tax, line_total
		FROM sale_items WHERE sale_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Name, &it.Quantity,
			&it.UnitPrice, &it.TaxRate, &it.LineSubtotal, &it.LineTax, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		sale.Items = append(sale.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sale, nil
}

// List devuelve ventas del vendor, más recientes primero. No carga líneas.
func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE vendor_id = $1`
	args := []interface{}{filter.VendorID}
	pos := 2

	if filter.LocationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, filter.LocationID)
		pos++
	}
	if filter.SessionID != "" {
		query += fmt.Sprintf(" AND session_id = $%d", pos)
		args = append(args, filter.SessionID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, sale)
	}
	return list, rows.Err()
}

// Void marca la venta como anulada. La restitución de stock corre en la misma
// transacción desde el caso de uso.
func (r *SaleRepo) Void(ctx context.Context, saleID, voidedBy string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET status = $2, voided_by = $3, voided_at = $4
		WHERE id = $1 AND status = $5`,
		saleID, entity.SaleStatusVoided, voidedBy, at, entity.SaleStatusCompleted,
	)
	if err != nil {
		return fmt.Errorf("void sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("void sale %s: no completed sale found", saleID)
	}
	return nil
}

// SumCashBySession suma las ventas en efectivo no anuladas de la sesión.
func (r *SaleRepo) SumCashBySession(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0) FROM sales
		WHERE session_id = $1 AND payment_method = $2 AND status = $3`,
		sessionID, entity.PaymentMethodCash, entity.SaleStatusCompleted,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum cash by session: %w", err)
	}
	return total, nil
}

func scanSale(row rowScanner) (*entity.Sale, error) {
	var s entity.Sale
	var paymentRef, cardBrand, cardLast4 *string
	err := row.Scan(
		&s.ID, &s.VendorID, &s.LocationID, &s.SessionID, &s.UserID, &s.Number,
		&s.Subtotal, &s.TaxTotal, &s.Total, &s.Status, &s.PaymentMethod, &s.ProcessorID,
		&paymentRef, &cardBrand, &cardLast4, &s.Tendered, &s.ChangeDue,
		&s.ReceiptCode, &s.VoidedBy, &s.VoidedAt, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	derefStr := func(p *string) string {
		if p != nil {
			return *p
		}
		return ""
	}
	s.PaymentRef = derefStr(paymentRef)
	s.CardBrand = derefStr(cardBrand)
	s.CardLast4 = derefStr(cardLast4)
	return &s, nil
}
