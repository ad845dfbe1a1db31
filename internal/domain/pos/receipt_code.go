// Package pos: cálculo del código de verificación de recibo.
// Algoritmo: SHA-256 sobre la concatenación estricta de los campos de la venta.
// El código se imprime en el recibo y permite verificar que los totales no
// fueron alterados después de emitido.
package pos

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ReceiptParams contiene los datos de la venta en el orden de la cadena.
type ReceiptParams struct {
	Number     string          // número de venta (consecutivo, sin espacios)
	IssuedAt   string          // fecha de emisión RFC3339 en UTC
	Subtotal   decimal.Decimal // suma de líneas sin impuesto
	TaxTotal   decimal.Decimal // impuesto total
	Total      decimal.Decimal // total a pagar
	VendorID   string
	LocationID string
}

// ReceiptCodeService calcula el código de verificación de recibos.
type ReceiptCodeService struct{}

// NewReceiptCodeService crea el servicio.
func NewReceiptCodeService() *ReceiptCodeService {
	return &ReceiptCodeService{}
}

// Calculate genera el código (hash hexadecimal) a partir de los parámetros.
// Fórmula (sin separadores): Number + IssuedAt + Subtotal + TaxTotal + Total + VendorID + LocationID
// Montos sin separador de miles, con punto decimal y 2 decimales (ej: 1500.00).
func (s *ReceiptCodeService) Calculate(p *ReceiptParams) (string, error) {
	if p == nil {
		return "", fmt.Errorf("pos: ReceiptParams es obligatorio")
	}

	number := regexp.MustCompile(`\s+`).ReplaceAllString(strings.TrimSpace(p.Number), "")
	if number == "" {
		return "", fmt.Errorf("pos: Number es obligatorio")
	}
	if p.IssuedAt == "" {
		return "", fmt.Errorf("pos: IssuedAt es obligatorio (RFC3339 UTC)")
	}
	if p.VendorID == "" {
		return "", fmt.Errorf("pos: VendorID es obligatorio")
	}
	if p.LocationID == "" {
		return "", fmt.Errorf("pos: LocationID es obligatorio")
	}

	// Orden estricto (sin separadores)
	cadena := number +
		p.IssuedAt +
		formatAmount(p.Subtotal) +
		formatAmount(p.TaxTotal) +
		formatAmount(p.Total) +
		p.VendorID +
		p.LocationID

	hash := sha256.Sum256([]byte(cadena))
	return hex.EncodeToString(hash[:]), nil
}

// formatAmount formatea montos para la cadena: sin separador de miles, punto decimal, 2 decimales.
func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
