package pos_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/VerdePOS-api/internal/domain/pos"
)

// ──────────────────────────────────────────────────────────────────────────────
// TestCalculate_VectorExacto valida que el cálculo SHA-256 del código de recibo
// produce el hash exacto esperado para parámetros conocidos. Si alguien altera
// la cadena de concatenación, el algoritmo o el formato de montos, este test
// falla de inmediato.
//
// Vector de prueba calculado manualmente con SHA-256:
//
//	Cadena = Number + IssuedAt + Subtotal + TaxTotal + Total + VendorID + LocationID
//	       = "POS-1718900000001" + "2025-08-20T15:04:05Z" + "100000.00" +
//	         "19000.00" + "119000.00" + "f47ac10b-58cc-4372-a567-0e02b2c3d479" +
//	         "9b2f1e64-0c5a-4d6e-8a33-57d1a8f0b111"
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCodeExpected = "a3f851aeee46e6ac77d2efa75ee9057edea79736761fe68d3ecebf7cee72f15d"

	testNumber     = "POS-1718900000001"
	testIssuedAt   = "2025-08-20T15:04:05Z"
	testVendorID   = "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	testLocationID = "9b2f1e64-0c5a-4d6e-8a33-57d1a8f0b111"
)

func buildTestParams() *pos.ReceiptParams {
	return &pos.ReceiptParams{
		Number:     testNumber,
		IssuedAt:   testIssuedAt,
		Subtotal:   decimal.NewFromInt(100_000),
		TaxTotal:   decimal.NewFromInt(19_000),
		Total:      decimal.NewFromInt(119_000),
		VendorID:   testVendorID,
		LocationID: testLocationID,
	}
}

func TestCalculate_VectorExacto(t *testing.T) {
	svc := pos.NewReceiptCodeService()

	code, err := svc.Calculate(buildTestParams())
	require.NoError(t, err, "Calculate no debe retornar error con parámetros válidos")
	assert.Equal(t, testCodeExpected, code,
		"el código debe coincidir exactamente con el vector SHA-256 de referencia")
}

// TestCalculate_Determinista verifica que el mismo input produce siempre el mismo código.
func TestCalculate_Determinista(t *testing.T) {
	svc := pos.NewReceiptCodeService()

	c1, err1 := svc.Calculate(buildTestParams())
	c2, err2 := svc.Calculate(buildTestParams())

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, c1, c2)
}

// TestCalculate_SensibleAlTotal verifica que alterar el total cambia el código:
// de eso depende la detección de recibos adulterados.
func TestCalculate_SensibleAlTotal(t *testing.T) {
	svc := pos.NewReceiptCodeService()

	p1 := buildTestParams()
	p2 := buildTestParams()
	p2.Total = p2.Total.Add(decimal.NewFromInt(1))

	c1, _ := svc.Calculate(p1)
	c2, _ := svc.Calculate(p2)

	assert.NotEqual(t, c1, c2, "totales distintos deben producir códigos distintos")
}

func TestCalculate_ParametrosObligatorios(t *testing.T) {
	svc := pos.NewReceiptCodeService()

	casos := []struct {
		nombre string
		mutar  func(*pos.ReceiptParams)
	}{
		{"sin número", func(p *pos.ReceiptParams) { p.Number = "  " }},
		{"sin fecha", func(p *pos.ReceiptParams) { p.IssuedAt = "" }},
		{"sin vendor", func(p *pos.ReceiptParams) { p.VendorID = "" }},
		{"sin sucursal", func(p *pos.ReceiptParams) { p.LocationID = "" }},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			p := buildTestParams()
			c.mutar(p)
			_, err := svc.Calculate(p)
			assert.Error(t, err)
		})
	}

	_, err := svc.Calculate(nil)
	assert.Error(t, err)
}
