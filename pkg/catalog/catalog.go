// Package catalog contiene los catálogos de presentación del punto de venta:
// etiquetas de tipos de ajuste y métodos de pago para reportes, y las
// unidades de medida aceptadas en productos de retail cannábico.
// Los valores internos (claves) los define internal/domain/entity.
package catalog

// AdjustmentTypeLabels etiquetas para mostrar en exports y reportes.
var AdjustmentTypeLabels = map[string]string{
	"count_correction": "Corrección de conteo",
	"receiving":        "Recepción",
	"return":           "Devolución",
	"damage":           "Daño",
	"theft":            "Robo",
	"expiration":       "Vencimiento",
	"waste":            "Residuo",
	"other":            "Otro",
}

// PaymentMethodLabels etiquetas de método de pago para reportes.
var PaymentMethodLabels = map[string]string{
	"cash": "Efectivo",
	"card": "Tarjeta",
}

// Unidades de medida de producto (uso común en retail cannábico).
const (
	UnitEach       = "ea"  // Unidad
	UnitGram       = "g"   // Gramo
	UnitEighth     = "8th" // Octavo de onza (3.5 g)
	UnitOunce      = "oz"  // Onza
	UnitMilliliter = "ml"  // Mililitro
)

// ValidUnits unidades de medida aceptadas al crear productos.
var ValidUnits = map[string]bool{
	UnitEach: true, UnitGram: true, UnitEighth: true, UnitOunce: true, UnitMilliliter: true,
}
