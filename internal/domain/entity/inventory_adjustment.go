package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ajuste de inventario. Exactamente 8 valores; se persisten tal cual.
const (
	AdjustmentCountCorrection = "count_correction" // corrección por conteo físico
	AdjustmentReceiving       = "receiving"        // recepción de mercancía
	AdjustmentReturn          = "return"           // devolución de cliente
	AdjustmentDamage          = "damage"           // producto dañado
	AdjustmentTheft           = "theft"            // robo o pérdida no explicada
	AdjustmentExpiration      = "expiration"       // producto vencido
	AdjustmentWaste           = "waste"            // destrucción de residuo regulado
	AdjustmentOther           = "other"            // otro
)

// ValidAdjustmentTypes conjunto de tipos aceptados al crear un ajuste.
var ValidAdjustmentTypes = map[string]bool{
	AdjustmentCountCorrection: true,
	AdjustmentReceiving:       true,
	AdjustmentReturn:          true,
	AdjustmentDamage:          true,
	AdjustmentTheft:           true,
	AdjustmentExpiration:      true,
	AdjustmentWaste:           true,
	AdjustmentOther:           true,
}

// AuditReasonPrefix prefijo literal que marca los ajustes originados por una
// auditoría de conteo; el feed de auditorías agrupa sobre él.
const AuditReasonPrefix = "Audit:"

// InventoryAdjustment representa un cambio puntual y firmado de la existencia
// de un producto en una sucursal. Inmutable una vez creado: el API no expone
// actualización ni borrado. QuantityBefore/QuantityAfter los calcula el
// servidor dentro de la misma transacción que bloquea la fila de stock.
type InventoryAdjustment struct {
	ID             string
	VendorID       string
	ProductID      string
	LocationID     string
	Type           string
	QuantityChange decimal.Decimal // delta firmado; nunca cero
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	Reason         string
	Notes          string           // opcional
	UnitCost       *decimal.Decimal // solo recepciones; alimenta el costo promedio
	BatchID        *string          // id de auditoría asignado por el servidor; nil en ajustes manuales
	CreatedAt      time.Time
	CreatedBy      string
}

// IsAuditAdjustment indica si el ajuste pertenece a una sesión de conteo:
// motivo con prefijo "Audit:" y tipo count_correction.
func (a InventoryAdjustment) IsAuditAdjustment() bool {
	return a.Type == AdjustmentCountCorrection && len(a.Reason) >= len(AuditReasonPrefix) &&
		a.Reason[:len(AuditReasonPrefix)] == AuditReasonPrefix
}
