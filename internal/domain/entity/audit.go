package entity

import "time"

// Audit representa la cabecera de una auditoría de conteo físico.
// Su ID es el batch_id que el servidor estampa en los ajustes count_correction
// generados por el conteo, de modo que la agrupación del feed no dependa de
// heurísticas de tiempo para datos nuevos.
type Audit struct {
	ID          string
	VendorID    string
	LocationID  string
	Name        string   // nombre visible; el motivo de los ajustes es "Audit: <Name>"
	CategoryIDs []string // filtro opcional aplicado al conteo; vacío = todas
	Applied     int      // ajustes creados
	Failed      int      // productos cuyo ajuste falló
	Skipped     int      // productos con conteo igual a la existencia
	CreatedBy   string
	CreatedAt   time.Time
}
