// Package audit: agrupación de ajustes de inventario en lotes de auditoría
// para el feed de conteos (servicio de dominio, sin dependencias de infraestructura).
package audit

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcastano/VerdePOS-api/internal/domain/entity"
)

// BatchWindow ventana de tiempo para la agrupación heurística de ajustes
// antiguos sin batch_id: dos ajustes pertenecen al mismo lote solo si
// |Δt| respecto al ancla es estrictamente menor a 60 segundos.
const BatchWindow = 60 * time.Second

// Batch agrupa los ajustes de una misma sesión de conteo físico.
type Batch struct {
	ID                  string // "batch-<anchorID>" (heurístico) o "batch-<auditID>" (asignado por servidor)
	Reason              string
	CreatedAt           time.Time // timestamp del ajuste más reciente del lote
	LocationID          string
	Adjustments         []entity.InventoryAdjustment
	TotalQuantityChange decimal.Decimal
}

// Entry es un elemento del feed: exactamente uno de los dos campos es no-nil.
type Entry struct {
	Adjustment *entity.InventoryAdjustment
	Batch      *Batch
}

// CreatedAt devuelve el timestamp del elemento para ordenar el feed.
func (e Entry) CreatedAt() time.Time {
	if e.Batch != nil {
		return e.Batch.CreatedAt
	}
	return e.Adjustment.CreatedAt
}

// key devuelve un identificador estable para desempatar el orden del feed.
func (e Entry) key() string {
	if e.Batch != nil {
		return e.Batch.ID
	}
	return e.Adjustment.ID
}

// BuildFeed construye el feed de auditorías a partir de una lista de ajustes:
// los que traen batch_id (asignado por el servidor al crear la auditoría) se
// agrupan por ese id; los antiguos sin batch_id pasan por la agrupación
// heurística de ventana de 60s (Cluster). El resultado queda ordenado
// descendente por fecha, listo para agrupar por día calendario en el cliente.
func BuildFeed(adjustments []entity.InventoryAdjustment) []Entry {
	var legacy []entity.InventoryAdjustment
	groups := make(map[string][]entity.InventoryAdjustment)
	for _, a := range adjustments {
		if a.BatchID != nil && *a.BatchID != "" {
			groups[*a.BatchID] = append(groups[*a.BatchID], a)
			continue
		}
		legacy = append(legacy, a)
	}

	entries := Cluster(legacy)

	for batchID, members := range groups {
		sortDescending(members)
		if len(members) == 1 {
			// una auditoría que solo corrigió un producto se muestra como ajuste suelto
			m := members[0]
			entries = append(entries, Entry{Adjustment: &m})
			continue
		}
		total := decimal.Zero
		for _, m := range members {
			total = total.Add(m.QuantityChange)
		}
		anchor := members[0]
		entries = append(entries, Entry{Batch: &Batch{
			ID:                  "batch-" + batchID,
			Reason:              anchor.Reason,
			CreatedAt:           anchor.CreatedAt,
			LocationID:          anchor.LocationID,
			Adjustments:         members,
			TotalQuantityChange: total,
		}})
	}

	sort.Slice(entries, func(i, j int) bool {
		ti, tj := entries[i].CreatedAt(), entries[j].CreatedAt()
		if ti.Equal(tj) {
			return entries[i].key() > entries[j].key()
		}
		return ti.After(tj)
	})
	return entries
}

// Cluster aplica la agrupación heurística sobre ajustes sin batch_id:
//  1. Ordena descendente por fecha de creación y mantiene un set de procesados.
//  2. Cada ajuste no procesado con motivo prefijado "Audit:" y tipo
//     count_correction actúa como ancla: se buscan en el resto de la lista los
//     no procesados con motivo idéntico, mismo tipo y |Δt| < 60s respecto al ancla.
//  3. Dos o más registros se funden en un Batch con id sintético
//     "batch-<anchorID>", sumando quantity_change en TotalQuantityChange.
//  4. En caso contrario el ajuste se emite suelto.
//
// La heurística puede sobre-agrupar (mismo motivo coincidente en <60s) y
// sub-agrupar (cadenas de ajustes separados 59s que superan la ventana frente
// al ancla); se conserva solo para datos históricos sin batch_id.
func Cluster(adjustments []entity.InventoryAdjustment) []Entry {
	sorted := make([]entity.InventoryAdjustment, len(adjustments))
	copy(sorted, adjustments)
	sortDescending(sorted)

	processed := make(map[string]bool, len(sorted))
	entries := make([]Entry, 0, len(sorted))

	for i := range sorted {
		anchor := sorted[i]
		if processed[anchor.ID] {
			continue
		}
		if !anchor.IsAuditAdjustment() {
			processed[anchor.ID] = true
			entries = append(entries, Entry{Adjustment: &sorted[i]})
			continue
		}

		members := []entity.InventoryAdjustment{anchor}
		for j := i + 1; j < len(sorted); j++ {
			cand := sorted[j]
			if processed[cand.ID] {
				continue
			}
			if cand.Type != anchor.Type || cand.Reason != anchor.Reason {
				continue
			}
			if absDuration(anchor.CreatedAt.Sub(cand.CreatedAt)) >= BatchWindow {
				continue
			}
			members = append(members, cand)
		}

		if len(members) < 2 {
			processed[anchor.ID] = true
			entries = append(entries, Entry{Adjustment: &sorted[i]})
			continue
		}

		total := decimal.Zero
		for _, m := range members {
			processed[m.ID] = true
			total = total.Add(m.QuantityChange)
		}
		entries = append(entries, Entry{Batch: &Batch{
			ID:                  "batch-" + anchor.ID,
			Reason:              anchor.Reason,
			CreatedAt:           anchor.CreatedAt,
			LocationID:          anchor.LocationID,
			Adjustments:         members,
			TotalQuantityChange: total,
		}})
	}
	return entries
}

func sortDescending(adjs []entity.InventoryAdjustment) {
	sort.Slice(adjs, func(i, j int) bool {
		if adjs[i].CreatedAt.Equal(adjs[j].CreatedAt) {
			return adjs[i].ID > adjs[j].ID
		}
		return adjs[i].CreatedAt.After(adjs[j].CreatedAt)
	})
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
