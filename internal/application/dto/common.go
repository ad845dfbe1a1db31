package dto

import (
	"fmt"
	"time"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// DateRangeRequest rango de fechas opcional en query params.
// Acepta fecha sola (2026-01-31) o RFC3339 completo.
type DateRangeRequest struct {
	From string `query:"from"`
	To   string `query:"to"`
}

// Parse convierte los extremos del rango a time.Time. Una fecha sin hora cubre
// el día completo: From arranca a las 00:00 y To termina a las 23:59:59.999.
func (r DateRangeRequest) Parse() (from, to *time.Time, err error) {
	parse := func(s string, endOfDay bool) (*time.Time, error) {
		if s == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return &t, nil
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("fecha inválida %q (use 2006-01-02 o RFC3339)", s)
		}
		if endOfDay {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		return &t, nil
	}
	if from, err = parse(r.From, false); err != nil {
		return nil, nil, err
	}
	if to, err = parse(r.To, true); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}
