package models

import (
	"strings"
	"time"
)

// Plan is a regulatory plan grouping measures and the sector
// organizations that participate in it
type Plan struct {
	ID           int64      `json:"id" db:"id"`
	Nombre       string     `json:"nombre" db:"nombre"`
	Inicio       *time.Time `json:"inicio,omitempty" db:"inicio"`
	Termino      *time.Time `json:"termino,omitempty" db:"termino"`
	EstadoAvance string     `json:"estado_avance,omitempty" db:"estado_avance"`

	AuditFields // Embedded audit fields
}

// PlanForm represents form data for creating/updating plans.
// Inicio and Termino are optional and use "2006-01-02" format.
type PlanForm struct {
	Nombre       string `json:"nombre"`
	Inicio       string `json:"inicio"`
	Termino      string `json:"termino"`
	EstadoAvance string `json:"estado_avance"`
}

// Validate validates the plan form data
func (f *PlanForm) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(f.Nombre) == "" {
		errs = append(errs, ValidationError{Field: "nombre", Message: "nombre is required"})
	}

	if len(f.Nombre) > 255 {
		errs = append(errs, ValidationError{Field: "nombre", Message: "nombre must be at most 255 characters"})
	}

	if f.Inicio != "" {
		if _, err := ParseDate(f.Inicio); err != nil {
			errs = append(errs, ValidationError{Field: "inicio", Message: "inicio must be in YYYY-MM-DD format"})
		}
	}

	if f.Termino != "" {
		if _, err := ParseDate(f.Termino); err != nil {
			errs = append(errs, ValidationError{Field: "termino", Message: "termino must be in YYYY-MM-DD format"})
		}
	}

	if len(f.EstadoAvance) > 255 {
		errs = append(errs, ValidationError{Field: "estado_avance", Message: "estado_avance must be at most 255 characters"})
	}

	return errs
}

// Dates returns the parsed inicio/termino values. Call Validate first;
// unparseable inputs come back as nil.
func (f *PlanForm) Dates() (inicio, termino *time.Time) {
	if f.Inicio != "" {
		if t, err := ParseDate(f.Inicio); err == nil {
			inicio = &t
		}
	}
	if f.Termino != "" {
		if t, err := ParseDate(f.Termino); err == nil {
			termino = &t
		}
	}
	return inicio, termino
}
