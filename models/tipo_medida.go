package models

import "strings"

// TipoMedida classifies a Medida, e.g. regulatory vs non-regulatory
type TipoMedida struct {
	ID     int64  `json:"id" db:"id"`
	Nombre string `json:"nombre" db:"nombre"`

	AuditFields // Embedded audit fields
}

// TipoMedidaForm represents form data for creating/updating measure types
type TipoMedidaForm struct {
	Nombre string `json:"nombre"`
}

// Validate validates the measure type form data
func (f *TipoMedidaForm) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(f.Nombre) == "" {
		errs = append(errs, ValidationError{Field: "nombre", Message: "nombre is required"})
	}

	if len(f.Nombre) > 100 {
		errs = append(errs, ValidationError{Field: "nombre", Message: "nombre must be at most 100 characters"})
	}

	return errs
}
