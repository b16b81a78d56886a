package models

import "strings"

// Verificacion is a documented verification procedure that can be linked
// to one or more measures
type Verificacion struct {
	ID           int64  `json:"id" db:"id"`
	Nombre       string `json:"nombre,omitempty" db:"nombre"`
	Verificacion string `json:"verificacion" db:"verificacion"`

	AuditFields // Embedded audit fields
}

// VerificacionForm represents form data for creating/updating verifications
type VerificacionForm struct {
	Nombre       string `json:"nombre"`
	Verificacion string `json:"verificacion"`
}

// Validate validates the verification form data
func (f *VerificacionForm) Validate() ValidationErrors {
	var errs ValidationErrors

	if len(f.Nombre) > 100 {
		errs = append(errs, ValidationError{Field: "nombre", Message: "nombre must be at most 100 characters"})
	}

	if strings.TrimSpace(f.Verificacion) == "" {
		errs = append(errs, ValidationError{Field: "verificacion", Message: "verificacion is required"})
	}

	if len(f.Verificacion) > 2000 {
		errs = append(errs, ValidationError{Field: "verificacion", Message: "verificacion must be at most 2000 characters"})
	}

	return errs
}
