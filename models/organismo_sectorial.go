package models

import "strings"

// OrganismoSectorial is a sector organization responsible for
// implementing and reporting measures
type OrganismoSectorial struct {
	ID     int64  `json:"id" db:"id"`
	Nombre string `json:"nombre" db:"nombre"`

	AuditFields // Embedded audit fields
}

// OrganismoSectorialForm represents form data for creating/updating
// sector organizations
type OrganismoSectorialForm struct {
	Nombre string `json:"nombre"`
}

// Validate validates the sector organization form data
func (f *OrganismoSectorialForm) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(f.Nombre) == "" {
		errs = append(errs, ValidationError{Field: "nombre", Message: "nombre is required"})
	}

	if len(f.Nombre) > 255 {
		errs = append(errs, ValidationError{Field: "nombre", Message: "nombre must be at most 255 characters"})
	}

	return errs
}
