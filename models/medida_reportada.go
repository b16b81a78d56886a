package models

import "strings"

// EstadoVerificacion is the closed set of verification states for a
// reported measure
type EstadoVerificacion string

const (
	EstadoVerificacionPendiente EstadoVerificacion = "VERIFICACION_PENDIENTE"
	EstadoVerificada            EstadoVerificacion = "VERIFICADA"
	EstadoRechazada             EstadoVerificacion = "RECHAZADA"
)

// Valid reports whether the value is one of the closed enumeration
func (e EstadoVerificacion) Valid() bool {
	switch e {
	case EstadoVerificacionPendiente, EstadoVerificada, EstadoRechazada:
		return true
	}
	return false
}

// Terminal reports whether no further state transition is allowed
func (e EstadoVerificacion) Terminal() bool {
	return e == EstadoVerificada || e == EstadoRechazada
}

// MedidaReportada is a value reported for a measure by a sector
// organization, subject to verification
type MedidaReportada struct {
	ID                   int64              `json:"id" db:"id"`
	OrganismoSectorialID int64              `json:"organismo_sectorial_id" db:"organismo_sectorial_id"`
	MedidaID             int64              `json:"medida_id" db:"medida_id"`
	Valor                string             `json:"valor" db:"valor"`
	Estado               EstadoVerificacion `json:"estado" db:"estado"`

	AuditFields // Embedded audit fields
}

// MedidaReportadaForm represents form data for filing a report.
// An empty Estado defaults to VERIFICACION_PENDIENTE.
type MedidaReportadaForm struct {
	OrganismoSectorialID int64  `json:"organismo_sectorial_id"`
	MedidaID             int64  `json:"medida_id"`
	Valor                string `json:"valor"`
	Estado               string `json:"estado"`
}

// Validate validates the reported measure form data
func (f *MedidaReportadaForm) Validate() ValidationErrors {
	var errs ValidationErrors

	if f.OrganismoSectorialID <= 0 {
		errs = append(errs, ValidationError{Field: "organismo_sectorial_id", Message: "organismo_sectorial_id is required"})
	}

	if f.MedidaID <= 0 {
		errs = append(errs, ValidationError{Field: "medida_id", Message: "medida_id is required"})
	}

	if strings.TrimSpace(f.Valor) == "" {
		errs = append(errs, ValidationError{Field: "valor", Message: "valor is required"})
	}

	if len(f.Valor) > 50 {
		errs = append(errs, ValidationError{Field: "valor", Message: "valor must be at most 50 characters"})
	}

	if f.Estado != "" && !EstadoVerificacion(f.Estado).Valid() {
		errs = append(errs, ValidationError{
			Field:   "estado",
			Message: "estado must be one of VERIFICACION_PENDIENTE, VERIFICADA, RECHAZADA",
		})
	}

	return errs
}

// EstadoInicial returns the verification state for a new report,
// applying the VERIFICACION_PENDIENTE default when left empty
func (f *MedidaReportadaForm) EstadoInicial() EstadoVerificacion {
	if f.Estado == "" {
		return EstadoVerificacionPendiente
	}
	return EstadoVerificacion(f.Estado)
}
