package models

import (
	"fmt"
	"strings"
)

// FrecuenciaReporte is the closed set of reporting frequencies for a measure
type FrecuenciaReporte string

const (
	FrecuenciaAnual      FrecuenciaReporte = "ANUAL"
	FrecuenciaUnica      FrecuenciaReporte = "UNICA"
	FrecuenciaCada5Anios FrecuenciaReporte = "CADA_5_ANIOS"
)

// Valid reports whether the value is one of the closed enumeration
func (f FrecuenciaReporte) Valid() bool {
	switch f {
	case FrecuenciaAnual, FrecuenciaUnica, FrecuenciaCada5Anios:
		return true
	}
	return false
}

// Medida is a measure/obligation to be reported periodically. It always
// belongs to exactly one TipoMedida, Plan and OrganismoSectorial; deleting
// any of those deletes the measure.
type Medida struct {
	ID                   int64             `json:"id" db:"id"`
	ReferenciaPDA        string            `json:"referencia_pda" db:"referencia_pda"`
	NombreCorto          string            `json:"nombre_corto" db:"nombre_corto"`
	Indicador            string            `json:"indicador" db:"indicador"`
	FormulaDeCalculo     string            `json:"formula_de_calculo" db:"formula_de_calculo"`
	FrecuenciaReporte    FrecuenciaReporte `json:"frecuencia_reporte" db:"frecuencia_reporte"`
	TipoDeDatoAValidar   string            `json:"tipo_de_dato_a_validar,omitempty" db:"tipo_de_dato_a_validar"`
	TipoMedidaID         int64             `json:"tipo_medida_id" db:"tipo_medida_id"`
	PlanID               int64             `json:"plan_id" db:"plan_id"`
	OrganismoSectorialID int64             `json:"organismo_sectorial_id" db:"organismo_sectorial_id"`

	AuditFields // Embedded audit fields
}

// MedidaForm represents form data for creating/updating measures.
// An empty FrecuenciaReporte defaults to ANUAL.
type MedidaForm struct {
	ReferenciaPDA        string `json:"referencia_pda"`
	NombreCorto          string `json:"nombre_corto"`
	Indicador            string `json:"indicador"`
	FormulaDeCalculo     string `json:"formula_de_calculo"`
	FrecuenciaReporte    string `json:"frecuencia_reporte"`
	TipoDeDatoAValidar   string `json:"tipo_de_dato_a_validar"`
	TipoMedidaID         int64  `json:"tipo_medida_id"`
	PlanID               int64  `json:"plan_id"`
	OrganismoSectorialID int64  `json:"organismo_sectorial_id"`
}

// Validate validates the measure form data
func (f *MedidaForm) Validate() ValidationErrors {
	var errs ValidationErrors

	requiredText := []struct {
		field, value string
		max          int
	}{
		{"referencia_pda", f.ReferenciaPDA, 100},
		{"nombre_corto", f.NombreCorto, 100},
		{"indicador", f.Indicador, 2000},
		{"formula_de_calculo", f.FormulaDeCalculo, 2000},
	}

	for _, rt := range requiredText {
		if strings.TrimSpace(rt.value) == "" {
			errs = append(errs, ValidationError{Field: rt.field, Message: rt.field + " is required"})
		}
		if len(rt.value) > rt.max {
			errs = append(errs, ValidationError{
				Field:   rt.field,
				Message: fmt.Sprintf("%s must be at most %d characters", rt.field, rt.max),
			})
		}
	}

	if f.FrecuenciaReporte != "" && !FrecuenciaReporte(f.FrecuenciaReporte).Valid() {
		errs = append(errs, ValidationError{
			Field:   "frecuencia_reporte",
			Message: "frecuencia_reporte must be one of ANUAL, UNICA, CADA_5_ANIOS",
		})
	}

	if len(f.TipoDeDatoAValidar) > 100 {
		errs = append(errs, ValidationError{Field: "tipo_de_dato_a_validar", Message: "tipo_de_dato_a_validar must be at most 100 characters"})
	}

	if f.TipoMedidaID <= 0 {
		errs = append(errs, ValidationError{Field: "tipo_medida_id", Message: "tipo_medida_id is required"})
	}

	if f.PlanID <= 0 {
		errs = append(errs, ValidationError{Field: "plan_id", Message: "plan_id is required"})
	}

	if f.OrganismoSectorialID <= 0 {
		errs = append(errs, ValidationError{Field: "organismo_sectorial_id", Message: "organismo_sectorial_id is required"})
	}

	return errs
}

// Frecuencia returns the reporting frequency for the form, applying the
// ANUAL default when left empty
func (f *MedidaForm) Frecuencia() FrecuenciaReporte {
	if f.FrecuenciaReporte == "" {
		return FrecuenciaAnual
	}
	return FrecuenciaReporte(f.FrecuenciaReporte)
}
