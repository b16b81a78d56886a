package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/puribe/gruposiete/models"
	"github.com/puribe/gruposiete/repositories"
)

// MedidaService interface defines measure management business logic
type MedidaService interface {
	GetAll(ctx context.Context) ([]models.Medida, error)
	GetByID(ctx context.Context, id int64) (*models.Medida, error)
	GetByPlan(ctx context.Context, planID int64) ([]models.Medida, error)
	Create(ctx context.Context, form *models.MedidaForm) (*models.Medida, error)
	Update(ctx context.Context, id int64, form *models.MedidaForm) (*models.Medida, error)
	Delete(ctx context.Context, id int64) error
	AddVerificacion(ctx context.Context, medidaID, verificacionID int64) error
	RemoveVerificacion(ctx context.Context, medidaID, verificacionID int64) error
	GetVerificaciones(ctx context.Context, medidaID int64) ([]models.Verificacion, error)
}

// medidaService implements MedidaService interface
type medidaService struct {
	medidaRepo       repositories.MedidaRepository
	tipoRepo         repositories.TipoMedidaRepository
	planRepo         repositories.PlanRepository
	organismoRepo    repositories.OrganismoRepository
	verificacionRepo repositories.VerificacionRepository
}

// NewMedidaService creates a new measure service
func NewMedidaService(
	medidaRepo repositories.MedidaRepository,
	tipoRepo repositories.TipoMedidaRepository,
	planRepo repositories.PlanRepository,
	organismoRepo repositories.OrganismoRepository,
	verificacionRepo repositories.VerificacionRepository,
) MedidaService {
	return &medidaService{
		medidaRepo:       medidaRepo,
		tipoRepo:         tipoRepo,
		planRepo:         planRepo,
		organismoRepo:    organismoRepo,
		verificacionRepo: verificacionRepo,
	}
}

// GetAll retrieves all measures
func (s *medidaService) GetAll(ctx context.Context) ([]models.Medida, error) {
	return s.medidaRepo.GetAll(ctx)
}

// GetByID retrieves a measure by ID
func (s *medidaService) GetByID(ctx context.Context, id int64) (*models.Medida, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid measure ID: %d", id)
	}
	return s.medidaRepo.GetByID(ctx, id)
}

// GetByPlan retrieves the measures belonging to a plan
func (s *medidaService) GetByPlan(ctx context.Context, planID int64) ([]models.Medida, error) {
	if planID <= 0 {
		return nil, fmt.Errorf("invalid plan ID: %d", planID)
	}
	return s.medidaRepo.GetByPlan(ctx, planID)
}

// checkReferences verifies the measure's required references exist
func (s *medidaService) checkReferences(ctx context.Context, form *models.MedidaForm) error {
	if _, err := s.tipoRepo.GetByID(ctx, form.TipoMedidaID); err != nil {
		return fmt.Errorf("measure type not found: %w", err)
	}
	if _, err := s.planRepo.GetByID(ctx, form.PlanID); err != nil {
		return fmt.Errorf("plan not found: %w", err)
	}
	if _, err := s.organismoRepo.GetByID(ctx, form.OrganismoSectorialID); err != nil {
		return fmt.Errorf("sector organization not found: %w", err)
	}
	return nil
}

// Create creates a new measure with validation. The reporting frequency
// defaults to ANUAL when left empty.
func (s *medidaService) Create(ctx context.Context, form *models.MedidaForm) (*models.Medida, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	if err := s.checkReferences(ctx, form); err != nil {
		return nil, err
	}

	medida := &models.Medida{
		ReferenciaPDA:        strings.TrimSpace(form.ReferenciaPDA),
		NombreCorto:          strings.TrimSpace(form.NombreCorto),
		Indicador:            strings.TrimSpace(form.Indicador),
		FormulaDeCalculo:     strings.TrimSpace(form.FormulaDeCalculo),
		FrecuenciaReporte:    form.Frecuencia(),
		TipoDeDatoAValidar:   strings.TrimSpace(form.TipoDeDatoAValidar),
		TipoMedidaID:         form.TipoMedidaID,
		PlanID:               form.PlanID,
		OrganismoSectorialID: form.OrganismoSectorialID,
	}

	if err := s.medidaRepo.Create(ctx, medida); err != nil {
		return nil, fmt.Errorf("failed to create measure: %w", err)
	}

	return medida, nil
}

// Update updates an existing measure
func (s *medidaService) Update(ctx context.Context, id int64, form *models.MedidaForm) (*models.Medida, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	medida, err := s.medidaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("measure not found: %w", err)
	}

	if err := s.checkReferences(ctx, form); err != nil {
		return nil, err
	}

	medida.ReferenciaPDA = strings.TrimSpace(form.ReferenciaPDA)
	medida.NombreCorto = strings.TrimSpace(form.NombreCorto)
	medida.Indicador = strings.TrimSpace(form.Indicador)
	medida.FormulaDeCalculo = strings.TrimSpace(form.FormulaDeCalculo)
	medida.FrecuenciaReporte = form.Frecuencia()
	medida.TipoDeDatoAValidar = strings.TrimSpace(form.TipoDeDatoAValidar)
	medida.TipoMedidaID = form.TipoMedidaID
	medida.PlanID = form.PlanID
	medida.OrganismoSectorialID = form.OrganismoSectorialID

	if err := s.medidaRepo.Update(ctx, medida); err != nil {
		return nil, fmt.Errorf("failed to update measure: %w", err)
	}

	return medida, nil
}

// Delete deletes a measure; its reports and verification links cascade
func (s *medidaService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid measure ID: %d", id)
	}
	return s.medidaRepo.Delete(ctx, id)
}

// AddVerificacion links a verification procedure to a measure, checking
// both exist
func (s *medidaService) AddVerificacion(ctx context.Context, medidaID, verificacionID int64) error {
	if _, err := s.medidaRepo.GetByID(ctx, medidaID); err != nil {
		return fmt.Errorf("measure not found: %w", err)
	}
	if _, err := s.verificacionRepo.GetByID(ctx, verificacionID); err != nil {
		return fmt.Errorf("verification not found: %w", err)
	}
	return s.medidaRepo.AddVerificacion(ctx, medidaID, verificacionID)
}

// RemoveVerificacion unlinks a verification procedure from a measure
func (s *medidaService) RemoveVerificacion(ctx context.Context, medidaID, verificacionID int64) error {
	return s.medidaRepo.RemoveVerificacion(ctx, medidaID, verificacionID)
}

// GetVerificaciones retrieves the verification procedures linked to a measure
func (s *medidaService) GetVerificaciones(ctx context.Context, medidaID int64) ([]models.Verificacion, error) {
	if medidaID <= 0 {
		return nil, fmt.Errorf("invalid measure ID: %d", medidaID)
	}
	return s.medidaRepo.GetVerificaciones(ctx, medidaID)
}
