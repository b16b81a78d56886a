package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/puribe/gruposiete/models"
	"github.com/puribe/gruposiete/repositories"
)

// PlanService interface defines plan management business logic
type PlanService interface {
	GetAll(ctx context.Context) ([]models.Plan, error)
	GetByID(ctx context.Context, id int64) (*models.Plan, error)
	Create(ctx context.Context, form *models.PlanForm) (*models.Plan, error)
	Update(ctx context.Context, id int64, form *models.PlanForm) (*models.Plan, error)
	Delete(ctx context.Context, id int64) error
	AddOrganismo(ctx context.Context, planID, organismoID int64) error
	RemoveOrganismo(ctx context.Context, planID, organismoID int64) error
	GetOrganismos(ctx context.Context, planID int64) ([]models.OrganismoSectorial, error)
}

// planService implements PlanService interface
type planService struct {
	planRepo      repositories.PlanRepository
	organismoRepo repositories.OrganismoRepository
}

// NewPlanService creates a new plan service
func NewPlanService(planRepo repositories.PlanRepository, organismoRepo repositories.OrganismoRepository) PlanService {
	return &planService{
		planRepo:      planRepo,
		organismoRepo: organismoRepo,
	}
}

// GetAll retrieves all plans
func (s *planService) GetAll(ctx context.Context) ([]models.Plan, error) {
	return s.planRepo.GetAll(ctx)
}

// GetByID retrieves a plan by ID
func (s *planService) GetByID(ctx context.Context, id int64) (*models.Plan, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid plan ID: %d", id)
	}
	return s.planRepo.GetByID(ctx, id)
}

// Create creates a new plan with validation
func (s *planService) Create(ctx context.Context, form *models.PlanForm) (*models.Plan, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	inicio, termino := form.Dates()
	plan := &models.Plan{
		Nombre:       strings.TrimSpace(form.Nombre),
		Inicio:       inicio,
		Termino:      termino,
		EstadoAvance: strings.TrimSpace(form.EstadoAvance),
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	return plan, nil
}

// Update updates an existing plan
func (s *planService) Update(ctx context.Context, id int64, form *models.PlanForm) (*models.Plan, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("plan not found: %w", err)
	}

	inicio, termino := form.Dates()
	plan.Nombre = strings.TrimSpace(form.Nombre)
	plan.Inicio = inicio
	plan.Termino = termino
	plan.EstadoAvance = strings.TrimSpace(form.EstadoAvance)

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	return plan, nil
}

// Delete deletes a plan; its measures, their reports and its
// organization links cascade
func (s *planService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid plan ID: %d", id)
	}
	return s.planRepo.Delete(ctx, id)
}

// AddOrganismo links a sector organization to a plan, checking both exist
func (s *planService) AddOrganismo(ctx context.Context, planID, organismoID int64) error {
	if _, err := s.planRepo.GetByID(ctx, planID); err != nil {
		return fmt.Errorf("plan not found: %w", err)
	}
	if _, err := s.organismoRepo.GetByID(ctx, organismoID); err != nil {
		return fmt.Errorf("sector organization not found: %w", err)
	}
	return s.planRepo.AddOrganismo(ctx, planID, organismoID)
}

// RemoveOrganismo unlinks a sector organization from a plan
func (s *planService) RemoveOrganismo(ctx context.Context, planID, organismoID int64) error {
	return s.planRepo.RemoveOrganismo(ctx, planID, organismoID)
}

// GetOrganismos retrieves the sector organizations linked to a plan
func (s *planService) GetOrganismos(ctx context.Context, planID int64) ([]models.OrganismoSectorial, error) {
	if planID <= 0 {
		return nil, fmt.Errorf("invalid plan ID: %d", planID)
	}
	return s.planRepo.GetOrganismos(ctx, planID)
}
