package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/puribe/gruposiete/models"
	"github.com/puribe/gruposiete/repositories"
)

// CatalogoService interface defines management of the catalog entities:
// measure types, verification procedures and sector organizations
type CatalogoService interface {
	GetTiposMedida(ctx context.Context) ([]models.TipoMedida, error)
	GetTipoMedida(ctx context.Context, id int64) (*models.TipoMedida, error)
	CreateTipoMedida(ctx context.Context, form *models.TipoMedidaForm) (*models.TipoMedida, error)
	UpdateTipoMedida(ctx context.Context, id int64, form *models.TipoMedidaForm) (*models.TipoMedida, error)
	DeleteTipoMedida(ctx context.Context, id int64) error

	GetVerificaciones(ctx context.Context) ([]models.Verificacion, error)
	GetVerificacion(ctx context.Context, id int64) (*models.Verificacion, error)
	CreateVerificacion(ctx context.Context, form *models.VerificacionForm) (*models.Verificacion, error)
	UpdateVerificacion(ctx context.Context, id int64, form *models.VerificacionForm) (*models.Verificacion, error)
	DeleteVerificacion(ctx context.Context, id int64) error

	GetOrganismos(ctx context.Context) ([]models.OrganismoSectorial, error)
	GetOrganismo(ctx context.Context, id int64) (*models.OrganismoSectorial, error)
	CreateOrganismo(ctx context.Context, form *models.OrganismoSectorialForm) (*models.OrganismoSectorial, error)
	UpdateOrganismo(ctx context.Context, id int64, form *models.OrganismoSectorialForm) (*models.OrganismoSectorial, error)
	DeleteOrganismo(ctx context.Context, id int64) error
}

// catalogoService implements CatalogoService interface
type catalogoService struct {
	tipoRepo         repositories.TipoMedidaRepository
	verificacionRepo repositories.VerificacionRepository
	organismoRepo    repositories.OrganismoRepository
}

// NewCatalogoService creates a new catalog service
func NewCatalogoService(
	tipoRepo repositories.TipoMedidaRepository,
	verificacionRepo repositories.VerificacionRepository,
	organismoRepo repositories.OrganismoRepository,
) CatalogoService {
	return &catalogoService{
		tipoRepo:         tipoRepo,
		verificacionRepo: verificacionRepo,
		organismoRepo:    organismoRepo,
	}
}

// GetTiposMedida retrieves all measure types
func (s *catalogoService) GetTiposMedida(ctx context.Context) ([]models.TipoMedida, error) {
	return s.tipoRepo.GetAll(ctx)
}

// GetTipoMedida retrieves a measure type by ID
func (s *catalogoService) GetTipoMedida(ctx context.Context, id int64) (*models.TipoMedida, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid measure type ID: %d", id)
	}
	return s.tipoRepo.GetByID(ctx, id)
}

// CreateTipoMedida creates a new measure type with validation
func (s *catalogoService) CreateTipoMedida(ctx context.Context, form *models.TipoMedidaForm) (*models.TipoMedida, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	tipo := &models.TipoMedida{Nombre: strings.TrimSpace(form.Nombre)}
	if err := s.tipoRepo.Create(ctx, tipo); err != nil {
		return nil, fmt.Errorf("failed to create measure type: %w", err)
	}

	return tipo, nil
}

// UpdateTipoMedida updates an existing measure type
func (s *catalogoService) UpdateTipoMedida(ctx context.Context, id int64, form *models.TipoMedidaForm) (*models.TipoMedida, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	tipo, err := s.tipoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("measure type not found: %w", err)
	}

	tipo.Nombre = strings.TrimSpace(form.Nombre)
	if err := s.tipoRepo.Update(ctx, tipo); err != nil {
		return nil, fmt.Errorf("failed to update measure type: %w", err)
	}

	return tipo, nil
}

// DeleteTipoMedida deletes a measure type; dependent measures cascade
func (s *catalogoService) DeleteTipoMedida(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid measure type ID: %d", id)
	}
	return s.tipoRepo.Delete(ctx, id)
}

// GetVerificaciones retrieves all verification procedures
func (s *catalogoService) GetVerificaciones(ctx context.Context) ([]models.Verificacion, error) {
	return s.verificacionRepo.GetAll(ctx)
}

// GetVerificacion retrieves a verification procedure by ID
func (s *catalogoService) GetVerificacion(ctx context.Context, id int64) (*models.Verificacion, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid verification ID: %d", id)
	}
	return s.verificacionRepo.GetByID(ctx, id)
}

// CreateVerificacion creates a new verification procedure with validation
func (s *catalogoService) CreateVerificacion(ctx context.Context, form *models.VerificacionForm) (*models.Verificacion, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	verificacion := &models.Verificacion{
		Nombre:       strings.TrimSpace(form.Nombre),
		Verificacion: strings.TrimSpace(form.Verificacion),
	}
	if err := s.verificacionRepo.Create(ctx, verificacion); err != nil {
		return nil, fmt.Errorf("failed to create verification: %w", err)
	}

	return verificacion, nil
}

// UpdateVerificacion updates an existing verification procedure
func (s *catalogoService) UpdateVerificacion(ctx context.Context, id int64, form *models.VerificacionForm) (*models.Verificacion, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	verificacion, err := s.verificacionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("verification not found: %w", err)
	}

	verificacion.Nombre = strings.TrimSpace(form.Nombre)
	verificacion.Verificacion = strings.TrimSpace(form.Verificacion)
	if err := s.verificacionRepo.Update(ctx, verificacion); err != nil {
		return nil, fmt.Errorf("failed to update verification: %w", err)
	}

	return verificacion, nil
}

// DeleteVerificacion deletes a verification procedure; measure links cascade
func (s *catalogoService) DeleteVerificacion(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid verification ID: %d", id)
	}
	return s.verificacionRepo.Delete(ctx, id)
}

// GetOrganismos retrieves all sector organizations
func (s *catalogoService) GetOrganismos(ctx context.Context) ([]models.OrganismoSectorial, error) {
	return s.organismoRepo.GetAll(ctx)
}

// GetOrganismo retrieves a sector organization by ID
func (s *catalogoService) GetOrganismo(ctx context.Context, id int64) (*models.OrganismoSectorial, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid sector organization ID: %d", id)
	}
	return s.organismoRepo.GetByID(ctx, id)
}

// CreateOrganismo creates a new sector organization with validation
func (s *catalogoService) CreateOrganismo(ctx context.Context, form *models.OrganismoSectorialForm) (*models.OrganismoSectorial, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	organismo := &models.OrganismoSectorial{Nombre: strings.TrimSpace(form.Nombre)}
	if err := s.organismoRepo.Create(ctx, organismo); err != nil {
		return nil, fmt.Errorf("failed to create sector organization: %w", err)
	}

	return organismo, nil
}

// UpdateOrganismo updates an existing sector organization
func (s *catalogoService) UpdateOrganismo(ctx context.Context, id int64, form *models.OrganismoSectorialForm) (*models.OrganismoSectorial, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	organismo, err := s.organismoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sector organization not found: %w", err)
	}

	organismo.Nombre = strings.TrimSpace(form.Nombre)
	if err := s.organismoRepo.Update(ctx, organismo); err != nil {
		return nil, fmt.Errorf("failed to update sector organization: %w", err)
	}

	return organismo, nil
}

// DeleteOrganismo deletes a sector organization. Dependent measures and
// reports cascade; user accounts keep their row with the reference
// nullified.
func (s *catalogoService) DeleteOrganismo(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid sector organization ID: %d", id)
	}
	return s.organismoRepo.Delete(ctx, id)
}
