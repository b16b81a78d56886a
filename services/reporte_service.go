package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/puribe/gruposiete/models"
	"github.com/puribe/gruposiete/permissions"
	"github.com/puribe/gruposiete/repositories"
)

// ReporteService interface defines the reporting workflow: sector
// organizations file reports, which a verifying actor then accepts or
// rejects. Filing requires membership in the organizacion_sectorial
// group; verification additionally admits administrators.
type ReporteService interface {
	GetByID(ctx context.Context, id int64) (*models.MedidaReportada, error)
	ReportesDeMedida(ctx context.Context, medidaID int64) ([]models.MedidaReportada, error)
	ReportesDeOrganismo(ctx context.Context, organismoID int64) ([]models.MedidaReportada, error)
	Reportar(ctx context.Context, caller permissions.Caller, form *models.MedidaReportadaForm) (*models.MedidaReportada, error)
	Verificar(ctx context.Context, caller permissions.Caller, id int64) (*models.MedidaReportada, error)
	Rechazar(ctx context.Context, caller permissions.Caller, id int64) (*models.MedidaReportada, error)
	Delete(ctx context.Context, id int64) error
}

// reporteService implements ReporteService interface
type reporteService struct {
	reporteRepo   repositories.ReporteRepository
	medidaRepo    repositories.MedidaRepository
	organismoRepo repositories.OrganismoRepository
}

// NewReporteService creates a new reported measure service
func NewReporteService(
	reporteRepo repositories.ReporteRepository,
	medidaRepo repositories.MedidaRepository,
	organismoRepo repositories.OrganismoRepository,
) ReporteService {
	return &reporteService{
		reporteRepo:   reporteRepo,
		medidaRepo:    medidaRepo,
		organismoRepo: organismoRepo,
	}
}

// GetByID retrieves a reported measure by ID
func (s *reporteService) GetByID(ctx context.Context, id int64) (*models.MedidaReportada, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid reported measure ID: %d", id)
	}
	return s.reporteRepo.GetByID(ctx, id)
}

// ReportesDeMedida retrieves all reports filed for a measure
func (s *reporteService) ReportesDeMedida(ctx context.Context, medidaID int64) ([]models.MedidaReportada, error) {
	if medidaID <= 0 {
		return nil, fmt.Errorf("invalid measure ID: %d", medidaID)
	}
	return s.reporteRepo.GetByMedida(ctx, medidaID)
}

// ReportesDeOrganismo retrieves all reports filed by a sector organization
func (s *reporteService) ReportesDeOrganismo(ctx context.Context, organismoID int64) ([]models.MedidaReportada, error) {
	if organismoID <= 0 {
		return nil, fmt.Errorf("invalid sector organization ID: %d", organismoID)
	}
	return s.reporteRepo.GetByOrganismo(ctx, organismoID)
}

// Reportar files a new report for a measure. The caller must belong to
// the organizacion_sectorial group. New reports start in
// VERIFICACION_PENDIENTE unless the form says otherwise.
func (s *reporteService) Reportar(ctx context.Context, caller permissions.Caller, form *models.MedidaReportadaForm) (*models.MedidaReportada, error) {
	if !permissions.SectorialOnly(caller) {
		return nil, ErrAccessDenied
	}

	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	if _, err := s.medidaRepo.GetByID(ctx, form.MedidaID); err != nil {
		return nil, fmt.Errorf("measure not found: %w", err)
	}
	if _, err := s.organismoRepo.GetByID(ctx, form.OrganismoSectorialID); err != nil {
		return nil, fmt.Errorf("sector organization not found: %w", err)
	}

	reporte := &models.MedidaReportada{
		OrganismoSectorialID: form.OrganismoSectorialID,
		MedidaID:             form.MedidaID,
		Valor:                strings.TrimSpace(form.Valor),
		Estado:               form.EstadoInicial(),
	}

	if err := s.reporteRepo.Create(ctx, reporte); err != nil {
		return nil, fmt.Errorf("failed to file report: %w", err)
	}

	return reporte, nil
}

// Verificar marks a pending report as verified
func (s *reporteService) Verificar(ctx context.Context, caller permissions.Caller, id int64) (*models.MedidaReportada, error) {
	return s.transition(ctx, caller, id, models.EstadoVerificada)
}

// Rechazar marks a pending report as rejected
func (s *reporteService) Rechazar(ctx context.Context, caller permissions.Caller, id int64) (*models.MedidaReportada, error) {
	return s.transition(ctx, caller, id, models.EstadoRechazada)
}

// transition moves a report out of VERIFICACION_PENDIENTE. Both target
// states are terminal; a verified or rejected report never changes again.
func (s *reporteService) transition(ctx context.Context, caller permissions.Caller, id int64, estado models.EstadoVerificacion) (*models.MedidaReportada, error) {
	if !permissions.SectorialOrAdmin(caller) {
		return nil, ErrAccessDenied
	}

	if !estado.Valid() {
		return nil, fmt.Errorf("invalid verification state: %s", estado)
	}

	reporte, err := s.reporteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reported measure not found: %w", err)
	}

	if reporte.Estado.Terminal() {
		return nil, fmt.Errorf("report %d is already %s and cannot change state", id, reporte.Estado)
	}

	if err := s.reporteRepo.UpdateEstado(ctx, id, estado); err != nil {
		return nil, fmt.Errorf("failed to update report state: %w", err)
	}

	return s.reporteRepo.GetByID(ctx, id)
}

// Delete deletes a reported measure
func (s *reporteService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid reported measure ID: %d", id)
	}
	return s.reporteRepo.Delete(ctx, id)
}
