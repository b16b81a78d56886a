package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/puribe/gruposiete/models"
)

// ReporteRepository interface defines reported measure database operations
type ReporteRepository interface {
	GetByID(ctx context.Context, id int64) (*models.MedidaReportada, error)
	GetByMedida(ctx context.Context, medidaID int64) ([]models.MedidaReportada, error)
	GetByOrganismo(ctx context.Context, organismoID int64) ([]models.MedidaReportada, error)
	Create(ctx context.Context, reporte *models.MedidaReportada) error
	UpdateEstado(ctx context.Context, id int64, estado models.EstadoVerificacion) error
	Delete(ctx context.Context, id int64) error
}

// reporteRepository implements ReporteRepository interface
type reporteRepository struct {
	db *sql.DB
}

// NewReporteRepository creates a new reported measure repository
func NewReporteRepository(db *sql.DB) ReporteRepository {
	return &reporteRepository{db: db}
}

const reporteColumns = `
	id, organismo_sectorial_id, medida_id, valor, estado,
	created_at, updated_at, created_by, updated_by
`

func scanReporte(scan func(dest ...any) error) (*models.MedidaReportada, error) {
	var reporte models.MedidaReportada
	var createdBy, updatedBy sql.NullInt64

	err := scan(
		&reporte.ID,
		&reporte.OrganismoSectorialID,
		&reporte.MedidaID,
		&reporte.Valor,
		&reporte.Estado,
		&reporte.CreatedAt,
		&reporte.UpdatedAt,
		&createdBy,
		&updatedBy,
	)
	if err != nil {
		return nil, err
	}

	reporte.CreatedBy = refValue(createdBy)
	reporte.UpdatedBy = refValue(updatedBy)

	return &reporte, nil
}

func (r *reporteRepository) queryReportes(ctx context.Context, query string, args ...any) ([]models.MedidaReportada, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reported measures: %w", err)
	}
	defer rows.Close()

	var reportes []models.MedidaReportada
	for rows.Next() {
		reporte, err := scanReporte(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reported measure: %w", err)
		}
		reportes = append(reportes, *reporte)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reported measures: %w", err)
	}

	return reportes, nil
}

// GetByID retrieves a reported measure by ID
func (r *reporteRepository) GetByID(ctx context.Context, id int64) (*models.MedidaReportada, error) {
	query := `SELECT ` + reporteColumns + ` FROM medidas_reportadas WHERE id = ?`

	reporte, err := scanReporte(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reported measure with ID %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reported measure: %w", err)
	}

	return reporte, nil
}

// GetByMedida retrieves all reports filed for a measure
func (r *reporteRepository) GetByMedida(ctx context.Context, medidaID int64) ([]models.MedidaReportada, error) {
	query := `SELECT ` + reporteColumns + ` FROM medidas_reportadas WHERE medida_id = ? ORDER BY id ASC`
	return r.queryReportes(ctx, query, medidaID)
}

// GetByOrganismo retrieves all reports filed by a sector organization
func (r *reporteRepository) GetByOrganismo(ctx context.Context, organismoID int64) ([]models.MedidaReportada, error) {
	query := `SELECT ` + reporteColumns + ` FROM medidas_reportadas WHERE organismo_sectorial_id = ? ORDER BY id ASC`
	return r.queryReportes(ctx, query, organismoID)
}

// Create files a new report, stamping the ambient actor. An empty
// estado falls back to the schema default VERIFICACION_PENDIENTE.
func (r *reporteRepository) Create(ctx context.Context, reporte *models.MedidaReportada) error {
	if reporte.Estado == "" {
		reporte.Estado = models.EstadoVerificacionPendiente
	}

	query := `
		INSERT INTO medidas_reportadas (organismo_sectorial_id, medida_id, valor, estado,
		                                created_at, updated_at, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	actor := actorRef(ctx)

	result, err := r.db.ExecContext(ctx, query,
		reporte.OrganismoSectorialID,
		reporte.MedidaID,
		reporte.Valor,
		string(reporte.Estado),
		now, now, actor, actor,
	)
	if err != nil {
		return wrapWriteError("failed to create reported measure", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	reporte.ID = id
	reporte.CreatedAt = now
	reporte.UpdatedAt = now
	reporte.CreatedBy = refValue(actor)
	reporte.UpdatedBy = refValue(actor)
	return nil
}

// UpdateEstado changes the verification state of a report, re-stamping
// only updated_by
func (r *reporteRepository) UpdateEstado(ctx context.Context, id int64, estado models.EstadoVerificacion) error {
	query := `
		UPDATE medidas_reportadas
		SET estado = ?, updated_at = ?, updated_by = ?
		WHERE id = ?
	`

	now := time.Now()
	actor := actorRef(ctx)

	result, err := r.db.ExecContext(ctx, query, string(estado), now, actor, id)
	if err != nil {
		return wrapWriteError("failed to update reported measure state", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("reported measure with ID %d not found", id)
	}

	return nil
}

// Delete deletes a reported measure by ID
func (r *reporteRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM medidas_reportadas WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapWriteError("failed to delete reported measure", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("reported measure with ID %d not found", id)
	}

	return nil
}
