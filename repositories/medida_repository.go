package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/puribe/gruposiete/models"
)

// MedidaRepository interface defines measure database operations,
// including the many-to-many link with verification procedures
type MedidaRepository interface {
	GetAll(ctx context.Context) ([]models.Medida, error)
	GetByID(ctx context.Context, id int64) (*models.Medida, error)
	GetByPlan(ctx context.Context, planID int64) ([]models.Medida, error)
	Create(ctx context.Context, medida *models.Medida) error
	Update(ctx context.Context, medida *models.Medida) error
	Delete(ctx context.Context, id int64) error
	AddVerificacion(ctx context.Context, medidaID, verificacionID int64) error
	RemoveVerificacion(ctx context.Context, medidaID, verificacionID int64) error
	GetVerificaciones(ctx context.Context, medidaID int64) ([]models.Verificacion, error)
}

// medidaRepository implements MedidaRepository interface
type medidaRepository struct {
	db *sql.DB
}

// NewMedidaRepository creates a new measure repository
func NewMedidaRepository(db *sql.DB) MedidaRepository {
	return &medidaRepository{db: db}
}

const medidaColumns = `
	id, referencia_pda, nombre_corto, indicador, formula_de_calculo,
	frecuencia_reporte, tipo_de_dato_a_validar,
	tipo_medida_id, plan_id, organismo_sectorial_id,
	created_at, updated_at, created_by, updated_by
`

func scanMedida(scan func(dest ...any) error) (*models.Medida, error) {
	var medida models.Medida
	var createdBy, updatedBy sql.NullInt64

	err := scan(
		&medida.ID,
		&medida.ReferenciaPDA,
		&medida.NombreCorto,
		&medida.Indicador,
		&medida.FormulaDeCalculo,
		&medida.FrecuenciaReporte,
		&medida.TipoDeDatoAValidar,
		&medida.TipoMedidaID,
		&medida.PlanID,
		&medida.OrganismoSectorialID,
		&medida.CreatedAt,
		&medida.UpdatedAt,
		&createdBy,
		&updatedBy,
	)
	if err != nil {
		return nil, err
	}

	medida.CreatedBy = refValue(createdBy)
	medida.UpdatedBy = refValue(updatedBy)

	return &medida, nil
}

func (r *medidaRepository) queryMedidas(ctx context.Context, query string, args ...any) ([]models.Medida, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query measures: %w", err)
	}
	defer rows.Close()

	var medidas []models.Medida
	for rows.Next() {
		medida, err := scanMedida(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan measure: %w", err)
		}
		medidas = append(medidas, *medida)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating measures: %w", err)
	}

	return medidas, nil
}

// GetAll retrieves all measures
func (r *medidaRepository) GetAll(ctx context.Context) ([]models.Medida, error) {
	query := `SELECT ` + medidaColumns + ` FROM medidas ORDER BY referencia_pda ASC`
	return r.queryMedidas(ctx, query)
}

// GetByPlan retrieves all measures belonging to a plan
func (r *medidaRepository) GetByPlan(ctx context.Context, planID int64) ([]models.Medida, error) {
	query := `SELECT ` + medidaColumns + ` FROM medidas WHERE plan_id = ? ORDER BY referencia_pda ASC`
	return r.queryMedidas(ctx, query, planID)
}

// GetByID retrieves a measure by ID
func (r *medidaRepository) GetByID(ctx context.Context, id int64) (*models.Medida, error) {
	query := `SELECT ` + medidaColumns + ` FROM medidas WHERE id = ?`

	medida, err := scanMedida(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("measure with ID %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get measure: %w", err)
	}

	return medida, nil
}

// Create creates a new measure, stamping the ambient actor. The
// referenced measure type, plan and organization must exist.
func (r *medidaRepository) Create(ctx context.Context, medida *models.Medida) error {
	query := `
		INSERT INTO medidas (referencia_pda, nombre_corto, indicador, formula_de_calculo,
		                     frecuencia_reporte, tipo_de_dato_a_validar,
		                     tipo_medida_id, plan_id, organismo_sectorial_id,
		                     created_at, updated_at, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	actor := actorRef(ctx)

	result, err := r.db.ExecContext(ctx, query,
		medida.ReferenciaPDA,
		medida.NombreCorto,
		medida.Indicador,
		medida.FormulaDeCalculo,
		string(medida.FrecuenciaReporte),
		medida.TipoDeDatoAValidar,
		medida.TipoMedidaID,
		medida.PlanID,
		medida.OrganismoSectorialID,
		now, now, actor, actor,
	)
	if err != nil {
		return wrapWriteError("failed to create measure", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	medida.ID = id
	medida.CreatedAt = now
	medida.UpdatedAt = now
	medida.CreatedBy = refValue(actor)
	medida.UpdatedBy = refValue(actor)
	return nil
}

// Update updates an existing measure, re-stamping only updated_by
func (r *medidaRepository) Update(ctx context.Context, medida *models.Medida) error {
	query := `
		UPDATE medidas
		SET referencia_pda = ?, nombre_corto = ?, indicador = ?, formula_de_calculo = ?,
		    frecuencia_reporte = ?, tipo_de_dato_a_validar = ?,
		    tipo_medida_id = ?, plan_id = ?, organismo_sectorial_id = ?,
		    updated_at = ?, updated_by = ?
		WHERE id = ?
	`

	now := time.Now()
	actor := actorRef(ctx)

	result, err := r.db.ExecContext(ctx, query,
		medida.ReferenciaPDA,
		medida.NombreCorto,
		medida.Indicador,
		medida.FormulaDeCalculo,
		string(medida.FrecuenciaReporte),
		medida.TipoDeDatoAValidar,
		medida.TipoMedidaID,
		medida.PlanID,
		medida.OrganismoSectorialID,
		now, actor, medida.ID,
	)
	if err != nil {
		return wrapWriteError("failed to update measure", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("measure with ID %d not found", medida.ID)
	}

	medida.UpdatedAt = now
	medida.UpdatedBy = refValue(actor)
	return nil
}

// Delete deletes a measure by ID. Its reports and verification links
// are removed by the cascade rules.
func (r *medidaRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM medidas WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapWriteError("failed to delete measure", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("measure with ID %d not found", id)
	}

	return nil
}

// AddVerificacion links a verification procedure to a measure. Linking
// the same pair twice is a no-op.
func (r *medidaRepository) AddVerificacion(ctx context.Context, medidaID, verificacionID int64) error {
	query := `
		INSERT OR IGNORE INTO verificacion_medida (verificacion_id, medida_id)
		VALUES (?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, verificacionID, medidaID); err != nil {
		return wrapWriteError("failed to link verification to measure", err)
	}
	return nil
}

// RemoveVerificacion unlinks a verification procedure from a measure
func (r *medidaRepository) RemoveVerificacion(ctx context.Context, medidaID, verificacionID int64) error {
	query := `
		DELETE FROM verificacion_medida
		WHERE verificacion_id = ? AND medida_id = ?
	`

	if _, err := r.db.ExecContext(ctx, query, verificacionID, medidaID); err != nil {
		return wrapWriteError("failed to unlink verification from measure", err)
	}
	return nil
}

// GetVerificaciones retrieves the verification procedures linked to a measure
func (r *medidaRepository) GetVerificaciones(ctx context.Context, medidaID int64) ([]models.Verificacion, error) {
	query := `
		SELECT v.id, v.nombre, v.verificacion, v.created_at, v.updated_at, v.created_by, v.updated_by
		FROM verificaciones v
		JOIN verificacion_medida vm ON vm.verificacion_id = v.id
		WHERE vm.medida_id = ?
		ORDER BY v.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, medidaID)
	if err != nil {
		return nil, fmt.Errorf("failed to query measure verifications: %w", err)
	}
	defer rows.Close()

	var verificaciones []models.Verificacion
	for rows.Next() {
		var v models.Verificacion
		var createdBy, updatedBy sql.NullInt64

		err := rows.Scan(
			&v.ID,
			&v.Nombre,
			&v.Verificacion,
			&v.CreatedAt,
			&v.UpdatedAt,
			&createdBy,
			&updatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan measure verification: %w", err)
		}

		v.CreatedBy = refValue(createdBy)
		v.UpdatedBy = refValue(updatedBy)
		verificaciones = append(verificaciones, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating measure verifications: %w", err)
	}

	return verificaciones, nil
}
