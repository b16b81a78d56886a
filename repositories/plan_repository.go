package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/puribe/gruposiete/models"
)

// PlanRepository interface defines plan database operations, including
// the many-to-many link with sector organizations
type PlanRepository interface {
	GetAll(ctx context.Context) ([]models.Plan, error)
	GetByID(ctx context.Context, id int64) (*models.Plan, error)
	Create(ctx context.Context, plan *models.Plan) error
	Update(ctx context.Context, plan *models.Plan) error
	Delete(ctx context.Context, id int64) error
	AddOrganismo(ctx context.Context, planID, organismoID int64) error
	RemoveOrganismo(ctx context.Context, planID, organismoID int64) error
	GetOrganismos(ctx context.Context, planID int64) ([]models.OrganismoSectorial, error)
}

// planRepository implements PlanRepository interface
type planRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *sql.DB) PlanRepository {
	return &planRepository{db: db}
}

func scanPlan(scan func(dest ...any) error) (*models.Plan, error) {
	var plan models.Plan
	var inicio, termino sql.NullTime
	var createdBy, updatedBy sql.NullInt64

	err := scan(
		&plan.ID,
		&plan.Nombre,
		&inicio,
		&termino,
		&plan.EstadoAvance,
		&plan.CreatedAt,
		&plan.UpdatedAt,
		&createdBy,
		&updatedBy,
	)
	if err != nil {
		return nil, err
	}

	if inicio.Valid {
		plan.Inicio = &inicio.Time
	}
	if termino.Valid {
		plan.Termino = &termino.Time
	}
	plan.CreatedBy = refValue(createdBy)
	plan.UpdatedBy = refValue(updatedBy)

	return &plan, nil
}

// GetAll retrieves all plans
func (r *planRepository) GetAll(ctx context.Context) ([]models.Plan, error) {
	query := `
		SELECT id, nombre, inicio, termino, estado_avance,
		       created_at, updated_at, created_by, updated_by
		FROM planes
		ORDER BY nombre ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var planes []models.Plan
	for rows.Next() {
		plan, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		planes = append(planes, *plan)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}

	return planes, nil
}

// GetByID retrieves a plan by ID
func (r *planRepository) GetByID(ctx context.Context, id int64) (*models.Plan, error) {
	query := `
		SELECT id, nombre, inicio, termino, estado_avance,
		       created_at, updated_at, created_by, updated_by
		FROM planes
		WHERE id = ?
	`

	plan, err := scanPlan(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan with ID %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return plan, nil
}

// Create creates a new plan, stamping the ambient actor
func (r *planRepository) Create(ctx context.Context, plan *models.Plan) error {
	query := `
		INSERT INTO planes (nombre, inicio, termino, estado_avance,
		                    created_at, updated_at, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	actor := actorRef(ctx)

	result, err := r.db.ExecContext(ctx, query,
		plan.Nombre,
		nullableTime(plan.Inicio),
		nullableTime(plan.Termino),
		plan.EstadoAvance,
		now, now, actor, actor,
	)
	if err != nil {
		return wrapWriteError("failed to create plan", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	plan.ID = id
	plan.CreatedAt = now
	plan.UpdatedAt = now
	plan.CreatedBy = refValue(actor)
	plan.UpdatedBy = refValue(actor)
	return nil
}

// Update updates an existing plan, re-stamping only updated_by
func (r *planRepository) Update(ctx context.Context, plan *models.Plan) error {
	query := `
		UPDATE planes
		SET nombre = ?, inicio = ?, termino = ?, estado_avance = ?,
		    updated_at = ?, updated_by = ?
		WHERE id = ?
	`

	now := time.Now()
	actor := actorRef(ctx)

	result, err := r.db.ExecContext(ctx, query,
		plan.Nombre,
		nullableTime(plan.Inicio),
		nullableTime(plan.Termino),
		plan.EstadoAvance,
		now, actor, plan.ID,
	)
	if err != nil {
		return wrapWriteError("failed to update plan", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("plan with ID %d not found", plan.ID)
	}

	plan.UpdatedAt = now
	plan.UpdatedBy = refValue(actor)
	return nil
}

// Delete deletes a plan by ID. Its measures, their reports and its
// organization links are removed by the cascade rules.
func (r *planRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM planes WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapWriteError("failed to delete plan", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("plan with ID %d not found", id)
	}

	return nil
}

// AddOrganismo links a sector organization to a plan. Linking the same
// pair twice is a no-op.
func (r *planRepository) AddOrganismo(ctx context.Context, planID, organismoID int64) error {
	query := `
		INSERT OR IGNORE INTO organismo_plan (organismo_sectorial_id, plan_id)
		VALUES (?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, organismoID, planID); err != nil {
		return wrapWriteError("failed to link organization to plan", err)
	}
	return nil
}

// RemoveOrganismo unlinks a sector organization from a plan
func (r *planRepository) RemoveOrganismo(ctx context.Context, planID, organismoID int64) error {
	query := `
		DELETE FROM organismo_plan
		WHERE organismo_sectorial_id = ? AND plan_id = ?
	`

	if _, err := r.db.ExecContext(ctx, query, organismoID, planID); err != nil {
		return wrapWriteError("failed to unlink organization from plan", err)
	}
	return nil
}

// GetOrganismos retrieves the sector organizations linked to a plan
func (r *planRepository) GetOrganismos(ctx context.Context, planID int64) ([]models.OrganismoSectorial, error) {
	query := `
		SELECT o.id, o.nombre, o.created_at, o.updated_at, o.created_by, o.updated_by
		FROM organismos_sectoriales o
		JOIN organismo_plan op ON op.organismo_sectorial_id = o.id
		WHERE op.plan_id = ?
		ORDER BY o.nombre ASC
	`

	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan organizations: %w", err)
	}
	defer rows.Close()

	var organismos []models.OrganismoSectorial
	for rows.Next() {
		var organismo models.OrganismoSectorial
		var createdBy, updatedBy sql.NullInt64

		err := rows.Scan(
			&organismo.ID,
			&organismo.Nombre,
			&organismo.CreatedAt,
			&organismo.UpdatedAt,
			&createdBy,
			&updatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan organization: %w", err)
		}

		organismo.CreatedBy = refValue(createdBy)
		organismo.UpdatedBy = refValue(updatedBy)
		organismos = append(organismos, organismo)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plan organizations: %w", err)
	}

	return organismos, nil
}

// nullableTime converts an optional time to its nullable column form
func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
