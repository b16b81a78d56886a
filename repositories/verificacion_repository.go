package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/puribe/gruposiete/models"
)

// VerificacionRepository interface defines verification procedure
// database operations
type VerificacionRepository interface {
	GetAll(ctx context.Context) ([]models.Verificacion, error)
	GetByID(ctx context.Context, id int64) (*models.Verificacion, error)
	Create(ctx context.Context, verificacion *models.Verificacion) error
	Update(ctx context.Context, verificacion *models.Verificacion) error
	Delete(ctx context.Context, id int64) error
}

// verificacionRepository implements VerificacionRepository interface
type verificacionRepository struct {
	db *sql.DB
}

// NewVerificacionRepository creates a new verification repository
func NewVerificacionRepository(db *sql.DB) VerificacionRepository {
	return &verificacionRepository{db: db}
}

// GetAll retrieves all verification procedures
func (r *verificacionRepository) GetAll(ctx context.Context) ([]models.Verificacion, error) {
	query := `
		SELECT id, nombre, verificacion, created_at, updated_at, created_by, updated_by
		FROM verificaciones
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query verifications: %w", err)
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
			return nil, fmt.Errorf("failed to scan verification: %w", err)
		}

		v.CreatedBy = refValue(createdBy)
		v.UpdatedBy = refValue(updatedBy)
		verificaciones = append(verificaciones, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating verifications: %w", err)
	}

	return verificaciones, nil
}

// GetByID retrieves a verification procedure by ID
func (r *verificacionRepository) GetByID(ctx context.Context, id int64) (*models.Verificacion, error) {
	query := `
		SELECT id, nombre, verificacion, created_at, updated_at, created_by, updated_by
		FROM verificaciones
		WHERE id = ?
	`

	var v models.Verificacion
	var createdBy, updatedBy sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID,
		&v.Nombre,
		&v.Verificacion,
		&v.CreatedAt,
		&v.UpdatedAt,
		&createdBy,
		&updatedBy,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("verification with ID %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification: %w", err)
	}

	v.CreatedBy = refValue(createdBy)
	v.UpdatedBy = refValue(updatedBy)

	return &v, nil
}

// Create creates a new verification procedure, stamping the ambient actor
func (r *verificacionRepository) Create(ctx context.Context, verificacion *models.Verificacion) error {
	query := `
		INSERT INTO verificaciones (nombre, verificacion, created_at, updated_at, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	actor := actorRef(ctx)

	result, err := r.db.ExecContext(ctx, query,
		verificacion.Nombre,
		verificacion.Verificacion,
		now, now, actor, actor,
	)
	if err != nil {
		return wrapWriteError("failed to create verification", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	verificacion.ID = id
	verificacion.CreatedAt = now
	verificacion.UpdatedAt = now
	verificacion.CreatedBy = refValue(actor)
	verificacion.UpdatedBy = refValue(actor)
	return nil
}

// Update updates an existing verification procedure, re-stamping only updated_by
func (r *verificacionRepository) Update(ctx context.Context, verificacion *models.Verificacion) error {
	query := `
		UPDATE verificaciones
		SET nombre = ?, verificacion = ?, updated_at = ?, updated_by = ?
		WHERE id = ?
	`

	now := time.Now()
	actor := actorRef(ctx)

	result, err := r.db.ExecContext(ctx, query,
		verificacion.Nombre,
		verificacion.Verificacion,
		now, actor, verificacion.ID,
	)
	if err != nil {
		return wrapWriteError("failed to update verification", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("verification with ID %d not found", verificacion.ID)
	}

	verificacion.UpdatedAt = now
	verificacion.UpdatedBy = refValue(actor)
	return nil
}

// Delete deletes a verification procedure by ID. Links to measures are
// removed by the schema's cascade rule.
func (r *verificacionRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM verificaciones WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapWriteError("failed to delete verification", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("verification with ID %d not found", id)
	}

	return nil
}
