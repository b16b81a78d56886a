package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/puribe/gruposiete/models"
)

// OrganismoRepository interface defines sector organization database operations
type OrganismoRepository interface {
	GetAll(ctx context.Context) ([]models.OrganismoSectorial, error)
	GetByID(ctx context.Context, id int64) (*models.OrganismoSectorial, error)
	Create(ctx context.Context, organismo *models.OrganismoSectorial) error
	Update(ctx context.Context, organismo *models.OrganismoSectorial) error
	Delete(ctx context.Context, id int64) error
}

// organismoRepository implements OrganismoRepository interface
type organismoRepository struct {
	db *sql.DB
}

// NewOrganismoRepository creates a new sector organization repository
func NewOrganismoRepository(db *sql.DB) OrganismoRepository {
	return &organismoRepository{db: db}
}

// GetAll retrieves all sector organizations
func (r *organismoRepository) GetAll(ctx context.Context) ([]models.OrganismoSectorial, error) {
	query := `
		SELECT id, nombre, created_at, updated_at, created_by, updated_by
		FROM organismos_sectoriales
		ORDER BY nombre ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sector organizations: %w", err)
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
			return nil, fmt.Errorf("failed to scan sector organization: %w", err)
		}

		organismo.CreatedBy = refValue(createdBy)
		organismo.UpdatedBy = refValue(updatedBy)
		organismos = append(organismos, organismo)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sector organizations: %w", err)
	}

	return organismos, nil
}

// GetByID retrieves a sector organization by ID
func (r *organismoRepository) GetByID(ctx context.Context, id int64) (*models.OrganismoSectorial, error) {
	query := `
		SELECT id, nombre, created_at, updated_at, created_by, updated_by
		FROM organismos_sectoriales
		WHERE id = ?
	`

	var organismo models.OrganismoSectorial
	var createdBy, updatedBy sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&organismo.ID,
		&organismo.Nombre,
		&organismo.CreatedAt,
		&organismo.UpdatedAt,
		&createdBy,
		&updatedBy,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sector organization with ID %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sector organization: %w", err)
	}

	organismo.CreatedBy = refValue(createdBy)
	organismo.UpdatedBy = refValue(updatedBy)

	return &organismo, nil
}

// Create creates a new sector organization, stamping the ambient actor
func (r *organismoRepository) Create(ctx context.Context, organismo *models.OrganismoSectorial) error {
	query := `
		INSERT INTO organismos_sectoriales (nombre, created_at, updated_at, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?)
	`

	now := time.Now()
	actor := actorRef(ctx)

	result, err := r.db.ExecContext(ctx, query, organismo.Nombre, now, now, actor, actor)
	if err != nil {
		return wrapWriteError("failed to create sector organization", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	organismo.ID = id
	organismo.CreatedAt = now
	organismo.UpdatedAt = now
	organismo.CreatedBy = refValue(actor)
	organismo.UpdatedBy = refValue(actor)
	return nil
}

// Update updates an existing sector organization, re-stamping only updated_by
func (r *organismoRepository) Update(ctx context.Context, organismo *models.OrganismoSectorial) error {
	query := `
		UPDATE organismos_sectoriales
		SET nombre = ?, updated_at = ?, updated_by = ?
		WHERE id = ?
	`

	now := time.Now()
	actor := actorRef(ctx)

	result, err := r.db.ExecContext(ctx, query, organismo.Nombre, now, actor, organismo.ID)
	if err != nil {
		return wrapWriteError("failed to update sector organization", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("sector organization with ID %d not found", organismo.ID)
	}

	organismo.UpdatedAt = now
	organismo.UpdatedBy = refValue(actor)
	return nil
}

// Delete deletes a sector organization by ID. Measures and reports
// referencing it are removed by the cascade rule; user accounts keep
// their row and get their organization reference nullified.
func (r *organismoRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM organismos_sectoriales WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapWriteError("failed to delete sector organization", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("sector organization with ID %d not found", id)
	}

	return nil
}
