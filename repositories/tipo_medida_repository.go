package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/puribe/gruposiete/models"
)

// TipoMedidaRepository interface defines measure type database operations
type TipoMedidaRepository interface {
	GetAll(ctx context.Context) ([]models.TipoMedida, error)
	GetByID(ctx context.Context, id int64) (*models.TipoMedida, error)
	Create(ctx context.Context, tipo *models.TipoMedida) error
	Update(ctx context.Context, tipo *models.TipoMedida) error
	Delete(ctx context.Context, id int64) error
}

// tipoMedidaRepository implements TipoMedidaRepository interface
type tipoMedidaRepository struct {
	db *sql.DB
}

// NewTipoMedidaRepository creates a new measure type repository
func NewTipoMedidaRepository(db *sql.DB) TipoMedidaRepository {
	return &tipoMedidaRepository{db: db}
}

// GetAll retrieves all measure types
func (r *tipoMedidaRepository) GetAll(ctx context.Context) ([]models.TipoMedida, error) {
	query := `
		SELECT id, nombre, created_at, updated_at, created_by, updated_by
		FROM tipos_medida
		ORDER BY nombre ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query measure types: %w", err)
	}
	defer rows.Close()

	var tipos []models.TipoMedida
	for rows.Next() {
		var tipo models.TipoMedida
		var createdBy, updatedBy sql.NullInt64

		err := rows.Scan(
			&tipo.ID,
			&tipo.Nombre,
			&tipo.CreatedAt,
			&tipo.UpdatedAt,
			&createdBy,
			&updatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan measure type: %w", err)
		}

		tipo.CreatedBy = refValue(createdBy)
		tipo.UpdatedBy = refValue(updatedBy)
		tipos = append(tipos, tipo)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating measure types: %w", err)
	}

	return tipos, nil
}

// GetByID retrieves a measure type by ID
func (r *tipoMedidaRepository) GetByID(ctx context.Context, id int64) (*models.TipoMedida, error) {
	query := `
		SELECT id, nombre, created_at, updated_at, created_by, updated_by
		FROM tipos_medida
		WHERE id = ?
	`

	var tipo models.TipoMedida
	var createdBy, updatedBy sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tipo.ID,
		&tipo.Nombre,
		&tipo.CreatedAt,
		&tipo.UpdatedAt,
		&createdBy,
		&updatedBy,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("measure type with ID %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get measure type: %w", err)
	}

	tipo.CreatedBy = refValue(createdBy)
	tipo.UpdatedBy = refValue(updatedBy)

	return &tipo, nil
}

// Create creates a new measure type, stamping the ambient actor
func (r *tipoMedidaRepository) Create(ctx context.Context, tipo *models.TipoMedida) error {
	query := `
		INSERT INTO tipos_medida (nombre, created_at, updated_at, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?)
	`

	now := time.Now()
	actor := actorRef(ctx)

	result, err := r.db.ExecContext(ctx, query, tipo.Nombre, now, now, actor, actor)
	if err != nil {
		return wrapWriteError("failed to create measure type", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	tipo.ID = id
	tipo.CreatedAt = now
	tipo.UpdatedAt = now
	tipo.CreatedBy = refValue(actor)
	tipo.UpdatedBy = refValue(actor)
	return nil
}

// Update updates an existing measure type, re-stamping only updated_by
func (r *tipoMedidaRepository) Update(ctx context.Context, tipo *models.TipoMedida) error {
	query := `
		UPDATE tipos_medida
		SET nombre = ?, updated_at = ?, updated_by = ?
		WHERE id = ?
	`

	now := time.Now()
	actor := actorRef(ctx)

	result, err := r.db.ExecContext(ctx, query, tipo.Nombre, now, actor, tipo.ID)
	if err != nil {
		return wrapWriteError("failed to update measure type", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("measure type with ID %d not found", tipo.ID)
	}

	tipo.UpdatedAt = now
	tipo.UpdatedBy = refValue(actor)
	return nil
}

// Delete deletes a measure type by ID. Measures referencing it are
// removed by the schema's cascade rule.
func (r *tipoMedidaRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM tipos_medida WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapWriteError("failed to delete measure type", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("measure type with ID %d not found", id)
	}

	return nil
}
