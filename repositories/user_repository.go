package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/puribe/gruposiete/models"
)

// UserRepository interface defines user account database operations.
// Group memberships are loaded on every read so the permission
// predicates always see the current state.
type UserRepository interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	AddToGroup(ctx context.Context, userID int64, group string) error
	RemoveFromGroup(ctx context.Context, userID int64, group string) error
	Count(ctx context.Context) (int, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `
	id, username, nombre, email, password_hash, is_staff, active,
	organismo_sectorial_id, created_at, updated_at, created_by, updated_by
`

func scanUser(scan func(dest ...any) error) (*models.User, error) {
	var user models.User
	var organismoID, createdBy, updatedBy sql.NullInt64

	err := scan(
		&user.ID,
		&user.Username,
		&user.Nombre,
		&user.Email,
		&user.PasswordHash,
		&user.IsStaff,
		&user.Active,
		&organismoID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&createdBy,
		&updatedBy,
	)
	if err != nil {
		return nil, err
	}

	user.OrganismoSectorialID = refValue(organismoID)
	user.CreatedBy = refValue(createdBy)
	user.UpdatedBy = refValue(updatedBy)

	return &user, nil
}

func (r *userRepository) loadGroups(ctx context.Context, user *models.User) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT grupo FROM usuario_grupos WHERE usuario_id = ? ORDER BY grupo ASC`, user.ID)
	if err != nil {
		return fmt.Errorf("failed to query user groups: %w", err)
	}
	defer rows.Close()

	user.Groups = nil
	for rows.Next() {
		var group string
		if err := rows.Scan(&group); err != nil {
			return fmt.Errorf("failed to scan user group: %w", err)
		}
		user.Groups = append(user.Groups, group)
	}

	return rows.Err()
}

// GetAll retrieves all user accounts with their group memberships
func (r *userRepository) GetAll(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios ORDER BY username ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	for i := range users {
		if err := r.loadGroups(ctx, &users[i]); err != nil {
			return nil, err
		}
	}

	return users, nil
}

// GetByID retrieves a user account by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE id = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user with ID %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := r.loadGroups(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByUsername retrieves a user account by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE username = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q not found", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := r.loadGroups(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Create creates a new user account, stamping the ambient actor
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO usuarios (username, nombre, email, password_hash, is_staff, active,
		                      organismo_sectorial_id, created_at, updated_at, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	actor := actorRef(ctx)

	var organismoID sql.NullInt64
	if user.OrganismoSectorialID != nil {
		organismoID = sql.NullInt64{Int64: *user.OrganismoSectorialID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.Nombre,
		user.Email,
		user.PasswordHash,
		user.IsStaff,
		user.Active,
		organismoID,
		now, now, actor, actor,
	)
	if err != nil {
		return wrapWriteError("failed to create user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	user.CreatedBy = refValue(actor)
	user.UpdatedBy = refValue(actor)
	return nil
}

// Update updates an existing user account, re-stamping only updated_by
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE usuarios
		SET username = ?, nombre = ?, email = ?, password_hash = ?, is_staff = ?, active = ?,
		    organismo_sectorial_id = ?, updated_at = ?, updated_by = ?
		WHERE id = ?
	`

	now := time.Now()
	actor := actorRef(ctx)

	var organismoID sql.NullInt64
	if user.OrganismoSectorialID != nil {
		organismoID = sql.NullInt64{Int64: *user.OrganismoSectorialID, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.Nombre,
		user.Email,
		user.PasswordHash,
		user.IsStaff,
		user.Active,
		organismoID,
		now, actor, user.ID,
	)
	if err != nil {
		return wrapWriteError("failed to update user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user with ID %d not found", user.ID)
	}

	user.UpdatedAt = now
	user.UpdatedBy = refValue(actor)
	return nil
}

// Delete deletes a user account by ID. Audit references elsewhere are
// nullified by the schema, never cascaded.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM usuarios WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapWriteError("failed to delete user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user with ID %d not found", id)
	}

	return nil
}

// AddToGroup adds a user to a group. Adding twice is a no-op.
func (r *userRepository) AddToGroup(ctx context.Context, userID int64, group string) error {
	query := `INSERT OR IGNORE INTO usuario_grupos (usuario_id, grupo) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, userID, group); err != nil {
		return wrapWriteError("failed to add user to group", err)
	}
	return nil
}

// RemoveFromGroup removes a user from a group
func (r *userRepository) RemoveFromGroup(ctx context.Context, userID int64, group string) error {
	query := `DELETE FROM usuario_grupos WHERE usuario_id = ? AND grupo = ?`

	if _, err := r.db.ExecContext(ctx, query, userID, group); err != nil {
		return wrapWriteError("failed to remove user from group", err)
	}
	return nil
}

// Count returns the total number of user accounts
func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
