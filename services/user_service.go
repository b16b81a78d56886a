package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/puribe/gruposiete/models"
	"github.com/puribe/gruposiete/repositories"
)

// UserService interface defines user account business logic
type UserService interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, form *models.UserForm) (*models.User, error)
	Update(ctx context.Context, id int64, form *models.UserForm) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	AddToGroup(ctx context.Context, userID int64, group string) error
	RemoveFromGroup(ctx context.Context, userID int64, group string) error
}

// userService implements UserService interface
type userService struct {
	userRepo      repositories.UserRepository
	organismoRepo repositories.OrganismoRepository
	bcryptCost    int
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, organismoRepo repositories.OrganismoRepository, bcryptCost int) UserService {
	return &userService{
		userRepo:      userRepo,
		organismoRepo: organismoRepo,
		bcryptCost:    bcryptCost,
	}
}

// GetByID retrieves a user account by ID
func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid user ID: %d", id)
	}
	return s.userRepo.GetByID(ctx, id)
}

// GetByUsername retrieves a user account by username
func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("username is empty")
	}
	return s.userRepo.GetByUsername(ctx, username)
}

// Create creates a new user account with a bcrypt password hash
func (s *userService) Create(ctx context.Context, form *models.UserForm) (*models.User, error) {
	errs := form.Validate()
	if form.Password == "" {
		errs = append(errs, models.ValidationError{Field: "password", Message: "password is required"})
	}
	if errs.HasErrors() {
		return nil, errs
	}

	if form.OrganismoSectorialID != nil {
		if _, err := s.organismoRepo.GetByID(ctx, *form.OrganismoSectorialID); err != nil {
			return nil, fmt.Errorf("sector organization not found: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:             strings.TrimSpace(form.Username),
		Nombre:               strings.TrimSpace(form.Nombre),
		Email:                strings.TrimSpace(form.Email),
		PasswordHash:         string(hash),
		IsStaff:              form.IsStaff,
		Active:               form.Active,
		OrganismoSectorialID: form.OrganismoSectorialID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Update updates an existing user account. An empty password keeps the
// current hash.
func (s *userService) Update(ctx context.Context, id int64, form *models.UserForm) (*models.User, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if form.OrganismoSectorialID != nil {
		if _, err := s.organismoRepo.GetByID(ctx, *form.OrganismoSectorialID); err != nil {
			return nil, fmt.Errorf("sector organization not found: %w", err)
		}
	}

	user.Username = strings.TrimSpace(form.Username)
	user.Nombre = strings.TrimSpace(form.Nombre)
	user.Email = strings.TrimSpace(form.Email)
	user.IsStaff = form.IsStaff
	user.Active = form.Active
	user.OrganismoSectorialID = form.OrganismoSectorialID

	if form.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete deletes a user account
func (s *userService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid user ID: %d", id)
	}
	return s.userRepo.Delete(ctx, id)
}

// Authenticate verifies the credentials and returns the account. The
// same error is returned for an unknown username, a wrong password and
// an inactive account, so callers cannot distinguish them.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if !user.Active || !user.CheckPassword(password) {
		return nil, fmt.Errorf("invalid credentials")
	}

	return user, nil
}

// AddToGroup adds a user to a group
func (s *userService) AddToGroup(ctx context.Context, userID int64, group string) error {
	if group == "" {
		return fmt.Errorf("group name is empty")
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return fmt.Errorf("user not found: %w", err)
	}
	return s.userRepo.AddToGroup(ctx, userID, group)
}

// RemoveFromGroup removes a user from a group
func (s *userService) RemoveFromGroup(ctx context.Context, userID int64, group string) error {
	return s.userRepo.RemoveFromGroup(ctx, userID, group)
}
