package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/puribe/gruposiete/config"
	"github.com/puribe/gruposiete/database"
	"github.com/puribe/gruposiete/models"
	"github.com/puribe/gruposiete/repositories"
)

func setupUserService(t *testing.T) UserService {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.InitializeDatabase(dbPath))
	t.Cleanup(func() {
		database.CloseDB()
	})

	repos := repositories.NewRepositories(database.GetDB())
	return NewUserService(repos.User, repos.Organismo, bcrypt.MinCost)
}

func TestUserServiceCreateAndAuthenticate(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, &models.UserForm{
		Username: "fiscalizador",
		Nombre:   "Ana Fiscalizadora",
		Password: "s3cret",
		Active:   true,
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "s3cret", user.PasswordHash, "password must never be stored in plain text")

	authed, err := svc.Authenticate(ctx, "fiscalizador", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = svc.Authenticate(ctx, "fiscalizador", "wrong")
	assert.Error(t, err)

	_, err = svc.Authenticate(ctx, "desconocido", "s3cret")
	assert.Error(t, err)
}

func TestUserServiceCreateRequiresPassword(t *testing.T) {
	svc := setupUserService(t)

	_, err := svc.Create(context.Background(), &models.UserForm{Username: "sinclave"})
	require.Error(t, err)

	var verrs models.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestUserServiceInactiveAccountCannotAuthenticate(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.UserForm{
		Username: "inactivo",
		Password: "s3cret",
		Active:   false,
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "inactivo", "s3cret")
	assert.Error(t, err)
}

func TestUserServiceUpdateKeepsPassword(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, &models.UserForm{
		Username: "fiscalizador",
		Password: "s3cret",
		Active:   true,
	})
	require.NoError(t, err)

	// An empty password on update keeps the existing hash
	_, err = svc.Update(ctx, user.ID, &models.UserForm{
		Username: "fiscalizador",
		Nombre:   "Nombre Nuevo",
		Active:   true,
	})
	require.NoError(t, err)

	authed, err := svc.Authenticate(ctx, "fiscalizador", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Nombre Nuevo", authed.Nombre)
}

func TestUserServiceUnknownOrganismo(t *testing.T) {
	svc := setupUserService(t)

	missing := int64(999)
	_, err := svc.Create(context.Background(), &models.UserForm{
		Username:             "fiscalizador",
		Password:             "s3cret",
		Active:               true,
		OrganismoSectorialID: &missing,
	})
	assert.Error(t, err)
}

func TestServicesWiring(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.InitializeDatabase(dbPath))
	t.Cleanup(func() {
		database.CloseDB()
	})

	repos := repositories.NewRepositories(database.GetDB())
	srvs := NewServices(repos, config.Config{BcryptCost: bcrypt.MinCost})

	require.NotNil(t, srvs.Catalogo)
	require.NotNil(t, srvs.Plan)
	require.NotNil(t, srvs.Medida)
	require.NotNil(t, srvs.Reporte)
	require.NotNil(t, srvs.User)
}
