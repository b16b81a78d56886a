package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/puribe/gruposiete/config"
	"github.com/puribe/gruposiete/database"
	"github.com/puribe/gruposiete/models"
	"github.com/puribe/gruposiete/permissions"
	"github.com/puribe/gruposiete/repositories"
	"github.com/puribe/gruposiete/userctx"
)

// ReporteServiceTestSuite exercises the reporting workflow end to end
// against a real sqlite database
type ReporteServiceTestSuite struct {
	suite.Suite
	services *Services
	repos    *repositories.Repositories

	member    *models.User
	staff     *models.User
	plain     *models.User
	organismo *models.OrganismoSectorial
	medida    *models.Medida
}

// SetupTest builds a fresh database with a measure ready to be reported
func (suite *ReporteServiceTestSuite) SetupTest() {
	dbPath := filepath.Join(suite.T().TempDir(), "test.db")
	require.NoError(suite.T(), database.InitializeDatabase(dbPath))
	suite.T().Cleanup(func() {
		database.CloseDB()
	})

	suite.repos = repositories.NewRepositories(database.GetDB())
	suite.services = NewServices(suite.repos, config.Config{BcryptCost: bcrypt.MinCost})

	ctx := context.Background()

	organismo, err := suite.services.Catalogo.CreateOrganismo(ctx, &models.OrganismoSectorialForm{Nombre: "Org X"})
	require.NoError(suite.T(), err)
	suite.organismo = organismo

	tipo, err := suite.services.Catalogo.CreateTipoMedida(ctx, &models.TipoMedidaForm{Nombre: "Regulatoria"})
	require.NoError(suite.T(), err)

	plan, err := suite.services.Plan.Create(ctx, &models.PlanForm{Nombre: "Plan A", Inicio: "2024-01-01"})
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.services.Plan.AddOrganismo(ctx, plan.ID, organismo.ID))

	medida, err := suite.services.Medida.Create(ctx, &models.MedidaForm{
		ReferenciaPDA:        "PDA-001",
		NombreCorto:          "Control de emisiones",
		Indicador:            "Porcentaje de avance",
		FormulaDeCalculo:     "avance / total * 100",
		TipoMedidaID:         tipo.ID,
		PlanID:               plan.ID,
		OrganismoSectorialID: organismo.ID,
	})
	require.NoError(suite.T(), err)
	suite.medida = medida

	suite.member = suite.createUser("miembro", false, permissions.GroupOrganizacionSectorial)
	suite.staff = suite.createUser("staff", true)
	suite.plain = suite.createUser("externo", false)
}

func (suite *ReporteServiceTestSuite) createUser(username string, staff bool, groups ...string) *models.User {
	ctx := context.Background()

	user, err := suite.services.User.Create(ctx, &models.UserForm{
		Username: username,
		Password: "s3cret",
		IsStaff:  staff,
		Active:   true,
	})
	require.NoError(suite.T(), err)

	for _, group := range groups {
		require.NoError(suite.T(), suite.services.User.AddToGroup(ctx, user.ID, group))
	}

	// Reload so group memberships are populated
	user, err = suite.services.User.GetByID(ctx, user.ID)
	require.NoError(suite.T(), err)
	return user
}

func (suite *ReporteServiceTestSuite) reportForm() *models.MedidaReportadaForm {
	return &models.MedidaReportadaForm{
		OrganismoSectorialID: suite.organismo.ID,
		MedidaID:             suite.medida.ID,
		Valor:                "12%",
	}
}

func (suite *ReporteServiceTestSuite) TestReportarDeniedWithoutCaller() {
	reporte, err := suite.services.Reporte.Reportar(context.Background(), nil, suite.reportForm())

	assert.Nil(suite.T(), reporte)
	assert.ErrorIs(suite.T(), err, ErrAccessDenied)
}

func (suite *ReporteServiceTestSuite) TestReportarDeniedForNonMember() {
	// Neither a plain user nor a staff-only user may file reports
	_, err := suite.services.Reporte.Reportar(context.Background(), suite.plain, suite.reportForm())
	assert.ErrorIs(suite.T(), err, ErrAccessDenied)

	_, err = suite.services.Reporte.Reportar(context.Background(), suite.staff, suite.reportForm())
	assert.ErrorIs(suite.T(), err, ErrAccessDenied)
}

func (suite *ReporteServiceTestSuite) TestReportarAsMember() {
	ctx := userctx.WithActor(context.Background(), suite.member)

	reporte, err := suite.services.Reporte.Reportar(ctx, suite.member, suite.reportForm())
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), models.EstadoVerificacionPendiente, reporte.Estado)
	assert.Equal(suite.T(), "12%", reporte.Valor)
	if assert.NotNil(suite.T(), reporte.CreatedBy) {
		assert.Equal(suite.T(), suite.member.ID, *reporte.CreatedBy)
	}

	reportes, err := suite.services.Reporte.ReportesDeMedida(ctx, suite.medida.ID)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), reportes, 1)
}

func (suite *ReporteServiceTestSuite) TestReportarValidation() {
	ctx := userctx.WithActor(context.Background(), suite.member)

	form := suite.reportForm()
	form.Valor = ""

	_, err := suite.services.Reporte.Reportar(ctx, suite.member, form)
	require.Error(suite.T(), err)

	var verrs models.ValidationErrors
	assert.ErrorAs(suite.T(), err, &verrs)
}

func (suite *ReporteServiceTestSuite) TestVerificarByStaff() {
	ctx := userctx.WithActor(context.Background(), suite.member)
	reporte, err := suite.services.Reporte.Reportar(ctx, suite.member, suite.reportForm())
	require.NoError(suite.T(), err)

	ctx = userctx.WithActor(context.Background(), suite.staff)
	verified, err := suite.services.Reporte.Verificar(ctx, suite.staff, reporte.ID)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), models.EstadoVerificada, verified.Estado)
	if assert.NotNil(suite.T(), verified.CreatedBy) {
		assert.Equal(suite.T(), suite.member.ID, *verified.CreatedBy)
	}
	if assert.NotNil(suite.T(), verified.UpdatedBy) {
		assert.Equal(suite.T(), suite.staff.ID, *verified.UpdatedBy)
	}
}

func (suite *ReporteServiceTestSuite) TestVerificarDeniedForAnonymous() {
	ctx := userctx.WithActor(context.Background(), suite.member)
	reporte, err := suite.services.Reporte.Reportar(ctx, suite.member, suite.reportForm())
	require.NoError(suite.T(), err)

	_, err = suite.services.Reporte.Verificar(context.Background(), nil, reporte.ID)
	assert.ErrorIs(suite.T(), err, ErrAccessDenied)

	_, err = suite.services.Reporte.Rechazar(context.Background(), nil, reporte.ID)
	assert.ErrorIs(suite.T(), err, ErrAccessDenied)
}

func (suite *ReporteServiceTestSuite) TestTerminalStatesAreFinal() {
	ctx := userctx.WithActor(context.Background(), suite.member)
	reporte, err := suite.services.Reporte.Reportar(ctx, suite.member, suite.reportForm())
	require.NoError(suite.T(), err)

	ctx = userctx.WithActor(context.Background(), suite.staff)
	_, err = suite.services.Reporte.Rechazar(ctx, suite.staff, reporte.ID)
	require.NoError(suite.T(), err)

	// A rejected report cannot be verified afterwards
	_, err = suite.services.Reporte.Verificar(ctx, suite.staff, reporte.ID)
	assert.Error(suite.T(), err)

	retrieved, err := suite.services.Reporte.GetByID(ctx, reporte.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.EstadoRechazada, retrieved.Estado)
}

func (suite *ReporteServiceTestSuite) TestRechazarByMember() {
	// Sectorial members pass SectorialOrAdmin and may verify too
	ctx := userctx.WithActor(context.Background(), suite.member)
	reporte, err := suite.services.Reporte.Reportar(ctx, suite.member, suite.reportForm())
	require.NoError(suite.T(), err)

	rejected, err := suite.services.Reporte.Rechazar(ctx, suite.member, reporte.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.EstadoRechazada, rejected.Estado)
}

func (suite *ReporteServiceTestSuite) TestReportarUnknownMedida() {
	ctx := userctx.WithActor(context.Background(), suite.member)

	form := suite.reportForm()
	form.MedidaID = 999

	_, err := suite.services.Reporte.Reportar(ctx, suite.member, form)
	assert.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, ErrAccessDenied)
}

func TestReporteServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReporteServiceTestSuite))
}

func TestAccessDeniedIsNotValidation(t *testing.T) {
	var verrs models.ValidationErrors
	assert.False(t, errors.As(ErrAccessDenied, &verrs))
}
