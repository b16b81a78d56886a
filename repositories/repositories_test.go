package repositories

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/puribe/gruposiete/database"
	"github.com/puribe/gruposiete/models"
	"github.com/puribe/gruposiete/userctx"
)

func setupTestDB(t *testing.T) *sql.DB {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	if err := database.InitializeDatabase(dbPath); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() {
		database.CloseDB()
	})

	return database.GetDB()
}

// createActor persists a user to act as the ambient actor in tests
func createActor(t *testing.T, db *sql.DB, username string) *models.User {
	repo := NewUserRepository(db)
	user := &models.User{Username: username, Active: true}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create actor %s: %v", username, err)
	}
	return user
}

func TestAuditStampingOnCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTipoMedidaRepository(db)

	actor := createActor(t, db, "fiscalizador")
	ctx := userctx.WithActor(context.Background(), actor)

	tipo := &models.TipoMedida{Nombre: "Regulatoria"}
	if err := repo.Create(ctx, tipo); err != nil {
		t.Fatalf("Failed to create measure type: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, tipo.ID)
	if err != nil {
		t.Fatalf("Failed to get measure type: %v", err)
	}

	if retrieved.CreatedBy == nil || *retrieved.CreatedBy != actor.ID {
		t.Errorf("Expected created_by %d, got %v", actor.ID, retrieved.CreatedBy)
	}
	if retrieved.UpdatedBy == nil || *retrieved.UpdatedBy != actor.ID {
		t.Errorf("Expected updated_by %d, got %v", actor.ID, retrieved.UpdatedBy)
	}
	if retrieved.CreatedAt.IsZero() || retrieved.UpdatedAt.IsZero() {
		t.Error("Expected creation timestamps to be set")
	}
}

func TestAuditStampingOnUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTipoMedidaRepository(db)

	creator := createActor(t, db, "creador")
	editor := createActor(t, db, "editor")

	ctx := userctx.WithActor(context.Background(), creator)
	tipo := &models.TipoMedida{Nombre: "Regulatoria"}
	if err := repo.Create(ctx, tipo); err != nil {
		t.Fatalf("Failed to create measure type: %v", err)
	}

	// A different actor updates the record
	ctx = userctx.WithActor(context.Background(), editor)
	tipo.Nombre = "No regulatoria"
	if err := repo.Update(ctx, tipo); err != nil {
		t.Fatalf("Failed to update measure type: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, tipo.ID)
	if err != nil {
		t.Fatalf("Failed to get measure type: %v", err)
	}

	if retrieved.CreatedBy == nil || *retrieved.CreatedBy != creator.ID {
		t.Errorf("Expected created_by to remain %d, got %v", creator.ID, retrieved.CreatedBy)
	}
	if retrieved.UpdatedBy == nil || *retrieved.UpdatedBy != editor.ID {
		t.Errorf("Expected updated_by %d, got %v", editor.ID, retrieved.UpdatedBy)
	}
	if retrieved.UpdatedAt.Before(retrieved.CreatedAt) {
		t.Error("Expected updated_at to be at or after created_at")
	}
}

func TestAuditStampingWithoutActor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTipoMedidaRepository(db)

	// No ambient actor at all
	tipo := &models.TipoMedida{Nombre: "Sin actor"}
	if err := repo.Create(context.Background(), tipo); err != nil {
		t.Fatalf("Failed to create measure type: %v", err)
	}

	retrieved, err := repo.GetByID(context.Background(), tipo.ID)
	if err != nil {
		t.Fatalf("Failed to get measure type: %v", err)
	}
	if retrieved.CreatedBy != nil || retrieved.UpdatedBy != nil {
		t.Errorf("Expected nil audit refs, got created_by=%v updated_by=%v", retrieved.CreatedBy, retrieved.UpdatedBy)
	}

	// An actor that was never persisted must stamp NULL too
	ctx := userctx.WithActor(context.Background(), &models.User{Username: "transiente"})
	tipo = &models.TipoMedida{Nombre: "Actor transiente"}
	if err := repo.Create(ctx, tipo); err != nil {
		t.Fatalf("Failed to create measure type: %v", err)
	}

	retrieved, err = repo.GetByID(ctx, tipo.ID)
	if err != nil {
		t.Fatalf("Failed to get measure type: %v", err)
	}
	if retrieved.CreatedBy != nil || retrieved.UpdatedBy != nil {
		t.Errorf("Expected nil audit refs for transient actor, got created_by=%v updated_by=%v", retrieved.CreatedBy, retrieved.UpdatedBy)
	}
}

// seedMedida creates the full reference chain a measure needs and
// returns the created records
func seedMedida(t *testing.T, ctx context.Context, repos *Repositories) (*models.Plan, *models.OrganismoSectorial, *models.Medida) {
	tipo := &models.TipoMedida{Nombre: "Regulatoria"}
	if err := repos.TipoMedida.Create(ctx, tipo); err != nil {
		t.Fatalf("Failed to create measure type: %v", err)
	}

	inicio, _ := models.ParseDate("2024-01-01")
	plan := &models.Plan{Nombre: "Plan A", Inicio: &inicio}
	if err := repos.Plan.Create(ctx, plan); err != nil {
		t.Fatalf("Failed to create plan: %v", err)
	}

	organismo := &models.OrganismoSectorial{Nombre: "Org X"}
	if err := repos.Organismo.Create(ctx, organismo); err != nil {
		t.Fatalf("Failed to create sector organization: %v", err)
	}

	if err := repos.Plan.AddOrganismo(ctx, plan.ID, organismo.ID); err != nil {
		t.Fatalf("Failed to link organization to plan: %v", err)
	}

	medida := &models.Medida{
		ReferenciaPDA:        "PDA-001",
		NombreCorto:          "Control de emisiones",
		Indicador:            "Porcentaje de avance",
		FormulaDeCalculo:     "avance / total * 100",
		FrecuenciaReporte:    models.FrecuenciaAnual,
		TipoMedidaID:         tipo.ID,
		PlanID:               plan.ID,
		OrganismoSectorialID: organismo.ID,
	}
	if err := repos.Medida.Create(ctx, medida); err != nil {
		t.Fatalf("Failed to create measure: %v", err)
	}

	return plan, organismo, medida
}

func TestReportingScenario(t *testing.T) {
	db := setupTestDB(t)
	repos := NewRepositories(db)

	actor := createActor(t, db, "fiscalizador")
	ctx := userctx.WithActor(context.Background(), actor)

	_, organismo, medida := seedMedida(t, ctx, repos)

	reporte := &models.MedidaReportada{
		OrganismoSectorialID: organismo.ID,
		MedidaID:             medida.ID,
		Valor:                "12%",
	}
	if err := repos.Reporte.Create(ctx, reporte); err != nil {
		t.Fatalf("Failed to file report: %v", err)
	}

	if reporte.Estado != models.EstadoVerificacionPendiente {
		t.Errorf("Expected estado VERIFICACION_PENDIENTE, got %s", reporte.Estado)
	}

	reportes, err := repos.Reporte.GetByMedida(ctx, medida.ID)
	if err != nil {
		t.Fatalf("Failed to get reports for measure: %v", err)
	}
	if len(reportes) != 1 {
		t.Fatalf("Expected 1 report, got %d", len(reportes))
	}
	if reportes[0].Valor != "12%" {
		t.Errorf("Expected valor 12%%, got %s", reportes[0].Valor)
	}
	if reportes[0].Estado != models.EstadoVerificacionPendiente {
		t.Errorf("Expected estado VERIFICACION_PENDIENTE, got %s", reportes[0].Estado)
	}
}

func TestPlanDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	plan, organismo, medida := seedMedida(t, ctx, repos)

	verificacion := &models.Verificacion{Verificacion: "Revisión documental"}
	if err := repos.Verificacion.Create(ctx, verificacion); err != nil {
		t.Fatalf("Failed to create verification: %v", err)
	}
	if err := repos.Medida.AddVerificacion(ctx, medida.ID, verificacion.ID); err != nil {
		t.Fatalf("Failed to link verification: %v", err)
	}

	reporte := &models.MedidaReportada{
		OrganismoSectorialID: organismo.ID,
		MedidaID:             medida.ID,
		Valor:                "12%",
	}
	if err := repos.Reporte.Create(ctx, reporte); err != nil {
		t.Fatalf("Failed to file report: %v", err)
	}

	if err := repos.Plan.Delete(ctx, plan.ID); err != nil {
		t.Fatalf("Failed to delete plan: %v", err)
	}

	if _, err := repos.Medida.GetByID(ctx, medida.ID); err == nil {
		t.Error("Expected measure to be deleted with its plan")
	}
	if _, err := repos.Reporte.GetByID(ctx, reporte.ID); err == nil {
		t.Error("Expected report to be deleted with its measure")
	}

	var links int
	if err := db.QueryRow(`SELECT COUNT(*) FROM verificacion_medida`).Scan(&links); err != nil {
		t.Fatalf("Failed to count verification links: %v", err)
	}
	if links != 0 {
		t.Errorf("Expected 0 verification links after cascade, got %d", links)
	}

	// The verification procedure itself survives; only the link goes
	if _, err := repos.Verificacion.GetByID(ctx, verificacion.ID); err != nil {
		t.Errorf("Expected verification to survive plan deletion: %v", err)
	}
}

func TestOrganismoDeleteNullifiesUser(t *testing.T) {
	db := setupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	organismo := &models.OrganismoSectorial{Nombre: "Org X"}
	if err := repos.Organismo.Create(ctx, organismo); err != nil {
		t.Fatalf("Failed to create sector organization: %v", err)
	}

	user := &models.User{Username: "reporter", Active: true, OrganismoSectorialID: &organismo.ID}
	if err := repos.User.Create(ctx, user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	if err := repos.Organismo.Delete(ctx, organismo.ID); err != nil {
		t.Fatalf("Failed to delete sector organization: %v", err)
	}

	retrieved, err := repos.User.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Expected user to survive organization deletion: %v", err)
	}
	if retrieved.OrganismoSectorialID != nil {
		t.Errorf("Expected nil organization reference, got %v", *retrieved.OrganismoSectorialID)
	}
}

func TestReferentialErrorOnMissingReference(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMedidaRepository(db)

	medida := &models.Medida{
		ReferenciaPDA:        "PDA-404",
		NombreCorto:          "Sin referencias",
		Indicador:            "n/a",
		FormulaDeCalculo:     "n/a",
		FrecuenciaReporte:    models.FrecuenciaAnual,
		TipoMedidaID:         999,
		PlanID:               999,
		OrganismoSectorialID: 999,
	}

	err := repo.Create(context.Background(), medida)
	if err == nil {
		t.Fatal("Expected foreign key violation")
	}

	var refErr *ReferentialError
	if !errors.As(err, &refErr) {
		t.Errorf("Expected ReferentialError, got %T: %v", err, err)
	}
}

func TestEstadoCheckConstraint(t *testing.T) {
	db := setupTestDB(t)
	repos := NewRepositories(db)
	ctx := context.Background()

	_, organismo, medida := seedMedida(t, ctx, repos)

	reporte := &models.MedidaReportada{
		OrganismoSectorialID: organismo.ID,
		MedidaID:             medida.ID,
		Valor:                "12%",
	}
	if err := repos.Reporte.Create(ctx, reporte); err != nil {
		t.Fatalf("Failed to file report: %v", err)
	}

	// The schema itself rejects values outside the closed enumeration
	if err := repos.Reporte.UpdateEstado(ctx, reporte.ID, models.EstadoVerificacion("APROBADA")); err == nil {
		t.Error("Expected CHECK constraint violation for unknown estado")
	}
}

func TestUserGroups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "reporter", Active: true}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	if err := repo.AddToGroup(ctx, user.ID, "organizacion_sectorial"); err != nil {
		t.Fatalf("Failed to add user to group: %v", err)
	}
	// Adding twice is a no-op
	if err := repo.AddToGroup(ctx, user.ID, "organizacion_sectorial"); err != nil {
		t.Fatalf("Expected duplicate group add to be a no-op: %v", err)
	}

	retrieved, err := repo.GetByUsername(ctx, "reporter")
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if len(retrieved.Groups) != 1 || retrieved.Groups[0] != "organizacion_sectorial" {
		t.Errorf("Expected single organizacion_sectorial membership, got %v", retrieved.Groups)
	}

	if err := repo.RemoveFromGroup(ctx, user.ID, "organizacion_sectorial"); err != nil {
		t.Fatalf("Failed to remove user from group: %v", err)
	}

	retrieved, err = repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if len(retrieved.Groups) != 0 {
		t.Errorf("Expected no memberships, got %v", retrieved.Groups)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}
}
