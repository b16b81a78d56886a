package database

import (
	"path/filepath"
	"testing"
)

func TestInitializeDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	if err := InitializeDatabase(dbPath); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		CloseDB()
	})

	db := GetDB()

	// All domain tables must exist after schema bootstrap
	tables := []string{
		"usuarios", "usuario_grupos", "tipos_medida", "verificaciones",
		"organismos_sectoriales", "planes", "organismo_plan",
		"medidas", "verificacion_medida", "medidas_reportadas",
	}

	for _, table := range tables {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}
}

func TestForeignKeysEnforcedOnEveryConnection(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fk.db")

	if err := InitializeDatabase(dbPath); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		CloseDB()
	})

	db := GetDB()

	// Force every statement onto a freshly opened connection; the
	// pragma must hold regardless of which pooled connection runs it.
	db.SetMaxIdleConns(0)

	var fk int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("Failed to read foreign_keys pragma: %v", err)
	}
	if fk != 1 {
		t.Fatal("Expected foreign key enforcement to be enabled on fresh connections")
	}

	if _, err := db.Exec(
		`INSERT INTO planes (id, nombre, estado_avance, created_at, updated_at)
		 VALUES (1, 'Plan', '', datetime('now'), datetime('now'))`,
	); err != nil {
		t.Fatalf("Failed to insert plan: %v", err)
	}
	if _, err := db.Exec(
		`INSERT INTO tipos_medida (id, nombre, created_at, updated_at)
		 VALUES (1, 'Tipo', datetime('now'), datetime('now'))`,
	); err != nil {
		t.Fatalf("Failed to insert tipo de medida: %v", err)
	}
	if _, err := db.Exec(
		`INSERT INTO organismos_sectoriales (id, nombre, created_at, updated_at)
		 VALUES (1, 'Organismo', datetime('now'), datetime('now'))`,
	); err != nil {
		t.Fatalf("Failed to insert organismo: %v", err)
	}
	if _, err := db.Exec(
		`INSERT INTO medidas (referencia_pda, nombre_corto, indicador, formula_de_calculo,
			tipo_medida_id, plan_id, organismo_sectorial_id, created_at, updated_at)
		 VALUES ('REF-1', 'Medida', 'Indicador', 'Formula', 1, 1, 1,
			datetime('now'), datetime('now'))`,
	); err != nil {
		t.Fatalf("Failed to insert medida: %v", err)
	}

	if _, err := db.Exec(`DELETE FROM planes WHERE id = 1`); err != nil {
		t.Fatalf("Failed to delete plan: %v", err)
	}

	var orphans int
	if err := db.QueryRow(`SELECT COUNT(*) FROM medidas`).Scan(&orphans); err != nil {
		t.Fatalf("Failed to count medidas: %v", err)
	}
	if orphans != 0 {
		t.Errorf("Expected deleting a plan to cascade to its medidas, found %d orphaned", orphans)
	}
}

func TestApplySchemaIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "idem.db")

	if err := InitializeDatabase(dbPath); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		CloseDB()
	})

	if err := ApplySchema(GetDB()); err != nil {
		t.Errorf("Expected schema reapplication to succeed: %v", err)
	}
}
