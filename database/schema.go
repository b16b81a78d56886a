package database

import (
	"database/sql"
	"fmt"
)

// schemaStatements holds the DDL for the reporting core, in dependency order.
// All statements are idempotent so ApplySchema can run on every startup.
//
// SQLite resolves foreign key targets at write time, which allows the
// usuarios audit columns to reference usuarios itself and
// organismos_sectoriales before that table is created.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS usuarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		nombre TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		is_staff INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		organismo_sectorial_id INTEGER
			REFERENCES organismos_sectoriales(id) ON DELETE SET NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		created_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL,
		updated_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL
	);`,

	`CREATE TABLE IF NOT EXISTS usuario_grupos (
		usuario_id INTEGER NOT NULL
			REFERENCES usuarios(id) ON DELETE CASCADE,
		grupo TEXT NOT NULL,
		PRIMARY KEY (usuario_id, grupo)
	);`,

	`CREATE TABLE IF NOT EXISTS tipos_medida (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT NOT NULL CHECK (length(nombre) <= 100),
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		created_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL,
		updated_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL
	);`,

	`CREATE TABLE IF NOT EXISTS verificaciones (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT NOT NULL DEFAULT '' CHECK (length(nombre) <= 100),
		verificacion TEXT NOT NULL CHECK (length(verificacion) <= 2000),
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		created_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL,
		updated_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL
	);`,

	`CREATE TABLE IF NOT EXISTS organismos_sectoriales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT NOT NULL CHECK (length(nombre) <= 255),
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		created_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL,
		updated_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL
	);`,

	`CREATE TABLE IF NOT EXISTS planes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT NOT NULL CHECK (length(nombre) <= 255),
		inicio DATETIME,
		termino DATETIME,
		estado_avance TEXT NOT NULL DEFAULT '' CHECK (length(estado_avance) <= 255),
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		created_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL,
		updated_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL
	);`,

	`CREATE TABLE IF NOT EXISTS organismo_plan (
		organismo_sectorial_id INTEGER NOT NULL
			REFERENCES organismos_sectoriales(id) ON DELETE CASCADE,
		plan_id INTEGER NOT NULL
			REFERENCES planes(id) ON DELETE CASCADE,
		PRIMARY KEY (organismo_sectorial_id, plan_id)
	);`,

	`CREATE TABLE IF NOT EXISTS medidas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		referencia_pda TEXT NOT NULL CHECK (length(referencia_pda) <= 100),
		nombre_corto TEXT NOT NULL CHECK (length(nombre_corto) <= 100),
		indicador TEXT NOT NULL CHECK (length(indicador) <= 2000),
		formula_de_calculo TEXT NOT NULL CHECK (length(formula_de_calculo) <= 2000),
		frecuencia_reporte TEXT NOT NULL DEFAULT 'ANUAL'
			CHECK (frecuencia_reporte IN ('ANUAL', 'UNICA', 'CADA_5_ANIOS')),
		tipo_de_dato_a_validar TEXT NOT NULL DEFAULT ''
			CHECK (length(tipo_de_dato_a_validar) <= 100),
		tipo_medida_id INTEGER NOT NULL
			REFERENCES tipos_medida(id) ON DELETE CASCADE,
		plan_id INTEGER NOT NULL
			REFERENCES planes(id) ON DELETE CASCADE,
		organismo_sectorial_id INTEGER NOT NULL
			REFERENCES organismos_sectoriales(id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		created_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL,
		updated_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL
	);`,

	`CREATE TABLE IF NOT EXISTS verificacion_medida (
		verificacion_id INTEGER NOT NULL
			REFERENCES verificaciones(id) ON DELETE CASCADE,
		medida_id INTEGER NOT NULL
			REFERENCES medidas(id) ON DELETE CASCADE,
		PRIMARY KEY (verificacion_id, medida_id)
	);`,

	`CREATE TABLE IF NOT EXISTS medidas_reportadas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		organismo_sectorial_id INTEGER NOT NULL
			REFERENCES organismos_sectoriales(id) ON DELETE CASCADE,
		medida_id INTEGER NOT NULL
			REFERENCES medidas(id) ON DELETE CASCADE,
		valor TEXT NOT NULL CHECK (length(valor) <= 50),
		estado TEXT NOT NULL DEFAULT 'VERIFICACION_PENDIENTE'
			CHECK (estado IN ('VERIFICACION_PENDIENTE', 'VERIFICADA', 'RECHAZADA')),
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		created_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL,
		updated_by INTEGER REFERENCES usuarios(id) ON DELETE SET NULL
	);`,
}

// ApplySchema executes the embedded DDL statements in order
func ApplySchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}
