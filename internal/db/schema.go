package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs of the offline store.
// It reflects the state after all migrations.
//
// This is the single source of truth for the database schema. Repository
// tests load it through GetSchemaSQL() instead of declaring their own tables,
// so a column referenced by a repository but missing here fails immediately
// with "no such column".
//
// When adding columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Catalog
CREATE TABLE IF NOT EXISTS clientes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	nombre TEXT NOT NULL UNIQUE,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS cantones (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	nombre TEXT NOT NULL,
	provincia TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(nombre, provincia)
);

CREATE TABLE IF NOT EXISTS inmobiliarias (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	cliente_id INTEGER NOT NULL,
	nombre TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (cliente_id) REFERENCES clientes(id)
);

CREATE TABLE IF NOT EXISTS proyectos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	inmobiliaria_id INTEGER NOT NULL,
	canton_id INTEGER NOT NULL,
	nombre TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (inmobiliaria_id) REFERENCES inmobiliarias(id),
	FOREIGN KEY (canton_id) REFERENCES cantones(id)
);

-- Trámites
CREATE TABLE IF NOT EXISTS tramites (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	cliente_id INTEGER NOT NULL,
	inmobiliaria_id INTEGER NOT NULL,
	proyecto_id INTEGER NOT NULL,
	canton_id INTEGER NOT NULL,
	nombre_beneficiario TEXT NOT NULL,
	cedula_beneficiario TEXT NOT NULL,
	estado TEXT NOT NULL DEFAULT 'INICIADO',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (cliente_id) REFERENCES clientes(id),
	FOREIGN KEY (inmobiliaria_id) REFERENCES inmobiliarias(id),
	FOREIGN KEY (proyecto_id) REFERENCES proyectos(id),
	FOREIGN KEY (canton_id) REFERENCES cantones(id)
);

CREATE INDEX IF NOT EXISTS idx_tramites_cliente ON tramites(cliente_id);
CREATE INDEX IF NOT EXISTS idx_tramites_estado ON tramites(estado);

-- One row per set stage date
CREATE TABLE IF NOT EXISTS tramite_stages (
	tramite_id INTEGER NOT NULL,
	field TEXT NOT NULL,
	fecha TEXT NOT NULL,
	PRIMARY KEY (tramite_id, field),
	FOREIGN KEY (tramite_id) REFERENCES tramites(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS tramite_observaciones (
	tramite_id INTEGER NOT NULL,
	field TEXT NOT NULL,
	texto TEXT NOT NULL,
	PRIMARY KEY (tramite_id, field),
	FOREIGN KEY (tramite_id) REFERENCES tramites(id) ON DELETE CASCADE
);

-- Document links; content lives in the configured document store
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	tramite_id INTEGER NOT NULL,
	kind TEXT NOT NULL CHECK (kind IN ('catastro', 'titulo', 'factura')),
	file_name TEXT NOT NULL,
	content_type TEXT NOT NULL,
	size INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (tramite_id) REFERENCES tramites(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_documents_tramite ON documents(tramite_id);
`

// InitSchema brings database up to date. A fresh database receives SchemaSQL
// directly with every migration marked as applied.
func InitSchema(database *sql.DB) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(database)
	}

	var oldTableCount int
	err = database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = 'tramites'").Scan(&oldTableCount)
	if err != nil {
		return err
	}
	if oldTableCount > 0 {
		return RunMigrations(database)
	}

	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := createVersionTable(database); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
