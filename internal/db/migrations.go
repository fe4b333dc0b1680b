package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration.
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_catalog_and_tramites",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_observaciones_and_documents",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_tramite_lookup_indexes",
		Up:      migrationV3,
	},
}

func createVersionTable(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion returns the highest applied migration.
func CurrentVersion(database *sql.DB) (int, error) {
	var v int
	if err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return v, nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(database *sql.DB) error {
	if err := createVersionTable(database); err != nil {
		return err
	}

	currentVersion, err := CurrentVersion(database)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func execAll(tx *sql.Tx, stmts ...string) error {
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func migrationV1(tx *sql.Tx) error {
	return execAll(tx,
		`CREATE TABLE IF NOT EXISTS clientes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nombre TEXT NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS cantones (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nombre TEXT NOT NULL,
			provincia TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(nombre, provincia)
		)`,
		`CREATE TABLE IF NOT EXISTS inmobiliarias (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cliente_id INTEGER NOT NULL,
			nombre TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (cliente_id) REFERENCES clientes(id)
		)`,
		`CREATE TABLE IF NOT EXISTS proyectos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			inmobiliaria_id INTEGER NOT NULL,
			canton_id INTEGER NOT NULL,
			nombre TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (inmobiliaria_id) REFERENCES inmobiliarias(id),
			FOREIGN KEY (canton_id) REFERENCES cantones(id)
		)`,
		`CREATE TABLE IF NOT EXISTS tramites (
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
		)`,
		`CREATE TABLE IF NOT EXISTS tramite_stages (
			tramite_id INTEGER NOT NULL,
			field TEXT NOT NULL,
			fecha TEXT NOT NULL,
			PRIMARY KEY (tramite_id, field),
			FOREIGN KEY (tramite_id) REFERENCES tramites(id) ON DELETE CASCADE
		)`,
	)
}

func migrationV2(tx *sql.Tx) error {
	return execAll(tx,
		`CREATE TABLE IF NOT EXISTS tramite_observaciones (
			tramite_id INTEGER NOT NULL,
			field TEXT NOT NULL,
			texto TEXT NOT NULL,
			PRIMARY KEY (tramite_id, field),
			FOREIGN KEY (tramite_id) REFERENCES tramites(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			tramite_id INTEGER NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('catastro', 'titulo', 'factura')),
			file_name TEXT NOT NULL,
			content_type TEXT NOT NULL,
			size INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (tramite_id) REFERENCES tramites(id) ON DELETE CASCADE
		)`,
	)
}

func migrationV3(tx *sql.Tx) error {
	return execAll(tx,
		`CREATE INDEX IF NOT EXISTS idx_tramites_cliente ON tramites(cliente_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tramites_estado ON tramites(estado)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_tramite ON documents(tramite_id)`,
	)
}
