package db

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestOpen_FreshInstallMarksAllMigrations(t *testing.T) {
	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	v, err := CurrentVersion(conn)
	if err != nil {
		t.Fatalf("CurrentVersion: %v", err)
	}
	if v != len(migrations) {
		t.Errorf("version = %d, want %d", v, len(migrations))
	}
}

func TestRunMigrations_UpgradesPartialDatabase(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(1)

	if err := createVersionTable(conn); err != nil {
		t.Fatal(err)
	}
	tx, err := conn.Begin()
	if err != nil {
		t.Fatal(err)
	}
	if err := migrationV1(tx); err != nil {
		t.Fatalf("migrationV1: %v", err)
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (1)"); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	if err := InitSchema(conn); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	for _, table := range []string{"tramite_observaciones", "documents"} {
		var n int
		if err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n); err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Errorf("table %s missing after migrations", table)
		}
	}
	if v, _ := CurrentVersion(conn); v != len(migrations) {
		t.Errorf("version = %d, want %d", v, len(migrations))
	}
}

func TestSeedFixtures(t *testing.T) {
	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()

	if err := SeedFixtures(conn); err != nil {
		t.Fatalf("SeedFixtures: %v", err)
	}

	var proyectos, stages int
	conn.QueryRow("SELECT COUNT(*) FROM proyectos").Scan(&proyectos)
	conn.QueryRow("SELECT COUNT(*) FROM tramite_stages WHERE tramite_id = 2").Scan(&stages)
	if proyectos != 5 {
		t.Errorf("proyectos = %d, want 5", proyectos)
	}
	if stages != 4 {
		t.Errorf("stages of trámite 2 = %d, want 4", stages)
	}

	if err := SeedFixtures(conn); !errors.Is(err, ErrAlreadySeeded) {
		t.Errorf("second seed = %v, want ErrAlreadySeeded", err)
	}
}
