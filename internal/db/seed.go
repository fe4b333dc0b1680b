package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrAlreadySeeded is returned when the catalog already has rows.
var ErrAlreadySeeded = errors.New("database already contains catalog data")

// SeedFixtures populates an empty database with a working catalog and a
// couple of trámites at different stages.
func SeedFixtures(database *sql.DB) error {
	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM clientes").Scan(&count); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if count > 0 {
		return ErrAlreadySeeded
	}

	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	clientes := []struct {
		id     int
		nombre string
	}{
		{1, "Banco del Pacífico"},
		{2, "BIESS"},
	}
	for _, c := range clientes {
		if _, err := tx.Exec("INSERT INTO clientes (id, nombre, created_at) VALUES (?, ?, ?)", c.id, c.nombre, now); err != nil {
			return fmt.Errorf("seed clientes: %w", err)
		}
	}

	cantones := []struct {
		id                int
		nombre, provincia string
	}{
		{1, "Quito", "Pichincha"},
		{2, "Guayaquil", "Guayas"},
		{3, "Cuenca", "Azuay"},
		{4, "Samborondón", "Guayas"},
	}
	for _, c := range cantones {
		if _, err := tx.Exec("INSERT INTO cantones (id, nombre, provincia, created_at) VALUES (?, ?, ?, ?)", c.id, c.nombre, c.provincia, now); err != nil {
			return fmt.Errorf("seed cantones: %w", err)
		}
	}

	inmobiliarias := []struct {
		id, clienteID int
		nombre        string
	}{
		{1, 1, "Inmobiliaria Andina"},
		{2, 1, "Constructora Litoral"},
		{3, 2, "Urbanizadora del Austro"},
	}
	for _, i := range inmobiliarias {
		if _, err := tx.Exec("INSERT INTO inmobiliarias (id, cliente_id, nombre, created_at) VALUES (?, ?, ?, ?)", i.id, i.clienteID, i.nombre, now); err != nil {
			return fmt.Errorf("seed inmobiliarias: %w", err)
		}
	}

	proyectos := []struct {
		id, inmobiliariaID, cantonID int
		nombre                       string
	}{
		{1, 1, 1, "Conjunto Los Alisos"},
		{2, 1, 1, "Torres del Valle"},
		{3, 2, 2, "Ciudad Celeste"},
		{4, 2, 4, "La Joya Etapa 3"},
		{5, 3, 3, "Jardines del Tomebamba"},
	}
	for _, p := range proyectos {
		if _, err := tx.Exec(
			"INSERT INTO proyectos (id, inmobiliaria_id, canton_id, nombre, created_at) VALUES (?, ?, ?, ?, ?)",
			p.id, p.inmobiliariaID, p.cantonID, p.nombre, now,
		); err != nil {
			return fmt.Errorf("seed proyectos: %w", err)
		}
	}

	tramites := []struct {
		id                                    int
		clienteID, inmobiliariaID, proyectoID int
		cantonID                              int
		nombre, cedula, estado                string
		stages                                [][2]string
	}{
		{
			1, 1, 1, 1, 1, "María Fernanda Ortiz", "1712345678", "INICIADO",
			[][2]string{{"fecha_asignacion", "2024-02-05"}},
		},
		{
			2, 1, 2, 3, 2, "Carlos Andrés Mora", "0923456781", "APROBACION_PROFORMA",
			[][2]string{
				{"fecha_asignacion", "2024-01-10"},
				{"fecha_revision_titulo", "2024-01-15"},
				{"fecha_envio_liquidar_impuesto", "2024-01-22"},
				{"fecha_envio_aprobacion_proforma", "2024-02-01"},
			},
		},
	}
	for _, t := range tramites {
		if _, err := tx.Exec(
			`INSERT INTO tramites (id, cliente_id, inmobiliaria_id, proyecto_id, canton_id,
				nombre_beneficiario, cedula_beneficiario, estado, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.id, t.clienteID, t.inmobiliariaID, t.proyectoID, t.cantonID,
			t.nombre, t.cedula, t.estado, now, now,
		); err != nil {
			return fmt.Errorf("seed tramites: %w", err)
		}
		for _, s := range t.stages {
			if _, err := tx.Exec("INSERT INTO tramite_stages (tramite_id, field, fecha) VALUES (?, ?, ?)", t.id, s[0], s[1]); err != nil {
				return fmt.Errorf("seed tramite_stages: %w", err)
			}
		}
	}

	return tx.Commit()
}
