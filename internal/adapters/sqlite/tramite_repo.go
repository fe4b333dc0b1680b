// Package sqlite contains SQLite implementations of repository interfaces
// for the offline backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/stage"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// TramiteRepository implements secondary.TramiteRepository with SQLite.
type TramiteRepository struct {
	db *sql.DB
}

// NewTramiteRepository creates a new SQLite trámite repository.
func NewTramiteRepository(db *sql.DB) *TramiteRepository {
	return &TramiteRepository{db: db}
}

const tramiteColumns = `id, cliente_id, inmobiliaria_id, proyecto_id, canton_id,
	nombre_beneficiario, cedula_beneficiario, estado, created_at, updated_at`

// Create persists a new trámite with its stage dates and observations.
func (r *TramiteRepository) Create(ctx context.Context, tramite *secondary.TramiteRecord) (*secondary.TramiteRecord, error) {
	estado := tramite.Estado
	if estado == "" {
		estado = string(stage.InitialEstado())
	}
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tramites (cliente_id, inmobiliaria_id, proyecto_id, canton_id,
			nombre_beneficiario, cedula_beneficiario, estado, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tramite.ClienteID, tramite.InmobiliariaID, tramite.ProyectoID, tramite.CantonID,
		tramite.NombreBeneficiario, tramite.CedulaBeneficiario, estado, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trámite: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read trámite id: %w", err)
	}

	if err := writeChildren(ctx, tx, id, tramite); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trámite: %w", err)
	}

	return r.GetByID(ctx, fmt.Sprint(id))
}

// GetByID retrieves a trámite with its stages, observations and documents.
func (r *TramiteRepository) GetByID(ctx context.Context, id string) (*secondary.TramiteRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+tramiteColumns+" FROM tramites WHERE id = ?", id)
	record, err := scanTramite(row)
	if err == sql.ErrNoRows {
		return nil, errs.Newf(errs.KindNotFound, "trámite %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trámite: %w", err)
	}
	if err := r.loadChildren(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Update replaces the stored trámite. Stage dates and observations are
// rewritten wholesale.
func (r *TramiteRepository) Update(ctx context.Context, tramite *secondary.TramiteRecord) (*secondary.TramiteRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE tramites SET cliente_id = ?, inmobiliaria_id = ?, proyecto_id = ?, canton_id = ?,
			nombre_beneficiario = ?, cedula_beneficiario = ?, estado = ?, updated_at = ?
		WHERE id = ?`,
		tramite.ClienteID, tramite.InmobiliariaID, tramite.ProyectoID, tramite.CantonID,
		tramite.NombreBeneficiario, tramite.CedulaBeneficiario, tramite.Estado, time.Now().UTC(),
		tramite.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update trámite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errs.Newf(errs.KindNotFound, "trámite %s not found", tramite.ID)
	}

	for _, table := range []string{"tramite_stages", "tramite_observaciones"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE tramite_id = ?", tramite.ID); err != nil {
			return nil, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := writeChildren(ctx, tx, tramite.ID, tramite); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trámite: %w", err)
	}

	return r.GetByID(ctx, tramite.ID)
}

// Delete removes a trámite. Stages, observations and document links cascade.
func (r *TramiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tramites WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete trámite: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.Newf(errs.KindNotFound, "trámite %s not found", id)
	}
	return nil
}

// List retrieves one page of trámites, newest first.
func (r *TramiteRepository) List(ctx context.Context, filters secondary.TramiteFilters) (*secondary.TramitePage, error) {
	where := " WHERE 1=1"
	args := []any{}

	if filters.ClienteID != "" {
		where += " AND cliente_id = ?"
		args = append(args, filters.ClienteID)
	}
	if filters.Estado != "" {
		where += " AND estado = ?"
		args = append(args, filters.Estado)
	}
	if filters.Search != "" {
		where += " AND (nombre_beneficiario LIKE ? OR cedula_beneficiario LIKE ?)"
		pattern := "%" + filters.Search + "%"
		args = append(args, pattern, pattern)
	}

	page := &secondary.TramitePage{}
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tramites"+where, args...).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("failed to count trámites: %w", err)
	}

	query := "SELECT " + tramiteColumns + " FROM tramites" + where + " ORDER BY created_at DESC, id DESC"
	if filters.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		offset := 0
		if filters.Page > 1 {
			offset = (filters.Page - 1) * filters.Limit
		}
		args = append(args, filters.Limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trámites: %w", err)
	}
	for rows.Next() {
		record, err := scanTramite(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan trámite: %w", err)
		}
		page.Data = append(page.Data, record)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list trámites: %w", err)
	}

	for _, record := range page.Data {
		if err := r.loadChildren(ctx, record); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// AttachDocument records a link between stored content and its trámite.
func (r *TramiteRepository) AttachDocument(ctx context.Context, doc *secondary.DocumentRecord) error {
	var exists int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tramites WHERE id = ?", doc.TramiteID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check trámite: %w", err)
	}
	if exists == 0 {
		return errs.Newf(errs.KindNotFound, "trámite %s not found", doc.TramiteID)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, tramite_id, kind, file_name, content_type, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.TramiteID, doc.Kind, doc.FileName, doc.ContentType, doc.Size, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to attach document: %w", err)
	}
	return nil
}

// DetachDocument removes the link between a document and its trámite.
func (r *TramiteRepository) DetachDocument(ctx context.Context, tramiteID, documentID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ? AND tramite_id = ?", documentID, tramiteID)
	if err != nil {
		return fmt.Errorf("failed to detach document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.Newf(errs.KindNotFound, "document %s not found on trámite %s", documentID, tramiteID)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTramite(s scanner) (*secondary.TramiteRecord, error) {
	var (
		createdAt time.Time
		updatedAt time.Time
	)
	record := &secondary.TramiteRecord{
		Dates:         map[string]time.Time{},
		Observaciones: map[string]string{},
	}
	err := s.Scan(
		&record.ID, &record.ClienteID, &record.InmobiliariaID, &record.ProyectoID, &record.CantonID,
		&record.NombreBeneficiario, &record.CedulaBeneficiario, &record.Estado, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

func (r *TramiteRepository) loadChildren(ctx context.Context, record *secondary.TramiteRecord) error {
	rows, err := r.db.QueryContext(ctx, "SELECT field, fecha FROM tramite_stages WHERE tramite_id = ?", record.ID)
	if err != nil {
		return fmt.Errorf("failed to load stages: %w", err)
	}
	for rows.Next() {
		var field, fecha string
		if err := rows.Scan(&field, &fecha); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan stage: %w", err)
		}
		d, err := stage.ParseDate(fecha)
		if err != nil {
			rows.Close()
			return fmt.Errorf("trámite %s %s: %w", record.ID, field, err)
		}
		record.Dates[field] = d
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx, "SELECT field, texto FROM tramite_observaciones WHERE tramite_id = ?", record.ID)
	if err != nil {
		return fmt.Errorf("failed to load observaciones: %w", err)
	}
	for rows.Next() {
		var field, texto string
		if err := rows.Scan(&field, &texto); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan observación: %w", err)
		}
		record.Observaciones[field] = texto
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		`SELECT id, tramite_id, kind, file_name, content_type, size, created_at
		FROM documents WHERE tramite_id = ? ORDER BY created_at, rowid`, record.ID)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var createdAt time.Time
		doc := &secondary.DocumentRecord{}
		if err := rows.Scan(&doc.ID, &doc.TramiteID, &doc.Kind, &doc.FileName, &doc.ContentType, &doc.Size, &createdAt); err != nil {
			return fmt.Errorf("failed to scan document: %w", err)
		}
		doc.CreatedAt = createdAt.Format(time.RFC3339)
		record.Documents = append(record.Documents, doc)
	}
	return rows.Err()
}

func writeChildren(ctx context.Context, tx *sql.Tx, id any, tramite *secondary.TramiteRecord) error {
	for field, d := range tramite.Dates {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO tramite_stages (tramite_id, field, fecha) VALUES (?, ?, ?)",
			id, field, stage.FormatDate(d),
		); err != nil {
			return fmt.Errorf("failed to write stage %s: %w", field, err)
		}
	}
	for field, text := range tramite.Observaciones {
		if text == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO tramite_observaciones (tramite_id, field, texto) VALUES (?, ?, ?)",
			id, field, text,
		); err != nil {
			return fmt.Errorf("failed to write observación %s: %w", field, err)
		}
	}
	return nil
}

var _ secondary.TramiteRepository = (*TramiteRepository)(nil)
