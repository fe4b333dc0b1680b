package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// CatalogRepository implements secondary.CatalogRepository with SQLite.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new SQLite catalog repository.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListClientes retrieves every cliente ordered by name.
func (r *CatalogRepository) ListClientes(ctx context.Context) ([]*secondary.ClienteRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, nombre FROM clientes ORDER BY nombre")
	if err != nil {
		return nil, fmt.Errorf("failed to list clientes: %w", err)
	}
	defer rows.Close()

	var out []*secondary.ClienteRecord
	for rows.Next() {
		c := &secondary.ClienteRecord{}
		if err := rows.Scan(&c.ID, &c.Nombre); err != nil {
			return nil, fmt.Errorf("failed to scan cliente: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListCantones retrieves every cantón ordered by name.
func (r *CatalogRepository) ListCantones(ctx context.Context) ([]*secondary.CantonRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, nombre, provincia FROM cantones ORDER BY nombre")
	if err != nil {
		return nil, fmt.Errorf("failed to list cantones: %w", err)
	}
	defer rows.Close()

	var out []*secondary.CantonRecord
	for rows.Next() {
		var provincia sql.NullString
		c := &secondary.CantonRecord{}
		if err := rows.Scan(&c.ID, &c.Nombre, &provincia); err != nil {
			return nil, fmt.Errorf("failed to scan cantón: %w", err)
		}
		c.Provincia = provincia.String
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListInmobiliarias retrieves the inmobiliarias of a cliente, or all of them.
func (r *CatalogRepository) ListInmobiliarias(ctx context.Context, clienteID string) ([]*secondary.InmobiliariaRecord, error) {
	query := "SELECT id, cliente_id, nombre FROM inmobiliarias WHERE 1=1"
	args := []any{}
	if clienteID != "" {
		query += " AND cliente_id = ?"
		args = append(args, clienteID)
	}
	query += " ORDER BY nombre"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inmobiliarias: %w", err)
	}
	defer rows.Close()

	var out []*secondary.InmobiliariaRecord
	for rows.Next() {
		i := &secondary.InmobiliariaRecord{}
		if err := rows.Scan(&i.ID, &i.ClienteID, &i.Nombre); err != nil {
			return nil, fmt.Errorf("failed to scan inmobiliaria: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// ListProyectos retrieves proyectos filtered by inmobiliaria and cantón.
func (r *CatalogRepository) ListProyectos(ctx context.Context, inmobiliariaID, cantonID string) ([]*secondary.ProyectoRecord, error) {
	query := "SELECT id, inmobiliaria_id, canton_id, nombre FROM proyectos WHERE 1=1"
	args := []any{}
	if inmobiliariaID != "" {
		query += " AND inmobiliaria_id = ?"
		args = append(args, inmobiliariaID)
	}
	if cantonID != "" {
		query += " AND canton_id = ?"
		args = append(args, cantonID)
	}
	query += " ORDER BY nombre"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list proyectos: %w", err)
	}
	defer rows.Close()

	var out []*secondary.ProyectoRecord
	for rows.Next() {
		p := &secondary.ProyectoRecord{}
		if err := rows.Scan(&p.ID, &p.InmobiliariaID, &p.CantonID, &p.Nombre); err != nil {
			return nil, fmt.Errorf("failed to scan proyecto: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetInmobiliaria retrieves an inmobiliaria by ID.
func (r *CatalogRepository) GetInmobiliaria(ctx context.Context, id string) (*secondary.InmobiliariaRecord, error) {
	i := &secondary.InmobiliariaRecord{}
	err := r.db.QueryRowContext(ctx, "SELECT id, cliente_id, nombre FROM inmobiliarias WHERE id = ?", id).
		Scan(&i.ID, &i.ClienteID, &i.Nombre)
	if err == sql.ErrNoRows {
		return nil, errs.Newf(errs.KindNotFound, "inmobiliaria %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inmobiliaria: %w", err)
	}
	return i, nil
}

// GetProyecto retrieves a proyecto by ID.
func (r *CatalogRepository) GetProyecto(ctx context.Context, id string) (*secondary.ProyectoRecord, error) {
	p := &secondary.ProyectoRecord{}
	err := r.db.QueryRowContext(ctx, "SELECT id, inmobiliaria_id, canton_id, nombre FROM proyectos WHERE id = ?", id).
		Scan(&p.ID, &p.InmobiliariaID, &p.CantonID, &p.Nombre)
	if err == sql.ErrNoRows {
		return nil, errs.Newf(errs.KindNotFound, "proyecto %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get proyecto: %w", err)
	}
	return p, nil
}

var _ secondary.CatalogRepository = (*CatalogRepository)(nil)
