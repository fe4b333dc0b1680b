package primary

import "context"

// CatalogService defines the primary port for the reference entities a
// trámite points at. Lists feed the cascading selectors.
type CatalogService interface {
	ListClientes(ctx context.Context) ([]*CatalogEntry, error)
	ListCantones(ctx context.Context) ([]*CatalogEntry, error)

	// ListInmobiliarias returns the inmobiliarias of a cliente.
	ListInmobiliarias(ctx context.Context, clienteID string) ([]*CatalogEntry, error)

	// ListProyectos returns the proyectos of an inmobiliaria in a cantón.
	ListProyectos(ctx context.Context, inmobiliariaID, cantonID string) ([]*CatalogEntry, error)
}

// CatalogEntry is one selectable catalog row. ParentID is the owning cliente
// for inmobiliarias and the owning inmobiliaria for proyectos.
type CatalogEntry struct {
	ID       string
	Nombre   string
	ParentID string
	Detail   string // provincia for cantones, cantón id for proyectos
}
