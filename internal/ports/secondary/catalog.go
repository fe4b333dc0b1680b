package secondary

import "context"

// CatalogRepository defines the secondary port for the reference entities
// owned by the data-access service.
type CatalogRepository interface {
	// ListClientes retrieves every cliente.
	ListClientes(ctx context.Context) ([]*ClienteRecord, error)

	// ListCantones retrieves every cantón.
	ListCantones(ctx context.Context) ([]*CantonRecord, error)

	// ListInmobiliarias retrieves the inmobiliarias of a cliente (all when empty).
	ListInmobiliarias(ctx context.Context, clienteID string) ([]*InmobiliariaRecord, error)

	// ListProyectos retrieves proyectos filtered by inmobiliaria and cantón (all when empty).
	ListProyectos(ctx context.Context, inmobiliariaID, cantonID string) ([]*ProyectoRecord, error)

	// GetInmobiliaria retrieves an inmobiliaria by ID.
	GetInmobiliaria(ctx context.Context, id string) (*InmobiliariaRecord, error)

	// GetProyecto retrieves a proyecto by ID.
	GetProyecto(ctx context.Context, id string) (*ProyectoRecord, error)
}

// ClienteRecord represents a cliente.
type ClienteRecord struct {
	ID     string
	Nombre string
}

// CantonRecord represents a cantón.
type CantonRecord struct {
	ID        string
	Nombre    string
	Provincia string
}

// InmobiliariaRecord represents an inmobiliaria owned by a cliente.
type InmobiliariaRecord struct {
	ID        string
	ClienteID string
	Nombre    string
}

// ProyectoRecord represents a proyecto of an inmobiliaria in a cantón.
type ProyectoRecord struct {
	ID             string
	InmobiliariaID string
	CantonID       string
	Nombre         string
}
