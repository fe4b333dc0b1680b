package rest

import (
	"context"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

type clienteDTO struct {
	ID     flexID `json:"id"`
	Nombre string `json:"nombre"`
}

type cantonDTO struct {
	ID        flexID `json:"id"`
	Nombre    string `json:"nombre"`
	Provincia string `json:"provincia"`
}

type inmobiliariaDTO struct {
	ID        flexID `json:"id"`
	ClienteID flexID `json:"cliente_id"`
	Nombre    string `json:"nombre"`
}

type proyectoDTO struct {
	ID             flexID `json:"id"`
	InmobiliariaID flexID `json:"inmobiliaria_id"`
	CantonID       flexID `json:"canton_id"`
	Nombre         string `json:"nombre"`
}

func (d inmobiliariaDTO) record() *secondary.InmobiliariaRecord {
	return &secondary.InmobiliariaRecord{ID: string(d.ID), ClienteID: string(d.ClienteID), Nombre: d.Nombre}
}

func (d proyectoDTO) record() *secondary.ProyectoRecord {
	return &secondary.ProyectoRecord{
		ID:             string(d.ID),
		InmobiliariaID: string(d.InmobiliariaID),
		CantonID:       string(d.CantonID),
		Nombre:         d.Nombre,
	}
}

// CatalogRepository implements secondary.CatalogRepository against the
// data-access service.
type CatalogRepository struct {
	client *Client
}

// NewCatalogRepository creates a REST catalog repository.
func NewCatalogRepository(client *Client) *CatalogRepository {
	return &CatalogRepository{client: client}
}

// ListClientes retrieves every cliente.
func (r *CatalogRepository) ListClientes(ctx context.Context) ([]*secondary.ClienteRecord, error) {
	data, err := ListAll[clienteDTO](ctx, r.client, "clientes", nil)
	if err != nil {
		return nil, err
	}
	out := make([]*secondary.ClienteRecord, len(data))
	for i, d := range data {
		out[i] = &secondary.ClienteRecord{ID: string(d.ID), Nombre: d.Nombre}
	}
	return out, nil
}

// ListCantones retrieves every cantón.
func (r *CatalogRepository) ListCantones(ctx context.Context) ([]*secondary.CantonRecord, error) {
	data, err := ListAll[cantonDTO](ctx, r.client, "cantones", nil)
	if err != nil {
		return nil, err
	}
	out := make([]*secondary.CantonRecord, len(data))
	for i, d := range data {
		out[i] = &secondary.CantonRecord{ID: string(d.ID), Nombre: d.Nombre, Provincia: d.Provincia}
	}
	return out, nil
}

// ListInmobiliarias retrieves the inmobiliarias of a cliente.
func (r *CatalogRepository) ListInmobiliarias(ctx context.Context, clienteID string) ([]*secondary.InmobiliariaRecord, error) {
	data, err := ListAll[inmobiliariaDTO](ctx, r.client, "inmobiliarias", map[string]string{"cliente_id": clienteID})
	if err != nil {
		return nil, err
	}
	out := make([]*secondary.InmobiliariaRecord, len(data))
	for i, d := range data {
		out[i] = d.record()
	}
	return out, nil
}

// ListProyectos retrieves proyectos by inmobiliaria and cantón.
func (r *CatalogRepository) ListProyectos(ctx context.Context, inmobiliariaID, cantonID string) ([]*secondary.ProyectoRecord, error) {
	data, err := ListAll[proyectoDTO](ctx, r.client, "proyectos", map[string]string{
		"inmobiliaria_id": inmobiliariaID,
		"canton_id":       cantonID,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*secondary.ProyectoRecord, len(data))
	for i, d := range data {
		out[i] = d.record()
	}
	return out, nil
}

// GetInmobiliaria retrieves an inmobiliaria by ID.
func (r *CatalogRepository) GetInmobiliaria(ctx context.Context, id string) (*secondary.InmobiliariaRecord, error) {
	var d inmobiliariaDTO
	if err := r.client.Get(ctx, "inmobiliarias", id, &d); err != nil {
		return nil, err
	}
	return d.record(), nil
}

// GetProyecto retrieves a proyecto by ID.
func (r *CatalogRepository) GetProyecto(ctx context.Context, id string) (*secondary.ProyectoRecord, error) {
	var d proyectoDTO
	if err := r.client.Get(ctx, "proyectos", id, &d); err != nil {
		return nil, err
	}
	return d.record(), nil
}

var _ secondary.CatalogRepository = (*CatalogRepository)(nil)
