package app

import (
	"context"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// CatalogServiceImpl implements primary.CatalogService.
type CatalogServiceImpl struct {
	serviceBase
	catalogRepo secondary.CatalogRepository
	session     secondary.SessionProvider
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalogRepo secondary.CatalogRepository, session secondary.SessionProvider, opts ...Option) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		serviceBase: newServiceBase(opts),
		catalogRepo: catalogRepo,
		session:     session,
	}
}

// ListClientes returns every cliente.
func (s *CatalogServiceImpl) ListClientes(ctx context.Context) ([]*primary.CatalogEntry, error) {
	ctx, err := authorize(ctx, s.session)
	if err != nil {
		return nil, err
	}
	records, err := s.catalogRepo.ListClientes(ctx)
	if err != nil {
		return nil, classify(err, "list clientes")
	}
	out := make([]*primary.CatalogEntry, len(records))
	for i, r := range records {
		out[i] = &primary.CatalogEntry{ID: r.ID, Nombre: r.Nombre}
	}
	return out, nil
}

// ListCantones returns every cantón.
func (s *CatalogServiceImpl) ListCantones(ctx context.Context) ([]*primary.CatalogEntry, error) {
	ctx, err := authorize(ctx, s.session)
	if err != nil {
		return nil, err
	}
	records, err := s.catalogRepo.ListCantones(ctx)
	if err != nil {
		return nil, classify(err, "list cantones")
	}
	out := make([]*primary.CatalogEntry, len(records))
	for i, r := range records {
		out[i] = &primary.CatalogEntry{ID: r.ID, Nombre: r.Nombre, Detail: r.Provincia}
	}
	return out, nil
}

// ListInmobiliarias returns the inmobiliarias of clienteID, which is required.
func (s *CatalogServiceImpl) ListInmobiliarias(ctx context.Context, clienteID string) ([]*primary.CatalogEntry, error) {
	if clienteID == "" {
		return nil, errs.Validation([]errs.FieldError{{Field: "cliente_id", Message: "select a cliente first"}})
	}
	ctx, err := authorize(ctx, s.session)
	if err != nil {
		return nil, err
	}
	records, err := s.catalogRepo.ListInmobiliarias(ctx, clienteID)
	if err != nil {
		return nil, classify(err, "list inmobiliarias")
	}
	out := make([]*primary.CatalogEntry, len(records))
	for i, r := range records {
		out[i] = &primary.CatalogEntry{ID: r.ID, Nombre: r.Nombre, ParentID: r.ClienteID}
	}
	return out, nil
}

// ListProyectos returns the proyectos of inmobiliariaID, optionally narrowed
// to a cantón.
func (s *CatalogServiceImpl) ListProyectos(ctx context.Context, inmobiliariaID, cantonID string) ([]*primary.CatalogEntry, error) {
	if inmobiliariaID == "" {
		return nil, errs.Validation([]errs.FieldError{{Field: "inmobiliaria_id", Message: "select an inmobiliaria first"}})
	}
	ctx, err := authorize(ctx, s.session)
	if err != nil {
		return nil, err
	}
	records, err := s.catalogRepo.ListProyectos(ctx, inmobiliariaID, cantonID)
	if err != nil {
		return nil, classify(err, "list proyectos")
	}
	out := make([]*primary.CatalogEntry, len(records))
	for i, r := range records {
		out[i] = &primary.CatalogEntry{ID: r.ID, Nombre: r.Nombre, ParentID: r.InmobiliariaID, Detail: r.CantonID}
	}
	return out, nil
}

var _ primary.CatalogService = (*CatalogServiceImpl)(nil)
