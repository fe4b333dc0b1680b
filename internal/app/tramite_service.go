package app

import (
	"context"
	"fmt"

	corestage "github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/stage"
	coretramite "github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/tramite"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// TramiteServiceImpl implements the TramiteService interface.
// It is the record lifecycle controller: it validates, persists through the
// data-access collaborator and classifies every failure.
type TramiteServiceImpl struct {
	serviceBase
	tramiteRepo secondary.TramiteRepository
	catalogRepo secondary.CatalogRepository
	session     secondary.SessionProvider
	confirmer   secondary.Confirmer
}

// NewTramiteService creates a new TramiteService with injected dependencies.
func NewTramiteService(
	tramiteRepo secondary.TramiteRepository,
	catalogRepo secondary.CatalogRepository,
	session secondary.SessionProvider,
	confirmer secondary.Confirmer,
	opts ...Option,
) *TramiteServiceImpl {
	return &TramiteServiceImpl{
		serviceBase: newServiceBase(opts),
		tramiteRepo: tramiteRepo,
		catalogRepo: catalogRepo,
		session:     session,
		confirmer:   confirmer,
	}
}

// CreateTramite validates and persists a new trámite.
func (s *TramiteServiceImpl) CreateTramite(ctx context.Context, req primary.CreateTramiteRequest) (*primary.Tramite, error) {
	ctx, err := authorize(ctx, s.session)
	if err != nil {
		return nil, err
	}

	t := coretramite.Tramite{
		Identity: coretramite.Identity{
			ClienteID:      req.ClienteID,
			InmobiliariaID: req.InmobiliariaID,
			ProyectoID:     req.ProyectoID,
			CantonID:       req.CantonID,
		},
		NombreBeneficiario: req.NombreBeneficiario,
		CedulaBeneficiario: req.CedulaBeneficiario,
		Dates:              corestage.Dates{},
		Observaciones:      map[string]string{},
		Estado:             corestage.InitialEstado(),
	}
	for k, v := range req.Dates {
		t.Dates[k] = corestage.Day(v)
	}
	for k, v := range req.Observaciones {
		t.Observaciones[k] = v
	}

	fes := coretramite.Validate(t, coretramite.ModeCreate)
	if len(fes) == 0 {
		idErrs, err := s.checkIdentity(ctx, t.Identity)
		if err != nil {
			return nil, err
		}
		fes = append(fes, idErrs...)
	}
	if err := coretramite.ValidationError(fes); err != nil {
		return nil, err
	}

	created, err := s.tramiteRepo.Create(ctx, tramiteToRecord(t))
	if err != nil {
		return nil, classify(err, "create trámite")
	}
	s.logger.InfoContext(ctx, "tramite created", "tramite_id", created.ID, "cliente_id", created.ClienteID)
	return s.view(ctx, created), nil
}

// UpdateTramite loads the trámite, merges the changed fields, re-validates
// and persists only when there are no field errors. There is no version
// check: the last writer wins.
func (s *TramiteServiceImpl) UpdateTramite(ctx context.Context, req primary.UpdateTramiteRequest) (*primary.Tramite, error) {
	ctx, err := authorize(ctx, s.session)
	if err != nil {
		return nil, err
	}

	record, err := s.loadForEdit(ctx, req.TramiteID)
	if err != nil {
		return nil, err
	}
	before := recordToTramite(ctx, s.logger, record)

	patch := requestToPatch(before, req)
	if patch.IsEmpty() {
		return s.view(ctx, record), nil
	}

	after, fes := coretramite.Apply(before, patch)
	identityChanged := patch.ChangesIdentity(before)
	fes = append(fes, coretramite.ValidateUpdate(before, after, identityChanged)...)
	if identityChanged && len(fes) == 0 {
		idErrs, err := s.checkIdentity(ctx, after.Identity)
		if err != nil {
			return nil, err
		}
		fes = append(fes, idErrs...)
	}
	if err := coretramite.ValidationError(fes); err != nil {
		return nil, err
	}

	updated, err := s.tramiteRepo.Update(ctx, tramiteToRecord(after))
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return nil, errs.Wrap(err, errs.KindConflict, fmt.Sprintf("trámite %s was deleted while editing", req.TramiteID))
		}
		return nil, classify(err, "update trámite")
	}
	s.logger.InfoContext(ctx, "tramite updated",
		"tramite_id", updated.ID,
		"estado_from", before.DerivedEstado(),
		"estado_to", after.DerivedEstado())
	return s.view(ctx, updated), nil
}

// GetTramite retrieves a trámite with its document slots.
func (s *TramiteServiceImpl) GetTramite(ctx context.Context, tramiteID string) (*primary.Tramite, error) {
	ctx, err := authorize(ctx, s.session)
	if err != nil {
		return nil, err
	}
	record, err := s.tramiteRepo.GetByID(ctx, tramiteID)
	if err != nil {
		return nil, classify(err, "get trámite")
	}
	return s.view(ctx, record), nil
}

// ListTramites returns one page of trámites.
func (s *TramiteServiceImpl) ListTramites(ctx context.Context, filters primary.TramiteFilters) (*primary.TramiteList, error) {
	estado, err := corestage.ParseEstado(filters.Estado)
	if err != nil {
		return nil, errs.Validation([]errs.FieldError{{Field: coretramite.FieldEstado, Message: err.Error()}})
	}
	ctx, err = authorize(ctx, s.session)
	if err != nil {
		return nil, err
	}

	page, limit := filters.Page, filters.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	result, err := s.tramiteRepo.List(ctx, secondary.TramiteFilters{
		Page:      page,
		Limit:     limit,
		ClienteID: filters.ClienteID,
		Estado:    string(estado),
		Search:    filters.Search,
	})
	if err != nil {
		return nil, classify(err, "list trámites")
	}

	list := &primary.TramiteList{Total: result.Total, Data: make([]*primary.Tramite, len(result.Data))}
	for i, r := range result.Data {
		list.Data[i] = s.view(ctx, r)
	}
	return list, nil
}

// GetStages returns the stage board of a trámite.
func (s *TramiteServiceImpl) GetStages(ctx context.Context, tramiteID string) ([]*primary.StageStatus, error) {
	ctx, err := authorize(ctx, s.session)
	if err != nil {
		return nil, err
	}
	record, err := s.tramiteRepo.GetByID(ctx, tramiteID)
	if err != nil {
		return nil, classify(err, "get trámite")
	}
	t := recordToTramite(ctx, s.logger, record)

	board := corestage.Board(t.Dates)
	out := make([]*primary.StageStatus, len(board))
	for i, st := range board {
		out[i] = stageStatusToView(st)
	}
	return out, nil
}

// DeleteTramite asks for confirmation and deletes the trámite.
func (s *TramiteServiceImpl) DeleteTramite(ctx context.Context, tramiteID string) (bool, error) {
	ctx, err := authorize(ctx, s.session)
	if err != nil {
		return false, err
	}
	ok, err := confirm(ctx, s.confirmer, fmt.Sprintf("Delete trámite %s?", tramiteID))
	if err != nil || !ok {
		return false, err
	}
	if err := s.tramiteRepo.Delete(ctx, tramiteID); err != nil {
		return false, classify(err, "delete trámite")
	}
	s.logger.InfoContext(ctx, "tramite deleted", "tramite_id", tramiteID)
	return true, nil
}

// loadForEdit fetches the record an edit starts from. A record missing at
// this point is a conflict: someone else removed it.
func (s *TramiteServiceImpl) loadForEdit(ctx context.Context, tramiteID string) (*secondary.TramiteRecord, error) {
	record, err := s.tramiteRepo.GetByID(ctx, tramiteID)
	if err == nil {
		return record, nil
	}
	if errs.Is(err, errs.KindNotFound) {
		return nil, errs.Wrap(err, errs.KindConflict, fmt.Sprintf("trámite %s no longer exists", tramiteID))
	}
	return nil, classify(err, "load trámite")
}

// checkIdentity fetches the ownership of the selected inmobiliaria and
// proyecto. Missing entities become field errors; other failures are returned.
func (s *TramiteServiceImpl) checkIdentity(ctx context.Context, id coretramite.Identity) ([]errs.FieldError, error) {
	ictx := coretramite.IdentityContext{Identity: id}

	inmobiliaria, err := s.catalogRepo.GetInmobiliaria(ctx, id.InmobiliariaID)
	switch {
	case err == nil:
		ictx.InmobiliariaFound = true
		ictx.InmobiliariaClienteID = inmobiliaria.ClienteID
	case !errs.Is(err, errs.KindNotFound):
		return nil, classify(err, "get inmobiliaria")
	}

	proyecto, err := s.catalogRepo.GetProyecto(ctx, id.ProyectoID)
	switch {
	case err == nil:
		ictx.ProyectoFound = true
		ictx.ProyectoInmobiliariaID = proyecto.InmobiliariaID
		ictx.ProyectoCantonID = proyecto.CantonID
	case !errs.Is(err, errs.KindNotFound):
		return nil, classify(err, "get proyecto")
	}

	return coretramite.CheckIdentity(ictx), nil
}

// view converts a record for the caller and cross-checks the backend estado
// against the projection of the stage dates.
func (s *TramiteServiceImpl) view(ctx context.Context, record *secondary.TramiteRecord) *primary.Tramite {
	t := recordToTramite(ctx, s.logger, record)
	if t.EstadoMismatch() {
		s.logger.WarnContext(ctx, "estado reported by backend differs from stage dates",
			"tramite_id", t.ID,
			"reported", t.Estado,
			"computed", t.DerivedEstado())
	}
	return tramiteToView(t, record.CreatedAt, record.UpdatedAt)
}
