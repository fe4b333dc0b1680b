// Package primary defines the primary ports (driving adapters) for the application.
package primary

import (
	"context"
	"time"
)

// TramiteService defines the primary port for the trámite lifecycle.
// Every error it returns carries exactly one errs.Kind.
type TramiteService interface {
	// CreateTramite validates and persists a new trámite.
	CreateTramite(ctx context.Context, req CreateTramiteRequest) (*Tramite, error)

	// UpdateTramite loads the trámite, merges the changed fields, re-validates
	// and persists only when there are no field errors.
	UpdateTramite(ctx context.Context, req UpdateTramiteRequest) (*Tramite, error)

	// GetTramite retrieves a trámite with its document slots.
	GetTramite(ctx context.Context, tramiteID string) (*Tramite, error)

	// ListTramites returns one page of trámites.
	ListTramites(ctx context.Context, filters TramiteFilters) (*TramiteList, error)

	// GetStages returns the stage board of a trámite.
	GetStages(ctx context.Context, tramiteID string) ([]*StageStatus, error)

	// DeleteTramite asks for confirmation and deletes the trámite.
	// Returns false when the confirmation was declined.
	DeleteTramite(ctx context.Context, tramiteID string) (bool, error)
}

// CreateTramiteRequest contains parameters for creating a trámite.
type CreateTramiteRequest struct {
	ClienteID          string
	InmobiliariaID     string
	ProyectoID         string
	CantonID           string
	NombreBeneficiario string
	CedulaBeneficiario string
	Dates              map[string]time.Time // only fecha_asignacion is accepted at creation
	Observaciones      map[string]string
}

// UpdateTramiteRequest contains a partial edit. Nil pointers leave the
// attribute unchanged; a nil map value clears that stage date or observation.
type UpdateTramiteRequest struct {
	TramiteID          string
	ClienteID          *string
	InmobiliariaID     *string
	ProyectoID         *string
	CantonID           *string
	NombreBeneficiario *string
	CedulaBeneficiario *string
	Dates              map[string]*time.Time
	Observaciones      map[string]*string
}

// Tramite represents a trámite at the port boundary.
type Tramite struct {
	ID                 string
	ClienteID          string
	InmobiliariaID     string
	ProyectoID         string
	CantonID           string
	NombreBeneficiario string
	CedulaBeneficiario string
	Dates              map[string]time.Time
	Observaciones      map[string]string
	Estado             string // as reported by the backend
	ComputedEstado     string // projection of the stage dates
	Documents          DocumentSlots
	CreatedAt          string
	UpdatedAt          string
}

// DocumentSlots lists the document ids attached to a trámite.
type DocumentSlots struct {
	Catastro string
	Titulo   string
	Facturas []string // upload order
}

// TramiteFilters contains filter and paging options for listing trámites.
type TramiteFilters struct {
	Page      int // 1-based
	Limit     int
	ClienteID string
	Estado    string
	Search    string // matches beneficiary name or cédula
}

// TramiteList is one page of trámites plus the total match count.
type TramiteList struct {
	Data  []*Tramite
	Total int
}

// StageStatus is the tab view of one stage.
type StageStatus struct {
	Index       int
	Field       string
	Label       string
	Observation string
	Phase       string
	Unlocked    bool
	Completed   bool
	Date        *time.Time
	MinDate     *time.Time
}
