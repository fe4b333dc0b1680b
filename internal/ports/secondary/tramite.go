// Package secondary defines the secondary ports (driven adapters) for the application.
package secondary

import (
	"context"
	"time"
)

// TramiteRepository defines the secondary port for the data-access service.
// Failures are classified with errs kinds: an unknown id is errs.KindNotFound,
// a 401 is errs.KindSessionExpired.
type TramiteRepository interface {
	// Create persists a new trámite and returns it with its assigned ID.
	Create(ctx context.Context, tramite *TramiteRecord) (*TramiteRecord, error)

	// GetByID retrieves a trámite and its document references.
	GetByID(ctx context.Context, id string) (*TramiteRecord, error)

	// Update replaces the stored trámite. Last writer wins.
	Update(ctx context.Context, tramite *TramiteRecord) (*TramiteRecord, error)

	// Delete removes a trámite.
	Delete(ctx context.Context, id string) error

	// List retrieves one page of trámites matching the filters.
	List(ctx context.Context, filters TramiteFilters) (*TramitePage, error)

	// AttachDocument links a stored document to its trámite.
	AttachDocument(ctx context.Context, doc *DocumentRecord) error

	// DetachDocument unlinks a document from its trámite.
	DetachDocument(ctx context.Context, tramiteID, documentID string) error
}

// TramiteRecord represents a trámite as stored by the data-access service.
type TramiteRecord struct {
	ID                 string
	ClienteID          string
	InmobiliariaID     string
	ProyectoID         string
	CantonID           string
	NombreBeneficiario string
	CedulaBeneficiario string
	Dates              map[string]time.Time // set stages only
	Observaciones      map[string]string
	Estado             string
	Documents          []*DocumentRecord // upload order
	CreatedAt          string
	UpdatedAt          string
}

// TramiteFilters contains filter and paging options for querying trámites.
type TramiteFilters struct {
	Page      int
	Limit     int
	ClienteID string
	Estado    string
	Search    string
}

// TramitePage is a list response shaped {data, total}.
type TramitePage struct {
	Data  []*TramiteRecord
	Total int
}
