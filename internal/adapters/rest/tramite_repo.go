package rest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

const tramitesResource = "tramites"

// TramiteRepository implements secondary.TramiteRepository against the
// data-access service.
type TramiteRepository struct {
	client *Client
}

// NewTramiteRepository creates a REST trámite repository.
func NewTramiteRepository(client *Client) *TramiteRepository {
	return &TramiteRepository{client: client}
}

// Create persists a new trámite.
func (r *TramiteRepository) Create(ctx context.Context, tramite *secondary.TramiteRecord) (*secondary.TramiteRecord, error) {
	var raw rawTramite
	if err := r.client.Create(ctx, tramitesResource, encodeTramite(tramite), &raw); err != nil {
		return nil, err
	}
	return unwrapTramite(raw)
}

// GetByID retrieves a trámite with its documents.
func (r *TramiteRepository) GetByID(ctx context.Context, id string) (*secondary.TramiteRecord, error) {
	var raw rawTramite
	if err := r.client.Get(ctx, tramitesResource, id, &raw); err != nil {
		return nil, err
	}
	return unwrapTramite(raw)
}

// Update replaces the stored trámite with a full payload.
func (r *TramiteRepository) Update(ctx context.Context, tramite *secondary.TramiteRecord) (*secondary.TramiteRecord, error) {
	var raw rawTramite
	if err := r.client.Update(ctx, tramitesResource, tramite.ID, encodeTramite(tramite), &raw); err != nil {
		return nil, err
	}
	return unwrapTramite(raw)
}

// Delete removes a trámite.
func (r *TramiteRepository) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, tramitesResource, id)
}

// List retrieves one page of trámites.
func (r *TramiteRepository) List(ctx context.Context, filters secondary.TramiteFilters) (*secondary.TramitePage, error) {
	data, total, err := List[rawTramite](ctx, r.client, tramitesResource, ListParams{
		Page:  filters.Page,
		Limit: filters.Limit,
		Filters: map[string]string{
			"cliente_id": filters.ClienteID,
			"estado":     filters.Estado,
			"search":     filters.Search,
		},
	})
	if err != nil {
		return nil, err
	}

	page := &secondary.TramitePage{Data: make([]*secondary.TramiteRecord, 0, len(data)), Total: total}
	for i, raw := range data {
		rec, err := raw.record()
		if err != nil {
			return nil, fmt.Errorf("failed to decode trámite %d of page: %w", i, err)
		}
		page.Data = append(page.Data, rec)
	}
	return page, nil
}

// AttachDocument is a no-op: the PDF service links the document to its
// trámite when the upload carries tramite_id.
func (r *TramiteRepository) AttachDocument(ctx context.Context, doc *secondary.DocumentRecord) error {
	return nil
}

// DetachDocument is a no-op: deleting the content on the PDF service
// removes the link.
func (r *TramiteRepository) DetachDocument(ctx context.Context, tramiteID, documentID string) error {
	return nil
}

// unwrapTramite accepts a bare object or one enveloped in {"data": ...}.
func unwrapTramite(raw rawTramite) (*secondary.TramiteRecord, error) {
	if inner, ok := raw["data"]; ok {
		if _, hasID := raw["id"]; !hasID {
			var nested rawTramite
			if err := json.Unmarshal(inner, &nested); err != nil {
				return nil, fmt.Errorf("failed to decode trámite envelope: %w", err)
			}
			raw = nested
		}
	}
	return raw.record()
}

var _ secondary.TramiteRepository = (*TramiteRepository)(nil)
