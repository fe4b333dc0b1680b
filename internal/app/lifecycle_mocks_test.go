package app

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ctxutil"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

var _ secondary.TramiteRepository = (*mockTramiteRepository)(nil)

// mockTramiteRepository implements secondary.TramiteRepository for testing.
// It records the credential seen on each call.
type mockTramiteRepository struct {
	tramites    map[string]*secondary.TramiteRecord
	nextID      int
	createErr   error
	getErr      error
	updateErr   error
	deleteErr   error
	listErr     error
	attachErr   error
	detachErr   error
	calls       int
	lastToken   string
	lastFilters secondary.TramiteFilters
}

func newMockTramiteRepository() *mockTramiteRepository {
	return &mockTramiteRepository{tramites: make(map[string]*secondary.TramiteRecord), nextID: 1}
}

func (m *mockTramiteRepository) seen(ctx context.Context) {
	m.calls++
	if cred, ok := ctxutil.CredentialFromContext(ctx); ok {
		m.lastToken = cred.Token
	}
}

func copyRecord(r *secondary.TramiteRecord) *secondary.TramiteRecord {
	c := *r
	c.Dates = make(map[string]time.Time, len(r.Dates))
	for k, v := range r.Dates {
		c.Dates[k] = v
	}
	c.Observaciones = make(map[string]string, len(r.Observaciones))
	for k, v := range r.Observaciones {
		c.Observaciones[k] = v
	}
	c.Documents = append([]*secondary.DocumentRecord(nil), r.Documents...)
	return &c
}

func (m *mockTramiteRepository) Create(ctx context.Context, t *secondary.TramiteRecord) (*secondary.TramiteRecord, error) {
	m.seen(ctx)
	if m.createErr != nil {
		return nil, m.createErr
	}
	c := copyRecord(t)
	c.ID = strconv.Itoa(m.nextID)
	m.nextID++
	c.CreatedAt = "2024-03-01T10:00:00Z"
	c.UpdatedAt = c.CreatedAt
	m.tramites[c.ID] = c
	return copyRecord(c), nil
}

func (m *mockTramiteRepository) GetByID(ctx context.Context, id string) (*secondary.TramiteRecord, error) {
	m.seen(ctx)
	if m.getErr != nil {
		return nil, m.getErr
	}
	if t, ok := m.tramites[id]; ok {
		return copyRecord(t), nil
	}
	return nil, errs.Newf(errs.KindNotFound, "trámite %s not found", id)
}

func (m *mockTramiteRepository) Update(ctx context.Context, t *secondary.TramiteRecord) (*secondary.TramiteRecord, error) {
	m.seen(ctx)
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	existing, ok := m.tramites[t.ID]
	if !ok {
		return nil, errs.Newf(errs.KindNotFound, "trámite %s not found", t.ID)
	}
	c := copyRecord(t)
	c.Documents = existing.Documents
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = "2024-03-02T10:00:00Z"
	m.tramites[t.ID] = c
	return copyRecord(c), nil
}

func (m *mockTramiteRepository) Delete(ctx context.Context, id string) error {
	m.seen(ctx)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.tramites[id]; !ok {
		return errs.Newf(errs.KindNotFound, "trámite %s not found", id)
	}
	delete(m.tramites, id)
	return nil
}

func (m *mockTramiteRepository) List(ctx context.Context, filters secondary.TramiteFilters) (*secondary.TramitePage, error) {
	m.seen(ctx)
	m.lastFilters = filters
	if m.listErr != nil {
		return nil, m.listErr
	}
	ids := make([]string, 0, len(m.tramites))
	for id, t := range m.tramites {
		if filters.ClienteID != "" && t.ClienteID != filters.ClienteID {
			continue
		}
		if filters.Estado != "" && t.Estado != filters.Estado {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	page := &secondary.TramitePage{Total: len(ids)}
	start := (filters.Page - 1) * filters.Limit
	for i := start; i < len(ids) && i < start+filters.Limit; i++ {
		page.Data = append(page.Data, copyRecord(m.tramites[ids[i]]))
	}
	return page, nil
}

func (m *mockTramiteRepository) AttachDocument(ctx context.Context, doc *secondary.DocumentRecord) error {
	m.seen(ctx)
	if m.attachErr != nil {
		return m.attachErr
	}
	t, ok := m.tramites[doc.TramiteID]
	if !ok {
		return errs.Newf(errs.KindNotFound, "trámite %s not found", doc.TramiteID)
	}
	t.Documents = append(t.Documents, doc)
	return nil
}

func (m *mockTramiteRepository) DetachDocument(ctx context.Context, tramiteID, documentID string) error {
	m.seen(ctx)
	if m.detachErr != nil {
		return m.detachErr
	}
	t, ok := m.tramites[tramiteID]
	if !ok {
		return errs.Newf(errs.KindNotFound, "trámite %s not found", tramiteID)
	}
	kept := t.Documents[:0:0]
	for _, d := range t.Documents {
		if d.ID != documentID {
			kept = append(kept, d)
		}
	}
	t.Documents = kept
	return nil
}

var _ secondary.CatalogRepository = (*mockCatalogRepository)(nil)

// mockCatalogRepository implements secondary.CatalogRepository for testing.
type mockCatalogRepository struct {
	inmobiliarias map[string]*secondary.InmobiliariaRecord
	proyectos     map[string]*secondary.ProyectoRecord
	getErr        error
}

func newMockCatalogRepository() *mockCatalogRepository {
	return &mockCatalogRepository{
		inmobiliarias: map[string]*secondary.InmobiliariaRecord{
			"10": {ID: "10", ClienteID: "1", Nombre: "Inmobiliaria Norte"},
			"11": {ID: "11", ClienteID: "2", Nombre: "Inmobiliaria Sur"},
		},
		proyectos: map[string]*secondary.ProyectoRecord{
			"100": {ID: "100", InmobiliariaID: "10", CantonID: "7", Nombre: "Los Álamos"},
			"101": {ID: "101", InmobiliariaID: "11", CantonID: "8", Nombre: "Vista Sur"},
		},
	}
}

func (m *mockCatalogRepository) ListClientes(ctx context.Context) ([]*secondary.ClienteRecord, error) {
	return nil, nil
}

func (m *mockCatalogRepository) ListCantones(ctx context.Context) ([]*secondary.CantonRecord, error) {
	return nil, nil
}

func (m *mockCatalogRepository) ListInmobiliarias(ctx context.Context, clienteID string) ([]*secondary.InmobiliariaRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []*secondary.InmobiliariaRecord
	for _, id := range slices.Sorted(maps.Keys(m.inmobiliarias)) {
		if r := m.inmobiliarias[id]; clienteID == "" || r.ClienteID == clienteID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockCatalogRepository) ListProyectos(ctx context.Context, inmobiliariaID, cantonID string) ([]*secondary.ProyectoRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []*secondary.ProyectoRecord
	for _, id := range slices.Sorted(maps.Keys(m.proyectos)) {
		r := m.proyectos[id]
		if inmobiliariaID != "" && r.InmobiliariaID != inmobiliariaID {
			continue
		}
		if cantonID != "" && r.CantonID != cantonID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *mockCatalogRepository) GetInmobiliaria(ctx context.Context, id string) (*secondary.InmobiliariaRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if r, ok := m.inmobiliarias[id]; ok {
		return r, nil
	}
	return nil, errs.Newf(errs.KindNotFound, "inmobiliaria %s not found", id)
}

func (m *mockCatalogRepository) GetProyecto(ctx context.Context, id string) (*secondary.ProyectoRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if r, ok := m.proyectos[id]; ok {
		return r, nil
	}
	return nil, errs.Newf(errs.KindNotFound, "proyecto %s not found", id)
}

var _ secondary.SessionProvider = (*mockSessionProvider)(nil)

// mockSessionProvider implements secondary.SessionProvider for testing.
type mockSessionProvider struct {
	current *secondary.SessionRecord
	valid   bool
	saveErr error
	cleared bool
}

func newMockSessionProvider() *mockSessionProvider {
	return &mockSessionProvider{
		current: &secondary.SessionRecord{Token: "token-abc", Role: "admin"},
		valid:   true,
	}
}

func (m *mockSessionProvider) Current(ctx context.Context) (*secondary.SessionRecord, error) {
	return m.current, nil
}

func (m *mockSessionProvider) IsValid(ctx context.Context) bool {
	return m.current != nil && m.valid
}

func (m *mockSessionProvider) Save(ctx context.Context, s *secondary.SessionRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.current = s
	m.valid = true
	return nil
}

func (m *mockSessionProvider) Clear(ctx context.Context) error {
	m.current = nil
	m.cleared = true
	return nil
}

// mockConfirmer implements secondary.Confirmer for testing.
type mockConfirmer struct {
	answer    bool
	questions []string
}

func (m *mockConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	m.questions = append(m.questions, question)
	return m.answer, nil
}

var _ secondary.DocumentStore = (*mockDocumentStore)(nil)

// mockDocumentStore implements secondary.DocumentStore for testing.
type mockDocumentStore struct {
	contents  map[string][]byte
	nextID    int
	uploadErr error
	urlErr    error
	deleteErr error
	uploads   int
}

func newMockDocumentStore() *mockDocumentStore {
	return &mockDocumentStore{contents: make(map[string][]byte), nextID: 1}
}

func (m *mockDocumentStore) Upload(ctx context.Context, req secondary.DocumentUpload) (*secondary.DocumentRecord, error) {
	m.uploads++
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	id := fmt.Sprintf("doc-%d", m.nextID)
	m.nextID++
	m.contents[id] = data
	return &secondary.DocumentRecord{
		ID:          id,
		TramiteID:   req.TramiteID,
		Kind:        req.Kind,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        int64(len(data)),
	}, nil
}

func (m *mockDocumentStore) ResolveURL(ctx context.Context, id string) (string, error) {
	if m.urlErr != nil {
		return "", m.urlErr
	}
	if _, ok := m.contents[id]; !ok {
		return "", errs.Newf(errs.KindNotFound, "document %s not found", id)
	}
	return "https://files.example.test/" + id, nil
}

func (m *mockDocumentStore) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.contents, id)
	return nil
}
