// Package httpapi exposes the trámite services as a JSON API.
// Requests run under the operator session stored by the server process.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	coredocument "github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/document"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ctxutil"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
)

// multipart overhead allowed on top of the file itself
const formOverhead = 1 << 20

// Handler serves the trámite, document and catalog endpoints.
type Handler struct {
	tramites  primary.TramiteService
	documents primary.DocumentService
	catalog   primary.CatalogService
	logger    *slog.Logger
	metrics   *Metrics
}

// New creates a Handler.
func New(
	tramites primary.TramiteService,
	documents primary.DocumentService,
	catalog primary.CatalogService,
	logger *slog.Logger,
	metrics *Metrics,
) *Handler {
	return &Handler{
		tramites:  tramites,
		documents: documents,
		catalog:   catalog,
		logger:    logger,
		metrics:   metrics,
	}
}

// Register mounts the API routes under /api.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(recovery(h.logger))
	router.Use(h.observe)
	router.Use(middleware.Timeout(30 * time.Second))

	router.Route("/tramites", func(r chi.Router) {
		r.Get("/", h.handleListTramites)
		r.Post("/", h.handleCreateTramite)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetTramite)
			r.Patch("/", h.handleUpdateTramite)
			r.Delete("/", h.handleDeleteTramite)
			r.Get("/stages", h.handleStages)
			r.Get("/documents", h.handleListDocuments)
			r.Post("/documents", h.handleUploadDocument)
			r.Delete("/documents/{docID}", h.handleRemoveDocument)
			r.Get("/documents/{docID}/url", h.handleDocumentURL)
		})
	})
	router.Route("/catalog", func(r chi.Router) {
		r.Get("/clientes", h.handleClientes)
		r.Get("/cantones", h.handleCantones)
		r.Get("/inmobiliarias", h.handleInmobiliarias)
		r.Get("/proyectos", h.handleProyectos)
	})

	r.Mount("/api", router)
}

func (h *Handler) handleListTramites(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := primary.TramiteFilters{
		ClienteID: q.Get("cliente_id"),
		Estado:    q.Get("estado"),
		Search:    q.Get("search"),
	}
	var fes []errs.FieldError
	filters.Page, fes = intParam(q.Get("page"), "page", fes)
	filters.Limit, fes = intParam(q.Get("limit"), "limit", fes)
	if len(fes) > 0 {
		h.writeError(w, r, errs.Validation(fes))
		return
	}

	list, err := h.tramites.ListTramites(r.Context(), filters)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := listJSON[tramiteJSON]{Data: make([]tramiteJSON, 0, len(list.Data)), Total: list.Total}
	for _, t := range list.Data {
		out.Data = append(out.Data, toTramiteJSON(t))
	}
	h.writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) handleCreateTramite(w http.ResponseWriter, r *http.Request) {
	var body createTramiteBody
	if !h.decode(w, r, &body) {
		return
	}
	req, fes := body.request()
	if len(fes) > 0 {
		h.writeError(w, r, errs.Validation(fes))
		return
	}

	t, err := h.tramites.CreateTramite(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.TramitesCreated.Inc()
	h.writeJSON(w, r, http.StatusCreated, toTramiteJSON(t))
}

func (h *Handler) handleGetTramite(w http.ResponseWriter, r *http.Request) {
	t, err := h.tramites.GetTramite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, toTramiteJSON(t))
}

func (h *Handler) handleUpdateTramite(w http.ResponseWriter, r *http.Request) {
	var body updateTramiteBody
	if !h.decode(w, r, &body) {
		return
	}
	req, fes := body.request(chi.URLParam(r, "id"))
	if len(fes) > 0 {
		h.writeError(w, r, errs.Validation(fes))
		return
	}

	t, err := h.tramites.UpdateTramite(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.TramitesUpdated.Inc()
	h.writeJSON(w, r, http.StatusOK, toTramiteJSON(t))
}

func (h *Handler) handleDeleteTramite(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.tramites.DeleteTramite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !deleted {
		h.writeError(w, r, errs.New(errs.KindConflict, "deletion was not confirmed"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStages(w http.ResponseWriter, r *http.Request) {
	stages, err := h.tramites.GetStages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]stageJSON, 0, len(stages))
	for _, s := range stages {
		out = append(out, toStageJSON(s))
	}
	h.writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.ListDocuments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]documentJSON, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentJSON(d))
	}
	h.writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, coredocument.MaxFileSize+formOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, r, errs.Validation([]errs.FieldError{{Field: "file", Message: "a multipart file part is required"}}))
		return
	}
	defer file.Close()

	kind := r.FormValue("kind")
	doc, err := h.documents.UploadDocument(r.Context(), primary.UploadDocumentRequest{
		TramiteID:   chi.URLParam(r, "id"),
		Kind:        kind,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.DocumentsUploaded.WithLabelValues(doc.Kind).Inc()
	h.writeJSON(w, r, http.StatusCreated, toDocumentJSON(doc))
}

func (h *Handler) handleRemoveDocument(w http.ResponseWriter, r *http.Request) {
	removed, err := h.documents.RemoveDocument(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "docID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !removed {
		h.writeError(w, r, errs.New(errs.KindConflict, "removal was not confirmed"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDocumentURL(w http.ResponseWriter, r *http.Request) {
	link, err := h.documents.DocumentURL(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "docID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"url": link})
}

func (h *Handler) handleClientes(w http.ResponseWriter, r *http.Request) {
	entries, err := h.catalog.ListClientes(r.Context())
	h.writeCatalog(w, r, entries, err)
}

func (h *Handler) handleCantones(w http.ResponseWriter, r *http.Request) {
	entries, err := h.catalog.ListCantones(r.Context())
	h.writeCatalog(w, r, entries, err)
}

func (h *Handler) handleInmobiliarias(w http.ResponseWriter, r *http.Request) {
	entries, err := h.catalog.ListInmobiliarias(r.Context(), r.URL.Query().Get("cliente_id"))
	h.writeCatalog(w, r, entries, err)
}

func (h *Handler) handleProyectos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := h.catalog.ListProyectos(r.Context(), q.Get("inmobiliaria_id"), q.Get("canton_id"))
	h.writeCatalog(w, r, entries, err)
}

func (h *Handler) writeCatalog(w http.ResponseWriter, r *http.Request, entries []*primary.CatalogEntry, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]catalogJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, catalogJSON{ID: e.ID, Nombre: e.Nombre, ParentID: e.ParentID, Detail: e.Detail})
	}
	h.writeJSON(w, r, http.StatusOK, out)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, r, errs.Validation([]errs.FieldError{{Field: "body", Message: "invalid JSON: " + err.Error()}}))
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctx := r.Context()
		h.logger.ErrorContext(ctx, "failed to encode response",
			"request_id", ctxutil.RequestIDFromContext(ctx),
			"error", err.Error(),
		)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	kind := errs.KindOf(err)
	status := errs.HTTPStatus(kind)
	if kind == "" {
		kind = "internal"
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed",
			"request_id", ctxutil.RequestIDFromContext(ctx),
			"kind", string(kind),
			"error", err.Error(),
		)
	} else {
		h.logger.WarnContext(ctx, "request rejected",
			"request_id", ctxutil.RequestIDFromContext(ctx),
			"kind", string(kind),
			"error", err.Error(),
		)
	}
	if kind == errs.KindSessionExpired {
		h.metrics.SessionsExpired.Inc()
	}

	msg := err.Error()
	var e *errs.Error
	if errors.As(err, &e) && e.Message != "" {
		msg = e.Message
	}
	h.writeJSON(w, r, status, errorJSON{Error: string(kind), Message: msg, Fields: errs.FieldsOf(err)})
}

func intParam(raw, field string, fes []errs.FieldError) (int, []errs.FieldError) {
	if raw == "" {
		return 0, fes
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, append(fes, errs.FieldError{Field: field, Message: "must be a non-negative integer"})
	}
	return n, fes
}
