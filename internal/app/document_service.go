package app

import (
	"bufio"
	"context"
	"fmt"

	coredocument "github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/document"
	coretramite "github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/tramite"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

const sniffLen = 5

// DocumentServiceImpl implements the DocumentService interface.
type DocumentServiceImpl struct {
	serviceBase
	tramiteRepo   secondary.TramiteRepository
	documentStore secondary.DocumentStore
	session       secondary.SessionProvider
	confirmer     secondary.Confirmer
}

// NewDocumentService creates a new DocumentService with injected dependencies.
func NewDocumentService(
	tramiteRepo secondary.TramiteRepository,
	documentStore secondary.DocumentStore,
	session secondary.SessionProvider,
	confirmer secondary.Confirmer,
	opts ...Option,
) *DocumentServiceImpl {
	return &DocumentServiceImpl{
		serviceBase:   newServiceBase(opts),
		tramiteRepo:   tramiteRepo,
		documentStore: documentStore,
		session:       session,
		confirmer:     confirmer,
	}
}

// UploadDocument checks the file locally, then stores it and attaches it to its slot.
func (s *DocumentServiceImpl) UploadDocument(ctx context.Context, req primary.UploadDocumentRequest) (*primary.Document, error) {
	kind, err := coredocument.ParseKind(req.Kind)
	if err != nil {
		return nil, errs.Validation([]errs.FieldError{{Field: "kind", Message: err.Error()}})
	}
	if req.Body == nil {
		return nil, errs.Validation([]errs.FieldError{{Field: "file", Message: "is required"}})
	}

	body := bufio.NewReader(req.Body)
	head, _ := body.Peek(sniffLen)
	if err := coredocument.CheckFile(coredocument.File{
		Name:        req.FileName,
		ContentType: req.ContentType,
		Size:        req.Size,
		Head:        head,
	}); err != nil {
		return nil, err
	}

	ctx, err = authorize(ctx, s.session)
	if err != nil {
		return nil, err
	}

	record, err := s.tramiteRepo.GetByID(ctx, req.TramiteID)
	if err != nil {
		return nil, classify(err, "get trámite")
	}
	t := recordToTramite(ctx, s.logger, record)

	guard := coredocument.CanUpload(coredocument.UploadContext{TramiteID: req.TramiteID, Kind: kind, Slots: t.Documents})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	stored, err := s.documentStore.Upload(ctx, secondary.DocumentUpload{
		TramiteID:   req.TramiteID,
		Kind:        string(kind),
		FileName:    req.FileName,
		ContentType: coredocument.ContentTypePDF,
		Size:        req.Size,
		Body:        body,
	})
	if err != nil {
		return nil, classify(err, "upload document")
	}
	if stored.TramiteID == "" {
		stored.TramiteID = req.TramiteID
	}
	if stored.Kind == "" {
		stored.Kind = string(kind)
	}
	if err := t.Documents.Hold(kind, stored.ID); err != nil {
		s.discard(ctx, stored.ID)
		return nil, err
	}

	if err := s.tramiteRepo.AttachDocument(ctx, stored); err != nil {
		s.discard(ctx, stored.ID)
		return nil, classify(err, "attach document")
	}
	s.logger.InfoContext(ctx, "document uploaded",
		"tramite_id", req.TramiteID, "document_id", stored.ID, "kind", kind, "size", req.Size)
	return documentRecordToView(stored), nil
}

// RemoveDocument asks for confirmation, deletes the document and frees its slot.
func (s *DocumentServiceImpl) RemoveDocument(ctx context.Context, tramiteID, documentID string) (bool, error) {
	ctx, err := authorize(ctx, s.session)
	if err != nil {
		return false, err
	}

	t, err := s.load(ctx, tramiteID)
	if err != nil {
		return false, err
	}
	kind, held := t.Documents.KindOf(documentID)
	if !held {
		return false, errs.Newf(errs.KindNotFound, "document %s is not attached to trámite %s", documentID, tramiteID)
	}

	ok, err := confirm(ctx, s.confirmer, fmt.Sprintf("Delete %s document %s from trámite %s?", kind, documentID, tramiteID))
	if err != nil || !ok {
		return false, err
	}

	if err := s.documentStore.Delete(ctx, documentID); err != nil {
		if !errs.Is(err, errs.KindNotFound) {
			return false, classify(err, "delete document")
		}
		s.logger.WarnContext(ctx, "document content already gone", "document_id", documentID)
	}
	if err := s.tramiteRepo.DetachDocument(ctx, tramiteID, documentID); err != nil {
		return false, classify(err, "detach document")
	}
	if _, err := t.Documents.Remove(documentID); err != nil {
		return false, err
	}
	s.logger.InfoContext(ctx, "document removed", "tramite_id", tramiteID, "document_id", documentID, "kind", kind)
	return true, nil
}

// DocumentURL resolves a download URL. Failures of the PDF service surface unchanged.
func (s *DocumentServiceImpl) DocumentURL(ctx context.Context, tramiteID, documentID string) (string, error) {
	ctx, err := authorize(ctx, s.session)
	if err != nil {
		return "", err
	}
	t, err := s.load(ctx, tramiteID)
	if err != nil {
		return "", err
	}
	if _, held := t.Documents.KindOf(documentID); !held {
		return "", errs.Newf(errs.KindNotFound, "document %s is not attached to trámite %s", documentID, tramiteID)
	}
	url, err := s.documentStore.ResolveURL(ctx, documentID)
	if err != nil {
		return "", classify(err, "resolve document url")
	}
	return url, nil
}

// ListDocuments returns the documents attached to a trámite.
func (s *DocumentServiceImpl) ListDocuments(ctx context.Context, tramiteID string) ([]*primary.Document, error) {
	ctx, err := authorize(ctx, s.session)
	if err != nil {
		return nil, err
	}
	record, err := s.tramiteRepo.GetByID(ctx, tramiteID)
	if err != nil {
		return nil, classify(err, "get trámite")
	}
	out := make([]*primary.Document, 0, len(record.Documents))
	for _, d := range record.Documents {
		out = append(out, documentRecordToView(d))
	}
	return out, nil
}

func (s *DocumentServiceImpl) load(ctx context.Context, tramiteID string) (*coretramite.Tramite, error) {
	record, err := s.tramiteRepo.GetByID(ctx, tramiteID)
	if err != nil {
		return nil, classify(err, "get trámite")
	}
	t := recordToTramite(ctx, s.logger, record)
	return &t, nil
}

// discard deletes content whose attachment failed.
func (s *DocumentServiceImpl) discard(ctx context.Context, documentID string) {
	if err := s.documentStore.Delete(ctx, documentID); err != nil {
		s.logger.ErrorContext(ctx, "failed to discard orphaned document", "document_id", documentID, "error", err)
	}
}
