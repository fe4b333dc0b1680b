package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

type documentFixture struct {
	service   *DocumentServiceImpl
	repo      *mockTramiteRepository
	store     *mockDocumentStore
	session   *mockSessionProvider
	confirmer *mockConfirmer
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()
	f := &documentFixture{
		repo:      newMockTramiteRepository(),
		store:     newMockDocumentStore(),
		session:   newMockSessionProvider(),
		confirmer: &mockConfirmer{answer: true},
	}
	f.repo.tramites["1"] = &secondary.TramiteRecord{ID: "1", ClienteID: "1", Estado: "INICIADO"}
	f.service = NewDocumentService(f.repo, f.store, f.session, f.confirmer)
	return f
}

func pdfUpload(kind string) primary.UploadDocumentRequest {
	content := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n")
	return primary.UploadDocumentRequest{
		TramiteID:   "1",
		Kind:        kind,
		FileName:    kind + ".pdf",
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Body:        bytes.NewReader(content),
	}
}

func TestUploadDocument_SecondCatastroConflicts(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()

	if _, err := f.service.UploadDocument(ctx, pdfUpload("catastro")); err != nil {
		t.Fatalf("first catastro: %v", err)
	}
	_, err := f.service.UploadDocument(ctx, pdfUpload("catastro"))
	if !errs.Is(err, errs.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if f.store.uploads != 1 {
		t.Errorf("store received %d uploads, want 1", f.store.uploads)
	}
}

func TestUploadDocument_ThreeFacturasIndependent(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		doc, err := f.service.UploadDocument(ctx, pdfUpload("factura"))
		if err != nil {
			t.Fatalf("factura %d: %v", i+1, err)
		}
		ids = append(ids, doc.ID)
	}

	for _, id := range ids {
		url, err := f.service.DocumentURL(ctx, "1", id)
		if err != nil || !strings.HasSuffix(url, id) {
			t.Errorf("DocumentURL(%s) = %q, %v", id, url, err)
		}
	}

	removed, err := f.service.RemoveDocument(ctx, "1", ids[1])
	if err != nil || !removed {
		t.Fatalf("RemoveDocument = %v, %v", removed, err)
	}
	docs, err := f.service.ListDocuments(ctx, "1")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != ids[0] || docs[1].ID != ids[2] {
		t.Errorf("remaining documents = %v", docs)
	}
	if _, err := f.service.DocumentURL(ctx, "1", ids[1]); !errs.Is(err, errs.KindNotFound) {
		t.Errorf("removed factura still resolvable: %v", err)
	}
}

func TestUploadDocument_LocalChecksNeverReachNetwork(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*primary.UploadDocumentRequest)
	}{
		{name: "not a pdf", mutate: func(r *primary.UploadDocumentRequest) { r.ContentType = "image/jpeg" }},
		{name: "too large", mutate: func(r *primary.UploadDocumentRequest) { r.Size = 5<<20 + 1 }},
		{name: "unknown kind", mutate: func(r *primary.UploadDocumentRequest) { r.Kind = "escritura" }},
		{name: "pdf header missing", mutate: func(r *primary.UploadDocumentRequest) {
			r.Body = strings.NewReader("PK\x03\x04zip")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDocumentFixture(t)
			f.session.valid = false // any network attempt would fail differently
			req := pdfUpload("titulo")
			tt.mutate(&req)

			_, err := f.service.UploadDocument(context.Background(), req)
			if !errs.Is(err, errs.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if f.repo.calls != 0 || f.store.uploads != 0 {
				t.Errorf("collaborators called: repo=%d store=%d", f.repo.calls, f.store.uploads)
			}
		})
	}
}

func TestUploadDocument_AttachFailureDiscardsContent(t *testing.T) {
	f := newDocumentFixture(t)
	f.repo.attachErr = errors.New("backend down")

	_, err := f.service.UploadDocument(context.Background(), pdfUpload("titulo"))
	if !errs.Is(err, errs.KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if len(f.store.contents) != 0 {
		t.Errorf("orphaned content left in store: %d", len(f.store.contents))
	}
}

func TestRemoveDocument(t *testing.T) {
	t.Run("declined keeps the document", func(t *testing.T) {
		f := newDocumentFixture(t)
		doc, err := f.service.UploadDocument(context.Background(), pdfUpload("titulo"))
		if err != nil {
			t.Fatalf("upload: %v", err)
		}
		f.confirmer.answer = false

		removed, err := f.service.RemoveDocument(context.Background(), "1", doc.ID)
		if err != nil || removed {
			t.Fatalf("RemoveDocument = %v, %v", removed, err)
		}
		if _, ok := f.store.contents[doc.ID]; !ok {
			t.Error("content deleted despite declined confirmation")
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		f := newDocumentFixture(t)
		_, err := f.service.RemoveDocument(context.Background(), "1", "doc-missing")
		if !errs.Is(err, errs.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if len(f.confirmer.questions) != 0 {
			t.Error("confirmation asked for an unknown document")
		}
	})

	t.Run("re-upload after delete", func(t *testing.T) {
		f := newDocumentFixture(t)
		ctx := context.Background()
		doc, err := f.service.UploadDocument(ctx, pdfUpload("catastro"))
		if err != nil {
			t.Fatalf("upload: %v", err)
		}
		if _, err := f.service.RemoveDocument(ctx, "1", doc.ID); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if _, err := f.service.UploadDocument(ctx, pdfUpload("catastro")); err != nil {
			t.Fatalf("re-upload: %v", err)
		}
	})
}

func TestDocumentURL_StoreFailureSurfacesUnchanged(t *testing.T) {
	f := newDocumentFixture(t)
	doc, err := f.service.UploadDocument(context.Background(), pdfUpload("titulo"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	f.store.urlErr = errs.New(errs.KindSessionExpired, "pdf service answered 401")

	_, err = f.service.DocumentURL(context.Background(), "1", doc.ID)
	if !errs.Is(err, errs.KindSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
}

var _ primary.DocumentService = (*DocumentServiceImpl)(nil)
