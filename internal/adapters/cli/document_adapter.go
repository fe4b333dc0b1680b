package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
)

// DocumentAdapter translates CLI operations to DocumentService calls.
type DocumentAdapter struct {
	service primary.DocumentService
	out     io.Writer
}

// NewDocumentAdapter creates a new DocumentAdapter with the given service.
func NewDocumentAdapter(service primary.DocumentService, out io.Writer) *DocumentAdapter {
	return &DocumentAdapter{
		service: service,
		out:     out,
	}
}

// Upload sends the file at path as a document of kind.
func (a *DocumentAdapter) Upload(ctx context.Context, tramiteID, kind, path string) (*primary.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Validation([]errs.FieldError{{Field: "file", Message: fmt.Sprintf("cannot open %s: %v", path, err)}})
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errs.Validation([]errs.FieldError{{Field: "file", Message: fmt.Sprintf("cannot stat %s: %v", path, err)}})
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc, err := a.service.UploadDocument(ctx, primary.UploadDocumentRequest{
		TramiteID:   tramiteID,
		Kind:        kind,
		FileName:    filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Body:        f,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Uploaded %s as %s %s on trámite %s\n", doc.FileName, doc.Kind, doc.ID, tramiteID)
	return doc, nil
}

// Remove deletes a document after confirmation.
func (a *DocumentAdapter) Remove(ctx context.Context, tramiteID, documentID string) error {
	removed, err := a.service.RemoveDocument(ctx, tramiteID, documentID)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	fmt.Fprintf(a.out, "✓ Removed document %s from trámite %s\n", documentID, tramiteID)
	return nil
}

// URL prints a download URL for a document.
func (a *DocumentAdapter) URL(ctx context.Context, tramiteID, documentID string) error {
	u, err := a.service.DocumentURL(ctx, tramiteID, documentID)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, u)
	return nil
}

// List prints the documents of a trámite.
func (a *DocumentAdapter) List(ctx context.Context, tramiteID string) error {
	docs, err := a.service.ListDocuments(ctx, tramiteID)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(a.out, "No documents")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-38s %-9s %-10s %s\n", "ID", "KIND", "SIZE", "FILE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────")
	for _, d := range docs {
		fmt.Fprintf(a.out, "%-38s %-9s %-10s %s\n", d.ID, d.Kind, humanSize(d.Size), d.FileName)
	}
	fmt.Fprintln(a.out)
	return nil
}

func humanSize(n int64) string {
	switch {
	case n <= 0:
		return "-"
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	}
}
