package secondary

import (
	"context"
	"io"
)

// DocumentStore defines the secondary port for the PDF service.
type DocumentStore interface {
	// Upload stores the content and returns the new document's record.
	Upload(ctx context.Context, req DocumentUpload) (*DocumentRecord, error)

	// ResolveURL returns a URL the document can be downloaded from.
	ResolveURL(ctx context.Context, id string) (string, error)

	// Delete removes the stored content.
	Delete(ctx context.Context, id string) error
}

// DocumentUpload contains the content and metadata of an upload.
type DocumentUpload struct {
	TramiteID   string
	Kind        string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// DocumentRecord represents a stored document.
type DocumentRecord struct {
	ID          string
	TramiteID   string
	Kind        string // catastro, titulo or factura
	FileName    string
	ContentType string
	Size        int64
	CreatedAt   string
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}
