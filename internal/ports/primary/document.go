package primary

import (
	"context"
	"io"
)

// DocumentService defines the primary port for trámite documents.
type DocumentService interface {
	// UploadDocument checks the file locally, then stores it and attaches it to its slot.
	UploadDocument(ctx context.Context, req UploadDocumentRequest) (*Document, error)

	// RemoveDocument asks for confirmation, deletes the document and frees its slot.
	// Returns false when the confirmation was declined.
	RemoveDocument(ctx context.Context, tramiteID, documentID string) (bool, error)

	// DocumentURL resolves a download URL for an attached document.
	DocumentURL(ctx context.Context, tramiteID, documentID string) (string, error)

	// ListDocuments returns the documents attached to a trámite.
	ListDocuments(ctx context.Context, tramiteID string) ([]*Document, error)
}

// UploadDocumentRequest contains parameters for uploading a document.
type UploadDocumentRequest struct {
	TramiteID   string
	Kind        string // catastro, titulo or factura
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Document represents an attached document at the port boundary.
type Document struct {
	ID          string
	TramiteID   string
	Kind        string
	FileName    string
	ContentType string
	Size        int64
	CreatedAt   string
}
