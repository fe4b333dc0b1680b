// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// PDFStore implements secondary.DocumentStore on a local directory.
// Each document is one file named after its generated id.
type PDFStore struct {
	basePath string
}

// NewPDFStore creates a filesystem document store rooted at basePath.
// If basePath is empty, defaults to ~/.escrituras/documents.
func NewPDFStore(basePath string) (*PDFStore, error) {
	if basePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		basePath = filepath.Join(home, ".escrituras", "documents")
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", basePath, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}
	return &PDFStore{basePath: abs}, nil
}

// BasePath returns the directory documents are written to.
func (s *PDFStore) BasePath() string {
	return s.basePath
}

func (s *PDFStore) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", errs.Newf(errs.KindNotFound, "document %s not found", id)
	}
	return filepath.Join(s.basePath, id+".pdf"), nil
}

// Upload writes the content to a new file. A partial file is removed on failure.
func (s *PDFStore) Upload(ctx context.Context, req secondary.DocumentUpload) (*secondary.DocumentRecord, error) {
	id := uuid.NewString()
	target, _ := s.path(id)

	tmp, err := os.CreateTemp(s.basePath, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create document file: %w", err)
	}
	n, err := io.Copy(tmp, req.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		err = os.Rename(tmp.Name(), target)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	return &secondary.DocumentRecord{
		ID:          id,
		TramiteID:   req.TramiteID,
		Kind:        req.Kind,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        n,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// ResolveURL returns a file:// URL for the stored document.
func (s *PDFStore) ResolveURL(ctx context.Context, id string) (string, error) {
	p, err := s.path(id)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errs.Newf(errs.KindNotFound, "document %s not found", id)
		}
		return "", fmt.Errorf("failed to stat document: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return u.String(), nil
}

// Delete removes the stored document.
func (s *PDFStore) Delete(ctx context.Context, id string) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errs.Newf(errs.KindNotFound, "document %s not found", id)
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

var _ secondary.DocumentStore = (*PDFStore)(nil)
