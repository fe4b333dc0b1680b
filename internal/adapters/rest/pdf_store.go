package rest

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// PDFStore implements secondary.DocumentStore against the PDF service.
// Uploads are multipart forms carrying the trámite id and a one-hot kind flag.
type PDFStore struct {
	client *Client
}

// NewPDFStore creates a PDF service document store.
func NewPDFStore(client *Client) *PDFStore {
	return &PDFStore{client: client}
}

// Upload streams the content to POST /pdf/upload.
func (s *PDFStore) Upload(ctx context.Context, req secondary.DocumentUpload) (*secondary.DocumentRecord, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadForm(mw, req))
	}()

	var out documentDTO
	if err := s.client.Send(ctx, http.MethodPost, "pdf/upload", pr, mw.FormDataContentType(), &out); err != nil {
		pr.CloseWithError(err)
		return nil, err
	}
	if out.ID == "" {
		return nil, errs.New(errs.KindTransport, "pdf service returned no document id")
	}

	rec := out.record()
	if rec.TramiteID == "" {
		rec.TramiteID = req.TramiteID
	}
	if rec.Kind == "" {
		rec.Kind = req.Kind
	}
	if rec.FileName == "" {
		rec.FileName = req.FileName
	}
	if rec.ContentType == "" {
		rec.ContentType = req.ContentType
	}
	if rec.Size == 0 {
		rec.Size = req.Size
	}
	return rec, nil
}

func writeUploadForm(mw *multipart.Writer, req secondary.DocumentUpload) error {
	fields := [][2]string{
		{"tramite_id", req.TramiteID},
		{"is_catastro", strconv.FormatBool(req.Kind == "catastro")},
		{"is_titulo", strconv.FormatBool(req.Kind == "titulo")},
		{"is_factura", strconv.FormatBool(req.Kind == "factura")},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, req.FileName))
	h.Set("Content-Type", req.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, req.Body); err != nil {
		return err
	}
	return mw.Close()
}

// ResolveURL asks the PDF service for a download URL.
func (s *PDFStore) ResolveURL(ctx context.Context, id string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := s.client.Send(ctx, http.MethodGet, "pdf/"+url.PathEscape(id)+"/url", nil, "", &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", errs.Newf(errs.KindTransport, "pdf service returned no url for %s", id)
	}
	return out.URL, nil
}

// Delete removes the stored content.
func (s *PDFStore) Delete(ctx context.Context, id string) error {
	return s.client.Send(ctx, http.MethodDelete, "pdf/"+url.PathEscape(id), nil, "", nil)
}

var _ secondary.DocumentStore = (*PDFStore)(nil)
