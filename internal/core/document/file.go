package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
)

// MaxFileSize is the largest accepted upload, 5 MiB.
const MaxFileSize = 5 << 20

// ContentTypePDF is the only accepted content type.
const ContentTypePDF = "application/pdf"

var pdfMagic = []byte("%PDF-")

// File describes an upload before it reaches the PDF service.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Head        []byte // first bytes of the content, used to sniff the PDF header
}

// CheckFile rejects anything that is not a PDF of at most MaxFileSize.
// Violations are validation errors and never reach the network.
func CheckFile(f File) error {
	var fields []errs.FieldError
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0]))
	if ct != ContentTypePDF {
		fields = append(fields, errs.FieldError{Field: "file", Message: fmt.Sprintf("content type must be %s (got %q)", ContentTypePDF, f.ContentType)})
	} else if len(f.Head) > 0 && !bytes.HasPrefix(f.Head, pdfMagic) {
		fields = append(fields, errs.FieldError{Field: "file", Message: "content is not a PDF document"})
	}
	if f.Size <= 0 {
		fields = append(fields, errs.FieldError{Field: "file", Message: "file is empty"})
	} else if f.Size > MaxFileSize {
		fields = append(fields, errs.FieldError{Field: "file", Message: fmt.Sprintf("file is %d bytes, limit is %d (5 MiB)", f.Size, MaxFileSize)})
	}
	if len(fields) > 0 {
		return errs.Validation(fields)
	}
	return nil
}
