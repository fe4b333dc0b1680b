package document

import (
	"testing"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
)

func TestCheckFile(t *testing.T) {
	pdfHead := []byte("%PDF-1.7\n")

	tests := []struct {
		name    string
		file    File
		wantErr bool
	}{
		{name: "small pdf", file: File{Name: "a.pdf", ContentType: "application/pdf", Size: 1024, Head: pdfHead}},
		{name: "exactly 5 MiB", file: File{Name: "a.pdf", ContentType: "application/pdf", Size: MaxFileSize, Head: pdfHead}},
		{name: "content type with params", file: File{Name: "a.pdf", ContentType: "application/PDF; charset=binary", Size: 10}},
		{name: "one byte over limit", file: File{Name: "a.pdf", ContentType: "application/pdf", Size: MaxFileSize + 1}, wantErr: true},
		{name: "png", file: File{Name: "a.png", ContentType: "image/png", Size: 10}, wantErr: true},
		{name: "pdf content type without pdf header", file: File{Name: "a.pdf", ContentType: "application/pdf", Size: 10, Head: []byte("PK\x03\x04")}, wantErr: true},
		{name: "empty", file: File{Name: "a.pdf", ContentType: "application/pdf", Size: 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFile(tt.file)
			if tt.wantErr {
				if !errs.Is(err, errs.KindValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
