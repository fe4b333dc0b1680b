package document

import (
	"testing"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
)

func TestCanUpload(t *testing.T) {
	tests := []struct {
		name        string
		ctx         UploadContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "can upload catastro into empty slot",
			ctx:         UploadContext{TramiteID: "12", Kind: KindCatastro},
			wantAllowed: true,
		},
		{
			name:        "cannot upload second catastro",
			ctx:         UploadContext{TramiteID: "12", Kind: KindCatastro, Slots: Slots{Catastro: "doc-1"}},
			wantAllowed: false,
			wantReason:  "trámite 12 already has a catastro document (doc-1); delete it before uploading a new one",
		},
		{
			name:        "cannot upload second titulo",
			ctx:         UploadContext{TramiteID: "12", Kind: KindTitulo, Slots: Slots{Titulo: "doc-2"}},
			wantAllowed: false,
			wantReason:  "trámite 12 already has a titulo document (doc-2); delete it before uploading a new one",
		},
		{
			name:        "titulo allowed when only catastro held",
			ctx:         UploadContext{TramiteID: "12", Kind: KindTitulo, Slots: Slots{Catastro: "doc-1"}},
			wantAllowed: true,
		},
		{
			name:        "factura always allowed",
			ctx:         UploadContext{TramiteID: "12", Kind: KindFactura, Slots: Slots{Facturas: []string{"f1", "f2"}}},
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanUpload(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed {
				if result.Reason != tt.wantReason {
					t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
				}
				if !errs.Is(result.Error(), errs.KindConflict) {
					t.Errorf("Error() kind = %q, want conflict", errs.KindOf(result.Error()))
				}
			}
		})
	}
}

func TestSlots_HoldSingletonConflict(t *testing.T) {
	var s Slots
	if err := s.Hold(KindCatastro, "c1"); err != nil {
		t.Fatalf("first catastro: %v", err)
	}
	err := s.Hold(KindCatastro, "c2")
	if !errs.Is(err, errs.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if s.Catastro != "c1" {
		t.Errorf("catastro slot changed to %q", s.Catastro)
	}
}

func TestSlots_FacturasIndependent(t *testing.T) {
	var s Slots
	for _, id := range []string{"f1", "f2", "f3"} {
		if err := s.Hold(KindFactura, id); err != nil {
			t.Fatalf("Hold(%s): %v", id, err)
		}
	}
	for _, id := range []string{"f1", "f2", "f3"} {
		if k, ok := s.KindOf(id); !ok || k != KindFactura {
			t.Errorf("KindOf(%s) = %q, %v", id, k, ok)
		}
	}

	if _, err := s.Remove("f2"); err != nil {
		t.Fatalf("Remove(f2): %v", err)
	}
	if len(s.Facturas) != 2 || s.Facturas[0] != "f1" || s.Facturas[1] != "f3" {
		t.Errorf("Facturas = %v, want [f1 f3]", s.Facturas)
	}
	if _, ok := s.KindOf("f2"); ok {
		t.Error("f2 still held after removal")
	}
}

func TestSlots_RemoveUnknown(t *testing.T) {
	s := Slots{Catastro: "c1"}
	_, err := s.Remove("nope")
	if !errs.Is(err, errs.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSlots_RemoveThenReupload(t *testing.T) {
	s := Slots{Titulo: "t1"}
	k, err := s.Remove("t1")
	if err != nil || k != KindTitulo {
		t.Fatalf("Remove(t1) = %q, %v", k, err)
	}
	if err := s.Hold(KindTitulo, "t2"); err != nil {
		t.Fatalf("re-upload after delete: %v", err)
	}
	if s.Titulo != "t2" {
		t.Errorf("Titulo = %q, want t2", s.Titulo)
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"catastro", "titulo", "factura"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q): %v", s, err)
		}
	}
	if _, err := ParseKind("escritura"); !errs.Is(err, errs.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
