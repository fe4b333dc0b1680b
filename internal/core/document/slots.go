// Package document contains the pure business logic for the document slots of a trámite.
// Guards are pure functions that evaluate preconditions without side effects.
package document

import (
	"fmt"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
)

// Kind is the document slot a PDF is attached to. It is fixed at upload time.
type Kind string

const (
	KindCatastro Kind = "catastro"
	KindTitulo   Kind = "titulo"
	KindFactura  Kind = "factura"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCatastro, KindTitulo, KindFactura:
		return Kind(s), nil
	default:
		return "", errs.Newf(errs.KindValidation, "unknown document kind %q (expected catastro, titulo or factura)", s)
	}
}

// IsSingleton reports whether at most one document of this kind may be attached.
func (k Kind) IsSingleton() bool {
	return k == KindCatastro || k == KindTitulo
}

// Slots holds the document ids of a trámite: singleton catastro and título
// slots and an ordered factura collection (upload order).
type Slots struct {
	Catastro string
	Titulo   string
	Facturas []string
}

// UploadContext provides context for upload guards.
type UploadContext struct {
	TramiteID string
	Kind      Kind
	Slots     Slots
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to a conflict error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return errs.New(errs.KindConflict, r.Reason)
}

// CanUpload evaluates whether a document of the given kind may be uploaded.
// Rules:
// - catastro and título slots hold at most one document
// - facturas always append
func CanUpload(ctx UploadContext) GuardResult {
	if !ctx.Kind.IsSingleton() {
		return GuardResult{Allowed: true}
	}
	if held := ctx.Slots.held(ctx.Kind); held != "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("trámite %s already has a %s document (%s); delete it before uploading a new one", ctx.TramiteID, ctx.Kind, held),
		}
	}
	return GuardResult{Allowed: true}
}

func (s Slots) held(k Kind) string {
	switch k {
	case KindCatastro:
		return s.Catastro
	case KindTitulo:
		return s.Titulo
	}
	return ""
}

// Hold stores id in the slot for kind. A singleton slot already holding a
// document yields a conflict.
func (s *Slots) Hold(k Kind, id string) error {
	if id == "" {
		return errs.New(errs.KindValidation, "document id is empty")
	}
	if r := CanUpload(UploadContext{Kind: k, Slots: *s}); !r.Allowed {
		return errs.Newf(errs.KindConflict, "a %s document is already attached (%s)", k, s.held(k))
	}
	switch k {
	case KindCatastro:
		s.Catastro = id
	case KindTitulo:
		s.Titulo = id
	case KindFactura:
		s.Facturas = append(s.Facturas, id)
	default:
		return errs.Newf(errs.KindValidation, "unknown document kind %q", k)
	}
	return nil
}

// KindOf returns the slot holding id.
func (s Slots) KindOf(id string) (Kind, bool) {
	switch {
	case id == "":
		return "", false
	case s.Catastro == id:
		return KindCatastro, true
	case s.Titulo == id:
		return KindTitulo, true
	}
	for _, f := range s.Facturas {
		if f == id {
			return KindFactura, true
		}
	}
	return "", false
}

// Remove removes id from whichever slot holds it.
func (s *Slots) Remove(id string) (Kind, error) {
	k, ok := s.KindOf(id)
	if !ok {
		return "", errs.Newf(errs.KindNotFound, "document %s is not attached", id)
	}
	switch k {
	case KindCatastro:
		s.Catastro = ""
	case KindTitulo:
		s.Titulo = ""
	case KindFactura:
		out := s.Facturas[:0:0]
		for _, f := range s.Facturas {
			if f != id {
				out = append(out, f)
			}
		}
		s.Facturas = out
	}
	return k, nil
}
