// Package tramite contains the pure business logic for the trámite aggregate.
// This is part of the Functional Core - no I/O, only validation, partial
// updates and the cascading form model.
package tramite

import (
	"fmt"
	"strings"
	"time"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/document"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/stage"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
)

// Field names of the non-stage attributes.
const (
	FieldCliente      = "cliente_id"
	FieldInmobiliaria = "inmobiliaria_id"
	FieldProyecto     = "proyecto_id"
	FieldCanton       = "canton_id"
	FieldNombre       = "nombre_beneficiario"
	FieldCedula       = "cedula_beneficiario"
	FieldEstado       = "estado"
)

// CedulaLength is the exact number of digits of a cédula.
const CedulaLength = 10

// Identity is the hierarchical selection cliente → inmobiliaria → proyecto, scoped by cantón.
type Identity struct {
	ClienteID      string
	InmobiliariaID string
	ProyectoID     string
	CantonID       string
}

// Tramite is the procedure record tracked through the stage pipeline.
type Tramite struct {
	ID string
	Identity
	NombreBeneficiario string
	CedulaBeneficiario string
	Dates              stage.Dates
	Observaciones      map[string]string
	Estado             stage.Estado // as reported by the backend
	Documents          document.Slots
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DerivedEstado projects the estado from the stage dates.
func (t Tramite) DerivedEstado() stage.Estado {
	return stage.DeriveEstado(t.Dates)
}

// EstadoMismatch reports whether the backend estado disagrees with the projection.
// An unreported estado is not a mismatch.
func (t Tramite) EstadoMismatch() bool {
	return t.Estado != "" && t.Estado != t.DerivedEstado()
}

// Clone returns a copy that shares no maps or slices with t.
func (t Tramite) Clone() Tramite {
	out := t
	out.Dates = t.Dates.Clone()
	out.Observaciones = make(map[string]string, len(t.Observaciones))
	for k, v := range t.Observaciones {
		out.Observaciones[k] = v
	}
	out.Documents.Facturas = append([]string(nil), t.Documents.Facturas...)
	return out
}

// CheckCedula validates a cédula: exactly ten ASCII digits.
// It returns false and the field error on violation.
func CheckCedula(v string) (errs.FieldError, bool) {
	if v == "" {
		return errs.FieldError{Field: FieldCedula, Message: "is required"}, false
	}
	if len(v) != CedulaLength {
		return errs.FieldError{Field: FieldCedula, Message: fmt.Sprintf("must have exactly %d digits (got %d)", CedulaLength, len(v))}, false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return errs.FieldError{Field: FieldCedula, Message: "must contain digits only"}, false
		}
	}
	return errs.FieldError{}, true
}

// fields pairs each identity field name with its value, in hierarchy order.
func (id Identity) fields() []struct{ name, value string } {
	return []struct{ name, value string }{
		{FieldCliente, id.ClienteID},
		{FieldInmobiliaria, id.InmobiliariaID},
		{FieldProyecto, id.ProyectoID},
		{FieldCanton, id.CantonID},
	}
}

// Missing lists the identity fields that are unset.
func (id Identity) Missing() []string {
	var out []string
	for _, f := range id.fields() {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}
