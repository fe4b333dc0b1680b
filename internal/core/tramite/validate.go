package tramite

import (
	"fmt"
	"strings"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/stage"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
)

// Mode selects the rule set applied by Validate.
type Mode int

const (
	// ModeCreate requires the identity selection and only exposes the first stage.
	ModeCreate Mode = iota
	// ModeUpdate allows any subset of stages.
	ModeUpdate
)

// Validate returns one error per violated field. Errors are data: the caller
// renders all of them at once.
// Rules:
// - nombre_beneficiario is non-empty
// - cedula_beneficiario has exactly ten digits
// - on create, the four identity fields are set and no stage beyond the first is set
// - stage dates follow the pipeline order (see stage.Validate)
// - observation keys name an observation field
func Validate(t Tramite, mode Mode) []errs.FieldError {
	var out []errs.FieldError

	if mode == ModeCreate {
		for _, f := range t.Identity.Missing() {
			out = append(out, errs.FieldError{Field: f, Message: "is required"})
		}
	}
	if strings.TrimSpace(t.NombreBeneficiario) == "" {
		out = append(out, errs.FieldError{Field: FieldNombre, Message: "is required"})
	}
	if fe, ok := CheckCedula(t.CedulaBeneficiario); !ok {
		out = append(out, fe)
	}

	if mode == ModeCreate {
		for _, s := range stage.Schema() {
			if !s.HasPredecessor() {
				continue
			}
			if _, set := t.Dates.Get(s); set {
				out = append(out, errs.FieldError{Field: s.Field, Message: "cannot be set when creating a trámite"})
			}
		}
	}
	for _, field := range sortedKeys(t.Dates) {
		if _, ok := stage.Lookup(field); !ok {
			out = append(out, errs.FieldError{Field: field, Message: "is not a stage field"})
		}
	}
	out = append(out, stage.Validate(t.Dates)...)

	for _, name := range sortedKeys(t.Observaciones) {
		if !stage.IsObservationField(name) {
			out = append(out, errs.FieldError{Field: name, Message: "is not an observation field"})
		}
	}
	return out
}

// ValidateUpdate validates the merged record of an edit against the stored one.
// On top of Validate in ModeUpdate it requires the identity to stay complete
// when the edit touched it, and refuses edits that move the estado backward.
func ValidateUpdate(before, after Tramite, identityChanged bool) []errs.FieldError {
	out := Validate(after, ModeUpdate)
	if identityChanged {
		for _, f := range after.Identity.Missing() {
			out = append(out, errs.FieldError{Field: f, Message: "is required"})
		}
	}
	from, to := before.DerivedEstado(), after.DerivedEstado()
	if r := stage.CanTransition(stage.TransitionContext{From: from, To: to}); !r.Allowed {
		out = append(out, errs.FieldError{Field: FieldEstado, Message: r.Reason})
	}
	return out
}

// ValidationError wraps field errors in the validation kind, or returns nil when there are none.
func ValidationError(fields []errs.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return errs.Validation(fields)
}

// FieldError builds a field error with a formatted message.
func FieldError(field, format string, args ...any) errs.FieldError {
	return errs.FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}
