package tramite

import (
	"maps"
	"slices"
	"time"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/stage"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
)

// Patch is a partial edit. A nil pointer leaves the attribute unchanged.
// In Dates a nil value clears the stage; in Observaciones a nil value
// clears the observation.
type Patch struct {
	ClienteID          *string
	InmobiliariaID     *string
	ProyectoID         *string
	CantonID           *string
	NombreBeneficiario *string
	CedulaBeneficiario *string
	Dates              map[string]*time.Time
	Observaciones      map[string]*string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.ClienteID == nil && p.InmobiliariaID == nil && p.ProyectoID == nil && p.CantonID == nil &&
		p.NombreBeneficiario == nil && p.CedulaBeneficiario == nil &&
		len(p.Dates) == 0 && len(p.Observaciones) == 0
}

// ChangesIdentity reports whether applying p to t alters an identity field.
func (p Patch) ChangesIdentity(t Tramite) bool {
	differs := func(v *string, cur string) bool { return v != nil && *v != cur }
	return differs(p.ClienteID, t.ClienteID) ||
		differs(p.InmobiliariaID, t.InmobiliariaID) ||
		differs(p.ProyectoID, t.ProyectoID) ||
		differs(p.CantonID, t.CantonID)
}

// SetDate records a stage date in the patch.
func (p *Patch) SetDate(field string, d time.Time) {
	if p.Dates == nil {
		p.Dates = make(map[string]*time.Time)
	}
	d = stage.Day(d)
	p.Dates[field] = &d
}

// ClearDate records the removal of a stage date.
func (p *Patch) ClearDate(field string) {
	if p.Dates == nil {
		p.Dates = make(map[string]*time.Time)
	}
	p.Dates[field] = nil
}

// SetObservation records an observation in the patch. An empty text clears it.
func (p *Patch) SetObservation(field, text string) {
	if p.Observaciones == nil {
		p.Observaciones = make(map[string]*string)
	}
	if text == "" {
		p.Observaciones[field] = nil
		return
	}
	p.Observaciones[field] = &text
}

// Apply merges p into a copy of t. Unknown stage or observation fields are
// returned as field errors and leave the copy untouched for that field.
// Stored stage values are never cleared implicitly.
func Apply(t Tramite, p Patch) (Tramite, []errs.FieldError) {
	out := t.Clone()
	var fes []errs.FieldError

	assign := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	assign(&out.ClienteID, p.ClienteID)
	assign(&out.InmobiliariaID, p.InmobiliariaID)
	assign(&out.ProyectoID, p.ProyectoID)
	assign(&out.CantonID, p.CantonID)
	assign(&out.NombreBeneficiario, p.NombreBeneficiario)
	assign(&out.CedulaBeneficiario, p.CedulaBeneficiario)

	for _, field := range sortedKeys(p.Dates) {
		if _, ok := stage.Lookup(field); !ok {
			fes = append(fes, errs.FieldError{Field: field, Message: "is not a stage field"})
			continue
		}
		if v := p.Dates[field]; v != nil {
			out.Dates[field] = stage.Day(*v)
		} else {
			delete(out.Dates, field)
		}
	}
	for _, field := range sortedKeys(p.Observaciones) {
		if !stage.IsObservationField(field) {
			fes = append(fes, errs.FieldError{Field: field, Message: "is not an observation field"})
			continue
		}
		if v := p.Observaciones[field]; v != nil {
			out.Observaciones[field] = *v
		} else {
			delete(out.Observaciones, field)
		}
	}
	return out, fes
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	return slices.Sorted(maps.Keys(m))
}
