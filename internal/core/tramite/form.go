package tramite

import (
	"time"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/stage"
)

// Form is one editing session over a trámite. It tracks the identity
// selection, entered values and which stage fields the user touched.
// Selecting a parent entity resets the dependent selections:
//   - a new cliente clears inmobiliaria, proyecto, cantón and every stage touched flag
//   - a new inmobiliaria clears proyecto
//   - a new cantón clears proyecto
//
// A cleared selection counts as touched, so Patch carries it as an empty
// value and the merged record has to be completed before it validates.
// Entered stage values are kept on reset; only the stage touched flags go.
type Form struct {
	identity      Identity
	nombre        string
	cedula        string
	dates         stage.Dates
	observaciones map[string]string
	touched       map[string]bool
}

// NewForm starts an editing session, optionally from a loaded record.
func NewForm(from *Tramite) *Form {
	f := &Form{
		dates:         stage.Dates{},
		observaciones: map[string]string{},
		touched:       map[string]bool{},
	}
	if from != nil {
		f.identity = from.Identity
		f.nombre = from.NombreBeneficiario
		f.cedula = from.CedulaBeneficiario
		f.dates = from.Dates.Clone()
		for k, v := range from.Observaciones {
			f.observaciones[k] = v
		}
	}
	return f
}

// Identity returns the current selection.
func (f *Form) Identity() Identity { return f.identity }

// SelectCliente sets the cliente. Choosing a different cliente resets the
// dependent selections and the stage touched flags.
func (f *Form) SelectCliente(id string) {
	f.touched[FieldCliente] = true
	if id == f.identity.ClienteID {
		return
	}
	f.identity = Identity{ClienteID: id}
	for _, s := range stage.Schema() {
		delete(f.touched, s.Field)
	}
	f.touched[FieldInmobiliaria] = true
	f.touched[FieldProyecto] = true
	f.touched[FieldCanton] = true
}

// SelectInmobiliaria sets the inmobiliaria; a different one clears the proyecto.
func (f *Form) SelectInmobiliaria(id string) {
	f.touched[FieldInmobiliaria] = true
	if id == f.identity.InmobiliariaID {
		return
	}
	f.identity.InmobiliariaID = id
	f.clearProyecto()
}

// SelectCanton sets the cantón; a different one clears the proyecto.
func (f *Form) SelectCanton(id string) {
	f.touched[FieldCanton] = true
	if id == f.identity.CantonID {
		return
	}
	f.identity.CantonID = id
	f.clearProyecto()
}

// SelectProyecto sets the proyecto.
func (f *Form) SelectProyecto(id string) {
	f.touched[FieldProyecto] = true
	f.identity.ProyectoID = id
}

func (f *Form) clearProyecto() {
	f.identity.ProyectoID = ""
	f.touched[FieldProyecto] = true
}

// SetNombre sets the beneficiary name.
func (f *Form) SetNombre(nombre string) {
	f.nombre = nombre
	f.touched[FieldNombre] = true
}

// SetCedula sets the beneficiary cédula.
func (f *Form) SetCedula(cedula string) {
	f.cedula = cedula
	f.touched[FieldCedula] = true
}

// SetDate enters a stage date when the stage tab is actionable.
func (f *Form) SetDate(field string, d time.Time) stage.GuardResult {
	r := stage.CanSetStage(stage.SetStageContext{Field: field, Date: d, Dates: f.dates})
	if !r.Allowed {
		return r
	}
	f.dates[field] = stage.Day(d)
	f.touched[field] = true
	return r
}

// SetObservation enters the free-text observation of a stage.
func (f *Form) SetObservation(field, text string) {
	f.observaciones[field] = text
	f.touched[field] = true
}

// Touched reports whether the user edited field in this session.
func (f *Form) Touched(field string) bool {
	return f.touched[field]
}

// Tramite returns the record as currently entered.
func (f *Form) Tramite() Tramite {
	t := Tramite{
		Identity:           f.identity,
		NombreBeneficiario: f.nombre,
		CedulaBeneficiario: f.cedula,
		Dates:              f.dates.Clone(),
		Observaciones:      make(map[string]string, len(f.observaciones)),
	}
	for k, v := range f.observaciones {
		t.Observaciones[k] = v
	}
	return t
}

// Patch returns the touched fields as a partial edit.
func (f *Form) Patch() Patch {
	var p Patch
	str := func(field, v string) *string {
		if !f.touched[field] {
			return nil
		}
		return &v
	}
	p.ClienteID = str(FieldCliente, f.identity.ClienteID)
	p.InmobiliariaID = str(FieldInmobiliaria, f.identity.InmobiliariaID)
	p.ProyectoID = str(FieldProyecto, f.identity.ProyectoID)
	p.CantonID = str(FieldCanton, f.identity.CantonID)
	p.NombreBeneficiario = str(FieldNombre, f.nombre)
	p.CedulaBeneficiario = str(FieldCedula, f.cedula)
	for _, s := range stage.Schema() {
		if !f.touched[s.Field] {
			continue
		}
		if d, ok := f.dates.Get(s); ok {
			p.SetDate(s.Field, d)
		}
	}
	for _, name := range stage.ObservationFields() {
		if f.touched[name] {
			p.SetObservation(name, f.observaciones[name])
		}
	}
	return p
}
