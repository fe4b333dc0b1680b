// Package stage contains the pure business logic for the trámite stage pipeline.
// This is part of the Functional Core - no I/O, only pure functions over stage dates.
package stage

import "time"

// Index is the 1-based position of a stage in the pipeline.
type Index int

// Stage describes one lifecycle stage: its date field, its predecessor, the
// optional observation field, and the estado phase it belongs to.
type Stage struct {
	Index       Index
	Field       string
	Label       string
	Predecessor Index  // 0 when the stage has no predecessor
	Observation string // empty when the stage carries no observation field
	Phase       Estado
}

// HasPredecessor reports whether the stage is gated by another stage.
func (s Stage) HasPredecessor() bool {
	return s.Predecessor > 0
}

// Required reports whether the stage date must be present on every record.
func (s Stage) Required() bool {
	return !s.HasPredecessor()
}

// schema is the single source of truth for the pipeline. Adding a stage is one row.
var schema = []Stage{
	{Index: 1, Field: "fecha_asignacion", Label: "Asignación", Phase: EstadoIniciado},
	{Index: 2, Field: "fecha_revision_titulo", Label: "Revisión de título", Predecessor: 1, Phase: EstadoIniciado},
	{Index: 3, Field: "fecha_envio_liquidar_impuesto", Label: "Envío a liquidar impuesto", Predecessor: 2, Observation: "observaciones_liquidacion_impuesto", Phase: EstadoLiquidacionImpuesto},
	{Index: 4, Field: "fecha_envio_aprobacion_proforma", Label: "Envío aprobación proforma", Predecessor: 3, Phase: EstadoAprobacionProforma},
	{Index: 5, Field: "fecha_aprobacion_proforma", Label: "Aprobación proforma", Predecessor: 4, Observation: "observaciones_proforma", Phase: EstadoLiquidacionAprobada},
	{Index: 6, Field: "fecha_firma_matriz_cliente", Label: "Firma de matriz", Predecessor: 5, Phase: EstadoFirmaMatriz},
	{Index: 7, Field: "fecha_retorno_matriz_firmada", Label: "Retorno matriz firmada", Predecessor: 6, Observation: "observaciones_matriz_firmada", Phase: EstadoFirmaMatriz},
	{Index: 8, Field: "fecha_ingreso_registro", Label: "Ingreso a registro", Predecessor: 7, Phase: EstadoInscripcion},
	{Index: 9, Field: "fecha_tentativa_inscripcion", Label: "Tentativa de inscripción", Predecessor: 8, Phase: EstadoInscripcion},
	{Index: 10, Field: "fecha_inscripcion", Label: "Inscripción", Predecessor: 9, Phase: EstadoInscripcion},
	{Index: 11, Field: "fecha_ingreso_catastro", Label: "Ingreso a catastro", Predecessor: 10, Phase: EstadoCatastro},
	{Index: 12, Field: "fecha_tentativa_catastro", Label: "Tentativa de catastro", Predecessor: 11, Phase: EstadoCatastro},
	{Index: 13, Field: "fecha_catastro", Label: "Catastro", Predecessor: 12, Observation: "observaciones_catastro", Phase: EstadoCatastro},
}

var byField = func() map[string]Stage {
	m := make(map[string]Stage, len(schema))
	for _, s := range schema {
		m[s.Field] = s
	}
	return m
}()

// Schema returns the ordered stage list.
func Schema() []Stage {
	out := make([]Stage, len(schema))
	copy(out, schema)
	return out
}

// Count returns the number of stages in the pipeline.
func Count() int {
	return len(schema)
}

// ByIndex returns the stage at index i.
func ByIndex(i Index) (Stage, bool) {
	if i < 1 || int(i) > len(schema) {
		return Stage{}, false
	}
	return schema[i-1], true
}

// Lookup returns the stage owning the given date field.
func Lookup(field string) (Stage, bool) {
	s, ok := byField[field]
	return s, ok
}

// IsObservationField reports whether name is one of the free-text observation fields.
func IsObservationField(name string) bool {
	for _, s := range schema {
		if s.Observation != "" && s.Observation == name {
			return true
		}
	}
	return false
}

// ObservationFields returns the observation field names in stage order.
func ObservationFields() []string {
	var out []string
	for _, s := range schema {
		if s.Observation != "" {
			out = append(out, s.Observation)
		}
	}
	return out
}

// Dates holds the stage dates that are set, keyed by date field.
// A missing key means the stage is unset.
type Dates map[string]time.Time

// Get returns the date of stage s and whether it is set.
func (d Dates) Get(s Stage) (time.Time, bool) {
	if d == nil {
		return time.Time{}, false
	}
	t, ok := d[s.Field]
	return t, ok
}

// Clone returns an independent copy.
func (d Dates) Clone() Dates {
	out := make(Dates, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
