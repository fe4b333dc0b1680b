package tramite

import (
	"testing"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/stage"
)

func strPtr(s string) *string { return &s }

func TestApply_PartialMerge(t *testing.T) {
	base := validNew()
	base.Observaciones = map[string]string{"observaciones_proforma": "pendiente"}

	var p Patch
	p.SetDate("fecha_revision_titulo", day("2024-03-02"))
	p.SetObservation("observaciones_liquidacion_impuesto", "sin novedad")
	p.SetObservation("observaciones_proforma", "")
	p.NombreBeneficiario = strPtr("María José Pérez")

	got, fes := Apply(base, p)
	if len(fes) != 0 {
		t.Fatalf("unexpected errors: %v", fes)
	}
	if got.NombreBeneficiario != "María José Pérez" {
		t.Errorf("NombreBeneficiario = %q", got.NombreBeneficiario)
	}
	if got.CedulaBeneficiario != base.CedulaBeneficiario {
		t.Errorf("untouched cedula changed to %q", got.CedulaBeneficiario)
	}
	if _, ok := got.Dates["fecha_asignacion"]; !ok {
		t.Error("untouched stage was dropped")
	}
	if !got.Dates["fecha_revision_titulo"].Equal(day("2024-03-02")) {
		t.Errorf("fecha_revision_titulo = %v", got.Dates["fecha_revision_titulo"])
	}
	if got.Observaciones["observaciones_liquidacion_impuesto"] != "sin novedad" {
		t.Error("observation not set")
	}
	if _, ok := got.Observaciones["observaciones_proforma"]; ok {
		t.Error("observation not cleared")
	}
	if _, ok := base.Dates["fecha_revision_titulo"]; ok {
		t.Error("Apply mutated its input")
	}
}

func TestApply_ClearDate(t *testing.T) {
	base := validNew()
	base.Dates = allDates()

	var p Patch
	p.ClearDate("fecha_catastro")
	got, fes := Apply(base, p)
	if len(fes) != 0 {
		t.Fatalf("unexpected errors: %v", fes)
	}
	if _, ok := got.Dates["fecha_catastro"]; ok {
		t.Error("date not cleared")
	}
	if got.DerivedEstado() != stage.EstadoCatastro {
		t.Errorf("DerivedEstado() = %q, want CATASTRO", got.DerivedEstado())
	}
}

func TestApply_UnknownFields(t *testing.T) {
	var p Patch
	p.SetDate("fecha_entrega", day("2024-01-01"))
	p.SetObservation("observaciones_asignacion", "x")

	_, fes := Apply(validNew(), p)
	got := fieldNames(fes)
	if len(got) != 2 || got[0] != "fecha_entrega" || got[1] != "observaciones_asignacion" {
		t.Errorf("fields = %v", got)
	}
}

func TestPatch_ChangesIdentity(t *testing.T) {
	base := validNew()
	tests := []struct {
		name  string
		patch Patch
		want  bool
	}{
		{name: "empty", patch: Patch{}, want: false},
		{name: "same cliente", patch: Patch{ClienteID: strPtr("1")}, want: false},
		{name: "new cliente", patch: Patch{ClienteID: strPtr("2")}, want: true},
		{name: "new canton", patch: Patch{CantonID: strPtr("8")}, want: true},
		{name: "beneficiary only", patch: Patch{NombreBeneficiario: strPtr("x")}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.patch.ChangesIdentity(base); got != tt.want {
				t.Errorf("ChangesIdentity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPatch_IsEmpty(t *testing.T) {
	if !(Patch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	var p Patch
	p.ClearDate("fecha_catastro")
	if p.IsEmpty() {
		t.Error("patch with a cleared date is not empty")
	}
}
