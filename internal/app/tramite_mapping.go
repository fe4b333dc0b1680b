package app

import (
	"context"
	"log/slog"
	"time"

	coredocument "github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/document"
	corestage "github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/stage"
	coretramite "github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/tramite"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// recordToTramite rebuilds the aggregate from a stored record. Duplicate
// singleton documents reported by the backend are logged and skipped.
func recordToTramite(ctx context.Context, logger *slog.Logger, r *secondary.TramiteRecord) coretramite.Tramite {
	t := coretramite.Tramite{
		ID: r.ID,
		Identity: coretramite.Identity{
			ClienteID:      r.ClienteID,
			InmobiliariaID: r.InmobiliariaID,
			ProyectoID:     r.ProyectoID,
			CantonID:       r.CantonID,
		},
		NombreBeneficiario: r.NombreBeneficiario,
		CedulaBeneficiario: r.CedulaBeneficiario,
		Dates:              corestage.Dates{},
		Observaciones:      map[string]string{},
		Estado:             corestage.Estado(r.Estado),
	}
	for k, v := range r.Dates {
		t.Dates[k] = corestage.Day(v)
	}
	for k, v := range r.Observaciones {
		t.Observaciones[k] = v
	}
	for _, d := range r.Documents {
		if err := t.Documents.Hold(coredocument.Kind(d.Kind), d.ID); err != nil {
			logger.WarnContext(ctx, "skipping document the slot model cannot hold",
				"tramite_id", r.ID, "document_id", d.ID, "kind", d.Kind, "error", err)
		}
	}
	if ts, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		t.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, r.UpdatedAt); err == nil {
		t.UpdatedAt = ts
	}
	return t
}

// tramiteToRecord converts the aggregate to a record; documents are not
// part of the write payload.
func tramiteToRecord(t coretramite.Tramite) *secondary.TramiteRecord {
	r := &secondary.TramiteRecord{
		ID:                 t.ID,
		ClienteID:          t.ClienteID,
		InmobiliariaID:     t.InmobiliariaID,
		ProyectoID:         t.ProyectoID,
		CantonID:           t.CantonID,
		NombreBeneficiario: t.NombreBeneficiario,
		CedulaBeneficiario: t.CedulaBeneficiario,
		Dates:              make(map[string]time.Time, len(t.Dates)),
		Observaciones:      make(map[string]string, len(t.Observaciones)),
		Estado:             string(t.DerivedEstado()),
	}
	for k, v := range t.Dates {
		r.Dates[k] = v
	}
	for k, v := range t.Observaciones {
		r.Observaciones[k] = v
	}
	return r
}

func tramiteToView(t coretramite.Tramite, createdAt, updatedAt string) *primary.Tramite {
	v := &primary.Tramite{
		ID:                 t.ID,
		ClienteID:          t.ClienteID,
		InmobiliariaID:     t.InmobiliariaID,
		ProyectoID:         t.ProyectoID,
		CantonID:           t.CantonID,
		NombreBeneficiario: t.NombreBeneficiario,
		CedulaBeneficiario: t.CedulaBeneficiario,
		Dates:              make(map[string]time.Time, len(t.Dates)),
		Observaciones:      make(map[string]string, len(t.Observaciones)),
		Estado:             string(t.Estado),
		ComputedEstado:     string(t.DerivedEstado()),
		Documents: primary.DocumentSlots{
			Catastro: t.Documents.Catastro,
			Titulo:   t.Documents.Titulo,
			Facturas: append([]string(nil), t.Documents.Facturas...),
		},
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	for k, d := range t.Dates {
		v.Dates[k] = d
	}
	for k, o := range t.Observaciones {
		v.Observaciones[k] = o
	}
	return v
}

// requestToPatch replays the request on an editing session over the stored
// record. Identity selections go in hierarchy order so a new parent clears
// the dependent selections the request leaves out.
func requestToPatch(before coretramite.Tramite, req primary.UpdateTramiteRequest) coretramite.Patch {
	f := coretramite.NewForm(&before)
	if req.ClienteID != nil {
		f.SelectCliente(*req.ClienteID)
	}
	if req.InmobiliariaID != nil {
		f.SelectInmobiliaria(*req.InmobiliariaID)
	}
	if req.CantonID != nil {
		f.SelectCanton(*req.CantonID)
	}
	if req.ProyectoID != nil {
		f.SelectProyecto(*req.ProyectoID)
	}
	if req.NombreBeneficiario != nil {
		f.SetNombre(*req.NombreBeneficiario)
	}
	if req.CedulaBeneficiario != nil {
		f.SetCedula(*req.CedulaBeneficiario)
	}

	p := f.Patch()
	for field, d := range req.Dates {
		if d == nil {
			p.ClearDate(field)
			continue
		}
		p.SetDate(field, *d)
	}
	for field, o := range req.Observaciones {
		if o == nil {
			p.SetObservation(field, "")
			continue
		}
		p.SetObservation(field, *o)
	}
	return p
}

func stageStatusToView(st corestage.StageStatus) *primary.StageStatus {
	return &primary.StageStatus{
		Index:       int(st.Stage.Index),
		Field:       st.Stage.Field,
		Label:       st.Stage.Label,
		Observation: st.Stage.Observation,
		Phase:       string(st.Stage.Phase),
		Unlocked:    st.Unlocked,
		Completed:   st.Completed,
		Date:        st.Date,
		MinDate:     st.MinDate,
	}
}

func documentRecordToView(d *secondary.DocumentRecord) *primary.Document {
	return &primary.Document{
		ID:          d.ID,
		TramiteID:   d.TramiteID,
		Kind:        d.Kind,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Size:        d.Size,
		CreatedAt:   d.CreatedAt,
	}
}
