package httpapi

import (
	"time"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/stage"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
)

type createTramiteBody struct {
	ClienteID          string            `json:"cliente_id"`
	InmobiliariaID     string            `json:"inmobiliaria_id"`
	ProyectoID         string            `json:"proyecto_id"`
	CantonID           string            `json:"canton_id"`
	NombreBeneficiario string            `json:"nombre_beneficiario"`
	CedulaBeneficiario string            `json:"cedula_beneficiario"`
	Fechas             map[string]string `json:"fechas"`
	Observaciones      map[string]string `json:"observaciones"`
}

// updateTramiteBody is a partial edit: absent keys are unchanged, a null
// fecha or observación clears it.
type updateTramiteBody struct {
	ClienteID          *string            `json:"cliente_id"`
	InmobiliariaID     *string            `json:"inmobiliaria_id"`
	ProyectoID         *string            `json:"proyecto_id"`
	CantonID           *string            `json:"canton_id"`
	NombreBeneficiario *string            `json:"nombre_beneficiario"`
	CedulaBeneficiario *string            `json:"cedula_beneficiario"`
	Fechas             map[string]*string `json:"fechas"`
	Observaciones      map[string]*string `json:"observaciones"`
}

func (b createTramiteBody) request() (primary.CreateTramiteRequest, []errs.FieldError) {
	var fes []errs.FieldError
	dates := make(map[string]time.Time, len(b.Fechas))
	for field, v := range b.Fechas {
		d, err := stage.ParseDate(v)
		if err != nil {
			fes = append(fes, errs.FieldError{Field: field, Message: err.Error()})
			continue
		}
		dates[field] = d
	}
	return primary.CreateTramiteRequest{
		ClienteID:          b.ClienteID,
		InmobiliariaID:     b.InmobiliariaID,
		ProyectoID:         b.ProyectoID,
		CantonID:           b.CantonID,
		NombreBeneficiario: b.NombreBeneficiario,
		CedulaBeneficiario: b.CedulaBeneficiario,
		Dates:              dates,
		Observaciones:      b.Observaciones,
	}, fes
}

func (b updateTramiteBody) request(id string) (primary.UpdateTramiteRequest, []errs.FieldError) {
	var fes []errs.FieldError
	var dates map[string]*time.Time
	if len(b.Fechas) > 0 {
		dates = make(map[string]*time.Time, len(b.Fechas))
		for field, v := range b.Fechas {
			if v == nil || *v == "" {
				dates[field] = nil
				continue
			}
			d, err := stage.ParseDate(*v)
			if err != nil {
				fes = append(fes, errs.FieldError{Field: field, Message: err.Error()})
				continue
			}
			dates[field] = &d
		}
	}
	return primary.UpdateTramiteRequest{
		TramiteID:          id,
		ClienteID:          b.ClienteID,
		InmobiliariaID:     b.InmobiliariaID,
		ProyectoID:         b.ProyectoID,
		CantonID:           b.CantonID,
		NombreBeneficiario: b.NombreBeneficiario,
		CedulaBeneficiario: b.CedulaBeneficiario,
		Dates:              dates,
		Observaciones:      b.Observaciones,
	}, fes
}

type documentSlotsJSON struct {
	Catastro *string  `json:"catastro"`
	Titulo   *string  `json:"titulo"`
	Facturas []string `json:"facturas"`
}

type tramiteJSON struct {
	ID                 string            `json:"id"`
	ClienteID          string            `json:"cliente_id"`
	InmobiliariaID     string            `json:"inmobiliaria_id"`
	ProyectoID         string            `json:"proyecto_id"`
	CantonID           string            `json:"canton_id"`
	NombreBeneficiario string            `json:"nombre_beneficiario"`
	CedulaBeneficiario string            `json:"cedula_beneficiario"`
	Fechas             map[string]string `json:"fechas"`
	Observaciones      map[string]string `json:"observaciones"`
	Estado             string            `json:"estado"`
	EstadoCalculado    string            `json:"estado_calculado"`
	Documentos         documentSlotsJSON `json:"documentos"`
	CreatedAt          string            `json:"created_at,omitempty"`
	UpdatedAt          string            `json:"updated_at,omitempty"`
}

func toTramiteJSON(t *primary.Tramite) tramiteJSON {
	fechas := make(map[string]string, len(t.Dates))
	for k, v := range t.Dates {
		fechas[k] = stage.FormatDate(v)
	}
	obs := t.Observaciones
	if obs == nil {
		obs = map[string]string{}
	}
	facturas := t.Documents.Facturas
	if facturas == nil {
		facturas = []string{}
	}
	return tramiteJSON{
		ID:                 t.ID,
		ClienteID:          t.ClienteID,
		InmobiliariaID:     t.InmobiliariaID,
		ProyectoID:         t.ProyectoID,
		CantonID:           t.CantonID,
		NombreBeneficiario: t.NombreBeneficiario,
		CedulaBeneficiario: t.CedulaBeneficiario,
		Fechas:             fechas,
		Observaciones:      obs,
		Estado:             t.Estado,
		EstadoCalculado:    t.ComputedEstado,
		Documentos: documentSlotsJSON{
			Catastro: optional(t.Documents.Catastro),
			Titulo:   optional(t.Documents.Titulo),
			Facturas: facturas,
		},
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type listJSON[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

type stageJSON struct {
	Index       int     `json:"index"`
	Field       string  `json:"field"`
	Label       string  `json:"label"`
	Observation string  `json:"observation_field,omitempty"`
	Phase       string  `json:"phase"`
	Unlocked    bool    `json:"unlocked"`
	Completed   bool    `json:"completed"`
	Date        *string `json:"fecha"`
	MinDate     *string `json:"fecha_minima"`
}

func toStageJSON(s *primary.StageStatus) stageJSON {
	return stageJSON{
		Index:       s.Index,
		Field:       s.Field,
		Label:       s.Label,
		Observation: s.Observation,
		Phase:       s.Phase,
		Unlocked:    s.Unlocked,
		Completed:   s.Completed,
		Date:        optionalDate(s.Date),
		MinDate:     optionalDate(s.MinDate),
	}
}

type documentJSON struct {
	ID          string `json:"id"`
	TramiteID   string `json:"tramite_id"`
	Kind        string `json:"kind"`
	FileName    string `json:"nombre"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	CreatedAt   string `json:"created_at,omitempty"`
}

func toDocumentJSON(d *primary.Document) documentJSON {
	return documentJSON{
		ID:          d.ID,
		TramiteID:   d.TramiteID,
		Kind:        d.Kind,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Size:        d.Size,
		CreatedAt:   d.CreatedAt,
	}
}

type catalogJSON struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	ParentID string `json:"parent_id,omitempty"`
	Detail   string `json:"detalle,omitempty"`
}

type errorJSON struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  []errs.FieldError `json:"fields,omitempty"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := stage.FormatDate(*t)
	return &s
}
