package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/stage"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// flexID accepts ids encoded as JSON numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

// idValue encodes an id as a number when it is numeric.
func idValue(id string) any {
	if id == "" {
		return nil
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

// documentDTO is a document as the backend reports it: a one-hot kind flag.
type documentDTO struct {
	ID          flexID `json:"id"`
	TramiteID   flexID `json:"tramite_id"`
	IsCatastro  bool   `json:"is_catastro"`
	IsTitulo    bool   `json:"is_titulo"`
	IsFactura   bool   `json:"is_factura"`
	Nombre      string `json:"nombre"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	CreatedAt   string `json:"created_at"`
}

func (d documentDTO) kind() string {
	switch {
	case d.IsCatastro:
		return "catastro"
	case d.IsTitulo:
		return "titulo"
	case d.IsFactura:
		return "factura"
	}
	return ""
}

func (d documentDTO) record() *secondary.DocumentRecord {
	return &secondary.DocumentRecord{
		ID:          string(d.ID),
		TramiteID:   string(d.TramiteID),
		Kind:        d.kind(),
		FileName:    d.Nombre,
		ContentType: d.ContentType,
		Size:        d.Size,
		CreatedAt:   d.CreatedAt,
	}
}

// tramiteDTO holds the fixed attributes of a trámite; stage dates and
// observations are flat keys handled by decodeTramite/encodeTramite.
type tramiteDTO struct {
	ID                 flexID        `json:"id"`
	ClienteID          flexID        `json:"cliente_id"`
	InmobiliariaID     flexID        `json:"inmobiliaria_id"`
	ProyectoID         flexID        `json:"proyecto_id"`
	CantonID           flexID        `json:"canton_id"`
	NombreBeneficiario string        `json:"nombre_beneficiario"`
	CedulaBeneficiario string        `json:"cedula_beneficiario"`
	Estado             string        `json:"estado"`
	Documentos         []documentDTO `json:"documentos"`
	CreatedAt          string        `json:"created_at"`
	UpdatedAt          string        `json:"updated_at"`
}

// rawTramite decodes a trámite object keeping its flat stage keys.
type rawTramite map[string]json.RawMessage

func (raw rawTramite) record() (*secondary.TramiteRecord, error) {
	b, err := json.Marshal(map[string]json.RawMessage(raw))
	if err != nil {
		return nil, err
	}
	var dto tramiteDTO
	if err := json.Unmarshal(b, &dto); err != nil {
		return nil, fmt.Errorf("failed to decode trámite: %w", err)
	}

	rec := &secondary.TramiteRecord{
		ID:                 string(dto.ID),
		ClienteID:          string(dto.ClienteID),
		InmobiliariaID:     string(dto.InmobiliariaID),
		ProyectoID:         string(dto.ProyectoID),
		CantonID:           string(dto.CantonID),
		NombreBeneficiario: dto.NombreBeneficiario,
		CedulaBeneficiario: dto.CedulaBeneficiario,
		Estado:             dto.Estado,
		Dates:              map[string]time.Time{},
		Observaciones:      map[string]string{},
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
	}
	for _, s := range stage.Schema() {
		if v, ok := raw[s.Field]; ok {
			var txt *string
			if err := json.Unmarshal(v, &txt); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", s.Field, err)
			}
			if txt != nil && *txt != "" {
				d, err := parseWireDate(*txt)
				if err != nil {
					return nil, fmt.Errorf("failed to decode %s: %w", s.Field, err)
				}
				rec.Dates[s.Field] = d
			}
		}
		if s.Observation == "" {
			continue
		}
		if v, ok := raw[s.Observation]; ok {
			var txt *string
			if err := json.Unmarshal(v, &txt); err == nil && txt != nil && *txt != "" {
				rec.Observaciones[s.Observation] = *txt
			}
		}
	}
	for _, d := range dto.Documentos {
		doc := d.record()
		if doc.TramiteID == "" {
			doc.TramiteID = rec.ID
		}
		rec.Documents = append(rec.Documents, doc)
	}
	return rec, nil
}

// parseWireDate accepts a bare date or an RFC 3339 timestamp.
func parseWireDate(s string) (time.Time, error) {
	if len(s) >= len(stage.DateLayout) {
		if d, err := stage.ParseDate(s[:len(stage.DateLayout)]); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// encodeTramite builds the write payload. Unset stages and observations are
// sent as null so the backend clears them.
func encodeTramite(rec *secondary.TramiteRecord) map[string]any {
	out := map[string]any{
		"cliente_id":          idValue(rec.ClienteID),
		"inmobiliaria_id":     idValue(rec.InmobiliariaID),
		"proyecto_id":         idValue(rec.ProyectoID),
		"canton_id":           idValue(rec.CantonID),
		"nombre_beneficiario": rec.NombreBeneficiario,
		"cedula_beneficiario": rec.CedulaBeneficiario,
	}
	if rec.Estado != "" {
		out["estado"] = rec.Estado
	}
	for _, s := range stage.Schema() {
		if d, ok := rec.Dates[s.Field]; ok {
			out[s.Field] = stage.FormatDate(d)
		} else {
			out[s.Field] = nil
		}
		if s.Observation != "" {
			if o, ok := rec.Observaciones[s.Observation]; ok && o != "" {
				out[s.Observation] = o
			} else {
				out[s.Observation] = nil
			}
		}
	}
	return out
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	return slices.Sorted(maps.Keys(m))
}
