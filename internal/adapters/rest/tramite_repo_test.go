package rest

import (
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

const tramiteJSON = `{
	"id": 7,
	"cliente_id": 1,
	"inmobiliaria_id": 10,
	"proyecto_id": 100,
	"canton_id": 5,
	"nombre_beneficiario": "María Pérez",
	"cedula_beneficiario": "0102030405",
	"estado": "LIQUIDACION_IMPUESTO",
	"fecha_asignacion": "2024-03-01",
	"fecha_revision_titulo": "2024-03-04T00:00:00.000Z",
	"fecha_envio_liquidar_impuesto": "2024-03-10",
	"fecha_envio_aprobacion_proforma": null,
	"observaciones_liquidacion_impuesto": "pendiente pago",
	"documentos": [
		{"id": 91, "is_catastro": true, "nombre": "catastro.pdf"},
		{"id": 92, "is_factura": true, "nombre": "f1.pdf"}
	],
	"created_at": "2024-03-01T10:00:00Z",
	"updated_at": "2024-03-10T10:00:00Z"
}`

func TestTramiteRepository_GetByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tramites/7", r.URL.Path)
		_, _ = w.Write([]byte(tramiteJSON))
	})
	repo := NewTramiteRepository(c)

	rec, err := repo.GetByID(authed(), "7")
	require.NoError(t, err)

	assert.Equal(t, "7", rec.ID)
	assert.Equal(t, "10", rec.InmobiliariaID)
	assert.Equal(t, "LIQUIDACION_IMPUESTO", rec.Estado)
	assert.Len(t, rec.Dates, 3)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), rec.Dates["fecha_revision_titulo"])
	assert.NotContains(t, rec.Dates, "fecha_envio_aprobacion_proforma")
	assert.Equal(t, "pendiente pago", rec.Observaciones["observaciones_liquidacion_impuesto"])

	require.Len(t, rec.Documents, 2)
	assert.Equal(t, "catastro", rec.Documents[0].Kind)
	assert.Equal(t, "factura", rec.Documents[1].Kind)
	assert.Equal(t, "7", rec.Documents[1].TramiteID)
}

func TestTramiteRepository_GetByID_Enveloped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":` + tramiteJSON + `}`))
	})

	rec, err := NewTramiteRepository(c).GetByID(authed(), "7")
	require.NoError(t, err)
	assert.Equal(t, "7", rec.ID)
}

func TestTramiteRepository_UpdateSendsFullPayload(t *testing.T) {
	var payload map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/tramites/7", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(tramiteJSON))
	})

	rec := &secondary.TramiteRecord{
		ID:                 "7",
		ClienteID:          "1",
		InmobiliariaID:     "10",
		ProyectoID:         "100",
		CantonID:           "5",
		NombreBeneficiario: "María Pérez",
		CedulaBeneficiario: "0102030405",
		Estado:             "INICIADO",
		Dates: map[string]time.Time{
			"fecha_asignacion": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		Observaciones: map[string]string{},
	}
	_, err := NewTramiteRepository(c).Update(authed(), rec)
	require.NoError(t, err)

	assert.Equal(t, float64(10), payload["inmobiliaria_id"])
	assert.Equal(t, "2024-03-01", payload["fecha_asignacion"])
	assert.Contains(t, payload, "fecha_catastro")
	assert.Nil(t, payload["fecha_catastro"])
	assert.Nil(t, payload["observaciones_catastro"])
	assert.Equal(t, "INICIADO", payload["estado"])
}

func TestTramiteRepository_List(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "INICIADO", r.URL.Query().Get("estado"))
		_, _ = w.Write([]byte(`{"data":[` + tramiteJSON + `],"total":31}`))
	})

	page, err := NewTramiteRepository(c).List(authed(), secondary.TramiteFilters{Page: 1, Limit: 10, Estado: "INICIADO"})
	require.NoError(t, err)
	assert.Equal(t, 31, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "María Pérez", page.Data[0].NombreBeneficiario)
}

func TestTramiteRepository_BadDateIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"fecha_asignacion":"01/03/2024"}`))
	})

	_, err := NewTramiteRepository(c).GetByID(authed(), "1")
	assert.Error(t, err)
}

func TestCatalogRepository(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/inmobiliarias":
			assert.Equal(t, "1", r.URL.Query().Get("cliente_id"))
			_, _ = w.Write([]byte(`{"data":[{"id":10,"cliente_id":1,"nombre":"Inmo"}],"total":1}`))
		case "/api/proyectos/100":
			_, _ = w.Write([]byte(`{"id":100,"inmobiliaria_id":10,"canton_id":5,"nombre":"Torres"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	repo := NewCatalogRepository(c)

	inmos, err := repo.ListInmobiliarias(authed(), "1")
	require.NoError(t, err)
	require.Len(t, inmos, 1)
	assert.Equal(t, "1", inmos[0].ClienteID)

	p, err := repo.GetProyecto(authed(), "100")
	require.NoError(t, err)
	assert.Equal(t, "5", p.CantonID)

	_, err = repo.GetInmobiliaria(authed(), "99")
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestPDFStore_Upload(t *testing.T) {
	var fields map[string]string
	var fileBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pdf/upload", r.URL.Path)
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)

		fields = map[string]string{}
		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			b, _ := io.ReadAll(part)
			if part.FormName() == "file" {
				fileBody = string(b)
				assert.Equal(t, "f1.pdf", part.FileName())
				continue
			}
			fields[part.FormName()] = string(b)
		}
		_, _ = w.Write([]byte(`{"id":92,"is_factura":true}`))
	})

	rec, err := NewPDFStore(c).Upload(authed(), secondary.DocumentUpload{
		TramiteID:   "7",
		Kind:        "factura",
		FileName:    "f1.pdf",
		ContentType: "application/pdf",
		Size:        9,
		Body:        strings.NewReader("%PDF-1.4\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, "92", rec.ID)
	assert.Equal(t, "7", rec.TramiteID)
	assert.Equal(t, "factura", rec.Kind)
	assert.Equal(t, "7", fields["tramite_id"])
	assert.Equal(t, "true", fields["is_factura"])
	assert.Equal(t, "false", fields["is_catastro"])
	assert.Equal(t, "%PDF-1.4\n", fileBody)
}

func TestPDFStore_ResolveURLAndDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/pdf/92/url":
			_, _ = w.Write([]byte(`{"url":"https://files.example.test/92"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/pdf/92":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})
	store := NewPDFStore(c)

	u, err := store.ResolveURL(authed(), "92")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.test/92", u)

	require.NoError(t, store.Delete(authed(), "92"))

	_, err = store.ResolveURL(authed(), "93")
	assert.True(t, errs.Is(err, errs.KindSessionExpired))
}
