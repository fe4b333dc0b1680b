package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

type tramiteFixture struct {
	service   *TramiteServiceImpl
	repo      *mockTramiteRepository
	catalog   *mockCatalogRepository
	session   *mockSessionProvider
	confirmer *mockConfirmer
	logs      *bytes.Buffer
}

func newTramiteFixture() *tramiteFixture {
	f := &tramiteFixture{
		repo:      newMockTramiteRepository(),
		catalog:   newMockCatalogRepository(),
		session:   newMockSessionProvider(),
		confirmer: &mockConfirmer{answer: true},
		logs:      &bytes.Buffer{},
	}
	logger := slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f.service = NewTramiteService(f.repo, f.catalog, f.session, f.confirmer, WithLogger(logger))
	return f
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func strPtr(s string) *string { return &s }

func validCreateRequest() primary.CreateTramiteRequest {
	return primary.CreateTramiteRequest{
		ClienteID:          "1",
		InmobiliariaID:     "10",
		ProyectoID:         "100",
		CantonID:           "7",
		NombreBeneficiario: "María Pérez",
		CedulaBeneficiario: "1234567890",
		Dates:              map[string]time.Time{"fecha_asignacion": date("2024-03-01")},
	}
}

// stageFields lists the thirteen stage fields in order.
var stageFields = []string{
	"fecha_asignacion",
	"fecha_revision_titulo",
	"fecha_envio_liquidar_impuesto",
	"fecha_envio_aprobacion_proforma",
	"fecha_aprobacion_proforma",
	"fecha_firma_matriz_cliente",
	"fecha_retorno_matriz_firmada",
	"fecha_ingreso_registro",
	"fecha_tentativa_inscripcion",
	"fecha_inscripcion",
	"fecha_ingreso_catastro",
	"fecha_tentativa_catastro",
	"fecha_catastro",
}

func (f *tramiteFixture) seed(t *testing.T) *primary.Tramite {
	t.Helper()
	created, err := f.service.CreateTramite(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("seed CreateTramite: %v", err)
	}
	return created
}

func TestCreateTramite_Success(t *testing.T) {
	f := newTramiteFixture()

	created, err := f.service.CreateTramite(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("expected ID to be assigned")
	}
	if created.ComputedEstado != "INICIADO" {
		t.Errorf("ComputedEstado = %q, want INICIADO", created.ComputedEstado)
	}
	if created.Estado != "INICIADO" {
		t.Errorf("Estado = %q, want INICIADO", created.Estado)
	}
	if f.repo.lastToken != "token-abc" {
		t.Errorf("credential not threaded to repository, got %q", f.repo.lastToken)
	}
}

func TestCreateTramite_ValidationErrorsNeverReachNetwork(t *testing.T) {
	f := newTramiteFixture()
	req := validCreateRequest()
	req.CedulaBeneficiario = "12a4567890"
	req.NombreBeneficiario = ""
	req.Dates = nil

	_, err := f.service.CreateTramite(context.Background(), req)
	if !errs.Is(err, errs.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := errs.FieldsOf(err)
	want := []string{"nombre_beneficiario", "cedula_beneficiario", "fecha_asignacion"}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v, want %v", fields, want)
	}
	for i, fe := range fields {
		if fe.Field != want[i] {
			t.Errorf("fields[%d] = %q, want %q", i, fe.Field, want[i])
		}
	}
	if len(f.repo.tramites) != 0 {
		t.Error("invalid trámite must not be persisted")
	}
}

func TestCreateTramite_IdentityMismatch(t *testing.T) {
	f := newTramiteFixture()
	req := validCreateRequest()
	req.InmobiliariaID = "11" // belongs to cliente 2

	_, err := f.service.CreateTramite(context.Background(), req)
	if !errs.Is(err, errs.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := errs.FieldsOf(err)
	if len(fields) != 2 || fields[0].Field != "inmobiliaria_id" || fields[1].Field != "proyecto_id" {
		t.Errorf("fields = %v", fields)
	}
}

func TestCreateTramite_InvalidSessionSkipsCollaborators(t *testing.T) {
	f := newTramiteFixture()
	f.session.valid = false

	_, err := f.service.CreateTramite(context.Background(), validCreateRequest())
	if !errs.Is(err, errs.KindSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if f.repo.calls != 0 {
		t.Errorf("repository called %d times with an invalid session", f.repo.calls)
	}
	if f.session.cleared {
		t.Error("the service must not clear credentials itself")
	}
}

func TestCreateTramite_UnclassifiedFailureIsTransport(t *testing.T) {
	f := newTramiteFixture()
	f.repo.createErr = errors.New("connection reset by peer")

	_, err := f.service.CreateTramite(context.Background(), validCreateRequest())
	if !errs.Is(err, errs.KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestUpdateTramite_SingleStage(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)

	updated, err := f.service.UpdateTramite(context.Background(), primary.UpdateTramiteRequest{
		TramiteID: created.ID,
		Dates:     map[string]*time.Time{"fecha_revision_titulo": datePtr("2024-03-05")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := updated.Dates["fecha_revision_titulo"]; !ok {
		t.Error("stage not saved")
	}
	if updated.NombreBeneficiario != "María Pérez" {
		t.Errorf("untouched field changed: %q", updated.NombreBeneficiario)
	}
	if updated.ComputedEstado != "LIQUIDACION_IMPUESTO" {
		t.Errorf("ComputedEstado = %q, want LIQUIDACION_IMPUESTO", updated.ComputedEstado)
	}
}

func TestUpdateTramite_AllStagesAtOnceIsFinalizado(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)

	dates := map[string]*time.Time{}
	for i, field := range stageFields {
		d := date("2024-03-01").AddDate(0, 0, i)
		dates[field] = &d
	}
	updated, err := f.service.UpdateTramite(context.Background(), primary.UpdateTramiteRequest{TramiteID: created.ID, Dates: dates})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ComputedEstado != "FINALIZADO" {
		t.Errorf("ComputedEstado = %q, want FINALIZADO", updated.ComputedEstado)
	}
}

func TestUpdateTramite_OutOfOrderNotPersisted(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)

	_, err := f.service.UpdateTramite(context.Background(), primary.UpdateTramiteRequest{
		TramiteID: created.ID,
		Dates: map[string]*time.Time{
			"fecha_revision_titulo":           datePtr("2024-02-01"), // before asignacion
			"fecha_envio_aprobacion_proforma": datePtr("2024-03-10"), // predecessor unset
		},
	})
	if !errs.Is(err, errs.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := errs.FieldsOf(err)
	if len(fields) != 2 || fields[0].Field != "fecha_revision_titulo" || fields[1].Field != "fecha_envio_aprobacion_proforma" {
		t.Errorf("fields = %v", fields)
	}
	if _, ok := f.repo.tramites[created.ID].Dates["fecha_revision_titulo"]; ok {
		t.Error("invalid edit was persisted")
	}
}

func TestUpdateTramite_SessionExpiredDuringLoad(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)
	f.repo.getErr = errs.New(errs.KindSessionExpired, "backend answered 401")

	// The edit is invalid too; the 401 must still be the only outcome.
	_, err := f.service.UpdateTramite(context.Background(), primary.UpdateTramiteRequest{
		TramiteID:          created.ID,
		CedulaBeneficiario: strPtr("123"),
	})
	if !errs.Is(err, errs.KindSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if len(errs.FieldsOf(err)) != 0 {
		t.Errorf("expected zero field errors, got %v", errs.FieldsOf(err))
	}
}

func TestUpdateTramite_SessionExpiredDuringSave(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)
	f.repo.updateErr = errs.New(errs.KindSessionExpired, "backend answered 401")

	_, err := f.service.UpdateTramite(context.Background(), primary.UpdateTramiteRequest{
		TramiteID: created.ID,
		Dates:     map[string]*time.Time{"fecha_revision_titulo": datePtr("2024-03-05")},
	})
	if !errs.Is(err, errs.KindSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
}

func TestUpdateTramite_SessionExpiredDuringIdentityCheck(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)
	f.catalog.getErr = errs.New(errs.KindSessionExpired, "backend answered 401")

	_, err := f.service.UpdateTramite(context.Background(), primary.UpdateTramiteRequest{
		TramiteID:  created.ID,
		ProyectoID: strPtr("101"),
	})
	if !errs.Is(err, errs.KindSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if len(errs.FieldsOf(err)) != 0 {
		t.Errorf("expected zero field errors, got %v", errs.FieldsOf(err))
	}
}

func TestUpdateTramite_MissingRecordIsConflict(t *testing.T) {
	f := newTramiteFixture()

	_, err := f.service.UpdateTramite(context.Background(), primary.UpdateTramiteRequest{
		TramiteID: "999",
		Dates:     map[string]*time.Time{"fecha_revision_titulo": datePtr("2024-03-05")},
	})
	if !errs.Is(err, errs.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateTramite_CannotMoveEstadoBackward(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)
	_, err := f.service.UpdateTramite(context.Background(), primary.UpdateTramiteRequest{
		TramiteID: created.ID,
		Dates:     map[string]*time.Time{"fecha_revision_titulo": datePtr("2024-03-05")},
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err = f.service.UpdateTramite(context.Background(), primary.UpdateTramiteRequest{
		TramiteID: created.ID,
		Dates:     map[string]*time.Time{"fecha_revision_titulo": nil},
	})
	if !errs.Is(err, errs.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := errs.FieldsOf(err)
	if len(fields) != 1 || fields[0].Field != "estado" {
		t.Errorf("fields = %v", fields)
	}
}

func TestUpdateTramite_LastWriterWins(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)
	ctx := context.Background()

	// Two editors load the same record, then save one after the other.
	_, err := f.service.UpdateTramite(ctx, primary.UpdateTramiteRequest{
		TramiteID:          created.ID,
		NombreBeneficiario: strPtr("Editor Uno"),
	})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := f.service.UpdateTramite(ctx, primary.UpdateTramiteRequest{
		TramiteID:          created.ID,
		NombreBeneficiario: strPtr("Editor Dos"),
	})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.NombreBeneficiario != "Editor Dos" {
		t.Errorf("NombreBeneficiario = %q, want the last writer's value", second.NombreBeneficiario)
	}
	if got := f.repo.tramites[created.ID].NombreBeneficiario; got != "Editor Dos" {
		t.Errorf("stored NombreBeneficiario = %q", got)
	}
}

func TestUpdateTramite_IdentityChangeChecked(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)

	_, err := f.service.UpdateTramite(context.Background(), primary.UpdateTramiteRequest{
		TramiteID: created.ID,
		CantonID:  strPtr("8"),
	})
	if !errs.Is(err, errs.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := errs.FieldsOf(err)
	if len(fields) != 1 || fields[0].Field != "proyecto_id" {
		t.Errorf("fields = %v", fields)
	}
}

func TestUpdateTramite_NewClienteClearsDependentSelections(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)

	_, err := f.service.UpdateTramite(context.Background(), primary.UpdateTramiteRequest{
		TramiteID: created.ID,
		ClienteID: strPtr("2"),
	})
	if !errs.Is(err, errs.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var got []string
	for _, fe := range errs.FieldsOf(err) {
		got = append(got, fe.Field)
	}
	want := []string{"inmobiliaria_id", "proyecto_id", "canton_id"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("fields = %v, want %v", got, want)
	}
	if stored := f.repo.tramites[created.ID]; stored.ClienteID != "1" || stored.InmobiliariaID != "10" {
		t.Errorf("rejected edit reached storage: %+v", stored)
	}
}

func TestUpdateTramite_NewClienteWithFullSelection(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)

	got, err := f.service.UpdateTramite(context.Background(), primary.UpdateTramiteRequest{
		TramiteID:      created.ID,
		ClienteID:      strPtr("2"),
		InmobiliariaID: strPtr("11"),
		CantonID:       strPtr("8"),
		ProyectoID:     strPtr("101"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ClienteID != "2" || got.InmobiliariaID != "11" || got.ProyectoID != "101" || got.CantonID != "8" {
		t.Errorf("identity = %s/%s/%s/%s", got.ClienteID, got.InmobiliariaID, got.ProyectoID, got.CantonID)
	}
	if _, ok := got.Dates["fecha_asignacion"]; !ok {
		t.Error("stage dates must survive an identity change")
	}
}

func TestUpdateTramite_EmptyPatchDoesNotWrite(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)
	f.repo.updateErr = errors.New("must not be called")

	got, err := f.service.UpdateTramite(context.Background(), primary.UpdateTramiteRequest{TramiteID: created.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %q", got.ID)
	}
}

func TestGetTramite_EstadoCrossCheck(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)
	f.repo.tramites[created.ID].Estado = "CATASTRO"

	got, err := f.service.GetTramite(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Estado != "CATASTRO" || got.ComputedEstado != "INICIADO" {
		t.Errorf("Estado = %q, ComputedEstado = %q", got.Estado, got.ComputedEstado)
	}
	if !strings.Contains(f.logs.String(), "estado reported by backend differs") {
		t.Error("expected a mismatch warning in the logs")
	}
}

func TestGetTramite_NotFound(t *testing.T) {
	f := newTramiteFixture()
	_, err := f.service.GetTramite(context.Background(), "404")
	if !errs.Is(err, errs.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListTramites(t *testing.T) {
	f := newTramiteFixture()
	for i := 0; i < 3; i++ {
		f.seed(t)
	}

	tests := []struct {
		name      string
		filters   primary.TramiteFilters
		wantLen   int
		wantTotal int
		wantLimit int
		wantKind  errs.Kind
	}{
		{name: "defaults", filters: primary.TramiteFilters{}, wantLen: 3, wantTotal: 3, wantLimit: defaultPageLimit},
		{name: "second page of two", filters: primary.TramiteFilters{Page: 2, Limit: 2}, wantLen: 1, wantTotal: 3, wantLimit: 2},
		{name: "limit clamped", filters: primary.TramiteFilters{Limit: 1000}, wantLen: 3, wantTotal: 3, wantLimit: maxPageLimit},
		{name: "estado filter", filters: primary.TramiteFilters{Estado: "FINALIZADO"}, wantLen: 0, wantTotal: 0, wantLimit: defaultPageLimit},
		{name: "unknown estado", filters: primary.TramiteFilters{Estado: "ARCHIVADO"}, wantKind: errs.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := f.service.ListTramites(context.Background(), tt.filters)
			if tt.wantKind != "" {
				if !errs.Is(err, tt.wantKind) {
					t.Fatalf("expected %s, got %v", tt.wantKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(list.Data) != tt.wantLen || list.Total != tt.wantTotal {
				t.Errorf("len = %d, total = %d", len(list.Data), list.Total)
			}
			if f.repo.lastFilters.Limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", f.repo.lastFilters.Limit, tt.wantLimit)
			}
		})
	}
}

func TestGetStages(t *testing.T) {
	f := newTramiteFixture()
	created := f.seed(t)

	board, err := f.service.GetStages(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board) != len(stageFields) {
		t.Fatalf("len(board) = %d", len(board))
	}
	if !board[0].Completed || !board[1].Unlocked || board[1].Completed || board[2].Unlocked {
		t.Errorf("unexpected board head: %+v %+v %+v", board[0], board[1], board[2])
	}
	if board[1].MinDate == nil || !board[1].MinDate.Equal(date("2024-03-01")) {
		t.Errorf("MinDate = %v", board[1].MinDate)
	}
}

func TestDeleteTramite(t *testing.T) {
	t.Run("declined keeps the record", func(t *testing.T) {
		f := newTramiteFixture()
		created := f.seed(t)
		f.confirmer.answer = false

		deleted, err := f.service.DeleteTramite(context.Background(), created.ID)
		if err != nil || deleted {
			t.Fatalf("DeleteTramite() = %v, %v", deleted, err)
		}
		if _, ok := f.repo.tramites[created.ID]; !ok {
			t.Error("record deleted despite declined confirmation")
		}
	})

	t.Run("confirmed deletes", func(t *testing.T) {
		f := newTramiteFixture()
		created := f.seed(t)

		deleted, err := f.service.DeleteTramite(context.Background(), created.ID)
		if err != nil || !deleted {
			t.Fatalf("DeleteTramite() = %v, %v", deleted, err)
		}
		if len(f.confirmer.questions) != 1 {
			t.Errorf("questions = %v", f.confirmer.questions)
		}
		if _, ok := f.repo.tramites[created.ID]; ok {
			t.Error("record still present")
		}
	})

	t.Run("missing record", func(t *testing.T) {
		f := newTramiteFixture()
		_, err := f.service.DeleteTramite(context.Background(), "999")
		if !errs.Is(err, errs.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

var _ primary.TramiteService = (*TramiteServiceImpl)(nil)
var _ secondary.Confirmer = (*mockConfirmer)(nil)
