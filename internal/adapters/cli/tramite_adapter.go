// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting, but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/core/stage"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
)

// TramiteAdapter translates CLI operations to TramiteService calls.
type TramiteAdapter struct {
	service primary.TramiteService
	out     io.Writer
}

// NewTramiteAdapter creates a new TramiteAdapter with the given service.
func NewTramiteAdapter(service primary.TramiteService, out io.Writer) *TramiteAdapter {
	return &TramiteAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new trámite.
func (a *TramiteAdapter) Create(ctx context.Context, req primary.CreateTramiteRequest) (*primary.Tramite, error) {
	t, err := a.service.CreateTramite(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Created trámite %s: %s (%s) %s\n", t.ID, t.NombreBeneficiario, t.CedulaBeneficiario, EstadoBadge(t.ComputedEstado))
	return t, nil
}

// Update applies a partial edit.
func (a *TramiteAdapter) Update(ctx context.Context, req primary.UpdateTramiteRequest) (*primary.Tramite, error) {
	t, err := a.service.UpdateTramite(ctx, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Trámite %s updated %s\n", t.ID, EstadoBadge(t.ComputedEstado))
	return t, nil
}

// List prints one page of trámites.
func (a *TramiteAdapter) List(ctx context.Context, filters primary.TramiteFilters) error {
	list, err := a.service.ListTramites(ctx, filters)
	if err != nil {
		return err
	}

	if len(list.Data) == 0 {
		fmt.Fprintln(a.out, "No trámites found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-8s %-32s %-12s %-22s %s\n", "ID", "BENEFICIARIO", "CÉDULA", "ESTADO", "ACTUALIZADO")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────────────────")
	for _, t := range list.Data {
		estado := t.ComputedEstado
		if t.Estado != "" && t.Estado != t.ComputedEstado {
			estado += "*"
		}
		fmt.Fprintf(a.out, "%-8s %-32s %-12s %-22s %s\n", t.ID, truncate(t.NombreBeneficiario, 32), t.CedulaBeneficiario, estado, t.UpdatedAt)
	}

	page, limit := filters.Page, filters.Limit
	if page < 1 {
		page = 1
	}
	if limit > 0 {
		pages := (list.Total + limit - 1) / limit
		fmt.Fprintf(a.out, "\nPage %d of %d (%d trámites)\n", page, pages, list.Total)
	} else {
		fmt.Fprintf(a.out, "\n%d trámites\n", list.Total)
	}
	return nil
}

// Show displays a single trámite with its stage board and documents.
func (a *TramiteAdapter) Show(ctx context.Context, tramiteID string) (*primary.Tramite, error) {
	t, err := a.service.GetTramite(ctx, tramiteID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "\nTrámite: %s %s\n", t.ID, EstadoBadge(t.ComputedEstado))
	if t.Estado != "" && t.Estado != t.ComputedEstado {
		fmt.Fprintf(a.out, "%s backend reports %s\n", color.New(color.FgYellow).Sprint("!"), t.Estado)
	}
	fmt.Fprintf(a.out, "Beneficiario: %s (%s)\n", t.NombreBeneficiario, t.CedulaBeneficiario)
	fmt.Fprintf(a.out, "Cliente: %s  Inmobiliaria: %s  Proyecto: %s  Cantón: %s\n", t.ClienteID, t.InmobiliariaID, t.ProyectoID, t.CantonID)
	if t.CreatedAt != "" {
		fmt.Fprintf(a.out, "Created: %s  Updated: %s\n", t.CreatedAt, t.UpdatedAt)
	}

	fmt.Fprintln(a.out, "\nDocuments:")
	fmt.Fprintf(a.out, "  catastro: %s\n", orDash(t.Documents.Catastro))
	fmt.Fprintf(a.out, "  título:   %s\n", orDash(t.Documents.Titulo))
	if len(t.Documents.Facturas) == 0 {
		fmt.Fprintln(a.out, "  facturas: -")
	} else {
		fmt.Fprintf(a.out, "  facturas: %s\n", strings.Join(t.Documents.Facturas, ", "))
	}
	fmt.Fprintln(a.out)

	return t, nil
}

// Stages prints the stage board of a trámite.
func (a *TramiteAdapter) Stages(ctx context.Context, tramiteID string) error {
	board, err := a.service.GetStages(ctx, tramiteID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n%-3s %-4s %-28s %-12s %s\n", "", "#", "ETAPA", "FECHA", "DESDE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, s := range board {
		fecha := "-"
		if s.Date != nil {
			fecha = stage.FormatDate(*s.Date)
		}
		desde := ""
		if s.MinDate != nil && !s.Completed {
			desde = stage.FormatDate(*s.MinDate)
		}
		fmt.Fprintf(a.out, "%-3s %-4d %-28s %-12s %s\n", stageIcon(s), s.Index, s.Label, fecha, desde)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Delete deletes a trámite after confirmation.
func (a *TramiteAdapter) Delete(ctx context.Context, tramiteID string) error {
	deleted, err := a.service.DeleteTramite(ctx, tramiteID)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	fmt.Fprintf(a.out, "✓ Deleted trámite %s\n", tramiteID)
	return nil
}

// EstadoBadge renders an estado label colored by how far along it is.
func EstadoBadge(estado string) string {
	e := stage.Estado(estado)
	switch {
	case e == stage.EstadoFinalizado:
		return color.New(color.FgGreen, color.Bold).Sprint(estado)
	case e == stage.EstadoIniciado:
		return color.New(color.FgCyan).Sprint(estado)
	case e.Rank() >= stage.EstadoInscripcion.Rank():
		return color.New(color.FgBlue).Sprint(estado)
	case e.Rank() > 0:
		return color.New(color.FgYellow).Sprint(estado)
	default:
		return estado
	}
}

func stageIcon(s *primary.StageStatus) string {
	switch {
	case s.Completed:
		return color.New(color.FgGreen).Sprint("✓")
	case s.Unlocked:
		return color.New(color.FgYellow).Sprint("○")
	default:
		return color.New(color.FgHiBlack).Sprint("🔒")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
