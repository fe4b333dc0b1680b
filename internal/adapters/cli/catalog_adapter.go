package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
)

// CatalogAdapter prints catalog lists for the cascading selectors.
type CatalogAdapter struct {
	service primary.CatalogService
	out     io.Writer
}

// NewCatalogAdapter creates a new CatalogAdapter with the given service.
func NewCatalogAdapter(service primary.CatalogService, out io.Writer) *CatalogAdapter {
	return &CatalogAdapter{
		service: service,
		out:     out,
	}
}

// Clientes lists every cliente.
func (a *CatalogAdapter) Clientes(ctx context.Context) error {
	entries, err := a.service.ListClientes(ctx)
	if err != nil {
		return err
	}
	a.print(entries, "")
	return nil
}

// Cantones lists every cantón with its provincia.
func (a *CatalogAdapter) Cantones(ctx context.Context) error {
	entries, err := a.service.ListCantones(ctx)
	if err != nil {
		return err
	}
	a.print(entries, "PROVINCIA")
	return nil
}

// Inmobiliarias lists the inmobiliarias of a cliente.
func (a *CatalogAdapter) Inmobiliarias(ctx context.Context, clienteID string) error {
	entries, err := a.service.ListInmobiliarias(ctx, clienteID)
	if err != nil {
		return err
	}
	a.print(entries, "")
	return nil
}

// Proyectos lists the proyectos of an inmobiliaria, optionally in a cantón.
func (a *CatalogAdapter) Proyectos(ctx context.Context, inmobiliariaID, cantonID string) error {
	entries, err := a.service.ListProyectos(ctx, inmobiliariaID, cantonID)
	if err != nil {
		return err
	}
	a.print(entries, "CANTÓN")
	return nil
}

func (a *CatalogAdapter) print(entries []*primary.CatalogEntry, detailHeader string) {
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "Nothing found")
		return
	}

	fmt.Fprintf(a.out, "\n%-8s %-40s %s\n", "ID", "NOMBRE", detailHeader)
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		detail := ""
		if detailHeader != "" {
			detail = e.Detail
		}
		fmt.Fprintf(a.out, "%-8s %-40s %s\n", e.ID, e.Nombre, detail)
	}
	fmt.Fprintln(a.out)
}
