package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/wire"
)

// TramiteCmd returns the tramite command
func TramiteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tramite",
		Aliases: []string{"tramites"},
		Short:   "Manage trámites",
		Long:    `Create, edit, list and delete trámites and follow their stages.`,
	}

	cmd.AddCommand(tramiteCreateCmd())
	cmd.AddCommand(tramiteUpdateCmd())
	cmd.AddCommand(tramiteShowCmd())
	cmd.AddCommand(tramiteListCmd())
	cmd.AddCommand(tramiteStagesCmd())
	cmd.AddCommand(tramiteDeleteCmd())

	return cmd
}

// identityFlags are the attributes shared by create and update.
type identityFlags struct {
	cliente, inmobiliaria, proyecto, canton string
	nombre, cedula                          string
	fechas, obs                             []string
}

func (f *identityFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.cliente, "cliente", "", "Cliente ID")
	cmd.Flags().StringVar(&f.inmobiliaria, "inmobiliaria", "", "Inmobiliaria ID (must belong to the cliente)")
	cmd.Flags().StringVar(&f.proyecto, "proyecto", "", "Proyecto ID (must belong to the inmobiliaria and cantón)")
	cmd.Flags().StringVar(&f.canton, "canton", "", "Cantón ID")
	cmd.Flags().StringVarP(&f.nombre, "nombre", "n", "", "Beneficiary full name")
	cmd.Flags().StringVarP(&f.cedula, "cedula", "c", "", "Beneficiary cédula (10 digits)")
	cmd.Flags().StringArrayVar(&f.fechas, "fecha", nil, "Stage date as field=YYYY-MM-DD (repeatable)")
	cmd.Flags().StringArrayVar(&f.obs, "obs", nil, "Stage observation as field=text (repeatable)")
}

func tramiteCreateCmd() *cobra.Command {
	var f identityFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new trámite",
		Long: `Create a new trámite. Only the assignment date may be set at creation;
later stages are filled with 'escrituras tramite update'.

Examples:
  escrituras tramite create --cliente 1 --inmobiliaria 2 --proyecto 3 --canton 1 \
    --nombre "Ana Torres" --cedula 1712345678 --fecha fecha_asignacion=2024-03-05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, err := parseDates(f.fechas)
			if err != nil {
				return err
			}
			obs, err := parseAssignments("obs", f.obs)
			if err != nil {
				return err
			}

			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				_, err := a.Tramite.Create(ctx, primary.CreateTramiteRequest{
					ClienteID:          f.cliente,
					InmobiliariaID:     f.inmobiliaria,
					ProyectoID:         f.proyecto,
					CantonID:           f.canton,
					NombreBeneficiario: f.nombre,
					CedulaBeneficiario: f.cedula,
					Dates:              dates,
					Observaciones:      obs,
				})
				return err
			})
		},
	}

	f.bind(cmd)
	return cmd
}

func tramiteUpdateCmd() *cobra.Command {
	var f identityFlags

	cmd := &cobra.Command{
		Use:   "update [tramite-id]",
		Short: "Edit a trámite",
		Long: `Edit a trámite. Only the flags given are changed; an empty value clears
a stage date or observation.

Examples:
  escrituras tramite update 12 --fecha fecha_revision_titulo=2024-03-08
  escrituras tramite update 12 --fecha fecha_catastro= --obs observaciones_catastro=`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, err := parseDateEdits(f.fechas)
			if err != nil {
				return err
			}
			obs, err := parseObservationEdits(f.obs)
			if err != nil {
				return err
			}

			req := primary.UpdateTramiteRequest{
				TramiteID:     args[0],
				Dates:         dates,
				Observaciones: obs,
			}
			changed := func(name string, v string) *string {
				if !cmd.Flags().Changed(name) {
					return nil
				}
				return &v
			}
			req.ClienteID = changed("cliente", f.cliente)
			req.InmobiliariaID = changed("inmobiliaria", f.inmobiliaria)
			req.ProyectoID = changed("proyecto", f.proyecto)
			req.CantonID = changed("canton", f.canton)
			req.NombreBeneficiario = changed("nombre", f.nombre)
			req.CedulaBeneficiario = changed("cedula", f.cedula)

			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				_, err := a.Tramite.Update(ctx, req)
				return err
			})
		},
	}

	f.bind(cmd)
	return cmd
}

func tramiteShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [tramite-id]",
		Short: "Show trámite details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				_, err := a.Tramite.Show(ctx, args[0])
				return err
			})
		},
	}
}

func tramiteListCmd() *cobra.Command {
	var filters primary.TramiteFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trámites",
		Long: `List trámites, newest first, one page at a time.

Examples:
  escrituras tramite list
  escrituras tramite list --estado CATASTRO --page 2
  escrituras tramite list --search 1712345678`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				return a.Tramite.List(ctx, filters)
			})
		},
	}

	cmd.Flags().IntVarP(&filters.Page, "page", "p", 1, "Page number")
	cmd.Flags().IntVarP(&filters.Limit, "limit", "l", 20, "Trámites per page")
	cmd.Flags().StringVar(&filters.ClienteID, "cliente", "", "Filter by cliente ID")
	cmd.Flags().StringVarP(&filters.Estado, "estado", "e", "", "Filter by estado")
	cmd.Flags().StringVarP(&filters.Search, "search", "s", "", "Match beneficiary name or cédula")

	return cmd
}

func tramiteStagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages [tramite-id]",
		Short: "Show the stage board of a trámite",
		Long:  `Show each stage with its date, whether it is unlocked and the earliest date it accepts.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				return a.Tramite.Stages(ctx, args[0])
			})
		},
	}
}

func tramiteDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [tramite-id]",
		Short: "Delete a trámite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				return a.Tramite.Delete(ctx, args[0])
			})
		},
	}
}
