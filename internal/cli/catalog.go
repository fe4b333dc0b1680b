package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/wire"
)

// CatalogCmd returns the catalog command
func CatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse clientes, cantones, inmobiliarias and proyectos",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clientes",
		Short: "List clientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				return a.Catalog.Clientes(ctx)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "cantones",
		Short: "List cantones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				return a.Catalog.Cantones(ctx)
			})
		},
	})
	cmd.AddCommand(catalogInmobiliariasCmd())
	cmd.AddCommand(catalogProyectosCmd())

	return cmd
}

func catalogInmobiliariasCmd() *cobra.Command {
	var clienteID string

	cmd := &cobra.Command{
		Use:   "inmobiliarias",
		Short: "List the inmobiliarias of a cliente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				return a.Catalog.Inmobiliarias(ctx, clienteID)
			})
		},
	}

	cmd.Flags().StringVar(&clienteID, "cliente", "", "Cliente ID (required)")
	return cmd
}

func catalogProyectosCmd() *cobra.Command {
	var inmobiliariaID, cantonID string

	cmd := &cobra.Command{
		Use:   "proyectos",
		Short: "List the proyectos of an inmobiliaria, optionally in one cantón",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				return a.Catalog.Proyectos(ctx, inmobiliariaID, cantonID)
			})
		},
	}

	cmd.Flags().StringVar(&inmobiliariaID, "inmobiliaria", "", "Inmobiliaria ID (required)")
	cmd.Flags().StringVar(&cantonID, "canton", "", "Cantón ID")
	return cmd
}
