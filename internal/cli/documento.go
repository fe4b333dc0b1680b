package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/wire"
)

// DocumentoCmd returns the documento command
func DocumentoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documento",
		Aliases: []string{"doc", "documentos"},
		Short:   "Manage the PDFs attached to a trámite",
		Long: `Upload, list, open and remove the documents of a trámite.
A trámite holds at most one catastro and one título, and any number of facturas.`,
	}

	cmd.AddCommand(documentoUploadCmd())
	cmd.AddCommand(documentoListCmd())
	cmd.AddCommand(documentoURLCmd())
	cmd.AddCommand(documentoRemoveCmd())

	return cmd
}

func documentoUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload [tramite-id] [catastro|titulo|factura] [file.pdf]",
		Short: "Upload a PDF (5 MiB max) to a trámite",
		Long: `Upload a PDF to a trámite slot.

Examples:
  escrituras documento upload 12 titulo ./titulo.pdf
  escrituras documento upload 12 factura ./factura-001.pdf`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				_, err := a.Document.Upload(ctx, args[0], args[1], args[2])
				return err
			})
		},
	}
}

func documentoListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [tramite-id]",
		Short: "List the documents of a trámite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				return a.Document.List(ctx, args[0])
			})
		},
	}
}

func documentoURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url [tramite-id] [document-id]",
		Short: "Print a download URL for a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				return a.Document.URL(ctx, args[0], args[1])
			})
		},
	}
}

func documentoRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove [tramite-id] [document-id]",
		Aliases: []string{"rm"},
		Short:   "Remove a document from a trámite",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *wire.Adapters) error {
				return a.Document.Remove(ctx, args[0], args[1])
			})
		},
	}
}
