// Package cli implements the escrituras cobra commands. Commands parse flags,
// call the output adapters from internal/wire and leave presentation to them.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ctxutil"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/version"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/wire"
)

var (
	configPath string
	assumeYes  bool
)

// RootCmd returns the escrituras root command with every subcommand attached.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "escrituras",
		Short:   "Escrituras - deed processing tracker",
		Version: version.String(),
		Long: `Escrituras tracks the trámites that take a housing deed from assignment
to cadastral registration: thirteen dated stages, the documents attached to
each trámite and the catalog of clientes, inmobiliarias and proyectos.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if configPath != "" {
				wire.SetConfigPath(configPath)
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.escrituras/config.yaml)")
	root.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to confirmation prompts")

	root.AddCommand(InitCmd())
	root.AddCommand(TramiteCmd())
	root.AddCommand(DocumentoCmd())
	root.AddCommand(CatalogCmd())
	root.AddCommand(LoginCmd())
	root.AddCommand(LogoutCmd())
	root.AddCommand(WhoAmICmd())
	root.AddCommand(ServeCmd())
	root.AddCommand(VersionCmd())

	return root
}

// run builds the adapters and calls fn. A session_expired outcome clears the
// stored session before the error is returned.
func run(cmd *cobra.Command, fn func(ctx context.Context, a *wire.Adapters) error) error {
	a, err := wire.CLIAdapters(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if assumeYes {
		ctx = ctxutil.WithAssumeYes(ctx)
	}

	err = fn(ctx, a)
	if errs.Is(err, errs.KindSessionExpired) {
		a.Session.Expired(context.WithoutCancel(ctx))
	}
	return err
}

// FormatError renders err for the terminal, one line per field violation.
func FormatError(err error) string {
	fields := errs.FieldsOf(err)
	if len(fields) == 0 {
		return "Error: " + err.Error()
	}

	var b strings.Builder
	b.WriteString("Error: validation failed\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "  %-28s %s\n", f.Field, f.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, stderr io.Writer) int {
	if err := RootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, FormatError(err))
		return 1
	}
	return 0
}

// VersionCmd returns the version command
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
