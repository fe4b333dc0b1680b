package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/config"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/db"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config and prepare the local ledger",
		Long: `Write ~/.escrituras/config.yaml if it does not exist and, for the sqlite
backend, create the ledger database with its schema.

Examples:
  escrituras init
  escrituras init --seed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			path := configPath
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			wrote, err := config.Init(path)
			if err != nil {
				return err
			}
			if wrote {
				fmt.Fprintf(out, "✓ Config written to %s\n", path)
			} else {
				fmt.Fprintf(out, "Config already exists at %s\n", path)
			}

			cfg, err := wire.Config()
			if err != nil {
				return err
			}
			if cfg.Backend != config.BackendSQLite {
				if seed {
					return fmt.Errorf("--seed needs the %s backend, config uses %s", config.BackendSQLite, cfg.Backend)
				}
				fmt.Fprintf(out, "Backend %s at %s; run 'escrituras login' next\n", cfg.Backend, cfg.API.BaseURL)
				return nil
			}

			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			dbPath, _ := db.GetDBPath()
			fmt.Fprintf(out, "✓ Ledger ready at %s\n", dbPath)

			if !seed {
				return nil
			}
			switch err := db.SeedFixtures(database); {
			case errors.Is(err, db.ErrAlreadySeeded):
				fmt.Fprintln(out, "Ledger already has data; seed skipped")
			case err != nil:
				return err
			default:
				fmt.Fprintln(out, "✓ Seeded clientes, cantones, inmobiliarias, proyectos and two sample trámites")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Load sample catalog data and trámites into the ledger")
	return cmd
}
