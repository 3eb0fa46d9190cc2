package admin

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloo-solutions/faqd/internal/database"
)

// MigrateCmd returns the migrate command group.
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  "Apply, roll back and inspect the embedded schema migrations",
	}

	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateDownCmd())
	cmd.AddCommand(migrateVersionCmd())

	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return database.RunMigrations(cfg.DatabaseURL, logger)
		},
	}
}

func migrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			mg, err := database.NewMigrator(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer mg.Close()

			if err := mg.Down(); err != nil {
				return err
			}
			logger.Info("migrations: rolled back one step")
			return nil
		},
	}
}

type migrationVersion struct {
	Version uint `json:"version"`
	Applied bool `json:"applied"`
}

func migrateVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			mg, err := database.NewMigrator(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer mg.Close()

			version, ok, err := mg.Version()
			if err != nil {
				return err
			}
			logger.Debug("migrations: version read", zap.Uint("version", version), zap.Bool("applied", ok))

			return printVersion(cmd, migrationVersion{Version: version, Applied: ok})
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func printVersion(cmd *cobra.Command, v migrationVersion) error {
	out := cmd.OutOrStdout()
	if format, _ := cmd.Flags().GetString("output"); format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	if !v.Applied {
		_, err := fmt.Fprintln(out, "no migrations applied")
		return err
	}
	_, err := fmt.Fprintf(out, "version %d\n", v.Version)
	return err
}
