package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/the-dev-tools/todolist/internal/config"
	"github.com/the-dev-tools/todolist/internal/migrate"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := config.NewLogger(cfg.Log, os.Stderr)

		_, cleanup, err := openDatabase(cmd.Context(), cfg.DB, logger)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		defer cleanup()

		fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date (%d migrations)\n", cfg.DB.Path, len(migrate.List()))
		return nil
	},
}
