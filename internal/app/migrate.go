package app

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// NewMigrateCmd builds the migrate command, which applies every pending
// migration for the configured driver and exits.
func NewMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("running database migrations", "driver", app.Config.DatabaseDriver)

			db, err := openAndMigrate(cmd.Context(), app.Config)
			if err != nil {
				return err
			}
			defer db.Close()

			slog.Info("database migrations completed successfully")
			return nil
		},
	}
}
