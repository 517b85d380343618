// Command clickerctl is the operator tool: schema migrations, catalog
// seeding and test sessions.
package main

import (
	"context"
	"os"

	"clicker_webapp/internal/config"
	"clicker_webapp/internal/db"
	"clicker_webapp/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "clickerctl",
	Short:        "operate the clicker backend database",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(os.Getenv("LOG_LEVEL"), false)
	},
}

// connect loads the environment config and opens the pool.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool) {
	cfg := config.Load()
	return cfg, db.Connect(ctx, cfg.DatabaseURL)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
