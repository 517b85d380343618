package main

import (
	"fmt"

	"clicker_webapp/internal/app"
	"clicker_webapp/internal/migrations"

	"github.com/spf13/cobra"
)

var migrateList bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "apply embedded SQL migrations and upsert the rank catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateList {
			names, err := migrations.Names()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		}

		ctx := cmd.Context()
		_, pool := connect(ctx)
		defer pool.Close()

		ladder, err := app.Migrate(ctx, pool)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema up to date, %d ranks\n", len(ladder))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateList, "list", false, "only list embedded migration files")
	rootCmd.AddCommand(migrateCmd)
}
