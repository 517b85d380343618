package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"clicker_webapp/internal/app"
	"clicker_webapp/internal/catalog"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "upsert the rank and task catalogs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, pool := connect(ctx)
		defer pool.Close()

		ladder, err := app.Migrate(ctx, pool)
		if err != nil {
			return err
		}
		svc, err := app.NewServices(cfg, pool, ladder)
		if err != nil {
			return err
		}
		n, err := svc.SeedTasks(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d ranks, %d tasks\n", len(ladder), n)
		return nil
	},
}

var ranksCmd = &cobra.Command{
	Use:   "ranks",
	Short: "print the embedded rank ladder",
	RunE: func(cmd *cobra.Command, args []string) error {
		ladder, err := catalog.Ranks()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLEAGUE\tFORCE\tMAX ENERGY\tREGEN/S\tPRICE")
		for _, r := range ladder {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\t%d\n",
				r.ID, r.Name, r.League, r.PressForce, r.MaxEnergy,
				strconv.FormatFloat(r.EnergyPerSecond, 'f', -1, 64), r.Price)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(seedCmd, ranksCmd)
}
