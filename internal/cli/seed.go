package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/realpulse/realpulse/internal/store"
)

func init() {
	var seedValue int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with sample property and market data",
		Long: `Seed replaces the properties and market_data tables with generated
sample data so the analytics and KPI commands have something to work
with. Experiments and KPI history are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				if err := p.Seed(context.Background(), seedValue); err != nil {
					return err
				}
				fmt.Println("Sample data generated.")
				fmt.Println("Try 'realpulse kpi calc' or 'realpulse analyze market' next.")
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&seedValue, "seed", 42, "random seed for reproducible data")
	rootCmd.AddCommand(cmd)
}
