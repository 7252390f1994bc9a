package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/realpulse/realpulse/internal/store"
)

func init() {
	rootCmd.AddCommand(newRecordCmd())
}

func newRecordCmd() *cobra.Command {
	var (
		variant   string
		converted bool
		value     float64
		count     int
	)

	cmd := &cobra.Command{
		Use:   "record <test>",
		Short: "Record trial outcomes for a variant",
		Long: `Record one or more trial outcomes against a variant.

Examples:
  realpulse record my-test --variant "Market Price"
  realpulse record my-test --variant "Premium Price" --converted --value 485000
  realpulse record my-test --variant "Control" --count 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}

			return withStore(func(p *store.Platform) error {
				ctx := context.Background()

				session, err := loadSession(ctx, p, args[0])
				if err != nil {
					return err
				}

				for i := 0; i < count; i++ {
					if err := session.RecordTrial(variant, converted, value); err != nil {
						return err
					}
				}

				if err := saveSession(ctx, p, session); err != nil {
					return err
				}

				v := session.Variant(variant)
				fmt.Printf("Recorded %d trial(s) for '%s': %d participants, %d conversions (%s)\n",
					count, variant, v.Participants, v.Conversions, formatPercent(v.ConversionRate()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&variant, "variant", "v", "", "variant name (required)")
	cmd.Flags().BoolVarP(&converted, "converted", "c", false, "trial resulted in a conversion")
	cmd.Flags().Float64Var(&value, "value", 0, "conversion value")
	cmd.Flags().IntVar(&count, "count", 1, "number of identical trials to record")
	cmd.MarkFlagRequired("variant")

	return cmd
}
