package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/realpulse/realpulse/internal/abtest"
	"github.com/realpulse/realpulse/internal/store"
)

func init() {
	variantCmd := &cobra.Command{
		Use:   "variant",
		Short: "Manage test variants",
	}
	variantCmd.AddCommand(newVariantAddCmd())
	rootCmd.AddCommand(variantCmd)
}

func newVariantAddCmd() *cobra.Command {
	var (
		name        string
		description string
		allocation  float64
	)

	cmd := &cobra.Command{
		Use:   "add <test>",
		Short: "Add a variant to a draft test",
		Long: `Add a variant to a draft test. Traffic allocations across all
variants must total 100% before the test can start.

Example:
  realpulse variant add my-test --name "Control" --allocation 0.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				ctx := context.Background()

				session, err := loadSession(ctx, p, args[0])
				if err != nil {
					return err
				}

				err = session.AddVariant(abtest.Variant{
					Name:              name,
					Description:       description,
					TrafficAllocation: allocation,
				})
				if err != nil {
					return fmt.Errorf("failed to add variant: %w", err)
				}

				if err := saveSession(ctx, p, session); err != nil {
					return err
				}

				fmt.Printf("Added variant '%s' (%.0f%%) to test '%s'\n", name, allocation*100, session.Name)
				fmt.Printf("Total allocation: %.0f%%\n", session.AllocationSum()*100)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "variant name (required)")
	cmd.Flags().StringVar(&description, "description", "", "variant description")
	cmd.Flags().Float64VarP(&allocation, "allocation", "a", 0, "traffic allocation in [0,1] (required)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("allocation")

	return cmd
}
