package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/realpulse/realpulse/internal/abtest"
	"github.com/realpulse/realpulse/internal/store"
)

func init() {
	rootCmd.AddCommand(newCreateCmd())
}

func newCreateCmd() *cobra.Command {
	var (
		template    string
		description string
		testType    string
		hypothesis  string
		metric      string
	)

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new A/B test",
		Long: `Create a new A/B test from a template or as a custom draft.

Templates carry a pre-defined variant set and primary metric. A custom
test starts empty; add variants with 'variant add' before starting it.

Examples:
  realpulse create --template pricing_strategy
  realpulse create spring-pricing --template pricing_strategy --hypothesis "Premium pricing converts better"
  realpulse create my-test --description "Open house formats" --metric average_value`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			// Custom tests need an explicit name.
			if template == "" && !cmd.Flags().Changed("description") && !cmd.Flags().Changed("metric") {
				selected, err := promptTemplate()
				if err != nil {
					return err
				}
				template = selected
			}
			if template == "" && name == "" {
				return fmt.Errorf("custom tests need a name. Example: realpulse create my-test --description \"...\"")
			}

			catalog := abtest.NewCatalog(logger)

			var session *abtest.Session
			var err error
			if template != "" {
				session, err = catalog.CreateFromTemplate(template, name, hypothesis)
				if err != nil {
					return fmt.Errorf("failed to create test: %w", err)
				}
			} else {
				session = catalog.CreateCustom(name, description, testType, hypothesis)
				if metric == "average_value" {
					session.PrimaryMetric = abtest.MetricAverageValue
				}
			}

			return withStore(func(p *store.Platform) error {
				if err := saveSession(context.Background(), p, session); err != nil {
					return err
				}

				fmt.Printf("Created test '%s' (%s)\n", session.Name, session.ID)
				fmt.Printf("  Status: %s\n", session.Status)
				fmt.Printf("  Primary metric: %s\n", session.PrimaryMetric)
				if len(session.Variants) > 0 {
					fmt.Printf("  Variants:\n")
					for _, v := range session.Variants {
						fmt.Printf("    %-24s %.0f%%  %s\n", v.Name, v.TrafficAllocation*100, v.Description)
					}
				} else {
					fmt.Println("  No variants yet. Add at least 2 with 'variant add' before starting.")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "template name (see 'create --help')")
	cmd.Flags().StringVar(&description, "description", "", "test description (custom tests)")
	cmd.Flags().StringVar(&testType, "type", "", "test type label (custom tests)")
	cmd.Flags().StringVar(&hypothesis, "hypothesis", "", "hypothesis under test")
	cmd.Flags().StringVar(&metric, "metric", "conversion_rate", "primary metric (conversion_rate or average_value)")

	return cmd
}

func promptTemplate() (string, error) {
	items := append(abtest.TemplateNames(), "custom")

	prompt := promptui.Select{
		Label: "Test template",
		Items: items,
		Size:  len(items),
	}

	idx, _, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return "", err
	}

	if items[idx] == "custom" {
		return "", nil
	}
	return items[idx], nil
}
