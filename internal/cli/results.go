package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/realpulse/realpulse/internal/abtest"
	"github.com/realpulse/realpulse/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results <test>",
	Short: "Show detailed results for a test",
	Long:  `Show detailed results including conversion rates, confidence intervals and significance.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runResults,
}

func init() {
	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	return withStore(func(p *store.Platform) error {
		ctx := context.Background()

		session, err := loadSession(ctx, p, args[0])
		if err != nil {
			return err
		}

		results, err := session.Results()
		if err != nil {
			return err
		}

		// Print header
		fmt.Printf("TEST: %s\n", session.Name)
		fmt.Printf("STATUS: %s\n", session.Status)
		if session.Hypothesis != "" {
			fmt.Printf("HYPOTHESIS: %s\n", session.Hypothesis)
		}
		fmt.Printf("METRIC: %s\n", session.PrimaryMetric)
		fmt.Printf("PARTICIPANTS: %d\n", results.TotalParticipants)
		fmt.Println()

		// Print variant table
		fmt.Println("VARIANT                 PARTICIPANTS  CONVERSIONS  RATE     AVG VALUE  95% CI")
		fmt.Println(strings.Repeat("─", 80))

		for _, v := range results.Variants {
			indicator := ""
			if results.Winner != nil && v.Name == results.Winner.Name {
				indicator = " ← LEADING"
			}

			ciStr := fmt.Sprintf("[%.1f%%, %.1f%%]", v.CILower*100, v.CIUpper*100)
			if v.Participants == 0 {
				ciStr = "N/A"
			}

			name := v.Name
			if len(name) > 22 {
				name = name[:19] + "..."
			}

			fmt.Printf("%-22s  %-12d  %-11d  %-7s  %-9.2f  %s%s\n",
				name,
				v.Participants,
				v.Conversions,
				formatPercent(v.ConversionRate),
				v.AverageValue,
				ciStr,
				indicator,
			)
		}

		fmt.Println()
		printAnalysis(results)
		return nil
	})
}

func printAnalysis(results *abtest.Results) {
	a := results.Analysis
	if a == nil {
		return
	}

	if a.Error == "insufficient sample size" {
		fmt.Printf("Statistical significance: insufficient sample size (need %d per variant, have %d / %d)\n",
			a.RequiredSampleSize, a.VariantASize, a.VariantBSize)
		return
	}
	if a.Error != "" {
		fmt.Printf("Statistical significance: %s\n", a.Error)
		return
	}
	if a.Note != "" {
		fmt.Printf("Difference in average value: %+.4f (%s)\n", a.Difference, a.Note)
		return
	}

	fmt.Printf("z = %.3f, p = %.4f\n", a.ZScore, a.PValue)
	if results.IsSignificant {
		fmt.Printf("Statistically significant at the %.0f%% confidence level", results.ConfidenceLevel*100)
		if results.Winner != nil {
			fmt.Printf(": \"%s\" wins (%+.1f%% improvement)", results.Winner.Name, results.Winner.Improvement*100)
		}
		fmt.Println()
	} else {
		fmt.Println("Not statistically significant yet.")
	}
}
