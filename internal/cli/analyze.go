package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/realpulse/realpulse/internal/analysis"
	"github.com/realpulse/realpulse/internal/store"
)

func init() {
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run analytics over the data platform",
	}
	analyzeCmd.AddCommand(newAnalyzeMarketCmd(), newAnalyzePropertyCmd(), newAnalyzeRentalCmd())
	rootCmd.AddCommand(analyzeCmd)
}

func printReport(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newAnalyzeMarketCmd() *cobra.Command {
	var region string
	var periodDays int

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Analyze market trends by region",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				report, err := analysis.MarketTrends(context.Background(), p, region, periodDays)
				if err != nil {
					return err
				}
				return printReport(report)
			})
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "limit the analysis to one region")
	cmd.Flags().IntVar(&periodDays, "period", 90, "analysis window in days")
	return cmd
}

func newAnalyzePropertyCmd() *cobra.Command {
	var propertyType string

	cmd := &cobra.Command{
		Use:   "property",
		Short: "Analyze sales performance by property type",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				report, err := analysis.PropertyPerformance(context.Background(), p, propertyType)
				if err != nil {
					return err
				}
				return printReport(report)
			})
		},
	}

	cmd.Flags().StringVar(&propertyType, "type", "", "limit the analysis to one property type")
	return cmd
}

func newAnalyzeRentalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rental",
		Short: "Analyze rental portfolio performance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				report, err := analysis.RentalPerformance(context.Background(), p)
				if err != nil {
					return err
				}
				return printReport(report)
			})
		},
	}
}
