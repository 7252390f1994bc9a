package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/realpulse/realpulse/internal/abtest"
	"github.com/realpulse/realpulse/internal/store"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <test>",
	Short: "Export test results",
	Long: `Export the current results snapshot in JSON or CSV format.

Examples:
  realpulse export my-test --format json > results.json
  realpulse export my-test --format csv > variants.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format (json or csv)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("invalid format: must be 'csv' or 'json'")
	}

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

		if exportFormat == "csv" {
			return exportResultsCSV(results)
		}
		return exportResultsJSON(results)
	})
}

func exportResultsCSV(results *abtest.Results) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"variant", "traffic_allocation", "participants", "conversions", "conversion_rate", "total_value", "average_value"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, v := range results.Variants {
		row := []string{
			v.Name,
			strconv.FormatFloat(v.TrafficAllocation, 'f', -1, 64),
			strconv.Itoa(v.Participants),
			strconv.Itoa(v.Conversions),
			strconv.FormatFloat(v.ConversionRate, 'f', 6, 64),
			strconv.FormatFloat(v.TotalValue, 'f', 2, 64),
			strconv.FormatFloat(v.AverageValue, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	return nil
}

func exportResultsJSON(results *abtest.Results) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}
