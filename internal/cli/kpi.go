package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/realpulse/realpulse/internal/kpi"
	"github.com/realpulse/realpulse/internal/store"
)

func init() {
	kpiCmd := &cobra.Command{
		Use:   "kpi",
		Short: "Track and calculate KPIs",
	}
	kpiCmd.AddCommand(newKPIListCmd(), newKPICalcCmd(), newKPIHistoryCmd(), newKPIExportCmd())
	rootCmd.AddCommand(kpiCmd)
}

// buildCatalog constructs the KPI catalog against the open platform,
// applies configured target overrides and hydrates value histories from
// the tracking table.
func buildCatalog(ctx context.Context, p *store.Platform) (*kpi.Catalog, error) {
	catalog := kpi.NewCatalog(p, logger)

	for name, target := range cfg.KPITargets {
		r, err := catalog.Get(name)
		if err != nil {
			logger.Warn("ignoring target override for unknown kpi", zap.String("kpi", name))
			continue
		}
		t := target
		r.TargetValue = &t
	}

	for _, r := range catalog.List() {
		history, err := p.KPIHistory(ctx, r.Name)
		if err != nil {
			return nil, err
		}
		for _, obs := range history {
			r.RecordValue(obs.Value, obs.Date, "")
		}
	}

	return catalog, nil
}

func newKPIListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all KPIs with trend and performance status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				catalog, err := buildCatalog(context.Background(), p)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "KPI\tCATEGORY\tCURRENT\tTARGET\tUNIT\tTREND\tSTATUS")

				for _, r := range catalog.List() {
					if !r.Active {
						continue
					}
					s := r.Snapshot()
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						s.Name,
						s.Category,
						formatOptional(s.CurrentValue),
						formatOptional(s.TargetValue),
						s.Unit,
						s.Trend,
						s.PerformanceStatus,
					)
				}

				return w.Flush()
			})
		},
	}
}

func newKPICalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc [name]",
		Short: "Calculate one KPI or all active KPIs",
		Long: `Calculate KPI values from the data platform and persist them to the
tracking table. Without a name, all active KPIs are calculated; a KPI
that fails is logged and skipped so the rest still compute.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				ctx := context.Background()
				now := time.Now()

				catalog, err := buildCatalog(ctx, p)
				if err != nil {
					return err
				}

				if len(args) == 1 {
					value, err := catalog.Calculate(ctx, args[0], now)
					if err != nil {
						return err
					}
					if err := persistKPI(ctx, p, catalog, args[0], value, now); err != nil {
						return err
					}
					fmt.Printf("%s = %.4f\n", args[0], value)
					return nil
				}

				report := catalog.CalculateAll(ctx, now)

				names := make([]string, 0, len(report.Values))
				for name := range report.Values {
					names = append(names, name)
				}
				sort.Strings(names)

				for _, name := range names {
					if err := persistKPI(ctx, p, catalog, name, report.Values[name], now); err != nil {
						return err
					}
					fmt.Printf("%-28s %.4f\n", name, report.Values[name])
				}

				if len(report.Failures) > 0 {
					fmt.Println()
					fmt.Printf("%d KPI(s) skipped:\n", len(report.Failures))
					failed := make([]string, 0, len(report.Failures))
					for name := range report.Failures {
						failed = append(failed, name)
					}
					sort.Strings(failed)
					for _, name := range failed {
						fmt.Printf("  %s: %s\n", name, report.Failures[name])
					}
				}

				return nil
			})
		},
	}
}

func persistKPI(ctx context.Context, p *store.Platform, catalog *kpi.Catalog, name string, value float64, date time.Time) error {
	r, err := catalog.Get(name)
	if err != nil {
		return err
	}
	return p.RecordKPIValue(ctx, name, value, r.TargetValue, string(r.Category), date)
}

func newKPIHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <name>",
		Short: "Show the recorded history of one KPI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				history, err := p.KPIHistory(context.Background(), args[0])
				if err != nil {
					return err
				}
				if len(history) == 0 {
					fmt.Printf("No recorded values for '%s'. Run 'kpi calc' first.\n", args[0])
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "DATE\tVALUE\tTARGET")
				for _, obs := range history {
					fmt.Fprintf(w, "%s\t%.4f\t%s\n",
						obs.Date.Format("2006-01-02"),
						obs.Value,
						formatOptional(obs.Target),
					)
				}
				return w.Flush()
			})
		},
	}
}

func newKPIExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the KPI dashboard as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				catalog, err := buildCatalog(context.Background(), p)
				if err != nil {
					return err
				}

				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(catalog.Dashboard())
			})
		},
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *v)
}
