package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/realpulse/realpulse/internal/abtest"
	"github.com/realpulse/realpulse/internal/store"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all tests",
		Long:  `List all A/B tests with their status and participation counts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				ctx := context.Background()

				experiments, err := p.ListExperiments(ctx)
				if err != nil {
					return fmt.Errorf("failed to list tests: %w", err)
				}

				if len(experiments) == 0 {
					fmt.Println("No tests yet.")
					fmt.Println()
					fmt.Println("Create one with: realpulse create --template pricing_strategy")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tID\tSTATUS\tVARIANTS\tPARTICIPANTS\tCREATED")

				for _, exp := range experiments {
					if status != "" && exp.Status != status {
						continue
					}

					var session abtest.Session
					if err := json.Unmarshal(exp.Payload, &session); err != nil {
						return fmt.Errorf("failed to decode test snapshot: %w", err)
					}

					participants := 0
					for _, v := range session.Variants {
						participants += v.Participants
					}

					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
						session.Name,
						shortID(session.ID),
						strings.ToUpper(string(session.Status)),
						len(session.Variants),
						participants,
						exp.CreatedAt.Format("2006-01-02"),
					)
				}

				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (draft, running, paused, completed, cancelled)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
