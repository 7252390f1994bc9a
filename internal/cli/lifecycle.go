package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/realpulse/realpulse/internal/abtest"
	"github.com/realpulse/realpulse/internal/store"
)

func init() {
	rootCmd.AddCommand(
		newLifecycleCmd("start", "Start a draft test",
			func(s *abtest.Session) error { return s.Start() },
			func(s *abtest.Session) {
				fmt.Printf("Test '%s' is now running until %s\n", s.Name, s.EndTime.Format("2006-01-02"))
			}),
		newLifecycleCmd("pause", "Pause a running test",
			func(s *abtest.Session) error { s.Pause(); return nil },
			func(s *abtest.Session) {
				fmt.Printf("Test '%s' status: %s\n", s.Name, s.Status)
			}),
		newLifecycleCmd("resume", "Resume a paused test",
			func(s *abtest.Session) error { s.Resume(); return nil },
			func(s *abtest.Session) {
				fmt.Printf("Test '%s' status: %s\n", s.Name, s.Status)
			}),
		newLifecycleCmd("stop", "Complete a test and freeze its results",
			func(s *abtest.Session) error { return s.Stop() },
			printStopSummary),
		newLifecycleCmd("cancel", "Cancel a test",
			func(s *abtest.Session) error { return s.Cancel() },
			func(s *abtest.Session) {
				fmt.Printf("Test '%s' has been cancelled.\n", s.Name)
			}),
	)
}

func newLifecycleCmd(use, short string, transition func(*abtest.Session) error, report func(*abtest.Session)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <test>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(p *store.Platform) error {
				ctx := context.Background()

				session, err := loadSession(ctx, p, args[0])
				if err != nil {
					return err
				}

				if err := transition(session); err != nil {
					return err
				}

				if err := saveSession(ctx, p, session); err != nil {
					return err
				}

				report(session)
				return nil
			})
		},
	}
}

func printStopSummary(s *abtest.Session) {
	fmt.Printf("Test '%s' completed.\n", s.Name)

	results := s.FinalResults
	if results == nil {
		return
	}
	if results.Winner != nil {
		fmt.Printf("Winner: %s (%s %.4f", results.Winner.Name, results.Winner.Metric, results.Winner.Value)
		if results.Winner.Improvement != 0 {
			fmt.Printf(", %+.1f%% over runner-up", results.Winner.Improvement*100)
		}
		fmt.Println(")")
	}
	if results.IsSignificant {
		fmt.Println("The result is statistically significant.")
	} else {
		fmt.Println("The result is not statistically significant.")
	}
}
