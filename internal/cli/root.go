package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/realpulse/realpulse/internal/config"
)

var (
	dbPath   string
	cfgPath  string
	verbose  bool
	cfg      config.Config
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "realpulse",
	Short: "realpulse - a business-analytics toolkit for real-estate operations",
	Long: `realpulse is a business-analytics toolkit for real-estate operations:
A/B testing with significance analysis, KPI tracking, descriptive market
analyses, all backed by an embedded SQLite data platform.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("db") && cfg.DBPath != "" {
			dbPath = cfg.DBPath
		}

		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger = zap.NewNop()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", getEnvOrDefault("REALPULSE_DB_PATH", "./realpulse.db"), "database path")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", getEnvOrDefault("REALPULSE_CONFIG", "./realpulse.yaml"), "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "verbose logging")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
