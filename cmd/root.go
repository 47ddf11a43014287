package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/lexicon/internal/config"
	"github.com/abhisek/lexicon/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "lexicon",
	Short:        "Vocabulary study engine",
	Long:         "Lexicon schedules vocabulary reviews, builds personalised study sets and grades answers.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite path or postgres:// DSN (overrides LEXICON_DB)")
	rootCmd.PersistentFlags().String("env", ".env", "Path to an optional .env file")
	rootCmd.PersistentFlags().String("log", "", "Log mode: dev or prod (overrides LEXICON_LOG_MODE)")
	rootCmd.PersistentFlags().Int64("user", 1, "Learner id")

	rootCmd.AddCommand(studysetCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the .env file and environment, then applies flag
// overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env")
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}
	if mode, _ := cmd.Flags().GetString("log"); mode != "" {
		cfg.LogMode = mode
	}
	return cfg, cfg.Validate()
}

// resolveDBPath returns the database using --db flag (highest priority),
// then LEXICON_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func userFlag(cmd *cobra.Command) int64 {
	id, _ := cmd.Flags().GetInt64("user")
	return id
}
