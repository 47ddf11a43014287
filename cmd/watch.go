package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexicon/internal/engine"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically report learners with due reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		log := a.log.With("component", "watch")
		w := engine.NewDueWatcher(a.engine, a.store.Reviews(), engine.LogNotifier{Log: log}, limit, log)
		if err := w.Start(interval); err != nil {
			return err
		}
		defer w.Stop()
		fmt.Fprintf(cmd.OutOrStdout(), "Checking due reviews every %s. Press Ctrl+C to stop.\n", interval)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)
		select {
		case <-sig:
		case <-cmd.Context().Done():
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().Duration("interval", time.Hour, "Time between checks")
	watchCmd.Flags().Int("limit", 100, "Maximum due reviews counted per learner")
}
