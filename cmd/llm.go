package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		verbose, _ := cmd.Flags().GetBool("verbose")

		a, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		events, err := a.store.LLMEvents().List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM events found.")
			return nil
		}

		fmt.Fprintf(out, "%-8s  %-19s  %-15s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 105))

		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			model := e.Model
			if len(model) > 28 {
				model = model[:28]
			}
			fmt.Fprintf(out, "%-8s  %-19s  %-15s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID[:min(8, len(e.ID))],
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				model,
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
			if verbose {
				if e.ErrorMessage != "" {
					fmt.Fprintf(out, "          error:    %s\n", e.ErrorMessage)
				}
				if e.ResponseBody != "" {
					fmt.Fprintf(out, "          response: %s\n", e.ResponseBody)
				}
			}
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		usage, err := a.store.LLMEvents().Usage(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(usage) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-12s  %-28s  %6s  %6s  %10s  %10s  %8s  %10s\n",
			"Provider", "Model", "Calls", "Failed", "Input", "Output", "Avg Ms", "Cost")
		fmt.Fprintln(out, strings.Repeat("─", 104))

		var (
			totalCalls    int
			totalIn       int64
			totalOut      int64
			totalCost     float64
			unknownModels []string
		)
		for _, u := range usage {
			cost := "n/a"
			if c, ok := u.CostUSD(); ok {
				cost = fmt.Sprintf("$%.4f", c)
				totalCost += c
			} else {
				unknownModels = append(unknownModels, u.Model)
			}
			fmt.Fprintf(out, "%-12s  %-28s  %6d  %6d  %10d  %10d  %8.0f  %10s\n",
				u.Provider, u.Model, u.Calls, u.Failures, u.InputTokens, u.OutputTokens, u.AvgLatencyMs, cost)
			totalCalls += u.Calls
			totalIn += u.InputTokens
			totalOut += u.OutputTokens
		}
		fmt.Fprintln(out, strings.Repeat("─", 104))
		fmt.Fprintf(out, "%-12s  %-28s  %6d  %6s  %10d  %10d  %8s  %10s\n",
			"TOTAL", "", totalCalls, "", totalIn, totalOut, "", fmt.Sprintf("$%.4f", totalCost))

		if len(unknownModels) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "No pricing data for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

func init() {
	llmListCmd.Flags().Int("limit", 20, "Number of events to show")
	llmListCmd.Flags().String("purpose", "", "Filter by purpose (e.g. classify-answer)")
	llmListCmd.Flags().BoolP("verbose", "v", false, "Show errors and responses")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
