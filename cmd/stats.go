package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexicon/internal/diagnosis"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
}

var statsErrorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Count answer errors by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		var only diagnosis.Category
		if v, _ := cmd.Flags().GetString("category"); v != "" {
			c, ok := diagnosis.ParseCategory(v)
			if !ok {
				return fmt.Errorf("unknown error category %q", v)
			}
			only = c
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.engine.ErrorStats(cmd.Context(), userFlag(cmd), only)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total errors: %d\n", st.Total)
		if st.MostCommon != "" {
			fmt.Fprintf(out, "Most common:  %s\n", st.MostCommon.Label())
		}
		if len(st.ByCategory) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%-24s  %6s\n", "Category", "Count")
			fmt.Fprintln(out, strings.Repeat("─", 32))
			for _, c := range st.ByCategory {
				fmt.Fprintf(out, "%-24s  %6d\n", c.Category.Label(), c.Count)
			}
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Reviews: %d last 30 days, %d last 90 days, %d last year\n",
			st.Reviews.LastMonth, st.Reviews.LastThreeMonths, st.Reviews.LastYear)
		return nil
	},
}

var statsConfidenceCmd = &cobra.Command{
	Use:   "confidence",
	Short: "Relate answer errors to self-rated confidence",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.engine.ConfidenceStats(cmd.Context(), userFlag(cmd))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-24s  %6s  %6s  %6s  %6s  %6s\n", "Category", "Total", "Again", "Hard", "Good", "Easy")
		fmt.Fprintln(out, strings.Repeat("─", 64))
		for _, c := range st.ByCategory {
			fmt.Fprintf(out, "%-24s  %6d  %6d  %6d  %6d  %6d\n",
				c.Category.Label(), c.Total, c.ByRating[0], c.ByRating[1], c.ByRating[2], c.ByRating[3])
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Errors:  %d high confidence, %d low confidence\n", st.HighConfidenceErrors, st.LowConfidenceErrors)
		fmt.Fprintf(out, "Correct: %d high confidence, %d low confidence\n", st.HighConfidenceCorrect, st.LowConfidenceCorrect)
		return nil
	},
}

func init() {
	statsErrorsCmd.Flags().String("category", "", "Only count this category (slug or label)")

	statsCmd.AddCommand(statsErrorsCmd)
	statsCmd.AddCommand(statsConfidenceCmd)
}
