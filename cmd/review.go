package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/grading"
	"github.com/abhisek/lexicon/internal/spacedrep"
)

var rateCmd = &cobra.Command{
	Use:   "rate <kind> <id> <rating>",
	Short: "Rate how well an item was recalled (1 again, 2 hard, 3 good, 4 easy)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := parseRef(args[0], args[1])
		if err != nil {
			return err
		}
		rating, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid rating %q: %w", args[2], err)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		key := spacedrep.Key{UserID: userFlag(cmd), Kind: ref.Kind, ItemID: ref.ID}
		rec, err := a.engine.Review(cmd.Context(), key, spacedrep.Rating(rating))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Rated %s %s.\n", ref, spacedrep.Rating(rating))
		fmt.Fprintf(out, "Phase:    %s\n", rec.State.Phase)
		fmt.Fprintf(out, "Next due: %s\n", rec.State.Due.Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "Review:   %v\n", rec.InRotation)
		return nil
	},
}

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List reviews that are due now",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		due, err := a.engine.ListDue(cmd.Context(), userFlag(cmd), limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(due) == 0 {
			fmt.Fprintln(out, "Nothing due.")
			return nil
		}
		fmt.Fprintf(out, "%-8s  %8s  %-16s  %s\n", "Kind", "ID", "Due", "Reviews")
		fmt.Fprintln(out, strings.Repeat("─", 48))
		for _, r := range due {
			fmt.Fprintf(out, "%-8s  %8d  %-16s  %d\n",
				r.Kind, r.ItemID, r.State.Due.Local().Format("2006-01-02 15:04"), len(r.Logs))
		}
		return nil
	},
}

var gradeCmd = &cobra.Command{
	Use:   "grade <kind> <id> <answer>...",
	Short: "Check an answer and record the attempt",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := parseRef(args[0], args[1])
		if err != nil {
			return err
		}
		answer := strings.Join(args[2:], " ")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.engine.GradeAnswer(cmd.Context(), userFlag(cmd), ref, answer)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if res.Correct {
			fmt.Fprintln(out, "Correct!")
			return nil
		}
		fmt.Fprintf(out, "Wrong. Expected %q.\n", res.Expected)
		if res.Error != nil {
			fmt.Fprintf(out, "Error:    %s\n", res.Error.Category.Label())
			if res.Error.Rationale != "" {
				fmt.Fprintf(out, "Why:      %s\n", res.Error.Rationale)
			}
		}
		return nil
	},
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Start a training session",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		review, _ := cmd.Flags().GetBool("review")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.engine.StartTraining(cmd.Context(), userFlag(cmd), count, review)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "Nothing to practise.")
			return nil
		}
		for i, it := range items {
			fmt.Fprintf(out, "%2d. %s", i+1, it.Ref)
			if s, ok := it.Item.(*catalog.Standalone); ok && s.MeaningCount > 0 {
				fmt.Fprintf(out, " (%d meanings)", s.MeaningCount)
			}
			if it.Record != nil && it.Record.State != nil {
				fmt.Fprintf(out, "  due %s", it.Record.State.Due.Local().Format("2006-01-02"))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	dueCmd.Flags().Int("limit", 20, "Maximum number of reviews")
	trainCmd.Flags().Int("count", 10, "Number of items")
	trainCmd.Flags().Bool("review", false, "Practise due reviews instead of the latest study set")
}

// parseRef reads an item reference such as "word 12".
func parseRef(kind, id string) (grading.ItemRef, error) {
	k := catalog.Kind(strings.ToLower(kind))
	if !k.Valid() {
		return grading.ItemRef{}, fmt.Errorf("unknown item kind %q (want word, phrase or group)", kind)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return grading.ItemRef{}, fmt.Errorf("invalid item id %q: %w", id, err)
	}
	return grading.ItemRef{Kind: k, ID: n}, nil
}
