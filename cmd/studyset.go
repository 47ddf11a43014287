package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/studyset"
)

var studysetCmd = &cobra.Command{
	Use:   "studyset",
	Short: "Generate and inspect study sets",
}

var studysetGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build a new study set for the learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("root")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		set, err := a.engine.GenerateStudySet(cmd.Context(), userFlag(cmd), root)
		if err != nil {
			return userFacing(err)
		}
		printStudySet(cmd.OutOrStdout(), set)
		return nil
	},
}

var studysetLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the learner's most recent study set",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetBool("root")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		set, err := a.engine.LatestStudySet(cmd.Context(), userFlag(cmd), root)
		if err != nil {
			return err
		}
		if set == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No study set yet.")
			return nil
		}
		printStudySet(cmd.OutOrStdout(), set)
		return nil
	},
}

var studysetBatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate study sets for several learners concurrently",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, _ := cmd.Flags().GetInt64Slice("users")
		workers, _ := cmd.Flags().GetInt("workers")
		if len(users) == 0 {
			return fmt.Errorf("--users is required")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if workers <= 0 {
			workers = a.cfg.Workers
		}

		results, err := a.engine.GenerateStudySets(cmd.Context(), users, workers)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(out, "user %-6d  error: %v\n", r.UserID, userFacing(r.Err))
				continue
			}
			fmt.Fprintf(out, "user %-6d  %s  %d items\n", r.UserID, r.Set.ID, r.Set.Selection.Len())
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d generations failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	studysetGenerateCmd.Flags().String("root", "", "Select every item built on this root instead of optimizing")
	studysetLatestCmd.Flags().Bool("root", false, "Show the latest root study set")
	studysetBatchCmd.Flags().Int64Slice("users", nil, "Learner ids")
	studysetBatchCmd.Flags().Int("workers", 0, "Concurrent generations (default LEXICON_STUDYSET_WORKERS)")

	studysetCmd.AddCommand(studysetGenerateCmd)
	studysetCmd.AddCommand(studysetLatestCmd)
	studysetCmd.AddCommand(studysetBatchCmd)
}

func printStudySet(w io.Writer, set *studyset.StudySet) {
	fmt.Fprintf(w, "Study set %s (user %d, %s)\n", set.ID, set.UserID, set.CreatedAt.Local().Format("2006-01-02 15:04"))
	if set.IsRoot() {
		fmt.Fprintf(w, "Root:     %s\n", set.Root)
	}
	for _, kind := range catalog.Kinds {
		ids := set.Selection.IDs(kind)
		fmt.Fprintf(w, "%-8s  %s\n", kind+":", joinIDs(ids))
	}
}

func joinIDs(ids []int64) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, " ")
}
