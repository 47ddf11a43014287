package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Load catalog items from .xlsx or .csv files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kindFlag, _ := cmd.Flags().GetString("kind")
		kind := catalog.Kind(kindFlag)
		if kind != "" && !kind.Valid() {
			return fmt.Errorf("unknown item kind %q", kindFlag)
		}

		a, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		for _, path := range args {
			res, err := importer.ImportFile(path, kind)
			if err != nil {
				return err
			}
			if err := a.store.Catalog().Put(cmd.Context(), res.Items...); err != nil {
				return fmt.Errorf("store items from %s: %w", path, err)
			}
			a.log.Info("catalog imported", "file", path, "items", len(res.Items), "skipped", res.Skipped)
			fmt.Fprintf(out, "%s: %d rows, %d imported, %d skipped\n", path, res.Processed, len(res.Items), res.Skipped)
			for _, msg := range res.Errors {
				fmt.Fprintf(out, "  %s\n", msg)
			}
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("kind", "", "Item kind for CSV files: word, phrase or group (default from the file name)")
}
