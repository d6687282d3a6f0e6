package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"testforge/internal/service/extraction"
)

func (a *app) extractCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract candidate user stories from a .txt, .csv, .xlsx or .xls file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			extractor := extraction.NewStoryExtractor(nil, a.logger)
			result, err := extractor.Extract(cmd.Context(), filepath.Base(args[0]), content)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, result)
			}
			for _, s := range result.Stories {
				fmt.Fprintf(out, "%d\t%s\t%s\n", s.ID, s.Source, s.Content)
			}
			fmt.Fprintf(out, "%d stories found in %s\n", result.TotalFound, result.FileName)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full parse result as JSON")
	return cmd
}
