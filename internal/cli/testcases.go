package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"testforge/internal/domain/models/testcase"
	"testforge/internal/service/export"
)

func (a *app) listCmd() *cobra.Command {
	var filter struct {
		status, priority, testType, tag string
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored test cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.openService(cmd.Context(), a.logger)
			if err != nil {
				return err
			}
			defer closeFn()

			cases, err := svc.List(cmd.Context(), testcase.Filter{
				Status:   testcase.Status(filter.status),
				Priority: testcase.Priority(filter.priority),
				Type:     testcase.TestType(filter.testType),
				Tag:      filter.tag,
			})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tTYPE\tTITLE")
			for _, tc := range cases {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", tc.ID, tc.Status, tc.Priority, tc.Type, tc.Title)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d test cases\n", len(cases))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.status, "status", "", "filter by status (Draft, Review, Approved)")
	cmd.Flags().StringVar(&filter.priority, "priority", "", "filter by priority")
	cmd.Flags().StringVar(&filter.testType, "type", "", "filter by test type")
	cmd.Flags().StringVar(&filter.tag, "tag", "", "filter by tag (case-insensitive)")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var (
		format string
		ids    []string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored test cases as csv, xlsx or json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, err := export.NewRegistry().Get(format)
			if err != nil {
				return err
			}

			svc, closeFn, err := a.openService(cmd.Context(), a.logger)
			if err != nil {
				return err
			}
			defer closeFn()

			cases, err := svc.GetMany(cmd.Context(), ids)
			if err != nil {
				return err
			}
			if len(cases) == 0 {
				return fmt.Errorf("no test cases to export")
			}

			out, err := exporter.Export(cases)
			if err != nil {
				return err
			}

			if output == "" {
				output = out.FileName
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(out.Data)
				return err
			}
			if err := os.WriteFile(output, out.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d test cases to %s\n", len(cases), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format ("+strings.Join(export.NewRegistry().Formats(), ", ")+")")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "only export these ids (comma separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default test-cases.<format>)`)
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more test cases",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.openService(cmd.Context(), a.logger)
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := svc.BulkDelete(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, item := range result.Results {
				if item.Error != "" {
					fmt.Fprintf(out, "%s\t%s\t%s\n", item.ID, item.Outcome, item.Error)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", item.ID, item.Outcome)
			}
			fmt.Fprintf(out, "deleted %d, not found %d, failed %d\n", result.Deleted, result.NotFound, result.Failed)
			if result.Failed > 0 {
				return fmt.Errorf("%d deletions failed", result.Failed)
			}
			return nil
		},
	}
}
