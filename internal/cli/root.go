package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"testforge/internal/config"
	tcSvc "testforge/internal/domain/services/testcase"
	"testforge/internal/repository"
	tcService "testforge/internal/service/testcase"
)

// app carries the state shared by every subcommand
type app struct {
	verbose bool
	logger  *slog.Logger

	// openService is swapped in tests
	openService func(ctx context.Context, logger *slog.Logger) (tcSvc.TestCaseService, func(), error)
}

// NewRootCmd builds the testforge command tree
func NewRootCmd() *cobra.Command {
	a := &app{
		logger:      slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		openService: openConfiguredService,
	}
	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "testforge",
		Short: "Extract user stories and manage stored test cases",
		Long: `testforge works against the same storage as the HTTP server.

Storage is selected through the environment (STORAGE_DRIVER, DATA_DIR,
DATABASE_URL), and a .env file in the working directory is honored.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(
		a.extractCmd(),
		a.listCmd(),
		a.exportCmd(),
		a.deleteCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func openConfiguredService(ctx context.Context, logger *slog.Logger) (tcSvc.TestCaseService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	repo, closeRepo, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return tcService.NewService(repo, logger), closeRepo, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
