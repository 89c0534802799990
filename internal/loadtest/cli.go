package loadtest

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/tastesearch/pkg/logger"
)

// defaultRunTimeout bounds a whole load run.
const defaultRunTimeout = 10 * time.Minute

// NewRootCmd returns the loadtest command tree with seed and run subcommands.
func NewRootCmd() *cobra.Command {
	var (
		logFormat string
		logLevel  string
	)
	root := &cobra.Command{
		Use:           "loadtest",
		Short:         "Seed synthetic catalogs and load-test the search service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWith(cmd.ErrOrStderr(), logFormat); err != nil {
				return err
			}
			return logger.SetLevelString(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	root.AddCommand(newSeedCmd(), newRunCmd())
	return root
}

func newSeedCmd() *cobra.Command {
	cfg := DefaultSeedConfig()
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a synthetic catalog snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Seed(cmd.Context(), cfg)
		},
	}
	cmd.Flags().IntVar(&cfg.People, "people", cfg.People, "Number of people to generate")
	cmd.Flags().IntVar(&cfg.Genres, "genres", cfg.Genres, "Number of genres")
	cmd.Flags().IntVar(&cfg.ArtistsPerGenre, "artists", cfg.ArtistsPerGenre, "Artists per genre")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "PRNG seed")
	cmd.Flags().StringVarP(&cfg.Out, "out", "o", cfg.Out, "Snapshot file to write")
	return cmd
}

func newRunCmd() *cobra.Command {
	cfg := DefaultConfig()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Issue concurrent searches and verify every response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Verbose {
				_ = logger.SetLevelString("debug")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultRunTimeout)
			defer cancel()
			_, err := Run(ctx, cfg)
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Base URL of the service")
	cmd.Flags().IntVar(&cfg.Queries, "queries", cfg.Queries, "Number of searches to issue")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of concurrent workers")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	cmd.Flags().StringSliceVar(&cfg.Terms, "terms", cfg.Terms, "Query texts to cycle through")
	cmd.Flags().BoolVar(&cfg.Probe, "probe", cfg.Probe, "Exercise the add-artist conflict path")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every verified response")
	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Stderr.WriteString("error: " + err.Error() + "\n")
		return 1
	}
	return 0
}
