package main

import (
	"context"
	"errors"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/thomas-vilte/matereview/internal/commands/review"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	// A local .env never overrides variables set by the runner.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		_, _ = os.Stderr.WriteString("warning: could not load .env: " + err.Error() + "\n")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:           "matereview",
		Usage:          "AI review of GitHub pull requests with Gemini",
		Version:        version.FullVersion(),
		DefaultCommand: "review",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logs",
				Sources: cli.EnvVars("RUNNER_DEBUG"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable info logs",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			log := logger.Initialize(logger.Options{
				Debug:   cmd.Bool("debug"),
				Verbose: cmd.Bool("verbose"),
				Actions: os.Getenv("GITHUB_ACTIONS") == "true",
			})
			runID := uuid.NewString()
			return logger.WithLogger(ctx, log.With("run_id", runID, "version", version.FullVersion())), nil
		},
		Commands: []*cli.Command{
			review.NewReviewCommand().CreateCommand(),
		},
	}
}
