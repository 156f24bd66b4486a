package review

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/thomas-vilte/matereview/internal/action"
	"github.com/thomas-vilte/matereview/internal/ai/gemini"
	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/report"
	reviewer "github.com/thomas-vilte/matereview/internal/review"
	"github.com/thomas-vilte/matereview/internal/services"
	"github.com/thomas-vilte/matereview/internal/ui"
	"github.com/thomas-vilte/matereview/internal/vcs/github"
	"github.com/urfave/cli/v3"
)

// Runner is a minimal interface for testing purposes
type Runner interface {
	Run(ctx context.Context, pr *models.PullRequestContext) (models.RunOutcome, error)
}

// RunnerProvider builds a Runner from the resolved configuration. The returned
// cleanup func releases client resources.
type RunnerProvider func(ctx context.Context, cfg *config.Config) (Runner, func(), error)

type ReviewCommand struct {
	provider RunnerProvider
	getenv   func(string) string
	out      io.Writer
}

type Option func(*ReviewCommand)

func WithRunnerProvider(p RunnerProvider) Option {
	return func(c *ReviewCommand) {
		c.provider = p
	}
}

func WithGetenv(getenv func(string) string) Option {
	return func(c *ReviewCommand) {
		c.getenv = getenv
	}
}

func WithOutput(w io.Writer) Option {
	return func(c *ReviewCommand) {
		c.out = w
	}
}

func NewReviewCommand(opts ...Option) *ReviewCommand {
	c := &ReviewCommand{
		provider: NewRunner,
		getenv:   os.Getenv,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ReviewCommand) CreateCommand() *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Review the pull request of the current workflow event and comment the findings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "github-token",
				Usage:   "token used to read the pull request and post comments",
				Sources: cli.EnvVars("INPUT_GITHUB-TOKEN", "GITHUB_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "gemini-key",
				Usage:   "Gemini API key",
				Sources: cli.EnvVars("INPUT_GEMINI_KEY", "GEMINI_KEY"),
			},
			&cli.StringFlag{
				Name:    "gemini-model",
				Usage:   "Gemini model name, e.g. gemini-1.5-flash",
				Sources: cli.EnvVars("INPUT_GEMINI_MODEL", "GEMINI_MODEL"),
			},
			&cli.StringFlag{
				Name:    "max-length",
				Usage:   "maximum total patch length to review",
				Sources: cli.EnvVars("INPUT_MAX_LENGTH", "MAX_LENGTH"),
			},
			&cli.StringFlag{
				Name:    "max-output-tokens",
				Usage:   "maximum tokens the model may generate",
				Sources: cli.EnvVars("INPUT_MAX_OUTPUT_TOKENS", "MAX_OUTPUT_TOKENS"),
			},
			&cli.StringFlag{
				Name:    "max-attempts",
				Usage:   "how many times to ask the model for a valid answer",
				Sources: cli.EnvVars("INPUT_MAX_ATTEMPTS", "MAX_ATTEMPTS"),
			},
			&cli.StringFlag{
				Name:    "language",
				Usage:   "language of the posted comment (en, es)",
				Sources: cli.EnvVars("INPUT_LANGUAGE"),
			},
			&cli.StringFlag{
				Name:    "request-timeout",
				Usage:   "timeout of each model request, e.g. 90s",
				Sources: cli.EnvVars("INPUT_REQUEST_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "optional TOML file with non-secret defaults",
				Sources: cli.EnvVars("REVIEWER_CONFIG"),
			},
		},
		Action: c.run,
	}
}

func (c *ReviewCommand) run(ctx context.Context, cmd *cli.Command) error {
	log := logger.FromContext(ctx)
	start := time.Now()

	// Events without a pull request end here, before any input is required.
	pr, err := action.LoadPullRequest(c.getenv)
	if err != nil {
		log.Error("failed to read pull request context",
			"error", err)
		ui.HandleAppError(c.out, err)
		return err
	}

	if pr == nil {
		log.Info("event carries no pull request, skipping review")
		ui.PrintOutcome(c.out, models.NotApplicable())
		return nil
	}

	file, err := config.LoadFile(cmd.String("config"))
	if err != nil {
		ui.HandleAppError(c.out, err)
		return err
	}

	cfg, err := config.Resolve(config.Inputs{
		GitHubToken:     cmd.String("github-token"),
		GeminiKey:       cmd.String("gemini-key"),
		GeminiModel:     cmd.String("gemini-model"),
		MaxLength:       cmd.String("max-length"),
		MaxOutputTokens: cmd.String("max-output-tokens"),
		MaxAttempts:     cmd.String("max-attempts"),
		Language:        cmd.String("language"),
		RequestTimeout:  cmd.String("request-timeout"),
	}, file)
	if err != nil {
		log.Error("invalid configuration",
			"error", err)
		ui.HandleAppError(c.out, err)
		return err
	}

	log.Info("configuration resolved",
		"model", cfg.Policy.Model,
		"max_length", cfg.Policy.MaxTotalPatchLength,
		"max_output_tokens", cfg.Policy.MaxOutputTokens,
		"max_attempts", cfg.Policy.MaxAttempts,
		"request_timeout", cfg.Policy.RequestTimeout.String(),
		"language", cfg.Language)

	if !config.IsKnownModel(cfg.Policy.Model) {
		log.Warn("model is not in the list of tested models, sending it as given",
			"model", cfg.Policy.Model)
	}

	runner, cleanup, err := c.provider(ctx, cfg)
	if err != nil {
		log.Error("failed to create review service",
			"error", err)
		ui.HandleAppError(c.out, err)
		return err
	}
	defer cleanup()

	outcome, err := runner.Run(ctx, pr)
	if err != nil {
		log.Error("review failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		ui.HandleAppError(c.out, err)
		return err
	}

	log.Info("review finished",
		"outcome", string(outcome.Kind),
		"findings_count", len(outcome.Findings),
		"duration_ms", time.Since(start).Milliseconds())
	ui.PrintOutcome(c.out, outcome)
	return nil
}

// NewRunner wires the GitHub client, the Gemini provider and the comment
// renderer into a ReviewService.
func NewRunner(ctx context.Context, cfg *config.Config) (Runner, func(), error) {
	trans, err := i18n.NewTranslations(cfg.Language)
	if err != nil {
		return nil, nil, err
	}

	provider, err := gemini.NewGeminiProvider(ctx, cfg.GeminiKey, cfg.Policy.Model)
	if err != nil {
		return nil, nil, err
	}

	svc := services.NewReviewService(
		services.WithReviewVCSClient(github.NewGitHubClient(cfg.GitHubToken, cfg.Policy.RequestTimeout)),
		services.WithReviewInvoker(reviewer.NewInvoker(provider,
			reviewer.WithMaxAttempts(cfg.Policy.MaxAttempts),
			reviewer.WithAttemptTimeout(cfg.Policy.RequestTimeout))),
		services.WithReviewRenderer(report.NewRenderer(trans)),
		services.WithReviewConfig(cfg),
	)

	cleanup := func() {
		if err := provider.Close(); err != nil {
			logger.FromContext(ctx).Debug("failed to close gemini client",
				"error", err)
		}
	}
	return svc, cleanup, nil
}
