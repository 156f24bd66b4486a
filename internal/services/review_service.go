package services

import (
	"context"

	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/diff"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/review"
	"github.com/thomas-vilte/matereview/internal/services/cost"
	"github.com/thomas-vilte/matereview/internal/vcs"
)

// reviewInvoker sends a review request to the model, retrying within its budget.
type reviewInvoker interface {
	Invoke(ctx context.Context, req models.ReviewRequest) review.InvocationResult
}

// commentRenderer turns outcomes into pull request comment bodies.
type commentRenderer interface {
	TooLarge(maxLength int) string
	Findings(findings []models.ReviewFinding, files []models.ChangedFile, model string) string
}

type ReviewService struct {
	vcsClient vcs.VCSClient
	invoker   reviewInvoker
	renderer  commentRenderer
	config    *config.Config
	pricing   *cost.Calculator
}

type ReviewOption func(*ReviewService)

func WithReviewVCSClient(client vcs.VCSClient) ReviewOption {
	return func(s *ReviewService) {
		s.vcsClient = client
	}
}

func WithReviewInvoker(inv reviewInvoker) ReviewOption {
	return func(s *ReviewService) {
		s.invoker = inv
	}
}

func WithReviewRenderer(r commentRenderer) ReviewOption {
	return func(s *ReviewService) {
		s.renderer = r
	}
}

func WithReviewConfig(cfg *config.Config) ReviewOption {
	return func(s *ReviewService) {
		s.config = cfg
	}
}

// WithReviewPricing replaces the default Gemini price table used to estimate
// the cost of a run.
func WithReviewPricing(calc *cost.Calculator) ReviewOption {
	return func(s *ReviewService) {
		s.pricing = calc
	}
}

func NewReviewService(opts ...ReviewOption) *ReviewService {
	s := &ReviewService{pricing: cost.NewCalculator()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reviews one pull request and returns the terminal outcome. A nil pr
// yields NotApplicable without any call. Failures listing files or posting
// the comment are returned; model failures end in NoResult.
func (s *ReviewService) Run(ctx context.Context, pr *models.PullRequestContext) (models.RunOutcome, error) {
	log := logger.FromContext(ctx)

	if pr == nil {
		log.Info("no pull request in the triggering event, nothing to review")
		return models.NotApplicable(), nil
	}

	if err := s.validate(); err != nil {
		return models.RunOutcome{}, err
	}

	log = log.With("pull_request", pr.String())
	ctx = logger.WithLogger(ctx, log)
	policy := s.config.Policy

	files, err := s.vcsClient.ListPullRequestFiles(ctx, pr.Owner, pr.Repo, pr.Number)
	if err != nil {
		log.Error("failed to collect pull request files",
			"error", err)
		return models.RunOutcome{}, err
	}

	metric := review.PatchLength(files)
	stats := diff.Summarize(files)
	log.Info("pull request files collected",
		"files_count", len(files),
		"patch_length", metric,
		"added_lines", stats.AddedLines,
		"deleted_lines", stats.DeletedLines,
		"unparsed_patches", stats.Unparsed)

	if !review.ShouldReview(files, policy.MaxTotalPatchLength) {
		log.Warn("changes too large for review",
			"patch_length", metric,
			"max_length", policy.MaxTotalPatchLength)

		body := s.renderer.TooLarge(policy.MaxTotalPatchLength)
		if err := s.vcsClient.CreateIssueComment(ctx, pr.Owner, pr.Repo, pr.Number, body); err != nil {
			log.Error("failed to post size notice",
				"error", err)
			return models.RunOutcome{}, err
		}
		return models.TooLarge(metric, policy.MaxTotalPatchLength), nil
	}

	req, err := review.BuildRequest(files, policy, s.config.Language)
	if err != nil {
		log.Error("failed to build review request",
			"error", err)
		return models.RunOutcome{}, domainErrors.NewAppError(domainErrors.TypeInternal, "error building review request", err)
	}

	log.Debug("review request built",
		"model", req.Model,
		"message_length", len(req.Message),
		"max_attempts", policy.MaxAttempts)

	res := s.invoker.Invoke(ctx, req)
	usage := s.usage(res.Usage, req.Model)
	if usage != nil {
		log.Info("model usage",
			"attempts", len(res.Attempts),
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
			"total_tokens", usage.TotalTokens,
			"cost_usd", usage.CostUSD)
	}
	if !res.Found() {
		log.Warn("model produced no usable review",
			"attempts", len(res.Attempts))
		out := models.NoResult()
		out.Usage = usage
		return out, nil
	}

	out := models.Findings(res.Result.Findings)
	out.Usage = usage

	if len(out.Findings) == 0 {
		log.Info("review finished without findings")
		return out, nil
	}

	body := s.renderer.Findings(out.Findings, files, req.Model)
	if err := s.vcsClient.CreateIssueComment(ctx, pr.Owner, pr.Repo, pr.Number, body); err != nil {
		log.Error("failed to post review comment",
			"error", err,
			"findings_count", len(out.Findings))
		return models.RunOutcome{}, err
	}

	log.Info("review comment posted",
		"findings_count", len(out.Findings))
	return out, nil
}

// usage stamps the model name and estimated cost on the summed usage of a run.
func (s *ReviewService) usage(u *models.TokenUsage, model string) *models.TokenUsage {
	if u == nil {
		return nil
	}
	if u.Model == "" {
		u.Model = model
	}
	if s.pricing != nil {
		s.pricing.Apply("gemini", u)
	}
	return u
}

func (s *ReviewService) validate() error {
	switch {
	case s.config == nil:
		return domainErrors.NewAppError(domainErrors.TypeInternal, "review service has no configuration", nil)
	case s.vcsClient == nil:
		return domainErrors.NewAppError(domainErrors.TypeInternal, "review service has no VCS client", nil)
	case s.invoker == nil:
		return domainErrors.NewAppError(domainErrors.TypeInternal, "review service has no model invoker", nil)
	case s.renderer == nil:
		return domainErrors.NewAppError(domainErrors.TypeInternal, "review service has no comment renderer", nil)
	}
	return nil
}
