package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/vcs"
	"golang.org/x/oauth2"
)

var _ vcs.VCSClient = (*GitHubClient)(nil)

// filesPerPage is the largest page the pull request files endpoint serves.
const filesPerPage = 100

type PullRequestsService interface {
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
}

type IssuesService interface {
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

type GitHubClient struct {
	prService     PullRequestsService
	issuesService IssuesService
}

// NewGitHubClient builds a client authenticated with token. timeout bounds
// each HTTP request; zero means no client-side bound.
func NewGitHubClient(token string, timeout time.Duration) *GitHubClient {
	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = timeout
	}

	client := github.NewClient(httpClient)
	return NewGitHubClientWithServices(client.PullRequests, client.Issues)
}

func NewGitHubClientWithServices(prService PullRequestsService, issuesService IssuesService) *GitHubClient {
	return &GitHubClient{
		prService:     prService,
		issuesService: issuesService,
	}
}

func (ghc *GitHubClient) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]models.ChangedFile, error) {
	log := logger.FromContext(ctx)

	opts := &github.ListOptions{PerPage: filesPerPage, Page: 1}
	files := make([]models.ChangedFile, 0)

	for {
		log.Debug("fetching pull request files page",
			"owner", owner,
			"repo", repo,
			"pr_number", number,
			"page", opts.Page)

		page, resp, err := ghc.prService.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			log.Error("failed to list pull request files",
				"error", err,
				"pr_number", number,
				"page", opts.Page)
			return nil, wrapAPIError(err, resp, "list pull request files").
				WithContext("pr_number", number).
				WithContext("page", opts.Page)
		}

		for _, f := range page {
			files = append(files, models.ChangedFile{
				Filename: f.GetFilename(),
				Status:   f.GetStatus(),
				Patch:    f.GetPatch(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Debug("pull request files fetched",
		"pr_number", number,
		"files_count", len(files))

	return files, nil
}

func (ghc *GitHubClient) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, resp, err := ghc.issuesService.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return wrapAPIError(err, resp, "create comment").WithContext("pr_number", number)
	}

	logger.FromContext(ctx).Info("comment posted",
		"pr_number", number,
		"body_length", len(body))
	return nil
}

// wrapAPIError maps a go-github failure to the matching domain error.
func wrapAPIError(err error, resp *github.Response, operation string) *domainErrors.AppError {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return domainErrors.ErrGitHubRateLimit.WithError(err).WithContext("operation", operation)
	}

	if resp != nil {
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return domainErrors.ErrGitHubRateLimit.WithError(err).
				WithContext("retry_after", resp.Header.Get("Retry-After")).
				WithContext("operation", operation)
		case http.StatusUnauthorized:
			return domainErrors.ErrGitHubTokenInvalid.WithError(err).WithContext("operation", operation)
		case http.StatusForbidden:
			return domainErrors.ErrGitHubInsufficientPerms.WithError(err).WithContext("operation", operation)
		case http.StatusNotFound:
			return domainErrors.ErrRepositoryNotFound.WithError(err).WithContext("operation", operation)
		}
	}

	if operation == "create comment" {
		return domainErrors.ErrCreateComment.WithError(err)
	}
	return domainErrors.ErrListFiles.WithError(fmt.Errorf("%s: %w", operation, err))
}
