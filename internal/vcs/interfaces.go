package vcs

import (
	"context"

	"github.com/thomas-vilte/matereview/internal/models"
)

// VCSClient defines the calls the reviewer makes against the hosting platform.
type VCSClient interface {
	// ListPullRequestFiles returns every changed file of the pull request, in
	// the order the platform pages them. It never returns a partial list.
	ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]models.ChangedFile, error)
	// CreateIssueComment posts a comment on the pull request conversation.
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) error
}
