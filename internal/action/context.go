// Package action reads the pull-request context a GitHub workflow run exposes
// through its environment.
package action

import (
	"encoding/json"
	"os"
	"strings"

	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/regex"
)

const (
	EnvRepository = "GITHUB_REPOSITORY"
	EnvEventPath  = "GITHUB_EVENT_PATH"
)

type event struct {
	PullRequest *struct {
		Number int `json:"number"`
	} `json:"pull_request"`
	Repository *struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
}

// LoadPullRequest returns the pull request that triggered the run, or nil when
// the triggering event carries none. getenv is usually os.Getenv.
func LoadPullRequest(getenv func(string) string) (*models.PullRequestContext, error) {
	path := getenv(EnvEventPath)
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domainErrors.ErrReadEvent.WithError(err).WithContext("path", path)
	}

	var ev event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, domainErrors.ErrReadEvent.WithError(err).WithContext("path", path)
	}

	if ev.PullRequest == nil || ev.PullRequest.Number <= 0 {
		return nil, nil
	}

	owner, repo, err := splitRepository(getenv(EnvRepository))
	if err != nil && ev.Repository != nil {
		owner, repo, err = ev.Repository.Owner.Login, ev.Repository.Name, nil
	}
	if err != nil {
		return nil, err
	}

	return &models.PullRequestContext{
		Owner:  owner,
		Repo:   repo,
		Number: ev.PullRequest.Number,
	}, nil
}

func splitRepository(full string) (string, string, error) {
	m := regex.Repository.FindStringSubmatch(strings.TrimSpace(full))
	if m == nil {
		return "", "", domainErrors.ErrInvalidRepository.WithContext("repository", full)
	}
	return m[1], m[2], nil
}
