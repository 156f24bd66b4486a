package models

import "fmt"

type (
	// PullRequestContext identifies the pull request that triggered the run.
	PullRequestContext struct {
		Owner  string
		Repo   string
		Number int
	}

	// ChangedFile is one file touched by the pull request, as reported by the host.
	// Patch is empty when the host omits it (binary or very large files).
	ChangedFile struct {
		Filename string `json:"filename"`
		Status   string `json:"status"`
		Patch    string `json:"patch,omitempty"`
	}
)

func (p PullRequestContext) String() string {
	return fmt.Sprintf("%s/%s#%d", p.Owner, p.Repo, p.Number)
}
