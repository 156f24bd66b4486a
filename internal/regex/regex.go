package regex

import "regexp"

var (
	// JSONCodeFence matches a whole response wrapped in one markdown fence,
	// optionally tagged json. Group 1 is the fenced body.
	JSONCodeFence = regexp.MustCompile("(?s)^```(?:json|JSON)?[ \\t]*\\n?(.*?)\\n?[ \\t]*```$")

	// Repository matches the owner/repo form of GITHUB_REPOSITORY.
	Repository = regexp.MustCompile(`^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)$`)
)
