package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeAI            ErrorType = "AI"
	TypeVCS           ErrorType = "VCS"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if input, ok := e.Context["input"].(string); ok && input != "" {
			msg += fmt.Sprintf(" - input '%s'", input)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError derived from the same base error,
// so errors.Is keeps working after WithError/WithContext copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Configuration errors
var (
	ErrGitHubTokenMissing = NewAppError(TypeConfiguration, "GitHub token is missing", nil).
				WithSuggestion("Pass it to the action: with: github-token: ${{ secrets.GITHUB_TOKEN }}")

	ErrGeminiKeyMissing = NewAppError(TypeConfiguration, "Gemini API key is missing", nil).
				WithSuggestion("Store the key as a repository secret and pass it as GEMINI_KEY")

	ErrGeminiModelMissing = NewAppError(TypeConfiguration, "Gemini model is missing", nil).
				WithSuggestion("Set GEMINI_MODEL, for example: gemini-1.5-flash")

	ErrConfigFile = NewAppError(TypeConfiguration, "failed to read configuration file", nil).
			WithSuggestion("Check that the file exists and is valid TOML")

	ErrInvalidRepository = NewAppError(TypeConfiguration, "invalid repository reference", nil).
				WithSuggestion("GITHUB_REPOSITORY must look like owner/repo")

	ErrReadEvent = NewAppError(TypeConfiguration, "failed to read the workflow event payload", nil)
)

// VCS errors
var (
	ErrListFiles = NewAppError(TypeVCS, "failed to list pull request files", nil).
			WithSuggestion("Check the workflow has 'pull-requests: read' permission")

	ErrCreateComment = NewAppError(TypeVCS, "failed to create pull request comment", nil).
				WithSuggestion("Check the workflow has 'pull-requests: write' permission")

	ErrRepositoryNotFound = NewAppError(TypeVCS, "repository or pull request not found", nil).
				WithSuggestion("Check repository name and access permissions")
)

// GitHub/VCS specific errors
var (
	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Use the workflow token: ${{ secrets.GITHUB_TOKEN }}")

	ErrGitHubInsufficientPerms = NewAppError(TypeVCS, "GitHub token has insufficient permissions", nil).
					WithSuggestion("Grant 'pull-requests: write' in the workflow permissions block")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes and re-run the workflow")
)

// AI errors
var (
	ErrAIGeneration = NewAppError(TypeAI, "AI generation failed", nil).
			WithSuggestion("Try again or check your API key configuration")

	ErrInvalidAIOutput = NewAppError(TypeAI, "invalid AI output format", nil).
				WithSuggestion("This is likely a temporary issue, raise MAX_ATTEMPTS to retry")

	ErrAIBlocked = NewAppError(TypeAI, "AI response was blocked", nil)
)

// Gemini/AI specific errors
var (
	ErrGeminiAPIKeyInvalid = NewAppError(TypeAI, "Gemini API key is invalid", nil).
				WithSuggestion("Get a valid API key at: https://aistudio.google.com/app/apikey")

	ErrGeminiQuotaExceeded = NewAppError(TypeAI, "Gemini API quota exceeded", nil).
				WithSuggestion("Wait for quota to reset or upgrade your Gemini plan")
)
