package review

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/matereview/internal/config"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/models"
)

func init() {
	color.NoColor = true
}

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, pr *models.PullRequestContext) (models.RunOutcome, error) {
	args := m.Called(ctx, pr)
	return args.Get(0).(models.RunOutcome), args.Error(1)
}

func clearInputEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"INPUT_GITHUB-TOKEN", "GITHUB_TOKEN", "INPUT_GEMINI_KEY", "GEMINI_KEY",
		"INPUT_GEMINI_MODEL", "GEMINI_MODEL", "INPUT_MAX_LENGTH", "MAX_LENGTH",
		"INPUT_MAX_OUTPUT_TOKENS", "MAX_OUTPUT_TOKENS", "INPUT_MAX_ATTEMPTS", "MAX_ATTEMPTS",
		"INPUT_LANGUAGE", "INPUT_REQUEST_TIMEOUT", "REVIEWER_CONFIG",
	} {
		t.Setenv(name, "")
	}
}

func eventEnv(t *testing.T, payload string) func(string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))
	env := map[string]string{
		"GITHUB_EVENT_PATH": path,
		"GITHUB_REPOSITORY": "octo/demo",
	}
	return func(key string) string { return env[key] }
}

var requiredArgs = []string{
	"review",
	"--github-token", "ghs_test",
	"--gemini-key", "key",
	"--gemini-model", "gemini-1.5-flash",
}

func TestReviewCommand(t *testing.T) {
	t.Run("runs the review for a pull request event", func(t *testing.T) {
		clearInputEnv(t)
		runner := new(mockRunner)
		var gotCfg *config.Config
		var out bytes.Buffer
		cleaned := false

		c := NewReviewCommand(
			WithGetenv(eventEnv(t, `{"pull_request":{"number":7}}`)),
			WithOutput(&out),
			WithRunnerProvider(func(_ context.Context, cfg *config.Config) (Runner, func(), error) {
				gotCfg = cfg
				return runner, func() { cleaned = true }, nil
			}),
		)
		runner.On("Run", mock.Anything, &models.PullRequestContext{Owner: "octo", Repo: "demo", Number: 7}).
			Return(models.Findings(nil), nil).Once()

		err := c.CreateCommand().Run(context.Background(), append(requiredArgs, "--max-attempts", "3", "--max-length", "abc"))

		require.NoError(t, err)
		require.NotNil(t, gotCfg)
		assert.Equal(t, 3, gotCfg.Policy.MaxAttempts)
		assert.Equal(t, config.DefaultMaxLength, gotCfg.Policy.MaxTotalPatchLength)
		assert.True(t, cleaned)
		assert.Contains(t, out.String(), "no issues found")
		runner.AssertExpectations(t)
	})

	t.Run("skips events without a pull request", func(t *testing.T) {
		clearInputEnv(t)
		var out bytes.Buffer
		called := false

		c := NewReviewCommand(
			WithGetenv(eventEnv(t, `{"ref":"refs/heads/main"}`)),
			WithOutput(&out),
			WithRunnerProvider(func(context.Context, *config.Config) (Runner, func(), error) {
				called = true
				return nil, nil, errors.New("should not be called")
			}),
		)

		err := c.CreateCommand().Run(context.Background(), requiredArgs)

		require.NoError(t, err)
		assert.False(t, called)
		assert.Contains(t, out.String(), "review skipped")
	})

	t.Run("skips events without a pull request even without inputs", func(t *testing.T) {
		clearInputEnv(t)
		var out bytes.Buffer
		called := false

		c := NewReviewCommand(
			WithGetenv(eventEnv(t, `{"ref":"refs/heads/main","pusher":{"name":"octo"}}`)),
			WithOutput(&out),
			WithRunnerProvider(func(context.Context, *config.Config) (Runner, func(), error) {
				called = true
				return nil, nil, errors.New("should not be called")
			}),
		)

		err := c.CreateCommand().Run(context.Background(),
			[]string{"review", "--config", filepath.Join(t.TempDir(), "missing.toml")})

		require.NoError(t, err)
		assert.False(t, called)
		assert.Contains(t, out.String(), "review skipped")
	})

	t.Run("reads inputs from the environment", func(t *testing.T) {
		clearInputEnv(t)
		t.Setenv("INPUT_GITHUB-TOKEN", "ghs_env")
		t.Setenv("INPUT_GEMINI_KEY", "env-key")
		t.Setenv("INPUT_GEMINI_MODEL", "gemini-1.5-pro")
		t.Setenv("INPUT_LANGUAGE", "es")
		runner := new(mockRunner)
		var gotCfg *config.Config

		c := NewReviewCommand(
			WithGetenv(eventEnv(t, `{"pull_request":{"number":1}}`)),
			WithOutput(&bytes.Buffer{}),
			WithRunnerProvider(func(_ context.Context, cfg *config.Config) (Runner, func(), error) {
				gotCfg = cfg
				return runner, func() {}, nil
			}),
		)
		runner.On("Run", mock.Anything, mock.Anything).Return(models.NoResult(), nil).Once()

		require.NoError(t, c.CreateCommand().Run(context.Background(), []string{"review"}))
		require.NotNil(t, gotCfg)
		assert.Equal(t, "ghs_env", gotCfg.GitHubToken)
		assert.Equal(t, "env-key", gotCfg.GeminiKey)
		assert.Equal(t, "gemini-1.5-pro", gotCfg.Policy.Model)
		assert.Equal(t, config.LangES, gotCfg.Language)
	})

	t.Run("fails before any call when the token is missing", func(t *testing.T) {
		clearInputEnv(t)
		var out bytes.Buffer
		called := false

		c := NewReviewCommand(
			WithGetenv(eventEnv(t, `{"pull_request":{"number":7}}`)),
			WithOutput(&out),
			WithRunnerProvider(func(context.Context, *config.Config) (Runner, func(), error) {
				called = true
				return nil, nil, nil
			}),
		)

		err := c.CreateCommand().Run(context.Background(), []string{"review", "--gemini-key", "k", "--gemini-model", "m"})

		assert.ErrorIs(t, err, domainErrors.ErrGitHubTokenMissing)
		assert.False(t, called)
		assert.Contains(t, out.String(), "GitHub token is missing")
	})

	t.Run("returns runner errors", func(t *testing.T) {
		clearInputEnv(t)
		runner := new(mockRunner)
		var out bytes.Buffer

		c := NewReviewCommand(
			WithGetenv(eventEnv(t, `{"pull_request":{"number":7}}`)),
			WithOutput(&out),
			WithRunnerProvider(func(context.Context, *config.Config) (Runner, func(), error) {
				return runner, func() {}, nil
			}),
		)
		runner.On("Run", mock.Anything, mock.Anything).
			Return(models.RunOutcome{}, domainErrors.ErrGitHubInsufficientPerms).Once()

		err := c.CreateCommand().Run(context.Background(), requiredArgs)

		assert.ErrorIs(t, err, domainErrors.ErrGitHubInsufficientPerms)
		assert.Contains(t, out.String(), "pull-requests: write")
	})
}
