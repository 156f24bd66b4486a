package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/models"
)

const (
	DefaultMaxLength       = 10000
	DefaultMaxOutputTokens = 8192
	DefaultMaxAttempts     = 1
	DefaultRequestTimeout  = 2 * time.Minute

	// Temperature is fixed for every run.
	Temperature float32 = 0.2
)

type (
	// Inputs are the raw named inputs handed over by the CI runtime.
	Inputs struct {
		GitHubToken     string
		GeminiKey       string
		GeminiModel     string
		MaxLength       string
		MaxOutputTokens string
		MaxAttempts     string
		Language        string
		RequestTimeout  string
	}

	// FileConfig holds non-secret defaults read from an optional TOML file.
	FileConfig struct {
		Model           string `toml:"model"`
		MaxLength       int    `toml:"max_length"`
		MaxOutputTokens int    `toml:"max_output_tokens"`
		MaxAttempts     int    `toml:"max_attempts"`
		Language        string `toml:"language"`
		RequestTimeout  string `toml:"request_timeout"`
	}

	// ReviewPolicy is resolved once per run and never changes afterwards.
	ReviewPolicy struct {
		MaxTotalPatchLength int
		Model               string
		MaxOutputTokens     int
		MaxAttempts         int
		Temperature         float32
		RequestTimeout      time.Duration
		SafetySettings      []models.SafetySetting
	}

	Config struct {
		GitHubToken string
		GeminiKey   string
		Language    string
		Policy      ReviewPolicy
	}
)

// LoadFile reads a FileConfig. An empty path yields an empty FileConfig.
func LoadFile(path string) (*FileConfig, error) {
	fc := &FileConfig{}
	if path == "" {
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domainErrors.ErrConfigFile.WithError(err).WithContext("path", path)
	}

	md, err := toml.Decode(string(data), fc)
	if err != nil {
		return nil, domainErrors.ErrConfigFile.WithError(err).WithContext("path", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, domainErrors.ErrConfigFile.
			WithError(fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))).
			WithContext("path", path)
	}

	return fc, nil
}

// Resolve validates the inputs and builds the immutable run configuration.
// Inputs take precedence over the file, the file over the defaults.
func Resolve(in Inputs, file *FileConfig) (*Config, error) {
	if file == nil {
		file = &FileConfig{}
	}

	token := strings.TrimSpace(in.GitHubToken)
	if token == "" {
		return nil, domainErrors.ErrGitHubTokenMissing.WithContext("input", "github-token")
	}

	key := strings.TrimSpace(in.GeminiKey)
	if key == "" {
		return nil, domainErrors.ErrGeminiKeyMissing.WithContext("input", "GEMINI_KEY")
	}

	model := firstNonEmpty(in.GeminiModel, file.Model)
	if model == "" {
		return nil, domainErrors.ErrGeminiModelMissing.WithContext("input", "GEMINI_MODEL")
	}

	timeout, err := parseDuration(in.RequestTimeout, file.RequestTimeout, DefaultRequestTimeout)
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, "invalid request timeout", err).
			WithContext("input", "REQUEST_TIMEOUT")
	}

	return &Config{
		GitHubToken: token,
		GeminiKey:   key,
		Language:    SupportedLanguage(firstNonEmpty(in.Language, file.Language)),
		Policy: ReviewPolicy{
			MaxTotalPatchLength: positiveInt(in.MaxLength, file.MaxLength, DefaultMaxLength),
			Model:               model,
			MaxOutputTokens:     positiveInt(in.MaxOutputTokens, file.MaxOutputTokens, DefaultMaxOutputTokens),
			MaxAttempts:         attempts(in.MaxAttempts, file.MaxAttempts),
			Temperature:         Temperature,
			RequestTimeout:      timeout,
			SafetySettings:      PermissiveSafetySettings(),
		},
	}, nil
}

// PermissiveSafetySettings disables blocking for the four harm categories;
// source code trips naive content filters.
func PermissiveSafetySettings() []models.SafetySetting {
	return []models.SafetySetting{
		{Category: models.HarmCategoryHarassment, Threshold: models.BlockNone},
		{Category: models.HarmCategoryHateSpeech, Threshold: models.BlockNone},
		{Category: models.HarmCategorySexuallyExplicit, Threshold: models.BlockNone},
		{Category: models.HarmCategoryDangerousContent, Threshold: models.BlockNone},
	}
}

// positiveInt returns the first value that parses to a positive integer,
// falling back to def.
func positiveInt(raw string, fromFile, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 0 {
		return n
	}
	if fromFile > 0 {
		return fromFile
	}
	return def
}

// attempts resolves the attempt budget once; anything below one runs once.
func attempts(raw string, fromFile int) int {
	n := positiveInt(raw, fromFile, DefaultMaxAttempts)
	if n < 1 {
		return 1
	}
	return n
}

func parseDuration(raw, fromFile string, def time.Duration) (time.Duration, error) {
	s := firstNonEmpty(raw, fromFile)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("timeout must be positive")
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
