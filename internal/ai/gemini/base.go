package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/thomas-vilte/matereview/internal/ai"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"google.golang.org/api/option"
)

var (
	_ ai.ChatStarter = (*GeminiProvider)(nil)
	_ ai.ModelInfo   = (*GeminiProvider)(nil)
)

// GeminiProvider opens Gemini chat sessions for review requests.
type GeminiProvider struct {
	Client *genai.Client
	model  string
}

// NewGeminiProvider creates a client authenticated with apiKey. The model name
// is only used for reporting; every session takes its model from the request.
// opts are appended to the client options, e.g. a custom endpoint.
func NewGeminiProvider(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, domainErrors.ErrGeminiKeyMissing
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "invalid") ||
			strings.Contains(errMsg, "unauthorized") ||
			strings.Contains(errMsg, "api key") ||
			strings.Contains(errMsg, "authentication") {
			return nil, domainErrors.ErrGeminiAPIKeyInvalid.WithError(err)
		}
		return nil, domainErrors.NewAppError(domainErrors.TypeAI, "error creating AI client", err)
	}

	return &GeminiProvider{
		Client: client,
		model:  model,
	}, nil
}

// GetModelName implements ai.ModelInfo
func (g *GeminiProvider) GetModelName() string {
	return g.model
}

// GetProviderName implements ai.ModelInfo
func (g *GeminiProvider) GetProviderName() string {
	return "gemini"
}

// Close releases the underlying client connection.
func (g *GeminiProvider) Close() error {
	if g.Client == nil {
		return nil
	}
	return g.Client.Close()
}
