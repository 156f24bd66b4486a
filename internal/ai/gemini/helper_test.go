package gemini

import (
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/models"
)

func TestFormatResponse(t *testing.T) {
	t.Run("nil response", func(t *testing.T) {
		assert.Empty(t, formatResponse(nil))
	})

	t.Run("joins text parts of every candidate", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("[{"), genai.Text("}]")}}},
				{Content: nil},
			},
		}
		assert.Equal(t, "[{}]", formatResponse(resp))
	})

	t.Run("ignores non-text parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}, genai.Text("[]")}}},
			},
		}
		assert.Equal(t, "[]", formatResponse(resp))
	})
}

func TestExtractUsage(t *testing.T) {
	assert.Nil(t, extractUsage(nil))
	assert.Nil(t, extractUsage(&genai.GenerateContentResponse{}))

	usage := extractUsage(&genai.GenerateContentResponse{
		UsageMetadata: &genai.UsageMetadata{
			PromptTokenCount:     120,
			CandidatesTokenCount: 30,
			TotalTokenCount:      150,
		},
	})
	require.NotNil(t, usage)
	assert.Equal(t, 120, usage.InputTokens)
	assert.Equal(t, 30, usage.OutputTokens)
	assert.Equal(t, 150, usage.TotalTokens)
}

func TestSafetySettings(t *testing.T) {
	assert.Nil(t, safetySettings(nil))

	got := safetySettings([]models.SafetySetting{
		{Category: models.HarmCategoryHarassment, Threshold: models.BlockNone},
		{Category: models.HarmCategoryDangerousContent, Threshold: models.BlockNone},
		{Category: "HARM_CATEGORY_UNKNOWN", Threshold: models.BlockNone},
	})

	require.Len(t, got, 2)
	assert.Equal(t, genai.HarmCategoryHarassment, got[0].Category)
	assert.Equal(t, genai.HarmBlockNone, got[0].Threshold)
	assert.Equal(t, genai.HarmCategoryDangerousContent, got[1].Category)
}

func TestConfigureModel(t *testing.T) {
	model := &genai.GenerativeModel{}
	configureModel(model, models.ReviewRequest{
		Model:              "gemini-1.5-flash",
		SystemInstructions: "You are a reviewer",
		Temperature:        0.2,
		MaxOutputTokens:    8192,
		ResponseMIMEType:   "application/json",
		SafetySettings: []models.SafetySetting{
			{Category: models.HarmCategoryHateSpeech, Threshold: models.BlockNone},
		},
	})

	require.NotNil(t, model.Temperature)
	assert.InDelta(t, 0.2, *model.Temperature, 0.0001)
	require.NotNil(t, model.MaxOutputTokens)
	assert.Equal(t, int32(8192), *model.MaxOutputTokens)
	assert.Equal(t, "application/json", model.ResponseMIMEType)
	require.NotNil(t, model.SystemInstruction)
	assert.Equal(t, []genai.Part{genai.Text("You are a reviewer")}, model.SystemInstruction.Parts)
	assert.Len(t, model.SafetySettings, 1)
}

func TestBlockReason(t *testing.T) {
	assert.Empty(t, blockReason(nil))
	assert.Empty(t, blockReason(&genai.GenerateContentResponse{PromptFeedback: &genai.PromptFeedback{}}))
	assert.NotEmpty(t, blockReason(&genai.GenerateContentResponse{
		PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
	}))
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *domainErrors.AppError
	}{
		{"quota", errors.New("googleapi: Error 429: Resource exhausted"), domainErrors.ErrGeminiQuotaExceeded},
		{"rate limit", errors.New("rate limit reached"), domainErrors.ErrGeminiQuotaExceeded},
		{"api key", errors.New("API key not valid"), domainErrors.ErrGeminiAPIKeyInvalid},
		{"blocked", &genai.BlockedError{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety}}, domainErrors.ErrAIBlocked},
		{"other", errors.New("connection reset by peer"), domainErrors.ErrAIGeneration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestGeminiProvider_Info(t *testing.T) {
	p := &GeminiProvider{model: "gemini-1.5-pro"}
	assert.Equal(t, "gemini-1.5-pro", p.GetModelName())
	assert.Equal(t, "gemini", p.GetProviderName())
	assert.NoError(t, p.Close())
}

func TestNewGeminiProvider_MissingKey(t *testing.T) {
	_, err := NewGeminiProvider(t.Context(), "", "gemini-1.5-flash")
	assert.ErrorIs(t, err, domainErrors.ErrGeminiKeyMissing)
}
