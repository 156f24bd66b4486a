package gemini

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/models"
)

var errEmptyResponse = errors.New("empty response from model")

var harmCategories = map[models.HarmCategory]genai.HarmCategory{
	models.HarmCategoryHarassment:       genai.HarmCategoryHarassment,
	models.HarmCategoryHateSpeech:       genai.HarmCategoryHateSpeech,
	models.HarmCategorySexuallyExplicit: genai.HarmCategorySexuallyExplicit,
	models.HarmCategoryDangerousContent: genai.HarmCategoryDangerousContent,
}

var blockThresholds = map[models.BlockThreshold]genai.HarmBlockThreshold{
	models.BlockNone: genai.HarmBlockNone,
}

func configureModel(model *genai.GenerativeModel, req models.ReviewRequest) {
	model.SetTemperature(req.Temperature)
	if req.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(req.MaxOutputTokens)
	}
	if req.ResponseMIMEType != "" {
		model.ResponseMIMEType = req.ResponseMIMEType
	}
	if req.SystemInstructions != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemInstructions)},
		}
	}
	model.SafetySettings = safetySettings(req.SafetySettings)
}

// safetySettings drops entries whose category or threshold has no Gemini
// counterpart.
func safetySettings(in []models.SafetySetting) []*genai.SafetySetting {
	if len(in) == 0 {
		return nil
	}
	out := make([]*genai.SafetySetting, 0, len(in))
	for _, s := range in {
		category, ok := harmCategories[s.Category]
		if !ok {
			continue
		}
		threshold, ok := blockThresholds[s.Threshold]
		if !ok {
			continue
		}
		out = append(out, &genai.SafetySetting{Category: category, Threshold: threshold})
	}
	return out
}

// extractUsage extracts usage metadata from the Gemini response
func extractUsage(resp *genai.GenerateContentResponse) *models.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	return &models.TokenUsage{
		InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
	}
}

func formatResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || resp.Candidates == nil {
		return ""
	}

	var formattedContent strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				formattedContent.WriteString(string(text))
			}
		}
	}
	return formattedContent.String()
}

func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || resp.PromptFeedback == nil {
		return ""
	}
	if resp.PromptFeedback.BlockReason == genai.BlockReasonUnspecified {
		return ""
	}
	return resp.PromptFeedback.BlockReason.String()
}

func wrapError(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return domainErrors.ErrAIBlocked.WithError(err)
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "quota") ||
		strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "resource exhausted") {
		return domainErrors.ErrGeminiQuotaExceeded.WithError(err)
	}

	if strings.Contains(errMsg, "invalid") ||
		strings.Contains(errMsg, "unauthorized") ||
		strings.Contains(errMsg, "api key") {
		return domainErrors.ErrGeminiAPIKeyInvalid.WithError(err)
	}

	return domainErrors.ErrAIGeneration.WithError(fmt.Errorf("gemini: %w", err))
}
