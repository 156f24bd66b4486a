package gemini

import (
	"context"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/thomas-vilte/matereview/internal/ai"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/logger"
	"github.com/thomas-vilte/matereview/internal/models"
)

// chatSession wraps a genai.ChatSession. Only turns answered with usable text
// stay in the history; a failed turn is rolled back so the next attempt sends
// alternating user and model turns.
type chatSession struct {
	cs    *genai.ChatSession
	model string
}

// StartChat configures a generative model from req and opens a session on it.
func (g *GeminiProvider) StartChat(ctx context.Context, req models.ReviewRequest) (ai.ChatSession, error) {
	if req.Model == "" {
		return nil, domainErrors.ErrGeminiModelMissing
	}

	model := g.Client.GenerativeModel(req.Model)
	configureModel(model, req)

	logger.FromContext(ctx).Debug("gemini chat session started",
		"model", req.Model,
		"system_instructions_length", len(req.SystemInstructions),
		"max_output_tokens", req.MaxOutputTokens)

	return &chatSession{cs: model.StartChat(), model: req.Model}, nil
}

func (s *chatSession) SendMessage(ctx context.Context, text string) (string, *models.TokenUsage, error) {
	log := logger.FromContext(ctx)
	start := time.Now()
	turns := len(s.cs.History)

	resp, err := s.cs.SendMessage(ctx, genai.Text(text))
	if err != nil {
		s.rollback(turns)
		log.Error("gemini API call failed",
			"error", err,
			"model", s.model)
		return "", nil, wrapError(err)
	}

	usage := extractUsage(resp)
	if usage != nil {
		usage.Model = s.model
		usage.DurationMs = time.Since(start).Milliseconds()
	}

	if reason := blockReason(resp); reason != "" {
		s.rollback(turns)
		return "", usage, domainErrors.ErrAIBlocked.WithContext("reason", reason)
	}

	out := formatResponse(resp)
	if out == "" {
		s.rollback(turns)
		return "", usage, domainErrors.ErrAIGeneration.WithError(errEmptyResponse)
	}

	return out, usage, nil
}

// rollback drops every history entry added after the first n.
func (s *chatSession) rollback(n int) {
	if len(s.cs.History) > n {
		s.cs.History = s.cs.History[:n]
	}
}
