package ai

import (
	"context"

	"github.com/thomas-vilte/matereview/internal/models"
)

// ChatSession is a stateful conversation with a generative model. Every
// message is appended to the session history.
type ChatSession interface {
	// SendMessage sends one user turn and returns the raw text of the reply.
	SendMessage(ctx context.Context, text string) (string, *models.TokenUsage, error)
}

// ChatStarter opens chat sessions configured from a review request
// (system instructions, generation and safety settings).
type ChatStarter interface {
	StartChat(ctx context.Context, req models.ReviewRequest) (ChatSession, error)
}

// ModelInfo is implemented by providers that can report what they run on.
type ModelInfo interface {
	// GetModelName returns the name of the current model (e.g.: "gemini-1.5-flash")
	GetModelName() string

	// GetProviderName returns the name of the provider (e.g.: "gemini")
	GetProviderName() string
}
