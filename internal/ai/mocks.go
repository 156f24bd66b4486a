package ai

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/matereview/internal/models"
)

type (
	MockChatStarter struct {
		mock.Mock
	}

	MockChatSession struct {
		mock.Mock
	}
)

func (m *MockChatStarter) StartChat(ctx context.Context, req models.ReviewRequest) (ChatSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ChatSession), args.Error(1)
}

func (m *MockChatSession) SendMessage(ctx context.Context, text string) (string, *models.TokenUsage, error) {
	args := m.Called(ctx, text)
	var usage *models.TokenUsage
	if args.Get(1) != nil {
		usage = args.Get(1).(*models.TokenUsage)
	}
	return args.String(0), usage, args.Error(2)
}
