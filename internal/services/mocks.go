package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/review"
)

type (
	MockVCSClient struct {
		mock.Mock
	}

	MockInvoker struct {
		mock.Mock
	}

	MockRenderer struct {
		mock.Mock
	}
)

func (m *MockVCSClient) ListPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]models.ChangedFile, error) {
	args := m.Called(ctx, owner, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChangedFile), args.Error(1)
}

func (m *MockVCSClient) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) error {
	args := m.Called(ctx, owner, repo, number, body)
	return args.Error(0)
}

func (m *MockInvoker) Invoke(ctx context.Context, req models.ReviewRequest) review.InvocationResult {
	args := m.Called(ctx, req)
	return args.Get(0).(review.InvocationResult)
}

func (m *MockRenderer) TooLarge(maxLength int) string {
	args := m.Called(maxLength)
	return args.String(0)
}

func (m *MockRenderer) Findings(findings []models.ReviewFinding, files []models.ChangedFile, model string) string {
	args := m.Called(findings, files, model)
	return args.String(0)
}
