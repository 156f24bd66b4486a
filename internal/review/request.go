package review

import (
	"encoding/json"
	"fmt"

	"github.com/thomas-vilte/matereview/internal/ai"
	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/models"
)

const responseMIMEType = "application/json"

// payloadFile is the only shape of a changed file the model ever sees.
type payloadFile struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Patch    string `json:"patch,omitempty"`
}

// BuildPayload serializes the changed files into the single user message.
func BuildPayload(files []models.ChangedFile) (string, error) {
	payload := make([]payloadFile, len(files))
	for i, f := range files {
		payload[i] = payloadFile{Filename: f.Filename, Status: f.Status, Patch: f.Patch}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error serializing changed files: %w", err)
	}
	return string(data), nil
}

// BuildRequest turns the eligible files and the run policy into the request
// sent to the model.
func BuildRequest(files []models.ChangedFile, policy config.ReviewPolicy, lang string) (models.ReviewRequest, error) {
	instructions, err := ai.ReviewInstructions(lang)
	if err != nil {
		return models.ReviewRequest{}, err
	}

	message, err := BuildPayload(files)
	if err != nil {
		return models.ReviewRequest{}, err
	}

	safety := make([]models.SafetySetting, len(policy.SafetySettings))
	copy(safety, policy.SafetySettings)

	return models.ReviewRequest{
		Model:              policy.Model,
		SystemInstructions: instructions,
		Message:            message,
		Temperature:        policy.Temperature,
		MaxOutputTokens:    int32(policy.MaxOutputTokens),
		ResponseMIMEType:   responseMIMEType,
		SafetySettings:     safety,
	}, nil
}
