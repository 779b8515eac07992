package llm

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

const defaultModel = "gemini-1.5-flash"

// VertexAIClient wraps the Vertex AI Gemini API as a Completer.
type VertexAIClient struct {
	client    *genai.Client
	modelName string
}

// NewVertexAIClient creates a new Vertex AI client for the given project and
// location. An empty model name falls back to the default model.
func NewVertexAIClient(ctx context.Context, projectID, location, modelName string) (*VertexAIClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("google cloud project is required")
	}
	if location == "" {
		location = "us-central1"
	}
	if modelName == "" {
		modelName = defaultModel
	}

	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	return &VertexAIClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Complete sends a system instruction and a user request to the model and
// returns the raw response text. Service failures are wrapped in ErrService.
func (v *VertexAIClient) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	model := v.client.GenerativeModel(v.modelName)
	model.SetTemperature(temperature)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(2048)

	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %v", ErrService, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no response candidates returned", ErrService)
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result += string(text)
		}
	}

	return result, nil
}

// Close closes the underlying Vertex AI client.
func (v *VertexAIClient) Close() error {
	return v.client.Close()
}
