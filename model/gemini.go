package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const GenerationModel = "gemini-1.5-pro-latest"

// GeneratorInterface turns a fully built prompt into answer text.
type GeneratorInterface interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewGeminiClient builds the shared Gemini client. Constructed once at
// startup and reused across requests.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, option.WithAPIKey(apiKey))
}

type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGeminiGenerator(client *genai.Client) *GeminiGenerator {
	return &GeminiGenerator{
		client:      client,
		model:       GenerationModel,
		temperature: 0.7,
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	genaiModel := g.client.GenerativeModel(g.model)
	genaiModel.SetCandidateCount(1)
	genaiModel.SetTemperature(g.temperature)

	resp, err := genaiModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", NewUpstreamError("generate", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", NewUpstreamError("generate", err)
	}
	return strings.TrimSpace(text), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return sb.String(), nil
}
