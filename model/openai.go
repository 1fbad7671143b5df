package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// EmbeddingModel is used for both ingestion and query embedding. The two
	// sides must share one model, or similarity scores are meaningless.
	EmbeddingModel = "text-embedding-3-small"

	// EmbeddingDimensions is the fixed output size of EmbeddingModel and the
	// declared width of the vector index.
	EmbeddingDimensions = 1536

	defaultEmbeddingsURL = "https://api.openai.com/v1/embeddings"
)

// EmbedderInterface produces fixed-dimension vectors for text.
type EmbedderInterface interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// OpenAIEmbedder calls the OpenAI embeddings endpoint.
type OpenAIEmbedder struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func NewOpenAIEmbedder(apiKey string) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		apiURL: defaultEmbeddingsURL,
		apiKey: apiKey,
		model:  EmbeddingModel,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one vector per input string, in input order.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embeddingRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, NewUpstreamError("embed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewUpstreamError("embed", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewUpstreamError("embed", fmt.Errorf("status %d, body: %s", resp.StatusCode, string(respBody)))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, NewUpstreamError("embed", fmt.Errorf("failed to unmarshal response: %w", err))
	}

	if len(embResp.Data) != len(texts) {
		return nil, NewUpstreamError("embed", fmt.Errorf("got %d vectors for %d inputs", len(embResp.Data), len(texts)))
	}

	// The API returns entries with an index field, use it rather than
	// trusting response order.
	vectors := make([][]float32, len(texts))
	for _, d := range embResp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, NewUpstreamError("embed", fmt.Errorf("vector index %d out of range", d.Index))
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
