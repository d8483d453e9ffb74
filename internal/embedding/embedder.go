// Package embedding provides the EmbeddingAndSimilarity adapter: an HTTP
// embedding client, cosine similarity with the "zero sentinel" remap, and
// a Qdrant-backed exemplar question index.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPEmbedder generates vector embeddings from text over HTTP.
type HTTPEmbedder struct {
	apiURL string
	model  string
	client *http.Client
}

// NewHTTPEmbedder creates a new embedder client.
func NewHTTPEmbedder(apiURL, model string) *HTTPEmbedder {
	return &HTTPEmbedder{
		apiURL: apiURL,
		model:  model,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Embed converts text to a vector embedding.
func (e *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := map[string]interface{}{
		"input": text,
		"model": e.model,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	return result.Data[0].Embedding, nil
}
