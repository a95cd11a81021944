// Package ollama implements the HTTP client for an Ollama-compatible LLM
// server: connectivity probing, model listing, and blocking generation with
// response-time measurement.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// generateTimeout bounds a single generation call. Large source files on
// slow local models routinely take several minutes.
const generateTimeout = 20 * time.Minute

// Client talks to an Ollama-compatible server. It is safe for concurrent
// use. The last error message is retained for classification by callers
// that only see a nil response.
type Client struct {
	BaseURL string

	httpClient *http.Client

	mu        sync.Mutex
	lastError string
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		httpClient: &http.Client{Timeout: generateTimeout},
	}
}

// CheckConnection reports whether the server answers its tags endpoint.
func (c *Client) CheckConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setLastError(err.Error())
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Models returns the names of the models the server has available.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setLastError(err.Error())
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := fmt.Sprintf("listing models: %d - %s", resp.StatusCode, body)
		c.setLastError(msg)
		return nil, fmt.Errorf("%s", msg)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decoding tags response: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumCtx      int     `json:"num_ctx"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate runs a blocking (non-streaming) generation and returns the
// response text plus the wall-clock seconds the server took. The model is
// verified against the server's model list first so a missing model fails
// fast with a classifiable message instead of a long opaque request.
func (c *Client) Generate(ctx context.Context, model, prompt string, contextSize int, temperature float64) (string, float64, error) {
	models, err := c.Models(ctx)
	if err != nil {
		return "", 0, err
	}
	if !contains(models, model) {
		msg := fmt.Sprintf("model not found: %q (available: %v)", model, models)
		c.setLastError(msg)
		return "", 0, fmt.Errorf("%s", msg)
	}

	payload, err := json.Marshal(generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			NumCtx:      contextSize,
			Temperature: temperature,
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("encoding generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setLastError(err.Error())
		return "", 0, fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()
	elapsed := time.Since(start).Seconds()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := fmt.Sprintf("generation failed: %d - %s", resp.StatusCode, body)
		c.setLastError(msg)
		return "", 0, fmt.Errorf("%s", msg)
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		c.setLastError(err.Error())
		return "", 0, fmt.Errorf("decoding generate response: %w", err)
	}
	return gen.Response, elapsed, nil
}

// LastError returns the most recent error message seen by the client, for
// rate-limit classification by callers.
func (c *Client) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

func (c *Client) setLastError(msg string) {
	c.mu.Lock()
	c.lastError = msg
	c.mu.Unlock()
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
