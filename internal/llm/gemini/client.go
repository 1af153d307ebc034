// Package gemini is a client for the Gemini generateContent API. The
// credential is supplied per call rather than held by the client, because
// the service accepts it per request.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// maxErrorBody limits how much of an error response body is carried in the
// returned error.
const maxErrorBody = 512

// Client talks to the Gemini REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a new Gemini API client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx reply from the Gemini API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini api error %d: %s", e.StatusCode, e.Body)
}

// generateContent request/response shapes, trimmed to the fields used.

type generateRequest struct {
	Contents         []content       `json:"contents"`
	GenerationConfig *generateConfig `json:"generationConfig,omitempty"`
}

type generateConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type listModelsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Generate requests a completion from the given model with a JSON response
// body and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, model, apiKey, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generateConfig{
			ResponseMIMEType: "application/json",
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	respBody, err := c.do(ctx, http.MethodPost, endpoint, apiKey, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response for model %s has no candidates", model)
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}

// ListModels returns the model identifiers available to the credential,
// with the "models/" resource prefix stripped.
func (c *Client) ListModels(ctx context.Context, apiKey string) ([]string, error) {
	respBody, err := c.do(ctx, http.MethodGet, c.baseURL+"/v1beta/models", apiKey, nil)
	if err != nil {
		return nil, err
	}

	var out listModelsResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("unmarshal model list: %w", err)
	}

	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		name := m.Name
		if len(name) > len("models/") && name[:len("models/")] == "models/" {
			name = name[len("models/"):]
		}
		names = append(names, name)
	}
	return names, nil
}

func (c *Client) do(ctx context.Context, method, endpoint, apiKey string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := respBody
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	return respBody, nil
}
