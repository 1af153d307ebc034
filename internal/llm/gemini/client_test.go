package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": `{"tool":"send_reply"}`}},
				},
			}},
		})
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))

	text, err := c.Generate(context.Background(), "gemini-2.5-flash", "key-123", "classify this")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != `{"tool":"send_reply"}` {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/v1beta/models/gemini-2.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "key-123" {
		t.Errorf("api key header = %q, want key-123", gotKey)
	}

	// the prompt must land in contents[0].parts[0].text
	contents, _ := gotBody["contents"].([]any)
	if len(contents) != 1 {
		t.Fatalf("contents = %v", gotBody["contents"])
	}
	first := contents[0].(map[string]any)
	parts := first["parts"].([]any)
	if text := parts[0].(map[string]any)["text"]; text != "classify this" {
		t.Errorf("prompt text = %q, want %q", text, "classify this")
	}

	// structured output must be requested
	genCfg, _ := gotBody["generationConfig"].(map[string]any)
	if genCfg["responseMimeType"] != "application/json" {
		t.Errorf("responseMimeType = %v, want application/json", genCfg["responseMimeType"])
	}
}

func TestGenerate_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))

	_, err := c.Generate(context.Background(), "gemini-2.5-flash", "key-123", "hi")
	if err == nil {
		t.Fatal("expected error for 429 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Body, "quota exceeded") {
		t.Errorf("body = %q, want quota message", apiErr.Body)
	}
}

func TestGenerate_NoCandidates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))

	_, err := c.Generate(context.Background(), "gemini-2.5-flash", "key-123", "hi")
	if err == nil || !strings.Contains(err.Error(), "no candidates") {
		t.Errorf("error = %v, want no-candidates error", err)
	}
}

func TestListModels(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models" {
			t.Errorf("path = %q, want /v1beta/models", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"models":[{"name":"models/gemini-2.5-flash"},{"name":"models/gemini-2.0-flash"}]}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL))

	models, err := c.ListModels(context.Background(), "key-123")
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	want := []string{"gemini-2.5-flash", "gemini-2.0-flash"}
	if len(models) != len(want) {
		t.Fatalf("models = %v, want %v", models, want)
	}
	for i := range want {
		if models[i] != want[i] {
			t.Errorf("models[%d] = %q, want %q", i, models[i], want[i])
		}
	}
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	c := New(WithTimeout(3 * time.Second))
	if c.httpClient.Timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", c.httpClient.Timeout)
	}
}
