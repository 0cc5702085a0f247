package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"health-heroes/internal/core/ai/provider"
	"health-heroes/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.OpenRouterConfig {
	return config.OpenRouterConfig{
		APIKey:      "sk-test",
		BaseURL:     baseURL,
		Model:       "test/model",
		MaxTokens:   256,
		Temperature: 0.5,
		Timeout:     5 * time.Second,
		MaxRetries:  2,
		RetryWait:   time.Millisecond,
	}
}

func TestGenerateSendsChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test/model", body.Model)
		assert.Equal(t, 256, body.MaxTokens)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, provider.RoleSystem, body.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","model":"test/model","choices":[{"message":{"role":"assistant","content":"hello"}}],"usage":{"total_tokens":12}}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	resp, err := c.Generate(context.Background(), &provider.Request{Messages: []provider.Message{
		{Role: provider.RoleSystem, Content: "be nice"},
		{Role: provider.RoleUser, Content: "hi"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, 12, resp.Usage.TotalTokens)
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(testConfig(srv.URL)).Generate(context.Background(), &provider.Request{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.EqualValues(t, 3, calls.Load())
}

func TestGenerateReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key","code":401}}`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).Generate(context.Background(), &provider.Request{
		Messages: []provider.Message{{Role: provider.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).Generate(context.Background(), &provider.Request{})
	assert.ErrorIs(t, err, provider.ErrEmptyResponse)
}

func TestGenerateWithoutAPIKey(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.APIKey = ""

	_, err := NewClient(cfg).Generate(context.Background(), &provider.Request{})
	assert.ErrorContains(t, err, "api key")
}
