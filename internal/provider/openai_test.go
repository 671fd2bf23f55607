package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newOpenAITestServer points the client at a fake OpenAI-compatible
// endpoint. go-openai appends /chat/completions etc. to the base URL.
func newOpenAITestServer(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAI("test-key", srv.URL+"/v1")
}

func TestOpenAIListModels(t *testing.T) {
	client := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"object":"list","data":[{"id":"gpt-4o","object":"model"},{"id":"gpt-4o-mini","object":"model"}]}`)
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "gpt-4o", models[0].Name)
	assert.Equal(t, "gpt-4o-mini", models[1].Name)
}

func TestOpenAIComplete(t *testing.T) {
	client := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req struct {
			Model    string `json:"model"`
			Stream   bool   `json:"stream"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		fmt.Fprint(w, `{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hello there"},"finish_reason":"stop"}]}`)
	})

	full, err := client.Complete(context.Background(), CompletionRequest{
		Model: "gpt-4o",
		Messages: []Message{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hi"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there", full)
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	client := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"cmpl-1","object":"chat.completion","choices":[]}`)
	})

	_, err := client.Complete(context.Background(), CompletionRequest{Model: "gpt-4o"})
	require.Error(t, err)
	assert.Equal(t, KindBadResponse, Kind(err))
}

func TestOpenAIStreamDeliversDeltas(t *testing.T) {
	client := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Stream bool `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{},\"finish_reason\":\"stop\"}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var chunks []string
	err := client.Stream(context.Background(), CompletionRequest{
		Model:    "gpt-4o",
		Messages: []Message{{Role: "user", Content: "hi"}},
	}, func(chunk string) {
		chunks = append(chunks, chunk)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, chunks)
}

func TestOpenAIAuthFailure(t *testing.T) {
	client := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	})

	_, err := client.Complete(context.Background(), CompletionRequest{Model: "gpt-4o"})
	require.Error(t, err)
	assert.Equal(t, KindAuth, Kind(err))
}

func TestOpenAIRateLimit(t *testing.T) {
	client := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"Rate limit reached","type":"rate_limit_error"}}`)
	})

	err := client.Stream(context.Background(), CompletionRequest{Model: "gpt-4o"}, func(string) {})
	require.Error(t, err)
	assert.Equal(t, KindRateLimit, Kind(err))
}

func TestOpenAIConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens here anymore

	client := NewOpenAI("test-key", srv.URL+"/v1")
	_, err := client.ListModels(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindConnection, Kind(err))
}
