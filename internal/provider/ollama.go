package provider

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultOllamaHost is where a locally installed Ollama daemon listens.
const DefaultOllamaHost = "http://localhost:11434"

// Ollama talks to a local Ollama daemon over its HTTP API.
type Ollama struct {
	baseURL    string
	httpClient *http.Client
}

// NewOllama returns a client for the daemon at host. An empty host selects
// the default local address.
func NewOllama(host string) *Ollama {
	if host == "" {
		host = DefaultOllamaHost
	}
	return &Ollama{
		baseURL: strings.TrimRight(host, "/"),
		// No client timeout: completions can be slow and streams are
		// open-ended. Cancellation is handled via the request context.
		httpClient: &http.Client{},
	}
}

type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name       string    `json:"name"`
		Size       int64     `json:"size"`
		ModifiedAt time.Time `json:"modified_at"`
	} `json:"models"`
}

type ollamaPsResponse struct {
	Models []struct {
		Name      string    `json:"name"`
		Size      int64     `json:"size"`
		ExpiresAt time.Time `json:"expires_at"`
	} `json:"models"`
}

type ollamaErrorBody struct {
	Error string `json:"error"`
}

// ListModels retrieves the locally available models from /api/tags.
func (o *Ollama) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, newError(KindConnection, "creating request", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, newError(KindConnection, "Ollama server not reachable at "+o.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, o.statusError(resp, "listing models")
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, newError(KindBadResponse, "decoding model list", err)
	}

	models := make([]ModelInfo, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, ModelInfo{Name: m.Name, Size: m.Size, ModifiedAt: m.ModifiedAt})
	}
	return models, nil
}

// Running lists the models currently loaded by the daemon from /api/ps.
func (o *Ollama) Running(ctx context.Context) ([]RunningModel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/ps", nil)
	if err != nil {
		return nil, newError(KindConnection, "creating request", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, newError(KindConnection, "Ollama server not reachable at "+o.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, o.statusError(resp, "listing running models")
	}

	var ps ollamaPsResponse
	if err := json.NewDecoder(resp.Body).Decode(&ps); err != nil {
		return nil, newError(KindBadResponse, "decoding running model list", err)
	}

	running := make([]RunningModel, 0, len(ps.Models))
	for _, m := range ps.Models {
		running = append(running, RunningModel{Name: m.Name, Size: m.Size, ExpiresAt: m.ExpiresAt})
	}
	return running, nil
}

// Pull downloads a model via /api/pull, forwarding status lines to fn.
func (o *Ollama) Pull(ctx context.Context, name string, fn StreamFunc) error {
	body, err := json.Marshal(map[string]any{"name": name, "stream": true})
	if err != nil {
		return newError(KindBadResponse, "encoding pull request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return newError(KindConnection, "creating request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return newError(KindConnection, "Ollama server not reachable at "+o.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return o.statusError(resp, "pulling model "+name)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var status struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		}
		if err := json.Unmarshal(line, &status); err != nil {
			return newError(KindBadResponse, "decoding pull status", err)
		}
		if status.Error != "" {
			return o.apiError(status.Error)
		}
		if status.Status != "" && fn != nil {
			fn(status.Status)
		}
	}
	if err := scanner.Err(); err != nil {
		return newError(KindConnection, "reading pull stream", err)
	}
	return nil
}

// Remove deletes a local model via /api/delete.
func (o *Ollama) Remove(ctx context.Context, name string) error {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return newError(KindBadResponse, "encoding delete request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, o.baseURL+"/api/delete", bytes.NewReader(body))
	if err != nil {
		return newError(KindConnection, "creating request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return newError(KindConnection, "Ollama server not reachable at "+o.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return o.statusError(resp, "removing model "+name)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// Complete performs a blocking chat completion against /api/chat.
func (o *Ollama) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := o.chat(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", newError(KindBadResponse, "decoding chat response", err)
	}
	if out.Error != "" {
		return "", o.apiError(out.Error)
	}
	return out.Message.Content, nil
}

// Stream performs a streaming chat completion. Ollama streams one JSON
// object per line; fn is called for every non-empty content fragment.
func (o *Ollama) Stream(ctx context.Context, req CompletionRequest, fn StreamFunc) error {
	resp, err := o.chat(ctx, req, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var chunk ollamaChatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return newError(KindBadResponse, "decoding stream chunk", err)
		}
		if chunk.Error != "" {
			return o.apiError(chunk.Error)
		}
		if chunk.Message.Content != "" {
			fn(chunk.Message.Content)
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return newError(KindConnection, "reading response stream", err)
	}
	return nil
}

func (o *Ollama) chat(ctx context.Context, req CompletionRequest, stream bool) (*http.Response, error) {
	payload := ollamaChatRequest{
		Model:    req.Model,
		Messages: req.Messages,
		Stream:   stream,
	}
	if req.Temperature != 0 || req.MaxTokens != 0 {
		payload.Options = &ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, newError(KindBadResponse, "encoding chat request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, newError(KindConnection, "creating request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, newError(KindConnection, "Ollama server not reachable at "+o.baseURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, o.statusError(resp, "chat request")
	}
	return resp, nil
}

// statusError converts a non-200 response into a categorized error,
// preferring the error message Ollama includes in the body.
func (o *Ollama) statusError(resp *http.Response, op string) error {
	kind := KindBadResponse
	switch resp.StatusCode {
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = KindAuth
	case http.StatusTooManyRequests:
		kind = KindRateLimit
	}

	var body ollamaErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return newError(kind, fmt.Sprintf("%s: %s", op, body.Error), nil)
	}
	return newError(kind, fmt.Sprintf("%s failed: %s", op, resp.Status), nil)
}

// apiError classifies an error string embedded in an otherwise-200 body.
func (o *Ollama) apiError(msg string) error {
	kind := KindBadResponse
	if strings.Contains(msg, "not found") {
		kind = KindNotFound
	}
	return newError(kind, msg, nil)
}
