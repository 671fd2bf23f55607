package provider

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIBase is the official OpenAI endpoint; any compatible server
// (LocalAI, vLLM, Groq, llama.cpp server, ...) can be substituted.
const DefaultOpenAIBase = "https://api.openai.com/v1"

// OpenAI talks to an OpenAI-compatible REST endpoint.
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI returns a client for the endpoint at baseURL authenticated with
// apiKey. An empty baseURL selects the official OpenAI endpoint.
func NewOpenAI(apiKey, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg)}
}

// ListModels retrieves the models the endpoint exposes.
func (o *OpenAI) ListModels(ctx context.Context) ([]ModelInfo, error) {
	list, err := o.client.ListModels(ctx)
	if err != nil {
		return nil, classifyOpenAIError(err, "listing models")
	}

	models := make([]ModelInfo, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, ModelInfo{Name: m.ID})
	}
	return models, nil
}

// Complete performs a blocking chat completion.
func (o *OpenAI) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, o.chatRequest(req, false))
	if err != nil {
		return "", classifyOpenAIError(err, "chat request")
	}
	if len(resp.Choices) == 0 {
		return "", newError(KindBadResponse, "no choices in response", nil)
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream performs a streaming chat completion, invoking fn per delta.
func (o *OpenAI) Stream(ctx context.Context, req CompletionRequest, fn StreamFunc) error {
	stream, err := o.client.CreateChatCompletionStream(ctx, o.chatRequest(req, true))
	if err != nil {
		return classifyOpenAIError(err, "opening stream")
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return classifyOpenAIError(err, "reading stream")
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			fn(delta)
		}
	}
}

func (o *OpenAI) chatRequest(req CompletionRequest, stream bool) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
		Stream:      stream,
	}
}

// classifyOpenAIError maps go-openai and transport errors onto the
// provider error taxonomy.
func classifyOpenAIError(err error, op string) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return newError(kindForStatus(apiErr.HTTPStatusCode), op+": "+apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return newError(kindForStatus(reqErr.HTTPStatusCode), op+" failed", err)
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return newError(KindConnection, op+": backend unreachable", err)
	}

	return newError(KindBadResponse, op+" failed", err)
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimit
	default:
		return KindBadResponse
	}
}
