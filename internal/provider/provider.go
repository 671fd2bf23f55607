// Package provider defines the client abstractions for model-serving
// backends. Two implementations exist: Ollama (local daemon) and OpenAI
// (any OpenAI-compatible REST endpoint).
package provider

import (
	"context"
	"strings"
	"time"
)

// Message is a single role-tagged message on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest carries everything needed for one completion turn.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// ModelInfo describes a model available on a backend.
type ModelInfo struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

// RunningModel describes a model currently loaded by the local daemon.
type RunningModel struct {
	Name      string
	Size      int64
	ExpiresAt time.Time
}

// StreamFunc receives text fragments as they arrive. It is called
// synchronously, in order, from the same goroutine that reads the stream.
type StreamFunc func(chunk string)

// Client is the interface all provider backends implement.
type Client interface {
	// ListModels returns the models available on the backend.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// Complete performs a blocking, non-streaming completion.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Stream performs a streaming completion, invoking fn for each text
	// fragment. A transport error mid-stream is returned to the caller;
	// fragments delivered before the error have already been consumed.
	Stream(ctx context.Context, req CompletionRequest, fn StreamFunc) error
}

// ModelManager is implemented by backends that manage local model storage.
type ModelManager interface {
	// Pull downloads a model, reporting progress lines through fn.
	Pull(ctx context.Context, name string, fn StreamFunc) error

	// Remove deletes a local model.
	Remove(ctx context.Context, name string) error

	// Running lists models currently loaded in memory.
	Running(ctx context.Context) ([]RunningModel, error)
}

// StreamWithFallback tries a streaming completion and, when the stream fails
// before producing any output, retries exactly once without streaming. If
// fragments were already delivered the error is returned as-is so the caller
// can report it without duplicating output. The full response text is
// returned on success; on the fallback path fn is invoked once with the
// complete text so printing stays uniform.
func StreamWithFallback(ctx context.Context, c Client, req CompletionRequest, fn StreamFunc) (string, error) {
	var sb strings.Builder
	err := c.Stream(ctx, req, func(chunk string) {
		sb.WriteString(chunk)
		fn(chunk)
	})
	if err == nil {
		return sb.String(), nil
	}
	if sb.Len() > 0 {
		return "", err
	}

	full, cerr := c.Complete(ctx, req)
	if cerr != nil {
		return "", cerr
	}
	fn(full)
	return full, nil
}
