package chat

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QinCai-rui/mdllama/internal/output"
	"github.com/QinCai-rui/mdllama/internal/provider"
)

// scriptReader feeds a fixed sequence of lines, then reports end of input.
type scriptReader struct {
	lines []string
	pos   int
}

func (r *scriptReader) ReadLine() (string, error) {
	if r.pos >= len(r.lines) {
		return "", io.EOF
	}
	line := r.lines[r.pos]
	r.pos++
	return line, nil
}

// fakeClient scripts backend behavior per turn.
type fakeClient struct {
	chunks    []string
	streamErr error
	models    []provider.ModelInfo
	requests  []provider.CompletionRequest
}

func (c *fakeClient) ListModels(ctx context.Context) ([]provider.ModelInfo, error) {
	return c.models, nil
}

func (c *fakeClient) Complete(ctx context.Context, req provider.CompletionRequest) (string, error) {
	c.requests = append(c.requests, req)
	var full string
	for _, ch := range c.chunks {
		full += ch
	}
	return full, nil
}

func (c *fakeClient) Stream(ctx context.Context, req provider.CompletionRequest, fn provider.StreamFunc) error {
	c.requests = append(c.requests, req)
	for _, ch := range c.chunks {
		fn(ch)
	}
	return c.streamErr
}

type fakeSaver struct {
	saved *Conversation
	model string
}

func (s *fakeSaver) Save(conv *Conversation, model string) (string, error) {
	s.saved = conv
	s.model = model
	return "20250101_000000_abcdef", nil
}

func quietPrinter() *output.Printer {
	return output.NewPrinter(io.Discard, io.Discard, false)
}

func TestLoopTurnAndSave(t *testing.T) {
	client := &fakeClient{chunks: []string{"hel", "lo"}}
	saver := &fakeSaver{}
	loop := NewLoop(Options{
		Client:  client,
		Printer: quietPrinter(),
		Reader:  &scriptReader{lines: []string{"hi there", "exit"}},
		Saver:   saver,
		Model:   "llama3",
		Save:    true,
	})

	require.NoError(t, loop.Run(context.Background()))

	require.NotNil(t, saver.saved)
	assert.Equal(t, "llama3", saver.model)
	require.Equal(t, 2, saver.saved.Len())
	assert.Equal(t, RoleUser, saver.saved.Messages[0].Role)
	assert.Equal(t, "hi there", saver.saved.Messages[0].Content)
	assert.Equal(t, RoleAssistant, saver.saved.Messages[1].Role)
	assert.Equal(t, "hello", saver.saved.Messages[1].Content)
}

func TestLoopMultilineIsSingleTurn(t *testing.T) {
	client := &fakeClient{chunks: []string{"ok"}}
	loop := NewLoop(Options{
		Client:  client,
		Printer: quietPrinter(),
		Reader:  &scriptReader{lines: []string{`"""`, "first line", "second line", `"""`, "exit"}},
		Model:   "llama3",
	})

	require.NoError(t, loop.Run(context.Background()))

	require.Len(t, client.requests, 1)
	msgs := client.requests[0].Messages
	require.Len(t, msgs, 1)
	assert.Equal(t, "first line\nsecond line", msgs[0].Content)
}

func TestLoopOversizedAttachmentCreatesNoTurn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.bin")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("a"), MaxAttachmentSize+1), 0644))

	client := &fakeClient{chunks: []string{"ok"}}
	loop := NewLoop(Options{
		Client:  client,
		Printer: quietPrinter(),
		Reader:  &scriptReader{lines: []string{"file:" + path, "exit"}},
		Model:   "llama3",
	})

	require.NoError(t, loop.Run(context.Background()))
	assert.Empty(t, client.requests)
	assert.Equal(t, 0, loop.Conversation().Len())
}

func TestLoopAttachmentConsumedByNextTurnOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("attached"), 0644))

	client := &fakeClient{chunks: []string{"ok"}}
	loop := NewLoop(Options{
		Client:  client,
		Printer: quietPrinter(),
		Reader:  &scriptReader{lines: []string{"file:" + path, "look at this", "and this", "exit"}},
		Model:   "llama3",
	})

	require.NoError(t, loop.Run(context.Background()))

	require.Len(t, client.requests, 2)
	first := client.requests[0].Messages
	assert.Contains(t, first[0].Content, "look at this")
	assert.Contains(t, first[0].Content, "attached")

	second := client.requests[1].Messages
	assert.Equal(t, "and this", second[len(second)-1].Content)
}

func TestLoopModelSelectionAbortsAfterInvalidAttempts(t *testing.T) {
	client := &fakeClient{
		chunks: []string{"ok"},
		models: []provider.ModelInfo{{Name: "alpha"}, {Name: "beta"}},
	}
	loop := NewLoop(Options{
		Client:  client,
		Printer: quietPrinter(),
		Reader:  &scriptReader{lines: []string{"models", "0", "nine", "7", "exit"}},
		Model:   "llama3",
	})

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, "llama3", loop.model)
}

func TestLoopModelSelectionByNumber(t *testing.T) {
	client := &fakeClient{
		chunks: []string{"ok"},
		models: []provider.ModelInfo{{Name: "alpha"}, {Name: "beta"}},
	}
	loop := NewLoop(Options{
		Client:  client,
		Printer: quietPrinter(),
		Reader:  &scriptReader{lines: []string{"models", "2", "exit"}},
		Model:   "llama3",
	})

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, "beta", loop.model)
}

func TestLoopBackendErrorDropsUserTurn(t *testing.T) {
	client := &fakeClient{
		chunks:    []string{"partial"},
		streamErr: errors.New("connection reset"),
	}
	loop := NewLoop(Options{
		Client:  client,
		Printer: quietPrinter(),
		Reader:  &scriptReader{lines: []string{"hi", "exit"}},
		Model:   "llama3",
	})

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, 0, loop.Conversation().Len())
}

func TestLoopClearRestoresSystemPrompt(t *testing.T) {
	client := &fakeClient{chunks: []string{"ok"}}
	loop := NewLoop(Options{
		Client:       client,
		Printer:      quietPrinter(),
		Reader:       &scriptReader{lines: []string{"hi", "clear", "exit"}},
		Model:        "llama3",
		SystemPrompt: "stay brief",
	})

	require.NoError(t, loop.Run(context.Background()))

	conv := loop.Conversation()
	require.Equal(t, 1, conv.Len())
	assert.Equal(t, "stay brief", conv.System())
}

func TestLoopTempDirectiveUpdatesTemperature(t *testing.T) {
	client := &fakeClient{chunks: []string{"ok"}}
	loop := NewLoop(Options{
		Client:  client,
		Printer: quietPrinter(),
		Reader:  &scriptReader{lines: []string{"temp:0.2", "hi", "temp:abc", "exit"}},
		Model:   "llama3",
	})

	require.NoError(t, loop.Run(context.Background()))

	require.Len(t, client.requests, 1)
	assert.Equal(t, 0.2, client.requests[0].Temperature)
	// The invalid value is rejected and the last good value stays.
	assert.Equal(t, 0.2, loop.Conversation().Temperature)
}

func TestLoopEmptyInputIgnored(t *testing.T) {
	client := &fakeClient{chunks: []string{"ok"}}
	loop := NewLoop(Options{
		Client:  client,
		Printer: quietPrinter(),
		Reader:  &scriptReader{lines: []string{"", "   ", "exit"}},
		Model:   "llama3",
	})

	require.NoError(t, loop.Run(context.Background()))
	assert.Empty(t, client.requests)
}
