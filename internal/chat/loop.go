package chat

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/QinCai-rui/mdllama/internal/output"
	"github.com/QinCai-rui/mdllama/internal/provider"
)

// modelSelectAttempts caps how many invalid selections are tolerated before
// model selection aborts and the previous model is retained.
const modelSelectAttempts = 3

// Saver persists a finished conversation. Implemented by the history store.
type Saver interface {
	Save(conv *Conversation, model string) (string, error)
}

// Options configures a session loop.
type Options struct {
	Client  provider.Client
	Printer *output.Printer
	Reader  LineReader
	Saver   Saver

	// Conversation to continue; a fresh one is created when nil.
	Conversation *Conversation

	Model          string
	SystemPrompt   string
	Temperature    float64
	MaxTokens      int
	Save           bool
	StreamFallback bool
	RenderMarkdown bool
}

// Loop runs one interactive chat session. It owns its conversation
// exclusively for its lifetime.
type Loop struct {
	client  provider.Client
	printer *output.Printer
	reader  LineReader
	saver   Saver

	conv           *Conversation
	model          string
	systemPrompt   string
	save           bool
	streamFallback bool
	renderMarkdown bool

	// pending holds file content queued by file:, consumed by exactly the
	// next user turn.
	pending string
}

// NewLoop builds a session loop from options.
func NewLoop(opts Options) *Loop {
	conv := opts.Conversation
	if conv == nil {
		conv = NewConversation()
	}
	if opts.Temperature != 0 {
		conv.Temperature = opts.Temperature
	}
	if opts.MaxTokens != 0 {
		conv.MaxTokens = opts.MaxTokens
	}

	return &Loop{
		client:         opts.Client,
		printer:        opts.Printer,
		reader:         opts.Reader,
		saver:          opts.Saver,
		conv:           conv,
		model:          opts.Model,
		systemPrompt:   opts.SystemPrompt,
		save:           opts.Save,
		streamFallback: opts.StreamFallback,
		renderMarkdown: opts.RenderMarkdown,
	}
}

// Conversation returns the loop's conversation, for persisting it after the
// session ends.
func (l *Loop) Conversation() *Conversation {
	return l.conv
}

// Run drives the session until exit/quit or end of input. User-input and
// backend errors are reported and control returns to the prompt; only
// input-source failures terminate the loop with an error.
func (l *Loop) Run(ctx context.Context) error {
	l.printHeader()

	if l.systemPrompt != "" {
		l.conv.SetSystem(l.systemPrompt)
	}

	for {
		line, err := l.reader.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		in := ParseLine(line)
		switch in.Kind {
		case DirectiveExit:
			l.printer.Println("Exiting interactive chat...")
			return l.finish()

		case DirectiveClear:
			l.conv.Clear()
			if l.systemPrompt != "" {
				l.conv.SetSystem(l.systemPrompt)
			}
			l.printer.Successf("Context cleared.")

		case DirectiveFile:
			l.attachFile(in.Arg)

		case DirectiveSystem:
			l.systemPrompt = in.Arg
			l.conv.SetSystem(in.Arg)
			if in.Arg != "" {
				l.printer.Successf("System prompt updated.")
			} else {
				l.printer.Infof("System prompt cleared.")
			}

		case DirectiveTemp:
			temp, err := strconv.ParseFloat(in.Arg, 64)
			if err != nil {
				l.printer.Errorf("Invalid temperature value %q. Please use a number between 0 and 1.", in.Arg)
				continue
			}
			l.conv.Temperature = temp
			l.printer.Successf("Temperature set to %g", temp)

		case DirectiveModel:
			if in.Arg != "" {
				l.model = in.Arg
				l.printer.Successf("Switched to model: %s", l.model)
				continue
			}
			l.selectModel(ctx)

		case DirectiveModels:
			l.selectModel(ctx)

		case DirectiveMultiline:
			text, err := l.readMultiline()
			if err != nil {
				return l.finish()
			}
			l.printer.Successf("Multiline input received")
			l.turn(ctx, text)

		case PlainText:
			if strings.TrimSpace(in.Text) == "" {
				continue
			}
			l.turn(ctx, in.Text)
		}
	}

	l.printer.Println("\nExiting interactive chat...")
	return l.finish()
}

// turn sends one user turn to the backend, streaming the reply. On error
// the user turn is backed out so the conversation never holds a question
// without its answer; partial streamed output stays on screen.
func (l *Loop) turn(ctx context.Context, text string) {
	if l.pending != "" {
		text += l.pending
		l.pending = ""
	}

	l.conv.Append(RoleUser, text)
	l.printer.AssistantLabel()

	full, err := l.complete(ctx)
	if err != nil {
		l.printer.Println()
		l.reportBackendError(err)
		l.conv.DropLast()
		return
	}

	l.conv.Append(RoleAssistant, full)
	l.printer.Println()
	if l.renderMarkdown {
		l.printer.Markdown(full)
	}
}

// complete runs the streaming request for the current conversation,
// printing fragments as they arrive. For OpenAI-compatible backends a
// failed stream is retried once without streaming.
func (l *Loop) complete(ctx context.Context) (string, error) {
	req := l.conv.Request(l.model)
	chunk := func(s string) { l.printer.Chunk(s) }

	if l.streamFallback {
		return provider.StreamWithFallback(ctx, l.client, req, chunk)
	}

	var sb strings.Builder
	err := l.client.Stream(ctx, req, func(s string) {
		sb.WriteString(s)
		chunk(s)
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// attachFile queues a file's contents for inclusion in the next user turn
// only. Oversized or unreadable files are reported without creating a turn.
func (l *Loop) attachFile(path string) {
	if path == "" {
		l.printer.Errorf("Please specify a file path.")
		return
	}
	content, err := ReadAttachment(path)
	if err != nil {
		l.printer.Errorf("Error reading file: %v", err)
		return
	}
	l.pending = content
	l.printer.Successf("File %q loaded. It will be included in your next message.", path)
}

// selectModel fetches the available models and lets the user pick one by
// number. After three invalid selections the previous model is retained.
func (l *Loop) selectModel(ctx context.Context) {
	models, err := l.client.ListModels(ctx)
	if err != nil {
		l.reportBackendError(err)
		return
	}
	if len(models) == 0 {
		l.printer.Infof("No models available.")
		return
	}

	l.printer.Infof("Available models:")
	for i, m := range models {
		l.printer.Printf("%3d. %s\n", i+1, m.Name)
	}

	for attempt := 0; attempt < modelSelectAttempts; attempt++ {
		l.printer.Printf("Select a model (1-%d): ", len(models))
		line, err := l.reader.ReadLine()
		if err != nil {
			break
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || n < 1 || n > len(models) {
			l.printer.Errorf("Invalid selection %q.", strings.TrimSpace(line))
			continue
		}
		l.model = models[n-1].Name
		l.printer.Successf("Switched to model: %s", l.model)
		return
	}

	l.printer.Errorf("Selection aborted; keeping model %s.", l.model)
}

// readMultiline collects lines until the closing marker, preserving
// interior newlines. End of input closes the block as well.
func (l *Loop) readMultiline() (string, error) {
	l.printer.Commandf("Enter your multiline input (end with %s on a new line):", MultilineMarker)

	var lines []string
	for {
		line, err := l.reader.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) == MultilineMarker {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// finish persists the conversation when saving was requested.
func (l *Loop) finish() error {
	if !l.save || l.saver == nil || l.conv.Len() == 0 {
		return nil
	}
	id, err := l.saver.Save(l.conv, l.model)
	if err != nil {
		return err
	}
	l.printer.Successf("Conversation saved to session %s", id)
	return nil
}

func (l *Loop) printHeader() {
	l.printer.Infof("Model: %s", l.model)
	l.printer.Infof("Time:  %s", time.Now().Format("2006-01-02 15:04:05"))
	l.printer.Infof("User:  %s", userName())
	l.printer.Println()
	l.printer.Infof("Interactive chat commands:")
	l.printer.Commandf("  exit/quit       - End the conversation")
	l.printer.Commandf("  clear           - Clear the conversation context")
	l.printer.Commandf("  file:<path>     - Include a file in your next message")
	l.printer.Commandf("  system:<prompt> - Set or change the system prompt")
	l.printer.Commandf("  temp:<value>    - Change the temperature setting")
	l.printer.Commandf("  model:<name>    - Switch to a different model")
	l.printer.Commandf("  models          - Pick a model from a list")
	l.printer.Commandf(`  """             - Start/end a multiline message`)
	l.printer.Println()
}

func (l *Loop) reportBackendError(err error) {
	l.printer.Errorf("Error (%s): %v", provider.Kind(err), err)
}

func userName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}
