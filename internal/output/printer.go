// Package output centralizes terminal output: colored user-facing
// messaging and optional Markdown rendering. A single Printer is
// constructed at startup and passed to every component that prints,
// instead of reading ambient globals.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

// Printer writes user-facing output. Errors go to the error writer,
// everything else to the output writer.
type Printer struct {
	out    io.Writer
	errOut io.Writer

	errC     *color.Color
	okC      *color.Color
	infoC    *color.Color
	cmdC     *color.Color
	assistC  *color.Color
	promptC  *color.Color
	renderer *glamour.TermRenderer
}

// NewPrinter builds a Printer. With colors disabled all styling is
// suppressed; Markdown rendering is set up lazily and falls back to plain
// text if the renderer cannot be constructed.
func NewPrinter(out, errOut io.Writer, colors bool) *Printer {
	p := &Printer{
		out:     out,
		errOut:  errOut,
		errC:    color.New(color.FgRed),
		okC:     color.New(color.FgGreen),
		infoC:   color.New(color.FgCyan),
		cmdC:    color.New(color.FgYellow),
		assistC: color.New(color.FgGreen, color.Bold),
		promptC: color.New(color.FgBlue, color.Bold),
	}
	if !colors {
		for _, c := range []*color.Color{p.errC, p.okC, p.infoC, p.cmdC, p.assistC, p.promptC} {
			c.DisableColor()
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		p.renderer = renderer
	}
	return p
}

// Errorf prints a red error message to the error writer.
func (p *Printer) Errorf(format string, a ...any) {
	p.errC.Fprintf(p.errOut, format+"\n", a...)
}

// Successf prints a green message.
func (p *Printer) Successf(format string, a ...any) {
	p.okC.Fprintf(p.out, format+"\n", a...)
}

// Infof prints a cyan message.
func (p *Printer) Infof(format string, a ...any) {
	p.infoC.Fprintf(p.out, format+"\n", a...)
}

// Commandf prints a yellow command-reference line.
func (p *Printer) Commandf(format string, a ...any) {
	p.cmdC.Fprintf(p.out, format+"\n", a...)
}

// Printf prints an unstyled message.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Println prints an unstyled line.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Chunk prints a streamed response fragment without a trailing newline.
func (p *Printer) Chunk(s string) {
	p.okC.Fprint(p.out, s)
}

// AssistantLabel prints the reply header for interactive mode.
func (p *Printer) AssistantLabel() {
	fmt.Fprintln(p.out)
	p.assistC.Fprintln(p.out, "Assistant:")
}

// UserPrompt returns the styled input prompt string.
func (p *Printer) UserPrompt() string {
	return p.promptC.Sprint("You: ")
}

// Markdown renders text as Markdown when a renderer is available,
// otherwise prints it as-is.
func (p *Printer) Markdown(text string) {
	if p.renderer == nil {
		fmt.Fprintln(p.out, text)
		return
	}
	rendered, err := p.renderer.Render(text)
	if err != nil {
		fmt.Fprintln(p.out, text)
		return
	}
	fmt.Fprint(p.out, rendered)
}

// Response prints a completed (non-streamed) reply, rendering Markdown
// when requested.
func (p *Printer) Response(text string, markdown bool) {
	if markdown {
		p.Markdown(text)
		return
	}
	p.okC.Fprintln(p.out, text)
}
