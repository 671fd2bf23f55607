package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinterRoutesErrorsToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false)

	p.Errorf("something broke: %s", "details")
	p.Successf("all good")

	assert.Equal(t, "something broke: details\n", errOut.String())
	assert.Equal(t, "all good\n", out.String())
}

func TestPrinterNoColorProducesPlainText(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out, false)

	p.Infof("plain")
	p.Chunk("chu")
	p.Chunk("nk")

	assert.NotContains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "plain\n")
	assert.Contains(t, out.String(), "chunk")
}

func TestPrinterResponsePlainVersusMarkdown(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out, false)

	p.Response("# heading", false)
	assert.Equal(t, "# heading\n", out.String())

	out.Reset()
	p.Response("# heading", true)
	// Rendered output no longer carries the raw marker at line start.
	assert.NotEqual(t, "# heading\n", out.String())
	assert.Contains(t, strings.ToLower(out.String()), "heading")
}

func TestPrinterMarkdownFallsBackWithoutRenderer(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out, false)
	p.renderer = nil

	p.Markdown("*text*")
	assert.Equal(t, "*text*\n", out.String())
}
