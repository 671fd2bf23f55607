package chat

import (
	"errors"
	"io"

	"github.com/chzyer/readline"
)

// LineReader supplies lines of user input. Implementations return io.EOF
// when input is exhausted or the user signals end-of-input.
type LineReader interface {
	ReadLine() (string, error)
}

// readlineSource adapts a readline instance to LineReader. Ctrl+C and
// Ctrl+D both end the session, matching end-of-input semantics.
type readlineSource struct {
	rl *readline.Instance
}

// NewReadlineSource wraps a readline instance for use by the loop.
func NewReadlineSource(rl *readline.Instance) LineReader {
	return &readlineSource{rl: rl}
}

func (r *readlineSource) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}
