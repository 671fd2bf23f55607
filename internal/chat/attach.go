package chat

import (
	"fmt"
	"os"
	"path/filepath"
)

// MaxAttachmentSize is the largest file that may be attached to a turn.
const MaxAttachmentSize = 2 << 20 // 2 MiB

// ReadAttachment reads a file to be inlined into a user turn, formatted as
// a fenced block. Files over MaxAttachmentSize are rejected with an error
// rather than truncated.
func ReadAttachment(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("reading file %s: %w", path, err)
	}
	if info.Size() > MaxAttachmentSize {
		return "", fmt.Errorf("file %s is %d bytes, larger than the %d byte limit", path, info.Size(), int64(MaxAttachmentSize))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file %s: %w", path, err)
	}

	return fmt.Sprintf("\n\nContents of %s:\n```\n%s\n```", filepath.Base(path), content), nil
}
