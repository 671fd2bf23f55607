// Package history persists conversation transcripts as JSON files, one per
// session, under a single directory. Writes are atomic so an interrupted
// save never leaves a partial transcript.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/QinCai-rui/mdllama/internal/chat"
)

// ErrNotFound is returned when a session identifier has no transcript.
var ErrNotFound = errors.New("session not found")

const (
	filePrefix  = "session_"
	fileSuffix  = ".json"
	contextFile = "context.json"
)

// Record is a persisted conversation snapshot plus metadata.
type Record struct {
	ID           string         `json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	Model        string         `json:"model"`
	MessageCount int            `json:"message_count"`
	Messages     []chat.Message `json:"messages"`

	// Corrupt marks a file List could not parse; never persisted.
	Corrupt bool `json:"-"`
}

// Store reads and writes session records under a single directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// NewID generates a session identifier from the current time plus a short
// random suffix to avoid collisions within the same second.
func NewID() string {
	return time.Now().Format("20060102_150405") + "_" + uuid.NewString()[:6]
}

// Save writes the conversation as a new session record and returns its
// identifier.
func (s *Store) Save(conv *chat.Conversation, model string) (string, error) {
	id := NewID()
	rec := Record{
		ID:           id,
		CreatedAt:    time.Now(),
		Model:        model,
		MessageCount: conv.Len(),
		Messages:     conv.Messages,
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing session: %w", err)
	}
	if err := atomicWriteFile(s.path(id), data, 0644); err != nil {
		return "", fmt.Errorf("writing session file: %w", err)
	}
	return id, nil
}

// Load reads the conversation saved under id. Unknown identifiers fail
// with ErrNotFound rather than yielding an empty conversation.
func (s *Store) Load(id string) (*chat.Conversation, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", id, err)
	}

	conv := chat.NewConversation()
	conv.Messages = rec.Messages
	return conv, nil
}

// Delete removes the session saved under id.
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("deleting session file: %w", err)
	}
	return nil
}

// List returns metadata for every session, newest first. Unparseable files
// are included with Corrupt set so callers can surface them.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history directory: %w", err)
	}

	var records []Record
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			records = append(records, Record{ID: id, Corrupt: true})
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			records = append(records, Record{ID: id, Corrupt: true})
			continue
		}
		rec.ID = id
		rec.Messages = nil // metadata only
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// SaveContext persists the cross-invocation conversation context.
func (s *Store) SaveContext(conv *chat.Conversation) error {
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing context: %w", err)
	}
	if err := atomicWriteFile(filepath.Join(s.dir, contextFile), data, 0644); err != nil {
		return fmt.Errorf("writing context file: %w", err)
	}
	return nil
}

// LoadContext returns the persisted context, or a fresh conversation when
// none exists.
func (s *Store) LoadContext() (*chat.Conversation, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, contextFile))
	if err != nil {
		if os.IsNotExist(err) {
			return chat.NewConversation(), nil
		}
		return nil, fmt.Errorf("reading context file: %w", err)
	}

	conv := chat.NewConversation()
	if err := json.Unmarshal(data, conv); err != nil {
		return nil, fmt.Errorf("parsing context file: %w", err)
	}
	return conv, nil
}

// ClearContext removes the persisted context. Clearing an absent context
// is not an error.
func (s *Store) ClearContext() error {
	if err := os.Remove(filepath.Join(s.dir, contextFile)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing context file: %w", err)
	}
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, filePrefix+id+fileSuffix)
}
