// Package chat implements the interactive session loop: conversation
// state, in-band directive parsing, and the read/complete/append cycle.
package chat

import (
	"time"

	"github.com/QinCai-rui/mdllama/internal/provider"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged message in a conversation. Messages are
// immutable once appended; list order is authoritative.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is an ordered, append-only sequence of messages plus the
// active sampling parameters. It is owned by a single session loop for its
// lifetime and never shared.
type Conversation struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// NewConversation returns an empty conversation with default sampling
// parameters.
func NewConversation() *Conversation {
	return &Conversation{Temperature: 0.7}
}

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(role, content string) {
	c.Messages = append(c.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// SetSystem replaces the active system prompt. A conversation has at most
// one system message, always at the head; setting a new prompt replaces it
// rather than appending, and an empty prompt removes it.
func (c *Conversation) SetSystem(prompt string) {
	if len(c.Messages) > 0 && c.Messages[0].Role == RoleSystem {
		c.Messages = c.Messages[1:]
	}
	if prompt == "" {
		return
	}
	head := Message{Role: RoleSystem, Content: prompt, Timestamp: time.Now()}
	c.Messages = append([]Message{head}, c.Messages...)
}

// System returns the active system prompt, or "" when none is set.
func (c *Conversation) System() string {
	if len(c.Messages) > 0 && c.Messages[0].Role == RoleSystem {
		return c.Messages[0].Content
	}
	return ""
}

// Clear drops all messages, including the system prompt.
func (c *Conversation) Clear() {
	c.Messages = nil
}

// DropLast removes the most recently appended message. Used to back out a
// user turn whose completion failed.
func (c *Conversation) DropLast() {
	if len(c.Messages) > 0 {
		c.Messages = c.Messages[:len(c.Messages)-1]
	}
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.Messages)
}

// ProviderMessages converts the conversation into wire messages.
func (c *Conversation) ProviderMessages() []provider.Message {
	msgs := make([]provider.Message, len(c.Messages))
	for i, m := range c.Messages {
		msgs[i] = provider.Message{Role: m.Role, Content: m.Content}
	}
	return msgs
}

// Request builds a completion request for the current conversation state.
func (c *Conversation) Request(model string) provider.CompletionRequest {
	return provider.CompletionRequest{
		Model:       model,
		Messages:    c.ProviderMessages(),
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
}
