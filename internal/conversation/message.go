// ABOUTME: Message, Role, and the append-only Conversation log
// ABOUTME: Ordinals increase strictly in append order; Clear drops everything at once

package conversation

import (
	"time"

	"github.com/google/uuid"

	"github.com/2389/sazon-chat/internal/content"
)

// Role identifies who authored a message
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
)

// String returns "user" or "assistant"
func (r Role) String() string {
	if r == RoleAssistant {
		return "assistant"
	}
	return "user"
}

// Message is one entry in the conversation log.
type Message struct {
	ID      string
	Role    Role
	Content string
	// Blocks is the parsed form of Content for assistant messages
	Blocks    []content.Block
	Sources   []string
	Ordinal   int
	CreatedAt time.Time
}

// Conversation is an append-only message log. It is not safe for
// concurrent use; Controller guards it.
type Conversation struct {
	messages    []Message
	lastOrdinal int
}

// Append adds a message and assigns its ordinal.
func (c *Conversation) Append(role Role, text string, blocks []content.Block, sources []string) Message {
	c.lastOrdinal++
	msg := Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   text,
		Blocks:    blocks,
		Sources:   sources,
		Ordinal:   c.lastOrdinal,
		CreatedAt: time.Now(),
	}
	c.messages = append(c.messages, msg)
	return msg
}

// Clear discards all messages. Ordinals keep increasing afterwards so a
// late reply still sorts after everything appended before it.
func (c *Conversation) Clear() {
	c.messages = nil
}

// Len returns the number of messages
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Messages returns a copy of the log
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}
