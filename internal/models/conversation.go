package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatRole is the author of one coaching message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
	RoleSystem    ChatRole = "system"
)

// ChatMessage is one entry of a coaching conversation. Timestamps drive the
// rolling-day free-tier rate limit.
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the single stored coaching thread per user. Messages are
// kept as a jsonb document, appended only after a confirmed generation.
type Conversation struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	UserID    uuid.UUID     `json:"userId" db:"user_id"`
	Messages  []ChatMessage `json:"messages" db:"messages"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}

// UserMessagesOn counts user-authored messages on the given calendar day.
func (c *Conversation) UserMessagesOn(day time.Time) int {
	if c == nil {
		return 0
	}
	y, m, d := day.Date()
	count := 0
	for _, msg := range c.Messages {
		if msg.Role != RoleUser {
			continue
		}
		my, mm, md := msg.Timestamp.In(day.Location()).Date()
		if my == y && mm == m && md == d {
			count++
		}
	}
	return count
}
