// Package models contains data types and fixed strings for the tutor client.
package models

import "github.com/google/uuid"

// Message roles as they appear on the wire
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message represents a single entry in the conversation transcript.
// Messages are immutable once created and ordered by insertion.
type Message struct {
	ID      string
	Role    string // RoleUser or RoleModel
	Content string
	Icon    string // optional presentational tag, not sent to the service
}

// NewUserMessage creates a user message with a fresh ID
func NewUserMessage(content string) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    RoleUser,
		Content: content,
	}
}

// NewModelMessage creates a tutor reply message with a fresh ID
func NewModelMessage(content string) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    RoleModel,
		Content: content,
	}
}

// IsConversational reports whether the message belongs in the outbound
// history. Only user and model turns are sent; any future annotation
// roles are filtered out.
func (m Message) IsConversational() bool {
	return m.Role == RoleUser || m.Role == RoleModel
}
