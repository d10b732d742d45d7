package domain

import "context"

// MessageRepository defines the interface for chat message persistence
type MessageRepository interface {
	Save(ctx context.Context, msg *ChatMessage) error
	ListByUser(ctx context.Context, userID string) ([]ChatMessage, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// AssistantClient defines the interface for the remote conversational
// assistant. Ask runs a full thread/run exchange for one user message and
// returns the assistant's reply text.
type AssistantClient interface {
	Ask(ctx context.Context, message string) (string, error)
}

// SessionStore resolves a session token to a user identity
type SessionStore interface {
	UserID(token string) (string, bool)
}
