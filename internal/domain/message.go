package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// Sender roles for persisted chat messages.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// ChatMessage is one persisted message of a user's conversation. Created
// once per inbound message and once per outbound response, never mutated.
type ChatMessage struct {
	bun.BaseModel `bun:"table:chat_messages,alias:cm" json:"-"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    string    `bun:"user_id,notnull" json:"user_id"`
	Sender    string    `bun:"sender,notnull" json:"sender"`
	Content   string    `bun:"content,notnull" json:"content"`
	ImageURL  string    `bun:"image_url,nullzero" json:"image_url,omitempty"`
	IsHTML    bool      `bun:"is_html" json:"is_html"`
	Timestamp time.Time `bun:"timestamp,nullzero,notnull,default:current_timestamp" json:"timestamp"`
}

// ChatReply is what the chat endpoint returns to the caller: the display
// payload plus the stored timestamp of the assistant message.
type ChatReply struct {
	Response  string    `json:"response"`
	IsHTML    bool      `json:"is_html"`
	Timestamp time.Time `json:"timestamp"`
}
