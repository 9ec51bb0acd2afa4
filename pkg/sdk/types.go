package sdk

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleHuman marks a message typed by the user.
	RoleHuman Role = "human"
	// RoleAI marks a message produced by the assistant.
	RoleAI Role = "ai"
)

// Message is one turn in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is a conversation with ordered history.
type Session struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// Health is the service health report.
type Health struct {
	Status      string            `json:"status"`
	Checks      map[string]string `json:"checks"`
	IndexChunks int               `json:"index_chunks"`
}
