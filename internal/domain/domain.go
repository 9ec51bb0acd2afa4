package domain

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleHuman marks a message typed by the user.
	RoleHuman Role = "human"
	// RoleAI marks a message produced by the assistant.
	RoleAI Role = "ai"
)

// Document is the text extracted from one page of one guide PDF.
// Documents exist only between ingestion and chunking.
type Document struct {
	SourceFile string
	Page       int
	Text       string
}

// Chunk is a bounded text window derived from a Document. Chunks are
// owned by the index and never mutated after construction.
type Chunk struct {
	ID         string
	SourceFile string
	Page       int
	Text       string
}

// WebResult is one snippet returned by the web search fallback.
type WebResult struct {
	Title   string
	URL     string
	Content string
}

// Message is one turn in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
