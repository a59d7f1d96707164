package domain

import "context"

// Completer defines how the core asks the LLM service for text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// Embedder turns text into a vector for similarity search. Stores that do
// their own embedding may ignore it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Transcriber converts a downloaded voice note into text. An empty result
// with nil error means the service produced no text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// ThoughtStore defines the persistence the bot needs: store, similarity
// search, category search, delete, paginate.
type ThoughtStore interface {
	Store(ctx context.Context, collection Collection, t *Thought) (ThoughtID, error)
	SearchSimilar(ctx context.Context, collection Collection, queryText string, limit int) ([]*Thought, error)
	SearchByCategory(ctx context.Context, collection Collection, category Category, limit int) ([]*Thought, error)
	Delete(ctx context.Context, collection Collection, id ThoughtID) (bool, error)
	List(ctx context.Context, collection Collection, page, pageSize int) ([]*Thought, error)
}

// Button is one labeled selection control attached to an outgoing message.
type Button struct {
	Label string
	Data  string
}

// MessageRef identifies a sent message so it can later be edited in place.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Transport sends replies back through the messaging channel.
type Transport interface {
	SendText(ctx context.Context, user UserID, text string) error
	SendButtons(ctx context.Context, user UserID, text string, rows [][]Button) (MessageRef, error)
	EditText(ctx context.Context, ref MessageRef, text string) error
}
