package domain

import "time"

// Source records how a thought entered the system.
type Source string

const (
	SourceText  Source = "text_message"
	SourceVoice Source = "voice_note"
	SourceChat  Source = "chat_interaction"
	SourceGame  Source = "game_answer"
)

// Thought is a stored user reflection. Immutable once stored, except for
// deletion. Game answers reuse the same shape with Question/QuestionNumber
// set; chat interactions carry only the text.
type Thought struct {
	ID         ThoughtID
	UserID     UserID
	Text       string
	Source     Source
	Categories []Category
	CreatedAt  Timestamp

	// Set only for game answers
	Question       string
	QuestionNumber int
}

// Preview returns the thought text truncated for display, matching the
// 100-rune limit used in list and delete renderings.
func (t *Thought) Preview() string {
	const max = 100
	runes := []rune(t.Text)
	if len(runes) <= max {
		return t.Text
	}
	return string(runes[:max]) + "..."
}

// CategoryNames returns the categories as plain strings for rendering.
func (t *Thought) CategoryNames() []string {
	if len(t.Categories) == 0 {
		return nil
	}
	out := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		out[i] = string(c)
	}
	return out
}

// DateLabel is the YYYY-MM-DD prefix shown in listings, or "" when the
// timestamp is unset.
func (t *Thought) DateLabel() string {
	if t.CreatedAt.IsZero() {
		return ""
	}
	return t.CreatedAt.Format(time.DateOnly)
}
