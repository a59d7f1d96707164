package chat

import (
	"strings"

	"github.com/PabloGalante/reflection-bot/internal/domain"
)

const personaWithContext = "You are a personal AI assistant that knows the user well based on their past thoughts and interactions. " +
	"You should answer questions thoughtfully based on what you know about them. " +
	"If asked about the user's preferences, personality, or habits, rely on the context provided to give accurate, " +
	"personalized responses. When you don't have enough information, acknowledge the limitations in your knowledge " +
	"rather than making assumptions. Be conversational, supportive, and insightful."

const personaWithoutContext = "You are a personal AI assistant. You don't have specific information about the user yet, " +
	"but you're here to help. Be conversational, supportive, and thoughtful in your responses."

const categoryAwareness = "Note that thoughts are categorized into: work, health, relationships, and purpose. " +
	"If the user is asking about a specific category, focus on entries from that category."

// Prompt is the system prompt plus the content sent as "user".
type Prompt struct {
	System string
	User   string
}

// BuildAnswerPrompt assembles the retrieval-augmented prompt for a question
// about the user. Entries with categories are labeled so the model can favor
// the relevant ones.
func BuildAnswerPrompt(query string, entries []*domain.Thought) Prompt {
	var contextParts []string
	for _, e := range entries {
		if e == nil || e.Text == "" {
			continue
		}
		if names := e.CategoryNames(); len(names) > 0 {
			contextParts = append(contextParts, "[Categories: "+strings.Join(names, ", ")+"] "+e.Text)
		} else {
			contextParts = append(contextParts, e.Text)
		}
	}

	if len(contextParts) == 0 {
		return Prompt{System: personaWithoutContext, User: query}
	}

	var system strings.Builder
	system.WriteString(personaWithContext)
	system.WriteString("\n\n")
	if mentionsCategory(query) {
		system.WriteString(categoryAwareness)
		system.WriteString("\n\n")
	}
	system.WriteString("Context about the user:\n")
	system.WriteString(strings.Join(contextParts, "\n\n"))
	system.WriteString("\n\nRemember to focus on the context above when answering questions about the user.")

	return Prompt{System: system.String(), User: query}
}

func mentionsCategory(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range []string{"work", "health", "relationship", "purpose"} {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
