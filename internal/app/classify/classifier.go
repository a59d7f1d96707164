// Package classify tags free text with the bot's fixed category taxonomy.
package classify

import (
	"context"
	"strings"

	"github.com/PabloGalante/reflection-bot/internal/domain"
	"github.com/PabloGalante/reflection-bot/internal/observability"
)

const systemPrompt = "You are a classifier that categorizes personal thoughts and reflections into these categories:\n" +
	"- Work: Professional activities, career, business, productivity, skills, financial matters\n" +
	"- Health: Physical and mental wellbeing, exercise, nutrition, sleep, stress, mindfulness\n" +
	"- Relationships: Connections with family, friends, partners, social interactions\n" +
	"- Purpose: Meaning, values, beliefs, goals, personal growth, impact\n\n" +
	"A text can belong to multiple categories if it touches on multiple domains. " +
	"Analyze the content carefully and assign all relevant categories."

const maxTokens = 50

// Classifier asks the completion service which categories apply to a text.
type Classifier struct {
	completer domain.Completer
}

func NewClassifier(completer domain.Completer) *Classifier {
	return &Classifier{completer: completer}
}

// Classify returns the categories that apply to text, possibly none.
// Classification is a non-critical enrichment: any adapter failure is logged
// and yields an empty result so the caller can still store the text.
func (c *Classifier) Classify(ctx context.Context, text string) []domain.Category {
	log := observability.LoggerFromContext(ctx)

	userPrompt := "Classify this text into one or more of these categories: work, health, relationships, purpose.\n\n" +
		"Text: \"" + text + "\"\n\n" +
		"Respond with just a comma-separated list of the applicable categories, like: category1, category2"

	reply, err := c.completer.Complete(ctx, systemPrompt, userPrompt, maxTokens)
	if err != nil {
		log.Error("classification failed", "error", err)
		return nil
	}

	// The model is asked for a comma-separated list, but parsing only checks
	// for each category name appearing somewhere in the reply.
	replyLower := strings.ToLower(reply)

	var categories []domain.Category
	for _, cat := range domain.AllCategories {
		if strings.Contains(replyLower, string(cat)) {
			categories = append(categories, cat)
		}
	}

	log.Info("classified text", "categories", categories)
	return categories
}
