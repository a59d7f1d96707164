// Package chat answers questions about the user with a retrieval-augmented
// prompt over their stored thoughts, game answers, and past chat queries.
package chat

import (
	"context"
	"time"

	"github.com/PabloGalante/reflection-bot/internal/domain"
	"github.com/PabloGalante/reflection-bot/internal/observability"
)

const (
	contextPerCollection = 3
	answerMaxTokens      = 1000

	// Apology returned when the completion service fails outright.
	errorReply = "I'm sorry, I encountered an error while processing your question. Please try again."
)

type Service struct {
	completer domain.Completer
	store     domain.ThoughtStore
	now       func() time.Time
}

func NewService(completer domain.Completer, store domain.ThoughtStore) *Service {
	return &Service{
		completer: completer,
		store:     store,
		now:       time.Now,
	}
}

// Answer generates a reply to query grounded in the user's stored entries.
// It never returns an error to the caller: store faults degrade to less
// context and completion faults degrade to an apology string.
func (s *Service) Answer(ctx context.Context, userID domain.UserID, query string) string {
	log := observability.LoggerFromContext(ctx)

	// Record the interaction itself; future questions can retrieve it.
	interaction := &domain.Thought{
		UserID:    userID,
		Text:      query,
		Source:    domain.SourceChat,
		CreatedAt: s.now(),
	}
	if _, err := s.store.Store(ctx, domain.CollectionChat, interaction); err != nil {
		log.Error("failed to store chat interaction", "error", err)
	}

	var entries []*domain.Thought
	for _, col := range []domain.Collection{
		domain.CollectionThoughts,
		domain.CollectionGame,
		domain.CollectionChat,
	} {
		found, err := s.store.SearchSimilar(ctx, col, query, contextPerCollection)
		if err != nil {
			log.Error("context search failed", "collection", col, "error", err)
			continue
		}
		entries = append(entries, found...)
	}

	prompt := BuildAnswerPrompt(query, entries)

	reply, err := s.completer.Complete(ctx, prompt.System, prompt.User, answerMaxTokens)
	if err != nil {
		log.Error("chat completion failed", "error", err)
		return errorReply
	}

	log.Info("generated chat answer", "context_entries", len(entries))
	return reply
}
