package chat_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/reflection-bot/internal/adapters/storage/memory"
	"github.com/PabloGalante/reflection-bot/internal/app/chat"
	"github.com/PabloGalante/reflection-bot/internal/domain"
)

const testUser = domain.UserID(11)

type stubCompleter struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	return s.reply, s.err
}

func TestAnswerUsesStoredContext(t *testing.T) {
	store := memory.NewThoughtStore()
	_, err := store.Store(context.Background(), domain.CollectionThoughts, &domain.Thought{
		UserID:     testUser,
		Text:       "I love trail running in the mountains",
		Categories: []domain.Category{domain.CategoryHealth},
	})
	require.NoError(t, err)

	completer := &stubCompleter{reply: "You enjoy trail running."}
	svc := chat.NewService(completer, store)

	answer := svc.Answer(context.Background(), testUser, "what running do I enjoy?")

	assert.Equal(t, "You enjoy trail running.", answer)
	assert.Contains(t, completer.lastSystem, "Context about the user:")
	assert.Contains(t, completer.lastSystem, "[Categories: health] I love trail running in the mountains")
	assert.Equal(t, "what running do I enjoy?", completer.lastUser)
}

func TestPromptWithoutContextUsesFallbackPersona(t *testing.T) {
	prompt := chat.BuildAnswerPrompt("who am I?", nil)

	assert.NotContains(t, prompt.System, "Context about the user:")
	assert.Contains(t, prompt.System, "don't have specific information")
	assert.Equal(t, "who am I?", prompt.User)
}

func TestAnswerStoresTheInteraction(t *testing.T) {
	store := memory.NewThoughtStore()
	svc := chat.NewService(&stubCompleter{reply: "ok"}, store)

	svc.Answer(context.Background(), testUser, "am I doing alright?")

	interactions, err := store.List(context.Background(), domain.CollectionChat, 1, 10)
	require.NoError(t, err)
	require.Len(t, interactions, 1)
	assert.Equal(t, "am I doing alright?", interactions[0].Text)
	assert.Equal(t, domain.SourceChat, interactions[0].Source)
}

func TestAnswerDegradesToApologyOnCompletionFailure(t *testing.T) {
	svc := chat.NewService(&stubCompleter{err: fmt.Errorf("llm down")}, memory.NewThoughtStore())

	answer := svc.Answer(context.Background(), testUser, "anything")

	assert.Contains(t, answer, "I'm sorry")
}

func TestBuildAnswerPromptCategoryAwareness(t *testing.T) {
	entries := []*domain.Thought{{Text: "long days at the office"}}

	with := chat.BuildAnswerPrompt("how is my work going?", entries)
	assert.Contains(t, with.System, "thoughts are categorized into")

	without := chat.BuildAnswerPrompt("how am I doing lately?", entries)
	assert.NotContains(t, without.System, "thoughts are categorized into")
}
