package game

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/reflection-bot/internal/adapters/storage/memory"
	"github.com/PabloGalante/reflection-bot/internal/domain"
)

const testUser = domain.UserID(7)

type scriptedCompleter struct {
	replies []string
	err     error
	calls   int
}

func (s *scriptedCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", fmt.Errorf("script exhausted")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func newTestEngine(completer *scriptedCompleter) (*Engine, *memory.ThoughtStore) {
	store := memory.NewThoughtStore()
	e := NewEngine(completer, store)
	e.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	e.pick = func(n int) int { return 0 } // deterministic fallback choice
	return e, store
}

func TestStartUsesGeneratedQuestion(t *testing.T) {
	e, _ := newTestEngine(&scriptedCompleter{replies: []string{"What drives you?"}})

	state, question := e.Start(context.Background(), testUser)

	assert.Equal(t, "What drives you?", question)
	assert.Equal(t, 1, state.QuestionCount)
	assert.Equal(t, []string{"What drives you?"}, state.AskedQuestions)
}

func TestStartFallsBackWhenGenerationFails(t *testing.T) {
	e, _ := newTestEngine(&scriptedCompleter{err: fmt.Errorf("llm down")})

	state, question := e.Start(context.Background(), testUser)

	assert.Contains(t, fallbackQuestions, question)
	assert.Equal(t, []string{question}, state.AskedQuestions)
}

func TestHandleAnswerStoresAnswerWithQuestion(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{"Q1?", "Q2?"}}
	e, store := newTestEngine(completer)

	state, _ := e.Start(context.Background(), testUser)
	_, ended := e.HandleAnswer(context.Background(), testUser, state, "my answer")
	require.False(t, ended)

	answers, err := store.List(context.Background(), domain.CollectionGame, 1, 10)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "my answer", answers[0].Text)
	assert.Equal(t, "Q1?", answers[0].Question)
	assert.Equal(t, 1, answers[0].QuestionNumber)
	assert.Equal(t, domain.SourceGame, answers[0].Source)
}

func TestSessionEndsAfterFifthAnswer(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{
		"alpha?", "bravo?", "charlie?", "delta?", "echo?",
	}}
	e, _ := newTestEngine(completer)

	state, _ := e.Start(context.Background(), testUser)
	for i := 1; i <= 4; i++ {
		reply, ended := e.HandleAnswer(context.Background(), testUser, state, fmt.Sprintf("answer %d", i))
		require.False(t, ended, "session ended early on answer %d", i)
		require.NotEmpty(t, reply)
	}

	reply, ended := e.HandleAnswer(context.Background(), testUser, state, "answer 5")
	assert.True(t, ended)
	assert.Equal(t, EndMessage, reply)
	assert.Equal(t, 6, state.QuestionCount)
}

func TestExactRepeatIsRejected(t *testing.T) {
	// Three attempts all produce the first question again; the engine must
	// fall back instead of repeating it.
	completer := &scriptedCompleter{replies: []string{
		"Same question?",
		"Same question?", "Same question?", "Same question?",
	}}
	e, _ := newTestEngine(completer)

	state, _ := e.Start(context.Background(), testUser)
	next, ended := e.HandleAnswer(context.Background(), testUser, state, "an answer")

	require.False(t, ended)
	assert.NotEqual(t, "Same question?", next)
	assert.Contains(t, fallbackQuestions, next)
}

func TestNearDuplicateByTokenOverlapIsRejected(t *testing.T) {
	first := "what is the single most important lesson life taught you"
	// Shares 7 tokens with first, over the 5-token budget.
	near := "what is the single most important lesson work taught him"
	fresh := "where do you feel most at home?"

	completer := &scriptedCompleter{replies: []string{first, near, fresh}}
	e, _ := newTestEngine(completer)

	state, _ := e.Start(context.Background(), testUser)
	next, ended := e.HandleAnswer(context.Background(), testUser, state, "an answer")

	require.False(t, ended)
	assert.Equal(t, fresh, next)
}

func TestNoQuestionEverRepeatsWithinSession(t *testing.T) {
	// The completer always errors, forcing fallbacks for all five questions.
	e, _ := newTestEngine(&scriptedCompleter{err: fmt.Errorf("llm down")})

	state, _ := e.Start(context.Background(), testUser)
	for i := 1; i <= 4; i++ {
		_, ended := e.HandleAnswer(context.Background(), testUser, state, "answer")
		require.False(t, ended)
	}

	seen := make(map[string]int)
	for _, q := range state.AskedQuestions {
		seen[q]++
	}
	for q, n := range seen {
		assert.Equal(t, 1, n, "question asked twice: %q", q)
	}
	assert.Len(t, state.AskedQuestions, 5)
}

func TestStoreFailureStillYieldsNextQuestion(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{"Q1?", "Q2?"}}
	store := failingStore{}
	e := NewEngine(completer, store)
	e.pick = func(n int) int { return 0 }

	state, _ := e.Start(context.Background(), testUser)
	next, ended := e.HandleAnswer(context.Background(), testUser, state, "lost answer")

	assert.False(t, ended)
	assert.Equal(t, "Q2?", next)
}

func TestSharedTokensCountsDistinctOverlap(t *testing.T) {
	assert.Equal(t, 0, sharedTokens("a b c", "d e f"))
	assert.Equal(t, 2, sharedTokens("a b c", "b c d"))
	// Repeated tokens count once.
	assert.Equal(t, 1, sharedTokens("go go go", "go stop go"))
}

type failingStore struct{}

func (failingStore) Store(ctx context.Context, c domain.Collection, t *domain.Thought) (domain.ThoughtID, error) {
	return "", fmt.Errorf("store down")
}

func (failingStore) SearchSimilar(ctx context.Context, c domain.Collection, q string, l int) ([]*domain.Thought, error) {
	return nil, fmt.Errorf("store down")
}

func (failingStore) SearchByCategory(ctx context.Context, c domain.Collection, cat domain.Category, l int) ([]*domain.Thought, error) {
	return nil, fmt.Errorf("store down")
}

func (failingStore) Delete(ctx context.Context, c domain.Collection, id domain.ThoughtID) (bool, error) {
	return false, fmt.Errorf("store down")
}

func (failingStore) List(ctx context.Context, c domain.Collection, page, size int) ([]*domain.Thought, error) {
	return nil, fmt.Errorf("store down")
}
