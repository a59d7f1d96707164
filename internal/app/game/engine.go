// Package game implements the turn-based "get to know you" question game.
package game

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/PabloGalante/reflection-bot/internal/domain"
	"github.com/PabloGalante/reflection-bot/internal/observability"
)

const (
	// Questions per session. Fixed, not configurable per call.
	sessionLimit = 5

	// Generation retries before falling back to the built-in list.
	maxAttempts = 3

	// A candidate sharing more than this many whitespace-delimited tokens
	// with any prior question counts as a near-duplicate.
	maxSharedTokens = 5

	questionMaxTokens = 200

	// EndMessage closes a finished session.
	EndMessage = "Thank you for sharing! I've learned a lot about you. You can start a new game anytime."
)

const questionSystemPrompt = "You are generating questions for a 'get to know you' game. " +
	"Create thoughtful, open-ended questions that help understand a person's values, " +
	"perspectives, habits, preferences, and personality. " +
	"Questions should be introspective and reveal meaningful insights about the person. " +
	"Avoid basic questions like 'what's your favorite color?' and instead ask deeper questions " +
	"that encourage reflection and thoughtful responses."

const questionUserPrompt = "Generate a single insightful question for getting to know someone better. " +
	"Focus on understanding how they think, what they value, and what shapes their worldview. " +
	"Make it open-ended and introspective."

// Engine generates sequential open-ended questions, persists answers, and
// avoids near-duplicate questions within a session. Game continuity wins
// over error reporting: every answer gets a next question, adapter faults
// are only logged.
type Engine struct {
	completer domain.Completer
	store     domain.ThoughtStore
	now       func() time.Time
	pick      func(n int) int // random index in [0, n)
}

func NewEngine(completer domain.Completer, store domain.ThoughtStore) *Engine {
	return &Engine{
		completer: completer,
		store:     store,
		now:       time.Now,
		pick:      rand.IntN,
	}
}

// Start begins a new session and returns its state together with the first
// question. Never fails: a generation error picks a fallback question.
func (e *Engine) Start(ctx context.Context, userID domain.UserID) (*domain.GameState, string) {
	log := observability.LoggerFromContext(ctx)

	question, err := e.completer.Complete(ctx, questionSystemPrompt, questionUserPrompt, questionMaxTokens)
	question = strings.TrimSpace(question)
	if err != nil || question == "" {
		if err != nil {
			log.Error("generating first game question failed", "error", err)
		}
		question = fallbackQuestions[e.pick(len(fallbackQuestions))]
	}

	state := &domain.GameState{
		CurrentQuestion: question,
		QuestionCount:   1,
		AskedQuestions:  []string{question},
	}
	return state, question
}

// HandleAnswer records the answer to the current question and advances the
// session. ended reports that the session is over; the returned string is
// then the termination message instead of a question.
func (e *Engine) HandleAnswer(ctx context.Context, userID domain.UserID, state *domain.GameState, answer string) (string, bool) {
	log := observability.LoggerFromContext(ctx).With("question_count", state.QuestionCount)

	thought := &domain.Thought{
		UserID:         userID,
		Text:           answer,
		Source:         domain.SourceGame,
		Question:       state.CurrentQuestion,
		QuestionNumber: state.QuestionCount,
		CreatedAt:      e.now(),
	}
	if _, err := e.store.Store(ctx, domain.CollectionGame, thought); err != nil {
		// Keep the game going; the answer is lost but the session is not.
		log.Error("failed to store game answer", "error", err)
	}

	state.QuestionCount++
	if state.QuestionCount > sessionLimit {
		log.Info("game session finished")
		return EndMessage, true
	}

	next := e.nextQuestion(ctx, state)
	state.CurrentQuestion = next
	state.AskedQuestions = append(state.AskedQuestions, next)
	return next, false
}

// nextQuestion tries the completion service a few times for a question that
// was not asked yet in this session, then falls back to the built-in list.
func (e *Engine) nextQuestion(ctx context.Context, state *domain.GameState) string {
	log := observability.LoggerFromContext(ctx)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := e.completer.Complete(ctx, questionSystemPrompt, questionUserPrompt, questionMaxTokens)
		candidate = strings.TrimSpace(candidate)
		if err != nil {
			log.Error("generating game question failed", "attempt", attempt+1, "error", err)
			continue
		}
		if candidate == "" || e.isRepeat(candidate, state.AskedQuestions) {
			continue
		}
		return candidate
	}

	return e.pickFallback(state.AskedQuestions)
}

// isRepeat rejects exact repeats and candidates sharing more than
// maxSharedTokens whitespace-delimited tokens with any prior question. A
// coarse heuristic, kept on purpose.
func (e *Engine) isRepeat(candidate string, asked []string) bool {
	for _, q := range asked {
		if candidate == q {
			return true
		}
		if sharedTokens(candidate, q) > maxSharedTokens {
			return true
		}
	}
	return false
}

// pickFallback prefers a fallback question not asked yet this session, and
// repeats a random one only when all fifteen have been used.
func (e *Engine) pickFallback(asked []string) string {
	askedSet := make(map[string]struct{}, len(asked))
	for _, q := range asked {
		askedSet[q] = struct{}{}
	}

	var unused []string
	for _, q := range fallbackQuestions {
		if _, ok := askedSet[q]; !ok {
			unused = append(unused, q)
		}
	}
	if len(unused) > 0 {
		return unused[e.pick(len(unused))]
	}
	return fallbackQuestions[e.pick(len(fallbackQuestions))]
}

// sharedTokens counts distinct tokens appearing in both questions.
func sharedTokens(a, b string) int {
	inA := make(map[string]struct{})
	for _, tok := range strings.Fields(a) {
		inA[tok] = struct{}{}
	}

	n := 0
	counted := make(map[string]struct{})
	for _, tok := range strings.Fields(b) {
		if _, ok := inA[tok]; !ok {
			continue
		}
		if _, dup := counted[tok]; dup {
			continue
		}
		counted[tok] = struct{}{}
		n++
	}
	return n
}
