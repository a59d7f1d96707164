// Package router holds the per-user conversation state machine. It is the
// single authority over a user's mode: inbound events are queued per user and
// processed to completion in arrival order, so no two handlers ever observe
// divergent state for the same user mid-transition.
package router

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/reflection-bot/internal/app/chat"
	"github.com/PabloGalante/reflection-bot/internal/app/classify"
	"github.com/PabloGalante/reflection-bot/internal/app/game"
	"github.com/PabloGalante/reflection-bot/internal/domain"
	"github.com/PabloGalante/reflection-bot/internal/observability"
)

const mailboxSize = 32

type Router struct {
	transport   domain.Transport
	transcriber domain.Transcriber
	store       domain.ThoughtStore
	classifier  *classify.Classifier
	game        *game.Engine
	chat        *chat.Service
	now         func() time.Time

	mu      sync.Mutex
	workers map[domain.UserID]chan queuedEvent
}

type queuedEvent struct {
	ctx  context.Context
	ev   Event
	done chan struct{} // nil for fire-and-forget dispatch
}

func New(
	transport domain.Transport,
	transcriber domain.Transcriber,
	store domain.ThoughtStore,
	classifier *classify.Classifier,
	gameEngine *game.Engine,
	chatService *chat.Service,
) *Router {
	return &Router{
		transport:   transport,
		transcriber: transcriber,
		store:       store,
		classifier:  classifier,
		game:        gameEngine,
		chat:        chatService,
		now:         time.Now,
		workers:     make(map[domain.UserID]chan queuedEvent),
	}
}

// Dispatch enqueues an event on the user's mailbox and returns immediately.
// Events from the same user are processed strictly in enqueue order; events
// from different users interleave freely.
func (r *Router) Dispatch(ctx context.Context, ev Event) {
	r.mailbox(ev.UserID) <- queuedEvent{ctx: ctx, ev: ev}
}

// HandleEvent enqueues an event and waits until it has been fully processed.
func (r *Router) HandleEvent(ctx context.Context, ev Event) {
	done := make(chan struct{})
	r.mailbox(ev.UserID) <- queuedEvent{ctx: ctx, ev: ev, done: done}
	<-done
}

// mailbox returns the user's event queue, starting its worker on first use.
// The worker owns that user's session for the process lifetime.
func (r *Router) mailbox(userID domain.UserID) chan queuedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.workers[userID]
	if !ok {
		ch = make(chan queuedEvent, mailboxSize)
		r.workers[userID] = ch
		go r.runWorker(userID, ch)
	}
	return ch
}

func (r *Router) runWorker(userID domain.UserID, ch chan queuedEvent) {
	sess := domain.NewUserSession(userID)
	for q := range ch {
		r.process(q.ctx, sess, q.ev)
		if q.done != nil {
			close(q.done)
		}
	}
}

func (r *Router) process(ctx context.Context, sess *domain.UserSession, ev Event) {
	ctx = observability.WithUserID(ctx, int64(sess.UserID))

	switch ev.Kind {
	case EventCommand:
		r.handleCommand(ctx, sess, ev)
	case EventCallback:
		r.handleCallback(ctx, sess, ev)
	case EventText, EventVoice:
		r.handleMessage(ctx, sess, ev)
	default:
		observability.LoggerFromContext(ctx).Error("unknown event kind", "kind", ev.Kind)
	}
}

// handleMessage runs a free-text (or voice) message through the handler for
// the user's current mode. Voice goes through transcription first; a failed
// transcription short-circuits with an apology and no state mutation.
func (r *Router) handleMessage(ctx context.Context, sess *domain.UserSession, ev Event) {
	log := observability.LoggerFromContext(ctx).With("mode", sess.Mode)

	text := ev.Text
	fromVoice := ev.Kind == EventVoice
	if fromVoice {
		r.sendText(ctx, sess.UserID, "🎙️ I received your voice note. Transcribing...")

		transcribed, err := r.transcriber.Transcribe(ctx, ev.AudioPath)
		if err != nil || transcribed == "" {
			if err != nil {
				log.Error("transcription failed", "error", err)
			}
			r.sendText(ctx, sess.UserID, "Sorry, I couldn't transcribe your voice note. Please try again.")
			return
		}
		text = transcribed
	}

	if text == "" {
		return
	}

	switch sess.Mode {
	case domain.ModeNormal:
		r.handleNormal(ctx, sess, text, fromVoice)
	case domain.ModeChat:
		r.handleChat(ctx, sess, text, fromVoice)
	case domain.ModeGame:
		r.handleGame(ctx, sess, text, fromVoice)
	case domain.ModeDelete:
		r.sendText(ctx, sess.UserID,
			"Please use the buttons to select a thought to delete, or type /normal to cancel.")
	default:
		log.Error("session in unknown mode")
		r.sendText(ctx, sess.UserID, "Sorry, something went wrong. Please try again.")
	}
}

// handleNormal classifies the text and stores it as a thought. A classifier
// failure yields no categories but never blocks storage.
func (r *Router) handleNormal(ctx context.Context, sess *domain.UserSession, text string, fromVoice bool) {
	log := observability.LoggerFromContext(ctx)

	categories := r.classifier.Classify(ctx, text)

	source := domain.SourceText
	if fromVoice {
		source = domain.SourceVoice
	}

	thought := &domain.Thought{
		UserID:     sess.UserID,
		Text:       text,
		Source:     source,
		Categories: categories,
		CreatedAt:  r.now(),
	}

	id, err := r.store.Store(ctx, domain.CollectionThoughts, thought)
	if err != nil || id == "" {
		if err != nil {
			log.Error("failed to store thought", "error", err)
		}
		r.sendText(ctx, sess.UserID, "Sorry, I couldn't store your thought. Please try again.")
		return
	}

	categoryInfo := ""
	if names := thought.CategoryNames(); len(names) > 0 {
		categoryInfo = "\nCategories: " + strings.Join(names, ", ")
	}

	if fromVoice {
		r.sendText(ctx, sess.UserID,
			"✅ I've transcribed and stored your thought:"+categoryInfo+"\n\n"+
				"\""+text+"\"\n\n"+
				"You can find it later using /list or chat with me about it using /chat.")
	} else {
		r.sendText(ctx, sess.UserID,
			"✅ I've stored your thought."+categoryInfo+
				" You can find it later using /list or chat with me about it using /chat.")
	}
}

func (r *Router) handleChat(ctx context.Context, sess *domain.UserSession, text string, fromVoice bool) {
	if fromVoice {
		r.sendText(ctx, sess.UserID, "I understood your question as: \""+text+"\"")
	}
	r.sendText(ctx, sess.UserID, "🔍 Let me think about that...")

	reply := r.chat.Answer(ctx, sess.UserID, text)
	r.sendText(ctx, sess.UserID, reply)
}

// handleGame records the answer and advances the game. The engine signals
// session end explicitly; the router performs the GAME→NORMAL transition.
func (r *Router) handleGame(ctx context.Context, sess *domain.UserSession, text string, fromVoice bool) {
	if fromVoice {
		r.sendText(ctx, sess.UserID, "I understood your answer as: \""+text+"\"")
	}

	// A message in game mode without a running game starts one, so the
	// session survives a process restart mid-conversation.
	if sess.ActiveGame == nil {
		state, question := r.game.Start(ctx, sess.UserID)
		sess.ActiveGame = state
		r.sendText(ctx, sess.UserID, "Next question: "+question)
		return
	}

	reply, ended := r.game.HandleAnswer(ctx, sess.UserID, sess.ActiveGame, text)
	if ended {
		sess.ActiveGame = nil
		sess.Mode = domain.ModeNormal
		r.sendText(ctx, sess.UserID, reply)
		return
	}
	r.sendText(ctx, sess.UserID, "Next question: "+reply)
}

func (r *Router) sendText(ctx context.Context, userID domain.UserID, text string) {
	if err := r.transport.SendText(ctx, userID, text); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to send reply", "error", err)
	}
}
