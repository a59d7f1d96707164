package router

import (
	"context"
	"strconv"
	"strings"

	"github.com/PabloGalante/reflection-bot/internal/domain"
	"github.com/PabloGalante/reflection-bot/internal/observability"
)

const listPageSize = 10

const welcomeText = "👋 Welcome to your Personal Reflection Bot!\n\n" +
	"I'm here to help you store thoughts, answer questions about yourself, " +
	"and learn more about you through interactive games.\n\n" +
	"Here's what you can do:\n" +
	"• Send me text or voice notes to store your thoughts\n" +
	"• Use /chat to ask questions about yourself based on your stored thoughts\n" +
	"• Use /game to play a 'get to know you' game\n" +
	"• Use /delete to remove stored thoughts\n" +
	"• Use /category to view thoughts by category\n" +
	"• Use /help to see all commands\n\n" +
	"Let's get started! How can I help you today?"

const helpText = "🤖 Personal Reflection Bot Help\n\n" +
	"Basic Commands:\n" +
	"/start - Start the bot\n" +
	"/help - Show this help message\n\n" +
	"Modes:\n" +
	"/chat - Enter chat mode to ask questions\n" +
	"/game - Start a 'get to know you' game\n" +
	"/normal - Return to normal mode for storing thoughts\n\n" +
	"Other Commands:\n" +
	"/delete - List thoughts you can delete\n" +
	"/list - List your recent thoughts\n" +
	"/category - View thoughts by category (work, health, relationships, purpose)\n\n" +
	"How to use:\n" +
	"• In normal mode: Send text or voice messages to store your thoughts\n" +
	"• In chat mode: Ask me questions about yourself\n" +
	"• In game mode: Answer the questions I ask you\n\n" +
	"I'm here to help you reflect on your thoughts and learn more about yourself!"

// handleCommand applies the transition table. Mode-setting commands discard
// any pending delete selection, which invalidates its buttons. /help and
// unrecognized commands never alter mode.
func (r *Router) handleCommand(ctx context.Context, sess *domain.UserSession, ev Event) {
	log := observability.LoggerFromContext(ctx).With("command", ev.Command, "mode", sess.Mode)
	log.Info("handling command")

	switch ev.Command {
	case "start":
		sess.Mode = domain.ModeNormal
		sess.PendingDelete = nil
		r.sendText(ctx, sess.UserID, welcomeText)

	case "help":
		r.sendText(ctx, sess.UserID, helpText)

	case "chat":
		sess.Mode = domain.ModeChat
		sess.PendingDelete = nil
		r.sendText(ctx, sess.UserID,
			"📝 You're now in chat mode. Ask me anything, and I'll use your stored thoughts to answer!")

	case "game":
		sess.Mode = domain.ModeGame
		sess.PendingDelete = nil
		state, question := r.game.Start(ctx, sess.UserID)
		sess.ActiveGame = state
		r.sendText(ctx, sess.UserID,
			"🎮 Let's play a 'get to know you' game! I'll ask questions to learn more about you.\n\n"+
				"First question: "+question+"\n\n"+
				"(Reply with text or send a voice note with your answer)")

	case "normal":
		sess.Mode = domain.ModeNormal
		sess.PendingDelete = nil
		r.sendText(ctx, sess.UserID,
			"🔄 You're now in normal mode. Send me your thoughts as text or voice notes, and I'll store them for you.")

	case "delete":
		r.startDeleteFlow(ctx, sess)

	case "list":
		r.listCommand(ctx, sess)

	case "category":
		r.categoryCommand(ctx, sess, ev.Args)

	default:
		r.sendText(ctx, sess.UserID, "Unknown command. Use /help to see what I can do.")
	}
}

func (r *Router) listCommand(ctx context.Context, sess *domain.UserSession) {
	log := observability.LoggerFromContext(ctx)

	thoughts, err := r.store.List(ctx, domain.CollectionThoughts, 1, listPageSize)
	if err != nil {
		log.Error("failed to list thoughts", "error", err)
		r.sendText(ctx, sess.UserID, "Sorry, I couldn't load your thoughts. Please try again.")
		return
	}
	if len(thoughts) == 0 {
		r.sendText(ctx, sess.UserID, "You don't have any stored thoughts yet.")
		return
	}

	var b strings.Builder
	b.WriteString("Your recent thoughts:\n\n")
	for i, t := range thoughts {
		b.WriteString(renderThoughtLine(i+1, t, true))
	}
	r.sendText(ctx, sess.UserID, b.String())
}

func (r *Router) categoryCommand(ctx context.Context, sess *domain.UserSession, args []string) {
	log := observability.LoggerFromContext(ctx)

	if len(args) < 1 {
		r.sendText(ctx, sess.UserID,
			"Please specify a category:\n"+
				"/category work - work-related thoughts\n"+
				"/category health - health-related thoughts\n"+
				"/category relationships - relationship-related thoughts\n"+
				"/category purpose - purpose-related thoughts")
		return
	}

	name := strings.ToLower(args[0])
	category, ok := domain.ParseCategory(name)
	if !ok {
		valid := make([]string, len(domain.AllCategories))
		for i, c := range domain.AllCategories {
			valid[i] = string(c)
		}
		r.sendText(ctx, sess.UserID,
			"'"+name+"' is not a valid category. Please use one of: "+strings.Join(valid, ", "))
		return
	}

	thoughts, err := r.store.SearchByCategory(ctx, domain.CollectionThoughts, category, listPageSize)
	if err != nil {
		log.Error("category search failed", "category", category, "error", err)
		r.sendText(ctx, sess.UserID, "Sorry, I couldn't load your thoughts. Please try again.")
		return
	}
	if len(thoughts) == 0 {
		r.sendText(ctx, sess.UserID,
			"You don't have any thoughts categorized as '"+name+"' yet.")
		return
	}

	var b strings.Builder
	b.WriteString("Your thoughts related to " + name + ":\n\n")
	for i, t := range thoughts {
		b.WriteString(renderThoughtLine(i+1, t, false))
	}
	r.sendText(ctx, sess.UserID, b.String())
}

// renderThoughtLine formats one numbered listing entry: index, optional date,
// optional category tags, truncated preview.
func renderThoughtLine(index int, t *domain.Thought, withCategories bool) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(index))
	b.WriteString(".")
	if date := t.DateLabel(); date != "" {
		b.WriteString(" (" + date + ")")
	}
	if withCategories {
		if names := t.CategoryNames(); len(names) > 0 {
			b.WriteString(" [" + strings.Join(names, ", ") + "]")
		}
	}
	b.WriteString(" " + t.Preview() + "\n\n")
	return b.String()
}
