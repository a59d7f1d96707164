// Package telegram adapts the Telegram Bot API to router events and the
// domain.Transport port.
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/PabloGalante/reflection-bot/internal/app/router"
	"github.com/PabloGalante/reflection-bot/internal/domain"
	"github.com/PabloGalante/reflection-bot/internal/observability"
)

const pollTimeoutSeconds = 30

type Bot struct {
	api      *tgbotapi.BotAPI
	router   *router.Router
	audioDir string
}

func NewBot(token, audioDir string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}

	return &Bot{
		api:      api,
		audioDir: audioDir,
	}, nil
}

// SetRouter attaches the event sink. The bot is also the router's transport,
// so construction happens in two steps; call this before Run.
func (b *Bot) SetRouter(r *router.Router) {
	b.router = r
}

// Run polls for updates until ctx is canceled, converting each update into a
// router event. Dispatch keeps per-user arrival order; this loop never
// blocks on handler work beyond mailbox backpressure.
func (b *Bot) Run(ctx context.Context) error {
	if b.router == nil {
		return fmt.Errorf("telegram bot started without a router")
	}

	log := observability.Logger()
	log.Info("telegram bot started", "username", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	log := observability.Logger()

	switch {
	case update.CallbackQuery != nil:
		q := update.CallbackQuery

		// Dismiss the client-side loading state right away.
		if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
			log.Error("failed to answer callback query", "error", err)
		}
		if q.Message == nil {
			return
		}

		b.router.Dispatch(ctx, router.Event{
			UserID:       domain.UserID(q.From.ID),
			Kind:         router.EventCallback,
			CallbackData: q.Data,
			Callback: domain.MessageRef{
				ChatID:    q.Message.Chat.ID,
				MessageID: q.Message.MessageID,
			},
		})

	case update.Message != nil:
		msg := update.Message
		if msg.From == nil {
			return
		}
		userID := domain.UserID(msg.From.ID)

		switch {
		case msg.IsCommand():
			b.router.Dispatch(ctx, router.Event{
				UserID:  userID,
				Kind:    router.EventCommand,
				Command: msg.Command(),
				Args:    strings.Fields(msg.CommandArguments()),
			})

		case msg.Voice != nil:
			path, err := b.downloadVoice(ctx, msg.Voice.FileID)
			if err != nil {
				log.Error("failed to download voice note", "error", err)
				b.reply(msg.Chat.ID, "Sorry, I couldn't receive your voice note. Please try again.")
				return
			}
			b.router.Dispatch(ctx, router.Event{
				UserID:    userID,
				Kind:      router.EventVoice,
				AudioPath: path,
			})

		case msg.Text != "":
			b.router.Dispatch(ctx, router.Event{
				UserID: userID,
				Kind:   router.EventText,
				Text:   msg.Text,
			})
		}
	}
}

func (b *Bot) downloadVoice(ctx context.Context, fileID string) (string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("telegram GetFile: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading voice file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading voice file: status %d", resp.StatusCode)
	}

	path := filepath.Join(b.audioDir, fileID+".ogg")
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("saving voice file: %w", err)
	}
	return path, nil
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		observability.Logger().Error("failed to send message", "error", err)
	}
}

// ─────────────────────────────────────────
// domain.Transport implementation
// ─────────────────────────────────────────

// Chat id equals user id for private chats, which is the only place this bot
// lives.

func (b *Bot) SendText(ctx context.Context, user domain.UserID, text string) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(int64(user), text)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func (b *Bot) SendButtons(ctx context.Context, user domain.UserID, text string, rows [][]domain.Button) (domain.MessageRef, error) {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		var buttons []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
		}
		keyboard = append(keyboard, buttons)
	}

	msg := tgbotapi.NewMessage(int64(user), text)
	msg.ReplyMarkup = tgbotapi.InlineKeyboardMarkup{InlineKeyboard: keyboard}

	sent, err := b.api.Send(msg)
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("telegram send with buttons: %w", err)
	}
	return domain.MessageRef{ChatID: sent.Chat.ID, MessageID: sent.MessageID}, nil
}

func (b *Bot) EditText(ctx context.Context, ref domain.MessageRef, text string) error {
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	if _, err := b.api.Send(edit); err != nil {
		return fmt.Errorf("telegram edit: %w", err)
	}
	return nil
}
