package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/PabloGalante/reflection-bot/internal/adapters/llm"
	"github.com/PabloGalante/reflection-bot/internal/adapters/stt"
	"github.com/PabloGalante/reflection-bot/internal/adapters/telegram"
	firestorestore "github.com/PabloGalante/reflection-bot/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/reflection-bot/internal/adapters/storage/memory"
	"github.com/PabloGalante/reflection-bot/internal/app/chat"
	"github.com/PabloGalante/reflection-bot/internal/app/classify"
	"github.com/PabloGalante/reflection-bot/internal/app/game"
	"github.com/PabloGalante/reflection-bot/internal/app/router"
	"github.com/PabloGalante/reflection-bot/internal/config"
	"github.com/PabloGalante/reflection-bot/internal/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	// LLM: mock or Vertex by config (useful for dev)
	var (
		completer domain.Completer
		embedder  domain.Embedder
	)
	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK LLM client")
		mock := llm.NewMockLLM()
		completer = mock
		embedder = mock
	} else {
		log.Println("[LLM] Using Gemini LLM client")
		gemini, err := llm.NewGeminiClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName, cfg.EmbeddingModel)
		if err != nil {
			log.Fatalf("error initializing Gemini client: %v", err)
		}
		completer = gemini
		embedder = gemini
	}

	// Storage: Firestore or Memory
	var store domain.ThoughtStore
	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID, embedder)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
		store = fsStore
	default:
		log.Println("[STORE] Using in-memory storage")
		store = memstore.NewThoughtStore()
	}

	// Transcription
	var transcriber domain.Transcriber
	if cfg.OpenAIAPIKey != "" {
		whisper, err := stt.NewWhisperClient(cfg.OpenAIAPIKey, cfg.AudioDir)
		if err != nil {
			log.Fatalf("error initializing Whisper client: %v", err)
		}
		transcriber = whisper
	} else {
		log.Println("[STT] No OpenAI API key, voice notes will be rejected")
		transcriber = stt.Unavailable{}
	}

	// Core services
	classifier := classify.NewClassifier(completer)
	gameEngine := game.NewEngine(completer, store)
	chatService := chat.NewService(completer, store)

	// The bot is both the event source and the router's transport, so wire
	// them in two steps.
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.AudioDir)
	if err != nil {
		log.Fatalf("error initializing Telegram bot: %v", err)
	}

	r := router.New(bot, transcriber, store, classifier, gameEngine, chatService)
	bot.SetRouter(r)

	log.Println("Personal Reflection Bot is running. Press Ctrl+C to stop.")
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
	log.Println("Bot stopped.")
}
