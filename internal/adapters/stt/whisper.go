// Package stt transcribes downloaded voice notes with the Whisper API.
package stt

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/PabloGalante/reflection-bot/internal/observability"
)

// WhisperClient implements domain.Transcriber against OpenAI's Whisper API.
type WhisperClient struct {
	client   *openai.Client
	audioDir string
}

func NewWhisperClient(apiKey, audioDir string) (*WhisperClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for transcription")
	}
	return &WhisperClient{
		client:   openai.NewClient(apiKey),
		audioDir: audioDir,
	}, nil
}

// Transcribe converts the audio to MP3 (Telegram sends ogg/opus) and sends
// it to Whisper. The original download and any converted file are removed
// before returning.
func (w *WhisperClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	log := observability.LoggerFromContext(ctx)

	defer func() {
		if err := os.Remove(audioPath); err != nil && !os.IsNotExist(err) {
			log.Error("failed to remove voice note file", "path", audioPath, "error", err)
		}
	}()

	converted := w.convertToMP3(ctx, audioPath)
	if converted != audioPath {
		defer os.Remove(converted)
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: converted,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	log.Info("transcribed voice note", "chars", len(text))
	return text, nil
}

// convertToMP3 shells out to ffmpeg. A failed conversion falls back to the
// original file instead of aborting; Whisper often copes with ogg anyway.
func (w *WhisperClient) convertToMP3(ctx context.Context, inputPath string) string {
	log := observability.LoggerFromContext(ctx)

	out, err := os.CreateTemp(w.audioDir, "voice-*.mp3")
	if err != nil {
		log.Error("failed to create temp file for conversion", "error", err)
		return inputPath
	}
	outPath := out.Name()
	out.Close()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", inputPath,
		"-acodec", "libmp3lame",
		"-y",
		outPath,
	)
	if err := cmd.Run(); err != nil {
		log.Error("ffmpeg conversion failed", "error", err)
		os.Remove(outPath)
		return inputPath
	}
	return outPath
}
