package stt

import (
	"context"
	"fmt"
)

// Unavailable is the Transcriber used when no transcription key is
// configured. Every voice note fails, which the router turns into the usual
// user-facing apology.
type Unavailable struct{}

func (Unavailable) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return "", fmt.Errorf("transcription is not configured")
}
