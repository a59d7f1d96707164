package router

import "github.com/PabloGalante/reflection-bot/internal/domain"

// EventKind discriminates inbound events from the transport.
type EventKind int

const (
	EventCommand EventKind = iota
	EventText
	EventVoice
	EventCallback
)

// Event is one inbound message, command, or button click, already decoded by
// the transport adapter. Voice notes arrive downloaded to a local file.
type Event struct {
	UserID domain.UserID
	Kind   EventKind

	// EventCommand
	Command string // without the leading slash
	Args    []string

	// EventText
	Text string

	// EventVoice
	AudioPath string

	// EventCallback
	CallbackData string
	Callback     domain.MessageRef // message carrying the buttons, edited in place
}
