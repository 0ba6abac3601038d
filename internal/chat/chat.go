// Package chat holds the transport-neutral shapes the bot's handlers work
// with. The Discord adapter in internal/bot converts gateway events into
// Updates and implements Messenger.
package chat

import "context"

// Button actions carried by choice callbacks.
const (
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
)

// Slash-style commands.
const (
	CommandStart = "start"
	CommandHelp  = "help"
	CommandQuote = "quote"
)

// Update is one inbound event: a text message, an image message, a button
// press or a command.
type Update struct {
	ConversationID string
	SenderID       int64
	Text           string
	Images         []ImageVariant

	// Action is set for button presses (ActionConfirm, ActionCancel).
	Action string

	// Command is set for slash commands; Args holds named options.
	Command string
	Args    map[string]string
}

// ImageVariant is one attached image rendition.
type ImageVariant struct {
	Width  int
	Height int
	Handle string
}

// Choice is one button of an inline choice.
type Choice struct {
	Label  string
	Action string
}

// Messenger is the outbound side of the transport.
type Messenger interface {
	SendText(ctx context.Context, conversationID, text string) error
	SendChoice(ctx context.Context, conversationID, prompt string, options []Choice) error
	SendSticker(ctx context.Context, conversationID, sticker string) error
	Download(ctx context.Context, handle string) ([]byte, error)
}
