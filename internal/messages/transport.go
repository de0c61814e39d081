// Package messages is the chat side of the bot: the transport interface,
// its Telegram implementation, callback tokens and rendered texts.
package messages

import "context"

// Button is one inline button. Data is an opaque callback token.
type Button struct {
	Text string
	Data string
}

// Keyboard is a list of button rows. A nil keyboard sends no markup.
type Keyboard [][]Button

// MessageRef identifies a sent message for later edits.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// ChatTransport delivers messages to users.
type ChatTransport interface {
	SendText(ctx context.Context, chatID int64, text string, kb Keyboard) (MessageRef, error)
	EditMessage(ctx context.Context, ref MessageRef, text string, kb Keyboard) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Row is a keyboard row of the given buttons.
func Row(buttons ...Button) []Button { return buttons }
