package messages

import (
	"context"

	"telegram-journal-bot/internal/logger"
	"telegram-journal-bot/internal/models"
)

// UserSource looks up the recipient of a reminder.
type UserSource interface {
	GetUser(ctx context.Context, chatID int64) (*models.User, error)
}

// Reminder pushes the scheduled check-in message.
type Reminder struct {
	users     UserSource
	transport ChatTransport
	log       *logger.Logger
}

func NewReminder(users UserSource, transport ChatTransport, log *logger.Logger) *Reminder {
	if log == nil {
		log = logger.Nop()
	}
	return &Reminder{users: users, transport: transport, log: log}
}

// PushPrompt sends the check-in to an active user. Missing or inactive users
// are skipped silently.
func (r *Reminder) PushPrompt(ctx context.Context, chatID int64) error {
	u, err := r.users.GetUser(ctx, chatID)
	if err != nil {
		return err
	}
	if u == nil || !u.Active {
		r.log.Debug("Reminder skipped", "chat_id", chatID)
		return nil
	}
	if _, err := r.transport.SendText(ctx, chatID, ReminderText, ReminderKeyboard()); err != nil {
		return err
	}
	return nil
}
