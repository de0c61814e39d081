// Package handlers turns Telegram updates into service calls and replies.
package handlers

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-journal-bot/internal/analytics"
	"telegram-journal-bot/internal/journal"
	"telegram-journal-bot/internal/logger"
	"telegram-journal-bot/internal/messages"
	"telegram-journal-bot/internal/models"
	"telegram-journal-bot/internal/scheduler"
)

// Service is the command surface the handler drives.
type Service interface {
	EnsureUser(ctx context.Context, chatID int64, username string) (*models.User, error)
	User(ctx context.Context, chatID int64) (*models.User, error)
	StartSession(ctx context.Context, chatID int64) (*journal.Prompt, error)
	SubmitAnswer(ctx context.Context, chatID, questionID int64, answer string) (journal.Step, error)
	CurrentPrompt(ctx context.Context, chatID int64) (*journal.Prompt, error)
	SetSchedules(ctx context.Context, chatID int64, times []string, tz string) ([]string, error)
	RemoveSchedule(ctx context.Context, chatID int64, timeOfDay string) (int64, error)
	ListSchedules(ctx context.Context, chatID int64) ([]models.Schedule, error)
	SetTimezone(ctx context.Context, chatID int64, tz string) (string, error)
	ToggleNotifications(ctx context.Context, chatID int64) (bool, error)
	EraseUserData(ctx context.Context, chatID int64) error
	Stats(ctx context.Context, chatID int64) (*analytics.Report, error)
	AwaitText(ctx context.Context, chatID int64, input models.TextInput) error
	PendingText(ctx context.Context, chatID int64) (models.TextInput, bool, error)
	ClearText(ctx context.Context, chatID int64) error
}

type Handler struct {
	svc Service
	tr  messages.ChatTransport
	log *logger.Logger
	wg  sync.WaitGroup
}

func New(svc Service, tr messages.ChatTransport, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{svc: svc, tr: tr, log: log}
}

// Listen handles updates concurrently until ctx is done or the channel is
// closed, then waits for the updates in flight.
func (h *Handler) Listen(ctx context.Context, updates <-chan tgbotapi.Update) {
	defer h.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			h.wg.Add(1)
			go func() {
				defer h.wg.Done()
				h.HandleUpdate(ctx, upd)
			}()
		}
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil && upd.Message.Chat != nil:
		if upd.Message.IsCommand() {
			h.HandleCommand(ctx, upd.Message)
			return
		}
		h.HandleText(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		h.HandleCallback(ctx, upd.CallbackQuery)
	}
}

func (h *Handler) send(ctx context.Context, chatID int64, text string, kb messages.Keyboard) {
	if _, err := h.tr.SendText(ctx, chatID, text, kb); err != nil {
		h.log.Warn("Handler send failed", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) edit(ctx context.Context, ref messages.MessageRef, text string, kb messages.Keyboard) {
	if err := h.tr.EditMessage(ctx, ref, text, kb); err != nil {
		h.log.Warn("Handler edit failed", "chat_id", ref.ChatID, "message_id", ref.MessageID, "error", err)
	}
}

// sendPrompt shows p as a new message with its answer buttons.
func (h *Handler) sendPrompt(ctx context.Context, chatID int64, p *journal.Prompt) {
	kb, err := messages.PromptKeyboard(p.Question)
	if err != nil {
		h.send(ctx, chatID, h.errorText(chatID, err), nil)
		return
	}
	h.send(ctx, chatID, messages.PromptText(p.Question), kb)
}

// errorText maps an error to the reply the user sees. Unexpected errors are
// logged.
func (h *Handler) errorText(chatID int64, err error) string {
	var invalid *scheduler.InvalidScheduleError
	switch {
	case errors.Is(err, journal.ErrStaleSession):
		return messages.StaleSessionText
	case errors.Is(err, journal.ErrInactiveUser):
		return messages.InactiveUserText
	case errors.Is(err, journal.ErrInvalidAnswer):
		return messages.InvalidAnswerText
	case errors.Is(err, journal.ErrUserNotFound), errors.Is(err, scheduler.ErrUnknownUser):
		return messages.UnknownUserText
	case errors.Is(err, journal.ErrNoQuestions):
		h.log.Error("Handler no questions available", "chat_id", chatID)
		return messages.NoQuestionsText
	case errors.As(err, &invalid):
		return messages.InvalidValueText(invalid.Value, invalid.Reason)
	}
	h.log.Error("Handler request failed", "chat_id", chatID, "error", err)
	return messages.GenericErrorText
}

func username(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	return u.UserName
}
