package handlers

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-journal-bot/internal/journal"
	"telegram-journal-bot/internal/messages"
	"telegram-journal-bot/internal/models"
	"telegram-journal-bot/internal/scheduler"
)

// HandleText routes a plain message: a pending settings value first, then a
// typed answer to the outstanding question.
func (h *Handler) HandleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	input, pending, err := h.svc.PendingText(ctx, chatID)
	if err != nil {
		h.send(ctx, chatID, h.errorText(chatID, err), nil)
		return
	}
	if pending {
		h.handleTextInput(ctx, chatID, input, text)
		return
	}

	p, err := h.svc.CurrentPrompt(ctx, chatID)
	if err != nil {
		h.send(ctx, chatID, h.errorText(chatID, err), nil)
		return
	}
	if p == nil {
		h.send(ctx, chatID, messages.IdleTextHint, nil)
		return
	}

	step, err := h.svc.SubmitAnswer(ctx, chatID, p.Question.ID, text)
	switch {
	case errors.Is(err, journal.ErrInvalidAnswer):
		h.sendPrompt(ctx, chatID, p)
	case err != nil:
		h.send(ctx, chatID, h.errorText(chatID, err), nil)
	case step.Completed:
		h.send(ctx, chatID, messages.CompleteText, nil)
	default:
		h.sendPrompt(ctx, chatID, step.Next)
	}
}

// handleTextInput applies a timezone or schedule value. Invalid input keeps
// the user in the same mode so they can retry.
func (h *Handler) handleTextInput(ctx context.Context, chatID int64, input models.TextInput, text string) {
	var reply string
	switch input {
	case models.TextInputTimezone:
		tz, err := h.svc.SetTimezone(ctx, chatID, text)
		if err != nil {
			h.send(ctx, chatID, h.errorText(chatID, err), nil)
			return
		}
		reply = messages.TimezoneSetText(tz)

	case models.TextInputSchedule:
		times, err := scheduler.SplitTimes(text)
		if err == nil {
			times, err = h.svc.SetSchedules(ctx, chatID, times, "")
		}
		if err != nil {
			h.send(ctx, chatID, h.errorText(chatID, err), nil)
			return
		}
		reply = messages.ScheduleSetText(times)
	}

	if err := h.svc.ClearText(ctx, chatID); err != nil {
		h.log.Warn("Handler ClearText failed", "chat_id", chatID, "error", err)
	}
	h.send(ctx, chatID, reply, nil)
}
