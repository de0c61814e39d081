package handlers

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-journal-bot/internal/journal"
	"telegram-journal-bot/internal/messages"
	"telegram-journal-bot/internal/models"
)

func (h *Handler) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil {
		h.answer(ctx, cq.ID, "")
		return
	}
	chatID := cq.Message.Chat.ID
	ref := messages.MessageRef{ChatID: chatID, MessageID: cq.Message.MessageID}

	cb, err := messages.DecodeCallback(cq.Data)
	if err != nil {
		h.log.Warn("Handler bad callback", "chat_id", chatID, "data", cq.Data, "error", err)
		h.answer(ctx, cq.ID, "")
		return
	}

	var toast string
	switch cb.Action {
	case messages.ActionAnswer, messages.ActionSkip:
		toast = h.onAnswer(ctx, ref, cb)
	case messages.ActionJournal:
		h.startJournal(ctx, chatID)
	case messages.ActionSchedule:
		h.onSchedule(ctx, ref, cb.Value)
	case messages.ActionSettings:
		h.onSettings(ctx, ref, cb.Value)
	case messages.ActionConfirm:
		h.onConfirm(ctx, ref, cb.Value)
	}
	h.answer(ctx, cq.ID, toast)
}

func (h *Handler) answer(ctx context.Context, callbackID, text string) {
	if err := h.tr.AnswerCallback(ctx, callbackID, text); err != nil {
		h.log.Warn("Handler answer callback failed", "error", err)
	}
}

// onAnswer submits a button answer and swaps the message for the next
// prompt. An invalid option leaves the message as is and returns a toast.
func (h *Handler) onAnswer(ctx context.Context, ref messages.MessageRef, cb messages.Callback) string {
	answer := cb.Value
	if cb.Action == messages.ActionSkip {
		answer = journal.SkipAnswer
	}

	step, err := h.svc.SubmitAnswer(ctx, ref.ChatID, cb.QuestionID, answer)
	switch {
	case errors.Is(err, journal.ErrInvalidAnswer):
		return messages.InvalidAnswerText
	case err != nil:
		h.edit(ctx, ref, h.errorText(ref.ChatID, err), nil)
		return ""
	case step.Completed:
		h.edit(ctx, ref, messages.CompleteText, nil)
		return ""
	}

	kb, err := messages.PromptKeyboard(step.Next.Question)
	if err != nil {
		h.edit(ctx, ref, h.errorText(ref.ChatID, err), nil)
		return ""
	}
	h.edit(ctx, ref, messages.PromptText(step.Next.Question), kb)
	return ""
}

// requireUser edits the message to ask for /start when the chat has no account.
func (h *Handler) requireUser(ctx context.Context, ref messages.MessageRef) (*models.User, bool) {
	u, err := h.svc.User(ctx, ref.ChatID)
	if err != nil {
		h.edit(ctx, ref, h.errorText(ref.ChatID, err), nil)
		return nil, false
	}
	if u == nil {
		h.edit(ctx, ref, messages.UnknownUserText, nil)
		return nil, false
	}
	return u, true
}

func (h *Handler) onSchedule(ctx context.Context, ref messages.MessageRef, value string) {
	u, ok := h.requireUser(ctx, ref)
	if !ok {
		return
	}

	switch value {
	case messages.MenuCustom:
		if err := h.svc.AwaitText(ctx, ref.ChatID, models.TextInputSchedule); err != nil {
			h.edit(ctx, ref, h.errorText(ref.ChatID, err), nil)
			return
		}
		h.edit(ctx, ref, messages.CustomScheduleText, nil)

	case messages.MenuView:
		list, err := h.svc.ListSchedules(ctx, ref.ChatID)
		if err != nil {
			h.edit(ctx, ref, h.errorText(ref.ChatID, err), nil)
			return
		}
		h.edit(ctx, ref, messages.SchedulesText(list, u.Timezone), nil)

	case messages.MenuClear:
		if _, err := h.svc.RemoveSchedule(ctx, ref.ChatID, ""); err != nil {
			h.edit(ctx, ref, h.errorText(ref.ChatID, err), nil)
			return
		}
		h.edit(ctx, ref, messages.ClearedScheduleText, nil)

	default:
		// preset time
		times, err := h.svc.SetSchedules(ctx, ref.ChatID, []string{value}, "")
		if err != nil {
			h.edit(ctx, ref, h.errorText(ref.ChatID, err), nil)
			return
		}
		h.edit(ctx, ref, messages.ScheduleSetText(times), nil)
	}
}

func (h *Handler) onSettings(ctx context.Context, ref messages.MessageRef, value string) {
	if _, ok := h.requireUser(ctx, ref); !ok {
		return
	}

	switch value {
	case messages.MenuSchedule:
		h.edit(ctx, ref, messages.SettingsScheduleText, nil)

	case messages.MenuTimezone:
		if err := h.svc.AwaitText(ctx, ref.ChatID, models.TextInputTimezone); err != nil {
			h.edit(ctx, ref, h.errorText(ref.ChatID, err), nil)
			return
		}
		h.edit(ctx, ref, messages.TimezonePromptText, nil)

	case messages.MenuToggle:
		active, err := h.svc.ToggleNotifications(ctx, ref.ChatID)
		if err != nil {
			h.edit(ctx, ref, h.errorText(ref.ChatID, err), nil)
			return
		}
		h.edit(ctx, ref, messages.NotificationsText(active), nil)

	case messages.MenuClear:
		h.edit(ctx, ref, messages.ConfirmClearText, messages.ConfirmClearKeyboard())
	}
}

func (h *Handler) onConfirm(ctx context.Context, ref messages.MessageRef, value string) {
	switch value {
	case messages.ConfirmYes:
		if err := h.svc.EraseUserData(ctx, ref.ChatID); err != nil {
			h.edit(ctx, ref, h.errorText(ref.ChatID, err), nil)
			return
		}
		h.edit(ctx, ref, messages.DataClearedText, nil)
	case messages.ConfirmNo:
		h.edit(ctx, ref, messages.ClearCancelledText, nil)
	}
}
