package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-journal-bot/internal/messages"
)

func (h *Handler) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	cmd := msg.Command()
	h.log.Debug("Handler command", "chat_id", chatID, "command", cmd)

	if cmd == "help" {
		h.send(ctx, chatID, messages.HelpText, nil)
		return
	}

	if _, err := h.svc.EnsureUser(ctx, chatID, username(msg.From)); err != nil {
		h.send(ctx, chatID, h.errorText(chatID, err), nil)
		return
	}

	switch cmd {
	case "start":
		h.send(ctx, chatID, messages.WelcomeText, nil)
	case "journal":
		h.startJournal(ctx, chatID)
	case "stats":
		h.handleStats(ctx, chatID)
	case "schedule":
		h.send(ctx, chatID, messages.ScheduleMenuText, messages.ScheduleKeyboard())
	case "settings":
		h.send(ctx, chatID, messages.SettingsMenuText, messages.SettingsKeyboard())
	default:
		h.send(ctx, chatID, messages.UnknownCommand, nil)
	}
}

func (h *Handler) startJournal(ctx context.Context, chatID int64) {
	p, err := h.svc.StartSession(ctx, chatID)
	if err != nil {
		h.send(ctx, chatID, h.errorText(chatID, err), nil)
		return
	}
	h.sendPrompt(ctx, chatID, p)
}

func (h *Handler) handleStats(ctx context.Context, chatID int64) {
	r, err := h.svc.Stats(ctx, chatID)
	if err != nil {
		h.send(ctx, chatID, h.errorText(chatID, err), nil)
		return
	}
	h.send(ctx, chatID, messages.StatsText(r), nil)
}
