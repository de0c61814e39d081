package messages

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-journal-bot/internal/logger"
)

// TelegramTransport sends Markdown messages with inline keyboards.
type TelegramTransport struct {
	bot *tgbotapi.BotAPI
	log *logger.Logger
}

func NewTelegramTransport(bot *tgbotapi.BotAPI, log *logger.Logger) *TelegramTransport {
	if log == nil {
		log = logger.Nop()
	}
	return &TelegramTransport{bot: bot, log: log}
}

// NewBotAPI connects to endpoint (tgbotapi.APIEndpoint in production) with an
// HTTP client that gives up on any single request after timeout.
func NewBotAPI(token, endpoint string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: timeout})
}

// contextClient attaches ctx to every request so a deadline or cancellation
// aborts the HTTP call itself.
type contextClient struct {
	ctx  context.Context
	next tgbotapi.HTTPClient
}

func (c contextClient) Do(req *http.Request) (*http.Response, error) {
	return c.next.Do(req.WithContext(c.ctx))
}

// botFor returns a shallow copy of the bot whose requests are bound to ctx.
func (t *TelegramTransport) botFor(ctx context.Context) *tgbotapi.BotAPI {
	b := *t.bot
	b.Client = contextClient{ctx: ctx, next: t.bot.Client}
	return &b
}

func (t *TelegramTransport) SendText(ctx context.Context, chatID int64, text string, kb Keyboard) (MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return MessageRef{}, err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if kb != nil {
		msg.ReplyMarkup = inlineMarkup(kb)
	}
	m, err := t.botFor(ctx).Send(msg)
	if err != nil {
		return MessageRef{}, fmt.Errorf("failed to send message to %d: %w", chatID, err)
	}
	return MessageRef{ChatID: chatID, MessageID: m.MessageID}, nil
}

func (t *TelegramTransport) EditMessage(ctx context.Context, ref MessageRef, text string, kb Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if len(kb) > 0 {
		markup := inlineMarkup(kb)
		edit.ReplyMarkup = &markup
	}
	if _, err := t.botFor(ctx).Send(edit); err != nil {
		// a repeated tap re-renders the same text
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return fmt.Errorf("failed to edit message %d in %d: %w", ref.MessageID, ref.ChatID, err)
	}
	return nil
}

func (t *TelegramTransport) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.botFor(ctx).Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

func inlineMarkup(kb Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, r := range kb {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Escape quotes user-provided text for Markdown messages.
func Escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
