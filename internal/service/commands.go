// Package service is the command surface the chat handlers dispatch into.
// Each method maps onto one core operation.
package service

import (
	"context"
	"fmt"

	"telegram-journal-bot/internal/analytics"
	"telegram-journal-bot/internal/journal"
	"telegram-journal-bot/internal/logger"
	"telegram-journal-bot/internal/models"
	"telegram-journal-bot/internal/scheduler"
)

// UserStore creates and reads accounts.
type UserStore interface {
	EnsureUser(ctx context.Context, chatID int64, username, timezone string) (*models.User, bool, error)
	GetUser(ctx context.Context, chatID int64) (*models.User, error)
}

// Defaults are applied to accounts created on first contact.
type Defaults struct {
	Timezone string
	Times    []string
}

type Commands struct {
	users    UserStore
	engine   *journal.Engine
	registry *scheduler.Registry
	analyzer *analytics.Analyzer
	defaults Defaults
	log      *logger.Logger
}

func New(users UserStore, engine *journal.Engine, registry *scheduler.Registry, analyzer *analytics.Analyzer, defaults Defaults, log *logger.Logger) *Commands {
	if log == nil {
		log = logger.Nop()
	}
	if defaults.Timezone == "" {
		defaults.Timezone = "UTC"
	}
	return &Commands{users: users, engine: engine, registry: registry, analyzer: analyzer, defaults: defaults, log: log}
}

// EnsureUser returns the account for chatID, creating it with the default
// timezone and schedule on first contact.
func (c *Commands) EnsureUser(ctx context.Context, chatID int64, username string) (*models.User, error) {
	u, created, err := c.users.EnsureUser(ctx, chatID, username, c.defaults.Timezone)
	if err != nil {
		return nil, err
	}
	if created {
		c.log.Info("Commands new user", "chat_id", chatID, "username", username)
		if len(c.defaults.Times) > 0 {
			if _, err := c.registry.SetSchedules(ctx, chatID, c.defaults.Times, ""); err != nil {
				return nil, fmt.Errorf("failed to apply default schedule: %w", err)
			}
		}
	}
	return u, nil
}

// User returns the account, or nil when the chat never started the bot.
func (c *Commands) User(ctx context.Context, chatID int64) (*models.User, error) {
	return c.users.GetUser(ctx, chatID)
}

func (c *Commands) StartSession(ctx context.Context, chatID int64) (*journal.Prompt, error) {
	return c.engine.StartSession(ctx, chatID)
}

// SubmitAnswer records answer, or skips the question when answer is "skip".
func (c *Commands) SubmitAnswer(ctx context.Context, chatID, questionID int64, answer string) (journal.Step, error) {
	return c.engine.SubmitAnswer(ctx, chatID, questionID, answer)
}

func (c *Commands) CurrentPrompt(ctx context.Context, chatID int64) (*journal.Prompt, error) {
	return c.engine.CurrentPrompt(ctx, chatID)
}

// SetSchedules replaces the user's times; tz may be empty.
func (c *Commands) SetSchedules(ctx context.Context, chatID int64, times []string, tz string) ([]string, error) {
	return c.registry.SetSchedules(ctx, chatID, times, tz)
}

// RemoveSchedule removes one time, or all of them when timeOfDay is empty.
func (c *Commands) RemoveSchedule(ctx context.Context, chatID int64, timeOfDay string) (int64, error) {
	return c.registry.RemoveSchedule(ctx, chatID, timeOfDay)
}

func (c *Commands) ListSchedules(ctx context.Context, chatID int64) ([]models.Schedule, error) {
	return c.registry.ListSchedules(ctx, chatID)
}

func (c *Commands) SetTimezone(ctx context.Context, chatID int64, tz string) (string, error) {
	return c.registry.SetTimezone(ctx, chatID, tz)
}

// ToggleNotifications flips the account's active flag and reports the new
// value. Re-enabled accounts without times get the default schedule.
func (c *Commands) ToggleNotifications(ctx context.Context, chatID int64) (bool, error) {
	u, err := c.users.GetUser(ctx, chatID)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, journal.ErrUserNotFound
	}
	if u.Active {
		return false, c.registry.Disable(ctx, chatID)
	}

	if err := c.registry.Enable(ctx, chatID); err != nil {
		return false, err
	}
	list, err := c.registry.ListSchedules(ctx, chatID)
	if err != nil {
		return true, err
	}
	if len(list) == 0 && len(c.defaults.Times) > 0 {
		if _, err := c.registry.SetSchedules(ctx, chatID, c.defaults.Times, ""); err != nil {
			return true, err
		}
	}
	return true, nil
}

// EraseUserData removes every trace of the user. Repeating it is a no-op.
func (c *Commands) EraseUserData(ctx context.Context, chatID int64) error {
	return c.registry.EraseUser(ctx, chatID)
}

func (c *Commands) Stats(ctx context.Context, chatID int64) (*analytics.Report, error) {
	return c.analyzer.Report(ctx, chatID)
}

// AwaitText makes the user's next plain message a settings value.
func (c *Commands) AwaitText(ctx context.Context, chatID int64, input models.TextInput) error {
	return c.engine.BeginTextInput(ctx, chatID, input)
}

func (c *Commands) PendingText(ctx context.Context, chatID int64) (models.TextInput, bool, error) {
	return c.engine.PendingTextInput(ctx, chatID)
}

func (c *Commands) ClearText(ctx context.Context, chatID int64) error {
	return c.engine.ClearTextInput(ctx, chatID)
}
