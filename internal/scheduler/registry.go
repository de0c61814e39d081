package scheduler

import (
	"context"
	"errors"
	"fmt"

	"telegram-journal-bot/internal/logger"
	"telegram-journal-bot/internal/models"
	"telegram-journal-bot/internal/utils"
)

// ErrUnknownUser is returned when schedules are changed for a chat that
// never started the bot.
var ErrUnknownUser = errors.New("unknown user")

// Store is the persistence the registry writes through.
type Store interface {
	GetUser(ctx context.Context, chatID int64) (*models.User, error)
	ReplaceSchedules(ctx context.Context, chatID int64, times []string, tz string) error
	DeleteSchedules(ctx context.Context, chatID int64, timeOfDay string) (int64, error)
	ListSchedules(ctx context.Context, chatID int64) ([]models.Schedule, error)
	SetUserTimezone(ctx context.Context, chatID int64, timezone string) error
	SetUserActive(ctx context.Context, chatID int64, active bool) error
	DeactivateUser(ctx context.Context, chatID int64) error
	EraseUser(ctx context.Context, chatID int64) error
}

// Timers is the live side of the registry.
type Timers interface {
	Register(chatID int64, timeOfDay, timezone string) error
	Unregister(chatID int64, timeOfDay string) int
}

// Registry keeps persisted schedules and live timers in step. Every mutation
// runs under the user's lock and re-syncs timers from the stored rows.
type Registry struct {
	store  Store
	timers Timers
	locks  *utils.KeyedMutex
	log    *logger.Logger
}

func NewRegistry(st Store, timers Timers, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{store: st, timers: timers, locks: utils.NewKeyedMutex(), log: log}
}

// SetSchedules replaces the user's schedule set. Duplicate times collapse to
// one entry. A non-empty tz also becomes the user's timezone.
func (r *Registry) SetSchedules(ctx context.Context, chatID int64, times []string, tz string) ([]string, error) {
	parsed, err := ParseTimes(times)
	if err != nil {
		return nil, err
	}
	if tz != "" {
		loc, err := LoadZone(tz)
		if err != nil {
			return nil, err
		}
		tz = loc.String()
	}

	unlock := r.locks.Lock(chatID)
	defer unlock()

	if _, err := r.user(ctx, chatID); err != nil {
		return nil, err
	}
	if err := r.store.ReplaceSchedules(ctx, chatID, parsed, tz); err != nil {
		return nil, err
	}
	if err := r.sync(ctx, chatID); err != nil {
		return nil, err
	}
	r.log.Info("Registry SetSchedules succeeded", "chat_id", chatID, "times", parsed, "timezone", tz)
	return parsed, nil
}

// RemoveSchedule deletes one time, or every time when timeOfDay is empty.
func (r *Registry) RemoveSchedule(ctx context.Context, chatID int64, timeOfDay string) (int64, error) {
	if timeOfDay != "" {
		tod, err := ParseTimeOfDay(timeOfDay)
		if err != nil {
			return 0, err
		}
		timeOfDay = tod.String()
	}

	unlock := r.locks.Lock(chatID)
	defer unlock()

	n, err := r.store.DeleteSchedules(ctx, chatID, timeOfDay)
	if err != nil {
		return 0, err
	}
	r.timers.Unregister(chatID, timeOfDay)
	r.log.Info("Registry RemoveSchedule succeeded", "chat_id", chatID, "time", timeOfDay, "removed", n)
	return n, nil
}

func (r *Registry) ListSchedules(ctx context.Context, chatID int64) ([]models.Schedule, error) {
	return r.store.ListSchedules(ctx, chatID)
}

// SetTimezone stores tz and moves the user's timers into it.
func (r *Registry) SetTimezone(ctx context.Context, chatID int64, tz string) (string, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return "", err
	}

	unlock := r.locks.Lock(chatID)
	defer unlock()

	if _, err := r.user(ctx, chatID); err != nil {
		return "", err
	}
	if err := r.store.SetUserTimezone(ctx, chatID, loc.String()); err != nil {
		return "", err
	}
	if err := r.sync(ctx, chatID); err != nil {
		return "", err
	}
	r.log.Info("Registry SetTimezone succeeded", "chat_id", chatID, "timezone", loc.String())
	return loc.String(), nil
}

// Disable deactivates the user and drops their schedules and timers.
func (r *Registry) Disable(ctx context.Context, chatID int64) error {
	unlock := r.locks.Lock(chatID)
	defer unlock()

	if err := r.store.DeactivateUser(ctx, chatID); err != nil {
		return err
	}
	r.timers.Unregister(chatID, "")
	r.log.Info("Registry Disable succeeded", "chat_id", chatID)
	return nil
}

// Enable reactivates the user and registers whatever schedules remain.
func (r *Registry) Enable(ctx context.Context, chatID int64) error {
	unlock := r.locks.Lock(chatID)
	defer unlock()

	if err := r.store.SetUserActive(ctx, chatID, true); err != nil {
		return err
	}
	if err := r.sync(ctx, chatID); err != nil {
		return err
	}
	r.log.Info("Registry Enable succeeded", "chat_id", chatID)
	return nil
}

// EraseUser cancels every timer of the user and then deletes all of their
// rows. Erasing an unknown user is a no-op.
func (r *Registry) EraseUser(ctx context.Context, chatID int64) error {
	unlock := r.locks.Lock(chatID)
	defer unlock()

	n := r.timers.Unregister(chatID, "")
	if err := r.store.EraseUser(ctx, chatID); err != nil {
		return err
	}
	r.log.Info("Registry EraseUser succeeded", "chat_id", chatID, "timers", n)
	return nil
}

func (r *Registry) user(ctx context.Context, chatID int64) (*models.User, error) {
	u, err := r.store.GetUser(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("chat %d: %w", chatID, ErrUnknownUser)
	}
	return u, nil
}

// sync rebuilds the user's timers from the stored rows. Caller holds the
// user's lock.
func (r *Registry) sync(ctx context.Context, chatID int64) error {
	u, err := r.user(ctx, chatID)
	if err != nil {
		return err
	}
	schedules, err := r.store.ListSchedules(ctx, chatID)
	if err != nil {
		return err
	}

	r.timers.Unregister(chatID, "")
	if !u.Active {
		return nil
	}
	var errs []error
	for _, s := range schedules {
		if !s.Enabled {
			continue
		}
		if err := r.timers.Register(chatID, s.TimeOfDay, u.Timezone); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
