// Package scheduler keeps one daily timer per (chat, HH:MM) and the
// persisted schedule set those timers mirror.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"telegram-journal-bot/internal/logger"
	"telegram-journal-bot/internal/models"
)

// Pusher delivers the check-in prompt to a user.
type Pusher interface {
	PushPrompt(ctx context.Context, chatID int64) error
}

// Source lists the schedules to register at start-up.
type Source interface {
	ListScheduledPrompts(ctx context.Context) ([]models.ScheduledPrompt, error)
}

// Entry describes one live timer.
type Entry struct {
	ChatID    int64
	TimeOfDay string
	Timezone  string
	NextRun   time.Time
}

type timerKey struct {
	chatID    int64
	timeOfDay string
}

// name is stable across restarts.
func (k timerKey) name() string {
	return fmt.Sprintf("journal_%d_%s", k.chatID, k.timeOfDay)
}

func userTag(chatID int64) string {
	return fmt.Sprintf("user:%d", chatID)
}

type registration struct {
	jobID uuid.UUID
	tod   TimeOfDay
	loc   *time.Location
}

// PromptScheduler owns the gocron scheduler and the map of live timers.
type PromptScheduler struct {
	cron    gocron.Scheduler
	pusher  Pusher
	clock   clockwork.Clock
	log     *logger.Logger
	timeout time.Duration

	mu   sync.Mutex
	jobs map[timerKey]registration
}

type Option func(*PromptScheduler)

func WithClock(c clockwork.Clock) Option { return func(p *PromptScheduler) { p.clock = c } }

func WithLogger(l *logger.Logger) Option { return func(p *PromptScheduler) { p.log = l } }

// WithDeliveryTimeout bounds a single push.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(p *PromptScheduler) { p.timeout = d }
}

func New(pusher Pusher, opts ...Option) (*PromptScheduler, error) {
	p := &PromptScheduler{
		pusher:  pusher,
		clock:   clockwork.NewRealClock(),
		log:     logger.Nop(),
		timeout: 10 * time.Second,
		jobs:    make(map[timerKey]registration),
	}
	for _, opt := range opts {
		opt(p)
	}

	s, err := gocron.NewScheduler(
		gocron.WithClock(p.clock),
		gocron.WithLogger(p.log),
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	p.cron = s
	return p, nil
}

func (p *PromptScheduler) Start() {
	p.cron.Start()
	p.log.Info("PromptScheduler started", "timers", p.Len())
}

func (p *PromptScheduler) Shutdown() error {
	err := p.cron.Shutdown()
	p.log.Info("PromptScheduler stopped")
	return err
}

// LoadAll registers every stored schedule. Entries that fail to register are
// logged and skipped.
func (p *PromptScheduler) LoadAll(ctx context.Context, src Source) (int, error) {
	prompts, err := src.ListScheduledPrompts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list schedules: %w", err)
	}
	n := 0
	for _, sp := range prompts {
		if err := p.Register(sp.ChatID, sp.TimeOfDay, sp.Timezone); err != nil {
			p.log.Warn("PromptScheduler LoadAll skipped schedule", "chat_id", sp.ChatID, "time", sp.TimeOfDay, "error", err)
			continue
		}
		n++
	}
	p.log.Info("PromptScheduler loaded schedules", "count", n)
	return n, nil
}

// Register installs a daily timer for chatID at timeOfDay in timezone,
// replacing any timer with the same (chatID, timeOfDay) key.
func (p *PromptScheduler) Register(chatID int64, timeOfDay, timezone string) error {
	tod, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return err
	}
	loc, err := LoadZone(timezone)
	if err != nil {
		return err
	}
	key := timerKey{chatID: chatID, timeOfDay: tod.String()}

	p.mu.Lock()
	defer p.mu.Unlock()

	if old, ok := p.jobs[key]; ok {
		p.removeJob(old.jobID)
		delete(p.jobs, key)
	}

	// robfig cron evaluates CRON_TZ specs in the zone, per firing
	spec := fmt.Sprintf("CRON_TZ=%s %d %d * * *", loc.String(), tod.Minute, tod.Hour)
	job, err := p.cron.NewJob(
		gocron.CronJob(spec, false),
		gocron.NewTask(func() { p.fire(key) }),
		gocron.WithName(key.name()),
		gocron.WithTags(userTag(chatID)),
	)
	if err != nil {
		return fmt.Errorf("failed to register %s: %w", key.name(), err)
	}
	p.jobs[key] = registration{jobID: job.ID(), tod: tod, loc: loc}

	p.log.Debug("PromptScheduler Register succeeded", "chat_id", chatID, "time", key.timeOfDay, "timezone", loc.String())
	return nil
}

// Unregister cancels the timer at timeOfDay, or every timer of chatID when
// timeOfDay is empty. It returns the number of cancelled timers.
func (p *PromptScheduler) Unregister(chatID int64, timeOfDay string) int {
	if timeOfDay != "" {
		if tod, err := ParseTimeOfDay(timeOfDay); err == nil {
			timeOfDay = tod.String()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for key, reg := range p.jobs {
		if key.chatID != chatID || (timeOfDay != "" && key.timeOfDay != timeOfDay) {
			continue
		}
		p.removeJob(reg.jobID)
		delete(p.jobs, key)
		n++
	}
	if n > 0 {
		p.log.Debug("PromptScheduler Unregister succeeded", "chat_id", chatID, "time", timeOfDay, "count", n)
	}
	return n
}

func (p *PromptScheduler) removeJob(id uuid.UUID) {
	if err := p.cron.RemoveJob(id); err != nil && !errors.Is(err, gocron.ErrJobNotFound) {
		p.log.Warn("PromptScheduler RemoveJob failed", "job_id", id.String(), "error", err)
	}
}

// Len is the number of live timers.
func (p *PromptScheduler) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.jobs)
}

// Entries lists live timers ordered by chat and time, with their next firing.
func (p *PromptScheduler) Entries() []Entry {
	now := p.clock.Now()

	p.mu.Lock()
	res := make([]Entry, 0, len(p.jobs))
	for key, reg := range p.jobs {
		res = append(res, Entry{
			ChatID:    key.chatID,
			TimeOfDay: key.timeOfDay,
			Timezone:  reg.loc.String(),
			NextRun:   NextFire(now, reg.tod, reg.loc),
		})
	}
	p.mu.Unlock()

	sort.Slice(res, func(i, j int) bool {
		if res[i].ChatID != res[j].ChatID {
			return res[i].ChatID < res[j].ChatID
		}
		return res[i].TimeOfDay < res[j].TimeOfDay
	})
	return res
}

// fire pushes one prompt. A failed push is logged and the timer stays.
func (p *PromptScheduler) fire(key timerKey) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.pusher.PushPrompt(ctx, key.chatID); err != nil {
		derr := &DeliveryError{ChatID: key.chatID, TimeOfDay: key.timeOfDay, Err: err}
		p.log.Warn("PromptScheduler delivery failed", "chat_id", key.chatID, "time", key.timeOfDay, "error", derr)
		return
	}
	p.log.Info("PromptScheduler prompt delivered", "chat_id", key.chatID, "time", key.timeOfDay)
}
