package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"telegram-journal-bot/internal/analytics"
	"telegram-journal-bot/internal/journal"
	"telegram-journal-bot/internal/questions"
	"telegram-journal-bot/internal/scheduler"
	"telegram-journal-bot/internal/storage"
)

type nopPusher struct{}

func (nopPusher) PushPrompt(ctx context.Context, chatID int64) error { return nil }

type fixture struct {
	cmd    *Commands
	db     *storage.DB
	timers *scheduler.PromptScheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open("sqlite", filepath.Join(t.TempDir(), "svc.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	catalog, err := questions.Load(ctx, db)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	clock := clockwork.NewFakeClockAt(time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC))
	timers, err := scheduler.New(nopPusher{}, scheduler.WithClock(clock))
	if err != nil {
		t.Fatalf("scheduler.New failed: %v", err)
	}
	t.Cleanup(func() { _ = timers.Shutdown() })

	cmd := New(db,
		journal.NewEngine(db, catalog, journal.WithClock(clock)),
		scheduler.NewRegistry(db, timers, nil),
		analytics.NewAnalyzer(db, catalog, analytics.WithClock(clock)),
		Defaults{Timezone: "UTC", Times: []string{"09:00", "20:00"}},
		nil,
	)
	return &fixture{cmd: cmd, db: db, timers: timers}
}

func TestEnsureUserAppliesDefaultsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.cmd.EnsureUser(ctx, 1, "alice")
	if err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if !u.Active || u.Timezone != "UTC" {
		t.Errorf("unexpected user %+v", u)
	}
	list, err := f.cmd.ListSchedules(ctx, 1)
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(list) != 2 || f.timers.Len() != 2 {
		t.Fatalf("schedules = %d, timers = %d, want 2 and 2", len(list), f.timers.Len())
	}

	if _, err := f.cmd.RemoveSchedule(ctx, 1, ""); err != nil {
		t.Fatalf("RemoveSchedule failed: %v", err)
	}
	if _, err := f.cmd.EnsureUser(ctx, 1, "alice"); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	if list, _ := f.cmd.ListSchedules(ctx, 1); len(list) != 0 {
		t.Errorf("defaults re-applied to an existing user: %+v", list)
	}
}

func TestJournalingAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.cmd.EnsureUser(ctx, 1, "alice"); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	p, err := f.cmd.StartSession(ctx, 1)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	step, err := f.cmd.SubmitAnswer(ctx, 1, p.Question.ID, "great")
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if !step.Recorded || step.Next == nil {
		t.Fatalf("unexpected step %+v", step)
	}
	cur, err := f.cmd.CurrentPrompt(ctx, 1)
	if err != nil || cur == nil || cur.Question.ID != step.Next.Question.ID {
		t.Fatalf("CurrentPrompt = %+v, %v", cur, err)
	}

	r, err := f.cmd.Stats(ctx, 1)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if r.Streak != 1 || r.Weekly.TotalResponses != 1 || r.MoodTrend != analytics.TrendImproving {
		t.Errorf("unexpected report %+v", r)
	}
}

func TestToggleNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.cmd.EnsureUser(ctx, 1, "alice"); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}

	active, err := f.cmd.ToggleNotifications(ctx, 1)
	if err != nil || active {
		t.Fatalf("first toggle = %v, %v; want false", active, err)
	}
	if f.timers.Len() != 0 {
		t.Errorf("timers = %d after disable", f.timers.Len())
	}
	if _, err := f.cmd.StartSession(ctx, 1); !errors.Is(err, journal.ErrInactiveUser) {
		t.Errorf("StartSession = %v, want ErrInactiveUser", err)
	}

	active, err = f.cmd.ToggleNotifications(ctx, 1)
	if err != nil || !active {
		t.Fatalf("second toggle = %v, %v; want true", active, err)
	}
	if f.timers.Len() != 2 {
		t.Errorf("timers = %d after enable, want defaults", f.timers.Len())
	}

	if _, err := f.cmd.ToggleNotifications(ctx, 42); !errors.Is(err, journal.ErrUserNotFound) {
		t.Errorf("unknown user toggle = %v", err)
	}
}

func TestEraseUserData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.cmd.EnsureUser(ctx, 1, "alice"); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	p, err := f.cmd.StartSession(ctx, 1)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if _, err := f.cmd.SubmitAnswer(ctx, 1, p.Question.ID, "Good 🙂"); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := f.cmd.EraseUserData(ctx, 1); err != nil {
			t.Fatalf("EraseUserData #%d failed: %v", i+1, err)
		}
	}
	if f.timers.Len() != 0 {
		t.Errorf("timers = %d, want 0", f.timers.Len())
	}
	if n, err := f.db.CountResponses(ctx, 1); err != nil || n != 0 {
		t.Errorf("CountResponses = %d, %v", n, err)
	}
	if cur, err := f.cmd.CurrentPrompt(ctx, 1); err != nil || cur != nil {
		t.Errorf("CurrentPrompt after erase = %+v, %v", cur, err)
	}
}
