package analytics

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"telegram-journal-bot/internal/models"
	"telegram-journal-bot/internal/questions"
)

var now = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

type fakeStore struct {
	user *models.User
	recs []models.ResponseRecord
}

func (f *fakeStore) GetUser(ctx context.Context, chatID int64) (*models.User, error) {
	return f.user, nil
}

func (f *fakeStore) ListResponses(ctx context.Context, chatID int64, since time.Time) ([]models.ResponseRecord, error) {
	var res []models.ResponseRecord
	for _, r := range f.recs {
		if !r.RespondedAt.Before(since) {
			res = append(res, r)
		}
	}
	return res, nil
}

func testCatalog() *questions.Catalog {
	return questions.NewCatalog([]models.Question{
		{ID: 1, Category: models.CategoryMood, Ordinal: 1, Active: true, Options: []models.Option{
			{Label: "Great 😊", Polarity: 1}, {Label: "Okay 😐", Polarity: 0}, {Label: "Not great 😔", Polarity: -1},
		}},
		{ID: 3, Category: models.CategoryMood, Ordinal: 3, Active: true, Options: []models.Option{
			{Label: "Yes 😰", Polarity: -1}, {Label: "No 😌", Polarity: 1},
		}},
		{ID: 4, Category: models.CategoryGratitude, Ordinal: 4, Active: true, Options: []models.Option{
			{Label: "Yes 😊", Polarity: 1}, {Label: "No 😐", Polarity: -1},
		}},
	})
}

func rec(qid int64, cat models.Category, answer, session string, at time.Time) models.ResponseRecord {
	return models.ResponseRecord{
		Response: models.Response{ChatID: 1, QuestionID: qid, Answer: answer, SessionID: session, RespondedAt: at},
		Category: cat,
	}
}

func newAnalyzer(tz string, recs ...models.ResponseRecord) *Analyzer {
	st := &fakeStore{user: &models.User{ChatID: 1, Timezone: tz, Active: true}, recs: recs}
	return NewAnalyzer(st, testCatalog(), WithClock(clockwork.NewFakeClockAt(now)))
}

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

func TestStreakFrom(t *testing.T) {
	tests := []struct {
		name string
		at   []time.Time
		want int
	}{
		{name: "no responses", want: 0},
		{name: "today and two before", at: []time.Time{daysAgo(0), daysAgo(1), daysAgo(2)}, want: 3},
		{name: "ending yesterday", at: []time.Time{daysAgo(1), daysAgo(2)}, want: 2},
		{name: "gap resets", at: []time.Time{daysAgo(0), daysAgo(2), daysAgo(3)}, want: 1},
		{name: "single missed day is not bridged", at: []time.Time{daysAgo(0), daysAgo(1), daysAgo(3), daysAgo(4), daysAgo(5)}, want: 2},
		{name: "stale", at: []time.Time{daysAgo(2), daysAgo(3)}, want: 0},
		{name: "same day counts once", at: []time.Time{daysAgo(0), daysAgo(0).Add(-time.Hour), daysAgo(1)}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StreakFrom(tt.at, now, time.UTC); got != tt.want {
				t.Errorf("StreakFrom = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreakUsesUserCalendar(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// both instants fall on 2026-03-09 in New York but on different UTC days
	at := []time.Time{
		time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 9, 5, 0, 0, 0, time.UTC),
	}
	if got := StreakFrom(at, now, time.UTC); got != 2 {
		t.Errorf("UTC streak = %d, want 2", got)
	}
	if got := StreakFrom(at, now, ny); got != 1 {
		t.Errorf("New York streak = %d, want 1", got)
	}
}

func TestStreakIgnoresSkipped(t *testing.T) {
	a := newAnalyzer("UTC",
		rec(1, models.CategoryMood, models.SkippedAnswer, "s2", daysAgo(0)),
		rec(1, models.CategoryMood, "Great 😊", "s1", daysAgo(1)),
	)
	got, err := a.Streak(context.Background(), 1)
	if err != nil {
		t.Fatalf("Streak failed: %v", err)
	}
	if got != 1 {
		t.Errorf("Streak = %d, want 1", got)
	}
}

func TestWeeklySummary(t *testing.T) {
	a := newAnalyzer("UTC",
		rec(1, models.CategoryMood, "Great 😊", "s1", daysAgo(10)),
		rec(1, models.CategoryMood, "Great 😊", "s2", daysAgo(3)),
		rec(4, models.CategoryGratitude, "Yes 😊", "s2", daysAgo(3)),
		rec(1, models.CategoryMood, "Okay 😐", "s3", daysAgo(1)),
	)
	got, err := a.WeeklySummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("WeeklySummary failed: %v", err)
	}
	want := Summary{TotalResponses: 3, SessionsCompleted: 2, ActiveDays: 2}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestMoodTrend(t *testing.T) {
	tests := []struct {
		name    string
		answers []models.ResponseRecord
		want    Trend
	}{
		{name: "no data", want: TrendNotEnoughData},
		{name: "improving", want: TrendImproving, answers: []models.ResponseRecord{
			rec(1, models.CategoryMood, "Great 😊", "s", daysAgo(1)),
			rec(1, models.CategoryMood, "great", "s", daysAgo(1)),
			rec(3, models.CategoryMood, "Yes 😰", "s", daysAgo(1)),
		}},
		{name: "stable", want: TrendStable, answers: []models.ResponseRecord{
			rec(1, models.CategoryMood, "Great 😊", "s", daysAgo(1)),
			rec(1, models.CategoryMood, "Not great 😔", "s", daysAgo(1)),
		}},
		{name: "needs attention", want: TrendNeedsAttention, answers: []models.ResponseRecord{
			rec(1, models.CategoryMood, "Not great 😔", "s", daysAgo(1)),
			rec(3, models.CategoryMood, "Yes 😰", "s", daysAgo(2)),
			rec(3, models.CategoryMood, "No 😌", "s", daysAgo(2)),
		}},
		{name: "other categories ignored", want: TrendNotEnoughData, answers: []models.ResponseRecord{
			rec(4, models.CategoryGratitude, "Yes 😊", "s", daysAgo(1)),
		}},
		{name: "outside window", want: TrendNotEnoughData, answers: []models.ResponseRecord{
			rec(1, models.CategoryMood, "Great 😊", "s", daysAgo(9)),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAnalyzer("UTC", tt.answers...)
			got, err := a.MoodTrend(context.Background(), 1, 7)
			if err != nil {
				t.Fatalf("MoodTrend failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCategoryInsights(t *testing.T) {
	a := newAnalyzer("UTC",
		rec(4, models.CategoryGratitude, "Yes 😊", "s1", daysAgo(1)),
		rec(4, models.CategoryGratitude, "Yes 😊", "s2", daysAgo(2)),
		rec(4, models.CategoryGratitude, "No 😐", "s3", daysAgo(3)),
		rec(4, models.CategoryGratitude, models.SkippedAnswer, "s4", daysAgo(3)),
		rec(1, models.CategoryMood, "Great 😊", "s1", daysAgo(1)),
	)
	got, err := a.CategoryInsights(context.Background(), 1, models.CategoryGratitude, 30)
	if err != nil {
		t.Fatalf("CategoryInsights failed: %v", err)
	}
	if got.TotalResponses != 3 {
		t.Errorf("TotalResponses = %d, want 3", got.TotalResponses)
	}
	if got.PositivePercent != 66.7 {
		t.Errorf("PositivePercent = %v, want 66.7", got.PositivePercent)
	}
	want := []AnswerCount{{Answer: "Yes 😊", Count: 2}, {Answer: "No 😐", Count: 1}}
	if !reflect.DeepEqual(got.MostCommon, want) {
		t.Errorf("MostCommon = %+v, want %+v", got.MostCommon, want)
	}
}

func TestMonthlyReport(t *testing.T) {
	a := newAnalyzer("UTC",
		rec(1, models.CategoryMood, "Great 😊", "old", daysAgo(40)),
		rec(1, models.CategoryMood, "Great 😊", "s1", daysAgo(20)),
		rec(4, models.CategoryGratitude, "Yes 😊", "s1", daysAgo(20)),
		rec(1, models.CategoryMood, "Okay 😐", "s2", daysAgo(5)),
		rec(1, models.CategoryMood, "Okay 😐", "s3", daysAgo(0)),
	)
	got, err := a.MonthlyReport(context.Background(), 1)
	if err != nil {
		t.Fatalf("MonthlyReport failed: %v", err)
	}
	if got.TotalResponses != 4 || got.SessionsCompleted != 3 || got.ActiveDays != 3 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if got.ConsistencyRate != 10 {
		t.Errorf("ConsistencyRate = %v, want 10", got.ConsistencyRate)
	}
	want := map[models.Category]int{
		models.CategoryMood:         3,
		models.CategoryGratitude:    1,
		models.CategoryProductivity: 0,
		models.CategorySelfCare:     0,
	}
	if !reflect.DeepEqual(got.CategoryBreakdown, want) {
		t.Errorf("CategoryBreakdown = %v, want %v", got.CategoryBreakdown, want)
	}
}

func TestBestTimes(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2026, 3, 9, h, 15, 0, 0, time.UTC) }
	a := newAnalyzer("Asia/Tokyo",
		rec(1, models.CategoryMood, "Great 😊", "s", at(0)),
		rec(1, models.CategoryMood, "Great 😊", "s", at(0)),
		rec(1, models.CategoryMood, "Great 😊", "s", at(11)),
		rec(1, models.CategoryMood, "Great 😊", "s", at(11)),
		rec(1, models.CategoryMood, "Great 😊", "s", at(11)),
		rec(1, models.CategoryMood, "Great 😊", "s", at(5)),
		rec(1, models.CategoryMood, "Great 😊", "s", at(3)),
	)
	got, err := a.BestTimes(context.Background(), 1)
	if err != nil {
		t.Fatalf("BestTimes failed: %v", err)
	}
	// Tokyo is UTC+9
	want := []string{"20:00", "09:00", "12:00"}
	if !reflect.DeepEqual(got.Hours, want) {
		t.Errorf("Hours = %v, want %v", got.Hours, want)
	}
	if got.TotalResponses != 7 {
		t.Errorf("TotalResponses = %d, want 7", got.TotalResponses)
	}
}

func TestReportEmpty(t *testing.T) {
	a := newAnalyzer("UTC")
	r, err := a.Report(context.Background(), 1)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if r.Streak != 0 || r.MoodTrend != TrendNotEnoughData || r.Weekly.TotalResponses != 0 || len(r.BestTimes.Hours) != 0 {
		t.Errorf("unexpected report %+v", r)
	}
}
