// Package analytics derives read-only statistics from stored responses.
// Calendar days are reckoned in the user's timezone.
package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"telegram-journal-bot/internal/logger"
	"telegram-journal-bot/internal/models"
	"telegram-journal-bot/internal/questions"
)

const (
	weekDays  = 7
	monthDays = 30
)

// Store is the read side analytics needs.
type Store interface {
	GetUser(ctx context.Context, chatID int64) (*models.User, error)
	ListResponses(ctx context.Context, chatID int64, since time.Time) ([]models.ResponseRecord, error)
}

type Trend int

const (
	TrendNotEnoughData Trend = iota
	TrendImproving
	TrendStable
	TrendNeedsAttention
)

func (t Trend) String() string {
	switch t {
	case TrendImproving:
		return "Improving 📈"
	case TrendStable:
		return "Stable 😐"
	case TrendNeedsAttention:
		return "Needs attention 📉"
	}
	return "Not enough data"
}

type Summary struct {
	TotalResponses    int
	SessionsCompleted int
	ActiveDays        int
}

type AnswerCount struct {
	Answer string
	Count  int
}

type CategoryInsight struct {
	Category        models.Category
	TotalResponses  int
	PositivePercent float64
	MostCommon      []AnswerCount
}

type MonthlyReport struct {
	Summary
	ConsistencyRate   float64 // percent of the last 30 days with activity
	CategoryBreakdown map[models.Category]int
}

type BestTimes struct {
	Hours          []string // "HH:00", busiest first
	TotalResponses int
}

// Report bundles everything /stats shows.
type Report struct {
	Streak    int
	Weekly    Summary
	MoodTrend Trend
	Monthly   MonthlyReport
	BestTimes BestTimes
}

type Analyzer struct {
	store   Store
	catalog *questions.Catalog
	clock   clockwork.Clock
	log     *logger.Logger
}

type Option func(*Analyzer)

func WithClock(c clockwork.Clock) Option { return func(a *Analyzer) { a.clock = c } }

func WithLogger(l *logger.Logger) Option { return func(a *Analyzer) { a.log = l } }

func NewAnalyzer(st Store, catalog *questions.Catalog, opts ...Option) *Analyzer {
	a := &Analyzer{store: st, catalog: catalog, clock: clockwork.NewRealClock(), log: logger.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// records loads non-skipped responses since the given number of days ago
// (all of them when days <= 0) and the user's location.
func (a *Analyzer) records(ctx context.Context, chatID int64, days int) ([]models.ResponseRecord, *time.Location, error) {
	loc := time.UTC
	u, err := a.store.GetUser(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	if u != nil && u.Timezone != "" {
		if l, err := time.LoadLocation(u.Timezone); err == nil {
			loc = l
		} else {
			a.log.Warn("Analyzer unknown user timezone", "chat_id", chatID, "timezone", u.Timezone)
		}
	}

	var since time.Time
	if days > 0 {
		since = a.clock.Now().AddDate(0, 0, -days)
	}
	recs, err := a.store.ListResponses(ctx, chatID, since)
	if err != nil {
		return nil, nil, err
	}
	kept := recs[:0]
	for _, r := range recs {
		if r.Answer != models.SkippedAnswer {
			kept = append(kept, r)
		}
	}
	return kept, loc, nil
}

// Streak counts consecutive days with at least one response, ending today
// or yesterday.
func (a *Analyzer) Streak(ctx context.Context, chatID int64) (int, error) {
	recs, loc, err := a.records(ctx, chatID, 0)
	if err != nil {
		return 0, err
	}
	times := make([]time.Time, len(recs))
	for i, r := range recs {
		times[i] = r.RespondedAt
	}
	return StreakFrom(times, a.clock.Now(), loc), nil
}

// StreakFrom computes the streak of the given response instants as seen on
// the calendar of loc at now. Days must be strictly consecutive: a single
// missed day ends the streak rather than being bridged.
func StreakFrom(responded []time.Time, now time.Time, loc *time.Location) int {
	days := make(map[time.Time]bool, len(responded))
	for _, t := range responded {
		days[civilDay(t, loc)] = true
	}

	day := civilDay(now, loc)
	if !days[day] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// civilDay maps t to midnight UTC of its calendar date in loc, so that
// AddDate steps whole days regardless of DST.
func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func summarize(recs []models.ResponseRecord, loc *time.Location) Summary {
	sessions := make(map[string]bool)
	days := make(map[time.Time]bool)
	for _, r := range recs {
		if r.SessionID != "" {
			sessions[r.SessionID] = true
		}
		days[civilDay(r.RespondedAt, loc)] = true
	}
	return Summary{TotalResponses: len(recs), SessionsCompleted: len(sessions), ActiveDays: len(days)}
}

// WeeklySummary covers the last seven days.
func (a *Analyzer) WeeklySummary(ctx context.Context, chatID int64) (Summary, error) {
	recs, loc, err := a.records(ctx, chatID, weekDays)
	if err != nil {
		return Summary{}, err
	}
	return summarize(recs, loc), nil
}

// polarity of the option the stored answer matches, zero when unknown.
func (a *Analyzer) polarity(r models.ResponseRecord) int {
	if a.catalog == nil {
		return 0
	}
	o, ok := a.catalog.Option(r.QuestionID, r.Answer)
	if !ok {
		return 0
	}
	return o.Polarity
}

// MoodTrend compares positive and negative mood answers over the last days.
// One side must outnumber the other by half again to count as a trend.
func (a *Analyzer) MoodTrend(ctx context.Context, chatID int64, days int) (Trend, error) {
	recs, _, err := a.records(ctx, chatID, days)
	if err != nil {
		return TrendNotEnoughData, err
	}
	var pos, neg, seen int
	for _, r := range recs {
		if r.Category != models.CategoryMood {
			continue
		}
		seen++
		switch p := a.polarity(r); {
		case p > 0:
			pos++
		case p < 0:
			neg++
		}
	}
	switch {
	case seen == 0:
		return TrendNotEnoughData, nil
	case 2*pos > 3*neg:
		return TrendImproving, nil
	case 2*neg > 3*pos:
		return TrendNeedsAttention, nil
	}
	return TrendStable, nil
}

// CategoryInsights reports answer frequencies of one category.
func (a *Analyzer) CategoryInsights(ctx context.Context, chatID int64, cat models.Category, days int) (CategoryInsight, error) {
	recs, _, err := a.records(ctx, chatID, days)
	if err != nil {
		return CategoryInsight{}, err
	}
	res := CategoryInsight{Category: cat}
	counts := make(map[string]int)
	var pos, neg int
	for _, r := range recs {
		if r.Category != cat {
			continue
		}
		res.TotalResponses++
		counts[r.Answer]++
		switch p := a.polarity(r); {
		case p > 0:
			pos++
		case p < 0:
			neg++
		}
	}
	if pos+neg > 0 {
		res.PositivePercent = round1(float64(pos) / float64(pos+neg) * 100)
	}
	res.MostCommon = topAnswers(counts, 3)
	return res, nil
}

func topAnswers(counts map[string]int, n int) []AnswerCount {
	res := make([]AnswerCount, 0, len(counts))
	for answer, c := range counts {
		res = append(res, AnswerCount{Answer: answer, Count: c})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Answer < res[j].Answer
	})
	if len(res) > n {
		res = res[:n]
	}
	return res
}

// MonthlyReport covers the last thirty days.
func (a *Analyzer) MonthlyReport(ctx context.Context, chatID int64) (MonthlyReport, error) {
	recs, loc, err := a.records(ctx, chatID, monthDays)
	if err != nil {
		return MonthlyReport{}, err
	}
	res := MonthlyReport{
		Summary:           summarize(recs, loc),
		CategoryBreakdown: make(map[models.Category]int, len(models.Categories)),
	}
	for _, cat := range models.Categories {
		res.CategoryBreakdown[cat] = 0
	}
	for _, r := range recs {
		res.CategoryBreakdown[r.Category]++
	}
	res.ConsistencyRate = round1(float64(res.ActiveDays) / monthDays * 100)
	return res, nil
}

// BestTimes returns the three local hours with the most responses.
func (a *Analyzer) BestTimes(ctx context.Context, chatID int64) (BestTimes, error) {
	recs, loc, err := a.records(ctx, chatID, 0)
	if err != nil {
		return BestTimes{}, err
	}
	var hours [24]int
	for _, r := range recs {
		hours[r.RespondedAt.In(loc).Hour()]++
	}
	order := make([]int, 0, 24)
	for h, c := range hours {
		if c > 0 {
			order = append(order, h)
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return hours[order[i]] > hours[order[j]] })
	if len(order) > 3 {
		order = order[:3]
	}
	res := BestTimes{TotalResponses: len(recs)}
	for _, h := range order {
		res.Hours = append(res.Hours, time.Date(2000, 1, 1, h, 0, 0, 0, time.UTC).Format("15:04"))
	}
	return res, nil
}

// Report builds the full /stats bundle.
func (a *Analyzer) Report(ctx context.Context, chatID int64) (*Report, error) {
	var (
		r   Report
		err error
	)
	if r.Streak, err = a.Streak(ctx, chatID); err != nil {
		return nil, err
	}
	if r.Weekly, err = a.WeeklySummary(ctx, chatID); err != nil {
		return nil, err
	}
	if r.MoodTrend, err = a.MoodTrend(ctx, chatID, weekDays); err != nil {
		return nil, err
	}
	if r.Monthly, err = a.MonthlyReport(ctx, chatID); err != nil {
		return nil, err
	}
	if r.BestTimes, err = a.BestTimes(ctx, chatID); err != nil {
		return nil, err
	}
	return &r, nil
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
