package models

import "time"

// User represents a journaling account keyed by telegram chat.
type User struct {
	ID        int64     `db:"id"         json:"id"`
	ChatID    int64     `db:"chat_id"    json:"chat_id"`
	Username  string    `db:"username"   json:"username"`
	Timezone  string    `db:"timezone"   json:"timezone"` // IANA name
	Active    bool      `db:"active"     json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Category string

const (
	CategoryMood         Category = "mood"
	CategoryGratitude    Category = "gratitude"
	CategoryProductivity Category = "productivity"
	CategorySelfCare     Category = "self_care"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryMood, CategoryGratitude, CategoryProductivity, CategorySelfCare}

func (c Category) Emoji() string {
	switch c {
	case CategoryMood:
		return "😊"
	case CategoryGratitude:
		return "🙏"
	case CategoryProductivity:
		return "🎯"
	case CategorySelfCare:
		return "💚"
	}
	return "📝"
}

// Title renders "self_care" as "Self Care".
func (c Category) Title() string {
	switch c {
	case CategoryMood:
		return "Mood"
	case CategoryGratitude:
		return "Gratitude"
	case CategoryProductivity:
		return "Productivity"
	case CategorySelfCare:
		return "Self Care"
	}
	return string(c)
}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Option is one answer button of a question. Polarity is +1, 0 or -1.
type Option struct {
	Label    string `db:"label"    json:"label"`
	Polarity int    `db:"polarity" json:"polarity"`
}

// DefaultOptions is used for questions that define no options of their own.
var DefaultOptions = []Option{
	{Label: "Yes ✅", Polarity: 1},
	{Label: "No ❌", Polarity: -1},
}

// Question is an immutable catalog entry.
type Question struct {
	ID           int64    `db:"id"            json:"id"`
	Category     Category `db:"category"      json:"category"`
	Text         string   `db:"question_text" json:"question_text"`
	ResponseType string   `db:"response_type" json:"response_type"` // yes_no, scale, text
	Ordinal      int      `db:"ordinal"       json:"ordinal"`
	Active       bool     `db:"active"        json:"active"`
	Options      []Option `json:"options"`
}

// AnswerOptions returns the question's options or the yes/no default.
func (q Question) AnswerOptions() []Option {
	if len(q.Options) == 0 {
		return DefaultOptions
	}
	return q.Options
}

// Response is one recorded answer. Rows are append-only.
type Response struct {
	ID          int64     `db:"id"`
	ChatID      int64     `db:"chat_id"`
	QuestionID  int64     `db:"question_id"`
	Answer      string    `db:"answer"`
	SessionID   string    `db:"session_id"`
	RespondedAt time.Time `db:"responded_at"`
}

// ResponseRecord is a Response joined with its question's category.
type ResponseRecord struct {
	Response
	Category Category `db:"category"`
}

// SkippedAnswer is never aggregated by analytics.
const SkippedAnswer = "skipped"

// Schedule is one daily prompt time of a user.
type Schedule struct {
	ChatID    int64  `db:"chat_id"     json:"chat_id"`
	TimeOfDay string `db:"time_of_day" json:"time_of_day"` // "HH:MM"
	Enabled   bool   `db:"enabled"     json:"enabled"`
}

// ScheduledPrompt is a schedule resolved with its owner's timezone.
type ScheduledPrompt struct {
	ChatID    int64
	TimeOfDay string
	Timezone  string
}
