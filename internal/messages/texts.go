package messages

import (
	"fmt"
	"strings"

	"telegram-journal-bot/internal/analytics"
	"telegram-journal-bot/internal/models"
)

const (
	WelcomeText = "🌟 *Welcome to Your Journaling Bot!* 🌟\n\n" +
		"I'll help you build a daily journaling habit with quick check-ins.\n\n" +
		"📝 *What I do:*\n" +
		"• Send you journaling prompts at your preferred times\n" +
		"• Ask about your mood, gratitude, productivity, and self-care\n" +
		"• Track your responses and show you insights\n" +
		"• Help you build consistency with streak tracking\n\n" +
		"⚙️ *Commands:*\n" +
		"/journal - Start a journaling session now\n" +
		"/schedule - Set your preferred times\n" +
		"/stats - View your insights and trends\n" +
		"/settings - Manage your preferences\n" +
		"/help - Show help information\n\n" +
		"Ready to start? Use /journal to begin your first check-in!"

	HelpText = "📖 *Help & Commands*\n\n" +
		"*Main Commands:*\n" +
		"/journal - Start a journaling session\n" +
		"/schedule - Configure when you receive prompts\n" +
		"/stats - View your statistics and insights\n" +
		"/settings - Manage your preferences\n\n" +
		"*How it works:*\n" +
		"1. I'll ask you questions one at a time\n" +
		"2. Answer with the button options\n" +
		"3. Skip questions you don't want to answer\n" +
		"4. Complete the session to log your responses\n\n" +
		"*Question Categories:*\n" +
		"😊 Mood - How you're feeling\n" +
		"🙏 Gratitude - What you're thankful for\n" +
		"🎯 Productivity - Your accomplishments\n" +
		"💚 Self-care - Health and wellness"

	CompleteText = "✨ *Session Complete!* ✨\n\n" +
		"Thank you for taking time to journal today.\n" +
		"Your responses have been saved.\n\n" +
		"Use /stats to see your progress!\n" +
		"Use /journal to start another session anytime."

	ReminderText = "🌟 *Time for your journal check-in!* 🌟\n\n" +
		"Take a moment to reflect on your day."

	CustomScheduleText = "⚙️ *Custom Schedule*\n\n" +
		"Send me your preferred times in 24-hour format (HH:MM), separated by commas.\n\n" +
		"Example: `09:00, 14:30, 20:00`"

	ScheduleMenuText     = "⏰ *Schedule Your Journaling Times*\n\nWhen would you like to receive journaling prompts?"
	NoSchedulesText      = "You don't have any scheduled times yet."
	ClearedScheduleText  = "🗑️ All scheduled times removed."
	SettingsMenuText     = "⚙️ *Settings*\n\nWhat would you like to configure?"
	SettingsScheduleText = "Use /schedule to manage your notification times."
	TimezonePromptText   = "🌍 *Timezone Settings*\n\nSend me your timezone (e.g. Europe/London, Asia/Tokyo, UTC)"
	ConfirmClearText     = "⚠️ *Warning*\n\nThis will delete all your data including responses and stats. Are you sure?"
	DataClearedText      = "✅ Your data has been cleared. Use /start to begin again."
	ClearCancelledText   = "Cancelled. Your data is safe!"

	StaleSessionText  = "Session expired. Use /journal to start a new session."
	InactiveUserText  = "Your account is inactive. Turn notifications back on in /settings to continue."
	NoQuestionsText   = "No questions available. Please contact support."
	InvalidAnswerText = "Please choose one of the offered answers."
	UnknownUserText   = "Please send /start first."
	UnknownCommand    = "Unknown command. Use /help to see what I can do."
	IdleTextHint      = "Use /journal to start a session or /help for the list of commands."
	GenericErrorText  = "Something went wrong. Please try again later."
)

const (
	SkipButton         = "Skip ⏭️"
	StartJournalButton = "📝 Start journaling"
)

// Values of schedule and settings menu buttons.
const (
	MenuCustom   = "custom"
	MenuView     = "view"
	MenuClear    = "clear"
	MenuStart    = "start"
	MenuSchedule = "schedule"
	MenuTimezone = "timezone"
	MenuToggle   = "toggle"
	ConfirmYes   = "clear-yes"
	ConfirmNo    = "clear-no"
)

// PresetTimes are offered on the /schedule menu.
var PresetTimes = []struct{ Label, Time string }{
	{"⏰ Morning (9:00 AM)", "09:00"},
	{"🌅 Afternoon (2:00 PM)", "14:00"},
	{"🌙 Evening (8:00 PM)", "20:00"},
}

// PromptText renders a question under its category heading.
func PromptText(q models.Question) string {
	return fmt.Sprintf("%s *%s*\n\n%s", q.Category.Emoji(), q.Category.Title(), q.Text)
}

// PromptKeyboard lays the options out two per row and adds a skip row.
func PromptKeyboard(q models.Question) (Keyboard, error) {
	var (
		kb  Keyboard
		row []Button
	)
	for _, o := range q.AnswerOptions() {
		data, err := EncodeAnswer(q.ID, o.Label)
		if err != nil {
			return nil, err
		}
		row = append(row, Button{Text: o.Label, Data: data})
		if len(row) == 2 {
			kb = append(kb, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb = append(kb, row)
	}
	kb = append(kb, Row(Button{Text: SkipButton, Data: EncodeSkip(q.ID)}))
	return kb, nil
}

func ReminderKeyboard() Keyboard {
	return Keyboard{Row(Button{Text: StartJournalButton, Data: EncodeMenu(ActionJournal, MenuStart)})}
}

func ScheduleKeyboard() Keyboard {
	kb := make(Keyboard, 0, len(PresetTimes)+3)
	for _, p := range PresetTimes {
		kb = append(kb, Row(Button{Text: p.Label, Data: EncodeMenu(ActionSchedule, p.Time)}))
	}
	return append(kb,
		Row(Button{Text: "⚙️ Custom times", Data: EncodeMenu(ActionSchedule, MenuCustom)}),
		Row(Button{Text: "📋 View current schedule", Data: EncodeMenu(ActionSchedule, MenuView)}),
		Row(Button{Text: "🗑️ Clear schedule", Data: EncodeMenu(ActionSchedule, MenuClear)}),
	)
}

func SettingsKeyboard() Keyboard {
	return Keyboard{
		Row(Button{Text: "⏰ Notification Schedule", Data: EncodeMenu(ActionSettings, MenuSchedule)}),
		Row(Button{Text: "🌍 Timezone", Data: EncodeMenu(ActionSettings, MenuTimezone)}),
		Row(Button{Text: "🔔 Enable/Disable Notifications", Data: EncodeMenu(ActionSettings, MenuToggle)}),
		Row(Button{Text: "🗑️ Clear My Data", Data: EncodeMenu(ActionSettings, MenuClear)}),
	}
}

func ConfirmClearKeyboard() Keyboard {
	return Keyboard{
		Row(Button{Text: "Yes, delete everything", Data: EncodeMenu(ActionConfirm, ConfirmYes)}),
		Row(Button{Text: "No, cancel", Data: EncodeMenu(ActionConfirm, ConfirmNo)}),
	}
}

func SchedulesText(list []models.Schedule, timezone string) string {
	var times []string
	for _, s := range list {
		if s.Enabled {
			times = append(times, "• "+s.TimeOfDay)
		}
	}
	if len(times) == 0 {
		return NoSchedulesText
	}
	return fmt.Sprintf("⏰ Your scheduled times (%s):\n%s", Escape(timezone), strings.Join(times, "\n"))
}

func ScheduleSetText(times []string) string {
	if len(times) == 1 {
		return fmt.Sprintf("✅ Schedule set for %s. You'll receive prompts at this time daily!", times[0])
	}
	return fmt.Sprintf("✅ Schedule set for %s. You'll receive prompts at these times daily!", strings.Join(times, ", "))
}

func TimezoneSetText(tz string) string {
	return fmt.Sprintf("✅ Timezone set to %s.", Escape(tz))
}

func NotificationsText(active bool) string {
	if active {
		return "✅ Notifications enabled!"
	}
	return "✅ Notifications disabled!"
}

func InvalidValueText(value, reason string) string {
	return fmt.Sprintf("❌ Invalid value %s: %s. Please try again.", Escape(fmt.Sprintf("%q", value)), Escape(reason))
}

// StatsText renders the /stats report.
func StatsText(r *analytics.Report) string {
	var b strings.Builder
	b.WriteString("📊 *Your Journaling Stats*\n\n")
	fmt.Fprintf(&b, "🔥 Current Streak: *%d days*\n\n", r.Streak)
	b.WriteString("📅 *This Week:*\n")
	fmt.Fprintf(&b, "Total responses: %d\n", r.Weekly.TotalResponses)
	fmt.Fprintf(&b, "Sessions completed: %d\n\n", r.Weekly.SessionsCompleted)
	fmt.Fprintf(&b, "😊 *Mood Trend:* %s\n\n", r.MoodTrend)
	b.WriteString("🗓️ *Last 30 Days:*\n")
	fmt.Fprintf(&b, "Active days: %d (%.1f%%)\n", r.Monthly.ActiveDays, r.Monthly.ConsistencyRate)
	for _, cat := range models.Categories {
		fmt.Fprintf(&b, "%s %s: %d\n", cat.Emoji(), cat.Title(), r.Monthly.CategoryBreakdown[cat])
	}
	if len(r.BestTimes.Hours) > 0 {
		fmt.Fprintf(&b, "\n⏱️ Most active times: %s\n", strings.Join(r.BestTimes.Hours, ", "))
	}
	b.WriteString("\nKeep up the great work! 🌟")
	return b.String()
}
