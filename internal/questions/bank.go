package questions

import "telegram-journal-bot/internal/models"

// yesNo builds the usual positive-yes / negative-no pair.
func yesNo(yes, no string) []models.Option {
	return []models.Option{{Label: yes, Polarity: 1}, {Label: no, Polarity: -1}}
}

// Bank returns the built-in question set in catalog order.
func Bank() []models.Question {
	q := func(cat models.Category, ordinal int, text string, o []models.Option) models.Question {
		return models.Question{Category: cat, Text: text, ResponseType: "yes_no", Ordinal: ordinal, Active: true, Options: o}
	}
	return []models.Question{
		// mood
		q(models.CategoryMood, 1, "How are you feeling right now?", []models.Option{
			{Label: "Great 😊", Polarity: 1},
			{Label: "Good 🙂", Polarity: 1},
			{Label: "Okay 😐", Polarity: 0},
			{Label: "Not great 😔", Polarity: -1},
		}),
		q(models.CategoryMood, 2, "Do you feel energized today?", yesNo("Yes ⚡", "No 😴")),
		// a "yes" here is the negative answer
		q(models.CategoryMood, 3, "Are you feeling stressed or anxious?", []models.Option{
			{Label: "Yes 😰", Polarity: -1},
			{Label: "No 😌", Polarity: 1},
		}),

		// gratitude
		q(models.CategoryGratitude, 4, "Did something make you smile today?", yesNo("Yes 😊", "No 😐")),
		q(models.CategoryGratitude, 5, "Are you grateful for someone in your life right now?", yesNo("Yes ❤️", "No")),
		q(models.CategoryGratitude, 6, "Did you experience a moment of beauty or peace today?", yesNo("Yes 🌟", "No")),

		// productivity
		q(models.CategoryProductivity, 7, "Did you accomplish something you're proud of today?", yesNo("Yes 🎉", "No")),
		q(models.CategoryProductivity, 8, "Are you making progress on your important goals?", yesNo("Yes 🎯", "No")),
		q(models.CategoryProductivity, 9, "Did you focus well today?", yesNo("Yes 🧠", "No 😵")),
		q(models.CategoryProductivity, 10, "Do you have a clear plan for tomorrow?", yesNo("Yes 📝", "No")),

		// self care
		q(models.CategorySelfCare, 11, "Did you get enough sleep last night?", yesNo("Yes 😴", "No 🥱")),
		q(models.CategorySelfCare, 12, "Did you exercise or move your body today?", yesNo("Yes 💪", "No")),
		q(models.CategorySelfCare, 13, "Did you eat healthy meals today?", yesNo("Yes 🥗", "No")),
		q(models.CategorySelfCare, 14, "Did you take time for yourself today?", yesNo("Yes 🧘", "No")),
		q(models.CategorySelfCare, 15, "Did you connect with friends or family today?", yesNo("Yes 👥", "No")),
		q(models.CategorySelfCare, 16, "Did you stay hydrated today?", yesNo("Yes 💧", "No")),
	}
}
