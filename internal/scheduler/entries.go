package scheduler

// DefaultEntries returns the fixed daily water reminder timetable.
func DefaultEntries() []Entry {
	return []Entry{
		{At: "09:00", Text: "Good morning! Time to drink water! 💧"},
		{At: "12:00", Text: "Lunch time reminder! Stay hydrated! 🌊"},
		{At: "15:00", Text: "Afternoon hydration break! 💦"},
		{At: "18:00", Text: "Evening water reminder! 🚰"},
		{At: "21:00", Text: "Last call for water today! Good night! 🌙"},
	}
}
