package notify

import "time"

// Window is a daily delivery window, [StartHour, EndHour) in the configured timezone
type Window struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
}

// DefaultWindows returns morning and evening windows
func DefaultWindows() []Window {
	return []Window{
		{Name: "morning", Label: "Morning Report", StartHour: 10, EndHour: 12},
		{Name: "evening", Label: "Evening Report", StartHour: 16, EndHour: 18},
	}
}

// Contains checks if t falls in the window, t must be in the configured location
func (w Window) Contains(t time.Time) bool {
	h := t.Hour()
	return h >= w.StartHour && h < w.EndHour
}

// Day returns the calendar day of t, used to send once per window per day
func (w Window) Day(t time.Time) string {
	return t.Format("2006-01-02")
}
