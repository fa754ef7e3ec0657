package domain

// setting keys
const (
	SettingLimitedKeywords = "limited_keywords" // JSON array, operator edits of the limited list
	SettingWindowPrefix    = "window_sent:"     // + window name, date of the last successful send
)
