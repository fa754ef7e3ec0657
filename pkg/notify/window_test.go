package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_Contains(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	morning := DefaultWindows()[0]

	tests := []struct {
		hour, minute int
		want         bool
	}{
		{9, 59, false},
		{10, 0, true},
		{11, 59, true},
		{12, 0, false},
		{16, 30, false},
	}
	for _, tt := range tests {
		ts := time.Date(2025, 1, 2, tt.hour, tt.minute, 0, 0, ist)
		assert.Equal(t, tt.want, morning.Contains(ts), ts.Format(time.Kitchen))
	}

	// 05:00 UTC is 10:30 IST, caller converts to the configured zone
	utc := time.Date(2025, 1, 2, 5, 0, 0, 0, time.UTC)
	assert.False(t, morning.Contains(utc))
	assert.True(t, morning.Contains(utc.In(ist)))
}

func TestDefaultWindows(t *testing.T) {
	w := DefaultWindows()
	require.Len(t, w, 2)
	assert.Equal(t, Window{Name: "morning", Label: "Morning Report", StartHour: 10, EndHour: 12}, w[0])
	assert.Equal(t, Window{Name: "evening", Label: "Evening Report", StartHour: 16, EndHour: 18}, w[1])
	assert.Equal(t, "2025-01-02", w[0].Day(time.Date(2025, 1, 2, 23, 0, 0, 0, time.UTC)))
}
