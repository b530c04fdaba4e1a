package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithinWindow(t *testing.T) {
	at := func(hhmm string) time.Time {
		parsed, err := time.Parse("15:04", hhmm)
		require.NoError(t, err)
		return time.Date(2025, 1, 25, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
	}

	// 常规窗口 08:00-22:00
	require.True(t, withinWindow(at("08:00"), "08:00", "22:00"))
	require.True(t, withinWindow(at("12:30"), "08:00", "22:00"))
	require.True(t, withinWindow(at("22:00"), "08:00", "22:00"))
	require.False(t, withinWindow(at("07:59"), "08:00", "22:00"))
	require.False(t, withinWindow(at("23:00"), "08:00", "22:00"))

	// 跨午夜窗口 22:00-06:00
	require.True(t, withinWindow(at("23:30"), "22:00", "06:00"))
	require.True(t, withinWindow(at("02:00"), "22:00", "06:00"))
	require.False(t, withinWindow(at("12:00"), "22:00", "06:00"))

	// 无法解析的窗口视为始终开放
	require.True(t, withinWindow(at("03:00"), "", ""))
}
