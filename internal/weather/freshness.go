package weather

import (
	"fmt"
	"time"
)

// Midnight truncates t to 00:00 of the same calendar day in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StaleDayCount returns how many forecast days fall strictly before the calendar day
// of now. Every day is examined, not just a leading run, so for ascending input the
// result is also the index of the first day that is not stale. Unsorted input would
// make that index wrong; providers always return days in order.
func StaleDayCount(days []DayForecast, now time.Time) int {
	today := Midnight(now)
	stale := 0
	for _, d := range days {
		if d.Date.Before(today) {
			stale++
		}
	}
	return stale
}

// DefaultSelectedDay is the day shown when a forecast is first displayed: the first
// day that is not stale. Callers must re-evaluate it whenever the forecast or the
// calendar day changes.
func DefaultSelectedDay(days []DayForecast, now time.Time) int {
	return StaleDayCount(days, now)
}

// OutOfDateNotice returns the warning displayed above a forecast with stale days.
func OutOfDateNotice(stale int) string {
	if stale <= 0 {
		return ""
	}
	return fmt.Sprintf("Your forecast is %d day(s) out of date. If it is shortly after midnight, "+
		"this could be due to a delay with the Met Office data. Please try and update your forecast "+
		"by either changing your location, enabling the refresh button in settings or enabling "+
		"update on application start.", stale)
}
