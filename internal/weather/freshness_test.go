package weather

import (
	"strings"
	"testing"
	"time"
)

func daysFrom(start time.Time, n int) []DayForecast {
	days := make([]DayForecast, n)
	for i := range days {
		days[i] = DayForecast{Date: start.AddDate(0, 0, i)}
	}
	return days
}

func TestStaleDayCount(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}
	today := time.Date(2016, time.April, 27, 0, 0, 0, 0, london)

	tests := []struct {
		name string
		days []DayForecast
		now  time.Time
		want int
	}{
		{
			name: "empty forecast",
			days: nil,
			now:  today.Add(9 * time.Hour),
			want: 0,
		},
		{
			name: "fresh forecast starting today",
			days: daysFrom(today, 5),
			now:  today.Add(15 * time.Hour),
			want: 0,
		},
		{
			name: "today at exactly midnight is not stale",
			days: daysFrom(today, 5),
			now:  today,
			want: 0,
		},
		{
			name: "two days old",
			days: daysFrom(today.AddDate(0, 0, -2), 5),
			now:  today.Add(8 * time.Hour),
			want: 2,
		},
		{
			name: "entire forecast stale",
			days: daysFrom(today.AddDate(0, 0, -9), 5),
			now:  today.Add(23 * time.Hour),
			want: 5,
		},
		{
			name: "forecast in the future",
			days: daysFrom(today.AddDate(0, 0, 1), 5),
			now:  today.Add(time.Hour),
			want: 0,
		},
		{
			name: "non-leading stale day is still counted",
			days: []DayForecast{
				{Date: today},
				{Date: today.AddDate(0, 0, -1)},
				{Date: today.AddDate(0, 0, 1)},
			},
			now:  today.Add(time.Hour),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StaleDayCount(tt.days, tt.now); got != tt.want {
				t.Errorf("StaleDayCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStaleDayCount_LeadingRunProperty(t *testing.T) {
	now := time.Date(2024, time.January, 10, 14, 30, 0, 0, time.UTC)
	for k := 0; k <= 5; k++ {
		days := daysFrom(Midnight(now).AddDate(0, 0, -k), 5)
		want := k
		if want > 5 {
			want = 5
		}
		if got := StaleDayCount(days, now); got != want {
			t.Errorf("k=%d: StaleDayCount() = %d, want %d", k, got, want)
		}
		if got := DefaultSelectedDay(days, now); got != want {
			t.Errorf("k=%d: DefaultSelectedDay() = %d, want %d", k, got, want)
		}
	}
}

func TestMidnight(t *testing.T) {
	in := time.Date(2024, time.March, 5, 23, 59, 59, 999, time.UTC)
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	if got := Midnight(in); !got.Equal(want) {
		t.Errorf("Midnight() = %v, want %v", got, want)
	}
}

func TestOutOfDateNotice(t *testing.T) {
	if got := OutOfDateNotice(0); got != "" {
		t.Errorf("OutOfDateNotice(0) = %q, want empty", got)
	}
	if got := OutOfDateNotice(2); !strings.HasPrefix(got, "Your forecast is 2 day(s) out of date.") {
		t.Errorf("OutOfDateNotice(2) = %q", got)
	}
}
