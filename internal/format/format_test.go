package format

import (
	"errors"
	"testing"
	"time"

	"github.com/i474232898/weather-favourites/internal/weather"
)

func TestFahrenheit(t *testing.T) {
	tests := []struct {
		c    float64
		want int
	}{
		{0, 32},
		{100, 212},
		{-40, -40},
		{12, 54},
		{-3, 27},
		{37, 99},
	}

	for _, tt := range tests {
		if got := Fahrenheit(tt.c); got != tt.want {
			t.Errorf("Fahrenheit(%v) = %d, want %d", tt.c, got, tt.want)
		}
	}
}

func TestTemperature(t *testing.T) {
	if got := Temperature(12, false); got != "12°C" {
		t.Errorf("Temperature(12, false) = %q", got)
	}
	if got := Temperature(12, true); got != "54°F" {
		t.Errorf("Temperature(12, true) = %q", got)
	}
}

func TestUVExposure(t *testing.T) {
	tests := []struct {
		index string
		want  string
	}{
		{"1", UVLow},
		{"2", UVLow},
		{"3", UVModerate},
		{"5", UVModerate},
		{"6", UVHigh},
		{"7", UVHigh},
		{"8", UVVeryHigh},
		{"10", UVVeryHigh},
		{"11", UVExtreme},
		{"15", UVExtreme},
		{"0", UVExtreme},
		{"", UVExtreme},
		{"high", UVExtreme},
	}

	for _, tt := range tests {
		if got := UVExposure(tt.index); got != tt.want {
			t.Errorf("UVExposure(%q) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestVisibility(t *testing.T) {
	codes := []string{"UN", "VP", "PO", "MO", "GO", "VG", "EX"}
	seen := make(map[string]bool)
	for _, c := range codes {
		s, err := Visibility(c)
		if err != nil {
			t.Fatalf("Visibility(%q) error: %v", c, err)
		}
		if seen[s] {
			t.Errorf("Visibility(%q) = %q duplicates another code", c, s)
		}
		seen[s] = true
	}

	if got, _ := Visibility("VG"); got != "Very good - Between 20-40 km" {
		t.Errorf("Visibility(VG) = %q", got)
	}

	s, err := Visibility("XX")
	if !errors.Is(err, weather.ErrUnknownCode) {
		t.Errorf("Visibility(XX) error = %v, want ErrUnknownCode", err)
	}
	if s != "" {
		t.Errorf("Visibility(XX) = %q, want empty", s)
	}
}

func TestWindDirection(t *testing.T) {
	tests := []struct {
		code    string
		want    string
		wantErr bool
	}{
		{code: "N", want: "North"},
		{code: "NNE", want: "North-northeast"},
		{code: "WSW", want: "West-southwest"},
		{code: "NNW", want: "North-northwest"},
		{code: "n", wantErr: true},
		{code: "", wantErr: true},
		{code: "NNNE", wantErr: true},
	}

	for _, tt := range tests {
		got, err := WindDirection(tt.code)
		if tt.wantErr {
			if !errors.Is(err, weather.ErrUnknownCode) {
				t.Errorf("WindDirection(%q) error = %v, want ErrUnknownCode", tt.code, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("WindDirection(%q) = %q, %v; want %q", tt.code, got, err, tt.want)
		}
	}

	if len(compass) != 16 {
		t.Errorf("compass has %d points, want 16", len(compass))
	}
}

func TestWeatherType(t *testing.T) {
	if got, err := WeatherType(7); err != nil || got != "Cloudy" {
		t.Errorf("WeatherType(7) = %q, %v", got, err)
	}
	if got, err := WeatherType(30); err != nil || got != "Thunder" {
		t.Errorf("WeatherType(30) = %q, %v", got, err)
	}
	for code, want := range map[int]string{2: "Partly cloudy", 13: "Heavy rain shower", 14: "Heavy rain shower", 15: "Heavy rain"} {
		if got, err := WeatherType(code); err != nil || got != want {
			t.Errorf("WeatherType(%d) = %q, %v, want %q", code, got, err, want)
		}
	}
	for _, code := range []int{-1, 4, 31} {
		if _, err := WeatherType(code); !errors.Is(err, weather.ErrUnknownCode) {
			t.Errorf("WeatherType(%d) error = %v, want ErrUnknownCode", code, err)
		}
	}
}

func TestWeekdayAndMonth(t *testing.T) {
	if got, err := Weekday(0); err != nil || got != "Sunday" {
		t.Errorf("Weekday(0) = %q, %v", got, err)
	}
	if got, err := Weekday(6); err != nil || got != "Saturday" {
		t.Errorf("Weekday(6) = %q, %v", got, err)
	}
	if got, err := Month(11); err != nil || got != "December" {
		t.Errorf("Month(11) = %q, %v", got, err)
	}

	for _, i := range []int{-1, 7} {
		if _, err := Weekday(i); !errors.Is(err, weather.ErrIndexOutOfRange) {
			t.Errorf("Weekday(%d) error = %v, want ErrIndexOutOfRange", i, err)
		}
	}
	for _, i := range []int{-1, 12} {
		if _, err := Month(i); !errors.Is(err, weather.ErrIndexOutOfRange) {
			t.Errorf("Month(%d) error = %v, want ErrIndexOutOfRange", i, err)
		}
	}
}

func TestDateString(t *testing.T) {
	d := time.Date(2016, time.April, 27, 0, 0, 0, 0, time.UTC)
	if got := DateString(d); got != "Wednesday 27 April 2016" {
		t.Errorf("DateString = %q", got)
	}
}
