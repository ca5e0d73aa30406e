// Package render builds the forecast card shown for the active location.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/weather-favourites/internal/format"
	"github.com/i474232898/weather-favourites/internal/weather"
)

// Context is everything a render depends on. Callers pass it explicitly rather than
// reading shared state.
type Context struct {
	Location    weather.LocationRecord
	SelectedDay int
	Night       bool
	Settings    weather.Settings
	Now         time.Time
}

// View is the rendered forecast card.
type View struct {
	Location    string     `json:"location"`
	Heading     string     `json:"heading"`
	WeatherType int        `json:"weatherType"`
	Date        string     `json:"date,omitempty"`
	DateLabel   string     `json:"dateLabel"`
	Visibility  string     `json:"visibility"`
	Wind        string     `json:"wind"`
	Extended    *Extended  `json:"extended,omitempty"`
	Days        []DayEntry `json:"days"`
	Notice      string     `json:"notice,omitempty"`
	SelectedDay int        `json:"selectedDay"`
	Night       bool       `json:"night"`
	ShowRefresh bool       `json:"showRefresh"`
}

// Extended holds the optional detail lines.
type Extended struct {
	WindDirection string `json:"windDirection"`
	Humidity      string `json:"humidity"`
	Precipitation string `json:"precipitation"`
	UVExposure    string `json:"uvExposure"`
}

// DayEntry is one selectable day in the forecast list.
type DayEntry struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// FromSession renders a session snapshot at now.
func FromSession(s weather.Session, now time.Time) (View, error) {
	return Render(Context{
		Location:    s.Current,
		SelectedDay: s.SelectedDay,
		Night:       s.Night,
		Settings:    s.Settings,
		Now:         now,
	})
}

// Render builds the view for the selected day. Codes the formatter does not know are
// rendered blank.
func Render(ctx Context) (View, error) {
	if ctx.Location.IsZero() {
		return View{}, weather.ErrNoActiveLocation
	}
	days := ctx.Location.ForecastDays
	if ctx.SelectedDay < 0 || ctx.SelectedDay >= len(days) {
		return View{}, &weather.IndexError{Index: ctx.SelectedDay, Len: len(days)}
	}

	stale := weather.StaleDayCount(days, ctx.Now)
	day := days[ctx.SelectedDay]
	reading := day.Day
	half := "Day Forecast"
	if ctx.Night {
		reading = day.Night
		half = "Night Forecast"
	}

	temp := format.Temperature(reading.Temperature, ctx.Settings.UseFahrenheit)
	heading := temp
	if wt, _ := format.WeatherType(reading.WeatherType); wt != "" {
		heading = wt + ", " + temp
	}

	weekday := weekdayName(day.Date)
	label := weekday + " - " + half
	if ctx.SelectedDay == stale {
		label = "Today (" + weekday + ") - " + half
	}

	visibility, _ := format.Visibility(reading.Visibility)

	v := View{
		Location:    ctx.Location.DisplayName,
		Heading:     heading,
		WeatherType: reading.WeatherType,
		DateLabel:   label,
		Visibility:  visibility,
		Wind:        fmt.Sprintf("%d mph", reading.WindSpeed),
		Days:        forecastList(days, stale, ctx.SelectedDay),
		Notice:      weather.OutOfDateNotice(stale),
		SelectedDay: ctx.SelectedDay,
		Night:       ctx.Night,
		ShowRefresh: ctx.Settings.ShowRefresh,
	}
	if ctx.Settings.ShowDate {
		v.Date = format.DateString(day.Date)
	}

	if ctx.Settings.ShowExtended {
		v.Wind = fmt.Sprintf("%d mph with gusts of %d mph", reading.WindSpeed, reading.WindGust)
		direction, _ := format.WindDirection(reading.WindDirection)
		uv := "N/A"
		if !ctx.Night {
			uv = format.UVExposure(reading.UVIndex)
		}
		v.Extended = &Extended{
			WindDirection: direction,
			Humidity:      fmt.Sprintf("%d%%", reading.Humidity),
			Precipitation: fmt.Sprintf("%d%%", reading.PrecipitationProbability),
			UVExposure:    uv,
		}
	}

	return v, nil
}

// forecastList lists the days from the first current one onward, leaving out the
// selected day and marking today.
func forecastList(days []weather.DayForecast, stale, selected int) []DayEntry {
	entries := make([]DayEntry, 0, len(days))
	for i := stale; i < len(days); i++ {
		if i == selected {
			continue
		}
		label := weekdayName(days[i].Date)
		if i == stale {
			label += " (Today)"
		}
		entries = append(entries, DayEntry{Index: i, Label: label})
	}
	return entries
}

func weekdayName(t time.Time) string {
	name, _ := format.Weekday(int(t.Weekday()))
	return name
}

// Text renders the view as a plain-text card.
func (v View) Text() string {
	var b strings.Builder

	if v.Notice != "" {
		b.WriteString(v.Notice)
		b.WriteString("\n\n")
	}
	b.WriteString(v.Heading + "\n")
	b.WriteString(v.Location + "\n")
	if v.Date != "" {
		b.WriteString(v.Date + "\n")
	}
	b.WriteString(v.DateLabel + "\n")
	b.WriteString("Visibility: " + v.Visibility + "\n")
	b.WriteString("Windspeed: " + v.Wind + "\n")
	if e := v.Extended; e != nil {
		b.WriteString("Wind Direction: " + e.WindDirection + "\n")
		b.WriteString("Humidity: " + e.Humidity + "\n")
		b.WriteString("Precipitation Probability: " + e.Precipitation + "\n")
		b.WriteString("UV Exposure: " + e.UVExposure + "\n")
	}

	if len(v.Days) > 0 {
		b.WriteString("\nOther days:\n")
		for _, d := range v.Days {
			fmt.Fprintf(&b, "  [%d] %s\n", d.Index, d.Label)
		}
	}
	return b.String()
}
