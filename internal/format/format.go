// Package format converts Met Office DataPoint codes and values into display text.
//
// Code tables follow the DataPoint API reference. Lookups that can meet a code
// outside their table return weather.ErrUnknownCode; callers that prefer the
// blank output of a missing field can ignore the error and use the empty string.
package format

import (
	"fmt"
	"math"
	"time"

	"github.com/i474232898/weather-favourites/internal/weather"
)

var visibility = map[string]string{
	"UN": "Unknown",
	"VP": "Very poor - Less than 1 km",
	"PO": "Poor - Between 1-4 km",
	"MO": "Moderate - Between 4-10 km",
	"GO": "Good - Between 10-20 km",
	"VG": "Very good - Between 20-40 km",
	"EX": "Excellent - More than 40 km",
}

var compass = map[string]string{
	"N":   "North",
	"NNE": "North-northeast",
	"NE":  "Northeast",
	"ENE": "East-northeast",
	"E":   "East",
	"ESE": "East-southeast",
	"SE":  "Southeast",
	"SSE": "South-southeast",
	"S":   "South",
	"SSW": "South-southwest",
	"SW":  "Southwest",
	"WSW": "West-southwest",
	"W":   "West",
	"WNW": "West-northwest",
	"NW":  "Northwest",
	"NNW": "North-northwest",
}

// UV exposure bands.
const (
	UVLow      = "Low"
	UVModerate = "Moderate"
	UVHigh     = "High"
	UVVeryHigh = "Very high"
	UVExtreme  = "Extreme"
)

var weekdays = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var months = [12]string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

// weatherTypes is indexed by DataPoint significant weather code. Code 4 is unused.
var weatherTypes = [31]string{
	"Clear", "Sunny", "Partly cloudy", "Partly cloudy", "",
	"Mist", "Fog", "Cloudy", "Overcast", "Light rain shower",
	"Light rain shower", "Drizzle", "Light rain", "Heavy rain shower", "Heavy rain shower",
	"Heavy rain", "Sleet shower", "Sleet shower", "Sleet", "Hail shower",
	"Hail shower", "Hail", "Light snow shower", "Light snow shower", "Light snow",
	"Heavy snow shower", "Heavy snow shower", "Heavy snow", "Thunder shower", "Thunder shower",
	"Thunder",
}

// Visibility describes a visibility code such as "VG".
func Visibility(code string) (string, error) {
	if s, ok := visibility[code]; ok {
		return s, nil
	}
	return "", fmt.Errorf("visibility %q: %w", code, weather.ErrUnknownCode)
}

// UVExposure bands a UV index. The index is matched as the exact numeric string the
// provider sends; anything outside 1-10, including empty or non-numeric input, is
// Extreme.
func UVExposure(index string) string {
	switch index {
	case "1", "2":
		return UVLow
	case "3", "4", "5":
		return UVModerate
	case "6", "7":
		return UVHigh
	case "8", "9", "10":
		return UVVeryHigh
	default:
		return UVExtreme
	}
}

// WindDirection names a sixteen-point compass code such as "NNE".
func WindDirection(code string) (string, error) {
	if s, ok := compass[code]; ok {
		return s, nil
	}
	return "", fmt.Errorf("wind direction %q: %w", code, weather.ErrUnknownCode)
}

// WeatherType describes a DataPoint significant weather code.
func WeatherType(code int) (string, error) {
	if code < 0 || code >= len(weatherTypes) || weatherTypes[code] == "" {
		return "", fmt.Errorf("weather type %d: %w", code, weather.ErrUnknownCode)
	}
	return weatherTypes[code], nil
}

// Fahrenheit converts Celsius to whole degrees Fahrenheit, rounding half away from
// zero. DataPoint temperatures are whole Celsius, for which c*9/5 never ends in .5.
func Fahrenheit(c float64) int {
	return int(math.Round(c*9/5 + 32))
}

// Temperature formats a Celsius value in the unit chosen by the user.
func Temperature(c int, fahrenheit bool) string {
	if fahrenheit {
		return fmt.Sprintf("%d°F", Fahrenheit(float64(c)))
	}
	return fmt.Sprintf("%d°C", c)
}

// Weekday returns the English name of day i, where 0 is Sunday.
func Weekday(i int) (string, error) {
	if i < 0 || i >= len(weekdays) {
		return "", &weather.IndexError{Index: i, Len: len(weekdays)}
	}
	return weekdays[i], nil
}

// Month returns the English name of month i, where 0 is January.
func Month(i int) (string, error) {
	if i < 0 || i >= len(months) {
		return "", &weather.IndexError{Index: i, Len: len(months)}
	}
	return months[i], nil
}

// DateString formats t like "Wednesday 27 April 2016".
func DateString(t time.Time) string {
	return fmt.Sprintf("%s %d %s %d", weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year())
}
