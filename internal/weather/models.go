package weather

import (
	"time"
)

// Reading holds one half (day or night) of a daily forecast as reported by the provider.
type Reading struct {
	Temperature              int    `json:"temperature"` // day maximum or night minimum, Celsius
	FeelsLike                int    `json:"feelsLike"`
	WindSpeed                int    `json:"windSpeed"` // mph
	WindGust                 int    `json:"windGust"`  // mph
	WindDirection            string `json:"windDirection"`
	Humidity                 int    `json:"humidity"`
	PrecipitationProbability int    `json:"precipitationProbability"`
	UVIndex                  string `json:"uvIndex,omitempty"` // not reported at night
	Visibility               string `json:"visibility"`
	WeatherType              int    `json:"weatherType"`
}

// DayForecast is the forecast for one calendar date. Date is local midnight.
type DayForecast struct {
	Date  time.Time `json:"date"`
	Day   Reading   `json:"day"`
	Night Reading   `json:"night"`
}

// LocationRecord represents a named provider site together with its most recently
// fetched forecast. Records are passed by value; use Clone before sharing ForecastDays.
type LocationRecord struct {
	DisplayName   string        `json:"displayName"`
	FavouriteName string        `json:"favouriteName"`
	ProviderID    string        `json:"providerId"`
	ForecastDays  []DayForecast `json:"forecastDays"`
}

// IsZero reports whether the record describes no location at all.
func (l LocationRecord) IsZero() bool {
	return l.DisplayName == ""
}

// Clone returns a copy that shares no forecast storage with l.
func (l LocationRecord) Clone() LocationRecord {
	c := l
	if l.ForecastDays != nil {
		c.ForecastDays = make([]DayForecast, len(l.ForecastDays))
		copy(c.ForecastDays, l.ForecastDays)
	}
	return c
}

// Label is the name shown for a favourite or the current location:
// "Alias (Name)" when the alias differs from the provider name.
func (l LocationRecord) Label() string {
	if l.FavouriteName != "" && l.FavouriteName != l.DisplayName {
		return l.FavouriteName + " (" + l.DisplayName + ")"
	}
	return l.DisplayName
}

// Site is one entry of the provider's site directory.
type Site struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Region          string  `json:"region,omitempty"`
	UnitaryAuthArea string  `json:"unitaryAuthArea,omitempty"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
}

// SiteForecast is what a ForecastProvider returns for a single site.
type SiteForecast struct {
	ID   string
	Name string
	Days []DayForecast
}

// Settings are the user's display preferences.
type Settings struct {
	UpdateOnOpen  bool `json:"updateOnOpen"`
	UseFahrenheit bool `json:"useFahrenheit"`
	ShowRefresh   bool `json:"showRefresh"`
	ShowDate      bool `json:"showDate"`
	ShowExtended  bool `json:"showExtended"`
}

// DefaultSettings returns the settings used on first run.
func DefaultSettings() Settings {
	return Settings{ShowDate: true}
}

// Setting names accepted by Settings.Set.
const (
	SettingUpdateOnOpen = "update-on-open"
	SettingFahrenheit   = "fahrenheit"
	SettingRefresh      = "refresh"
	SettingDate         = "date"
	SettingExtended     = "extended"
)

// SettingNames lists every setting name in display order.
var SettingNames = []string{
	SettingUpdateOnOpen,
	SettingFahrenheit,
	SettingRefresh,
	SettingDate,
	SettingExtended,
}

func (s *Settings) field(name string) (*bool, error) {
	switch name {
	case SettingUpdateOnOpen:
		return &s.UpdateOnOpen, nil
	case SettingFahrenheit:
		return &s.UseFahrenheit, nil
	case SettingRefresh:
		return &s.ShowRefresh, nil
	case SettingDate:
		return &s.ShowDate, nil
	case SettingExtended:
		return &s.ShowExtended, nil
	}
	return nil, &SettingError{Name: name}
}

// Get returns the named flag.
func (s Settings) Get(name string) (bool, error) {
	f, err := s.field(name)
	if err != nil {
		return false, err
	}
	return *f, nil
}

// Set returns a copy of s with the named flag set to value.
func (s Settings) Set(name string, value bool) (Settings, error) {
	f, err := s.field(name)
	if err != nil {
		return s, err
	}
	*f = value
	return s, nil
}

// Session is the mutable state of one user's view: the active location, their
// favourites and settings, and which day/half of the forecast is on screen.
type Session struct {
	Current     LocationRecord   `json:"current"`
	Favourites  []LocationRecord `json:"favourites"`
	Settings    Settings         `json:"settings"`
	SelectedDay int              `json:"selectedDay"`
	Night       bool             `json:"night"`
}
