package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-favourites/internal/weather"
)

// DefaultDataPointURL is the root of the Met Office DataPoint public API.
const DefaultDataPointURL = "http://datapoint.metoffice.gov.uk/public/data"

// MetOfficeConfig configures a MetOfficeProvider.
type MetOfficeConfig struct {
	APIKey  string
	BaseURL string

	// Location is the time zone forecast dates are interpreted in.
	Location *time.Location

	// RateLimit and Burst bound outbound requests; zero disables limiting.
	RateLimit float64
	Burst     int

	Backoff *BackoffConfig
}

// MetOfficeProvider implements weather.ForecastProvider and weather.SiteDirectory
// against the DataPoint daily forecast feed.
type MetOfficeProvider struct {
	name    string
	apiKey  string
	baseURL string
	loc     *time.Location
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewMetOfficeProvider(client *http.Client, cfg MetOfficeConfig) *MetOfficeProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultDataPointURL
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	backoff := DefaultBackoff
	if cfg.Backoff != nil {
		backoff = *cfg.Backoff
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &MetOfficeProvider{
		name:    "metoffice",
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		loc:     loc,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: backoff,
			Limiter: limiter,
		},
		circuit: newCircuitBreaker("metoffice"),
	}
}

func (p *MetOfficeProvider) Name() string {
	return p.name
}

type dataPointRep struct {
	Label         string `json:"$"`
	WindDirection string `json:"D"`
	GustDay       string `json:"Gn"`
	GustNight     string `json:"Gm"`
	HumidityDay   string `json:"Hn"`
	HumidityNight string `json:"Hm"`
	PrecipDay     string `json:"PPd"`
	PrecipNight   string `json:"PPn"`
	WindSpeed     string `json:"S"`
	Visibility    string `json:"V"`
	TempDayMax    string `json:"Dm"`
	TempNightMin  string `json:"Nm"`
	FeelsDayMax   string `json:"FDm"`
	FeelsNightMin string `json:"FNm"`
	WeatherType   string `json:"W"`
	UVIndex       string `json:"U"`
}

type dataPointPeriod struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Rep   []dataPointRep `json:"Rep"`
}

type dataPointForecast struct {
	SiteRep struct {
		DV struct {
			DataDate string `json:"dataDate"`
			Location struct {
				ID     string            `json:"i"`
				Name   string            `json:"name"`
				Period []dataPointPeriod `json:"Period"`
			} `json:"Location"`
		} `json:"DV"`
	} `json:"SiteRep"`
}

type dataPointSiteList struct {
	Locations struct {
		Location []struct {
			ID              string `json:"id"`
			Name            string `json:"name"`
			Region          string `json:"region"`
			UnitaryAuthArea string `json:"unitaryAuthArea"`
			Latitude        string `json:"latitude"`
			Longitude       string `json:"longitude"`
		} `json:"Location"`
	} `json:"Locations"`
}

// FetchForecast retrieves the five-day daily forecast for site id.
func (p *MetOfficeProvider) FetchForecast(ctx context.Context, id string) (weather.SiteForecast, error) {
	if p.apiKey == "" {
		return weather.SiteForecast{}, fmt.Errorf("%w: datapoint api key is not configured", weather.ErrProviderFetch)
	}

	var payload dataPointForecast
	if err := p.getJSON(ctx, url.PathEscape(id), &payload); err != nil {
		return weather.SiteForecast{}, fmt.Errorf("%w: forecast for site %s: %w", weather.ErrProviderFetch, id, err)
	}

	loc := payload.SiteRep.DV.Location
	days := make([]weather.DayForecast, 0, len(loc.Period))
	for _, period := range loc.Period {
		day, err := p.translatePeriod(period)
		if err != nil {
			return weather.SiteForecast{}, fmt.Errorf("%w: forecast for site %s: %w", weather.ErrProviderFetch, id, err)
		}
		days = append(days, day)
	}

	siteID := loc.ID
	if siteID == "" {
		siteID = id
	}
	return weather.SiteForecast{ID: siteID, Name: loc.Name, Days: days}, nil
}

// FetchSiteDirectory retrieves every site DataPoint publishes daily forecasts for.
func (p *MetOfficeProvider) FetchSiteDirectory(ctx context.Context) ([]weather.Site, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%w: datapoint api key is not configured", weather.ErrProviderFetch)
	}

	var payload dataPointSiteList
	if err := p.getJSON(ctx, "sitelist", &payload); err != nil {
		return nil, fmt.Errorf("%w: site list: %w", weather.ErrProviderFetch, err)
	}

	sites := make([]weather.Site, 0, len(payload.Locations.Location))
	for _, l := range payload.Locations.Location {
		lat, _ := strconv.ParseFloat(l.Latitude, 64)
		lon, _ := strconv.ParseFloat(l.Longitude, 64)
		sites = append(sites, weather.Site{
			ID:              l.ID,
			Name:            l.Name,
			Region:          l.Region,
			UnitaryAuthArea: l.UnitaryAuthArea,
			Latitude:        lat,
			Longitude:       lon,
		})
	}
	return sites, nil
}

func (p *MetOfficeProvider) getJSON(ctx context.Context, resource string, v any) error {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("res", "daily")
		values.Set("key", p.apiKey)

		u := fmt.Sprintf("%s/val/wxfcs/all/json/%s?%s", p.baseURL, resource, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// translatePeriod converts one DataPoint period into a domain DayForecast.
func (p *MetOfficeProvider) translatePeriod(period dataPointPeriod) (weather.DayForecast, error) {
	date, err := time.Parse("2006-01-02Z", period.Value)
	if err != nil {
		return weather.DayForecast{}, fmt.Errorf("period date %q: %w", period.Value, err)
	}

	var day, night *dataPointRep
	for i := range period.Rep {
		switch period.Rep[i].Label {
		case "Day":
			day = &period.Rep[i]
		case "Night":
			night = &period.Rep[i]
		}
	}
	if day == nil || night == nil {
		return weather.DayForecast{}, fmt.Errorf("period %s: missing day or night report", period.Value)
	}

	return weather.DayForecast{
		Date: time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, p.loc),
		Day: weather.Reading{
			Temperature:              atoi(day.TempDayMax),
			FeelsLike:                atoi(day.FeelsDayMax),
			WindSpeed:                atoi(day.WindSpeed),
			WindGust:                 atoi(day.GustDay),
			WindDirection:            day.WindDirection,
			Humidity:                 atoi(day.HumidityDay),
			PrecipitationProbability: atoi(day.PrecipDay),
			UVIndex:                  day.UVIndex,
			Visibility:               day.Visibility,
			WeatherType:              atoi(day.WeatherType),
		},
		Night: weather.Reading{
			Temperature:              atoi(night.TempNightMin),
			FeelsLike:                atoi(night.FeelsNightMin),
			WindSpeed:                atoi(night.WindSpeed),
			WindGust:                 atoi(night.GustNight),
			WindDirection:            night.WindDirection,
			Humidity:                 atoi(night.HumidityNight),
			PrecipitationProbability: atoi(night.PrecipNight),
			Visibility:               night.Visibility,
			WeatherType:              atoi(night.WeatherType),
		},
	}, nil
}

// atoi parses DataPoint's string-encoded integers; missing values read as zero.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

var (
	_ weather.ForecastProvider = (*MetOfficeProvider)(nil)
	_ weather.SiteDirectory    = (*MetOfficeProvider)(nil)
)
