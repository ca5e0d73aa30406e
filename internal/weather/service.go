package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/i474232898/weather-favourites/internal/common"
	"github.com/i474232898/weather-favourites/internal/store"
)

// maxSearchResults caps SearchSites.
const maxSearchResults = 20

// Dependencies are the collaborators a Service talks to. Probe and Geocoder are optional:
// without a probe the network is assumed reachable, without a geocoder Locate fails.
type Dependencies struct {
	Store     Store
	Forecasts ForecastProvider
	Sites     SiteDirectory
	Probe     ConnectivityProbe
	Geocoder  Geocoder
	Logger    *slog.Logger

	// Now returns the current time in the user's time zone. Defaults to time.Now.
	Now func() time.Time

	// DefaultSiteID is the site loaded on first run.
	DefaultSiteID string
}

// Service owns the session of a single user and serialises every operation on it.
// Each mutation validates and computes the new state, persists it, and only then
// replaces the in-memory session, so a failed operation leaves both unchanged.
type Service struct {
	mu sync.Mutex

	deps    Dependencies
	logger  *slog.Logger
	session Session

	// directory is the provider site list, fetched once.
	directory []Site
}

// NewService creates a new Service. Call Start before serving requests.
func NewService(deps Dependencies) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		deps:   deps,
		logger: logger,
		session: Session{
			Settings:   DefaultSettings(),
			Favourites: []LocationRecord{},
		},
	}
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.deps.Now()
}

// Start loads persisted state. On first run it writes default settings and an empty
// favourites list and fetches the default site. When UpdateOnOpen is set the stored
// forecast is refreshed; a failed refresh is logged and the stored forecast kept.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := DefaultSettings()
	found, err := s.load(ctx, KeySettings, &settings)
	if err != nil {
		return err
	}
	if !found {
		s.logger.Info("no saved settings; writing defaults")
		if err := s.save(ctx, KeySettings, settings); err != nil {
			return err
		}
	}
	s.session.Settings = settings

	favourites := []LocationRecord{}
	found, err = s.load(ctx, KeyFavourites, &favourites)
	if err != nil {
		return err
	}
	if !found {
		if err := s.save(ctx, KeyFavourites, favourites); err != nil {
			return err
		}
	}
	s.session.Favourites = favourites

	var current LocationRecord
	found, err = s.load(ctx, KeyActiveLocation, &current)
	if err != nil {
		return err
	}

	if !found || current.IsZero() {
		s.logger.Info("first run; loading default site", "site", s.deps.DefaultSiteID)
		if s.deps.DefaultSiteID != "" {
			if err := s.checkConnectivity(ctx); err != nil {
				s.logger.Warn("could not load default site", "site", s.deps.DefaultSiteID, "error", err)
			} else if err := s.changeLocationByID(ctx, s.deps.DefaultSiteID); err != nil {
				s.logger.Warn("could not load default site", "site", s.deps.DefaultSiteID, "error", err)
			}
		}
		return nil
	}

	s.logger.Info("loaded stored location", "name", current.DisplayName, "id", current.ProviderID)
	s.session.Current = current
	s.resetSelectedDay()

	if settings.UpdateOnOpen {
		if err := s.refresh(ctx); err != nil {
			s.logger.Warn("update on open failed", "error", err)
		}
	}
	return nil
}

// Snapshot returns a copy of the session.
func (s *Service) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.session
	snap.Current = s.session.Current.Clone()
	snap.Favourites = make([]LocationRecord, len(s.session.Favourites))
	for i, f := range s.session.Favourites {
		snap.Favourites[i] = f.Clone()
	}
	return snap
}

// LoadSites fetches the provider site directory and caches it.
func (s *Service) LoadSites(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadSites(ctx)
}

func (s *Service) loadSites(ctx context.Context) error {
	if s.deps.Sites == nil {
		return fmt.Errorf("%w: no site directory configured", ErrProviderFetch)
	}
	sites, err := s.deps.Sites.FetchSiteDirectory(ctx)
	if err != nil {
		return err
	}
	s.directory = sites
	s.logger.Info("site directory loaded", "sites", len(sites))
	return nil
}

// HasSites reports whether the site directory has been loaded.
func (s *Service) HasSites() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.directory) > 0
}

// SearchSites returns cached sites whose name starts with query, ignoring case.
func (s *Service) SearchSites(query string) []Site {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Site{}
	for _, site := range s.directory {
		if common.HasPrefixFold(site.Name, query) {
			out = append(out, site)
			if len(out) == maxSearchResults {
				break
			}
		}
	}
	return out
}

// ChangeLocationByName makes the site with exactly this name the current location.
func (s *Service) ChangeLocationByName(ctx context.Context, name string) (LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkConnectivity(ctx); err != nil {
		return LocationRecord{}, err
	}
	if err := s.changeLocationByName(ctx, name); err != nil {
		return LocationRecord{}, err
	}
	return s.session.Current.Clone(), nil
}

func (s *Service) changeLocationByName(ctx context.Context, name string) error {
	if len(s.directory) == 0 {
		if err := s.loadSites(ctx); err != nil {
			return err
		}
	}

	var found *Site
	for i := range s.directory {
		if s.directory[i].Name == name {
			found = &s.directory[i]
			break
		}
	}
	if found == nil {
		s.logger.Info("no site matched", "name", name)
		return fmt.Errorf("%w: %s", ErrLocationNotFound, name)
	}

	s.logger.Debug("matched site", "name", found.Name, "id", found.ID)
	return s.changeLocationByID(ctx, found.ID)
}

// ChangeLocationByID fetches the forecast for a provider site and makes it current.
func (s *Service) ChangeLocationByID(ctx context.Context, id string) (LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkConnectivity(ctx); err != nil {
		return LocationRecord{}, err
	}
	if err := s.changeLocationByID(ctx, id); err != nil {
		return LocationRecord{}, err
	}
	return s.session.Current.Clone(), nil
}

func (s *Service) changeLocationByID(ctx context.Context, id string) error {
	fc, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}

	name := common.CapitaliseName(fc.Name)
	rec := LocationRecord{
		DisplayName:   name,
		FavouriteName: name,
		ProviderID:    id,
		ForecastDays:  fc.Days,
	}
	if err := s.save(ctx, KeyActiveLocation, rec); err != nil {
		return err
	}

	s.session.Current = rec
	s.resetSelectedDay()
	s.logger.Info("location changed", "name", name, "id", id)
	return nil
}

// Locate reverse geocodes the coordinates and changes to the site of that name.
func (s *Service) Locate(ctx context.Context, latitude, longitude float64) (LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deps.Geocoder == nil {
		return LocationRecord{}, fmt.Errorf("%w: no geocoder configured", ErrProviderFetch)
	}
	if err := s.checkConnectivity(ctx); err != nil {
		return LocationRecord{}, err
	}

	name, err := s.deps.Geocoder.PlaceName(ctx, latitude, longitude)
	if err != nil {
		return LocationRecord{}, fmt.Errorf("%w: reverse geocode: %w", ErrProviderFetch, err)
	}
	s.logger.Debug("reverse geocoded", "latitude", latitude, "longitude", longitude, "name", name)

	if err := s.changeLocationByName(ctx, name); err != nil {
		return LocationRecord{}, err
	}
	return s.session.Current.Clone(), nil
}

// Refresh replaces the current forecast with a live one.
func (s *Service) Refresh(ctx context.Context) (LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return LocationRecord{}, err
	}
	return s.session.Current.Clone(), nil
}

func (s *Service) refresh(ctx context.Context) error {
	if s.session.Current.IsZero() {
		return ErrNoActiveLocation
	}
	if err := s.checkConnectivity(ctx); err != nil {
		return err
	}

	fc, err := s.fetch(ctx, s.session.Current.ProviderID)
	if err != nil {
		return err
	}

	rec := s.session.Current.Clone()
	rec.ForecastDays = fc.Days
	if err := s.save(ctx, KeyActiveLocation, rec); err != nil {
		return err
	}

	s.session.Current = rec
	s.resetSelectedDay()
	s.logger.Info("forecast updated", "name", rec.DisplayName, "days", len(rec.ForecastDays))
	return nil
}

// AddFavourite saves the current location under alias.
func (s *Service) AddFavourite(ctx context.Context, alias string) ([]LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := AddFavourite(s.session.Current, s.session.Favourites, alias)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, KeyFavourites, favs); err != nil {
		return nil, err
	}

	s.session.Favourites = favs
	s.logger.Info("favourite added", "alias", favs[len(favs)-1].FavouriteName, "id", s.session.Current.ProviderID)
	return cloneRecords(favs), nil
}

// RemoveFavourite deletes the favourite at index.
func (s *Service) RemoveFavourite(ctx context.Context, index int) ([]LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := RemoveFavourite(index, s.session.Favourites)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, KeyFavourites, favs); err != nil {
		return nil, err
	}

	s.session.Favourites = favs
	s.logger.Info("favourite removed", "index", index)
	return cloneRecords(favs), nil
}

// SelectFavourite makes the favourite at index the current location. A live forecast
// is preferred; when the network is unreachable or the provider fails, the favourite's
// cached forecast is used and the outcome reports Live == false with the cause.
func (s *Service) SelectFavourite(ctx context.Context, index int) (SelectionOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := SelectFavourite(index, s.session.Favourites, s.session.Current)
	if err != nil {
		return SelectionOutcome{}, err
	}

	outcome := SelectionOutcome{}
	favs := s.session.Favourites

	if err := s.checkConnectivity(ctx); err != nil {
		outcome.Cause = err
	} else if fc, err := s.fetch(ctx, next.ProviderID); err != nil {
		outcome.Cause = err
	} else {
		next.ForecastDays = fc.Days
		outcome.Live = true

		favs = cloneRecords(s.session.Favourites)
		favs[index].ForecastDays = append([]DayForecast(nil), fc.Days...)
	}

	if err := s.save(ctx, KeyActiveLocation, next); err != nil {
		return SelectionOutcome{}, err
	}
	if outcome.Live {
		if err := s.save(ctx, KeyFavourites, favs); err != nil {
			if rbErr := s.save(ctx, KeyActiveLocation, s.session.Current); rbErr != nil {
				s.logger.Error("could not restore active location", "error", rbErr)
				return SelectionOutcome{}, errors.Join(err, rbErr)
			}
			return SelectionOutcome{}, err
		}
	}

	s.session.Favourites = favs
	s.session.Current = next
	s.resetSelectedDay()

	if outcome.Live {
		s.logger.Info("favourite selected", "label", next.Label())
	} else {
		s.logger.Warn("favourite selected with cached forecast", "label", next.Label(), "error", outcome.Cause)
	}

	outcome.Location = next.Clone()
	return outcome, nil
}

// SetSetting sets the named flag and persists the settings.
func (s *Service) SetSetting(ctx context.Context, name string, value bool) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setSetting(ctx, name, value)
}

// ToggleSetting inverts the named flag and persists the settings.
func (s *Service) ToggleSetting(ctx context.Context, name string) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.session.Settings.Get(name)
	if err != nil {
		return s.session.Settings, err
	}
	return s.setSetting(ctx, name, !v)
}

func (s *Service) setSetting(ctx context.Context, name string, value bool) (Settings, error) {
	next, err := s.session.Settings.Set(name, value)
	if err != nil {
		return s.session.Settings, err
	}
	if err := s.save(ctx, KeySettings, next); err != nil {
		return s.session.Settings, err
	}

	s.session.Settings = next
	s.logger.Info("setting changed", "name", name, "value", value)
	return next, nil
}

// SelectDay chooses which forecast day is displayed.
func (s *Service) SelectDay(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Current.IsZero() {
		return ErrNoActiveLocation
	}
	if n := len(s.session.Current.ForecastDays); index < 0 || index >= n {
		return &IndexError{Index: index, Len: n}
	}
	s.session.SelectedDay = index
	return nil
}

// SetNight switches between the day and night halves of the forecast.
func (s *Service) SetNight(night bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Night = night
}

// Rollover re-evaluates freshness against now, moving the selected day to the first
// day that is not stale. It returns the stale day count.
func (s *Service) Rollover(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	stale := StaleDayCount(s.session.Current.ForecastDays, now)
	s.session.SelectedDay = DefaultSelectedDay(s.session.Current.ForecastDays, now)
	if stale > 0 {
		s.logger.Info("forecast out of date", "name", s.session.Current.DisplayName, "staleDays", stale)
	}
	return stale
}

func (s *Service) resetSelectedDay() {
	s.session.SelectedDay = DefaultSelectedDay(s.session.Current.ForecastDays, s.deps.Now())
}

func (s *Service) checkConnectivity(ctx context.Context) error {
	if s.deps.Probe == nil {
		return nil
	}
	if !s.deps.Probe.Reachable(ctx) {
		s.logger.Info("no internet connection detected")
		return ErrConnectivity
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, id string) (SiteForecast, error) {
	if s.deps.Forecasts == nil {
		return SiteForecast{}, fmt.Errorf("%w: no forecast provider configured", ErrProviderFetch)
	}
	fc, err := s.deps.Forecasts.FetchForecast(ctx, id)
	if err != nil {
		s.logger.Error("forecast fetch failed", "provider", s.deps.Forecasts.Name(), "id", id, "error", err)
		if !errors.Is(err, ErrProviderFetch) {
			err = fmt.Errorf("%w: %w", ErrProviderFetch, err)
		}
		return SiteForecast{}, err
	}
	return fc, nil
}

func (s *Service) load(ctx context.Context, key string, v any) (bool, error) {
	data, err := s.deps.Store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Service) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.deps.Store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func cloneRecords(in []LocationRecord) []LocationRecord {
	out := make([]LocationRecord, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
