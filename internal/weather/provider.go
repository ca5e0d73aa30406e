package weather

import (
	"context"
)

// ForecastProvider retrieves the daily day/night forecast for a provider site id.
// Implementations wrap failures with ErrProviderFetch.
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, id string) (SiteForecast, error)
}

// SiteDirectory lists every site the provider can forecast for.
type SiteDirectory interface {
	FetchSiteDirectory(ctx context.Context) ([]Site, error)
}

// ConnectivityProbe reports whether the network is reachable. Callers await it
// before issuing any provider request.
type ConnectivityProbe interface {
	Reachable(ctx context.Context) bool
}

// Geocoder maps device coordinates to a place name that can be looked up in the
// site directory.
type Geocoder interface {
	PlaceName(ctx context.Context, latitude, longitude float64) (string, error)
}

// Store is the persistent key-value store holding serialized session state.
// Get returns store.ErrNotFound for a key that was never written.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Keys under which session state is persisted.
const (
	KeySettings       = "settings"
	KeyFavourites     = "favourites"
	KeyActiveLocation = "active_location"
)
