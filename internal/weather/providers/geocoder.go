package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-favourites/internal/weather"
)

var errNoPlaceName = errors.New("no place name for coordinates")

// GoogleGeocoder resolves coordinates to a town name with the Google Geocoding API.
type GoogleGeocoder struct {
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogleGeocoder configures the geocoding client with apiKey.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{reverse: geocoder.GeocodingReverse}
}

// PlaceName returns the city of the first reverse geocoding result that has one.
func (g *GoogleGeocoder) PlaceName(ctx context.Context, latitude, longitude float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		addresses []geocoder.Address
		err       error
	}
	ch := make(chan result, 1)
	go func() {
		addrs, err := g.reverse(geocoder.Location{Latitude: latitude, Longitude: longitude})
		ch <- result{addrs, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-ch:
	}
	if res.err != nil {
		return "", res.err
	}

	for _, a := range res.addresses {
		if a.City != "" {
			return a.City, nil
		}
	}
	return "", fmt.Errorf("%w: %f,%f", errNoPlaceName, latitude, longitude)
}

var _ weather.Geocoder = (*GoogleGeocoder)(nil)
