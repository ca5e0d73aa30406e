package providers

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/i474232898/weather-favourites/internal/weather"
)

// DefaultProbeURL is a small static resource fetched to test connectivity.
const DefaultProbeURL = "http://static.bbci.co.uk/weather/0.5.362/images/icons/tab_sprites/80px/10.png"

// HTTPProbe checks connectivity by fetching a small resource with a cache-busting
// query parameter so intermediaries cannot answer from cache.
type HTTPProbe struct {
	client *http.Client
	url    string
}

func NewHTTPProbe(client *http.Client, probeURL string) *HTTPProbe {
	if probeURL == "" {
		probeURL = DefaultProbeURL
	}
	return &HTTPProbe{client: client, url: probeURL}
}

// Reachable reports whether the probe resource answered with a 2xx status.
func (p *HTTPProbe) Reachable(ctx context.Context) bool {
	u, err := url.Parse(p.url)
	if err != nil {
		return false
	}
	q := u.Query()
	q.Set("subins", uuid.NewString())
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

var _ weather.ConnectivityProbe = (*HTTPProbe)(nil)
