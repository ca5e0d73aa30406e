package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPProbeReachable(t *testing.T) {
	var busters []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		busters = append(busters, r.URL.Query().Get("subins"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	probe := NewHTTPProbe(srv.Client(), srv.URL+"/icon.png")

	if !probe.Reachable(context.Background()) {
		t.Fatal("Expected probe to be reachable")
	}
	if !probe.Reachable(context.Background()) {
		t.Fatal("Expected probe to be reachable")
	}

	if len(busters) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(busters))
	}
	if busters[0] == "" || busters[0] == busters[1] {
		t.Errorf("Expected distinct cache busters, got %q", busters)
	}
}

func TestHTTPProbeUnreachable(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name  string
		probe *HTTPProbe
	}{
		{name: "error status", probe: NewHTTPProbe(failing.Client(), failing.URL)},
		{name: "connection refused", probe: NewHTTPProbe(http.DefaultClient, closedURL)},
		{name: "invalid url", probe: NewHTTPProbe(http.DefaultClient, "://nope")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.probe.Reachable(context.Background()) {
				t.Error("Expected probe to be unreachable")
			}
		})
	}
}

func TestNewHTTPProbeDefaultURL(t *testing.T) {
	probe := NewHTTPProbe(http.DefaultClient, "")
	if probe.url != DefaultProbeURL {
		t.Errorf("Expected default probe URL, got %q", probe.url)
	}
}
