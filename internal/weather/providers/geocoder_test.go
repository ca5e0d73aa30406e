package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/kelvins/geocoder"
)

func TestGoogleGeocoderPlaceName(t *testing.T) {
	tests := []struct {
		name      string
		addresses []geocoder.Address
		err       error
		want      string
		wantErr   bool
	}{
		{
			name:      "first city wins",
			addresses: []geocoder.Address{{Street: "High Street"}, {City: "Paisley"}, {City: "Glasgow"}},
			want:      "Paisley",
		},
		{
			name:      "no city",
			addresses: []geocoder.Address{{Country: "United Kingdom"}},
			wantErr:   true,
		},
		{
			name:    "lookup failure",
			err:     errors.New("OVER_QUERY_LIMIT"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got geocoder.Location
			g := &GoogleGeocoder{reverse: func(loc geocoder.Location) ([]geocoder.Address, error) {
				got = loc
				return tt.addresses, tt.err
			}}

			name, err := g.PlaceName(context.Background(), 55.84, -4.42)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %q", name)
				}
				return
			}
			if err != nil {
				t.Fatalf("PlaceName returned error: %v", err)
			}
			if name != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, name)
			}
			if got.Latitude != 55.84 || got.Longitude != -4.42 {
				t.Errorf("Unexpected coordinates %+v", got)
			}
		})
	}
}

func TestGoogleGeocoderCanceled(t *testing.T) {
	g := &GoogleGeocoder{reverse: func(geocoder.Location) ([]geocoder.Address, error) {
		t.Fatal("reverse lookup should not run")
		return nil, nil
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.PlaceName(ctx, 0, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
