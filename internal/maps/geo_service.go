package maps

import (
	"context"
	"fmt"
	"log"

	"googlemaps.github.io/maps"
)

// GeoService canonicalizes free-form destination names through the Google
// Geocoding API ("tokio" -> "Tokyo, Japan"). It is strictly best-effort: a
// nil client or any lookup failure returns the input unchanged so the
// conversation never stalls on geocoding.
type GeoService struct {
	client *maps.Client
}

// NewGeoService creates a GeoService. An empty API key yields a pass-through
// service with no client.
func NewGeoService(apiKey string) (*GeoService, error) {
	if apiKey == "" {
		return &GeoService{}, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeoService{client: client}, nil
}

// Canonicalize resolves destination to the geocoder's formatted address.
func (s *GeoService) Canonicalize(ctx context.Context, destination string) string {
	if s == nil || s.client == nil || destination == "" {
		return destination
	}
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: destination})
	if err != nil || len(results) == 0 {
		if err != nil {
			log.Printf("maps: geocode %q failed: %v", destination, err)
		}
		return destination
	}

	// Prefer the locality/country pair over the raw formatted address to keep
	// summaries short.
	var locality, country string
	for _, comp := range results[0].AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "locality":
				locality = comp.LongName
			case "country":
				country = comp.LongName
			}
		}
	}
	switch {
	case locality != "" && country != "":
		return locality + ", " + country
	case country != "":
		return country
	case results[0].FormattedAddress != "":
		return results[0].FormattedAddress
	default:
		return destination
	}
}
