package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"showing-route-service/internal/domain"
	"showing-route-service/internal/ports"
)

type GeocodeSeed struct {
	Address string  `json:"address"`
	Lon     float64 `json:"lng"`
	Lat     float64 `json:"lat"`
}

// SeedGeocodesFromJSON pre-warms a geocode cache from a JSON array of
// {address, lng, lat} objects. Addresses are normalized before storing.
func SeedGeocodesFromJSON(ctx context.Context, c ports.GeocodeCache, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed geocodes: read %q: %w", jsonPath, err)
	}

	var data []GeocodeSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed geocodes: parse json: %w", err)
	}

	results := make(map[string]domain.Coordinates, len(data))
	for i, item := range data {
		addr := domain.NormalizeAddress(item.Address)
		if addr == "" {
			return 0, fmt.Errorf("seed geocodes: item at index %d: address cannot be empty", i+1)
		}
		if item.Lat < -90 || item.Lat > 90 || item.Lon < -180 || item.Lon > 180 {
			return 0, fmt.Errorf("seed geocodes: item at index %d: coordinates out of range", i+1)
		}
		results[addr] = domain.Coordinates{Lon: item.Lon, Lat: item.Lat}
	}

	if err := c.PutMany(ctx, results); err != nil {
		return 0, fmt.Errorf("seed geocodes: %w", err)
	}

	return len(results), nil
}
