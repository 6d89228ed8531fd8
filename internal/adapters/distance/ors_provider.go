package distance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"showing-route-service/internal/domain"
	"showing-route-service/internal/platform/obs"
	"showing-route-service/internal/ports"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"
)

// ORSProvider implements Geocoder and DistanceMatrixProvider using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Persistent distance caching
//   - External API calls with retry/backoff behind a circuit breaker
//
// Unresolvable addresses and unroutable pairs are reported (nil coordinates,
// domain.Unknown cells), never estimated. The provider is safe for concurrent use.
type ORSProvider struct {
	httpClient    *http.Client
	breaker       *gobreaker.CircuitBreaker[*http.Response]
	apiKey        string
	baseURL       string
	profile       string
	country       string
	maxRetries    uint64
	retryInterval time.Duration
	rowWorkers    int
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
	logger        zerolog.Logger
}

type ORSOption func(*ORSProvider)

func WithBaseURL(u string) ORSOption { return func(o *ORSProvider) { o.baseURL = strings.TrimRight(u, "/") } }

func WithCountry(c string) ORSOption { return func(o *ORSProvider) { o.country = c } }

func WithLogger(l zerolog.Logger) ORSOption { return func(o *ORSProvider) { o.logger = l } }

// WithRetry sets the retry budget and the initial backoff interval.
func WithRetry(maxRetries uint64, initial time.Duration) ORSOption {
	return func(o *ORSProvider) {
		o.maxRetries = maxRetries
		o.retryInterval = initial
	}
}

func NewORSProvider(
	apiKey string,
	distanceCache ports.DistanceCache,
	geocodeCache ports.GeocodeCache,
	opts ...ORSOption,
) (*ORSProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSProvider{
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		apiKey:        apiKey,
		baseURL:       "https://api.openrouteservice.org",
		profile:       "driving-car",
		country:       "US",
		maxRetries:    3,
		retryInterval: 200 * time.Millisecond,
		rowWorkers:    5,
		distanceCache: distanceCache,
		geocodeCache:  geocodeCache,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(provider)
	}
	provider.breaker = newBreaker("ors", provider.logger)

	return provider, nil
}

// Geocode resolves addresses in input order. Addresses ORS cannot place get
// a nil Coordinates; only transport or decoding failures return an error.
func (o *ORSProvider) Geocode(ctx context.Context, addresses []string) (_ []ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := make([]string, len(addresses))
	for i, a := range addresses {
		norm[i] = domain.NormalizeAddress(a)
	}

	hits := make(map[string]domain.Coordinates)
	// Resolve coordinates via cache before calling ORS geocoding.
	if o.geocodeCache != nil {
		hits, err = o.geocodeCache.GetMany(ctx, norm)
		if err != nil {
			return nil, fmt.Errorf("ORS get geocode cache: %w", err)
		}
	}

	fresh := make(map[string]domain.Coordinates)
	unresolved := make(map[string]struct{})
	for _, a := range norm {
		if a == "" {
			continue
		}
		if _, ok := hits[a]; ok {
			continue
		}
		if _, ok := fresh[a]; ok {
			continue
		}
		if _, ok := unresolved[a]; ok {
			continue
		}

		c, err := o.geocodeOne(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("geocode %q: %w", a, err)
		}
		if c == nil {
			unresolved[a] = struct{}{}
			continue
		}
		fresh[a] = *c
	}

	if o.geocodeCache != nil && len(fresh) > 0 {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			o.logger.Warn().Err(err).Msg("geocode cache write failed")
		}
	}

	out := make([]ports.GeocodeResult, len(addresses))
	for i, a := range norm {
		out[i].Address = addresses[i]
		if c, ok := hits[a]; ok {
			c := c
			out[i].Coordinates = &c
		} else if c, ok := fresh[a]; ok {
			c := c
			out[i].Coordinates = &c
		}
	}

	return out, nil
}

// DistanceMatrix returns travel durations (minutes, rounded up) and distances
// for every origin/destination pair. One ORS matrix row is fetched per origin
// for cache misses; rows are fetched concurrently.
func (o *ORSProvider) DistanceMatrix(
	ctx context.Context,
	origins []domain.Coordinates,
	destinations []domain.Coordinates,
) (_ domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "ors.DistanceMatrix")(&err)

	m := domain.DistanceMatrix{
		Durations: make([][]int, len(origins)),
		Distances: make([][]int, len(origins)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.rowWorkers)
	for i, origin := range origins {
		i, origin := i, origin
		g.Go(func() error {
			durations, distances, err := o.matrixRow(gctx, origin, destinations)
			if err != nil {
				return fmt.Errorf("matrix row for origin %d: %w", i, err)
			}
			m.Durations[i] = durations
			m.Distances[i] = distances
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.DistanceMatrix{}, err
	}

	return m, nil
}

func (o *ORSProvider) matrixRow(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) ([]int, []int, error) {
	originKey := origin.Key()

	durations := make([]int, len(destinations))
	distances := make([]int, len(destinations))
	keys := make([]string, len(destinations))
	for j, d := range destinations {
		keys[j] = d.Key()
		durations[j] = domain.Unknown
		distances[j] = domain.Unknown
		if keys[j] == originKey {
			durations[j] = 0
			distances[j] = 0
		}
	}

	seen := make(map[string]struct{}, len(destinations))
	destList := make([]string, 0, len(destinations))
	destCoords := make(map[string]domain.Coordinates, len(destinations))
	for j, k := range keys {
		if k == originKey {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		destList = append(destList, k)
		destCoords[k] = destinations[j]
	}

	results := make(map[string]ports.DistanceResult, len(destList))
	// Check persistent distance cache before issuing external API calls.
	if o.distanceCache != nil && len(destList) > 0 {
		hits, err := o.distanceCache.GetMany(ctx, originKey, destList)
		if err != nil {
			return nil, nil, fmt.Errorf("ORS get distance cache: %w", err)
		}
		for k, v := range hits {
			results[k] = v
		}
	}

	misses := make([]string, 0, len(destList))
	missCoords := make([]domain.Coordinates, 0, len(destList))
	for _, k := range destList {
		if _, ok := results[k]; !ok {
			misses = append(misses, k)
			missCoords = append(missCoords, destCoords[k])
		}
	}

	if len(misses) > 0 {
		fetched, err := o.fetchMatrixRow(ctx, origin, missCoords)
		if err != nil {
			return nil, nil, fmt.Errorf("fetching matrix row: %w", err)
		}

		resolved := make(map[string]ports.DistanceResult, len(misses))
		for i, k := range misses {
			if fetched[i] == nil {
				continue
			}
			resolved[k] = *fetched[i]
			results[k] = *fetched[i]
		}

		if len(resolved) < len(misses) {
			o.logger.Warn().
				Str("origin", originKey).
				Int("unroutable", len(misses)-len(resolved)).
				Msg("ORS matrix returned null cells")
		}

		if o.distanceCache != nil && len(resolved) > 0 {
			if err := o.distanceCache.PutMany(ctx, originKey, resolved); err != nil {
				o.logger.Warn().Err(err).Msg("distance cache write failed")
			}
		}
	}

	for j, k := range keys {
		if r, ok := results[k]; ok {
			durations[j] = secondsToMinutes(r.DurationSeconds)
			distances[j] = r.DistanceMeters
		}
	}

	return durations, distances, nil
}

// secondsToMinutes rounds up so a leg never looks shorter than it is.
func secondsToMinutes(s int) int {
	return (s + 59) / 60
}
