package recommendation

import (
	"context"
	"strings"
	"time"

	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/NomadCrew/vacation-recommender/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultEnrichConcurrency = 4

// Geocoder resolves a place to coordinates. A nil result with a nil error
// means no match.
type Geocoder interface {
	Geocode(ctx context.Context, destination, country string) (*types.Coordinates, error)
}

// Enricher adds coordinates to a validated batch. Lookup failures only ever
// leave a record without coordinates.
type Enricher struct {
	geocoder    Geocoder
	concurrency int
	metrics     *Metrics
	log         *zap.SugaredLogger
}

func NewEnricher(geocoder Geocoder, concurrency int, metrics *Metrics) *Enricher {
	if concurrency <= 0 {
		concurrency = DefaultEnrichConcurrency
	}
	return &Enricher{
		geocoder:    geocoder,
		concurrency: concurrency,
		metrics:     metrics,
		log:         logger.GetLogger().Named("enricher"),
	}
}

// enabled reports whether lookups can succeed at all. Geocoders without an
// Enabled method are assumed usable.
func (e *Enricher) enabled() bool {
	if e == nil || e.geocoder == nil {
		return false
	}
	if g, ok := e.geocoder.(interface{ Enabled() bool }); ok {
		return g.Enabled()
	}
	return true
}

// Enrich sets Coordinates on each record it can resolve and returns how many
// were resolved. Each lookup writes only its own record.
func (e *Enricher) Enrich(ctx context.Context, recs []types.VacationRecommendation) int {
	if len(recs) == 0 {
		return 0
	}
	if !e.enabled() {
		for range recs {
			e.metrics.observeGeocode(GeocodeSkipped)
		}
		return 0
	}

	start := time.Now()
	found := make([]bool, len(recs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i := range recs {
		i := i
		rec := &recs[i]
		if strings.TrimSpace(rec.Destination) == "" {
			e.metrics.observeGeocode(GeocodeSkipped)
			continue
		}
		g.Go(func() error {
			coords, err := e.geocoder.Geocode(gctx, rec.Destination, rec.Country)
			switch {
			case err != nil:
				e.metrics.observeGeocode(GeocodeError)
				e.log.Warnw("Geocoding failed, leaving record without coordinates",
					"destination", rec.Destination,
					"country", rec.Country,
					"error", err)
			case coords == nil:
				e.metrics.observeGeocode(GeocodeMiss)
			default:
				e.metrics.observeGeocode(GeocodeHit)
				rec.Coordinates = coords
				found[i] = true
			}
			// Never abort sibling lookups.
			return nil
		})
	}
	_ = g.Wait()

	resolved := 0
	for _, ok := range found {
		if ok {
			resolved++
		}
	}
	e.metrics.observeEnrichment(time.Since(start))
	e.log.Debugw("Enrichment finished", "records", len(recs), "resolved", resolved)
	return resolved
}
