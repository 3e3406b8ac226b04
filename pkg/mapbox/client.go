// Package mapbox wraps the Mapbox forward geocoding endpoint used to place
// recommended destinations on a map.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/NomadCrew/vacation-recommender/errors"
	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/NomadCrew/vacation-recommender/pkg/valueobjects"
	"github.com/NomadCrew/vacation-recommender/types"
	"golang.org/x/time/rate"
)

const (
	serviceName = "mapbox"

	DefaultBaseURL = "https://api.mapbox.com"

	// PlaceholderToken ships in example env files and never authenticates.
	PlaceholderToken = "your_mapbox_secret_token_here"

	placeTypes = "place,locality,district"
)

// ClientInterface resolves a destination name to coordinates. A nil result
// with a nil error means no match.
type ClientInterface interface {
	Geocode(ctx context.Context, destination, country string) (*types.Coordinates, error)
}

type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type geocodeResponse struct {
	Features []feature `json:"features"`
}

type feature struct {
	PlaceName string    `json:"place_name"`
	Center    []float64 `json:"center"`
}

// NewClient builds a geocoding client. requestsPerSecond bounds the outbound
// call rate across all callers sharing the client; zero disables throttling.
func NewClient(token, baseURL string, timeout time.Duration, requestsPerSecond float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// Enabled reports whether the client holds a usable token.
func (c *Client) Enabled() bool {
	return c.token != "" && c.token != PlaceholderToken
}

// Geocode looks up "destination, country" and returns the first feature's
// center. Without a usable token it returns (nil, nil) and makes no request.
func (c *Client) Geocode(ctx context.Context, destination, country string) (*types.Coordinates, error) {
	log := logger.GetLogger()

	if !c.Enabled() {
		log.Debugw("Geocoding skipped, no access token configured", "destination", destination)
		return nil, nil
	}

	query := strings.TrimSpace(destination)
	if country = strings.TrimSpace(country); country != "" {
		query = fmt.Sprintf("%s, %s", query, country)
	}
	if query == "" {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.Timeout(serviceName, err)
	}

	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("limit", "1")
	params.Set("types", placeTypes)

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		c.baseURL, url.PathEscape(query), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.UpstreamFailure(serviceName, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warnw("Geocoding request failed", "query", query, "error", err)
		return nil, apperrors.UpstreamFailure(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Warnw("Geocoding API returned non-OK status", "query", query, "statusCode", resp.StatusCode)
		return nil, apperrors.Upstream(serviceName, resp.StatusCode, string(body))
	}

	var parsed geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperrors.UpstreamFailure(serviceName, fmt.Errorf("failed to decode response: %w", err))
	}

	if len(parsed.Features) == 0 {
		log.Debugw("No geocoding match", "query", query)
		return nil, nil
	}

	point, err := valueobjects.NewGeoPointFromLonLat(parsed.Features[0].Center)
	if err != nil {
		log.Warnw("Geocoding returned unusable center", "query", query, "center", parsed.Features[0].Center)
		return nil, nil
	}

	log.Debugw("Geocoded destination", "query", query, "place", parsed.Features[0].PlaceName, "point", point.String())
	return point.ToCoordinates(), nil
}
