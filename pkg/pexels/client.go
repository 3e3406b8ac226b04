package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NomadCrew/vacation-recommender/logger"
)

const DefaultBaseURL = "https://api.pexels.com/v1"

// ClientInterface defines the interface for Pexels client operations
type ClientInterface interface {
	SearchDestinationImage(ctx context.Context, query string) (string, error)
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type SearchResponse struct {
	Photos []Photo `json:"photos"`
}

type Photo struct {
	ID     int    `json:"id"`
	Source Source `json:"src"`
}

type Source struct {
	Landscape string `json:"landscape"`
}

func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, DefaultBaseURL)
}

// NewClientWithBaseURL points the client at an alternate API root.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// BuildSearchQuery joins a destination and country into a landscape photo query.
func BuildSearchQuery(destination, country string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{destination, country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(append(parts, "landscape"), " ")
}

// SearchDestinationImage returns the landscape URL of the first matching photo,
// or "" when the key is unset or nothing matches.
func (c *Client) SearchDestinationImage(ctx context.Context, query string) (string, error) {
	log := logger.GetLogger()

	if c.apiKey == "" || strings.TrimSpace(query) == "" {
		return "", nil
	}

	params := url.Values{}
	params.Add("query", query)
	params.Add("per_page", "1")
	params.Add("orientation", "landscape")

	finalURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	log.Debugw("Starting Pexels image search", "query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorw("Failed to execute Pexels HTTP request", "error", err)
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnw("Pexels API returned non-OK status", "statusCode", resp.StatusCode)
		return "", fmt.Errorf("pexels API returned status: %d", resp.StatusCode)
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(searchResp.Photos) == 0 {
		log.Debugw("No photos found in Pexels response", "query", query)
		return "", nil
	}

	return searchResp.Photos[0].Source.Landscape, nil
}
