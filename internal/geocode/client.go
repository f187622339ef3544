// Package geocode provides best-effort reverse geocoding and POI name
// lookup against a Nominatim-compatible API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Result holds the fields the engine consumes from a reverse lookup
type Result struct {
	Address string // short human-readable address
	POIName string // named business/landmark at the point, if any
	POIType string
}

// Resolver performs a one-shot reverse lookup. Failures are expected and
// must be treated as "no label" by callers.
type Resolver interface {
	Lookup(ctx context.Context, lat, lon float64) (Result, error)
}

// Client is an HTTP reverse-geocoding client. Requests are paced to at
// most one per interval to respect the upstream usage policy.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client

	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

// NewClient creates a reverse-geocoding client. interval is the minimum
// spacing between requests (1s for the public Nominatim instance).
func NewClient(baseURL, userAgent string, interval time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		interval:   interval,
	}
}

// pace blocks until a request slot is available or the context ends
func (c *Client) pace(ctx context.Context) error {
	c.mu.Lock()
	wait := c.interval - time.Since(c.lastCall)
	if wait < 0 {
		wait = 0
	}
	c.lastCall = time.Now().Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type reverseResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Address     struct {
		Road    string `json:"road"`
		Suburb  string `json:"suburb"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
	} `json:"address"`
}

// Lookup reverse-geocodes a coordinate
func (c *Client) Lookup(ctx context.Context, lat, lon float64) (Result, error) {
	if c.baseURL == "" {
		return Result{}, fmt.Errorf("reverse geocoding not configured")
	}
	if err := c.pace(ctx); err != nil {
		return Result{}, err
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("build reverse request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("reverse request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("reverse lookup returned status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("decode reverse response: %w", err)
	}

	result := Result{
		Address: shortAddress(body),
		POIType: body.Type,
	}
	// Only treat named, non-address features as POIs
	if body.Name != "" && body.Category != "highway" && body.Category != "place" {
		result.POIName = body.Name
	}
	return result, nil
}

// shortAddress builds a compact "Road, City, State" string from the
// structured address, falling back to the display name.
func shortAddress(body reverseResponse) string {
	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	if city == "" {
		city = body.Address.Village
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{body.Address.Road, city, body.Address.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return body.DisplayName
	}

	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}
