package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newGeocodeServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const poiBody = `{
	"name": "Roaring Rapids Pizza",
	"display_name": "Roaring Rapids Pizza, Franklin Blvd, Glenwood, Oregon, United States",
	"type": "restaurant",
	"category": "amenity",
	"address": {"road": "Franklin Blvd", "town": "Glenwood", "state": "Oregon"}
}`

func TestLookupPacesConsecutiveRequests(t *testing.T) {
	srv := newGeocodeServer(t, poiBody)
	interval := 150 * time.Millisecond
	c := NewClient(srv.URL, "test-agent", interval)
	ctx := context.Background()

	start := time.Now()
	if _, err := c.Lookup(ctx, 44.0, -123.0); err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	if _, err := c.Lookup(ctx, 44.0, -123.0); err != nil {
		t.Fatalf("second lookup: %v", err)
	}

	if elapsed := time.Since(start); elapsed < interval {
		t.Errorf("two lookups finished in %v, want at least %v between requests", elapsed, interval)
	}
}

func TestPaceHonorsContextCancellation(t *testing.T) {
	srv := newGeocodeServer(t, poiBody)
	c := NewClient(srv.URL, "test-agent", time.Minute)

	if _, err := c.Lookup(context.Background(), 44.0, -123.0); err != nil {
		t.Fatalf("first lookup: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Lookup(ctx, 44.0, -123.0); err == nil {
		t.Error("expected context error while waiting for a request slot")
	}
}

func TestLookupParsesPOIAndShortAddress(t *testing.T) {
	srv := newGeocodeServer(t, poiBody)
	c := NewClient(srv.URL, "test-agent", 0)

	result, err := c.Lookup(context.Background(), 44.0, -123.0)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if result.POIName != "Roaring Rapids Pizza" {
		t.Errorf("poi = %q, want Roaring Rapids Pizza", result.POIName)
	}
	if want := "Franklin Blvd, Glenwood, Oregon"; result.Address != want {
		t.Errorf("address = %q, want %q", result.Address, want)
	}
}

func TestLookupIgnoresUnnamedFeatures(t *testing.T) {
	srv := newGeocodeServer(t, `{
		"name": "Main Street",
		"display_name": "Main Street, Springfield",
		"type": "residential",
		"category": "highway",
		"address": {"road": "Main Street", "city": "Springfield"}
	}`)
	c := NewClient(srv.URL, "test-agent", 0)

	result, err := c.Lookup(context.Background(), 44.0, -123.0)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if result.POIName != "" {
		t.Errorf("poi = %q, want empty for highway features", result.POIName)
	}
}
