// Package location supplies best-effort coordinates for trip events.
// Fixes are acquired under strict constraints: bounded latency, no user
// interaction, and graceful absence when nothing is available.
package location

import (
	"context"
	"sync"
	"time"
)

// Fix origins, ordered by decreasing staleness
const (
	OriginLastKnown   = "last_known"
	OriginLowPowerFix = "low_power_fix"
)

// Fix is the outcome of a best-effort acquisition attempt
type Fix struct {
	OK        bool
	Latitude  float64
	Longitude float64
	Address   string
	Origin    string
	Err       error
}

// Source acquires a best-effort fix. Implementations must honor the
// context deadline and never block for more than a few seconds.
type Source interface {
	AcquireBestEffort(ctx context.Context) Fix
}

// CachedSource serves the most recent fix reported by a device through
// the ingest API. Reports expire after maxAge.
type CachedSource struct {
	maxAge time.Duration

	mu         sync.Mutex
	last       Fix
	reportedAt time.Time
}

// NewCachedSource creates a cached source with the given report lifetime
func NewCachedSource(maxAge time.Duration) *CachedSource {
	return &CachedSource{maxAge: maxAge}
}

// Report stores a device-reported fix as the current last-known location
func (s *CachedSource) Report(lat, lon float64, address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = Fix{
		OK:        true,
		Latitude:  lat,
		Longitude: lon,
		Address:   address,
		Origin:    OriginLastKnown,
	}
	s.reportedAt = time.Now()
}

// AcquireBestEffort returns the cached fix if one is fresh enough
func (s *CachedSource) AcquireBestEffort(ctx context.Context) Fix {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.last.OK || time.Since(s.reportedAt) > s.maxAge {
		return Fix{OK: false}
	}
	return s.last
}

// TieredSource tries each source in order and returns the first
// successful fix. A failure at every tier degrades to "no location".
type TieredSource struct {
	tiers []Source
}

// NewTieredSource creates a source falling through the given tiers
func NewTieredSource(tiers ...Source) *TieredSource {
	return &TieredSource{tiers: tiers}
}

// AcquireBestEffort walks the tiers until a fix succeeds
func (s *TieredSource) AcquireBestEffort(ctx context.Context) Fix {
	var last Fix
	for _, tier := range s.tiers {
		if ctx.Err() != nil {
			last.Err = ctx.Err()
			return last
		}
		fix := tier.AcquireBestEffort(ctx)
		if fix.OK {
			return fix
		}
		last = fix
	}
	return last
}
