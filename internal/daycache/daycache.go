// Package daycache is a day-scoped memoization layer over the KV
// substrate: every entry is stamped with the local calendar day it was
// written on and expires at the next local midnight. The day stamp is
// the sole expiry mechanism; there is no sweep.
package daycache

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"chronicle/internal/providers"
	"chronicle/internal/store"
)

type entry struct {
	Data    json.RawMessage `json:"data"`
	DateKey string          `json:"dateKey"`
	Expiry  int64           `json:"expiry"` // epoch ms of next local midnight
}

type Cache struct {
	store   store.KVStore
	clock   providers.Clock
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func New(kv store.KVStore, clock providers.Clock, logger providers.Logger, metrics providers.MetricsProviderInterface) *Cache {
	return &Cache{
		store:   kv,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// DayKey renders the calendar day of t as "YYYY-M-D", without zero
// padding. Stable within a local day, changes exactly at midnight.
func DayKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

// NextMidnight returns the first local midnight strictly after t.
func NextMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}

// Today returns the day key of the injected clock's current moment.
func (c *Cache) Today() string {
	return DayKey(c.clock.Now())
}

// Get returns the payload stored under key if it was written today and
// has not passed its midnight expiry. Corrupt, expired, or foreign-day
// entries are evicted and reported as a miss; Get never fails.
func Get[T any](c *Cache, key string) (T, bool) {
	var zero T

	raw, ok := c.store.Get(key)
	if !ok {
		c.metrics.IncDayCacheMisses()
		return zero, false
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		c.logger.Warnf(providers.TypeApp, "Corrupt cache entry %q evicted: %s", key, err)
		c.store.Remove(key)
		c.metrics.IncDayCacheMisses()
		return zero, false
	}

	now := c.clock.Now()
	if now.UnixMilli() > e.Expiry || e.DateKey != DayKey(now) {
		c.store.Remove(key)
		c.metrics.IncDayCacheMisses()
		return zero, false
	}

	var value T
	if err := json.Unmarshal(e.Data, &value); err != nil {
		c.logger.Warnf(providers.TypeApp, "Corrupt cache payload %q evicted: %s", key, err)
		c.store.Remove(key)
		c.metrics.IncDayCacheMisses()
		return zero, false
	}

	c.metrics.IncDayCacheHits()
	return value, true
}

// Set writes value under key, stamped with today's day key and the next
// midnight expiry. Caching is best effort: marshal or substrate failures
// are logged and swallowed, never surfaced to the caller.
func Set[T any](c *Cache, key string, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warnf(providers.TypeApp, "Cache write %q skipped: %s", key, err)
		return
	}

	now := c.clock.Now()
	raw, err := json.Marshal(entry{
		Data:    data,
		DateKey: DayKey(now),
		Expiry:  NextMidnight(now).UnixMilli(),
	})
	if err != nil {
		c.logger.Warnf(providers.TypeApp, "Cache write %q skipped: %s", key, err)
		return
	}

	if err := c.store.Set(key, string(raw)); err != nil {
		c.logger.Warnf(providers.TypeApp, "Cache write %q failed: %s", key, err)
	}
}
