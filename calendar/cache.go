package calendar

import (
	"context"
	"sync"
	"time"
)

// DefaultStaleness is how long a resolved range entry keeps serving
// repeat requests before the next fetch goes back to the store.
const DefaultStaleness = 30 * time.Second

// RequestCache maps an inclusive day span to an in-flight or completed
// fetch for one caller. It guarantees at most one concurrent resolution
// per distinct range key: concurrent callers for the same key await the
// same underlying fetch instead of issuing duplicates.
type RequestCache struct {
	resolver  *DayResolver
	caller    Identity
	staleness time.Duration
	clock     func() time.Time

	mu      sync.Mutex
	entries map[RangeKey]*cacheEntry
}

type cacheEntry struct {
	days      []Day
	done      chan struct{} // closed once the fetch settles
	events    []CalendarEvent
	err       error
	fetchedAt time.Time
}

// CacheConfig configures a RequestCache. Clock is injectable for tests.
type CacheConfig struct {
	Resolver  *DayResolver
	Caller    Identity
	Staleness time.Duration
	Clock     func() time.Time
}

func NewRequestCache(cfg CacheConfig) *RequestCache {
	staleness := cfg.Staleness
	if staleness <= 0 {
		staleness = DefaultStaleness
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &RequestCache{
		resolver:  cfg.Resolver,
		caller:    cfg.Caller,
		staleness: staleness,
		clock:     clock,
		entries:   make(map[RangeKey]*cacheEntry),
	}
}

// FetchRange resolves every day in the sequence and returns the events
// concatenated in ascending day order. A single day's failure fails the
// whole range with *AggregateFetchError; the failed entry is discarded,
// never cached, so the next request retries cleanly.
func (c *RequestCache) FetchRange(ctx context.Context, days []Day) ([]CalendarEvent, error) {
	if len(days) == 0 {
		return nil, nil
	}
	key := KeyForDays(days)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		select {
		case <-e.done:
			// Settled. A failed entry should not be in the map, but be
			// defensive about the window between close and delete.
			if e.err == nil && c.clock().Sub(e.fetchedAt) <= c.staleness {
				events := copyEvents(e.events)
				c.mu.Unlock()
				return events, nil
			}
			// Stale (or raced failure): fall through and refetch.
		default:
			// In flight: await the same fetch.
			c.mu.Unlock()
			return c.await(ctx, e)
		}
	}

	e := &cacheEntry{days: days, done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	c.resolve(ctx, key, e)
	return c.await(ctx, e)
}

// await blocks until the entry settles or ctx is cancelled.
func (c *RequestCache) await(ctx context.Context, e *cacheEntry) ([]CalendarEvent, error) {
	select {
	case <-e.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if e.err != nil {
		return nil, e.err
	}
	c.mu.Lock()
	events := copyEvents(e.events)
	c.mu.Unlock()
	return events, nil
}

// resolve runs one Day Resolver call per day concurrently, then
// concatenates the results in day order regardless of completion order.
func (c *RequestCache) resolve(ctx context.Context, key RangeKey, e *cacheEntry) {
	perDay := make([][]CalendarEvent, len(e.days))
	errs := make([]error, len(e.days))

	var wg sync.WaitGroup
	for i, day := range e.days {
		wg.Add(1)
		go func(i int, day Day) {
			defer wg.Done()
			perDay[i], errs[i] = c.resolver.ResolveDay(ctx, day, c.caller)
		}(i, day)
	}
	wg.Wait()

	var firstErr error
	for _, err := range errs {
		if err != nil {
			firstErr = err
			break
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if firstErr != nil {
		e.err = &AggregateFetchError{Key: key, Err: firstErr}
		// Do not poison the cache with a failed entry.
		if c.entries[key] == e {
			delete(c.entries, key)
		}
		close(e.done)
		return
	}

	var all []CalendarEvent
	for _, events := range perDay {
		all = append(all, events...)
	}
	e.events = all
	e.fetchedAt = c.clock()
	close(e.done)
}

// InvalidateRange drops the entry for key; the next request for that
// span goes back to the store.
func (c *RequestCache) InvalidateRange(key RangeKey) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateDay drops every cached range whose span includes day. The
// next fetch for an affected key re-queries all of its days, not just
// the invalidated one.
func (c *RequestCache) InvalidateDay(day Day) {
	c.mu.Lock()
	for key := range c.entries {
		if key.Spans(day) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

func copyEvents(events []CalendarEvent) []CalendarEvent {
	if events == nil {
		return nil
	}
	out := make([]CalendarEvent, len(events))
	copy(out, events)
	return out
}
