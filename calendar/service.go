package calendar

import (
	"context"
	"sync"
	"time"
)

// Service is the seam the HTTP layer talks to. It owns one resolver
// over the injected JobSource and keeps an independent StableView (and
// request cache) per authenticated caller, so visibility filtering
// never crosses callers through the cache.
type Service struct {
	resolver  *DayResolver
	loc       *time.Location
	staleness time.Duration
	clock     func() time.Time

	mu    sync.Mutex
	views map[uint]*StableView // keyed by user id
}

// ServiceConfig configures a calendar Service.
type ServiceConfig struct {
	Source    JobSource
	Location  *time.Location
	Staleness time.Duration
	Clock     func() time.Time
}

func NewService(cfg ServiceConfig) *Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		resolver:  NewDayResolver(cfg.Source, loc),
		loc:       loc,
		staleness: cfg.Staleness,
		clock:     cfg.Clock,
		views:     make(map[uint]*StableView),
	}
}

// Location returns the zone calendar days are interpreted in.
func (s *Service) Location() *time.Location { return s.loc }

// Day resolves a single day for the caller, bypassing the range cache.
func (s *Service) Day(ctx context.Context, day Day, caller Identity) ([]CalendarEvent, error) {
	return s.resolver.ResolveDay(ctx, day, caller)
}

// Range loads the inclusive range through the caller's stable view.
func (s *Service) Range(ctx context.Context, start, end time.Time, caller Identity) (ViewSnapshot, error) {
	if caller.IsZero() {
		return ViewSnapshot{}, ErrUnauthenticated
	}
	return s.viewFor(caller).Load(ctx, start, end)
}

// viewFor returns the caller's stable view, creating it on first use.
// The cache behind each view is bound to the caller's identity; role
// changes mint a fresh view rather than reusing the old cache.
func (s *Service) viewFor(caller Identity) *StableView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.views[caller.UserID]; ok {
		if v.cache.caller.Role == caller.Role {
			return v
		}
	}
	cache := NewRequestCache(CacheConfig{
		Resolver:  s.resolver,
		Caller:    caller,
		Staleness: s.staleness,
		Clock:     s.clock,
	})
	v := NewStableView(cache, s.loc)
	s.views[caller.UserID] = v
	return v
}

// InvalidateDay fans the invalidation out to every caller's cache.
// Mutations call this before replying, so the next fetch of any range
// spanning the day re-queries the store.
func (s *Service) InvalidateDay(day Day) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.views {
		v.InvalidateDay(day)
	}
}

// InvalidateRange fans a whole-range invalidation out to every caller.
func (s *Service) InvalidateRange(key RangeKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.views {
		v.InvalidateRange(key)
	}
}

// InvalidateTime is a convenience for mutation handlers holding a raw
// timestamp.
func (s *Service) InvalidateTime(t time.Time) {
	s.InvalidateDay(DayOf(t, s.loc))
}
