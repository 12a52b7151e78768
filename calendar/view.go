package calendar

import (
	"context"
	"sync"
	"time"
)

// ViewState is the three-state result consumed by the rendering layer.
type ViewState string

const (
	// ViewLoading: first fetch for a range, nothing to show yet.
	ViewLoading ViewState = "loading"
	// ViewReady: the displayed events match the latest successful fetch.
	ViewReady ViewState = "ready"
	// ViewStale: the last fetch failed; previously loaded events are
	// still displayed and the error rides alongside them.
	ViewStale ViewState = "stale"
)

// ViewSnapshot is what a consumer renders: the continuously-displayable
// event list, whether a fetch is in flight, and the last error if the
// data is stale.
type ViewSnapshot struct {
	State   ViewState       `json:"state"`
	Events  []CalendarEvent `json:"events"`
	Loading bool            `json:"loading"`
	Err     error           `json:"-"`
}

// StableView merges RequestCache results with previously retained data
// so a revalidation or transient failure never blanks the visible set.
type StableView struct {
	cache *RequestCache
	loc   *time.Location

	mu         sync.Mutex
	generation uint64 // last-request-wins token
	inflight   int
	displayed  []CalendarEvent
	loadedOnce bool
	lastErr    error
}

func NewStableView(cache *RequestCache, loc *time.Location) *StableView {
	if loc == nil {
		loc = time.Local
	}
	return &StableView{cache: cache, loc: loc}
}

// Load fetches the inclusive range and returns the resulting snapshot.
// On failure the previously displayed events are retained unchanged and
// the error is surfaced on the snapshot, not by clearing data. If a
// newer Load was issued while this one was in flight, the superseded
// result is discarded rather than applied.
func (v *StableView) Load(ctx context.Context, start, end time.Time) (ViewSnapshot, error) {
	days, err := DecomposeRange(start, end, v.loc)
	if err != nil {
		return ViewSnapshot{}, err
	}

	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.inflight++
	v.mu.Unlock()

	events, fetchErr := v.cache.FetchRange(ctx, days)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.inflight--

	if gen != v.generation {
		// A newer request superseded this one; do not touch the view.
		return v.snapshotLocked(), fetchErr
	}

	if fetchErr != nil {
		v.lastErr = fetchErr
		return v.snapshotLocked(), fetchErr
	}

	v.displayed = events
	v.loadedOnce = true
	v.lastErr = nil
	return v.snapshotLocked(), nil
}

// Snapshot returns the current view without fetching.
func (v *StableView) Snapshot() ViewSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *StableView) snapshotLocked() ViewSnapshot {
	snap := ViewSnapshot{
		Events:  copyEvents(v.displayed),
		Loading: v.inflight > 0,
		Err:     v.lastErr,
	}
	if snap.Events == nil {
		snap.Events = []CalendarEvent{}
	}
	switch {
	case v.lastErr != nil:
		// Stale even when no load ever succeeded: the fetch has
		// settled, so "loading" would mislabel the error.
		snap.State = ViewStale
	case !v.loadedOnce:
		snap.State = ViewLoading
	default:
		snap.State = ViewReady
	}
	return snap
}

// InvalidateDay busts every cached range spanning day without clearing
// the displayed events; the next Load refetches.
func (v *StableView) InvalidateDay(day Day) {
	v.cache.InvalidateDay(day)
}

// InvalidateRange busts one cached range without clearing the displayed
// events.
func (v *StableView) InvalidateRange(key RangeKey) {
	v.cache.InvalidateRange(key)
}
