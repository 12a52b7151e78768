package calendar

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/TarekGohar/cleano-software-sub002/models"
)

func newTestView(t *testing.T, src JobSource) *StableView {
	t.Helper()
	return NewStableView(newTestCache(t, src, nil), time.UTC)
}

func rangeBounds() (time.Time, time.Time) {
	return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)
}

func TestStableView_FirstLoadStartsEmpty(t *testing.T) {
	view := newTestView(t, &fakeSource{})

	snap := view.Snapshot()
	if snap.State != ViewLoading {
		t.Fatalf("state = %s, want loading before first load", snap.State)
	}
	if len(snap.Events) != 0 {
		t.Fatalf("events = %v, want empty", snap.Events)
	}
}

func TestStableView_FailedFirstLoadIsStaleNotLoading(t *testing.T) {
	src := &fakeSource{failOn: map[string]error{"2024-03-15": errors.New("timeout")}}
	view := newTestView(t, src)
	start, end := rangeBounds()

	snap, err := view.Load(context.Background(), start, end)
	if err == nil {
		t.Fatal("expected failure")
	}
	if snap.State != ViewStale {
		t.Fatalf("state = %s, want stale (fetch settled, nothing in flight)", snap.State)
	}
	if snap.Err == nil {
		t.Fatal("settled failure carries no error side channel")
	}
	if snap.Loading {
		t.Fatal("loading flag set after the fetch settled")
	}
	if len(snap.Events) != 0 || snap.Events == nil {
		t.Fatalf("events = %#v, want empty non-nil slice", snap.Events)
	}
}

func TestStableView_SuccessfulLoadBecomesReady(t *testing.T) {
	src := &fakeSource{jobs: []models.Job{
		jobOn(1, "2024-03-15", 9, models.JobStatusScheduled, uintPtr(7)),
	}}
	view := newTestView(t, src)
	start, end := rangeBounds()

	snap, err := view.Load(context.Background(), start, end)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.State != ViewReady || snap.Err != nil {
		t.Fatalf("state = %s err = %v, want ready/nil", snap.State, snap.Err)
	}
	if len(snap.Events) != 1 || snap.Events[0].ID != 1 {
		t.Fatalf("events = %v", snap.Events)
	}
	if snap.Loading {
		t.Fatal("loading flag still set after load settled")
	}
}

func TestStableView_FailedRevalidationRetainsData(t *testing.T) {
	src := &fakeSource{jobs: []models.Job{
		jobOn(1, "2024-03-15", 9, models.JobStatusScheduled, uintPtr(7)),
		jobOn(2, "2024-03-16", 9, models.JobStatusInProgress, uintPtr(7)),
	}}
	view := newTestView(t, src)
	start, end := rangeBounds()

	good, err := view.Load(context.Background(), start, end)
	if err != nil {
		t.Fatalf("initial load: %v", err)
	}

	// Bust the cache, then make the store fail; the revalidation must
	// not clear the displayed events.
	view.InvalidateRange(RangeKey{First: Day{2024, time.March, 15}, Last: Day{2024, time.March, 17}})
	src.mu.Lock()
	src.failOn = map[string]error{"2024-03-16": errors.New("timeout")}
	src.mu.Unlock()

	snap, err := view.Load(context.Background(), start, end)
	var agg *AggregateFetchError
	if !errors.As(err, &agg) {
		t.Fatalf("got %v, want *AggregateFetchError", err)
	}
	if snap.State != ViewStale {
		t.Fatalf("state = %s, want stale", snap.State)
	}
	if snap.Err == nil {
		t.Fatal("stale snapshot carries no error side channel")
	}
	if !reflect.DeepEqual(snap.Events, good.Events) {
		t.Fatalf("displayed events changed across a failed revalidation:\nbefore %v\nafter  %v", good.Events, snap.Events)
	}
}

func TestStableView_RecoversAfterFailure(t *testing.T) {
	src := &fakeSource{jobs: []models.Job{
		jobOn(1, "2024-03-15", 9, models.JobStatusScheduled, uintPtr(7)),
	}}
	view := newTestView(t, src)
	start, end := rangeBounds()

	if _, err := view.Load(context.Background(), start, end); err != nil {
		t.Fatal(err)
	}

	view.InvalidateDay(Day{2024, time.March, 15})
	src.mu.Lock()
	src.failOn = map[string]error{"2024-03-15": errors.New("timeout")}
	src.mu.Unlock()
	if _, err := view.Load(context.Background(), start, end); err == nil {
		t.Fatal("expected failure")
	}

	src.mu.Lock()
	src.failOn = nil
	src.jobs = append(src.jobs, jobOn(2, "2024-03-16", 10, models.JobStatusScheduled, uintPtr(7)))
	src.mu.Unlock()
	view.InvalidateDay(Day{2024, time.March, 16})

	snap, err := view.Load(context.Background(), start, end)
	if err != nil {
		t.Fatalf("recovery load: %v", err)
	}
	if snap.State != ViewReady || snap.Err != nil {
		t.Fatalf("state = %s err = %v after recovery, want ready/nil", snap.State, snap.Err)
	}
	if len(snap.Events) != 2 {
		t.Fatalf("events = %v, want both jobs", snap.Events)
	}
}

func TestStableView_InvalidateDoesNotClearDisplayedData(t *testing.T) {
	src := &fakeSource{jobs: []models.Job{
		jobOn(1, "2024-03-15", 9, models.JobStatusScheduled, uintPtr(7)),
	}}
	view := newTestView(t, src)
	start, end := rangeBounds()

	good, err := view.Load(context.Background(), start, end)
	if err != nil {
		t.Fatal(err)
	}

	view.InvalidateDay(Day{2024, time.March, 15})

	snap := view.Snapshot()
	if snap.State != ViewReady {
		t.Fatalf("state = %s, want ready (invalidation is not an error)", snap.State)
	}
	if !reflect.DeepEqual(snap.Events, good.Events) {
		t.Fatal("invalidation blanked the displayed events")
	}
}

func TestStableView_InvalidRange(t *testing.T) {
	view := newTestView(t, &fakeSource{})
	start := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if _, err := view.Load(context.Background(), start, end); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("got %v, want ErrInvalidRange", err)
	}
}

func TestStableView_SnapshotEventsAreACopy(t *testing.T) {
	src := &fakeSource{jobs: []models.Job{
		jobOn(1, "2024-03-15", 9, models.JobStatusScheduled, uintPtr(7)),
	}}
	view := newTestView(t, src)
	start, end := rangeBounds()

	if _, err := view.Load(context.Background(), start, end); err != nil {
		t.Fatal(err)
	}
	snap := view.Snapshot()
	snap.Events[0].Title = "mutated"

	again := view.Snapshot()
	if again.Events[0].Title == "mutated" {
		t.Fatal("snapshot shares backing storage with the view")
	}
}
