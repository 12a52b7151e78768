package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TarekGohar/cleano-software-sub002/models"
)

func newTestService(t *testing.T, src JobSource) *Service {
	t.Helper()
	return NewService(ServiceConfig{Source: src, Location: time.UTC})
}

func TestServiceRange_RequiresIdentity(t *testing.T) {
	svc := newTestService(t, &fakeSource{})
	start, end := rangeBounds()
	if _, err := svc.Range(context.Background(), start, end, Identity{}); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("got %v, want ErrUnauthenticated", err)
	}
}

func TestServiceRange_PerCallerVisibility(t *testing.T) {
	src := &fakeSource{jobs: []models.Job{
		jobOn(1, "2024-03-15", 9, models.JobStatusScheduled, uintPtr(7)),
		jobOn(2, "2024-03-16", 9, models.JobStatusScheduled, uintPtr(8)),
	}}
	svc := newTestService(t, src)
	start, end := rangeBounds()

	managerSnap, err := svc.Range(context.Background(), start, end, privileged)
	if err != nil {
		t.Fatal(err)
	}
	cleanerSnap, err := svc.Range(context.Background(), start, end, cleaner7)
	if err != nil {
		t.Fatal(err)
	}

	if len(managerSnap.Events) != 2 {
		t.Fatalf("manager sees %d events, want 2", len(managerSnap.Events))
	}
	if len(cleanerSnap.Events) != 1 || cleanerSnap.Events[0].ID != 1 {
		t.Fatalf("cleaner events = %v, want only job 1", cleanerSnap.Events)
	}
}

func TestServiceInvalidateDay_FansOutAcrossCallers(t *testing.T) {
	src := &fakeSource{jobs: []models.Job{
		jobOn(1, "2024-03-15", 9, models.JobStatusScheduled, uintPtr(7)),
	}}
	svc := newTestService(t, src)
	start, end := rangeBounds()

	if _, err := svc.Range(context.Background(), start, end, privileged); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Range(context.Background(), start, end, cleaner7); err != nil {
		t.Fatal(err)
	}

	// Simulate a schedule mutation, then invalidate its day.
	src.mu.Lock()
	src.jobs = append(src.jobs, jobOn(2, "2024-03-16", 10, models.JobStatusScheduled, uintPtr(7)))
	src.mu.Unlock()
	svc.InvalidateDay(Day{2024, time.March, 16})

	managerSnap, err := svc.Range(context.Background(), start, end, privileged)
	if err != nil {
		t.Fatal(err)
	}
	cleanerSnap, err := svc.Range(context.Background(), start, end, cleaner7)
	if err != nil {
		t.Fatal(err)
	}
	if len(managerSnap.Events) != 2 {
		t.Fatalf("manager still sees stale range after fan-out invalidation: %v", managerSnap.Events)
	}
	if len(cleanerSnap.Events) != 2 {
		t.Fatalf("cleaner still sees stale range after fan-out invalidation: %v", cleanerSnap.Events)
	}
}

func TestServiceDay_Passthrough(t *testing.T) {
	src := &fakeSource{jobs: []models.Job{
		jobOn(1, "2024-03-15", 9, models.JobStatusInProgress, uintPtr(7)),
	}}
	svc := newTestService(t, src)

	events, err := svc.Day(context.Background(), Day{2024, time.March, 15}, cleaner7)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Importance != 5 {
		t.Fatalf("events = %v", events)
	}
}

func TestServiceInvalidateTime_UsesConfiguredZone(t *testing.T) {
	src := &fakeSource{jobs: []models.Job{
		jobOn(1, "2024-03-15", 9, models.JobStatusScheduled, uintPtr(7)),
	}}
	svc := newTestService(t, src)
	start, end := rangeBounds()

	if _, err := svc.Range(context.Background(), start, end, privileged); err != nil {
		t.Fatal(err)
	}
	before := src.callCount()

	svc.InvalidateTime(time.Date(2024, 3, 16, 18, 30, 0, 0, time.UTC))
	if _, err := svc.Range(context.Background(), start, end, privileged); err != nil {
		t.Fatal(err)
	}
	if src.callCount() == before {
		t.Fatal("InvalidateTime did not bust the spanning range")
	}
}
