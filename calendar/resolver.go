package calendar

import (
	"context"
	"sort"
	"time"

	"github.com/TarekGohar/cleano-software-sub002/models"
)

// JobSource is the data-access collaborator the resolver queries. The
// production implementation lives in the database package; tests inject
// a double.
type JobSource interface {
	// JobsForDay returns every job whose occurrence date or start time
	// falls within [from, to].
	JobsForDay(ctx context.Context, from, to time.Time) ([]models.Job, error)
}

// DayResolver resolves the visibility-filtered events for a single
// calendar day.
type DayResolver struct {
	source JobSource
	loc    *time.Location
}

func NewDayResolver(source JobSource, loc *time.Location) *DayResolver {
	if loc == nil {
		loc = time.Local
	}
	return &DayResolver{source: source, loc: loc}
}

// ResolveDay returns the caller-visible events for day, ordered by
// (occurrence date, start time) ascending. Privileged callers see every
// job; everyone else sees only jobs they are assigned to or participate
// in.
func (r *DayResolver) ResolveDay(ctx context.Context, day Day, caller Identity) ([]CalendarEvent, error) {
	if caller.IsZero() {
		return nil, ErrUnauthenticated
	}

	from, to := day.Bounds(r.loc)
	jobs, err := r.source.JobsForDay(ctx, from, to)
	if err != nil {
		return nil, &DataAccessError{Day: day, Err: err}
	}

	events := make([]CalendarEvent, 0, len(jobs))
	for _, j := range jobs {
		if !visibleTo(j, caller) {
			continue
		}
		events = append(events, eventFromJob(j))
	}

	// The store already orders its result, but the ordering is a
	// contract of this layer, not of the collaborator.
	sortEvents(events, jobs)
	return events, nil
}

func visibleTo(j models.Job, caller Identity) bool {
	if caller.Role.IsPrivileged() {
		return true
	}
	if caller.EmployeeID == nil {
		return false
	}
	if j.EmployeeID != nil && *j.EmployeeID == *caller.EmployeeID {
		return true
	}
	for _, p := range j.Participants {
		if p.ID == *caller.EmployeeID {
			return true
		}
	}
	return false
}

// sortEvents orders events by (occurrence date, start time) ascending.
// Occurrence dates are taken from the job rows, keyed by job ID.
func sortEvents(events []CalendarEvent, jobs []models.Job) {
	dates := make(map[uint]time.Time, len(jobs))
	for _, j := range jobs {
		dates[j.ID] = j.Date
	}
	sort.SliceStable(events, func(i, k int) bool {
		di, dk := dates[events[i].ID], dates[events[k].ID]
		if !di.Equal(dk) {
			return di.Before(dk)
		}
		return events[i].Start.Before(events[k].Start)
	})
}
