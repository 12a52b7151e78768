package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestDecomposeRange_InclusiveAscending(t *testing.T) {
	loc := time.UTC
	start := time.Date(2024, 3, 14, 22, 15, 0, 0, loc)
	end := time.Date(2024, 3, 17, 1, 0, 0, 0, loc)

	days, err := DecomposeRange(start, end, loc)
	if err != nil {
		t.Fatalf("DecomposeRange: %v", err)
	}
	want := []string{"2024-03-14", "2024-03-15", "2024-03-16", "2024-03-17"}
	if len(days) != len(want) {
		t.Fatalf("got %d days, want %d", len(days), len(want))
	}
	for i, d := range days {
		if d.String() != want[i] {
			t.Errorf("day %d = %s, want %s", i, d, want[i])
		}
		if i > 0 && !days[i-1].Before(d) {
			t.Errorf("days not strictly ascending at %d: %s then %s", i, days[i-1], d)
		}
	}
}

func TestDecomposeRange_SameDay(t *testing.T) {
	loc := time.UTC
	at := time.Date(2024, 3, 15, 9, 0, 0, 0, loc)
	days, err := DecomposeRange(at, at.Add(5*time.Hour), loc)
	if err != nil {
		t.Fatalf("DecomposeRange: %v", err)
	}
	if len(days) != 1 || days[0].String() != "2024-03-15" {
		t.Fatalf("got %v, want single day 2024-03-15", days)
	}
}

func TestDecomposeRange_Inverted(t *testing.T) {
	loc := time.UTC
	start := time.Date(2024, 3, 16, 0, 0, 0, 0, loc)
	end := time.Date(2024, 3, 15, 23, 0, 0, 0, loc)
	if _, err := DecomposeRange(start, end, loc); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("got %v, want ErrInvalidRange", err)
	}
}

func TestDecomposeRange_MonthAndYearBoundaries(t *testing.T) {
	loc := time.UTC
	days, err := DecomposeRange(
		time.Date(2023, 12, 30, 12, 0, 0, 0, loc),
		time.Date(2024, 1, 2, 12, 0, 0, 0, loc),
		loc,
	)
	if err != nil {
		t.Fatalf("DecomposeRange: %v", err)
	}
	want := []string{"2023-12-30", "2023-12-31", "2024-01-01", "2024-01-02"}
	for i, d := range days {
		if d.String() != want[i] {
			t.Errorf("day %d = %s, want %s", i, d, want[i])
		}
	}
}

func TestRangeKey_IndependentOfExpression(t *testing.T) {
	loc := time.UTC

	// Same inclusive span expressed with different clock times must
	// produce equal keys.
	a, err := DecomposeRange(
		time.Date(2024, 3, 15, 0, 0, 0, 0, loc),
		time.Date(2024, 3, 17, 0, 0, 0, 0, loc),
		loc,
	)
	if err != nil {
		t.Fatal(err)
	}
	b, err := DecomposeRange(
		time.Date(2024, 3, 15, 23, 59, 59, 0, loc),
		time.Date(2024, 3, 17, 6, 30, 0, 0, loc),
		loc,
	)
	if err != nil {
		t.Fatal(err)
	}
	if KeyForDays(a) != KeyForDays(b) {
		t.Fatalf("keys differ: %s vs %s", KeyForDays(a), KeyForDays(b))
	}
}

func TestRangeKey_Spans(t *testing.T) {
	key := RangeKey{
		First: Day{2024, time.March, 15},
		Last:  Day{2024, time.March, 17},
	}
	for _, tc := range []struct {
		day  Day
		want bool
	}{
		{Day{2024, time.March, 14}, false},
		{Day{2024, time.March, 15}, true},
		{Day{2024, time.March, 16}, true},
		{Day{2024, time.March, 17}, true},
		{Day{2024, time.March, 18}, false},
	} {
		if got := key.Spans(tc.day); got != tc.want {
			t.Errorf("Spans(%s) = %v, want %v", tc.day, got, tc.want)
		}
	}
}

func TestDayBounds(t *testing.T) {
	loc := time.UTC
	day := Day{2024, time.March, 15}
	from, to := day.Bounds(loc)
	if !from.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, loc)) {
		t.Errorf("from = %v", from)
	}
	if !to.Before(time.Date(2024, 3, 16, 0, 0, 0, 0, loc)) {
		t.Errorf("to %v leaks into the next day", to)
	}
	if to.Sub(from) < 24*time.Hour-time.Second {
		t.Errorf("bounds window too short: %v", to.Sub(from))
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-03-15")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if d != (Day{2024, time.March, 15}) {
		t.Fatalf("got %v", d)
	}
	if _, err := ParseDay("15/03/2024"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("got %v, want ErrInvalidRange", err)
	}
}
