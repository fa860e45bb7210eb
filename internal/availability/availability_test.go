package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func warsaw(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)
	return loc
}

func newTestCalculator(t *testing.T, now time.Time) *Calculator {
	t.Helper()
	return NewCalculator(Config{
		Schedule:      DefaultSchedule(),
		Location:      warsaw(t),
		BufferMinutes: 60,
		MinDaysAhead:  0,
		MaxDaysAhead:  60,
		Now:           func() time.Time { return now },
	})
}

func slotTimes(slots []TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Time)
	}
	return out
}

func TestGenerateSlots(t *testing.T) {
	slots := GenerateSlots(Range{10, 0, 12, 0})
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, slotTimes(slots))

	slots = GenerateSlots(Range{10, 0, 12, 0}, Range{15, 0, 16, 30})
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30", "15:00", "15:30", "16:00"}, slotTimes(slots))

	for _, s := range slots {
		assert.Equal(t, SlotDurationMinutes, s.DurationMinutes)
	}

	assert.Empty(t, GenerateSlots(Range{12, 0, 12, 0}), "empty range yields no slots")
}

func TestSlotsForDateDeterminism(t *testing.T) {
	loc := warsaw(t)
	now := time.Date(2025, 1, 3, 9, 0, 0, 0, loc)
	calc := newTestCalculator(t, now)

	date, err := calc.ParseDate("2025-01-06")
	require.NoError(t, err)

	first := calc.SlotsForDate(date)
	second := calc.SlotsForDate(date)
	assert.Equal(t, first, second, "same frozen now must yield identical output")
	assert.Equal(t,
		[]string{"10:00", "10:30", "11:00", "11:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30", "18:00", "18:30", "19:00", "19:30"},
		slotTimes(first))
}

func TestSlotsForDateDisabledWeekday(t *testing.T) {
	loc := warsaw(t)
	calc := newTestCalculator(t, time.Date(2025, 1, 3, 9, 0, 0, 0, loc))

	sunday, err := calc.ParseDate("2025-01-05")
	require.NoError(t, err)
	assert.Empty(t, calc.SlotsForDate(sunday))
	assert.True(t, calc.IsClosedDay(sunday))
}

func TestSlotsForDatePastDate(t *testing.T) {
	loc := warsaw(t)
	calc := newTestCalculator(t, time.Date(2025, 1, 10, 9, 0, 0, 0, loc))

	past, err := calc.ParseDate("2025-01-06")
	require.NoError(t, err)
	assert.Empty(t, calc.SlotsForDate(past), "past date yields empty, not an error")
	assert.False(t, calc.IsBookable(past))
}

func TestHorizonBoundary(t *testing.T) {
	loc := warsaw(t)
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, loc)
	calc := newTestCalculator(t, now)

	at60 := now.AddDate(0, 0, 60)
	at61 := now.AddDate(0, 0, 61)

	assert.True(t, calc.IsBookable(at60), "60 days out is inside the horizon")
	assert.False(t, calc.IsBookable(at61), "61 days out is outside the horizon")
	assert.True(t, calc.IsBookable(now), "same day is bookable")
}

func TestSameDayBufferBoundary(t *testing.T) {
	loc := warsaw(t)

	// Monday 09:29: the 10:30 slot starts at now+61min and must be included.
	calc := newTestCalculator(t, time.Date(2025, 1, 6, 9, 29, 0, 0, loc))
	date, err := calc.ParseDate("2025-01-06")
	require.NoError(t, err)
	assert.Contains(t, slotTimes(calc.SlotsForDate(date)), "10:30")
	assert.NotContains(t, slotTimes(calc.SlotsForDate(date)), "10:00")

	// Monday 09:30: 10:30 is exactly now+60min and must be excluded.
	calc = newTestCalculator(t, time.Date(2025, 1, 6, 9, 30, 0, 0, loc))
	assert.NotContains(t, slotTimes(calc.SlotsForDate(date)), "10:30")
	assert.Contains(t, slotTimes(calc.SlotsForDate(date)), "11:00")
}

func TestIsSlotInPast(t *testing.T) {
	loc := warsaw(t)
	calc := newTestCalculator(t, time.Date(2025, 1, 6, 9, 30, 0, 0, loc))
	date, err := calc.ParseDate("2025-01-06")
	require.NoError(t, err)

	tests := []struct {
		name string
		slot string
		want bool
	}{
		{"already started", "09:00", true},
		{"inside the buffer", "10:00", true},
		{"exactly at the cutoff", "10:30", true},
		{"past the cutoff", "11:00", false},
		{"malformed time reads as past", "25:99", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.IsSlotInPast(date, tt.slot))
		})
	}

	tomorrow, err := calc.ParseDate("2025-01-07")
	require.NoError(t, err)
	assert.False(t, calc.IsSlotInPast(tomorrow, "10:00"))
}

// The same-day filter and the reservation check share one boundary: every
// template slot hidden from availability must read as past, and every
// visible slot must not. A mismatch would let callers book a slot the
// availability view never offered.
func TestIsSlotInPastAgreesWithSlotsForDate(t *testing.T) {
	loc := warsaw(t)
	calc := newTestCalculator(t, time.Date(2025, 1, 6, 9, 30, 0, 0, loc))
	date, err := calc.ParseDate("2025-01-06")
	require.NoError(t, err)

	visible := make(map[string]struct{})
	for _, s := range calc.SlotsForDate(date) {
		visible[s.Time] = struct{}{}
	}

	for _, s := range DefaultSchedule()[time.Monday].Slots {
		if _, ok := visible[s.Time]; ok {
			assert.False(t, calc.IsSlotInPast(date, s.Time), "visible slot %s must be reservable", s.Time)
		} else {
			assert.True(t, calc.IsSlotInPast(date, s.Time), "hidden slot %s must not be reservable", s.Time)
		}
	}
}

func TestWeekdayUsesBusinessTimezone(t *testing.T) {
	loc := warsaw(t)

	// 23:30 UTC on Sunday Jan 5 is already Monday 00:30 in Warsaw. The
	// calendar day, and therefore the weekday template, must follow the
	// business timezone, not UTC.
	now := time.Date(2025, 1, 5, 23, 30, 0, 0, time.UTC)
	calc := NewCalculator(Config{
		Schedule:      DefaultSchedule(),
		Location:      loc,
		BufferMinutes: 60,
		MaxDaysAhead:  60,
		Now:           func() time.Time { return now },
	})

	assert.Equal(t, "2025-01-06", calc.Today().Format("2006-01-02"))

	monday, err := calc.ParseDate("2025-01-06")
	require.NoError(t, err)
	assert.True(t, calc.IsBookable(monday), "Warsaw-today must be bookable even though UTC is still Sunday")

	// Monday slots filtered by the same-day buffer (00:30 + 60min cutoff
	// excludes nothing at 10:00).
	assert.Contains(t, slotTimes(calc.SlotsForDate(monday)), "10:00")
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc := warsaw(t)

	// Europe/Warsaw springs forward on 2025-03-30; the span below contains
	// a 23-hour day and must still count as exact calendar days.
	a := time.Date(2025, 3, 29, 0, 0, 0, 0, loc)
	b := time.Date(2025, 3, 31, 0, 0, 0, 0, loc)
	assert.Equal(t, 2, daysBetween(a, b))
	assert.Equal(t, -2, daysBetween(b, a))
}
