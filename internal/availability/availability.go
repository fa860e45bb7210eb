// Package availability computes which 30-minute slots exist for a calendar
// date, given a fixed weekly template and a "now + buffer" cutoff. It is
// pure computation: all I/O and occupancy subtraction happen elsewhere.
//
// All "today" and day-boundary arithmetic lives here, in the business
// timezone. Nothing else in the codebase compares calendar days.
package availability

import (
	"fmt"
	"math"
	"time"
)

const SlotDurationMinutes = 30

type TimeSlot struct {
	Time            string `json:"time"`
	DurationMinutes int    `json:"durationMinutes"`
}

type DayTemplate struct {
	Enabled bool
	Slots   []TimeSlot
}

// WeeklySchedule is indexed by time.Weekday (0 = Sunday).
type WeeklySchedule [7]DayTemplate

// Range is a contiguous bookable window within a day.
type Range struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// GenerateSlots walks the ranges in 30-minute steps. Slot times within a
// range are strictly increasing; a slot starting at the range end is not
// emitted.
func GenerateSlots(ranges ...Range) []TimeSlot {
	var slots []TimeSlot
	for _, r := range ranges {
		endMinutes := r.EndHour*60 + r.EndMinute
		for cur := r.StartHour*60 + r.StartMinute; cur < endMinutes; cur += SlotDurationMinutes {
			slots = append(slots, TimeSlot{
				Time:            fmt.Sprintf("%02d:%02d", cur/60, cur%60),
				DurationMinutes: SlotDurationMinutes,
			})
		}
	}
	return slots
}

func Day(ranges ...Range) DayTemplate {
	return DayTemplate{Enabled: true, Slots: GenerateSlots(ranges...)}
}

// DefaultSchedule is the business calendar: Sundays off, weekday windows
// around lunch and evening, full days Thursday through Saturday.
func DefaultSchedule() WeeklySchedule {
	return WeeklySchedule{
		time.Sunday:    {Enabled: false},
		time.Monday:    Day(Range{10, 0, 12, 0}, Range{15, 0, 20, 0}),
		time.Tuesday:   Day(Range{10, 0, 14, 0}, Range{17, 0, 20, 0}),
		time.Wednesday: Day(Range{11, 0, 15, 0}, Range{19, 0, 20, 0}),
		time.Thursday:  Day(Range{12, 0, 20, 0}),
		time.Friday:    Day(Range{10, 0, 20, 0}),
		time.Saturday:  Day(Range{10, 0, 20, 0}),
	}
}

type Config struct {
	Schedule      WeeklySchedule
	Location      *time.Location
	BufferMinutes int
	MinDaysAhead  int
	MaxDaysAhead  int

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

type Calculator struct {
	schedule WeeklySchedule
	loc      *time.Location
	buffer   int
	minAhead int
	maxAhead int
	now      func() time.Time
}

func NewCalculator(cfg Config) *Calculator {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{
		schedule: cfg.Schedule,
		loc:      loc,
		buffer:   cfg.BufferMinutes,
		minAhead: cfg.MinDaysAhead,
		maxAhead: cfg.MaxDaysAhead,
		now:      now,
	}
}

// ParseDate interprets a YYYY-MM-DD string as a calendar day in the
// business timezone.
func (c *Calculator) ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, c.loc)
}

// Today is the current calendar day (at midnight) in the business timezone.
func (c *Calculator) Today() time.Time {
	return midnight(c.now().In(c.loc), c.loc)
}

// IsBookable reports whether the date falls inside the booking horizon:
// at least MinDaysAhead and at most MaxDaysAhead days from today.
func (c *Calculator) IsBookable(date time.Time) bool {
	diff := daysBetween(c.Today(), midnight(date.In(c.loc), c.loc))
	return diff >= c.minAhead && diff <= c.maxAhead
}

// SlotsForDate returns the bookable template slots for the date, before
// occupancy is considered. A disabled weekday or a date outside the
// horizon yields an empty list, not an error. For today, slots must start
// strictly after now + buffer.
func (c *Calculator) SlotsForDate(date time.Time) []TimeSlot {
	day := date.In(c.loc)
	tpl := c.schedule[day.Weekday()]
	if !tpl.Enabled {
		return nil
	}
	if !c.IsBookable(day) {
		return nil
	}

	now := c.now().In(c.loc)
	if !midnight(now, c.loc).Equal(midnight(day, c.loc)) {
		return tpl.Slots
	}

	cutoff := now.Hour()*60 + now.Minute() + c.buffer
	var slots []TimeSlot
	for _, slot := range tpl.Slots {
		h, m, err := parseClock(slot.Time)
		if err != nil {
			continue
		}
		if h*60+m > cutoff {
			slots = append(slots, slot)
		}
	}
	return slots
}

// IsSlotInPast reports whether a slot starts at or before now + buffer,
// i.e. too soon to book. A malformed time reads as past. The boundary
// matches SlotsForDate: a slot exactly at the cutoff is excluded there, so
// it must be rejected here too.
func (c *Calculator) IsSlotInPast(date time.Time, slot string) bool {
	h, m, err := parseClock(slot)
	if err != nil {
		return true
	}
	day := date.In(c.loc)
	start := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, c.loc)
	return !start.After(c.now().Add(time.Duration(c.buffer) * time.Minute))
}

// IsClosedDay reports whether the weekly template disables the date's
// weekday entirely.
func (c *Calculator) IsClosedDay(date time.Time) bool {
	return !c.schedule[date.In(c.loc).Weekday()].Enabled
}

func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

func midnight(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// daysBetween counts calendar days from a to b. Rounded division keeps
// 23- and 25-hour DST days from shifting the count.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
