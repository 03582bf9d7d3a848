package availability

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// Schedule is a staff member's week with every slot already expanded
// into per-day ranges.
type Schedule struct {
	slots []Slot
	days  [daysPerWeek][]DayRange
}

func NewSchedule(slots []Slot) Schedule {
	s := Schedule{slots: slots}
	for i, slot := range slots {
		for _, r := range slot.Ranges(i) {
			s.days[r.Day] = append(s.days[r.Day], r)
		}
	}
	for d := range s.days {
		sortRanges(s.days[d])
	}
	return s
}

// ScheduleFromModels parses stored rows. Rows are trusted to have passed
// ValidateSlots when they were written.
func ScheduleFromModels(rows []models.WeeklyAvailability) (Schedule, error) {
	slots := make([]Slot, 0, len(rows))
	for _, row := range rows {
		slot, err := SlotFromModel(row)
		if err != nil {
			return Schedule{}, err
		}
		slots = append(slots, slot)
	}
	return NewSchedule(slots), nil
}

// ValidateSlots checks each slot and rejects any two that share a minute
// on the same day once overnight slots are split. Touching is fine.
func ValidateSlots(slots []Slot) error {
	for _, slot := range slots {
		if err := slot.Validate(); err != nil {
			return err
		}
	}

	s := NewSchedule(slots)
	for d, ranges := range s.days {
		for i := 1; i < len(ranges); i++ {
			cur, next := ranges[i-1], ranges[i]
			if next.Start < cur.End {
				return httperr.BadRequest("overlapping_slots",
					"slots overlap on %s: %s-%s and %s-%s",
					Weekday(d),
					FormatClock(cur.Start), FormatClock(cur.End),
					FormatClock(next.Start), FormatClock(next.End),
				)
			}
		}
	}
	return nil
}

func (s Schedule) Empty() bool {
	return len(s.slots) == 0
}

func (s Schedule) RangesOn(day Weekday) []DayRange {
	if !day.Valid() {
		return nil
	}
	return s.days[day]
}

// Covers reports whether [start, start+d) lies inside a single slot.
// The wall-clock fields of start are used as-is.
func (s Schedule) Covers(start time.Time, d time.Duration) bool {
	if d <= 0 || s.Empty() {
		return false
	}

	day := WeekdayOf(start)
	offset := MinuteOfDay(start)
	// Seconds past the start minute push the end into the next minute.
	sub := time.Duration(start.Second())*time.Second + time.Duration(start.Nanosecond())
	end := offset + ceilMinutes(sub+d)

	switch {
	case end <= MinutesPerDay:
		for _, r := range s.days[day] {
			if r.Contains(offset, end) {
				return true
			}
		}
		return false

	case end <= 2*MinutesPerDay:
		// Crossing midnight: only an overnight slot that starts on `day`
		// and whose tail on the next day reaches far enough can hold it.
		for _, r := range s.days[day] {
			if r.Tail || r.End != MinutesPerDay || !s.slots[r.Index].Overnight {
				continue
			}
			if r.Start > offset {
				continue
			}
			if tail, ok := s.tailOf(r.Index, day.Next()); ok && tail.End >= end-MinutesPerDay {
				return true
			}
		}
		return false

	default:
		return false
	}
}

func (s Schedule) tailOf(index int, day Weekday) (DayRange, bool) {
	for _, r := range s.days[day] {
		if r.Tail && r.Index == index {
			return r, true
		}
	}
	return DayRange{}, false
}

func sortRanges(rs []DayRange) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Start != rs[j].Start {
			return rs[i].Start < rs[j].Start
		}
		return rs[i].End < rs[j].End
	})
}

func ceilMinutes(d time.Duration) int {
	m := int(d / time.Minute)
	if d%time.Minute != 0 {
		m++
	}
	return m
}
