package availability

import (
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// Slot is a weekly window in minutes since midnight. An overnight slot
// runs from Start on Day until End on the following day.
type Slot struct {
	Day       Weekday
	Start     int
	End       int
	Overnight bool
}

// DayRange is the half-open part [Start, End) of one slot that falls on Day.
// Index points back to the slot it was expanded from.
type DayRange struct {
	Day   Weekday
	Start int
	End   int
	Index int
	Tail  bool
}

func SlotFromModel(m models.WeeklyAvailability) (Slot, error) {
	start, err := ParseClock(m.StartTime)
	if err != nil {
		return Slot{}, httperr.BadRequest("invalid_slot_time", "%s", err.Error())
	}
	end, err := ParseClock(m.EndTime)
	if err != nil {
		return Slot{}, httperr.BadRequest("invalid_slot_time", "%s", err.Error())
	}

	s := Slot{
		Day:       Weekday(m.DayOfWeek),
		Start:     start,
		End:       end,
		Overnight: m.IsOvernight,
	}
	if err := s.Validate(); err != nil {
		return Slot{}, err
	}
	return s, nil
}

func (s Slot) Validate() error {
	if !s.Day.Valid() {
		return httperr.BadRequest("invalid_day_of_week", "day_of_week must be between 0 and 6, got %d", int(s.Day))
	}
	if s.Start < 0 || s.Start >= MinutesPerDay {
		return httperr.BadRequest("invalid_slot_time", "start_time %s is out of range", FormatClock(s.Start))
	}
	if s.End < 0 || s.End > MinutesPerDay {
		return httperr.BadRequest("invalid_slot_time", "end_time %s is out of range", FormatClock(s.End))
	}

	if s.Overnight {
		if s.End > s.Start {
			return httperr.BadRequest("invalid_overnight_slot",
				"overnight slot on %s must end at or before its start (%s-%s)",
				s.Day, FormatClock(s.Start), FormatClock(s.End))
		}
		return nil
	}

	if s.End <= s.Start {
		return httperr.BadRequest("invalid_slot_range",
			"slot on %s must end after it starts (%s-%s); mark it overnight to cross midnight",
			s.Day, FormatClock(s.Start), FormatClock(s.End))
	}
	return nil
}

// Ranges expands the slot into the day ranges it occupies. Empty ranges
// (an overnight slot ending at 00:00) are dropped.
func (s Slot) Ranges(index int) []DayRange {
	if !s.Overnight {
		return []DayRange{{Day: s.Day, Start: s.Start, End: s.End, Index: index}}
	}

	out := []DayRange{{Day: s.Day, Start: s.Start, End: MinutesPerDay, Index: index}}
	if s.End > 0 {
		out = append(out, DayRange{Day: s.Day.Next(), Start: 0, End: s.End, Index: index, Tail: true})
	}
	return out
}

func (r DayRange) Contains(start, end int) bool {
	return start >= r.Start && end <= r.End
}
