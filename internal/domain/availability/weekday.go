package availability

import (
	"strconv"
	"strings"
	"time"
)

// Weekday uses the same numbering as time.Weekday: 0 = Sunday.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

const daysPerWeek = 7

func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}

func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

func (d Weekday) Next() Weekday {
	return (d + 1) % daysPerWeek
}

func (d Weekday) Prev() Weekday {
	return (d + daysPerWeek - 1) % daysPerWeek
}

func (d Weekday) String() string {
	if !d.Valid() {
		return "Weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return time.Weekday(d).String()
}

// ParseWeekday accepts "0".."6", full English names and three-letter
// abbreviations, case-insensitively.
func ParseWeekday(s string) (Weekday, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		d := Weekday(n)
		return d, d.Valid()
	}

	s = strings.ToLower(s)
	for d := Sunday; d <= Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, true
		}
	}
	return 0, false
}
