package availability

import (
	"fmt"
	"time"
)

const MinutesPerDay = 24 * 60

// ParseClock converts "HH:MM" to minutes since midnight. "24:00" is
// accepted and means end of day.
func ParseClock(hm string) (int, error) {
	if hm == "24:00" {
		return MinutesPerDay, nil
	}

	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", hm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinuteOfDay reads the wall-clock fields of t, ignoring seconds.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
