package appointment

import (
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

// Overlaps is the half-open intersection test: touching intervals do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// FindConflict returns the first active appointment in existing that
// overlaps candidate, skipping excludeID (0 = none).
func FindConflict(existing []models.Appointment, candidate Interval, excludeID uint) *models.Appointment {
	for i := range existing {
		ap := &existing[i]
		if excludeID != 0 && ap.ID == excludeID {
			continue
		}
		if Status(ap.Status) == StatusCancelled {
			continue
		}
		if candidate.Overlaps(Interval{Start: ap.StartTime, End: ap.EndTime}) {
			return ap
		}
	}
	return nil
}
