package repositories

import "time"

// ActivityRecord is the normalized read of one activity row from any
// source: the source-specific actor column (owner, applicant, sender) is
// projected into ActorID.
type ActivityRecord struct {
	ActorID    string    `gorm:"column:actor_id"`
	OccurredAt time.Time `gorm:"column:occurred_at"`
}

// ActivitySourceLimit caps the rows fetched from a single activity source
// within one report. Past the cap the derived counts are lower bounds, not
// exact values.
const ActivitySourceLimit = 10000
