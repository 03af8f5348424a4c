package domain

import "time"

// CandidateSlot is an ephemeral bookable interval offered to a client.
// Candidate slots are computed per request and never persisted.
type CandidateSlot struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
}

// Overlaps reports whether the slot intersects [start, end) using
// half-open interval comparison
func (s CandidateSlot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && s.End.After(start)
}

// BusyBlock is an externally reported busy interval for an employee.
// Busy blocks are advisory: absence of the external source must never
// block local slot computation.
type BusyBlock struct {
	Start time.Time
	End   time.Time
}
