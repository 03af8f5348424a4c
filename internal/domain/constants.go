package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Default profile values
const (
	DefaultSlotDurationMinutes = 30
	DefaultBufferBeforeMinutes = 5
	DefaultBufferAfterMinutes  = 5
	DefaultMinNoticeMinutes    = 240 // 4 hours
	DefaultMaxAdvanceDays      = 30

	DefaultWindowStart = types.TimeString("09:00")
	DefaultWindowEnd   = types.TimeString("17:00")

	// DefaultDayOff is disabled in lazily created profiles
	DefaultDayOff = time.Saturday
)

// Business validation bounds
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
	MaxBufferMinutes       = 120
	MinNoticeFloorMinutes  = 60 // 1 hour, floor applied by the defaults merge
	MinAdvanceDays         = 1
	MaxAdvanceDays         = 60

	MaxSubjectLength            = 200
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxClientNameLength         = 100
)

// MaxCandidateSlots caps the size of a generated slot list
const MaxCandidateSlots = 2000

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses are the statuses in which a booking occupies its interval.
// Used for slot conflict checks.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses are the statuses with no further transitions
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusNoShow,
	StatusCancelled,
	StatusRescheduled,
}
