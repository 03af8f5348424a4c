package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// WeekdayWindow is the bookable window for a single weekday
type WeekdayWindow struct {
	Start   types.TimeString
	End     types.TimeString
	Enabled bool
}

// IsZero returns true if the window has no boundaries set
func (w WeekdayWindow) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// SchedulingProfile holds the booking configuration of a single employee.
// Created lazily with defaults on first access and never deleted:
// an employee that stops taking bookings keeps the profile with
// AcceptingBookings = false.
type SchedulingProfile struct {
	ID          int64
	EmployeeID  int64
	PublicAlias *string

	SlotDurationMinutes int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	MinNoticeMinutes    int
	MaxAdvanceDays      int

	AcceptingBookings bool
	// AutoConfirm controls whether new bookings enter the ledger as
	// confirmed immediately or wait in pending for the confirm token
	AutoConfirm bool

	// Windows is indexed by time.Weekday (0 = Sunday)
	Windows [7]WeekdayWindow

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CombinedBufferMinutes returns the total idle time enforced between slots
func (p *SchedulingProfile) CombinedBufferMinutes() int {
	return p.BufferBeforeMinutes + p.BufferAfterMinutes
}

// WindowFor returns the bookable window for the given weekday
func (p *SchedulingProfile) WindowFor(weekday time.Weekday) WeekdayWindow {
	return p.Windows[int(weekday)]
}

// MergeDefaults fills unset fields with safe defaults and clamps values
// to the allowed bounds. Partial stored profiles always go through this
// merge before use, so the rest of the service never checks optionality.
func (p *SchedulingProfile) MergeDefaults() {
	if p.SlotDurationMinutes < MinSlotDurationMinutes || p.SlotDurationMinutes > MaxSlotDurationMinutes {
		p.SlotDurationMinutes = DefaultSlotDurationMinutes
	}
	if p.BufferBeforeMinutes < 0 || p.BufferBeforeMinutes > MaxBufferMinutes {
		p.BufferBeforeMinutes = DefaultBufferBeforeMinutes
	}
	if p.BufferAfterMinutes < 0 || p.BufferAfterMinutes > MaxBufferMinutes {
		p.BufferAfterMinutes = DefaultBufferAfterMinutes
	}
	if p.MinNoticeMinutes <= 0 {
		p.MinNoticeMinutes = DefaultMinNoticeMinutes
	}
	if p.MinNoticeMinutes < MinNoticeFloorMinutes {
		p.MinNoticeMinutes = MinNoticeFloorMinutes
	}
	if p.MaxAdvanceDays < MinAdvanceDays {
		p.MaxAdvanceDays = DefaultMaxAdvanceDays
	}
	if p.MaxAdvanceDays > MaxAdvanceDays {
		p.MaxAdvanceDays = MaxAdvanceDays
	}

	for i := range p.Windows {
		if p.Windows[i].IsZero() {
			p.Windows[i] = WeekdayWindow{
				Start:   DefaultWindowStart,
				End:     DefaultWindowEnd,
				Enabled: time.Weekday(i) != DefaultDayOff,
			}
		}
	}
}

// DefaultProfile returns a fully-populated profile with default settings
func DefaultProfile(employeeID int64) *SchedulingProfile {
	p := &SchedulingProfile{
		EmployeeID:        employeeID,
		AcceptingBookings: true,
	}
	p.MergeDefaults()
	return p
}
