package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending     BookingStatus = "pending"
	StatusConfirmed   BookingStatus = "confirmed"
	StatusCompleted   BookingStatus = "completed"
	StatusNoShow      BookingStatus = "no_show"
	StatusCancelled   BookingStatus = "cancelled"
	StatusRescheduled BookingStatus = "rescheduled"
)

// CancelActor identifies who cancelled a booking
type CancelActor string

const (
	CancelActorClient CancelActor = "client"
	CancelActorStaff  CancelActor = "staff"
)

// TokenKind identifies the single transition a capability token grants
type TokenKind string

const (
	TokenConfirm    TokenKind = "confirm"
	TokenCancel     TokenKind = "cancel"
	TokenReschedule TokenKind = "reschedule"
)

// Booking represents a client appointment with an employee.
// A booking occupies the half-open interval [StartTime, EndTime).
type Booking struct {
	ID              int64
	EmployeeID      int64
	ClientName      string
	ClientEmail     string
	Subject         string
	Notes           *string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Status          BookingStatus

	// Capability tokens, one per allowed client transition
	ConfirmToken    string
	CancelToken     string
	RescheduleToken string

	// External calendar sync results (best-effort, may stay empty)
	CalendarEventID *string
	MeetingLink     *string

	CancelledBy        *CancelActor
	CancellationReason *string

	// For rescheduled bookings: id of the replacement record
	RescheduledToID *int64

	CreatedAt   time.Time
	RespondedAt *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	UpdatedAt   time.Time
}

// IsActive returns true if the booking still occupies its interval
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted ||
		b.Status == StatusNoShow ||
		b.Status == StatusCancelled ||
		b.Status == StatusRescheduled
}

// CanBeConfirmed returns true if the booking can be confirmed
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking can be rescheduled
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeFinished returns true if the booking can be marked completed or
// no-show: it must be confirmed and its scheduled start must have elapsed
func (b *Booking) CanBeFinished(now time.Time) bool {
	return b.Status == StatusConfirmed && !now.Before(b.StartTime)
}

// Overlaps reports whether the booking interval intersects [start, end).
// Intervals that merely touch at a boundary do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// EmployeeBookingsFilter фильтр для выборки бронирований сотрудника
type EmployeeBookingsFilter struct {
	EmployeeID      int64          // Обязательный параметр
	Status          *BookingStatus // Фильтр по статусу (опционально)
	From            *time.Time     // Начало периода (опционально)
	To              *time.Time     // Конец периода (опционально)
	IncludeInactive bool           // Включать ли завершенные и отмененные бронирования
}
