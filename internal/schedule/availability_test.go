package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func slot(start time.Time, minutes int) domain.CandidateSlot {
	return domain.CandidateSlot{
		Start:           start,
		End:             start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
	}
}

func booking(status domain.BookingStatus, start time.Time, minutes int) *domain.Booking {
	return &domain.Booking{
		Status:    status,
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestFilterAvailable_RemovesOverlapping(t *testing.T) {
	base := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)

	candidates := []domain.CandidateSlot{
		slot(base, 30),                      // 09:00-09:30
		slot(base.Add(40*time.Minute), 30),  // 09:40-10:10
		slot(base.Add(80*time.Minute), 30),  // 10:20-10:50
		slot(base.Add(120*time.Minute), 30), // 11:00-11:30
	}

	bookings := []*domain.Booking{
		// 09:50-10:20: пересекает 09:40-10:10, граничит с 10:20-10:50
		booking(domain.StatusConfirmed, base.Add(50*time.Minute), 30),
	}

	available := FilterAvailable(candidates, bookings, nil)

	assert.Len(t, available, 3)
	assert.Equal(t, base, available[0].Start)
	// Граничащий слот 10:20 не считается пересечением
	assert.Equal(t, base.Add(80*time.Minute), available[1].Start)
	assert.Equal(t, base.Add(120*time.Minute), available[2].Start)
}

func TestFilterAvailable_IgnoresInactiveBookings(t *testing.T) {
	base := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)
	candidates := []domain.CandidateSlot{slot(base, 30)}

	for _, status := range []domain.BookingStatus{
		domain.StatusCancelled,
		domain.StatusCompleted,
		domain.StatusNoShow,
		domain.StatusRescheduled,
	} {
		available := FilterAvailable(candidates, []*domain.Booking{booking(status, base, 30)}, nil)
		assert.Len(t, available, 1, "status %s must not block the slot", status)
	}

	for _, status := range []domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed} {
		available := FilterAvailable(candidates, []*domain.Booking{booking(status, base, 30)}, nil)
		assert.Empty(t, available, "status %s must block the slot", status)
	}
}

func TestFilterAvailable_AppliesBusyBlocks(t *testing.T) {
	base := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)

	candidates := []domain.CandidateSlot{
		slot(base, 30),
		slot(base.Add(40*time.Minute), 30),
	}

	busy := []domain.BusyBlock{
		{Start: base.Add(15 * time.Minute), End: base.Add(35 * time.Minute)},
	}

	available := FilterAvailable(candidates, nil, busy)
	assert.Len(t, available, 1)
	assert.Equal(t, base.Add(40*time.Minute), available[0].Start)

	// Отсутствие внешних блоков не мешает локальной фильтрации
	available = FilterAvailable(candidates, nil, nil)
	assert.Len(t, available, 2)
}
