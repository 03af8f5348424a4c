package schedule

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// FilterAvailable убирает из списка кандидатов слоты, пересекающиеся
// с активными бронированиями или с внешними busy-блоками
//
// Пересечение считается по полуоткрытым интервалам [start, end):
// кандидат выбывает, если candidate.start < existing.end И
// candidate.end > existing.start. Граничащие интервалы не пересекаются.
//
// Busy-блоки опциональны: при недоступности внешнего календаря вызывающая
// сторона передает пустой срез, и фильтрация работает только по локальным
// бронированиям
func FilterAvailable(
	candidates []domain.CandidateSlot,
	bookings []*domain.Booking,
	busy []domain.BusyBlock,
) []domain.CandidateSlot {
	available := make([]domain.CandidateSlot, 0, len(candidates))

	for _, slot := range candidates {
		if overlapsBooking(slot, bookings) {
			continue
		}
		if overlapsBusy(slot, busy) {
			continue
		}
		available = append(available, slot)
	}

	return available
}

func overlapsBooking(slot domain.CandidateSlot, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		// Завершенные и отмененные бронирования не занимают интервал
		if !b.IsActive() {
			continue
		}
		if slot.Overlaps(b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}

func overlapsBusy(slot domain.CandidateSlot, busy []domain.BusyBlock) bool {
	for _, blk := range busy {
		if slot.Overlaps(blk.Start, blk.End) {
			return true
		}
	}
	return false
}
