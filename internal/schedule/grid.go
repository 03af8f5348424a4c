package schedule

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidConfiguration возвращается при вырожденной конфигурации профиля
	// (нулевая длительность слота или отрицательный буфер)
	ErrInvalidConfiguration = errors.New("schedule: invalid profile configuration")
)

// GenerateCandidates строит сетку слотов-кандидатов для сотрудника
// на диапазон дат [from, to] (границы по датам, включительно)
//
// Для каждого дня с включенным окном курсор идет от начала окна с шагом
// duration+buffer; слот попадает в результат, если он целиком помещается
// в окно и начинается не раньше max(from, now+minNotice)
//
// Результат отсортирован по возрастанию, без дубликатов и ограничен
// domain.MaxCandidateSlots элементами. Горизонт бронирования обрезается
// вызывающей стороной через параметр to (по датам, как в validateDate)
func GenerateCandidates(
	profile *domain.SchedulingProfile,
	from time.Time,
	to time.Time,
	now time.Time,
	loc *time.Location,
) ([]domain.CandidateSlot, error) {
	if profile.SlotDurationMinutes <= 0 || profile.BufferBeforeMinutes < 0 || profile.BufferAfterMinutes < 0 {
		return nil, ErrInvalidConfiguration
	}

	duration := time.Duration(profile.SlotDurationMinutes) * time.Minute
	step := duration + time.Duration(profile.CombinedBufferMinutes())*time.Minute

	// Самое раннее допустимое начало слота
	earliest := now.Add(time.Duration(profile.MinNoticeMinutes) * time.Minute)
	if from.After(earliest) {
		earliest = from
	}

	firstDay := dateOnly(from, loc)
	lastDay := dateOnly(to, loc)

	slots := make([]domain.CandidateSlot, 0)

	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		window := profile.WindowFor(day.Weekday())
		if !window.Enabled {
			continue
		}

		windowStart, err := window.Start.At(day, loc)
		if err != nil {
			continue
		}
		windowEnd, err := window.End.At(day, loc)
		if err != nil {
			continue
		}

		// Пустое или вырожденное окно не дает слотов
		if !windowEnd.After(windowStart) {
			continue
		}

		for cursor := windowStart; !cursor.Add(duration).After(windowEnd); cursor = cursor.Add(step) {
			if cursor.Before(earliest) {
				continue
			}
			if len(slots) >= domain.MaxCandidateSlots {
				return slots, nil
			}
			// Сетка строится строго по возрастанию; защита от дубликата
			// на стыке дней при нулевом шаге исключена проверкой выше
			if n := len(slots); n > 0 && !slots[n-1].Start.Before(cursor) {
				continue
			}
			slots = append(slots, domain.CandidateSlot{
				Start:           cursor,
				End:             cursor.Add(duration),
				DurationMinutes: profile.SlotDurationMinutes,
			})
		}
	}

	return slots, nil
}

// AlignedToGrid проверяет, что start совпадает с одним из узлов сетки
// рабочего окна своего дня (используется при валидации создания бронирования)
func AlignedToGrid(profile *domain.SchedulingProfile, start time.Time, loc *time.Location) bool {
	window := profile.WindowFor(start.In(loc).Weekday())
	if !window.Enabled {
		return false
	}

	day := dateOnly(start.In(loc), loc)
	windowStart, err := window.Start.At(day, loc)
	if err != nil {
		return false
	}
	windowEnd, err := window.End.At(day, loc)
	if err != nil {
		return false
	}

	duration := time.Duration(profile.SlotDurationMinutes) * time.Minute
	step := duration + time.Duration(profile.CombinedBufferMinutes())*time.Minute

	if start.Before(windowStart) || start.Add(duration).After(windowEnd) {
		return false
	}

	offset := start.Sub(windowStart)
	return offset%step == 0
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	tl := t.In(loc)
	return time.Date(tl.Year(), tl.Month(), tl.Day(), 0, 0, 0, 0, loc)
}
