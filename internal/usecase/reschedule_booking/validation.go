package reschedule_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/schedule"
)

// validateNewStartTime проверяет новое время против правил профиля
// Перенос проходит те же проверки, что и создание: уведомление, горизонт, сетка
func validateNewStartTime(profile *domain.SchedulingProfile, start, now time.Time, loc *time.Location) error {
	if start.Before(now.Add(time.Duration(profile.MinNoticeMinutes) * time.Minute)) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, profile.MinNoticeMinutes)
	}

	localStart := start.In(loc)
	localNow := now.In(loc)
	maxDate := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, profile.MaxAdvanceDays)
	startDate := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, loc)
	if startDate.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, profile.MaxAdvanceDays)
	}

	if !schedule.AlignedToGrid(profile, start, loc) {
		return ErrSlotNotAligned
	}

	return nil
}
