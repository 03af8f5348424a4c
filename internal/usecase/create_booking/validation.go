package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/schedule"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.IDOrAlias == "" {
		return fmt.Errorf("%w: employee id or alias is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName must be at most %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}

	if req.ClientEmail == "" {
		return fmt.Errorf("%w: clientEmail is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.ClientEmail); err != nil {
		return fmt.Errorf("%w: invalid clientEmail format", ErrInvalidInput)
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	if len(subject) > domain.MaxSubjectLength {
		return fmt.Errorf("%w: subject must be at most %d characters", ErrInvalidInput, domain.MaxSubjectLength)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	return nil
}

// validateStartTime проверяет время начала против правил профиля:
// минимальное уведомление, горизонт бронирования и попадание на сетку слотов
func validateStartTime(profile *domain.SchedulingProfile, start, now time.Time, loc *time.Location) error {
	if start.Before(now.Add(time.Duration(profile.MinNoticeMinutes) * time.Minute)) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, profile.MinNoticeMinutes)
	}

	// Горизонт сравнивается по датам: последний день горизонта доступен целиком
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
