package confirm_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/internal/tokens"
)

type fakeBookingRepo struct {
	booking    *domain.Booking
	getErr     error
	confirmErr error
	confirmed  bool
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	return f.booking, f.getErr
}

func (f *fakeBookingRepo) Confirm(_ context.Context, _ int64) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed = true
	return nil
}

type fakeNotifier struct {
	events []notifier.EventType
}

func (f *fakeNotifier) SendAsync(event notifier.EventType, _, _ int64, _ string, _ map[string]string) {
	f.events = append(f.events, event)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:           77,
		EmployeeID:   42,
		ClientEmail:  "anna@example.com",
		Subject:      "Интервью",
		StartTime:    time.Date(2025, 10, 14, 9, 40, 0, 0, time.UTC),
		EndTime:      time.Date(2025, 10, 14, 10, 10, 0, 0, time.UTC),
		Status:       domain.StatusPending,
		ConfirmToken: "confirm-token",
	}
}

func TestExecute_ConfirmsPendingBooking(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	notify := &fakeNotifier{}
	uc := NewUseCase(repo, tokens.NewAuthority(), notify, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 77, Token: "confirm-token"})
	require.NoError(t, err)

	assert.True(t, repo.confirmed)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, []notifier.EventType{notifier.EventBookingConfirmed}, notify.events)
}

func TestExecute_InvalidToken(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	uc := NewUseCase(repo, tokens.NewAuthority(), &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 77, Token: "wrong-token"})
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, repo.confirmed)
}

func TestExecute_RepeatConfirmIsConflict(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.StatusConfirmed
	repo := &fakeBookingRepo{booking: b}
	uc := NewUseCase(repo, tokens.NewAuthority(), &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 77, Token: "confirm-token"})
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestExecute_ConcurrentTransitionIsConflict(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking(), confirmErr: bookingRepo.ErrInvalidTransition}
	uc := NewUseCase(repo, tokens.NewAuthority(), &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 77, Token: "confirm-token"})
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestExecute_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
	uc := NewUseCase(repo, tokens.NewAuthority(), &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 77, Token: "confirm-token"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_MissingToken(t *testing.T) {
	repo := &fakeBookingRepo{booking: pendingBooking()}
	uc := NewUseCase(repo, tokens.NewAuthority(), &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 77})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
