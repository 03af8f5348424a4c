package cancel_booking

import (
	"context"
	"strings"
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
	booking   *domain.Booking
	getErr    error
	cancelErr error
	actor     domain.CancelActor
	reason    string
	cancelled bool
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	return f.booking, f.getErr
}

func (f *fakeBookingRepo) Cancel(_ context.Context, _ int64, actor domain.CancelActor, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = true
	f.actor = actor
	f.reason = reason
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

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:          77,
		EmployeeID:  42,
		ClientEmail: "anna@example.com",
		Subject:     "Интервью",
		StartTime:   time.Date(2025, 10, 14, 9, 40, 0, 0, time.UTC),
		EndTime:     time.Date(2025, 10, 14, 10, 10, 0, 0, time.UTC),
		Status:      domain.StatusConfirmed,
		CancelToken: "cancel-token",
	}
}

func TestExecute_CancelsByClient(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	notify := &fakeNotifier{}
	uc := NewUseCase(repo, tokens.NewAuthority(), notify, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 77,
		Token:     "cancel-token",
		Reason:    "не смогу прийти",
	})
	require.NoError(t, err)

	assert.True(t, repo.cancelled)
	assert.Equal(t, domain.CancelActorClient, repo.actor)
	assert.Equal(t, "не смогу прийти", repo.reason)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, string(domain.CancelActorClient), resp.CancelledBy)
	assert.Equal(t, []notifier.EventType{notifier.EventBookingCancelled}, notify.events)
}

func TestExecute_InvalidToken(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	uc := NewUseCase(repo, tokens.NewAuthority(), &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 77, Token: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, repo.cancelled)
}

func TestExecute_TerminalStatusCannotBeCancelled(t *testing.T) {
	for _, status := range domain.TerminalStatuses {
		t.Run(string(status), func(t *testing.T) {
			b := confirmedBooking()
			b.Status = status
			repo := &fakeBookingRepo{booking: b}
			uc := NewUseCase(repo, tokens.NewAuthority(), &fakeNotifier{}, nopLogger{})

			_, err := uc.Execute(context.Background(), &Request{BookingID: 77, Token: "cancel-token"})
			assert.ErrorIs(t, err, ErrCannotCancel)
		})
	}
}

func TestExecute_ConcurrentTransitionIsConflict(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking(), cancelErr: bookingRepo.ErrInvalidTransition}
	uc := NewUseCase(repo, tokens.NewAuthority(), &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 77, Token: "cancel-token"})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestExecute_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
	uc := NewUseCase(repo, tokens.NewAuthority(), &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 77, Token: "cancel-token"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_ReasonTooLong(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	uc := NewUseCase(repo, tokens.NewAuthority(), &fakeNotifier{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 77,
		Token:     "cancel-token",
		Reason:    strings.Repeat("a", domain.MaxCancellationReasonLength+1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
