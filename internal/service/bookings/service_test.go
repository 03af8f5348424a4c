package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

type fakeBookingRepo struct {
	booking   *domain.Booking
	bookings  []*domain.Booking
	getErr    error
	listErr   error
	cancelErr error
	finishErr error

	filter         domain.EmployeeBookingsFilter
	finishedStatus domain.BookingStatus
	cancelActor    domain.CancelActor
	cancelReason   string
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	return f.booking, f.getErr
}

func (f *fakeBookingRepo) GetByEmployeeWithFilter(_ context.Context, filter domain.EmployeeBookingsFilter) ([]*domain.Booking, error) {
	f.filter = filter
	return f.bookings, f.listErr
}

func (f *fakeBookingRepo) Cancel(_ context.Context, _ int64, actor domain.CancelActor, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelActor = actor
	f.cancelReason = reason
	return nil
}

func (f *fakeBookingRepo) Finish(_ context.Context, _ int64, status domain.BookingStatus) error {
	if f.finishErr != nil {
		return f.finishErr
	}
	f.finishedStatus = status
	return nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2025, 10, 14, 11, 0, 0, 0, time.UTC)

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:          77,
		EmployeeID:  42,
		ClientName:  "Анна Иванова",
		ClientEmail: "anna@example.com",
		Subject:     "Консультация",
		StartTime:   time.Date(2025, 10, 14, 9, 40, 0, 0, time.UTC),
		EndTime:     time.Date(2025, 10, 14, 10, 10, 0, 0, time.UTC),
		Status:      domain.StatusConfirmed,
	}
}

func newService(repo *fakeBookingRepo) *Service {
	return NewService(repo, &fixedTime{now: testNow}, nopLogger{})
}

func TestGetByID_ReturnsOwnBooking(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	svc := newService(repo)

	resp, err := svc.GetByID(context.Background(), 77, 42)
	require.NoError(t, err)

	assert.Equal(t, int64(77), resp.ID)
	assert.Equal(t, "anna@example.com", resp.ClientEmail)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestGetByID_ForeignBookingIsDenied(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	svc := newService(repo)

	_, err := svc.GetByID(context.Background(), 77, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
	svc := newService(repo)

	_, err := svc.GetByID(context.Background(), 77, 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetEmployeeBookings_PassesFilter(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{confirmedBooking()}}
	svc := newService(repo)

	status := "confirmed"
	from := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	resp, err := svc.GetEmployeeBookings(context.Background(), &models.GetEmployeeBookingsRequest{
		EmployeeID: 42,
		From:       &from,
		Status:     &status,
	})
	require.NoError(t, err)

	assert.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(42), repo.filter.EmployeeID)
	require.NotNil(t, repo.filter.Status)
	assert.Equal(t, domain.StatusConfirmed, *repo.filter.Status)
	require.NotNil(t, repo.filter.From)
	assert.True(t, from.Equal(*repo.filter.From))
}

func TestGetEmployeeBookings_InvalidStatus(t *testing.T) {
	repo := &fakeBookingRepo{}
	svc := newService(repo)

	status := "unknown"
	_, err := svc.GetEmployeeBookings(context.Background(), &models.GetEmployeeBookingsRequest{
		EmployeeID: 42,
		Status:     &status,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestComplete_MarksConfirmedBooking(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	svc := newService(repo)

	err := svc.Complete(context.Background(), 77, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, repo.finishedStatus)
}

func TestNoShow_MarksConfirmedBooking(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	svc := newService(repo)

	err := svc.NoShow(context.Background(), 77, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoShow, repo.finishedStatus)
}

func TestComplete_BeforeStartIsRejected(t *testing.T) {
	b := confirmedBooking()
	b.StartTime = testNow.Add(2 * time.Hour)
	b.EndTime = b.StartTime.Add(30 * time.Minute)
	repo := &fakeBookingRepo{booking: b}
	svc := newService(repo)

	err := svc.Complete(context.Background(), 77, 42)
	assert.ErrorIs(t, err, ErrCannotFinish)
}

func TestComplete_PendingIsRejected(t *testing.T) {
	b := confirmedBooking()
	b.Status = domain.StatusPending
	repo := &fakeBookingRepo{booking: b}
	svc := newService(repo)

	err := svc.Complete(context.Background(), 77, 42)
	assert.ErrorIs(t, err, ErrCannotFinish)
}

func TestComplete_ConcurrentTransitionIsConflict(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking(), finishErr: bookingRepo.ErrInvalidTransition}
	svc := newService(repo)

	err := svc.Complete(context.Background(), 77, 42)
	assert.ErrorIs(t, err, ErrCannotFinish)
}

func TestCancel_RecordsStaffActorAndReason(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	svc := newService(repo)

	err := svc.Cancel(context.Background(), 77, &models.CancelByStaffRequest{
		EmployeeID:         42,
		CancellationReason: "сотрудник заболел",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CancelActorStaff, repo.cancelActor)
	assert.Equal(t, "сотрудник заболел", repo.cancelReason)
}

func TestCancel_TerminalStatusIsRejected(t *testing.T) {
	for _, status := range domain.TerminalStatuses {
		t.Run(string(status), func(t *testing.T) {
			b := confirmedBooking()
			b.Status = status
			repo := &fakeBookingRepo{booking: b}
			svc := newService(repo)

			err := svc.Cancel(context.Background(), 77, &models.CancelByStaffRequest{EmployeeID: 42})
			assert.ErrorIs(t, err, ErrCannotCancel)
		})
	}
}

func TestCancel_ForeignBookingIsDenied(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	svc := newService(repo)

	err := svc.Cancel(context.Background(), 77, &models.CancelByStaffRequest{EmployeeID: 99})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
