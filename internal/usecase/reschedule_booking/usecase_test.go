package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/calendarsync"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/internal/tokens"
)

type fakeBookingRepo struct {
	booking     *domain.Booking
	getErr      error
	createErr   error
	markErr     error
	created     *domain.Booking
	markedOldID int64
	markedNewID int64
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	return f.booking, f.getErr
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	b.ID = 202
	b.CreatedAt = time.Now()
	f.created = b
	return b, nil
}

func (f *fakeBookingRepo) MarkRescheduled(_ context.Context, id, newID int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markedOldID = id
	f.markedNewID = newID
	return nil
}

func (f *fakeBookingRepo) SetCalendarRef(_ context.Context, _ int64, _, _ *string) error {
	return nil
}

type fakeResolver struct {
	profile *domain.SchedulingProfile
	err     error
}

func (f *fakeResolver) ResolveByEmployeeID(_ context.Context, _ int64) (*domain.SchedulingProfile, error) {
	return f.profile, f.err
}

// fakeTxManager выполняет функцию транзакции напрямую
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCalendar struct {
	event *calendarsync.CalendarEvent
	err   error
}

func (f *fakeCalendar) PushEvent(_ context.Context, _ int64, _, _, _ string, _, _ time.Time) (*calendarsync.CalendarEvent, error) {
	return f.event, f.err
}

type fakeNotifier struct {
	events []notifier.EventType
}

func (f *fakeNotifier) SendAsync(event notifier.EventType, _, _ int64, _ string, _ map[string]string) {
	f.events = append(f.events, event)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:              77,
		EmployeeID:      42,
		ClientName:      "Anna Petrova",
		ClientEmail:     "anna@example.com",
		Subject:         "Интервью",
		StartTime:       time.Date(2025, 10, 14, 9, 40, 0, 0, time.UTC),
		EndTime:         time.Date(2025, 10, 14, 10, 10, 0, 0, time.UTC),
		DurationMinutes: 30,
		Status:          domain.StatusConfirmed,
		RescheduleToken: "reschedule-token",
	}
}

func newUseCase(repo *fakeBookingRepo, resolver *fakeResolver, notify *fakeNotifier) *UseCase {
	uc := NewUseCase(
		repo, resolver, tokens.NewAuthority(), fakeTxManager{},
		&fakeCalendar{event: &calendarsync.CalendarEvent{EventID: "evt-2"}},
		notify, time.UTC, nopLogger{},
	)
	uc.timeProvider = &fixedTime{now: testNow}
	return uc
}

func validRequest() *Request {
	return &Request{
		BookingID:    77,
		Token:        "reschedule-token",
		NewStartTime: time.Date(2025, 10, 15, 10, 20, 0, 0, time.UTC),
	}
}

func TestExecute_ReschedulesBooking(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	notify := &fakeNotifier{}
	uc := newUseCase(repo, &fakeResolver{profile: domain.DefaultProfile(42)}, notify)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(202), resp.ID)
	assert.Equal(t, int64(77), resp.PreviousID)
	assert.Equal(t, int64(77), repo.markedOldID)
	assert.Equal(t, int64(202), repo.markedNewID)

	// Подтвержденный статус сохраняется за новой записью
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	// Новая тройка токенов, старые значения не переносятся
	assert.NotEmpty(t, resp.ConfirmToken)
	assert.NotEqual(t, "reschedule-token", resp.RescheduleToken)

	assert.Equal(t, []notifier.EventType{notifier.EventBookingRescheduled}, notify.events)
}

func TestExecute_PendingStaysPending(t *testing.T) {
	b := confirmedBooking()
	b.Status = domain.StatusPending
	repo := &fakeBookingRepo{booking: b}
	uc := newUseCase(repo, &fakeResolver{profile: domain.DefaultProfile(42)}, &fakeNotifier{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
}

func TestExecute_InvalidToken(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	uc := newUseCase(repo, &fakeResolver{profile: domain.DefaultProfile(42)}, &fakeNotifier{})

	req := validRequest()
	req.Token = "wrong"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, repo.created)
}

func TestExecute_TerminalStatusCannotBeRescheduled(t *testing.T) {
	b := confirmedBooking()
	b.Status = domain.StatusCancelled
	repo := &fakeBookingRepo{booking: b}
	uc := newUseCase(repo, &fakeResolver{profile: domain.DefaultProfile(42)}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCannotReschedule)
}

func TestExecute_NewSlotTaken(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking(), createErr: bookingRepo.ErrSlotTaken}
	uc := newUseCase(repo, &fakeResolver{profile: domain.DefaultProfile(42)}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	// Исходная запись не помечена перенесенной
	assert.Zero(t, repo.markedOldID)
}

func TestExecute_MisalignedNewStart(t *testing.T) {
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	uc := newUseCase(repo, &fakeResolver{profile: domain.DefaultProfile(42)}, &fakeNotifier{})

	req := validRequest()
	req.NewStartTime = time.Date(2025, 10, 15, 10, 30, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAligned)
}

func TestExecute_NotAcceptingBookings(t *testing.T) {
	profile := domain.DefaultProfile(42)
	profile.AcceptingBookings = false
	repo := &fakeBookingRepo{booking: confirmedBooking()}
	uc := newUseCase(repo, &fakeResolver{profile: profile}, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrNotAcceptingBookings)
}
