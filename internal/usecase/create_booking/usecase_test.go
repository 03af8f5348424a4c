package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/ratelimit"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/calendarsync"
	captchaClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/captcha"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	profileService "github.com/m04kA/SMC-AppointmentService/internal/service/profile"
	"github.com/m04kA/SMC-AppointmentService/internal/tokens"
)

// Фейки зависимостей

type fakeBookingRepo struct {
	created   *domain.Booking
	createErr error
	refSaved  bool
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	b.ID = 101
	b.CreatedAt = time.Now()
	f.created = b
	return b, nil
}

func (f *fakeBookingRepo) SetCalendarRef(_ context.Context, _ int64, _, _ *string) error {
	f.refSaved = true
	return nil
}

type fakeResolver struct {
	profile *domain.SchedulingProfile
	err     error
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) (*domain.SchedulingProfile, error) {
	return f.profile, f.err
}

type fakeLimiter struct {
	decision ratelimit.Decision
	err      error
	calls    int
}

func (f *fakeLimiter) Allow(_ context.Context, _ string) (ratelimit.Decision, error) {
	f.calls++
	return f.decision, f.err
}

type fakeCaptcha struct {
	err error
}

func (f *fakeCaptcha) Verify(_ context.Context, _, _ string) error {
	return f.err
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

type env struct {
	uc       *UseCase
	repo     *fakeBookingRepo
	limiter  *fakeLimiter
	captcha  *fakeCaptcha
	calendar *fakeCalendar
	notify   *fakeNotifier
	resolver *fakeResolver
}

// Понедельник 08:00 UTC, профиль по умолчанию: слот 30 минут, буферы 5+5,
// уведомление 240 минут, горизонт 30 дней
var testNow = time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		repo:     &fakeBookingRepo{},
		limiter:  &fakeLimiter{decision: ratelimit.Decision{Allowed: true, Remaining: 4}},
		captcha:  &fakeCaptcha{},
		calendar: &fakeCalendar{event: &calendarsync.CalendarEvent{EventID: "evt-1"}},
		notify:   &fakeNotifier{},
		resolver: &fakeResolver{profile: domain.DefaultProfile(42)},
	}

	e.uc = NewUseCase(
		e.repo, e.resolver, tokens.NewAuthority(), e.limiter, e.captcha,
		e.calendar, e.notify, time.UTC, nopLogger{},
	)
	e.uc.timeProvider = &fixedTime{now: testNow}

	return e
}

func validRequest() *Request {
	return &Request{
		IDOrAlias:   "42",
		StartTime:   time.Date(2025, 10, 14, 9, 40, 0, 0, time.UTC),
		ClientName:  "Anna Petrova",
		ClientEmail: "anna@example.com",
		Subject:     "Интервью",
		ClientIP:    "203.0.113.7",
	}
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	e := newEnv(t)

	resp, err := e.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, int64(42), resp.EmployeeID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, resp.StartTime.Add(30*time.Minute), resp.EndTime)

	// Три различных токена выпущены и сохранены
	assert.NotEmpty(t, resp.ConfirmToken)
	assert.NotEmpty(t, resp.CancelToken)
	assert.NotEmpty(t, resp.RescheduleToken)
	assert.NotEqual(t, resp.ConfirmToken, resp.CancelToken)

	assert.Equal(t, []notifier.EventType{notifier.EventBookingCreated}, e.notify.events)
	assert.True(t, e.repo.refSaved)
}

func TestExecute_AutoConfirmProfile(t *testing.T) {
	e := newEnv(t)
	e.resolver.profile.AutoConfirm = true

	resp, err := e.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_SlotTaken(t *testing.T) {
	e := newEnv(t)
	e.repo.createErr = bookingRepo.ErrSlotTaken

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, e.notify.events)
}

func TestExecute_RateLimited(t *testing.T) {
	e := newEnv(t)
	resetAt := testNow.Add(45 * time.Minute)
	e.limiter.decision = ratelimit.Decision{Allowed: false, ResetAt: resetAt}

	_, err := e.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrRateLimited)

	var rlErr *RateLimitedError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, resetAt, rlErr.ResetAt)
}

func TestExecute_LimiterOutageDoesNotBlock(t *testing.T) {
	e := newEnv(t)
	e.limiter.err = errors.New("redis: connection refused")

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_CaptchaFailed(t *testing.T) {
	e := newEnv(t)
	e.captcha.err = captchaClient.ErrVerificationFailed

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCaptchaFailed)
	// Капча отклонила запрос до обращения к limiter
	assert.Zero(t, e.limiter.calls)
}

func TestExecute_EmployeeNotFound(t *testing.T) {
	e := newEnv(t)
	e.resolver.profile = nil
	e.resolver.err = profileService.ErrEmployeeNotFound

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestExecute_NotAcceptingBookings(t *testing.T) {
	e := newEnv(t)
	e.resolver.profile.AcceptingBookings = false

	_, err := e.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrNotAcceptingBookings)
}

func TestExecute_MisalignedStartTime(t *testing.T) {
	e := newEnv(t)
	req := validRequest()
	// 09:50 не лежит на сетке с шагом 40 минут от 09:00
	req.StartTime = time.Date(2025, 10, 14, 9, 50, 0, 0, time.UTC)

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAligned)
}

func TestExecute_TooLateToBook(t *testing.T) {
	e := newEnv(t)
	req := validRequest()
	// 10:20 того же дня: меньше 240 минут от 08:00
	req.StartTime = time.Date(2025, 10, 13, 10, 20, 0, 0, time.UTC)

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_DateBeyondHorizon(t *testing.T) {
	e := newEnv(t)
	req := validRequest()
	// 31-й день при горизонте 30 дней
	req.StartTime = time.Date(2025, 11, 13, 9, 40, 0, 0, time.UTC)

	_, err := e.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_LastHorizonDayBookable(t *testing.T) {
	e := newEnv(t)
	req := validRequest()
	// Ровно 30-й день доступен целиком
	req.StartTime = time.Date(2025, 11, 12, 9, 40, 0, 0, time.UTC)

	_, err := e.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_CalendarOutageKeepsBooking(t *testing.T) {
	e := newEnv(t)
	e.calendar.event = nil
	e.calendar.err = errors.New("calendarsync: timeout")

	resp, err := e.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Nil(t, resp.MeetingLink)
	assert.False(t, e.repo.refSaved)
}

func TestExecute_ValidationErrors(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty name", func(r *Request) { r.ClientName = "  " }},
		{"bad email", func(r *Request) { r.ClientEmail = "not-an-email" }},
		{"empty subject", func(r *Request) { r.Subject = "" }},
		{"zero start", func(r *Request) { r.StartTime = time.Time{} }},
		{"empty idOrAlias", func(r *Request) { r.IDOrAlias = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := e.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
