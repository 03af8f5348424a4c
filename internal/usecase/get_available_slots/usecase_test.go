package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/calendarsync"
	profileService "github.com/m04kA/SMC-AppointmentService/internal/service/profile"
)

type fakeResolver struct {
	profile *domain.SchedulingProfile
	err     error
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) (*domain.SchedulingProfile, error) {
	return f.profile, f.err
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (f *fakeBookingRepo) GetActiveInRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Booking, error) {
	return f.bookings, f.err
}

type fakeCalendar struct {
	busy []calendarsync.BusyInterval
}

func (f *fakeCalendar) GetBusyIntervalsWithGracefulDegradation(_ context.Context, _ int64, _, _ time.Time) []calendarsync.BusyInterval {
	return f.busy
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Понедельник 08:00 UTC
var testNow = time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)

func newUseCase(resolver *fakeResolver, repo *fakeBookingRepo, calendar *fakeCalendar) *UseCase {
	uc := NewUseCase(resolver, repo, calendar, time.UTC, nopLogger{})
	uc.timeProvider = &fixedTime{now: testNow}
	return uc
}

func TestExecute_ReturnsChronologicalSlots(t *testing.T) {
	profile := domain.DefaultProfile(42)
	profile.MaxAdvanceDays = 2
	uc := newUseCase(&fakeResolver{profile: profile}, &fakeBookingRepo{}, &fakeCalendar{})

	resp, err := uc.Execute(context.Background(), &Request{IDOrAlias: "42"})
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.Staff.EmployeeID)
	assert.Equal(t, 30, resp.Settings.SlotDurationMinutes)
	require.NotEmpty(t, resp.Slots)

	// Первый слот учитывает уведомление 240 минут: не раньше 12:00
	first := resp.Slots[0]
	assert.False(t, first.Start.Before(testNow.Add(4*time.Hour)))

	for i := 1; i < len(resp.Slots); i++ {
		assert.True(t, resp.Slots[i].Start.After(resp.Slots[i-1].Start))
	}
}

func TestExecute_BookedSlotsAreRemoved(t *testing.T) {
	profile := domain.DefaultProfile(42)
	profile.MaxAdvanceDays = 1
	booked := &domain.Booking{
		EmployeeID: 42,
		StartTime:  time.Date(2025, 10, 14, 9, 40, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 10, 14, 10, 10, 0, 0, time.UTC),
		Status:     domain.StatusConfirmed,
	}
	uc := newUseCase(&fakeResolver{profile: profile}, &fakeBookingRepo{bookings: []*domain.Booking{booked}}, &fakeCalendar{})

	resp, err := uc.Execute(context.Background(), &Request{IDOrAlias: "42"})
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		overlaps := slot.Start.Before(booked.EndTime) && booked.StartTime.Before(slot.End)
		assert.False(t, overlaps, "slot %s overlaps booked interval", slot.Start)
	}
}

func TestExecute_CalendarBusyBlocksAreRemoved(t *testing.T) {
	profile := domain.DefaultProfile(42)
	profile.MaxAdvanceDays = 1
	busy := calendarsync.BusyInterval{
		Start: time.Date(2025, 10, 14, 13, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 10, 14, 14, 0, 0, 0, time.UTC),
	}
	uc := newUseCase(&fakeResolver{profile: profile}, &fakeBookingRepo{}, &fakeCalendar{busy: []calendarsync.BusyInterval{busy}})

	resp, err := uc.Execute(context.Background(), &Request{IDOrAlias: "42"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)

	for _, slot := range resp.Slots {
		overlaps := slot.Start.Before(busy.End) && busy.Start.Before(slot.End)
		assert.False(t, overlaps, "slot %s overlaps busy interval", slot.Start)
	}
}

func TestExecute_NotAcceptingReturnsEmptyList(t *testing.T) {
	profile := domain.DefaultProfile(42)
	profile.AcceptingBookings = false
	uc := newUseCase(&fakeResolver{profile: profile}, &fakeBookingRepo{}, &fakeCalendar{})

	resp, err := uc.Execute(context.Background(), &Request{IDOrAlias: "42"})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	// Карточка и настройки отдаются даже при закрытой записи
	assert.Equal(t, int64(42), resp.Staff.EmployeeID)
	assert.False(t, resp.Settings.AcceptingBookings)
	assert.Equal(t, domain.DefaultSlotDurationMinutes, resp.Settings.SlotDurationMinutes)
}

func TestExecute_ResponseCarriesStaffAndEffectiveSettings(t *testing.T) {
	profile := domain.DefaultProfile(42)
	alias := "anna"
	profile.PublicAlias = &alias
	profile.MinNoticeMinutes = 120
	profile.BufferBeforeMinutes = 10
	profile.BufferAfterMinutes = 15
	profile.MaxAdvanceDays = 2
	uc := newUseCase(&fakeResolver{profile: profile}, &fakeBookingRepo{}, &fakeCalendar{})

	resp, err := uc.Execute(context.Background(), &Request{IDOrAlias: "anna"})
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.Staff.EmployeeID)
	require.NotNil(t, resp.Staff.PublicAlias)
	assert.Equal(t, "anna", *resp.Staff.PublicAlias)

	assert.Equal(t, 120, resp.Settings.MinNoticeMinutes)
	assert.Equal(t, 10, resp.Settings.BufferBeforeMinutes)
	assert.Equal(t, 15, resp.Settings.BufferAfterMinutes)
	assert.Equal(t, 2, resp.Settings.MaxAdvanceDays)
	assert.True(t, resp.Settings.AcceptingBookings)

	// Окна недели отдаются целиком, включая выходной
	assert.False(t, resp.Settings.Windows[int(domain.DefaultDayOff)].Enabled)
	assert.Equal(t, domain.DefaultWindowStart, resp.Settings.Windows[1].Start)
}

func TestExecute_EmployeeNotFound(t *testing.T) {
	uc := newUseCase(&fakeResolver{err: profileService.ErrEmployeeNotFound}, &fakeBookingRepo{}, &fakeCalendar{})

	_, err := uc.Execute(context.Background(), &Request{IDOrAlias: "ghost"})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestExecute_RangeClampedToHorizon(t *testing.T) {
	profile := domain.DefaultProfile(42)
	profile.MaxAdvanceDays = 2
	uc := newUseCase(&fakeResolver{profile: profile}, &fakeBookingRepo{}, &fakeCalendar{})

	farFuture := testNow.AddDate(0, 1, 0)
	resp, err := uc.Execute(context.Background(), &Request{IDOrAlias: "42", To: &farFuture})
	require.NoError(t, err)

	horizon := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	for _, slot := range resp.Slots {
		assert.True(t, slot.Start.Before(horizon))
	}
}

func TestExecute_InvalidRange(t *testing.T) {
	profile := domain.DefaultProfile(42)
	uc := newUseCase(&fakeResolver{profile: profile}, &fakeBookingRepo{}, &fakeCalendar{})

	from := testNow.AddDate(0, 0, 5)
	to := testNow.AddDate(0, 0, 2)
	_, err := uc.Execute(context.Background(), &Request{IDOrAlias: "42", From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
