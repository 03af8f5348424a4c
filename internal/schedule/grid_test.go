package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// sundayThursdayProfile: Вс-Чт 09:00-17:00, Пт/Сб выходные,
// слот 30 минут, буфер 5+5, предупреждение 4 часа, горизонт 14 дней
func sundayThursdayProfile() *domain.SchedulingProfile {
	p := &domain.SchedulingProfile{
		EmployeeID:          1,
		SlotDurationMinutes: 30,
		BufferBeforeMinutes: 5,
		BufferAfterMinutes:  5,
		MinNoticeMinutes:    240,
		MaxAdvanceDays:      14,
		AcceptingBookings:   true,
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		enabled := wd != time.Friday && wd != time.Saturday
		p.Windows[int(wd)] = domain.WeekdayWindow{
			Start:   types.TimeString("09:00"),
			End:     types.TimeString("17:00"),
			Enabled: enabled,
		}
	}
	return p
}

func TestGenerateCandidates_SundayMorningQuery(t *testing.T) {
	loc := time.UTC
	// 2025-10-12 - воскресенье
	now := time.Date(2025, 10, 12, 8, 0, 0, 0, loc)
	profile := sundayThursdayProfile()

	from := now
	to := now.AddDate(0, 0, profile.MaxAdvanceDays)

	slots, err := GenerateCandidates(profile, from, to, now, loc)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	// Первый слот не раньше now + 4 часа (12:00), по сетке это 12:20
	first := slots[0]
	assert.False(t, first.Start.Before(now.Add(4*time.Hour)))
	assert.Equal(t, time.Date(2025, 10, 12, 12, 20, 0, 0, loc), first.Start)

	// Последний слот - через 14 дней, начало не позже 16:30
	last := slots[len(slots)-1]
	assert.Equal(t, time.Date(2025, 10, 26, 16, 20, 0, 0, loc), last.Start)

	lastAllowedDay := time.Date(2025, 10, 26, 0, 0, 0, 0, loc)
	for _, s := range slots {
		assert.False(t, s.Start.Before(now.Add(4*time.Hour)), "slot %s before minimum notice", s.Start)
		assert.False(t, s.Start.After(lastAllowedDay.Add(16*time.Hour+30*time.Minute)),
			"slot %s beyond booking horizon", s.Start)
		// Пятница и суббота выключены
		wd := s.Start.Weekday()
		assert.NotEqual(t, time.Friday, wd)
		assert.NotEqual(t, time.Saturday, wd)
	}
}

func TestGenerateCandidates_SpacingEqualsDurationPlusBuffer(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 10, 12, 8, 0, 0, 0, loc)
	profile := sundayThursdayProfile()

	slots, err := GenerateCandidates(profile, now, now.AddDate(0, 0, 14), now, loc)
	require.NoError(t, err)

	step := 40 * time.Minute // 30 слот + 10 буфер
	for i := 1; i < len(slots); i++ {
		prev, cur := slots[i-1], slots[i]
		// Слоты не пересекаются
		assert.False(t, cur.Start.Before(prev.End), "slots %s and %s overlap", prev.Start, cur.Start)
		// Внутри одного дня шаг ровно duration+buffer
		if prev.Start.Day() == cur.Start.Day() {
			assert.Equal(t, step, cur.Start.Sub(prev.Start))
		}
	}
}

func TestGenerateCandidates_DisabledAndEmptyWindows(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 10, 13, 6, 0, 0, 0, loc) // понедельник

	profile := sundayThursdayProfile()
	profile.MinNoticeMinutes = 60
	// Вторник: окно выключено, среда: вырожденное окно
	profile.Windows[int(time.Tuesday)].Enabled = false
	profile.Windows[int(time.Wednesday)] = domain.WeekdayWindow{
		Start:   types.TimeString("10:00"),
		End:     types.TimeString("10:00"),
		Enabled: true,
	}

	slots, err := GenerateCandidates(profile, now, now.AddDate(0, 0, 3), now, loc)
	require.NoError(t, err)

	for _, s := range slots {
		assert.NotEqual(t, time.Tuesday, s.Start.Weekday(), "disabled weekday emitted a slot")
		assert.NotEqual(t, time.Wednesday, s.Start.Weekday(), "zero-length window emitted a slot")
	}
}

func TestGenerateCandidates_CapsSlotCount(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 10, 12, 0, 0, 0, 0, loc)

	profile := sundayThursdayProfile()
	profile.SlotDurationMinutes = 5
	profile.BufferBeforeMinutes = 0
	profile.BufferAfterMinutes = 0
	profile.MinNoticeMinutes = 0
	for i := range profile.Windows {
		profile.Windows[i] = domain.WeekdayWindow{
			Start:   types.TimeString("00:00"),
			End:     types.TimeString("23:55"),
			Enabled: true,
		}
	}

	slots, err := GenerateCandidates(profile, now, now.AddDate(0, 0, 30), now, loc)
	require.NoError(t, err)
	assert.Len(t, slots, domain.MaxCandidateSlots)
}

func TestGenerateCandidates_RejectsDegenerateConfiguration(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 10, 12, 8, 0, 0, 0, loc)

	profile := sundayThursdayProfile()
	profile.SlotDurationMinutes = 0

	_, err := GenerateCandidates(profile, now, now.AddDate(0, 0, 7), now, loc)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestAlignedToGrid(t *testing.T) {
	loc := time.UTC
	profile := sundayThursdayProfile()

	// 2025-10-13 - понедельник, окно 09:00-17:00, шаг 40 минут
	assert.True(t, AlignedToGrid(profile, time.Date(2025, 10, 13, 9, 0, 0, 0, loc), loc))
	assert.True(t, AlignedToGrid(profile, time.Date(2025, 10, 13, 12, 20, 0, 0, loc), loc))

	// Не по сетке
	assert.False(t, AlignedToGrid(profile, time.Date(2025, 10, 13, 9, 15, 0, 0, loc), loc))
	// До открытия окна
	assert.False(t, AlignedToGrid(profile, time.Date(2025, 10, 13, 8, 20, 0, 0, loc), loc))
	// Слот не помещается до конца окна
	assert.False(t, AlignedToGrid(profile, time.Date(2025, 10, 13, 16, 40, 0, 0, loc), loc))
	// Выходной день
	assert.False(t, AlignedToGrid(profile, time.Date(2025, 10, 17, 10, 20, 0, 0, loc), loc))
}
