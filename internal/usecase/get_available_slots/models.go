package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса доступных слотов
type Request struct {
	IDOrAlias string     // Числовой ID сотрудника или публичный алиас
	From      *time.Time // Начало периода (опционально, по умолчанию сейчас)
	To        *time.Time // Конец периода (опционально, по умолчанию горизонт профиля)
}

// Slot один доступный слот
type Slot struct {
	Start           time.Time // Начало слота
	End             time.Time // Конец слота
	DurationMinutes int       // Длительность в минутах
}

// StaffSummary краткая карточка сотрудника в выдаче слотов
type StaffSummary struct {
	EmployeeID  int64
	PublicAlias *string
}

// EffectiveSettings действующие настройки профиля, по которым построена выдача
// Значения берутся из профиля после наложения значений по умолчанию
type EffectiveSettings struct {
	SlotDurationMinutes int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	MinNoticeMinutes    int
	MaxAdvanceDays      int
	AcceptingBookings   bool
	Windows             [7]domain.WeekdayWindow
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Staff    StaffSummary
	Settings EffectiveSettings
	Slots    []Slot // Доступные слоты в хронологическом порядке
}

// newResponse собирает ответ из разрешенного профиля и отфильтрованных слотов
func newResponse(profile *domain.SchedulingProfile, slots []Slot) *Response {
	return &Response{
		Staff: StaffSummary{
			EmployeeID:  profile.EmployeeID,
			PublicAlias: profile.PublicAlias,
		},
		Settings: EffectiveSettings{
			SlotDurationMinutes: profile.SlotDurationMinutes,
			BufferBeforeMinutes: profile.BufferBeforeMinutes,
			BufferAfterMinutes:  profile.BufferAfterMinutes,
			MinNoticeMinutes:    profile.MinNoticeMinutes,
			MaxAdvanceDays:      profile.MaxAdvanceDays,
			AcceptingBookings:   profile.AcceptingBookings,
			Windows:             profile.Windows,
		},
		Slots: slots,
	}
}
