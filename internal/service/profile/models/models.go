package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var (
	// ErrInvalidWindow возвращается при некорректном окне дня недели
	ErrInvalidWindow = errors.New("invalid weekday window")

	// ErrInvalidWeekday возвращается при неизвестном дне недели
	ErrInvalidWeekday = errors.New("invalid weekday name")
)

var weekdayNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// Request модели

// WindowRequest окно одного дня недели в запросе настроек
type WindowRequest struct {
	Weekday string `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Enabled bool   `json:"enabled"`
}

// UpdateSettingsRequest запрос на обновление настроек расписания
// Указанные поля заменяют текущие значения, nil-поля не изменяются
type UpdateSettingsRequest struct {
	EmployeeID int64

	PublicAlias         *string         `json:"publicAlias,omitempty"`
	SlotDurationMinutes *int            `json:"slotDurationMinutes,omitempty"`
	BufferBeforeMinutes *int            `json:"bufferBeforeMinutes,omitempty"`
	BufferAfterMinutes  *int            `json:"bufferAfterMinutes,omitempty"`
	MinNoticeMinutes    *int            `json:"minNoticeMinutes,omitempty"`
	MaxAdvanceDays      *int            `json:"maxAdvanceDays,omitempty"`
	AcceptingBookings   *bool           `json:"acceptingBookings,omitempty"`
	AutoConfirm         *bool           `json:"autoConfirm,omitempty"`
	Windows             []WindowRequest `json:"windows,omitempty"`
}

// ApplyTo накладывает изменения запроса на профиль
func (r *UpdateSettingsRequest) ApplyTo(p *domain.SchedulingProfile) error {
	if r.PublicAlias != nil {
		if *r.PublicAlias == "" {
			p.PublicAlias = nil
		} else {
			p.PublicAlias = r.PublicAlias
		}
	}
	if r.SlotDurationMinutes != nil {
		p.SlotDurationMinutes = *r.SlotDurationMinutes
	}
	if r.BufferBeforeMinutes != nil {
		p.BufferBeforeMinutes = *r.BufferBeforeMinutes
	}
	if r.BufferAfterMinutes != nil {
		p.BufferAfterMinutes = *r.BufferAfterMinutes
	}
	if r.MinNoticeMinutes != nil {
		p.MinNoticeMinutes = *r.MinNoticeMinutes
	}
	if r.MaxAdvanceDays != nil {
		p.MaxAdvanceDays = *r.MaxAdvanceDays
	}
	if r.AcceptingBookings != nil {
		p.AcceptingBookings = *r.AcceptingBookings
	}
	if r.AutoConfirm != nil {
		p.AutoConfirm = *r.AutoConfirm
	}

	for _, w := range r.Windows {
		weekday, ok := parseWeekday(w.Weekday)
		if !ok {
			return ErrInvalidWeekday
		}

		start, err := types.NewTimeStringFromString(w.Start)
		if err != nil {
			return ErrInvalidWindow
		}
		end, err := types.NewTimeStringFromString(w.End)
		if err != nil {
			return ErrInvalidWindow
		}
		if w.Enabled && !start.IsBefore(end) {
			return ErrInvalidWindow
		}

		p.Windows[int(weekday)] = domain.WeekdayWindow{
			Start:   start,
			End:     end,
			Enabled: w.Enabled,
		}
	}

	return nil
}

// Response модели

// WindowResponse окно одного дня недели в ответе настроек
type WindowResponse struct {
	Weekday string `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Enabled bool   `json:"enabled"`
}

// SettingsResponse ответ с настройками расписания сотрудника
type SettingsResponse struct {
	EmployeeID          int64   `json:"employeeId"`
	PublicAlias         *string `json:"publicAlias,omitempty"`
	SlotDurationMinutes int     `json:"slotDurationMinutes"`
	BufferBeforeMinutes int     `json:"bufferBeforeMinutes"`
	BufferAfterMinutes  int     `json:"bufferAfterMinutes"`
	MinNoticeMinutes    int     `json:"minNoticeMinutes"`
	MaxAdvanceDays      int     `json:"maxAdvanceDays"`
	AcceptingBookings   bool    `json:"acceptingBookings"`
	AutoConfirm         bool    `json:"autoConfirm"`

	Windows []WindowResponse `json:"windows"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainProfile конвертирует domain модель в DTO
func FromDomainProfile(p *domain.SchedulingProfile) *SettingsResponse {
	if p == nil {
		return nil
	}

	resp := &SettingsResponse{
		EmployeeID:          p.EmployeeID,
		PublicAlias:         p.PublicAlias,
		SlotDurationMinutes: p.SlotDurationMinutes,
		BufferBeforeMinutes: p.BufferBeforeMinutes,
		BufferAfterMinutes:  p.BufferAfterMinutes,
		MinNoticeMinutes:    p.MinNoticeMinutes,
		MaxAdvanceDays:      p.MaxAdvanceDays,
		AcceptingBookings:   p.AcceptingBookings,
		AutoConfirm:         p.AutoConfirm,
		Windows:             make([]WindowResponse, 0, len(p.Windows)),
		UpdatedAt:           p.UpdatedAt,
	}

	for i, w := range p.Windows {
		resp.Windows = append(resp.Windows, WindowResponse{
			Weekday: weekdayNames[i],
			Start:   w.Start.String(),
			End:     w.End.String(),
			Enabled: w.Enabled,
		})
	}

	return resp
}

func parseWeekday(name string) (time.Weekday, bool) {
	for i, n := range weekdayNames {
		if n == name {
			return time.Weekday(i), true
		}
	}
	return 0, false
}
