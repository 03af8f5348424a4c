package get_available_slots

import (
	"time"

	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// slotLabelLayout формат человекочитаемой подписи слота в локальной таймзоне
const slotLabelLayout = "02.01.2006 15:04"

var weekdayNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// StaffSummaryResponse краткая карточка сотрудника
type StaffSummaryResponse struct {
	EmployeeID  int64   `json:"employeeId"`
	PublicAlias *string `json:"publicAlias,omitempty"`
}

// WindowSettingsResponse окно одного дня недели в действующих настройках
type WindowSettingsResponse struct {
	Weekday string `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Enabled bool   `json:"enabled"`
}

// EffectiveSettingsResponse действующие настройки, по которым построена выдача
type EffectiveSettingsResponse struct {
	SlotDurationMinutes int                      `json:"slotDurationMinutes"`
	BufferBeforeMinutes int                      `json:"bufferBeforeMinutes"`
	BufferAfterMinutes  int                      `json:"bufferAfterMinutes"`
	MinNoticeMinutes    int                      `json:"minNoticeMinutes"`
	MaxAdvanceDays      int                      `json:"maxAdvanceDays"`
	AcceptingBookings   bool                     `json:"acceptingBookings"`
	Windows             []WindowSettingsResponse `json:"windows"`
}

// SlotResponse один доступный слот
type SlotResponse struct {
	Start           string `json:"start"` // RFC 3339
	End             string `json:"end"`   // RFC 3339
	DurationMinutes int    `json:"durationMinutes"`
	Label           string `json:"label"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Staff    StaffSummaryResponse      `json:"staff"`
	Settings EffectiveSettingsResponse `json:"settings"`
	Slots    []SlotResponse            `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	windows := make([]WindowSettingsResponse, 0, len(resp.Settings.Windows))
	for i, w := range resp.Settings.Windows {
		windows = append(windows, WindowSettingsResponse{
			Weekday: weekdayNames[i],
			Start:   w.Start.String(),
			End:     w.End.String(),
			Enabled: w.Enabled,
		})
	}

	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			Start:           s.Start.Format(time.RFC3339),
			End:             s.End.Format(time.RFC3339),
			DurationMinutes: s.DurationMinutes,
			Label:           s.Start.Format(slotLabelLayout),
		})
	}

	return &AvailableSlotsResponse{
		Staff: StaffSummaryResponse{
			EmployeeID:  resp.Staff.EmployeeID,
			PublicAlias: resp.Staff.PublicAlias,
		},
		Settings: EffectiveSettingsResponse{
			SlotDurationMinutes: resp.Settings.SlotDurationMinutes,
			BufferBeforeMinutes: resp.Settings.BufferBeforeMinutes,
			BufferAfterMinutes:  resp.Settings.BufferAfterMinutes,
			MinNoticeMinutes:    resp.Settings.MinNoticeMinutes,
			MaxAdvanceDays:      resp.Settings.MaxAdvanceDays,
			AcceptingBookings:   resp.Settings.AcceptingBookings,
			Windows:             windows,
		},
		Slots: slots,
	}
}
