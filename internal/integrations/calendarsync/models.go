package calendarsync

import "time"

// BusyInterval занятый интервал из внешнего календаря сотрудника
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// busyIntervalsResponse ответ на запрос занятости
type busyIntervalsResponse struct {
	Intervals []BusyInterval `json:"intervals"`
}

// pushEventRequest запрос на создание события в календаре сотрудника
type pushEventRequest struct {
	RequestID   string    `json:"request_id"`
	EmployeeID  int64     `json:"employee_id"`
	Subject     string    `json:"subject"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

// CalendarEvent результат создания события в календаре
type CalendarEvent struct {
	EventID     string  `json:"event_id"`
	MeetingLink *string `json:"meeting_link,omitempty"`
}
