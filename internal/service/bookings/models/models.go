package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetEmployeeBookingsRequest запрос на получение бронирований сотрудника
type GetEmployeeBookingsRequest struct {
	EmployeeID      int64      `json:"employeeId"`
	From            *time.Time `json:"from,omitempty"`            // Начало периода (опционально)
	To              *time.Time `json:"to,omitempty"`              // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить завершенные и отмененные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetEmployeeBookingsRequest) ToDomainFilter() (domain.EmployeeBookingsFilter, error) {
	filter := domain.EmployeeBookingsFilter{
		EmployeeID:      r.EmployeeID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// CancelByStaffRequest запрос сотрудника на отмену бронирования
type CancelByStaffRequest struct {
	EmployeeID         int64  `json:"employeeId"`
	CancellationReason string `json:"cancellationReason"`
}

// Response модели

// BookingResponse ответ с данными бронирования (staff-облик, с контактами клиента)
type BookingResponse struct {
	ID              int64     `json:"id"`
	EmployeeID      int64     `json:"employeeId"`
	ClientName      string    `json:"clientName"`
	ClientEmail     string    `json:"clientEmail"`
	Subject         string    `json:"subject"`
	Notes           *string   `json:"notes,omitempty"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`

	MeetingLink *string `json:"meetingLink,omitempty"`

	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format
	RescheduledToID    *int64  `json:"rescheduledToId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		EmployeeID:         b.EmployeeID,
		ClientName:         b.ClientName,
		ClientEmail:        b.ClientEmail,
		Subject:            b.Subject,
		Notes:              b.Notes,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		MeetingLink:        b.MeetingLink,
		CancellationReason: b.CancellationReason,
		RescheduledToID:    b.RescheduledToID,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledBy != nil {
		actor := string(*b.CancelledBy)
		resp.CancelledBy = &actor
	}
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusCompleted,
		domain.StatusNoShow,
		domain.StatusCancelled,
		domain.StatusRescheduled,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
