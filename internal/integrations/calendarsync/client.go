package calendarsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client клиент для работы с CalendarSync (внешние календари сотрудников)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента CalendarSync
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetBusyIntervals получает занятые интервалы сотрудника за период
func (c *Client) GetBusyIntervals(ctx context.Context, employeeID int64, from, to time.Time) ([]BusyInterval, error) {
	url := fmt.Sprintf(
		"%s/internal/calendars/%d/busy?from=%s&to=%s",
		c.baseURL, employeeID,
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var result busyIntervalsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return result.Intervals, nil
}

// GetBusyIntervalsWithGracefulDegradation получает занятость с graceful degradation
// При недоступности календаря возвращает пустой список: слоты считаются
// только по журналу бронирований, что безопасно благодаря exclusion constraint
func (c *Client) GetBusyIntervalsWithGracefulDegradation(ctx context.Context, employeeID int64, from, to time.Time) []BusyInterval {
	intervals, err := c.GetBusyIntervals(ctx, employeeID, from, to)
	if err != nil {
		c.log.Error("CalendarSync unavailable, applying graceful degradation for employee_id=%d: %v", employeeID, err)
		return nil
	}
	return intervals
}

// PushEvent создает событие в календаре сотрудника и возвращает ссылку на встречу
// request_id обеспечивает идемпотентность повторной отправки
func (c *Client) PushEvent(ctx context.Context, employeeID int64, subject, clientName, clientEmail string, start, end time.Time) (*CalendarEvent, error) {
	payload := pushEventRequest{
		RequestID:   uuid.NewString(),
		EmployeeID:  employeeID,
		Subject:     subject,
		ClientName:  clientName,
		ClientEmail: clientEmail,
		StartTime:   start.UTC(),
		EndTime:     end.UTC(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/calendars/%d/events", c.baseURL, employeeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrServiceDegraded, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var event CalendarEvent
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &event, nil
}
