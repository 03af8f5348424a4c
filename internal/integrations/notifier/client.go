package notifier

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

// Client клиент для отправки уведомлений через Notifier
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Notifier
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет событие уведомления
func (c *Client) Send(ctx context.Context, n Notification) error {
	if n.RequestID == "" {
		n.RequestID = uuid.NewString()
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}

// SendAsync отправляет уведомление в фоне, ошибки только логируются
// Уведомления не влияют на результат операции бронирования
func (c *Client) SendAsync(event EventType, bookingID, employeeID int64, clientEmail string, payload map[string]string) {
	n := Notification{
		RequestID:   uuid.NewString(),
		Event:       event,
		BookingID:   bookingID,
		EmployeeID:  employeeID,
		ClientEmail: clientEmail,
		Payload:     payload,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := c.Send(ctx, n); err != nil {
			c.log.Error("Failed to send notification %s for booking_id=%d: %v", event, bookingID, err)
			return
		}
		c.log.Info("Notification %s sent for booking_id=%d", event, bookingID)
	}()
}
