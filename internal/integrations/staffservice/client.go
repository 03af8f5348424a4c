package staffservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы со StaffService (каталог сотрудников)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента StaffService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetEmployee получает сотрудника по ID
// Используется для проверки существования сотрудника перед выдачей слотов
func (c *Client) GetEmployee(ctx context.Context, employeeID int64) (*Employee, error) {
	url := fmt.Sprintf("%s/internal/employees/%d", c.baseURL, employeeID)

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

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid employee ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrEmployeeNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var employee Employee
	if err := json.NewDecoder(resp.Body).Decode(&employee); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &employee, nil
}

// Exists проверяет, что сотрудник существует и активен
func (c *Client) Exists(ctx context.Context, employeeID int64) (bool, error) {
	employee, err := c.GetEmployee(ctx, employeeID)
	if err != nil {
		if err == ErrEmployeeNotFound {
			return false, nil
		}
		c.log.Error("StaffService lookup failed for employee_id=%d: %v", employeeID, err)
		return false, err
	}
	return employee.Active, nil
}
