package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client клиент проверки человечности (Cloudflare Turnstile siteverify API)
type Client struct {
	verifyURL  string
	secret     string
	enabled    bool
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента проверки капчи
// При enabled=false проверка всегда проходит успешно
func NewClient(verifyURL, secret string, enabled bool, timeout time.Duration, log Logger) *Client {
	return &Client{
		verifyURL: verifyURL,
		secret:    secret,
		enabled:   enabled,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify проверяет токен капчи
// Возвращает ErrVerificationFailed только при явном отказе проверяющего
// сервиса. При его недоступности запрос пропускается (graceful degradation):
// rate limiter остается второй линией защиты
func (c *Client) Verify(ctx context.Context, token, remoteIP string) error {
	if !c.enabled {
		return nil
	}

	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)
	form.Set("remoteip", remoteIP)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Captcha verify unavailable, skipping check: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("Captcha verify returned status %d, skipping check", resp.StatusCode)
		return nil
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.log.Error("Captcha verify returned invalid body, skipping check: %v", err)
		return nil
	}

	if !result.Success {
		return fmt.Errorf("%w: %s", ErrVerificationFailed, strings.Join(result.ErrorCodes, ", "))
	}

	return nil
}
