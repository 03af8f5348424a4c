package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из TOML файла
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Logs         LogsConfig         `toml:"logs"`
	Database     DatabaseConfig     `toml:"database"`
	Redis        RedisConfig        `toml:"redis"`
	Metrics      MetricsConfig      `toml:"metrics"`
	RateLimit    RateLimitConfig    `toml:"rate_limit"`
	Captcha      CaptchaConfig      `toml:"captcha"`
	StaffService IntegrationConfig  `toml:"staff_service"`
	CalendarSync IntegrationConfig  `toml:"calendar_sync"`
	Notifier     IntegrationConfig  `toml:"notifier"`
	Booking      BookingConfig      `toml:"booking"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN собирает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisConfig настройки Redis для счетчиков rate limiter
// При disabled используется in-memory реализация (для single-instance)
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// RateLimitConfig настройки ограничения создания бронирований
type RateLimitConfig struct {
	CreateLimit   int `toml:"create_limit"`   // запросов на адрес за окно
	WindowMinutes int `toml:"window_minutes"` // размер окна
}

// CaptchaConfig настройки проверки человечности перед созданием бронирования
type CaptchaConfig struct {
	Enabled   bool   `toml:"enabled"`
	VerifyURL string `toml:"verify_url"`
	Secret    string `toml:"secret"`
	Timeout   int    `toml:"timeout"` // секунды
}

// IntegrationConfig общие настройки внешнего HTTP сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// BookingConfig бизнес-настройки бронирования
type BookingConfig struct {
	// Смещение локальной таймзоны в минутах (фиксированное, без DST)
	TimezoneOffsetMinutes int `toml:"timezone_offset_minutes"`
	// Базовый URL для ссылок-действий в ответе создания бронирования
	PublicBaseURL string `toml:"public_base_url"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if cfg.RateLimit.CreateLimit <= 0 {
		cfg.RateLimit.CreateLimit = 5
	}
	if cfg.RateLimit.WindowMinutes <= 0 {
		cfg.RateLimit.WindowMinutes = 60
	}

	return &cfg, nil
}
