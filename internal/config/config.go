package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Scheduling    SchedulingConfig    `toml:"scheduling"`
	Redis         RedisConfig         `toml:"redis"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
	Notifications NotificationsConfig `toml:"notifications"`
	Tracing       TracingConfig       `toml:"tracing"`
	Chat          ChatConfig          `toml:"chat"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`  // секунды
	WriteTimeout    int `toml:"write_timeout"` // секунды
	IdleTimeout     int `toml:"idle_timeout"`  // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

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

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type SchedulingConfig struct {
	SlotStepMinutes       int    `toml:"slot_step_minutes"`
	DayStart              string `toml:"day_start"` // окно отображения сетки, "HH:MM"
	DayEnd                string `toml:"day_end"`
	BookingTimeoutSeconds int    `toml:"booking_timeout_seconds"`
	Timezone              string `toml:"timezone"`
	DefaultRegion         string `toml:"default_region"` // регион для разбора телефонов без кода страны

	dayStart types.TimeOfDay
	dayEnd   types.TimeOfDay
	location *time.Location
}

// Window окно отображения сетки слотов
func (c SchedulingConfig) Window() (types.TimeOfDay, types.TimeOfDay) {
	return c.dayStart, c.dayEnd
}

// Location часовой пояс салона
func (c SchedulingConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// BookingTimeout таймаут транзакции бронирования
func (c SchedulingConfig) BookingTimeout() time.Duration {
	return time.Duration(c.BookingTimeoutSeconds) * time.Second
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type RateLimitConfig struct {
	Enabled        bool     `toml:"enabled"`
	Limit          int      `toml:"limit"`
	WindowSeconds  int      `toml:"window_seconds"`
	Prefix         string   `toml:"prefix"`
	FailOpen       bool     `toml:"fail_open"`
	TrustedProxies []string `toml:"trusted_proxies"` // CIDR прокси, которым доверяется X-Forwarded-For
}

type NotificationsConfig struct {
	TimeoutSeconds int           `toml:"timeout_seconds"`
	Kafka          KafkaConfig   `toml:"kafka"`
	SMTP           SMTPConfig    `toml:"smtp"`
	Webhook        WebhookConfig `toml:"webhook"`
}

type KafkaConfig struct {
	Enabled bool   `toml:"enabled"`
	Brokers string `toml:"brokers"` // через запятую
	Topic   string `toml:"topic"`
}

type SMTPConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	UseTLS   bool   `toml:"use_tls"`
}

// WebhookConfig внешний канал доставки (SMS/мессенджер-шлюз), принимающий JSON
type WebhookConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Token   string `toml:"token"`
}

type TracingConfig struct {
	Enabled      bool    `toml:"enabled"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

type ChatConfig struct {
	SessionTTLMinutes int    `toml:"session_ttl_minutes"`
	KeyPrefix         string `toml:"key_prefix"`
}

// SessionTTL время жизни сессии диалога
func (c ChatConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Load читает конфигурацию из toml-файла, применяет значения по умолчанию и валидирует
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(string(data))
}

// Parse разбирает конфигурацию из строки
func Parse(data string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 15)
	setDefault(&c.Server.WriteTimeout, 15)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 10)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "salon_booking"
	}

	setDefault(&c.Scheduling.SlotStepMinutes, domain.DefaultSlotStepMinutes)
	setDefault(&c.Scheduling.BookingTimeoutSeconds, domain.DefaultBookingTimeoutSeconds)
	if c.Scheduling.DayStart == "" {
		c.Scheduling.DayStart = domain.DefaultDayStart
	}
	if c.Scheduling.DayEnd == "" {
		c.Scheduling.DayEnd = domain.DefaultDayEnd
	}
	if c.Scheduling.Timezone == "" {
		c.Scheduling.Timezone = "UTC"
	}
	if c.Scheduling.DefaultRegion == "" {
		c.Scheduling.DefaultRegion = domain.DefaultPhoneRegion
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}

	setDefault(&c.RateLimit.Limit, 60)
	setDefault(&c.RateLimit.WindowSeconds, 60)
	if c.RateLimit.Prefix == "" {
		c.RateLimit.Prefix = "rl"
	}

	setDefault(&c.Notifications.TimeoutSeconds, 5)
	if c.Notifications.Kafka.Topic == "" {
		c.Notifications.Kafka.Topic = "booking.created"
	}
	setDefault(&c.Notifications.SMTP.Port, 587)

	if c.Tracing.OTLPEndpoint == "" {
		c.Tracing.OTLPEndpoint = "localhost:4317"
	}
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}

	setDefault(&c.Chat.SessionTTLMinutes, 30)
	if c.Chat.KeyPrefix == "" {
		c.Chat.KeyPrefix = "chat:session"
	}
}

func (c *Config) validate() error {
	s := &c.Scheduling

	if s.SlotStepMinutes <= 0 || s.SlotStepMinutes > 24*60 {
		return fmt.Errorf("%w: scheduling.slot_step_minutes must be in (0, 1440]", ErrInvalidConfig)
	}
	if s.BookingTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: scheduling.booking_timeout_seconds must be positive", ErrInvalidConfig)
	}

	start, err := types.ParseTimeOfDay(s.DayStart)
	if err != nil {
		return fmt.Errorf("%w: scheduling.day_start: %v", ErrInvalidConfig, err)
	}
	end, err := types.ParseTimeOfDay(s.DayEnd)
	if err != nil {
		return fmt.Errorf("%w: scheduling.day_end: %v", ErrInvalidConfig, err)
	}
	if end <= start {
		return fmt.Errorf("%w: scheduling.day_end must be after day_start", ErrInvalidConfig)
	}
	s.dayStart, s.dayEnd = start, end

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}
	s.location = loc

	if c.Notifications.Kafka.Enabled && c.Notifications.Kafka.Brokers == "" {
		return fmt.Errorf("%w: notifications.kafka.brokers is required when kafka is enabled", ErrInvalidConfig)
	}
	if c.Notifications.SMTP.Enabled && (c.Notifications.SMTP.Host == "" || c.Notifications.SMTP.From == "") {
		return fmt.Errorf("%w: notifications.smtp.host and from are required when smtp is enabled", ErrInvalidConfig)
	}
	if c.Notifications.Webhook.Enabled && c.Notifications.Webhook.URL == "" {
		return fmt.Errorf("%w: notifications.webhook.url is required when webhook is enabled", ErrInvalidConfig)
	}
	if c.RateLimit.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("%w: rate_limit requires redis.enabled", ErrInvalidConfig)
	}
	for _, cidr := range c.RateLimit.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("%w: rate_limit.trusted_proxies: %v", ErrInvalidConfig, err)
		}
	}

	return nil
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}
