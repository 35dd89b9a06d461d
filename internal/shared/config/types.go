package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

// QRConfig holds the ticket token encryption settings. KeyHex must decode to
// 32 bytes.
type QRConfig struct {
	KeyHex          string `mapstructure:"key_hex"`
	MaxTokenAgeDays int    `mapstructure:"max_token_age_days"`
}

func (q *QRConfig) MaxTokenAge() time.Duration {
	days := q.MaxTokenAgeDays
	if days <= 0 {
		days = 365
	}
	return time.Duration(days) * 24 * time.Hour
}

type ScannerAuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// TicketingConfig groups the lifecycle tuning knobs: how long an unpaid
// reservation is held, how often the expiry sweep runs, and QR token settings.
type TicketingConfig struct {
	HoldMinutes       int               `mapstructure:"hold_minutes"`
	SweepIntervalMins int               `mapstructure:"sweep_interval_minutes"`
	QR                QRConfig          `mapstructure:"qr"`
	Scanner           ScannerAuthConfig `mapstructure:"scanner"`
}

func (t *TicketingConfig) HoldTTL() time.Duration {
	mins := t.HoldMinutes
	if mins <= 0 {
		mins = 30
	}
	return time.Duration(mins) * time.Minute
}

func (t *TicketingConfig) SweepInterval() time.Duration {
	mins := t.SweepIntervalMins
	if mins <= 0 {
		mins = 5
	}
	return time.Duration(mins) * time.Minute
}
