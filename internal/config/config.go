// internal/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Campaign  CampaignConfig  `mapstructure:"campaign"`
	Messaging MessagingConfig `mapstructure:"messaging"`
	Renderer  RendererConfig  `mapstructure:"renderer"`
	Session   SessionConfig   `mapstructure:"session"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

// Addr returns the listen address for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// QueueConfig selects the queue backing send-log records and async notices.
// Driver is "memory" or "amqp".
type QueueConfig struct {
	Driver     string `mapstructure:"driver"`
	AMQPURL    string `mapstructure:"amqp_url"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type AuthConfig struct {
	JWTSecret         string `mapstructure:"jwt_secret"`
	Issuer            string `mapstructure:"issuer"`
	TokenTTL          int    `mapstructure:"token_ttl"` // seconds
	MinPasswordLength int    `mapstructure:"min_password_length"`
	MaxFailedSignIns  int    `mapstructure:"max_failed_sign_ins"`
	ThrottleWindow    int    `mapstructure:"throttle_window"` // seconds
	BcryptCost        int    `mapstructure:"bcrypt_cost"`
}

// CampaignConfig drives the simulated progress ticker.
type CampaignConfig struct {
	ProgressStep     int `mapstructure:"progress_step"`
	ProgressInterval int `mapstructure:"progress_interval"` // milliseconds
}

type MessagingConfig struct {
	DeepLinkBase string `mapstructure:"deep_link_base"`
	TestPhone    string `mapstructure:"test_phone"`
}

// RendererConfig holds the fixed phrases substituted into templates.
type RendererConfig struct {
	DateLayout     string `mapstructure:"date_layout"`
	ServicePhrase  string `mapstructure:"service_phrase"`
	Price          string `mapstructure:"price"`
	PreviewName    string `mapstructure:"preview_name"`
	PreviewService string `mapstructure:"preview_service"`
}

type SessionConfig struct {
	SnapshotTTL int `mapstructure:"snapshot_ttl"` // seconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetSeconds converts seconds from config to time.Duration
func GetSeconds(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
