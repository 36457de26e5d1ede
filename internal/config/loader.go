// internal/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads .env, configs/config.yaml and the environment, in that order of precedence
// (environment wins). A missing config file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromLegacyEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// bindEnv registers every key viper should look up in the environment even when the
// config file does not mention it; AutomaticEnv alone only covers keys viper already knows.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"server.port",
		"database.postgres.host", "database.postgres.port", "database.postgres.database",
		"database.postgres.user", "database.postgres.password", "database.postgres.sslmode",
		"database.redis.address", "database.redis.password", "database.redis.db",
		"queue.driver", "queue.amqp_url",
		"auth.jwt_secret", "auth.token_ttl",
		"campaign.progress_step", "campaign.progress_interval",
		"messaging.deep_link_base", "messaging.test_phone",
		"logging.level", "logging.format",
	} {
		_ = v.BindEnv(key)
	}
}

// overrideFromLegacyEnv keeps the plain DB_* variables working.
func overrideFromLegacyEnv(cfg *Config) {
	pg := &cfg.Database.Postgres
	if val := os.Getenv("DB_HOST"); val != "" && pg.Host == "" {
		pg.Host = val
	}
	if val := os.Getenv("DB_USER"); val != "" && pg.User == "" {
		pg.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" && pg.Password == "" {
		pg.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" && pg.Database == "" {
		pg.Database = val
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}

	if cfg.Queue.Driver == "" {
		cfg.Queue.Driver = "memory"
	}
	if cfg.Queue.MaxRetries == 0 {
		cfg.Queue.MaxRetries = 3
	}

	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "walink"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * 60 * 60
	}
	if cfg.Auth.MinPasswordLength == 0 {
		cfg.Auth.MinPasswordLength = 6
	}
	if cfg.Auth.MaxFailedSignIns == 0 {
		cfg.Auth.MaxFailedSignIns = 5
	}
	if cfg.Auth.ThrottleWindow == 0 {
		cfg.Auth.ThrottleWindow = 15 * 60
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 10
	}

	if cfg.Campaign.ProgressStep == 0 {
		cfg.Campaign.ProgressStep = 10
	}
	if cfg.Campaign.ProgressInterval == 0 {
		cfg.Campaign.ProgressInterval = 2000
	}

	if cfg.Messaging.DeepLinkBase == "" {
		cfg.Messaging.DeepLinkBase = "https://wa.me/"
	}
	if cfg.Messaging.TestPhone == "" {
		cfg.Messaging.TestPhone = "5491122334455"
	}

	if cfg.Renderer.DateLayout == "" {
		cfg.Renderer.DateLayout = "02/01/2006"
	}
	if cfg.Renderer.ServicePhrase == "" {
		cfg.Renderer.ServicePhrase = "nuestro servicio"
	}
	if cfg.Renderer.Price == "" {
		cfg.Renderer.Price = "$99"
	}
	if cfg.Renderer.PreviewName == "" {
		cfg.Renderer.PreviewName = "Cliente de Prueba"
	}
	if cfg.Renderer.PreviewService == "" {
		cfg.Renderer.PreviewService = "servicio de prueba"
	}

	if cfg.Session.SnapshotTTL == 0 {
		cfg.Session.SnapshotTTL = 300
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	switch cfg.Queue.Driver {
	case "memory":
	case "amqp":
		if cfg.Queue.AMQPURL == "" {
			return fmt.Errorf("queue.amqp_url is required for the amqp driver")
		}
	default:
		return fmt.Errorf("unknown queue.driver %q", cfg.Queue.Driver)
	}
	if cfg.Campaign.ProgressStep <= 0 || cfg.Campaign.ProgressStep > 100 {
		return fmt.Errorf("campaign.progress_step must be within 1..100")
	}
	if cfg.Campaign.ProgressInterval <= 0 {
		return fmt.Errorf("campaign.progress_interval must be positive")
	}
	return nil
}
