package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Lending   LendingConfig   `yaml:"lending"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// LendingConfig contains the process-wide lending policy. It is loaded once
// at startup and passed by value into the services that need it, so a run
// never observes a rate change mid-flight.
type LendingConfig struct {
	DailyFineRateCents int64 `yaml:"daily_fine_rate_cents"`
	GracePeriodDays    int   `yaml:"grace_period_days"`
	HoldDurationHours  int   `yaml:"hold_duration_hours"`
	LoanPeriodDays     int   `yaml:"loan_period_days"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpireReservations string `yaml:"expire_reservations"`
	OverdueReport      string `yaml:"overdue_report"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Lending policy
	if val := os.Getenv("DAILY_FINE_RATE_CENTS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Lending.DailyFineRateCents)
	}
	if val := os.Getenv("GRACE_PERIOD_DAYS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Lending.GracePeriodDays)
	}
	if val := os.Getenv("HOLD_DURATION_HOURS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Lending.HoldDurationHours)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60 // 1 hour
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 60 * 24 * 7 // 7 days
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Lending policy defaults. Grace period legitimately defaults to zero.
	if c.Lending.DailyFineRateCents == 0 {
		c.Lending.DailyFineRateCents = 100 // $1.00/day
	}
	if c.Lending.DailyFineRateCents < 0 {
		return fmt.Errorf("daily fine rate must not be negative")
	}
	if c.Lending.GracePeriodDays < 0 {
		return fmt.Errorf("grace period days must not be negative")
	}
	if c.Lending.HoldDurationHours == 0 {
		c.Lending.HoldDurationHours = 48
	}
	if c.Lending.HoldDurationHours < 0 {
		return fmt.Errorf("hold duration hours must not be negative")
	}
	if c.Lending.LoanPeriodDays == 0 {
		c.Lending.LoanPeriodDays = 14
	}
	if c.Lending.LoanPeriodDays < 0 {
		return fmt.Errorf("loan period days must not be negative")
	}

	// Scheduler defaults
	if c.Scheduler.ExpireReservations == "" {
		c.Scheduler.ExpireReservations = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.OverdueReport == "" {
		c.Scheduler.OverdueReport = "0 0 2 * * *" // 2 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
