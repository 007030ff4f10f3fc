package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hrm-suite/hrm-backend-go/internal/domain/attendance"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Policy   PolicyConfig
	Cron     CronConfig
	Admin    AdminConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// PolicyConfig holds the raw attendance policy values
type PolicyConfig struct {
	WorkStart        string
	WorkEnd          string
	Timezone         string
	DefaultLeaveDays float64
	OvertimeRate     string
	WorkdayRule      string
}

type CronConfig struct {
	Enabled  bool
	Interval time.Duration
}

// AdminConfig names the bootstrap administrator created at startup
type AdminConfig struct {
	Email    string
	Password string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrm"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance policy
	leaveDays, err := strconv.ParseFloat(getEnv("POLICY_DEFAULT_LEAVE_DAYS", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid POLICY_DEFAULT_LEAVE_DAYS: %w", err)
	}

	config.Policy = PolicyConfig{
		WorkStart:        getEnv("POLICY_WORK_START", "08:00"),
		WorkEnd:          getEnv("POLICY_WORK_END", "17:00"),
		Timezone:         getEnv("POLICY_TIMEZONE", "Local"),
		DefaultLeaveDays: leaveDays,
		OvertimeRate:     getEnv("POLICY_OVERTIME_RATE", "0"),
		WorkdayRule:      getEnv("POLICY_WORKDAY_RRULE", attendance.DefaultWorkdayRule),
	}

	// Scheduled jobs
	cronEnabled, err := strconv.ParseBool(getEnv("CRON_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_ENABLED: %w", err)
	}
	cronInterval, err := time.ParseDuration(getEnv("CRON_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_INTERVAL: %w", err)
	}

	config.Cron = CronConfig{
		Enabled:  cronEnabled,
		Interval: cronInterval,
	}

	config.Admin = AdminConfig{
		Email:    getEnv("ADMIN_EMAIL", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_TIME: %w", err)
	}
	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if _, err := c.AttendancePolicy(); err != nil {
		return err
	}
	return nil
}

// AttendancePolicy builds the organisation attendance policy.
func (c *Config) AttendancePolicy() (attendance.Policy, error) {
	start, err := attendance.ParseClockTime(c.Policy.WorkStart)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid POLICY_WORK_START: %w", err)
	}
	end, err := attendance.ParseClockTime(c.Policy.WorkEnd)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid POLICY_WORK_END: %w", err)
	}
	loc, err := time.LoadLocation(c.Policy.Timezone)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid POLICY_TIMEZONE: %w", err)
	}
	rate, err := decimal.NewFromString(c.Policy.OvertimeRate)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid POLICY_OVERTIME_RATE: %w", err)
	}

	policy := attendance.Policy{
		WorkStart:           start,
		WorkEnd:             end,
		Location:            loc,
		DefaultLeaveDays:    c.Policy.DefaultLeaveDays,
		OvertimeRatePerHour: rate,
		WorkdayRule:         c.Policy.WorkdayRule,
	}
	if err := policy.Validate(); err != nil {
		return attendance.Policy{}, err
	}
	return policy, nil
}

// LogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
