package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	App       *AppConfig
	Database  *DatabaseConfig
	Redis     *RedisConfig
	SMTP      *SMTPConfig
	Security  *SecurityConfig
	RateLimit *RateLimitConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Port        int
	BaseURL     string
	LogLevel    string
	LogFormat   string
}

type SecurityConfig struct {
	JWTSecret      string
	JWTTTL         time.Duration
	CookieTTLDays  int
	PasswordMinLen int
	TrustedProxies []string
}

type RateLimitConfig struct {
	Window time.Duration
	Max    int
}

func Load() (*Config, error) {
	config := &Config{
		App:       loadAppConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		SMTP:      loadSMTPConfig(),
		Security:  loadSecurityConfig(),
		RateLimit: loadRateLimitConfig(),
	}

	return config, nil
}

func loadAppConfig() *AppConfig {
	return &AppConfig{
		Name:        getEnv("APP_NAME", "gotours"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnvAsInt("APP_PORT", 8080),
		BaseURL:     getEnv("APP_BASE_URL", "http://localhost:8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}
}

func loadSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTTTL:         getEnvAsDuration("JWT_EXPIRES_IN", 24*time.Hour),
		CookieTTLDays:  getEnvAsInt("JWT_COOKIE_EXPIRES_IN", 90),
		PasswordMinLen: getEnvAsInt("PASSWORD_MIN_LENGTH", 8),
		TrustedProxies: nil,
	}
}

func loadRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Window: getEnvAsDuration("RATE_LIMIT_WINDOW", time.Hour),
		Max:    getEnvAsInt("RATE_LIMIT_MAX", 1000),
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
