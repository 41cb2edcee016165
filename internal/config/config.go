package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddr string
	GinMode    string

	DBDriver   string
	DBDSN      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBLogLevel string

	RedisURL         string
	CategoryCacheTTL time.Duration

	OpenAIAPIKey  string
	OpenAIBaseURL string

	// OverdueReportSchedule is a cron spec with a leading seconds field.
	// Empty disables the overdue report job.
	OverdueReportSchedule string
}

func Load() *Config {
	return &Config{
		ServerAddr:            getEnv("SERVER_ADDR", ":8080"),
		GinMode:               getEnv("GIN_MODE", "debug"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite"),
		DBDSN:                 getEnv("DB_DSN", ""),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", ""),
		DBUser:                getEnv("DB_USER", "taskuser"),
		DBPassword:            getEnv("DB_PASSWORD", "taskpassword"),
		DBName:                getEnv("DB_NAME", "task_management"),
		DBLogLevel:            getEnv("DB_LOG_LEVEL", "warn"),
		RedisURL:              getEnv("REDIS_URL", ""),
		CategoryCacheTTL:      time.Duration(getEnvInt("CATEGORY_CACHE_TTL_SECONDS", 600)) * time.Second,
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", ""),
		OverdueReportSchedule: getEnv("OVERDUE_REPORT_SCHEDULE", ""),
	}
}

// DSN returns the connection string for the configured driver. An explicit
// DB_DSN always wins over the assembled one.
func (c *Config) DSN() (string, error) {
	if c.DBDSN != "" {
		return c.DBDSN, nil
	}

	switch c.DBDriver {
	case "sqlite":
		return "tasks.db?_foreign_keys=on", nil
	case "mysql":
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser,
			c.DBPassword,
			c.DBHost,
			port,
			c.DBName,
		), nil
	case "postgres":
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			c.DBHost,
			port,
			c.DBUser,
			c.DBPassword,
			c.DBName,
		), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
