package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Admin     AdminConfig
	CORS      CORSConfig
	RabbitMQ  RabbitMQConfig
	Site      SiteConfig
	Scheduler SchedulerConfig
	Directory DirectoryConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// AdminConfig holds the single administrator account and its session settings.
type AdminConfig struct {
	Username      string
	Password      string
	PasswordHash  string // bcrypt; takes precedence over Password
	SessionSecret string
	SessionTTL    time.Duration
	CookieName    string
	LoginURL      string // browser redirect target for unauthenticated admin pages
	SecureCookie  bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RabbitMQConfig struct {
	URL      string // empty disables publishing
	Exchange string
}

type SiteConfig struct {
	BaseURL string
}

type SchedulerConfig struct {
	StatsRefreshSpec string
}

type DirectoryConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: environment,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "kaduna_directory"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "false")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Admin: AdminConfig{
			Username:      getEnv("ADMIN_USERNAME", "admin"),
			Password:      getEnv("ADMIN_PASSWORD", ""),
			PasswordHash:  getEnv("ADMIN_PASSWORD_HASH", ""),
			SessionSecret: getEnv("ADMIN_SESSION_SECRET", "default_secret_key_change_me"),
			SessionTTL:    parseDuration(getEnv("ADMIN_SESSION_TTL", "24h"), 24*time.Hour),
			CookieName:    getEnv("ADMIN_SESSION_COOKIE", "admin_session"),
			LoginURL:      getEnv("ADMIN_LOGIN_URL", "/admin/login"),
			SecureCookie:  environment == "production",
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "directory.events"),
		},
		Site: SiteConfig{
			BaseURL: strings.TrimSuffix(getEnv("SITE_URL", "http://localhost:3000"), "/"),
		},
		Scheduler: SchedulerConfig{
			StatsRefreshSpec: getEnv("STATS_REFRESH_SPEC", "@every 1h"),
		},
		Directory: DirectoryConfig{
			DefaultPageSize: parseInt(getEnv("DIRECTORY_PAGE_SIZE", "12"), 12),
			MaxPageSize:     parseInt(getEnv("DIRECTORY_MAX_PAGE_SIZE", "100"), 100),
		},
	}

	if config.Admin.Password == "" && config.Admin.PasswordHash == "" {
		return nil, fmt.Errorf("either ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

func parseSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
