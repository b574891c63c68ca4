package config

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrMissingSecret = errors.New("SECRET_KEY is required")

// maxAccessTokenMinutes - больше не помещается в time.Duration.
const maxAccessTokenMinutes = int(math.MaxInt64 / int64(time.Minute))

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Debug       bool   `yaml:"debug"`
	LogLevel    string `yaml:"log_level"`
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	FrontendURL string `yaml:"frontend_url"`
	// Разрешённые источники для CORS
	AllowedOrigins []string `yaml:"allowed_origins"`
	// Требовать сессию для POST /products
	CatalogWriteRequiresAuth bool `yaml:"catalog_write_requires_auth"`
}

type PostgresConfig struct {
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
}

// DSN возвращает строку подключения: DATABASE_URL, если задан, иначе собирает её из частей.
func (c PostgresConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type AuthConfig struct {
	SecretKey          string `yaml:"secret_key"`
	AccessTokenMinutes int    `yaml:"access_token_expire_minutes"`
	BcryptCost         int    `yaml:"bcrypt_cost"`
}

func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.AccessTokenMinutes) * time.Minute
}

type CookieConfig struct {
	Name     string `yaml:"name"`
	Secure   bool   `yaml:"secure"`
	HTTPOnly bool   `yaml:"httponly"`
	SameSite string `yaml:"samesite"`
	Domain   string `yaml:"domain"`
}

// SameSiteMode переводит строковую настройку в http.SameSite. Неизвестные значения дают Lax.
func (c CookieConfig) SameSiteMode() http.SameSite {
	switch strings.ToLower(c.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type KafkaConfig struct {
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
}

type Config struct {
	App      AppConfig      `yaml:"app"`
	Postgres PostgresConfig `yaml:"postgres"`
	Auth     AuthConfig     `yaml:"auth"`
	Cookie   CookieConfig   `yaml:"cookie"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:           "Honey Industry API",
			Environment:    "development",
			LogLevel:       "info",
			Host:           "0.0.0.0",
			Port:           "8000",
			FrontendURL:    "http://localhost:3000",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		Postgres: PostgresConfig{
			Port:            "5432",
			SSLMode:         "disable",
			MaxConns:        10,
			MinConns:        2,
			MaxConnLifetime: time.Hour,
		},
		Auth: AuthConfig{
			AccessTokenMinutes: 43200,
			BcryptCost:         10,
		},
		Cookie: CookieConfig{
			Name:     "honey_session",
			HTTPOnly: true,
			SameSite: "lax",
			Domain:   "localhost",
		},
		Kafka: KafkaConfig{
			Topic: "honey-shop.events",
		},
	}
}

// NewConfig собирает конфигурацию: значения по умолчанию, затем YAML из CONFIG_FILE,
// затем .env и переменные окружения.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("invalid config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Environment = getEnv("ENVIRONMENT", cfg.App.Environment)
	cfg.App.Debug = getEnvBool("DEBUG", cfg.App.Debug)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)
	cfg.App.Host = getEnv("HOST", cfg.App.Host)
	cfg.App.Port = getEnv("PORT", cfg.App.Port)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", cfg.App.FrontendURL)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.App.AllowedOrigins = splitList(origins)
	}
	cfg.App.CatalogWriteRequiresAuth = getEnvBool("CATALOG_WRITE_REQUIRES_AUTH", cfg.App.CatalogWriteRequiresAuth)

	cfg.Postgres.URL = getEnv("DATABASE_URL", cfg.Postgres.URL)
	cfg.Postgres.Host = getEnv("DB_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = getEnv("DB_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = getEnv("DB_USER", cfg.Postgres.User)
	cfg.Postgres.Password = getEnv("DB_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.DBName = getEnv("DB_NAME", cfg.Postgres.DBName)
	cfg.Postgres.SSLMode = getEnv("DB_SSLMODE", cfg.Postgres.SSLMode)
	cfg.Postgres.MaxConns = int32(getEnvInt("DB_MAX_CONNS", int(cfg.Postgres.MaxConns)))
	cfg.Postgres.MinConns = int32(getEnvInt("DB_MIN_CONNS", int(cfg.Postgres.MinConns)))
	cfg.Postgres.MaxConnLifetime = getEnvDuration("DB_MAX_CONN_LIFETIME", cfg.Postgres.MaxConnLifetime)

	cfg.Auth.SecretKey = getEnv("SECRET_KEY", cfg.Auth.SecretKey)
	cfg.Auth.AccessTokenMinutes = getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", cfg.Auth.AccessTokenMinutes)
	cfg.Auth.BcryptCost = getEnvInt("BCRYPT_COST", cfg.Auth.BcryptCost)

	cfg.Cookie.Name = getEnv("COOKIE_NAME", cfg.Cookie.Name)
	cfg.Cookie.Secure = getEnvBool("COOKIE_SECURE", cfg.Cookie.Secure)
	cfg.Cookie.HTTPOnly = getEnvBool("COOKIE_HTTPONLY", cfg.Cookie.HTTPOnly)
	cfg.Cookie.SameSite = getEnv("COOKIE_SAMESITE", cfg.Cookie.SameSite)
	cfg.Cookie.Domain = getEnv("COOKIE_DOMAIN", cfg.Cookie.Domain)

	cfg.Redis.URL = getEnv("REDIS_URL", cfg.Redis.URL)

	cfg.Kafka.Broker = getEnv("KAFKA_BROKER", cfg.Kafka.Broker)
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Kafka.Topic)
}

func (c *Config) validate() error {
	if c.Auth.SecretKey == "" {
		return ErrMissingSecret
	}
	if c.Auth.AccessTokenMinutes <= 0 || c.Auth.AccessTokenMinutes > maxAccessTokenMinutes {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be between 1 and %d, got %d", maxAccessTokenMinutes, c.Auth.AccessTokenMinutes)
	}
	// Браузеры отбрасывают SameSite=None без Secure.
	if c.Cookie.SameSiteMode() == http.SameSiteNoneMode && !c.Cookie.Secure {
		return errors.New("COOKIE_SAMESITE=none requires COOKIE_SECURE=true")
	}
	if c.Postgres.URL == "" {
		missing := []string{}
		for name, value := range map[string]string{
			"DB_HOST": c.Postgres.Host,
			"DB_USER": c.Postgres.User,
			"DB_NAME": c.Postgres.DBName,
		} {
			if value == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("DATABASE_URL or %s is required", strings.Join(missing, ", "))
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
