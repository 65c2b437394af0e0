package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Config содержит все настройки Catalog Service
// Загружается один раз при старте и дальше только читается
type Config struct {
	Env      string `validate:"oneof=development test production"`
	LogLevel string
	Server   ServerConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Limits   RateLimitConfig
	Interest InterestConfig
	CORS     CORSConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string
	Port string `validate:"required,numeric"`
}

// MongoConfig - подключение к MongoDB (категории, камни, позиции, пользователи, интерес)
type MongoConfig struct {
	URI      string `validate:"required"`
	Database string `validate:"required"`
}

// RedisConfig - настройки Redis для rate limiting и кеша
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int `validate:"min=0,max=15"`
}

// KafkaConfig - брокеры и топики событий
type KafkaConfig struct {
	Brokers       []string `validate:"required,min=1,dive,required"`
	InterestTopic string   `validate:"required"`
	CatalogTopic  string   `validate:"required"`
	GroupID       string   `validate:"required"`
}

// AuthConfig - подпись сессий и хеширование паролей
type AuthConfig struct {
	Secret     string        `validate:"required,min=16"`
	SessionTTL time.Duration `validate:"gt=0"`
	BcryptCost int           `validate:"min=4,max=31"`
}

// RateLimitConfig - лимиты запросов в минуту на IP
type RateLimitConfig struct {
	Login    int `validate:"min=1"`
	Write    int `validate:"min=1"`
	Interest int `validate:"min=1"`
}

// InterestConfig - ссылка для WhatsApp и агрегация интереса
type InterestConfig struct {
	PublicBaseURL  string        `validate:"required,url"`
	WhatsAppPhone  string        `validate:"omitempty,numeric"`
	RollupSchedule string        `validate:"required"`
	Window         time.Duration `validate:"gt=0"`
}

type CORSConfig struct {
	Origin string `validate:"required"`
}

// Load загружает конфигурацию из переменных окружения (и .env, если есть)
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	bcryptCost, err := getEnvInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, err
	}
	loginLimit, err := getEnvInt("LOGIN_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	writeLimit, err := getEnvInt("WRITE_RATE_LIMIT", 60)
	if err != nil {
		return nil, err
	}
	interestLimit, err := getEnvInt("INTEREST_RATE_LIMIT", 30)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getEnvDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	window, err := getEnvDuration("INTEREST_WINDOW", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:      getEnv("APP_ENV", EnvDevelopment),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "4000"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "gem_catalogue"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			InterestTopic: getEnv("KAFKA_INTEREST_TOPIC", "interest_events"),
			CatalogTopic:  getEnv("KAFKA_CATALOG_TOPIC", "catalog_events"),
			GroupID:       getEnv("KAFKA_GROUP_ID", "catalog-service"),
		},
		Auth: AuthConfig{
			// секрет не имеет значения по умолчанию и никогда не логируется
			Secret:     os.Getenv("JWT_SECRET"),
			SessionTTL: sessionTTL,
			BcryptCost: bcryptCost,
		},
		Limits: RateLimitConfig{
			Login:    loginLimit,
			Write:    writeLimit,
			Interest: interestLimit,
		},
		Interest: InterestConfig{
			PublicBaseURL:  strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
			WhatsAppPhone:  getEnv("WHATSAPP_PHONE_E164", ""),
			RollupSchedule: getEnv("INTEREST_ROLLUP_SCHEDULE", "@every 15m"),
			Window:         window,
		},
		CORS: CORSConfig{
			Origin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// IsProduction - включает secure-флаг у cookie сессии
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// IsTest - в тестовом окружении необработанные ошибки не логируются
func (c *Config) IsTest() bool {
	return c.Env == EnvTest
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
