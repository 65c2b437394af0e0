package util

import (
	"context"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
)

// RedisCache интерфейс кеша категорий и сводки интереса
// Используется для dependency injection и упрощения тестирования
type RedisCache interface {
	SetCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error
	GetCategories(ctx context.Context) ([]entity.Category, error)
	DeleteCategories(ctx context.Context) error
	SetInterestSummary(ctx context.Context, summary *entity.InterestSummary, ttl time.Duration) error
	GetInterestSummary(ctx context.Context) (*entity.InterestSummary, error)
}

// RateLimiter считает запросы клиента в окне
type RateLimiter interface {
	Allow(ctx context.Context, name, clientKey string, limit int, window time.Duration) (RateLimitResult, error)
}

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

var (
	_ RedisCache       = (*RedisClient)(nil)
	_ RateLimiter      = (*RedisClient)(nil)
	_ MessagePublisher = (*KafkaProducer)(nil)
)
