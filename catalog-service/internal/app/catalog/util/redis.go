package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName = "catalog-service"

	categoriesCacheKey      = "categories:visible"
	interestSummaryCacheKey = "interest:summary"
	rateLimitKeyPrefix      = "ratelimit"
)

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFromConn оборачивает уже настроенный клиент
func NewRedisClientFromConn(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

// === CATEGORIES CACHE ===

func (r *RedisClient) SetCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error {
	return r.setJSON(ctx, categoriesCacheKey, categories, ttl)
}

// GetCategories возвращает (nil, nil) при промахе кеша
func (r *RedisClient) GetCategories(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	found, err := r.getJSON(ctx, categoriesCacheKey, &categories)
	if err != nil || !found {
		return nil, err
	}
	if categories == nil {
		categories = []entity.Category{}
	}
	return categories, nil
}

func (r *RedisClient) DeleteCategories(ctx context.Context) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, categoriesCacheKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete categories from cache: %w", err)
	}
	return nil
}

// === INTEREST SUMMARY CACHE ===

func (r *RedisClient) SetInterestSummary(ctx context.Context, summary *entity.InterestSummary, ttl time.Duration) error {
	return r.setJSON(ctx, interestSummaryCacheKey, summary, ttl)
}

// GetInterestSummary возвращает (nil, nil) при промахе кеша
func (r *RedisClient) GetInterestSummary(ctx context.Context) (*entity.InterestSummary, error) {
	var summary entity.InterestSummary
	found, err := r.getJSON(ctx, interestSummaryCacheKey, &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

// === RATE LIMITING ===

// RateLimitResult - состояние окна после учета запроса
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// Allow учитывает запрос в фиксированном окне.
// INCR и EXPIRE NX выполняются в одной транзакции: ключ без TTL получает его при следующем запросе.
func (r *RedisClient) Allow(ctx context.Context, name, clientKey string, limit int, window time.Duration) (RateLimitResult, error) {
	key := fmt.Sprintf("%s:%s:%s", rateLimitKeyPrefix, name, clientKey)

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpIncr)
	defer timer.ObserveDuration()

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpIncr)
		return RateLimitResult{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	count := incr.Val()
	resetIn := ttl.Val()
	if resetIn < 0 {
		resetIn = window
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return RateLimitResult{
		Allowed:   int(count) <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}

func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}

func (r *RedisClient) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	data, err := r.client.Get(ctx, key).Bytes()
	timer.ObserveDuration()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, key)
			return false, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	metrics.RecordCacheHit(serviceName, key)
	return true, nil
}
