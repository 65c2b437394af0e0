package mocks

import (
	"context"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/repository"
	"gemcatalog/catalog-service/internal/app/catalog/util"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockCategoryRepository мок для CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListVisible(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

// MockStoneRepository мок для StoneRepository
type MockStoneRepository struct {
	mock.Mock
}

func (m *MockStoneRepository) Create(ctx context.Context, stone *entity.Stone) error {
	args := m.Called(ctx, stone)
	return args.Error(0)
}

func (m *MockStoneRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Stone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stone), args.Error(1)
}

func (m *MockStoneRepository) GetBySlug(ctx context.Context, slug string) (*entity.Stone, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stone), args.Error(1)
}

func (m *MockStoneRepository) List(ctx context.Context, filter repository.StoneFilter, page repository.Page) ([]entity.Stone, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Stone), args.Error(1)
}

func (m *MockStoneRepository) Count(ctx context.Context, filter repository.StoneFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockItemRepository мок для ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *entity.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) List(ctx context.Context, filter repository.ItemFilter, page repository.Page) ([]entity.InventoryItem, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) Count(ctx context.Context, filter repository.ItemFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository мок для UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockInterestRepository мок для InterestRepository
type MockInterestRepository struct {
	mock.Mock
}

func (m *MockInterestRepository) Create(ctx context.Context, event *entity.InterestEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockInterestRepository) SummarizeSince(ctx context.Context, since time.Time, limit int64) ([]entity.ItemInterest, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ItemInterest), args.Error(1)
}

// MockRedisCache мок для util.RedisCache
type MockRedisCache struct {
	mock.Mock
}

func (m *MockRedisCache) SetCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error {
	args := m.Called(ctx, categories, ttl)
	return args.Error(0)
}

func (m *MockRedisCache) GetCategories(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockRedisCache) DeleteCategories(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRedisCache) SetInterestSummary(ctx context.Context, summary *entity.InterestSummary, ttl time.Duration) error {
	args := m.Called(ctx, summary, ttl)
	return args.Error(0)
}

func (m *MockRedisCache) GetInterestSummary(ctx context.Context) (*entity.InterestSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.InterestSummary), args.Error(1)
}

// MockRateLimiter мок для util.RateLimiter
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, name, clientKey string, limit int, window time.Duration) (util.RateLimitResult, error) {
	args := m.Called(ctx, name, clientKey, limit, window)
	return args.Get(0).(util.RateLimitResult), args.Error(1)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

var (
	_ repository.CategoryRepository = (*MockCategoryRepository)(nil)
	_ repository.StoneRepository    = (*MockStoneRepository)(nil)
	_ repository.ItemRepository     = (*MockItemRepository)(nil)
	_ repository.UserRepository     = (*MockUserRepository)(nil)
	_ repository.InterestRepository = (*MockInterestRepository)(nil)
	_ util.RedisCache               = (*MockRedisCache)(nil)
	_ util.RateLimiter              = (*MockRateLimiter)(nil)
	_ util.MessagePublisher         = (*MockMessagePublisher)(nil)
)
