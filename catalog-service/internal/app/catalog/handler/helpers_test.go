package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/repository/mocks"
	"gemcatalog/catalog-service/internal/app/catalog/service"
	"gemcatalog/catalog-service/internal/app/catalog/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "handler-test-secret-0123456789"

// MockCatalogService мок для CatalogServiceInterface
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCatalogService) GetCategory(ctx context.Context, slug string) (*entity.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCatalogService) CreateStone(ctx context.Context, req *entity.CreateStoneRequest) (*entity.Stone, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stone), args.Error(1)
}

func (m *MockCatalogService) GetStone(ctx context.Context, slug string) (*entity.Stone, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stone), args.Error(1)
}

func (m *MockCatalogService) ListStones(ctx context.Context, query *entity.ListStonesQuery) (*entity.StoneListResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StoneListResponse), args.Error(1)
}

func (m *MockCatalogService) CreateItem(ctx context.Context, req *entity.CreateItemRequest) (*entity.InventoryItem, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.InventoryItem), args.Error(1)
}

func (m *MockCatalogService) GetItem(ctx context.Context, code string) (*entity.InventoryItem, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.InventoryItem), args.Error(1)
}

func (m *MockCatalogService) ListItems(ctx context.Context, query *entity.ListItemsQuery) (*entity.ItemListResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ItemListResponse), args.Error(1)
}

// MockInterestService мок для InterestServiceInterface
type MockInterestService struct {
	mock.Mock
}

func (m *MockInterestService) RecordInterest(ctx context.Context, code, referer, userAgent string) (*entity.InterestResponse, error) {
	args := m.Called(ctx, code, referer, userAgent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.InterestResponse), args.Error(1)
}

func (m *MockInterestService) Persist(ctx context.Context, event *entity.InterestEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockInterestService) Rollup(ctx context.Context) (*entity.InterestSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.InterestSummary), args.Error(1)
}

func (m *MockInterestService) Summary(ctx context.Context) (*entity.InterestSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.InterestSummary), args.Error(1)
}

var (
	_ service.CatalogServiceInterface  = (*MockCatalogService)(nil)
	_ service.InterestServiceInterface = (*MockInterestService)(nil)
)

// testEnv - полный роутер с настоящим AuthService и моками остальных сервисов
type testEnv struct {
	router      *gin.Engine
	sessions    *util.SessionManager
	userRepo    *mocks.MockUserRepository
	catalogSvc  *MockCatalogService
	interestSvc *MockInterestService
	limiter     *mocks.MockRateLimiter
}

func newTestEnv() *testEnv {
	sessions := util.NewSessionManager(testSecret, 24*time.Hour)
	userRepo := new(mocks.MockUserRepository)
	catalogSvc := new(MockCatalogService)
	interestSvc := new(MockInterestService)
	limiter := new(mocks.MockRateLimiter)

	limiter.On("Allow", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(util.RateLimitResult{Allowed: true, Limit: 60, Remaining: 59, ResetIn: time.Minute}, nil).
		Maybe()

	authSvc := service.NewAuthService(userRepo, sessions)
	binder := NewBinder()
	cookie := SessionCookie{Secure: false, TTL: sessions.TTL()}

	router := SetupRoutes(
		RouterConfig{
			CORSOrigin:        "http://localhost:3000",
			LoginRateLimit:    10,
			WriteRateLimit:    60,
			InterestRateLimit: 30,
			RateLimitWindow:   time.Minute,
		},
		NewHealthHandler(nil),
		NewAuthHandler(authSvc, binder, cookie),
		NewCatalogHandler(catalogSvc, binder),
		NewInterestHandler(interestSvc),
		NewAuthMiddleware(authSvc),
		NewRateLimitMiddleware(limiter),
	)

	return &testEnv{
		router:      router,
		sessions:    sessions,
		userRepo:    userRepo,
		catalogSvc:  catalogSvc,
		interestSvc: interestSvc,
		limiter:     limiter,
	}
}

// sessionCookie выпускает действующую cookie сессии с ролью role
func (e *testEnv) sessionCookie(t *testing.T, role string) *http.Cookie {
	t.Helper()
	token, _, err := e.sessions.Issue(primitive.NewObjectID().Hex(), role)
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookieName, Value: token}
}

func (e *testEnv) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func floatPtr(f float64) *float64 {
	return &f
}
