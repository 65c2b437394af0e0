//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/handler"
	"gemcatalog/catalog-service/internal/app/catalog/repository"
	"gemcatalog/catalog-service/internal/app/catalog/service"
	"gemcatalog/catalog-service/internal/app/catalog/util"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "integration-password"
)

// CatalogIntegrationTestSuite содержит интеграционные тесты для catalog-service
// Требует запущенные MongoDB и Redis
type CatalogIntegrationTestSuite struct {
	suite.Suite
	mongoClient *mongo.Client
	db          *mongo.Database
	redisClient *util.RedisClient
	redisRaw    *redis.Client
	router      *gin.Engine
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// SetupSuite выполняется один раз перед всеми тестами
func (s *CatalogIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(getEnv("TEST_MONGODB_URI", "mongodb://localhost:27018")))
	require.NoError(s.T(), err, "Failed to connect to MongoDB")
	require.NoError(s.T(), client.Ping(ctx, nil))
	s.mongoClient = client
	s.db = client.Database("gem_catalogue_test")

	redisAddr := getEnv("TEST_REDIS_ADDR", "localhost:6380")
	s.redisClient, err = util.NewRedisClient(redisAddr, "", 15)
	require.NoError(s.T(), err, "Failed to connect to Redis")
	s.redisRaw = redis.NewClient(&redis.Options{Addr: redisAddr, DB: 15})

	require.NoError(s.T(), s.db.Drop(ctx))
	require.NoError(s.T(), repository.EnsureIndexes(ctx, s.db))

	itemRepo := repository.NewItemRepository(s.db)
	sessions := util.NewSessionManager("integration-secret-0123456789", 24*time.Hour)
	authService := service.NewAuthService(repository.NewUserRepository(s.db), sessions)

	// без publisher события каталога не отправляются, а интерес пишется напрямую в MongoDB
	catalogService := service.NewCatalogService(
		repository.NewCategoryRepository(s.db),
		repository.NewStoneRepository(s.db),
		itemRepo,
		s.redisClient,
		nil,
	)
	interestService := service.NewInterestService(
		itemRepo,
		repository.NewInterestRepository(s.db),
		s.redisClient,
		nil,
		service.InterestSettings{PublicBaseURL: "https://gems.example.com", WhatsAppPhone: "15551234567", Window: time.Hour},
	)

	binder := handler.NewBinder()
	s.router = handler.SetupRoutes(
		handler.RouterConfig{
			CORSOrigin:        "http://localhost:3000",
			LoginRateLimit:    1000,
			WriteRateLimit:    1000,
			InterestRateLimit: 1000,
			RateLimitWindow:   time.Minute,
		},
		handler.NewHealthHandler(map[string]handler.HealthCheck{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			"redis":   s.redisClient.Ping,
		}),
		handler.NewAuthHandler(authService, binder, handler.SessionCookie{TTL: sessions.TTL()}),
		handler.NewCatalogHandler(catalogService, binder),
		handler.NewInterestHandler(interestService),
		handler.NewAuthMiddleware(authService),
		handler.NewRateLimitMiddleware(s.redisClient),
	)
}

// TearDownSuite выполняется один раз после всех тестов
func (s *CatalogIntegrationTestSuite) TearDownSuite() {
	ctx := context.Background()
	if s.db != nil {
		_ = s.db.Drop(ctx)
	}
	if s.mongoClient != nil {
		_ = s.mongoClient.Disconnect(ctx)
	}
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.redisRaw != nil {
		s.redisRaw.Close()
	}
}

// SetupTest выполняется перед каждым тестом
func (s *CatalogIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	for _, name := range []string{"categories", "stones", "inventory_items", "users", "interest_events"} {
		_, err := s.db.Collection(name).DeleteMany(ctx, bson.M{})
		require.NoError(s.T(), err)
	}
	// кеши и счетчики rate limit
	require.NoError(s.T(), s.redisRaw.FlushDB(ctx).Err())

	hash, err := util.HashPassword(adminPassword, 4)
	require.NoError(s.T(), err)
	now := time.Now().UTC()
	_, err = s.db.Collection("users").InsertOne(ctx, entity.User{
		ID:           primitive.NewObjectID(),
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(s.T(), err)
}

func (s *CatalogIntegrationTestSuite) request(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *CatalogIntegrationTestSuite) login() *http.Cookie {
	rec := s.request(http.MethodPost, "/auth/login", entity.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.Equal(s.T(), http.StatusOK, rec.Code)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == handler.SessionCookieName {
			return cookie
		}
	}
	s.T().Fatal("session cookie not set")
	return nil
}

func strPtr(v string) *string {
	return &v
}

// ==================== Health Tests ====================

func (s *CatalogIntegrationTestSuite) TestReadiness() {
	// Act
	rec := s.request(http.MethodGet, "/health/readiness", nil)

	// Assert
	s.Equal(http.StatusOK, rec.Code)
	var resp entity.ReadinessResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(map[string]string{"mongodb": "healthy", "redis": "healthy"}, resp.Checks)
}

// ==================== Auth Tests ====================

func (s *CatalogIntegrationTestSuite) TestLoginAndMe() {
	// Arrange
	cookie := s.login()

	// Act
	rec := s.request(http.MethodGet, "/auth/me", nil, cookie)

	// Assert
	s.Equal(http.StatusOK, rec.Code)
	var resp entity.UserResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(adminEmail, resp.User.Email)
	s.NotNil(resp.User.LastLogin)
}

func (s *CatalogIntegrationTestSuite) TestLogin_WrongPassword() {
	// Act
	rec := s.request(http.MethodPost, "/auth/login", entity.LoginRequest{Email: adminEmail, Password: "wrong"})

	// Assert
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Empty(rec.Result().Cookies())
}

// ==================== Catalogue Tests ====================

func (s *CatalogIntegrationTestSuite) TestCreateItem_DenormalizesFromStone() {
	// Arrange
	cookie := s.login()

	stoneRec := s.request(http.MethodPost, "/stones", entity.CreateStoneRequest{
		Title:      "Pigeon Blood Ruby",
		Attributes: entity.Attributes{Species: strPtr("Ruby"), Shape: strPtr("Oval"), Origin: strPtr("Burma")},
	}, cookie)
	s.Require().Equal(http.StatusCreated, stoneRec.Code)
	var stone entity.StoneResponse
	s.Require().NoError(json.Unmarshal(stoneRec.Body.Bytes(), &stone))
	s.Equal("pigeon-blood-ruby", stone.Stone.Slug)

	pieces := 12
	carats := 6.5

	// Act
	itemRec := s.request(http.MethodPost, "/items", entity.CreateItemRequest{
		Type:       entity.ItemTypeLot,
		Code:       "LOT-RUBY-1",
		StoneID:    stone.Stone.ID.Hex(),
		Attributes: entity.Attributes{Shape: strPtr("Cushion")},
		PieceCount: &pieces,
		CaratTotal: &carats,
	}, cookie)

	// Assert
	s.Require().Equal(http.StatusCreated, itemRec.Code)

	getRec := s.request(http.MethodGet, "/items/LOT-RUBY-1", nil)
	s.Require().Equal(http.StatusOK, getRec.Code)
	var item entity.ItemResponse
	s.Require().NoError(json.Unmarshal(getRec.Body.Bytes(), &item))
	s.Equal("Ruby", *item.Item.Species)
	s.Equal("Cushion", *item.Item.Shape)
	s.Equal("Burma", *item.Item.Origin)
	s.Equal(entity.AvailabilityAvailable, item.Item.Availability)
}

func (s *CatalogIntegrationTestSuite) TestCreateItem_DuplicateCode() {
	// Arrange
	cookie := s.login()
	stoneRec := s.request(http.MethodPost, "/stones", entity.CreateStoneRequest{Title: "Sapphire"}, cookie)
	s.Require().Equal(http.StatusCreated, stoneRec.Code)
	var stone entity.StoneResponse
	s.Require().NoError(json.Unmarshal(stoneRec.Body.Bytes(), &stone))

	carat := 1.1
	req := entity.CreateItemRequest{Type: entity.ItemTypeSingle, Code: "S-1", StoneID: stone.Stone.ID.Hex(), CaratSingle: &carat}
	s.Require().Equal(http.StatusCreated, s.request(http.MethodPost, "/items", req, cookie).Code)

	// Act
	rec := s.request(http.MethodPost, "/items", req, cookie)

	// Assert
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *CatalogIntegrationTestSuite) TestListItems_FilterAndPagination() {
	// Arrange
	cookie := s.login()
	stoneRec := s.request(http.MethodPost, "/stones", entity.CreateStoneRequest{Title: "Emerald", Attributes: entity.Attributes{Species: strPtr("Emerald")}}, cookie)
	s.Require().Equal(http.StatusCreated, stoneRec.Code)
	var stone entity.StoneResponse
	s.Require().NoError(json.Unmarshal(stoneRec.Body.Bytes(), &stone))

	carat := 0.8
	for i, availability := range []entity.Availability{"available", "sold", "available", "available"} {
		rec := s.request(http.MethodPost, "/items", entity.CreateItemRequest{
			Type:         entity.ItemTypeSingle,
			Code:         "EM-" + string(rune('A'+i)),
			StoneID:      stone.Stone.ID.Hex(),
			CaratSingle:  &carat,
			Availability: availability,
		}, cookie)
		s.Require().Equal(http.StatusCreated, rec.Code)
	}

	// Act
	rec := s.request(http.MethodGet, "/items?availability=available&page=1&limit=2", nil)

	// Assert
	s.Require().Equal(http.StatusOK, rec.Code)
	var resp entity.ItemListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(int64(3), resp.Total)
	s.Len(resp.Items, 2)
	s.Equal("EM-D", resp.Items[0].Code)
	for _, item := range resp.Items {
		s.Equal(entity.AvailabilityAvailable, item.Availability)
	}
}

func (s *CatalogIntegrationTestSuite) TestCategories_CacheInvalidatedOnCreate() {
	// Arrange
	cookie := s.login()
	s.Require().Equal(http.StatusOK, s.request(http.MethodGet, "/categories", nil).Code)

	// Act
	createRec := s.request(http.MethodPost, "/categories", entity.CreateCategoryRequest{Name: "Rare Garnets"}, cookie)
	listRec := s.request(http.MethodGet, "/categories", nil)

	// Assert
	s.Require().Equal(http.StatusCreated, createRec.Code)
	var resp entity.CategoryListResponse
	s.Require().NoError(json.Unmarshal(listRec.Body.Bytes(), &resp))
	s.Equal(1, resp.Total)
	s.Equal("rare-garnets", resp.Categories[0].Slug)
}

// ==================== Interest Tests ====================

func (s *CatalogIntegrationTestSuite) TestInterest_RecordedAndSummarized() {
	// Arrange
	cookie := s.login()
	stoneRec := s.request(http.MethodPost, "/stones", entity.CreateStoneRequest{Title: "Spinel"}, cookie)
	var stone entity.StoneResponse
	s.Require().NoError(json.Unmarshal(stoneRec.Body.Bytes(), &stone))
	carat := 2.0
	s.Require().Equal(http.StatusCreated, s.request(http.MethodPost, "/items", entity.CreateItemRequest{
		Type: entity.ItemTypeSingle, Code: "SP-1", StoneID: stone.Stone.ID.Hex(), CaratSingle: &carat,
	}, cookie).Code)

	// Act
	first := s.request(http.MethodPost, "/items/SP-1/interest", nil)
	second := s.request(http.MethodPost, "/items/SP-1/interest", nil)
	summaryRec := s.request(http.MethodGet, "/admin/interest", nil, cookie)

	// Assert
	s.Equal(http.StatusAccepted, first.Code)
	s.Equal(http.StatusAccepted, second.Code)
	var interest entity.InterestResponse
	s.Require().NoError(json.Unmarshal(first.Body.Bytes(), &interest))
	s.Contains(interest.WhatsAppURL, "https://wa.me/15551234567?text=")

	s.Require().Equal(http.StatusOK, summaryRec.Code)
	var summary entity.InterestSummary
	s.Require().NoError(json.Unmarshal(summaryRec.Body.Bytes(), &summary))
	s.Require().Len(summary.Items, 1)
	s.Equal(int64(2), summary.Items[0].Count)
}

func TestCatalogIntegrationSuite(t *testing.T) {
	suite.Run(t, new(CatalogIntegrationTestSuite))
}
