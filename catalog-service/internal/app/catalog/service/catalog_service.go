package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/repository"
	"gemcatalog/catalog-service/internal/app/catalog/util"
	"gemcatalog/pkg/logger"
	"gemcatalog/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoriesCacheTTL - время жизни списка видимых категорий в Redis
const CategoriesCacheTTL = time.Hour

// CatalogService обрабатывает бизнес-логику каталога: категории, камни, позиции.
// Координирует репозитории MongoDB, кеш Redis и события Kafka.
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	stoneRepo    repository.StoneRepository
	itemRepo     repository.ItemRepository
	cache        util.RedisCache
	publisher    util.MessagePublisher // может быть nil: события не отправляются
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	stoneRepo repository.StoneRepository,
	itemRepo repository.ItemRepository,
	cache util.RedisCache,
	publisher util.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		stoneRepo:    stoneRepo,
		itemRepo:     itemRepo,
		cache:        cache,
		publisher:    publisher,
	}
}

// === CATEGORIES ===

// CreateCategory создает категорию и инвалидирует кеш списка
func (s *CatalogService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	source := req.Slug
	if source == "" {
		source = req.Name
	}
	slug := util.Slugify(source)
	if slug == "" {
		return nil, NewValidationError(entity.FieldIssue{Path: "name", Message: "must contain letters or digits"})
	}

	category := &entity.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		IsVisible:   true,
	}
	if req.Position != nil {
		category.Position = *req.Position
	}
	if req.IsVisible != nil {
		category.IsVisible = *req.IsVisible
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: category slug %q already exists", ErrConflict, slug)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	// Категория уже создана, проблемы с кешем не критичны
	if err := s.cache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate categories cache")
	}

	s.publishEvent(ctx, entity.EventCategoryCreated, category.ID, category.Slug)
	return category, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// ListCategories возвращает видимые категории (cache-aside через Redis)
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	cached, err := s.cache.GetCategories(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read categories cache")
	}
	if cached != nil {
		return cached, nil
	}

	categories, err := s.categoryRepo.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if err := s.cache.SetCategories(ctx, categories, CategoriesCacheTTL); err != nil {
		logger.Warn().Err(err).Msg("failed to cache categories")
	}

	return categories, nil
}

// === STONES ===

// CreateStone создает камень; slug выводится из названия.
// Совпадение slug с существующим камнем отклоняется как конфликт.
func (s *CatalogService) CreateStone(ctx context.Context, req *entity.CreateStoneRequest) (*entity.Stone, error) {
	slug := util.Slugify(req.Title)
	if slug == "" {
		return nil, NewValidationError(entity.FieldIssue{Path: "title", Message: "must contain letters or digits"})
	}

	categoryID, err := parseOptionalID("categoryId", req.CategoryID)
	if err != nil {
		return nil, err
	}

	attrs := req.Attributes
	attrs.Tags = normalizeTags(attrs.Tags)

	stone := &entity.Stone{
		Title:                req.Title,
		Slug:                 slug,
		SKU:                  req.SKU,
		CategoryID:           categoryID,
		Attributes:           attrs,
		CaratTypicalPerPiece: req.CaratTypicalPerPiece,
		Dimensions:           req.Dimensions,
		Description:          req.Description,
		Images:               nonNilImages(req.Images),
		PublishedAt:          req.PublishedAt,
	}

	if err := s.stoneRepo.Create(ctx, stone); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: stone slug %q already exists", ErrConflict, slug)
		}
		return nil, fmt.Errorf("failed to create stone: %w", err)
	}

	metrics.StonesCreated.Inc()
	s.publishEvent(ctx, entity.EventStoneCreated, stone.ID, stone.Slug)
	return stone, nil
}

func (s *CatalogService) GetStone(ctx context.Context, slug string) (*entity.Stone, error) {
	stone, err := s.stoneRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get stone: %w", err)
	}
	return stone, nil
}

func (s *CatalogService) ListStones(ctx context.Context, query *entity.ListStonesQuery) (*entity.StoneListResponse, error) {
	page, limit, window, err := resolvePage(query.Page, query.Limit)
	if err != nil {
		return nil, err
	}

	categoryID, err := parseOptionalID("categoryId", query.CategoryID)
	if err != nil {
		return nil, err
	}

	filter := repository.StoneFilter{
		Species:    query.Species,
		Shape:      query.Shape,
		CategoryID: categoryID,
		Text:       query.Q,
	}

	stones, err := s.stoneRepo.List(ctx, filter, window)
	if err != nil {
		return nil, fmt.Errorf("failed to list stones: %w", err)
	}
	total, err := s.stoneRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count stones: %w", err)
	}

	if stones == nil {
		stones = []entity.Stone{}
	}
	return &entity.StoneListResponse{Page: page, Limit: limit, Total: total, Stones: stones}, nil
}

// === INVENTORY ITEMS ===

// CreateItem создает позицию. Недостающие характеристики один раз копируются
// из камня; если камень не найден, позиция создается с тем, что передано.
func (s *CatalogService) CreateItem(ctx context.Context, req *entity.CreateItemRequest) (*entity.InventoryItem, error) {
	if err := validateQuantities(req); err != nil {
		return nil, err
	}

	stoneID, err := primitive.ObjectIDFromHex(req.StoneID)
	if err != nil {
		return nil, NewValidationError(entity.FieldIssue{Path: "stoneId", Message: "must be a valid id"})
	}
	categoryID, err := parseOptionalID("categoryId", req.CategoryID)
	if err != nil {
		return nil, err
	}

	item := &entity.InventoryItem{
		Type:         req.Type,
		Code:         req.Code,
		StoneID:      stoneID,
		CategoryID:   categoryID,
		Attributes:   req.Attributes,
		Location:     req.Location,
		Availability: req.Availability,
		Images:       nonNilImages(req.Images),
		Certificates: req.Certificates,
		PublishedAt:  req.PublishedAt,
	}

	// Количественные поля другого типа не сохраняются
	switch req.Type {
	case entity.ItemTypeLot:
		item.PieceCount = req.PieceCount
		item.CaratTotal = req.CaratTotal
	case entity.ItemTypeSingle:
		item.CaratSingle = req.CaratSingle
	}

	if item.Availability == "" {
		item.Availability = entity.AvailabilityAvailable
	}
	if req.Featured != nil {
		item.Featured = *req.Featured
	}
	if item.Certificates == nil {
		item.Certificates = []entity.Certificate{}
	}

	if NeedsDenormalization(item.Attributes) {
		if err := s.denormalize(ctx, item); err != nil {
			return nil, err
		}
	}
	item.Tags = normalizeTags(item.Tags)

	if err := s.itemRepo.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: item code %q already exists", ErrConflict, item.Code)
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	metrics.ItemsCreated.WithLabelValues(string(item.Type)).Inc()
	s.publishEvent(ctx, entity.EventItemCreated, item.ID, item.Code)
	return item, nil
}

func (s *CatalogService) denormalize(ctx context.Context, item *entity.InventoryItem) error {
	stone, err := s.stoneRepo.GetByID(ctx, item.StoneID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.ItemsDenormalized.WithLabelValues("stone_missing").Inc()
			logger.Warn().
				Str("code", item.Code).
				Str("stone_id", item.StoneID.Hex()).
				Msg("stone not found, skipping denormalization")
			return nil
		}
		return fmt.Errorf("failed to get stone for denormalization: %w", err)
	}

	item.Attributes = FillFromStone(item.Attributes, stone)
	metrics.ItemsDenormalized.WithLabelValues("filled").Inc()
	return nil
}

func (s *CatalogService) GetItem(ctx context.Context, code string) (*entity.InventoryItem, error) {
	item, err := s.itemRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// ListItems возвращает страницу позиций и общее число совпадений фильтра
func (s *CatalogService) ListItems(ctx context.Context, query *entity.ListItemsQuery) (*entity.ItemListResponse, error) {
	page, limit, window, err := resolvePage(query.Page, query.Limit)
	if err != nil {
		return nil, err
	}

	filter := repository.ItemFilter{
		Type:         entity.ItemType(query.Type),
		Species:      query.Species,
		Shape:        query.Shape,
		Availability: entity.Availability(query.Availability),
	}

	items, err := s.itemRepo.List(ctx, filter, window)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	total, err := s.itemRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	if items == nil {
		items = []entity.InventoryItem{}
	}
	return &entity.ItemListResponse{Page: page, Limit: limit, Total: total, Items: items}, nil
}

// validateQuantities: LOT требует pieceCount и caratTotal, SINGLE - caratSingle
func validateQuantities(req *entity.CreateItemRequest) error {
	var issues []entity.FieldIssue
	switch req.Type {
	case entity.ItemTypeLot:
		if req.PieceCount == nil {
			issues = append(issues, entity.FieldIssue{Path: "pieceCount", Message: "required for LOT items"})
		}
		if req.CaratTotal == nil {
			issues = append(issues, entity.FieldIssue{Path: "caratTotal", Message: "required for LOT items"})
		}
	case entity.ItemTypeSingle:
		if req.CaratSingle == nil {
			issues = append(issues, entity.FieldIssue{Path: "caratSingle", Message: "required for SINGLE items"})
		}
	default:
		issues = append(issues, entity.FieldIssue{Path: "type", Message: "must be one of LOT, SINGLE"})
	}

	if len(issues) > 0 {
		return NewValidationError(issues...)
	}
	return nil
}

func parseOptionalID(path, hex string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, NewValidationError(entity.FieldIssue{Path: path, Message: "must be a valid id"})
	}
	return &id, nil
}

func nonNilImages(images []entity.Image) []entity.Image {
	if images == nil {
		return []entity.Image{}
	}
	return images
}

// publishEvent отправляет событие каталога; сбой Kafka не отменяет запись
func (s *CatalogService) publishEvent(ctx context.Context, eventType string, id primitive.ObjectID, key string) {
	if s.publisher == nil {
		return
	}

	event := entity.CatalogEvent{
		EventType: eventType,
		EntityID:  id.Hex(),
		Key:       key,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal catalog event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, event.EntityID, data); err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Str("key", key).Msg("failed to publish catalog event")
	}
}
