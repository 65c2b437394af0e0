package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/repository"
	"gemcatalog/catalog-service/internal/app/catalog/util"
	"gemcatalog/pkg/logger"
	"gemcatalog/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// InterestSummaryTTL переживает несколько запусков агрегации
	InterestSummaryTTL = time.Hour
	// InterestSummaryLimit - сколько самых востребованных позиций попадает в сводку
	InterestSummaryLimit = 100

	maxHeaderValueLength = 512
)

// InterestSettings - параметры ссылки WhatsApp и окна агрегации
type InterestSettings struct {
	PublicBaseURL string
	WhatsAppPhone string
	Window        time.Duration
}

// InterestService фиксирует интерес посетителей к позициям и строит сводку.
// События идут через Kafka; при недоступности брокера пишутся в MongoDB напрямую.
type InterestService struct {
	itemRepo     repository.ItemRepository
	interestRepo repository.InterestRepository
	cache        util.RedisCache
	publisher    util.MessagePublisher // может быть nil: события пишутся напрямую
	settings     InterestSettings
	now          func() time.Time
}

func NewInterestService(
	itemRepo repository.ItemRepository,
	interestRepo repository.InterestRepository,
	cache util.RedisCache,
	publisher util.MessagePublisher,
	settings InterestSettings,
) *InterestService {
	return &InterestService{
		itemRepo:     itemRepo,
		interestRepo: interestRepo,
		cache:        cache,
		publisher:    publisher,
		settings:     settings,
		now:          time.Now,
	}
}

// RecordInterest регистрирует интерес к позиции и возвращает ссылку для связи
func (s *InterestService) RecordInterest(ctx context.Context, code, referer, userAgent string) (*entity.InterestResponse, error) {
	item, err := s.itemRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	// ID назначается заранее, чтобы повторная доставка из Kafka не создала дубль
	event := &entity.InterestEvent{
		ID:        primitive.NewObjectID(),
		ItemID:    item.ID,
		TS:        s.now().UTC(),
		Referer:   truncate(referer, maxHeaderValueLength),
		UserAgent: truncate(userAgent, maxHeaderValueLength),
	}

	if !s.publish(ctx, event) {
		if err := s.interestRepo.Create(ctx, event); err != nil {
			return nil, fmt.Errorf("failed to record interest: %w", err)
		}
		metrics.InterestEvents.WithLabelValues("fallback").Inc()
	}

	return &entity.InterestResponse{
		OK:          true,
		WhatsAppURL: util.WhatsAppLink(s.settings.WhatsAppPhone, s.settings.PublicBaseURL, item.Code),
	}, nil
}

func (s *InterestService) publish(ctx context.Context, event *entity.InterestEvent) bool {
	if s.publisher == nil {
		return false
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal interest event")
		return false
	}

	if err := s.publisher.PublishMessage(ctx, event.ItemID.Hex(), data); err != nil {
		logger.Warn().Err(err).Str("item_id", event.ItemID.Hex()).Msg("failed to publish interest event, writing directly")
		return false
	}

	metrics.InterestEvents.WithLabelValues("published").Inc()
	return true
}

// Persist сохраняет событие из Kafka. Повторная доставка уже сохраненного события не ошибка.
func (s *InterestService) Persist(ctx context.Context, event *entity.InterestEvent) error {
	if event.ItemID.IsZero() {
		return NewValidationError(entity.FieldIssue{Path: "itemId", Message: "required"})
	}
	if event.TS.IsZero() {
		event.TS = s.now().UTC()
	}

	if err := s.interestRepo.Create(ctx, event); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			logger.Debug().Str("event_id", event.ID.Hex()).Msg("interest event already persisted")
			return nil
		}
		return fmt.Errorf("failed to persist interest event: %w", err)
	}

	metrics.InterestEvents.WithLabelValues("persisted").Inc()
	return nil
}

// Rollup пересчитывает сводку интереса за окно и кладет ее в Redis
func (s *InterestService) Rollup(ctx context.Context) (*entity.InterestSummary, error) {
	now := s.now().UTC()
	since := now.Add(-s.settings.Window)

	items, err := s.interestRepo.SummarizeSince(ctx, since, InterestSummaryLimit)
	if err != nil {
		metrics.InterestRollups.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to summarize interest: %w", err)
	}
	if items == nil {
		items = []entity.ItemInterest{}
	}

	summary := &entity.InterestSummary{
		Since:       since,
		GeneratedAt: now,
		Items:       items,
	}

	if err := s.cache.SetInterestSummary(ctx, summary, InterestSummaryTTL); err != nil {
		logger.Warn().Err(err).Msg("failed to cache interest summary")
	}

	metrics.InterestRollups.WithLabelValues("success").Inc()
	return summary, nil
}

// Summary возвращает закешированную сводку, при промахе считает ее заново
func (s *InterestService) Summary(ctx context.Context) (*entity.InterestSummary, error) {
	cached, err := s.cache.GetInterestSummary(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read interest summary cache")
	}
	if cached != nil {
		return cached, nil
	}
	return s.Rollup(ctx)
}

// truncate обрезает строку до max байт, не разрывая руну
func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}
