package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/service"
	"gemcatalog/pkg/logger"
	"gemcatalog/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const serviceName = "catalog-service"

// Пауза между повторами сохранения события
const (
	defaultRetryBackoffMin = 200 * time.Millisecond
	defaultRetryBackoffMax = 30 * time.Second
)

// InterestPersister сохраняет событие интереса
type InterestPersister interface {
	Persist(ctx context.Context, event *entity.InterestEvent) error
}

// messageReader - часть kafka.Reader, нужная consumer'у
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// InterestConsumer читает события интереса из Kafka и сохраняет их в MongoDB
type InterestConsumer struct {
	reader          messageReader
	persister       InterestPersister
	topic           string
	groupID         string
	retryBackoffMin time.Duration
	retryBackoffMax time.Duration
	stopChan        chan struct{}
	doneChan        chan struct{}
	cancel          context.CancelFunc
}

// NewInterestConsumer создает consumer группы groupID для топика событий интереса
func NewInterestConsumer(brokers []string, topic, groupID string, persister InterestPersister) *InterestConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
		// offset коммитится вручную после сохранения
		CommitInterval: 0,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: time.Second,
		ErrorLogger:    kafka.LoggerFunc(logger.Errorf),
	})

	return newInterestConsumer(reader, topic, groupID, persister)
}

func newInterestConsumer(reader messageReader, topic, groupID string, persister InterestPersister) *InterestConsumer {
	return &InterestConsumer{
		reader:          reader,
		persister:       persister,
		topic:           topic,
		groupID:         groupID,
		retryBackoffMin: defaultRetryBackoffMin,
		retryBackoffMax: defaultRetryBackoffMax,
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *InterestConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Str("group", c.groupID).Msg("starting interest consumer")
	ctx, c.cancel = context.WithCancel(ctx)
	go c.consume(ctx)
}

// Stop останавливает consumer и дожидается завершения цикла чтения
func (c *InterestConsumer) Stop() {
	logger.Info().Msg("stopping interest consumer")
	close(c.stopChan)
	if c.cancel != nil {
		c.cancel()
	}
	<-c.doneChan
	if err := c.reader.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close kafka reader")
	}
	logger.Info().Msg("interest consumer stopped")
}

func (c *InterestConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		message, err := c.reader.FetchMessage(readCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if readCtx.Err() == nil {
				metrics.RecordKafkaError(serviceName, c.topic, "consume")
				logger.Warn().Err(err).Msg("failed to fetch interest message")
				c.sleep(ctx, time.Second)
			}
			continue
		}

		c.handle(ctx, message)
	}
}

// handle обрабатывает сообщение и коммитит offset.
// Reader группы не возвращается к незакоммиченному сообщению, поэтому ошибка сохранения
// повторяется с нарастающей паузой, пока не пройдет или consumer не остановят.
// Невалидные сообщения коммитятся сразу, иначе они блокировали бы партицию навсегда.
func (c *InterestConsumer) handle(ctx context.Context, message kafka.Message) {
	start := time.Now()
	backoff := c.retryBackoffMin

	for attempt := 1; ; attempt++ {
		err := c.processMessage(ctx, message)
		if err == nil {
			break
		}
		if isPoison(err) {
			logger.Warn().Err(err).Int64("offset", message.Offset).Msg("skipping malformed interest message")
			break
		}

		metrics.RecordKafkaError(serviceName, c.topic, "process")
		logger.Error().
			Err(err).
			Int64("offset", message.Offset).
			Int("attempt", attempt).
			Dur("retry_in", backoff).
			Msg("failed to process interest message")

		if !c.sleep(ctx, backoff) {
			// offset не закоммичен: после перезапуска группа прочитает сообщение снова
			return
		}
		backoff *= 2
		if backoff > c.retryBackoffMax {
			backoff = c.retryBackoffMax
		}
	}

	metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID, time.Since(start))

	if err := c.reader.CommitMessages(ctx, message); err != nil {
		metrics.RecordKafkaError(serviceName, c.topic, "commit")
		logger.Warn().Err(err).Msg("failed to commit interest message")
	}
}

// isPoison: сообщение, которое не сохранится ни при каком повторе
func isPoison(err error) bool {
	var decodeErr *decodeError
	return errors.As(err, &decodeErr) || errors.Is(err, service.ErrValidation)
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("failed to unmarshal interest event: %v", e.err)
}

func (e *decodeError) Unwrap() error {
	return e.err
}

// processMessage обрабатывает одно сообщение из Kafka
func (c *InterestConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.InterestEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return &decodeError{err: err}
	}

	if err := c.persister.Persist(ctx, &event); err != nil {
		return fmt.Errorf("failed to persist interest event: %w", err)
	}

	return nil
}

// sleep ждет d; false, если consumer останавливается
func (c *InterestConsumer) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	case <-c.stopChan:
		return false
	}
}
