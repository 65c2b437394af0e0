package processor

import (
	"context"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/pkg/logger"

	"github.com/robfig/cron/v3"
)

// InterestRollup пересчитывает сводку интереса
type InterestRollup interface {
	Rollup(ctx context.Context) (*entity.InterestSummary, error)
}

type CronScheduler struct {
	cron   *cron.Cron
	rollup InterestRollup
}

func NewCronScheduler(rollup InterestRollup) *CronScheduler {
	c := cron.New(
		cron.WithLogger(cron.PrintfLogger(logger.PrintfFunc(logger.Printf))),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &CronScheduler{
		cron:   c,
		rollup: rollup,
	}
}

// Start регистрирует агрегацию интереса по расписанию и сразу выполняет ее один раз
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("starting cron scheduler")

	if _, err := s.cron.AddFunc(schedule, func() { s.runRollup(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	s.runRollup(ctx)
	return nil
}

func (s *CronScheduler) runRollup(ctx context.Context) {
	summary, err := s.rollup.Rollup(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("interest rollup failed")
		return
	}
	logger.Info().Int("items", len(summary.Items)).Msg("interest rollup completed")
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
