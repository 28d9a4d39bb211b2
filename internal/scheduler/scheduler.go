package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/feedplanner/internal/config"
	"github.com/mamadbah2/feedplanner/internal/domain/models"
	"github.com/mamadbah2/feedplanner/internal/service/pricing"
)

const jobTimeout = 2 * time.Minute

// PriceRefresher updates catalog prices.
type PriceRefresher interface {
	Refresh(ctx context.Context) (pricing.Report, error)
}

// Notifier pushes a text message to an operator.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	prices   PriceRefresher
	notifier Notifier
	cfg      config.PricesConfig
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
// notifier may be nil when WhatsApp is disabled.
func NewScheduler(cfg config.PricesConfig, prices PriceRefresher, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone: %w", err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		prices:   prices,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Start registers the price refresh job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("price_refresh", s.cfg.CronSchedule), zap.String("timezone", s.cfg.Timezone))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.refreshPrices); err != nil {
		return fmt.Errorf("schedule price refresh: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refreshPrices() {
	s.logger.Info("refreshing ingredient prices")
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	s.runRefresh(ctx)
}

func (s *Scheduler) runRefresh(ctx context.Context) {
	report, err := s.prices.Refresh(ctx)
	if err != nil {
		s.logger.Error("failed to refresh prices", zap.Error(err))
		return
	}

	if s.notifier == nil || s.cfg.NotifyTo == "" {
		return
	}

	req := models.OutboundMessageRequest{
		To:      s.cfg.NotifyTo,
		Message: fmt.Sprintf("Feed prices refreshed from %s: %d updated, %d skipped.", report.Source, report.Updated, report.Failed),
	}

	if err := s.notifier.SendOutbound(ctx, req); err != nil {
		s.logger.Error("failed to send price update notice", zap.Error(err))
	} else {
		s.logger.Info("price update notice sent")
	}
}
