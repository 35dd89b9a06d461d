package scheduler

import (
	"context"
	"sync"
	"time"

	ticketingUsecases "github.com/nrjbutsecond/tessera/internal/application/ticketing/usecases"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/cache"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
)

// ExpiryScheduler drives the periodic sweep that expires lapsed tickets and
// stale reservations. When a redis sweep lock is configured, only one worker
// replica sweeps per interval; the sweep itself stays idempotent either way.
type ExpiryScheduler struct {
	sweepUC   *ticketingUsecases.SweepExpiredUseCase
	sweepLock *cache.SweepLock
	owner     string
	logger    logger.Interface
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	interval  time.Duration
}

func NewExpiryScheduler(
	sweepUC *ticketingUsecases.SweepExpiredUseCase,
	sweepLock *cache.SweepLock,
	owner string,
	interval time.Duration,
	logger logger.Interface,
) *ExpiryScheduler {
	return &ExpiryScheduler{
		sweepUC:   sweepUC,
		sweepLock: sweepLock,
		owner:     owner,
		logger:    logger,
		stopChan:  make(chan struct{}),
		interval:  interval,
	}
}

func (s *ExpiryScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting expiry scheduler", "interval", s.interval, "owner", s.owner)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

func (s *ExpiryScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping expiry scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("expiry scheduler stopped")
	})
}

func (s *ExpiryScheduler) runLoop(ctx context.Context) {
	// Sweep immediately on startup to clear any backlog.
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("expiry scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpiryScheduler) sweep(ctx context.Context) {
	if s.sweepLock != nil {
		acquired, err := s.sweepLock.Acquire(ctx, s.owner)
		if err != nil {
			s.logger.Errorw("failed to acquire sweep lock", "error", err)
			return
		}
		if !acquired {
			s.logger.Debugw("sweep skipped, another replica holds the lock")
			return
		}
		defer func() {
			if err := s.sweepLock.Release(ctx, s.owner); err != nil {
				s.logger.Warnw("failed to release sweep lock", "error", err)
			}
		}()
	}

	startTime := time.Now()
	result, err := s.sweepUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("sweep failed", "error", err, "duration", time.Since(startTime))
		return
	}

	if result.ExpiredTickets > 0 {
		s.logger.Infow("sweep pass finished",
			"examined", result.ExaminedTickets,
			"expired", result.ExpiredTickets,
			"released_holds", result.ReleasedHolds,
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("sweep pass found nothing to expire", "duration", time.Since(startTime))
	}
}
