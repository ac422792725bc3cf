// Package jobs runs the periodic maintenance the service needs: audit
// rows are kept for a bounded retention window and purged nightly.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"ipsstrack/api/internal/repository"
)

type Scheduler struct {
	cron      *cron.Cron
	audit     *repository.AuditRepository
	retention time.Duration
	log       zerolog.Logger
}

func NewScheduler(audit *repository.AuditRepository, retention time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		audit:     audit,
		retention: retention,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if s.audit == nil || s.retention <= 0 {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 0 * * *", s.purgeAudit); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits briefly for a running purge to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) purgeAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)
	removed, err := s.audit.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("audit purge failed")
		return
	}
	s.log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("audit purge complete")
}
