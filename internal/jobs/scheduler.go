package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/rentamaq/api/internal/service"
)

// Scheduler runs the periodic maintenance jobs: a nightly sweep of expired
// sessions and an hourly refresh of the configuration cache. Session expiry
// is still enforced lazily on every request; the sweep only trims dead rows.
type Scheduler struct {
	cron   *cron.Cron
	auth   *service.AuthService
	config *service.ConfiguracionService
	log    zerolog.Logger
}

func NewScheduler(auth *service.AuthService, config *service.ConfiguracionService, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		auth:   auth,
		config: config,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.purgeSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 * * * *", s.refreshConfigCache); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for in-flight jobs, up to five seconds.
func (s *Scheduler) Stop() {
	select {
	case <-s.cron.Stop().Done():
	case <-time.After(5 * time.Second):
	}
}

func (s *Scheduler) purgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.auth.PurgeExpiredSessions(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session purge failed")
		return
	}
	s.log.Info().Int64("removed", removed).Msg("expired sessions purged")
}

func (s *Scheduler) refreshConfigCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.config.WarmCache(ctx); err != nil {
		s.log.Error().Err(err).Msg("config cache refresh failed")
	}
}
