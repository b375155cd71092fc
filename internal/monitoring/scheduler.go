package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/mserrato/accounts-be/internal/services"
)

// Scheduler runs periodic maintenance jobs. The only job today is audit
// event retention: rows older than the configured window are purged on a
// cron schedule.
type Scheduler struct {
	eventSvc  services.EventServiceProvider
	retention time.Duration
	spec      string
	cron      *cron.Cron
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(eventSvc services.EventServiceProvider, retentionDays int, spec string) *Scheduler {
	return &Scheduler{
		eventSvc:  eventSvc,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		spec:      spec,
		cron:      cron.New(),
	}
}

// Start registers the purge job and begins the cron loop. The schedule spec
// comes from configuration; an invalid spec is a startup error.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.purgeExpiredEvents)
	if err != nil {
		return err
	}
	log.Info().Str("schedule", s.spec).Msg("Starting maintenance scheduler...")
	s.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Stopped maintenance scheduler.")
}

func (s *Scheduler) purgeExpiredEvents() {
	cutoff := time.Now().Add(-s.retention)
	deleted, err := s.eventSvc.PurgeOlderThan(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: failed to purge expired events")
		return
	}
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("Purged expired audit events")
	}
}
