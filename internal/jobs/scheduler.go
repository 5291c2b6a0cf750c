package jobs

import (
	"github.com/robfig/cron/v3"

	"github.com/nycwatch/landlordwatch/internal/logger"
	"github.com/nycwatch/landlordwatch/internal/services"
)

// Scheduler runs the nightly data refresh. City datasets update daily, so
// anything more frequent just burns API quota.
type Scheduler struct {
	cron     *cron.Cron
	pipeline services.PipelineService
	log      *logger.Logger
}

func NewScheduler(pipeline services.PipelineService, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		pipeline: pipeline,
		log:      log.WithComponent("scheduler"),
	}
}

// Start registers the refresh job on the given cron spec and starts the
// scheduler in the background.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.refresh)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started", map[string]interface{}{"cron": spec})
	return nil
}

// refresh triggers a full pipeline run. An already-running pipeline is left
// alone; the next tick will try again.
func (s *Scheduler) refresh() {
	if err := s.pipeline.Trigger(services.TriggerParams{}); err != nil {
		s.log.Warn("scheduled refresh skipped", map[string]interface{}{
			"reason": err.Error(),
		})
		return
	}
	s.log.Info("scheduled refresh started", nil)
}

// Stop stops the scheduler, waiting for a running job callback to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
