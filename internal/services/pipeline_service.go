package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nycwatch/landlordwatch/internal/logger"
	"github.com/nycwatch/landlordwatch/internal/pipeline"
)

// ErrPipelineBusy is returned when a run is requested while one is already in
// flight. Runs rewrite shared tables; two at once would corrupt each other.
var ErrPipelineBusy = errors.New("a pipeline run is already in progress")

// PipelineRunner is the subset of the pipeline runner the API needs.
type PipelineRunner interface {
	RunAll(ctx context.Context, opts pipeline.RunOptions) error
	RunExtractor(ctx context.Context, name string, opts pipeline.RunOptions) error
	RunResolution(ctx context.Context) error
	RunScoring(ctx context.Context) error
}

// PipelineStatus reports the state of the most recent run.
type PipelineStatus struct {
	Running    bool       `json:"running"`
	Target     string     `json:"target,omitempty"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	LastError  string     `json:"lastError,omitempty"`
}

// TriggerParams selects what a triggered run does. An empty Extractor means a
// full run: every extractor, then resolution, then scoring. The stage names
// "resolution" and "scoring" run just that stage.
type TriggerParams struct {
	Extractor   string
	FullRefresh bool
	StartOffset int
}

// PipelineService triggers pipeline runs from the API and the scheduler.
// Runs execute in the background; at most one is in flight at a time.
type PipelineService interface {
	// Trigger starts a run in the background.
	// Returns ErrPipelineBusy if a run is already in flight.
	Trigger(params TriggerParams) error

	// Status returns the current run state.
	Status() PipelineStatus
}

type pipelineService struct {
	runner      PipelineRunner
	invalidator func(context.Context)
	log         *logger.Logger

	mu     sync.Mutex
	status PipelineStatus
}

// NewPipelineService creates the trigger surface. invalidator is called after
// every successful run to drop stale cached responses; pass nil to skip.
func NewPipelineService(runner PipelineRunner, invalidator func(context.Context), log *logger.Logger) PipelineService {
	return &pipelineService{
		runner:      runner,
		invalidator: invalidator,
		log:         log,
	}
}

func (s *pipelineService) Trigger(params TriggerParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Running {
		return ErrPipelineBusy
	}

	target := params.Extractor
	if target == "" {
		target = "all"
	}
	now := time.Now()
	s.status = PipelineStatus{
		Running:   true,
		Target:    target,
		StartedAt: &now,
	}

	go s.run(params, target)
	return nil
}

// run executes in its own goroutine with a fresh context: the triggering
// HTTP request finishes long before the run does.
func (s *pipelineService) run(params TriggerParams, target string) {
	ctx := context.Background()
	opts := pipeline.RunOptions{
		FullRefresh: params.FullRefresh,
		StartOffset: params.StartOffset,
	}

	s.log.Info("pipeline run triggered", map[string]interface{}{
		"target":       target,
		"full_refresh": params.FullRefresh,
	})

	var err error
	switch params.Extractor {
	case "":
		err = s.runner.RunAll(ctx, opts)
	case "resolution":
		err = s.runner.RunResolution(ctx)
	case "scoring":
		err = s.runner.RunScoring(ctx)
	default:
		err = s.runner.RunExtractor(ctx, params.Extractor, opts)
	}

	if err == nil && s.invalidator != nil {
		s.invalidator(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.status.Running = false
	s.status.FinishedAt = &now
	if err != nil {
		s.status.LastError = err.Error()
		s.log.Error("pipeline run failed", err, map[string]interface{}{"target": target})
	}
}

func (s *pipelineService) Status() PipelineStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}
