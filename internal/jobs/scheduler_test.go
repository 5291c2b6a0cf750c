package jobs

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/nycwatch/landlordwatch/internal/logger"
	"github.com/nycwatch/landlordwatch/internal/services"
)

type fakePipeline struct {
	mu       sync.Mutex
	triggers int
	err      error
}

func (f *fakePipeline) Trigger(params services.TriggerParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers++
	return f.err
}

func (f *fakePipeline) Status() services.PipelineStatus {
	return services.PipelineStatus{}
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := NewScheduler(&fakePipeline{}, logger.New("test"))
	assert.Error(t, s.Start("not a cron spec"))
}

func TestScheduler_AcceptsStandardSpec(t *testing.T) {
	s := NewScheduler(&fakePipeline{}, logger.New("test"))
	require.NoError(t, s.Start("0 3 * * *"))
	s.Stop()
}

func TestScheduler_RefreshTriggersPipeline(t *testing.T) {
	pipeline := &fakePipeline{}
	s := NewScheduler(pipeline, logger.New("test"))

	s.refresh()

	assert.Equal(t, 1, pipeline.triggers)
}

func TestScheduler_RefreshToleratesBusyPipeline(t *testing.T) {
	pipeline := &fakePipeline{err: services.ErrPipelineBusy}
	s := NewScheduler(pipeline, logger.New("test"))

	// Must not panic or retry; the next scheduled tick picks it up.
	s.refresh()
	assert.Equal(t, 1, pipeline.triggers)
}
