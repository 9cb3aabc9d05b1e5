package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// immediateDriver fires the job once on Start.
type immediateDriver struct {
	started int
	stopped int
}

func (d *immediateDriver) Start(_ context.Context, job func(time.Time)) error {
	d.started++
	job(time.Date(2024, time.January, 11, 18, 30, 0, 0, time.UTC))
	return nil
}

func (d *immediateDriver) Stop(context.Context) error {
	d.stopped++
	return nil
}

func TestSchedulerRunsJobs(t *testing.T) {
	f := newFixture()
	pipeline := f.pipeline(newListing(), nil)
	ingest, flush := &immediateDriver{}, &immediateDriver{}

	s := NewScheduler(ingest, flush, pipeline, f.cache, nil)
	require.NoError(t, s.Start(context.Background()))

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, f.session.ids())
	// One flush after the inserting run, one from the cache job.
	assert.Equal(t, 2, f.cache.n)

	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, 1, ingest.stopped)
	assert.Equal(t, 1, flush.stopped)
}

func TestSchedulerSkipsMissingDrivers(t *testing.T) {
	s := NewScheduler(nil, nil, nil, nil, nil)
	assert.NoError(t, s.Start(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
}
