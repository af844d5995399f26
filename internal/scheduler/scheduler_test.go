package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/vendsim/internal/domain/models"
)

type fakeRunner struct {
	calls atomic.Int64
	err   error
}

func (f *fakeRunner) SimulateDay(ctx context.Context) (models.DayResult, error) {
	f.calls.Add(1)
	return models.DayResult{}, f.err
}

func TestStartPausedRegistersNoTick(t *testing.T) {
	sched := NewScheduler(&fakeRunner{}, nil)
	require.NoError(t, sched.Start(60, false))
	defer sched.Stop()

	status := sched.Status()
	assert.False(t, status.Running)
	assert.Nil(t, status.NextRunTime)
}

func TestStartRunningExposesNextRunTime(t *testing.T) {
	sched := NewScheduler(&fakeRunner{}, nil)
	require.NoError(t, sched.Start(60, true))
	defer sched.Stop()

	status := sched.Status()
	assert.True(t, status.Running)
	assert.Equal(t, 60, status.IntervalSeconds)
	require.NotNil(t, status.NextRunTime)
	assert.True(t, status.NextRunTime.After(time.Now()))
}

func TestReconfigureSwapsInterval(t *testing.T) {
	sched := NewScheduler(&fakeRunner{}, nil)
	require.NoError(t, sched.Start(60, true))
	defer sched.Stop()

	require.NoError(t, sched.Reconfigure(120, true))
	status := sched.Status()
	assert.True(t, status.Running)
	assert.Equal(t, 120, status.IntervalSeconds)

	require.NoError(t, sched.Reconfigure(120, false))
	status = sched.Status()
	assert.False(t, status.Running)
	assert.Nil(t, status.NextRunTime)
}

func TestRejectsNonPositiveInterval(t *testing.T) {
	sched := NewScheduler(&fakeRunner{}, nil)
	assert.Error(t, sched.Start(0, true))
	assert.Error(t, sched.Reconfigure(-5, true))
}

func TestTickInvokesRunnerAndDropsBusy(t *testing.T) {
	runner := &fakeRunner{}
	sched := NewScheduler(runner, nil)

	sched.tick()
	assert.Equal(t, int64(1), runner.calls.Load())

	// A busy runner must not surface as a failure, just a dropped tick.
	runner.err = models.ErrBusy
	sched.tick()
	assert.Equal(t, int64(2), runner.calls.Load())
}
