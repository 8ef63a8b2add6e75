package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	name     string
	interval time.Duration
	runs     int64
	err      error
}

func (j *countingJob) Name() string            { return j.name }
func (j *countingJob) Interval() time.Duration { return j.interval }

func (j *countingJob) Run(_ context.Context) error {
	atomic.AddInt64(&j.runs, 1)
	return j.err
}

func (j *countingJob) runCount() int64 {
	return atomic.LoadInt64(&j.runs)
}

func TestManager_RunsJobImmediately(t *testing.T) {
	m := NewManager(context.Background())
	job := &countingJob{name: "test", interval: time.Hour}
	m.Register(job)

	m.Start()
	defer func() {
		m.Stop()
		m.Wait()
	}()

	deadline := time.Now().Add(time.Second)
	for job.runCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, int64(1), job.runCount())
}

func TestManager_TicksOnInterval(t *testing.T) {
	m := NewManager(context.Background())
	job := &countingJob{name: "test", interval: 10 * time.Millisecond}
	m.Register(job)

	m.Start()
	time.Sleep(100 * time.Millisecond)
	m.Stop()
	m.Wait()

	assert.GreaterOrEqual(t, job.runCount(), int64(3))
}

func TestManager_StopEndsAllJobs(t *testing.T) {
	m := NewManager(context.Background())
	first := &countingJob{name: "first", interval: 5 * time.Millisecond}
	second := &countingJob{name: "second", interval: 5 * time.Millisecond}
	m.Register(first)
	m.Register(second)

	m.Start()
	time.Sleep(30 * time.Millisecond)
	m.Stop()
	m.Wait()

	firstRuns := first.runCount()
	secondRuns := second.runCount()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, firstRuns, first.runCount())
	assert.Equal(t, secondRuns, second.runCount())
}

func TestManager_FailingJobKeepsRunning(t *testing.T) {
	m := NewManager(context.Background())
	job := &countingJob{name: "flaky", interval: 10 * time.Millisecond, err: errors.New("boom")}
	m.Register(job)

	m.Start()
	time.Sleep(60 * time.Millisecond)
	m.Stop()
	m.Wait()

	assert.GreaterOrEqual(t, job.runCount(), int64(2))
}

func TestManager_RegisterNilIsNoop(t *testing.T) {
	m := NewManager(context.Background())
	m.Register(nil)

	m.Start()
	m.Stop()
	m.Wait()
}
