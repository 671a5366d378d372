package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJob struct {
	name     string
	schedule Schedule
}

func (j *fakeJob) Name() string { return j.name }

func (j *fakeJob) Execute(ctx context.Context) error { return nil }

func (j *fakeJob) Schedule() Schedule { return j.schedule }

func TestSchedulerAddJob_RegistersEveryCadence(t *testing.T) {
	scheduler := NewSchedulerService()
	defer func() { _ = scheduler.Stop(context.Background()) }()

	// The weekly cadence is a distinct identifier from the WeeklyMonday
	// refresh policy; both live in this package.
	var _ RefreshPolicy = WeeklyMonday{}

	for _, schedule := range []Schedule{Hourly, Daily, Weekly} {
		job := &fakeJob{name: "refresh", schedule: schedule}
		require.NoError(t, scheduler.AddJob(job))
	}

	assert.Equal(t, 3, scheduler.GetJobCount())
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerStart_WithoutJobsStaysStopped(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.Start(context.Background()))
	assert.False(t, scheduler.IsRunning())
}
