package automation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrankin/spotfire-community/pkg/automation"
)

// fakeClock drives the lazy status transition deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestRegistry(opts ...automation.Option) (*automation.Registry, *fakeClock) {
	clock := &fakeClock{now: time.Now()}
	opts = append([]automation.Option{automation.WithClock(clock.Now)}, opts...)
	return automation.NewRegistry(opts...), clock
}

func TestRegistrySeed(t *testing.T) {
	registry, _ := newTestRegistry()
	ctx := context.Background()

	queued, err := registry.JobStatus(ctx, uuid.MustParse(automation.SeededQueuedJobID))
	require.NoError(t, err)
	assert.Equal(t, automation.StatusQueued, queued.Status)

	inProgress, err := registry.JobStatus(ctx, uuid.MustParse(automation.SeededInProgressJobID))
	require.NoError(t, err)
	assert.Equal(t, automation.StatusInProgress, inProgress.Status)
}

func TestStartJob(t *testing.T) {
	registry, _ := newTestRegistry()
	ctx := context.Background()

	job := registry.StartJob(ctx)
	assert.Equal(t, automation.StatusInProgress, job.Status)

	found, err := registry.JobStatus(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, automation.StatusInProgress, found.Status)
}

func TestJobStatusAutoTransition(t *testing.T) {
	registry, clock := newTestRegistry()
	ctx := context.Background()

	job := registry.StartJob(ctx)

	t.Run("StaysInProgressBeforeThreshold", func(t *testing.T) {
		clock.Advance(500 * time.Millisecond)
		found, err := registry.JobStatus(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, automation.StatusInProgress, found.Status)
	})

	t.Run("FinishesAfterThreshold", func(t *testing.T) {
		clock.Advance(time.Second)
		found, err := registry.JobStatus(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, automation.StatusFinished, found.Status)
	})

	t.Run("TransitionIsIdempotent", func(t *testing.T) {
		found, err := registry.JobStatus(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, automation.StatusFinished, found.Status)
	})

	t.Run("OnlyInProgressTransitions", func(t *testing.T) {
		queued, err := registry.JobStatus(ctx, uuid.MustParse(automation.SeededQueuedJobID))
		require.NoError(t, err)
		assert.Equal(t, automation.StatusQueued, queued.Status)
	})

	t.Run("UnknownJob", func(t *testing.T) {
		_, err := registry.JobStatus(ctx, uuid.New())
		assert.ErrorIs(t, err, automation.ErrJobNotFound)
	})
}

func TestCancelJob(t *testing.T) {
	registry, clock := newTestRegistry()
	ctx := context.Background()

	t.Run("CancelsInProgressJob", func(t *testing.T) {
		job := registry.StartJob(ctx)
		canceled, err := registry.CancelJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, automation.StatusCanceled, canceled.Status)
	})

	t.Run("CancelsFinishedJobToo", func(t *testing.T) {
		job := registry.StartJob(ctx)
		clock.Advance(2 * time.Second)
		found, err := registry.JobStatus(ctx, job.ID)
		require.NoError(t, err)
		require.Equal(t, automation.StatusFinished, found.Status)

		canceled, err := registry.CancelJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, automation.StatusCanceled, canceled.Status)

		found, err = registry.JobStatus(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, automation.StatusCanceled, found.Status)
	})

	t.Run("UnknownJob", func(t *testing.T) {
		_, err := registry.CancelJob(ctx, uuid.New())
		assert.ErrorIs(t, err, automation.ErrJobNotFound)
	})
}

func TestSetJobStatus(t *testing.T) {
	registry, _ := newTestRegistry()
	ctx := context.Background()
	job := registry.StartJob(ctx)

	t.Run("OverridesStatusOutright", func(t *testing.T) {
		require.NoError(t, registry.SetJobStatus(ctx, job.ID, "Busy"))
		found, err := registry.JobStatus(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, automation.StatusBusy, found.Status)
	})

	t.Run("InvalidStatusFailsClosed", func(t *testing.T) {
		err := registry.SetJobStatus(ctx, job.ID, "Exploded")
		assert.ErrorIs(t, err, automation.ErrInvalidStatus)

		found, err := registry.JobStatus(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, automation.StatusBusy, found.Status)
	})

	t.Run("UnknownJob", func(t *testing.T) {
		err := registry.SetJobStatus(ctx, uuid.New(), "Queued")
		assert.ErrorIs(t, err, automation.ErrJobNotFound)
	})
}

func TestParseExecutionStatus(t *testing.T) {
	for _, valid := range []string{
		"NotSet", "Queued", "InProgress", "Finished",
		"Failed", "Missing", "Busy", "Canceled",
	} {
		status, err := automation.ParseExecutionStatus(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, automation.ExecutionStatus(valid), status)
	}

	for _, invalid := range []string{"", "queued", "FINISHED", "Unknown"} {
		_, err := automation.ParseExecutionStatus(invalid)
		assert.ErrorIs(t, err, automation.ErrInvalidStatus, invalid)
	}
}
