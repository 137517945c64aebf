package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"maintenance-orchestrator/config"
	"maintenance-orchestrator/internal/assignment"
)

// mockJobs is a mock implementation of the Jobs interface.
type mockJobs struct {
	GenerateFunc   func(ctx context.Context) (*Promotion, error)
	AutoAssignFunc func(ctx context.Context) (*assignment.Result, error)
	generated      atomic.Int32
	assigned       atomic.Int32
}

func (m *mockJobs) GenerateDueRequests(ctx context.Context) (*Promotion, error) {
	m.generated.Add(1)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx)
	}
	return &Promotion{}, nil
}

func (m *mockJobs) AutoAssignAll(ctx context.Context) (*assignment.Result, error) {
	m.assigned.Add(1)
	if m.AutoAssignFunc != nil {
		return m.AutoAssignFunc(ctx)
	}
	return &assignment.Result{}, nil
}

func TestRunOnce(t *testing.T) {
	testCases := []struct {
		name         string
		autoAssign   bool
		generateErr  error
		wantAssigned int32
	}{
		{name: "promotion only", autoAssign: false, wantAssigned: 0},
		{name: "promotion then assignment", autoAssign: true, wantAssigned: 1},
		{name: "assignment still runs after a failed promotion", autoAssign: true, generateErr: errors.New("db down"), wantAssigned: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			jobs := &mockJobs{GenerateFunc: func(context.Context) (*Promotion, error) {
				if tc.generateErr != nil {
					return nil, tc.generateErr
				}
				return &Promotion{}, nil
			}}
			r := NewRunner(config.SchedulerConfig{Enabled: true, AutoAssign: tc.autoAssign}, jobs)

			r.RunOnce(context.Background())

			assert.Equal(t, int32(1), jobs.generated.Load())
			assert.Equal(t, tc.wantAssigned, jobs.assigned.Load())
		})
	}
}

func TestRun_Disabled(t *testing.T) {
	jobs := &mockJobs{}
	r := NewRunner(config.SchedulerConfig{Enabled: false}, jobs)

	r.Run(context.Background())

	assert.Equal(t, int32(0), jobs.generated.Load())
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	jobs := &mockJobs{}
	r := NewRunner(config.SchedulerConfig{Enabled: true, Interval: 10 * time.Millisecond}, jobs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return jobs.generated.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
}
