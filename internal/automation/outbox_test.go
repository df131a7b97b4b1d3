package automation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu       sync.Mutex
	triggers []string
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeRunner) RunCycle(ctx context.Context, trigger string) (CycleReport, error) {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	f.triggers = append(f.triggers, trigger)
	f.mu.Unlock()
	return CycleReport{Trigger: trigger}, nil
}

func TestOutboxRunsQueuedTasks(t *testing.T) {
	r := &fakeRunner{}
	o := NewOutbox(r, 10)

	require.True(t, o.Enqueue(Task{Trigger: "appointment_created", AppointmentID: "apt-1"}))
	require.True(t, o.Enqueue(Task{Trigger: "appointment_confirmed", AppointmentID: "apt-1"}))
	o.Close()

	require.Equal(t, []string{"appointment_created", "appointment_confirmed"}, r.triggers)
	require.False(t, o.Enqueue(Task{Trigger: "late"}))
}

func TestOutboxDropsWhenFull(t *testing.T) {
	r := &fakeRunner{started: make(chan struct{}), release: make(chan struct{})}
	o := NewOutbox(r, 1)

	require.True(t, o.Enqueue(Task{Trigger: "a"}))
	<-r.started // worker ocupado com "a"

	require.True(t, o.Enqueue(Task{Trigger: "b"}))
	require.False(t, o.Enqueue(Task{Trigger: "c"}))

	go func() {
		for range r.started {
		}
	}()
	close(r.release)
	o.Close()
	close(r.started)

	require.Equal(t, []string{"a", "b"}, r.triggers)
}
