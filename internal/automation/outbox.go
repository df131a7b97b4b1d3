package automation

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Task pede uma sincronização depois de uma mudança de estado.
type Task struct {
	Trigger       string
	AppointmentID string
}

type Runner interface {
	RunCycle(ctx context.Context, trigger string) (CycleReport, error)
}

// Outbox decouples request handlers from the automation cycle. Tasks that do
// not fit in the queue are dropped: the periodic cycle picks the work up.
type Outbox struct {
	runner Runner
	queue  chan Task
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewOutbox(runner Runner, size int) *Outbox {
	if size <= 0 {
		size = 100
	}
	o := &Outbox{
		runner: runner,
		queue:  make(chan Task, size),
		done:   make(chan struct{}),
	}

	go o.worker()
	return o
}

func (o *Outbox) worker() {
	defer close(o.done)
	for t := range o.queue {
		if _, err := o.runner.RunCycle(context.Background(), t.Trigger); err != nil {
			if errors.Is(err, ErrCycleRunning) {
				log.Printf("[automation] %s (%s): cycle already running, left to the next run", t.Trigger, t.AppointmentID)
				continue
			}
			log.Printf("[automation] %s (%s) failed: %v", t.Trigger, t.AppointmentID, err)
		}
	}
}

// Enqueue never blocks. It reports whether the task was accepted.
func (o *Outbox) Enqueue(t Task) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return false
	}

	select {
	case o.queue <- t:
		return true
	default:
		// fila cheia → descarta (nunca travar a API)
		log.Printf("[automation] outbox full, dropping %s task", t.Trigger)
		return false
	}
}

// Close drains the queued tasks and waits for the worker.
func (o *Outbox) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	close(o.queue)
	o.mu.Unlock()

	<-o.done
}
