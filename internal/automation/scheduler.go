// Package automation runs the notification cycle: it scans the appointments,
// sends whatever is due and records the outcome on each appointment.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	rules "github.com/BruksfildServices01/barbersaas/internal/domain/automation"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/notify"
	"github.com/BruksfildServices01/barbersaas/internal/validators"
)

const (
	DefaultInterval    = 60 * time.Second
	DefaultSendTimeout = 7 * time.Second

	TriggerStartup  = "startup"
	TriggerInterval = "interval"
	TriggerManual   = "manual"
)

var ErrCycleRunning = errors.New("automation cycle already running")

// Store is the part of the snapshot store the cycle uses. MutateRetained keeps
// sent markers in memory even when the save fails, so a message handed to the
// transport is never sent twice; Flush retries that save.
type Store interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
	MutateRetained(ctx context.Context, fn func(next *models.Snapshot) (bool, error)) error
	Flush(ctx context.Context) error
}

type Options struct {
	Location    *time.Location
	CountryCode string
	Interval    time.Duration
	SendTimeout time.Duration
}

type CycleReport struct {
	Trigger    string    `json:"trigger"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Attempted  int       `json:"attempted"`
	Sent       int       `json:"sent"`
	Failed     int       `json:"failed"`
}

type StatusReport struct {
	Provider   string           `json:"provider"`
	IntervalMs int64            `json:"interval_ms"`
	Running    bool             `json:"running"`
	Sent       rules.SentCounts `json:"sent"`
	LastCycle  *CycleReport     `json:"last_cycle,omitempty"`
}

type Scheduler struct {
	store  Store
	sender notify.Sender
	opts   Options
	now    func() time.Time

	running atomic.Bool

	mu   sync.Mutex
	last *CycleReport
	cron *cron.Cron
}

func NewScheduler(store Store, sender notify.Sender, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.CountryCode == "" {
		opts.CountryCode = validators.DefaultCountryCode
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = DefaultSendTimeout
	}

	return &Scheduler{
		store:  store,
		sender: sender,
		opts:   opts,
		now:    time.Now,
	}
}

// SetClock troca o relógio (testes).
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Scheduler) Provider() string {
	return s.sender.Provider()
}

func (s *Scheduler) Interval() time.Duration {
	return s.opts.Interval
}

// ===============================
// Cycle
// ===============================

type outcome struct {
	appointmentID string
	event         models.AutomationEvent
}

// RunCycle sends every due notification once. A call made while another cycle
// is in progress returns ErrCycleRunning without doing anything.
func (s *Scheduler) RunCycle(ctx context.Context, trigger string) (CycleReport, error) {
	report := CycleReport{Trigger: trigger}

	if !s.running.CompareAndSwap(false, true) {
		return report, ErrCycleRunning
	}
	defer s.running.Store(false)

	report.StartedAt = s.now()
	defer func() {
		report.FinishedAt = s.now()
		s.mu.Lock()
		last := report
		s.last = &last
		s.mu.Unlock()
	}()

	if err := s.store.Flush(ctx); err != nil {
		log.Printf("[automation] pending results still unsaved: %v", err)
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return report, fmt.Errorf("load snapshot: %w", err)
	}

	// envios acontecem fora do lock do store
	var outcomes []outcome
	for i := range snap.Appointments {
		ap := &snap.Appointments[i]
		for _, kind := range rules.DueKinds(ap, s.now(), s.opts.Location) {
			ev := s.deliver(ctx, ap, kind)
			report.Attempted++
			if ev.Success {
				report.Sent++
			} else {
				report.Failed++
			}
			outcomes = append(outcomes, outcome{appointmentID: ap.ID, event: ev})
		}
	}

	if len(outcomes) == 0 {
		return report, nil
	}

	err = s.store.MutateRetained(ctx, func(next *models.Snapshot) (bool, error) {
		for _, o := range outcomes {
			ap := next.Appointment(o.appointmentID)
			if ap == nil {
				// removido durante o ciclo (sync em massa)
				continue
			}
			if o.event.Success && ap.AutomationMeta.SentAt(o.event.Kind) == nil {
				ap.AutomationMeta.MarkSent(o.event.Kind, o.event.At, o.event.MessageID)
			}
			ap.AutomationMeta.Record(o.event)
		}
		return true, nil
	})
	if err != nil {
		return report, fmt.Errorf("persist automation results: %w", err)
	}

	log.Printf("[automation] cycle %s: %d attempted, %d sent, %d failed",
		trigger, report.Attempted, report.Sent, report.Failed)
	return report, nil
}

func (s *Scheduler) deliver(ctx context.Context, ap *models.Appointment, kind models.NotificationKind) models.AutomationEvent {
	ev := models.AutomationEvent{
		Kind:     kind,
		Provider: s.sender.Provider(),
	}

	to, err := validators.ToE164(ap.ClientPhone, s.opts.CountryCode)
	if err != nil {
		ev.At = s.now()
		ev.Error = httperr.ErrNotificationSend(err).Error()
		log.Printf("[automation] %s %s: invalid phone %q", ap.ID, kind, ap.ClientPhone)
		return ev
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
	defer cancel()

	res, err := s.sender.Send(sendCtx, to, rules.BuildMessage(kind, ap))
	ev.At = s.now()
	if err != nil {
		sendErr := httperr.ErrNotificationSend(err)
		ev.Error = sendErr.Error()
		log.Printf("[automation] %s %s: %v", ap.ID, kind, sendErr)
		return ev
	}

	ev.Success = true
	ev.MessageID = res.MessageID
	if res.Provider != "" {
		ev.Provider = res.Provider
	}
	return ev
}

// runLogged is the entry point of timers and the outbox: errors end here.
func (s *Scheduler) runLogged(ctx context.Context, trigger string) {
	if _, err := s.RunCycle(ctx, trigger); err != nil {
		if errors.Is(err, ErrCycleRunning) {
			log.Printf("[automation] %s cycle skipped: previous cycle still running", trigger)
			return
		}
		log.Printf("[automation] %s cycle failed: %v", trigger, err)
	}
}

// ===============================
// Timer
// ===============================

func (s *Scheduler) Start() error {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.PrintfLogger(log.Default())),
	))

	schedule := fmt.Sprintf("@every %s", s.opts.Interval)
	if _, err := c.AddFunc(schedule, func() {
		s.runLogged(context.Background(), TriggerInterval)
	}); err != nil {
		return fmt.Errorf("schedule automation: %w", err)
	}

	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()

	go s.runLogged(context.Background(), TriggerStartup)

	c.Start()
	log.Printf("[automation] scheduler started (every %s, provider %s)", s.opts.Interval, s.sender.Provider())
	return nil
}

// Stop waits for a running timer job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
}

// ===============================
// Introspection
// ===============================

func (s *Scheduler) Status(ctx context.Context) (StatusReport, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return StatusReport{}, err
	}

	s.mu.Lock()
	var last *CycleReport
	if s.last != nil {
		cp := *s.last
		last = &cp
	}
	s.mu.Unlock()

	return StatusReport{
		Provider:   s.sender.Provider(),
		IntervalMs: s.opts.Interval.Milliseconds(),
		Running:    s.running.Load(),
		Sent:       rules.CountSent(snap.Appointments),
		LastCycle:  last,
	}, nil
}

func (s *Scheduler) Logs(ctx context.Context, limit int) ([]rules.LogEntry, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return rules.Logs(snap.Appointments, limit, s.sender.Provider()), nil
}
