package repository

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	domain "github.com/BruksfildServices01/barbersaas/internal/domain/appointment"
	"github.com/BruksfildServices01/barbersaas/internal/domain/client"
	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/snapshot"
	"github.com/BruksfildServices01/barbersaas/internal/validators"
)

var ErrStoreClosed = errors.New("store closed")

type writeRequest struct {
	ctx    context.Context
	snap   *models.Snapshot
	result chan error
}

// SnapshotStore keeps the published snapshot in memory and persists every change
// through a single writer goroutine. Published snapshots are never mutated: a
// change builds a copy, saves it and only then swaps it in.
type SnapshotStore struct {
	backend snapshot.Backend

	// serializa todo read-modify-write
	mu      sync.Mutex
	current atomic.Pointer[models.Snapshot]
	// publicado sem ter sido salvo; guardado por mu
	dirty bool

	writes    chan writeRequest
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	now func() time.Time
}

var _ domain.Repository = (*SnapshotStore)(nil)

func NewSnapshotStore(backend snapshot.Backend) *SnapshotStore {
	s := &SnapshotStore{
		backend: backend,
		writes:  make(chan writeRequest),
		done:    make(chan struct{}),
		now:     time.Now,
	}

	go s.writer()
	return s
}

// SetClock troca o relógio (testes).
func (s *SnapshotStore) SetClock(now func() time.Time) {
	s.now = now
}

func (s *SnapshotStore) BackendName() string {
	return s.backend.Name()
}

func (s *SnapshotStore) writer() {
	defer close(s.done)
	for req := range s.writes {
		req.result <- s.backend.Save(req.ctx, req.snap)
	}
}

func (s *SnapshotStore) persist(ctx context.Context, snap *models.Snapshot) error {
	if s.closed.Load() {
		return httperr.ErrPersistence(ErrStoreClosed)
	}

	req := writeRequest{ctx: ctx, snap: snap, result: make(chan error, 1)}
	select {
	case s.writes <- req:
	case <-ctx.Done():
		return httperr.ErrPersistence(ctx.Err())
	}

	if err := <-req.result; err != nil {
		return httperr.ErrPersistence(err)
	}
	return nil
}

// Close stops the writer after the in-flight save and closes the backend when it
// holds resources.
func (s *SnapshotStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.dirty {
			if cur := s.current.Load(); cur != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if perr := s.persist(ctx, cur); perr != nil {
					log.Printf("[store] unsaved changes lost on close: %v", perr)
				}
				cancel()
			}
		}
		s.closed.Store(true)
		close(s.writes)
		s.mu.Unlock()

		<-s.done
		if c, ok := s.backend.(io.Closer); ok {
			err = c.Close()
		}
	})
	return err
}

// --------------------------------------------------
// Load
// --------------------------------------------------

// loaded must be called with mu held.
func (s *SnapshotStore) loaded(ctx context.Context) (*models.Snapshot, error) {
	if cur := s.current.Load(); cur != nil {
		return cur, nil
	}

	snap, err := s.backend.Load(ctx)
	if err != nil {
		return nil, httperr.ErrPersistence(err)
	}
	snap.Normalize()

	backfilled := 0
	for i := range snap.Appointments {
		if domain.Normalize(&snap.Appointments[i]) {
			backfilled++
		}
	}
	if backfilled > 0 {
		log.Printf("[store] normalized %d appointment(s) on load", backfilled)
		if err := s.persist(ctx, snap); err != nil {
			log.Printf("[store] could not persist normalized snapshot: %v", err)
		}
	}

	s.current.Store(snap)
	log.Printf("[store] loaded snapshot from %s (%d appointments)", s.backend.Name(), len(snap.Appointments))
	return snap, nil
}

func (s *SnapshotStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.loaded(ctx)
	return err
}

func (s *SnapshotStore) read(ctx context.Context) (*models.Snapshot, error) {
	if cur := s.current.Load(); cur != nil {
		return cur, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded(ctx)
}

// --------------------------------------------------
// Snapshot
// --------------------------------------------------

func (s *SnapshotStore) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	cur, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return cur.Clone(), nil
}

func (s *SnapshotStore) Mutate(
	ctx context.Context,
	fn func(next *models.Snapshot) (bool, error),
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.loaded(ctx)
	if err != nil {
		return err
	}

	next := cur.Clone()
	changed, err := fn(next)
	if err != nil {
		return err
	}
	if !changed {
		return s.flushLocked(ctx, cur)
	}

	if err := s.persist(ctx, next); err != nil {
		log.Printf("[store] save failed, keeping last good snapshot: %v", err)
		return err
	}

	s.dirty = false
	s.current.Store(next)
	return nil
}

// MutateRetained is Mutate for changes that already happened outside the
// process (a message handed to the transport). When the save fails the change
// is still published and stays pending: the next write saves it.
func (s *SnapshotStore) MutateRetained(
	ctx context.Context,
	fn func(next *models.Snapshot) (bool, error),
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.loaded(ctx)
	if err != nil {
		return err
	}

	next := cur.Clone()
	changed, err := fn(next)
	if err != nil {
		return err
	}
	if !changed {
		return s.flushLocked(ctx, cur)
	}

	s.current.Store(next)
	if err := s.persist(ctx, next); err != nil {
		s.dirty = true
		log.Printf("[store] save failed, change kept in memory until the next write: %v", err)
		return err
	}
	s.dirty = false
	return nil
}

// Flush saves a snapshot published by MutateRetained whose save failed.
func (s *SnapshotStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if cur == nil {
		return nil
	}
	return s.flushLocked(ctx, cur)
}

// flushLocked must be called with mu held.
func (s *SnapshotStore) flushLocked(ctx context.Context, cur *models.Snapshot) error {
	if !s.dirty {
		return nil
	}
	if err := s.persist(ctx, cur); err != nil {
		return err
	}
	s.dirty = false
	log.Printf("[store] pending changes saved")
	return nil
}

func normalizeAll(snap *models.Snapshot) {
	snap.Normalize()
	for i := range snap.Appointments {
		domain.Normalize(&snap.Appointments[i])
	}
	for i := range snap.Clients {
		snap.Clients[i].Phone = validators.NormalizePhone(snap.Clients[i].Phone)
	}
}

// ReplaceAll substitui o estado inteiro.
func (s *SnapshotStore) ReplaceAll(ctx context.Context, snap *models.Snapshot) error {
	next := snap.Clone()
	normalizeAll(next)

	return s.Mutate(ctx, func(target *models.Snapshot) (bool, error) {
		*target = *next
		return true, nil
	})
}

// ApplySnapshotPatch is the bulk sync: every collection present in p replaces
// the stored one, the rest is kept. Barbers sent without a pin hash keep theirs.
func (s *SnapshotStore) ApplySnapshotPatch(ctx context.Context, p models.SnapshotPatch) error {
	if p.Empty() {
		return httperr.ErrBusiness("empty_sync_payload")
	}
	return s.Mutate(ctx, func(next *models.Snapshot) (bool, error) {
		p.Apply(next)
		normalizeAll(next)
		return true, nil
	})
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (s *SnapshotStore) GetService(ctx context.Context, id string) (*models.Service, error) {
	cur, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	svc := cur.Service(id)
	if svc == nil {
		return nil, httperr.ErrNotFound("service_not_found")
	}
	out := *svc
	return &out, nil
}

func (s *SnapshotStore) ReplaceServices(ctx context.Context, services []models.Service) error {
	seen := make(map[string]bool, len(services))
	for _, svc := range services {
		if strings.TrimSpace(svc.ID) == "" || strings.TrimSpace(svc.Name) == "" {
			return httperr.ErrBusiness("invalid_service")
		}
		if svc.Duration <= 0 || svc.Price < 0 {
			return httperr.ErrBusiness("invalid_service")
		}
		if seen[svc.ID] {
			return httperr.ErrBusiness("duplicate_service_id")
		}
		seen[svc.ID] = true
	}
	return s.Mutate(ctx, func(next *models.Snapshot) (bool, error) {
		next.Services = append([]models.Service{}, services...)
		return true, nil
	})
}

func (s *SnapshotStore) SetMonthlyGoal(ctx context.Context, goal float64) error {
	if goal <= 0 {
		return httperr.ErrBusiness("invalid_monthly_goal")
	}
	return s.Mutate(ctx, func(next *models.Snapshot) (bool, error) {
		next.MonthlyGoal = goal
		return true, nil
	})
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (s *SnapshotStore) GetBarber(ctx context.Context, id string) (*models.Barber, error) {
	cur, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	b := cur.Barber(id)
	if b == nil {
		return nil, httperr.ErrNotFound("barber_not_found")
	}
	out := b.Clone()
	return &out, nil
}

func (s *SnapshotStore) UpdateBarber(
	ctx context.Context,
	id string,
	fn func(b *models.Barber) error,
) (*models.Barber, error) {

	var out models.Barber
	err := s.Mutate(ctx, func(next *models.Snapshot) (bool, error) {
		b := next.Barber(id)
		if b == nil {
			return false, httperr.ErrNotFound("barber_not_found")
		}
		if err := fn(b); err != nil {
			return false, err
		}
		out = b.Clone()
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchBarber applies a field-level patch. Replacing the block lists is
// last-writer-wins, so it is logged.
func (s *SnapshotStore) PatchBarber(
	ctx context.Context,
	id string,
	patch models.BarberPatch,
) (*models.Barber, error) {

	if patch.OffDays != nil || patch.ManualBlocks != nil {
		log.Printf("[store] barber %s: off days/manual blocks replaced by patch (last writer wins)", id)
	}
	return s.UpdateBarber(ctx, id, func(b *models.Barber) error {
		patch.Apply(b)
		return nil
	})
}

func (s *SnapshotStore) ReplaceBarbers(ctx context.Context, barbers []models.Barber) error {
	return s.Mutate(ctx, func(next *models.Snapshot) (bool, error) {
		out := make([]models.Barber, 0, len(barbers))
		for _, b := range barbers {
			b = b.Clone()
			if b.PinHash == "" {
				// a lista pública não traz o hash; preserva o existente
				if old := next.Barber(b.ID); old != nil {
					b.PinHash = old.PinHash
				}
			}
			if b.OffDays == nil {
				b.OffDays = []string{}
			}
			if b.ManualBlocks == nil {
				b.ManualBlocks = []models.ManualBlock{}
			}
			out = append(out, b)
		}
		next.Barbers = out
		return true, nil
	})
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (s *SnapshotStore) UpsertClient(ctx context.Context, name, phone string) (*models.Client, error) {
	var out models.Client
	err := s.Mutate(ctx, func(next *models.Snapshot) (bool, error) {
		c, err := client.Upsert(next, name, phone, s.now())
		if err != nil {
			return false, err
		}
		out = *c
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

// Create appends ap as given. Callers that must not double-book go through
// Mutate and re-check availability in the same critical section.
func (s *SnapshotStore) Create(
	ctx context.Context,
	ap *models.Appointment,
) (*models.Appointment, error) {

	created := ap.Clone()
	if created.ID == "" {
		created.ID = domain.NewID()
	}
	now := s.now()
	created.CreatedAt = now
	created.UpdatedAt = now
	domain.Normalize(&created)

	err := s.Mutate(ctx, func(next *models.Snapshot) (bool, error) {
		if next.Appointment(created.ID) != nil {
			return false, httperr.ErrBusiness("duplicate_appointment_id")
		}
		next.Appointments = append(next.Appointments, created)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	out := created.Clone()
	return &out, nil
}

func (s *SnapshotStore) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	cur, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	ap := cur.Appointment(id)
	if ap == nil {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	out := ap.Clone()
	return &out, nil
}

func (s *SnapshotStore) UpdateAppointment(
	ctx context.Context,
	id string,
	fn func(ap *models.Appointment) error,
) (*models.Appointment, error) {

	var out models.Appointment
	err := s.Mutate(ctx, func(next *models.Snapshot) (bool, error) {
		ap := next.Appointment(id)
		if ap == nil {
			return false, httperr.ErrNotFound("appointment_not_found")
		}
		if err := fn(ap); err != nil {
			return false, err
		}
		ap.ID = id
		ap.UpdatedAt = s.now()
		out = ap.Clone()
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SnapshotStore) Patch(
	ctx context.Context,
	id string,
	patch models.AppointmentPatch,
) (*models.Appointment, error) {

	return s.UpdateAppointment(ctx, id, func(ap *models.Appointment) error {
		patch.Apply(ap)
		domain.Normalize(ap)
		return nil
	})
}

func (s *SnapshotStore) Query(
	ctx context.Context,
	pred func(ap *models.Appointment) bool,
) ([]models.Appointment, error) {

	cur, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	out := []models.Appointment{}
	for i := range cur.Appointments {
		ap := cur.Appointments[i].Clone()
		if pred == nil || pred(&ap) {
			out = append(out, ap)
		}
	}
	return out, nil
}
