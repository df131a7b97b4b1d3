package snapshot

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/BruksfildServices01/barbersaas/internal/models"
)

// timeoutBackend bounds every call to a remote peer.
type timeoutBackend struct {
	Backend
	timeout time.Duration
}

func WithTimeout(b Backend, d time.Duration) Backend {
	if d <= 0 {
		return b
	}
	return &timeoutBackend{Backend: b, timeout: d}
}

func (t *timeoutBackend) Load(ctx context.Context) (*models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Backend.Load(ctx)
}

func (t *timeoutBackend) Save(ctx context.Context, snap *models.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Backend.Save(ctx, snap)
}

func (t *timeoutBackend) Close() error {
	return closeBackend(t.Backend)
}

func closeBackend(b Backend) error {
	if c, ok := b.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Mirrored writes to the primary and then, best effort, to every mirror. Loads
// fall back to the mirrors, in order, when the primary is unavailable.
type Mirrored struct {
	primary Backend
	mirrors []Backend
}

func NewMirrored(primary Backend, mirrors ...Backend) *Mirrored {
	return &Mirrored{primary: primary, mirrors: mirrors}
}

func (m *Mirrored) Name() string {
	names := []string{m.primary.Name()}
	for _, b := range m.mirrors {
		names = append(names, b.Name())
	}
	return strings.Join(names, "+")
}

func (m *Mirrored) Load(ctx context.Context) (*models.Snapshot, error) {
	snap, err := m.primary.Load(ctx)
	if err == nil {
		return snap, nil
	}

	log.Printf("[snapshot] %s load failed: %v", m.primary.Name(), err)
	for _, b := range m.mirrors {
		snap, merr := b.Load(ctx)
		if merr == nil {
			log.Printf("[snapshot] loaded from mirror %s", b.Name())
			return snap, nil
		}
		log.Printf("[snapshot] mirror %s load failed: %v", b.Name(), merr)
	}
	return nil, err
}

func (m *Mirrored) Save(ctx context.Context, snap *models.Snapshot) error {
	if err := m.primary.Save(ctx, snap); err != nil {
		return err
	}
	for _, b := range m.mirrors {
		if err := b.Save(ctx, snap); err != nil {
			log.Printf("[snapshot] mirror %s save failed: %v", b.Name(), err)
		}
	}
	return nil
}

func (m *Mirrored) Close() error {
	errs := []error{closeBackend(m.primary)}
	for _, b := range m.mirrors {
		errs = append(errs, closeBackend(b))
	}
	return errors.Join(errs...)
}
