package snapshot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbersaas/internal/models"
)

type stubBackend struct {
	name    string
	loadErr error
	saveErr error
	saved   int
	snap    *models.Snapshot
	delay   time.Duration
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Load(ctx context.Context) (*models.Snapshot, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.snap == nil {
		return models.NewSnapshot(), nil
	}
	return s.snap.Clone(), nil
}

func (s *stubBackend) Save(ctx context.Context, snap *models.Snapshot) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved++
	s.snap = snap.Clone()
	return nil
}

func TestMirroredMirrorFailureDoesNotFailSave(t *testing.T) {
	primary := NewFileBackend(filepath.Join(t.TempDir(), "db.json"))
	mirror := &stubBackend{name: "s3", saveErr: errors.New("offline")}

	m := NewMirrored(primary, mirror)
	require.Equal(t, "file+s3", m.Name())
	require.NoError(t, m.Save(context.Background(), sampleSnapshot()))

	got, err := primary.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Appointments, 1)
}

func TestMirroredPrimaryFailureFailsSave(t *testing.T) {
	primary := &stubBackend{name: "redis", saveErr: errors.New("down")}
	mirror := &stubBackend{name: "s3"}

	err := NewMirrored(primary, mirror).Save(context.Background(), sampleSnapshot())
	require.Error(t, err)
	require.Equal(t, 0, mirror.saved)
}

func TestMirroredLoadFallsBackToMirror(t *testing.T) {
	primary := &stubBackend{name: "redis", loadErr: errors.New("down")}
	mirror := &stubBackend{name: "s3", snap: sampleSnapshot()}

	got, err := NewMirrored(primary, mirror).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "apt-1", got.Appointments[0].ID)
}

func TestWithTimeoutBoundsSlowBackend(t *testing.T) {
	slow := &stubBackend{name: "s3", delay: time.Second}

	err := WithTimeout(slow, 20*time.Millisecond).Save(context.Background(), sampleSnapshot())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWrappersCloseUnderlyingBackend(t *testing.T) {
	bolt, err := NewBoltBackend(filepath.Join(t.TempDir(), "db.bolt"))
	require.NoError(t, err)

	wrapped := NewMirrored(WithTimeout(bolt, time.Second), &stubBackend{name: "s3"})
	require.NoError(t, wrapped.Close())

	// banco fechado: a próxima leitura falha
	_, err = bolt.Load(context.Background())
	require.Error(t, err)
}
