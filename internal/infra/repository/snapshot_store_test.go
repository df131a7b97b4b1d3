package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
	"github.com/BruksfildServices01/barbersaas/internal/snapshot"
)

// flakyBackend wraps a real backend and fails saves on demand.
type flakyBackend struct {
	snapshot.Backend

	mu    sync.Mutex
	fail  bool
	saves int
}

func (f *flakyBackend) Save(ctx context.Context, snap *models.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("disk full")
	}
	f.saves++
	return f.Backend.Save(ctx, snap)
}

func (f *flakyBackend) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func newTestStore(t *testing.T) (*SnapshotStore, *flakyBackend) {
	t.Helper()
	backend := &flakyBackend{Backend: snapshot.NewFileBackend(filepath.Join(t.TempDir(), "db.json"))}
	s := NewSnapshotStore(backend)
	t.Cleanup(func() { s.Close() })
	return s, backend
}

func seed(t *testing.T, s *SnapshotStore) {
	t.Helper()
	require.NoError(t, s.ReplaceServices(context.Background(), []models.Service{
		{ID: "svc-1", Name: "Corte", Duration: 30, Price: 45},
	}))
	require.NoError(t, s.ReplaceBarbers(context.Background(), []models.Barber{
		{ID: "b-1", Name: "Rafa"},
	}))
}

func TestCreateAndFind(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, &models.Appointment{BarberID: "b-1", Date: "2025-03-10", Time: "09:00"})
	require.NoError(t, err)
	require.Contains(t, created.ID, "apt-")
	require.Equal(t, "pending", created.Status)
	require.Equal(t, "Presencial", created.PaymentMethod)
	require.Equal(t, 30, created.ServiceDuration)

	found, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = s.FindByID(ctx, "apt-missing")
	require.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestReturnedValuesAreCopies(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, &models.Appointment{ClientName: "Ana"})
	require.NoError(t, err)

	created.ClientName = "mudado"
	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	snap.Appointments[0].ClientName = "também mudado"

	found, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Ana", found.ClientName)
}

func TestPatchIsFieldLevel(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, &models.Appointment{ClientName: "Ana", PaymentMethod: "Pix"})
	require.NoError(t, err)

	name := "Ana Paula"
	patched, err := s.Patch(ctx, created.ID, models.AppointmentPatch{ClientName: &name})
	require.NoError(t, err)
	require.Equal(t, created.ID, patched.ID)
	require.Equal(t, "Ana Paula", patched.ClientName)
	require.Equal(t, "Pix", patched.PaymentMethod)

	_, err = s.Patch(ctx, "apt-missing", models.AppointmentPatch{ClientName: &name})
	require.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestConcurrentPatchesDoNotLoseFields(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, &models.Appointment{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		v := "Bia"
		_, err := s.Patch(ctx, created.ID, models.AppointmentPatch{ClientName: &v})
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		v := "Pix"
		_, err := s.Patch(ctx, created.ID, models.AppointmentPatch{PaymentMethod: &v})
		assert.NoError(t, err)
	}()
	wg.Wait()

	found, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Bia", found.ClientName)
	require.Equal(t, "Pix", found.PaymentMethod)
}

func TestConcurrentCreatesAreAllPersisted(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Create(ctx, &models.Appointment{ClientName: fmt.Sprintf("c%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	reloaded := NewSnapshotStore(s.backend)
	defer reloaded.Close()
	snap, err := reloaded.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Appointments, n)
}

func TestSaveFailureKeepsLastGoodSnapshot(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, &models.Appointment{ClientName: "Ana"})
	require.NoError(t, err)

	backend.setFail(true)
	name := "Outro"
	_, err = s.Patch(ctx, created.ID, models.AppointmentPatch{ClientName: &name})
	require.Error(t, err)
	require.True(t, httperr.IsKind(err, httperr.KindPersistence))

	found, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Ana", found.ClientName)

	backend.setFail(false)
	_, err = s.Patch(ctx, created.ID, models.AppointmentPatch{ClientName: &name})
	require.NoError(t, err)
}

func TestMutateWithoutChangeSkipsSave(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	before := backend.saves
	require.NoError(t, s.Mutate(ctx, func(next *models.Snapshot) (bool, error) {
		return false, nil
	}))
	require.Equal(t, before, backend.saves)
}

func TestLoadBackfillsLegacyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	fb := snapshot.NewFileBackend(path)

	legacy := models.NewSnapshot()
	done := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	legacy.Appointments = append(legacy.Appointments, models.Appointment{
		ID:          "apt-9f8e7d6c-0000",
		Status:      "completed",
		CompletedAt: &done,
	})
	require.NoError(t, fb.Save(context.Background(), legacy))

	s := NewSnapshotStore(fb)
	defer s.Close()

	ap, err := s.FindByID(context.Background(), "apt-9f8e7d6c-0000")
	require.NoError(t, err)
	require.Equal(t, "Presencial", ap.PaymentMethod)
	require.Equal(t, 30, ap.ServiceDuration)
	require.NotNil(t, ap.Receipt)
	require.Equal(t, "REC-9F8E7D6C", ap.Receipt.Number)
}

func TestReplaceBarbersKeepsPinHash(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceBarbers(ctx, []models.Barber{{ID: "b-1", Name: "Rafa", PinHash: "hash"}}))
	require.NoError(t, s.ReplaceBarbers(ctx, []models.Barber{{ID: "b-1", Name: "Rafael"}}))

	b, err := s.GetBarber(ctx, "b-1")
	require.NoError(t, err)
	require.Equal(t, "Rafael", b.Name)
	require.Equal(t, "hash", b.PinHash)
	require.NotNil(t, b.OffDays)
}

func TestPatchBarber(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	seed(t, s)

	days := []string{"2025-03-10"}
	b, err := s.PatchBarber(ctx, "b-1", models.BarberPatch{OffDays: &days})
	require.NoError(t, err)
	require.True(t, b.IsOffDay("2025-03-10"))

	_, err = s.PatchBarber(ctx, "b-x", models.BarberPatch{OffDays: &days})
	require.True(t, httperr.IsBusiness(err, "barber_not_found"))
}

func TestUpsertClientAndMonthlyGoal(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	c1, err := s.UpsertClient(ctx, "Ana", "(11) 98888-7777")
	require.NoError(t, err)
	c2, err := s.UpsertClient(ctx, "Ana Souza", "11988887777")
	require.NoError(t, err)
	require.Equal(t, c1.ID, c2.ID)
	require.Equal(t, "11988887777", c2.Phone)

	require.Error(t, s.SetMonthlyGoal(ctx, 0))
	require.NoError(t, s.SetMonthlyGoal(ctx, 35000))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Clients, 1)
	require.Equal(t, float64(35000), snap.MonthlyGoal)
}

func TestReplaceAllNormalizes(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	in := &models.Snapshot{
		Appointments: []models.Appointment{{ID: "apt-1"}},
	}
	require.NoError(t, s.ReplaceAll(ctx, in))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Services)
	require.Equal(t, float64(models.DefaultMonthlyGoal), snap.MonthlyGoal)
	require.Equal(t, "pending", snap.Appointments[0].Status)
}

func TestClosedStoreRejectsWrites(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.Close())

	_, err := s.Create(ctx, &models.Appointment{})
	require.True(t, httperr.IsKind(err, httperr.KindPersistence))
}

func TestApplySnapshotPatchReplacesOnlyGivenCollections(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	seed(t, s)
	require.NoError(t, s.ReplaceBarbers(ctx, []models.Barber{{ID: "b-1", Name: "Rafa", PinHash: "hash"}}))

	barbers := []models.Barber{{ID: "b-1", Name: "Rafael"}, {ID: "b-2", Name: "Léo"}}
	clients := []models.Client{{ID: "cli-1", Name: "Ana", Phone: "(11) 98888-7777"}}
	require.NoError(t, s.ApplySnapshotPatch(ctx, models.SnapshotPatch{Barbers: &barbers, Clients: &clients}))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Services, 1)
	require.Len(t, snap.Barbers, 2)
	require.Equal(t, "hash", snap.Barbers[0].PinHash)
	require.Equal(t, "11988887777", snap.Clients[0].Phone)

	require.True(t, httperr.IsBusiness(s.ApplySnapshotPatch(ctx, models.SnapshotPatch{}), "empty_sync_payload"))
}

func TestClientPhoneStoredDigitsOnly(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	created, err := s.Create(ctx, &models.Appointment{
		BarberID: "b-1", Date: "2025-03-10", Time: "09:00", ClientPhone: "+55 (11) 98888-7777",
	})
	require.NoError(t, err)
	require.Equal(t, "5511988887777", created.ClientPhone)

	got, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "5511988887777", got.ClientPhone)

	phone := "(11) 97777-6666"
	patched, err := s.Patch(ctx, created.ID, models.AppointmentPatch{ClientPhone: &phone})
	require.NoError(t, err)
	require.Equal(t, "11977776666", patched.ClientPhone)

	synced := []models.Appointment{{ID: "apt-sync", BarberID: "b-1", Date: "2025-03-10", Time: "10:00", ClientPhone: "(11) 98888-7777"}}
	require.NoError(t, s.ApplySnapshotPatch(ctx, models.SnapshotPatch{Appointments: &synced}))

	got, err = s.FindByID(ctx, "apt-sync")
	require.NoError(t, err)
	require.Equal(t, "11988887777", got.ClientPhone)
}

func TestMutateRetainedKeepsChangeWhenSaveFails(t *testing.T) {
	s, backend := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	backend.mu.Lock()
	backend.fail = true
	backend.mu.Unlock()

	err := s.MutateRetained(ctx, func(next *models.Snapshot) (bool, error) {
		next.MonthlyGoal = 42000
		return true, nil
	})
	require.True(t, httperr.IsKind(err, httperr.KindPersistence))

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, 42000.0, snap.MonthlyGoal)

	// ainda falhando
	require.Error(t, s.Flush(ctx))

	backend.mu.Lock()
	backend.fail = false
	saves := backend.saves
	backend.mu.Unlock()

	require.NoError(t, s.Flush(ctx))
	// nada pendente: sem nova escrita
	require.NoError(t, s.Flush(ctx))

	backend.mu.Lock()
	require.Equal(t, saves+1, backend.saves)
	backend.mu.Unlock()

	saved, err := backend.Backend.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 42000.0, saved.MonthlyGoal)
}
