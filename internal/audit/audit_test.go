package audit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barbersaas/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))
	return db
}

func TestDispatcherWritesThroughGormLogger(t *testing.T) {
	l := New(newTestDB(t))
	d := NewDispatcher(l)

	d.Dispatch(Event{Actor: "public", Action: "appointment_created", Entity: "appointment", EntityID: "apt-1", Metadata: map[string]string{"time": "09:00"}})
	d.Dispatch(Event{Actor: "barber:b-1", Action: "appointment_confirmed", Entity: "appointment", EntityID: "apt-1"})
	d.Close()

	rows, err := l.Recent(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "appointment_confirmed", rows[0].Action)
	require.Equal(t, `{"time":"09:00"}`, rows[1].Metadata)

	// depois de fechado, descarta sem pânico
	d.Dispatch(Event{Action: "late"})
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
}
