package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbersaas/internal/httperr"
	"github.com/BruksfildServices01/barbersaas/internal/models"
)

func TestUpsertDeduplicatesByPhone(t *testing.T) {
	snap := models.NewSnapshot()
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	first, err := Upsert(snap, " Ana ", "(11) 98765-4321", t0)
	require.NoError(t, err)
	require.Equal(t, "Ana", first.Name)
	require.Equal(t, "11987654321", first.Phone)
	id := first.ID

	second, err := Upsert(snap, "Ana Souza", "11 98765 4321", t0.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, id, second.ID)
	require.Equal(t, "Ana Souza", second.Name)
	require.Len(t, snap.Clients, 1)
	require.Equal(t, t0, snap.Clients[0].CreatedAt)
	require.Equal(t, t0.Add(time.Hour), snap.Clients[0].UpdatedAt)
}

func TestUpsertValidates(t *testing.T) {
	snap := models.NewSnapshot()

	_, err := Upsert(snap, "", "11987654321", time.Now())
	require.True(t, httperr.IsBusiness(err, "invalid_client_name"))

	_, err = Upsert(snap, "Ana", "1234", time.Now())
	require.True(t, httperr.IsBusiness(err, "invalid_client_phone"))

	require.Empty(t, snap.Clients)
}
