// Package snapshot persists the whole application state as one JSON document.
// Every backend replaces the document atomically; none of them merges.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/BruksfildServices01/barbersaas/internal/models"
)

type Backend interface {
	Name() string

	// Load returns an empty snapshot when nothing has been stored yet.
	Load(ctx context.Context) (*models.Snapshot, error)

	Save(ctx context.Context, snap *models.Snapshot) error
}

func Encode(snap *models.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

func Decode(data []byte) (*models.Snapshot, error) {
	snap := models.NewSnapshot()
	if len(data) == 0 {
		return snap, nil
	}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.Normalize()
	return snap, nil
}
