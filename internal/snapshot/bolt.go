package snapshot

import (
	"context"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/BruksfildServices01/barbersaas/internal/models"
)

const (
	boltBucket = "barbersaas"
	boltKey    = "snapshot"
)

// BoltBackend stores the snapshot under a single key; each Save is one bolt
// transaction, so a crash leaves either the old or the new document.
type BoltBackend struct {
	db *bolt.DB
}

func NewBoltBackend(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) Name() string { return "bolt" }

func (b *BoltBackend) Close() error {
	return b.db.Close()
}

func (b *BoltBackend) Load(_ context.Context) (*models.Snapshot, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(boltBucket)).Get([]byte(boltKey))
		// v só é válido dentro da transação
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (b *BoltBackend) Save(_ context.Context, snap *models.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(boltKey), data)
	})
}
