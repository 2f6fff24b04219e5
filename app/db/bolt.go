package db

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

const bucketCollections = "Collections"

// BoltKV implements KV interface for BoltDB
type BoltKV struct {
	db *bolt.DB
}

// Get value from database
func (b *BoltKV) Get(key string) ([]byte, error) {
	var res []byte
	if err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketCollections)).Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		// data is only valid inside transaction
		res = append([]byte(nil), data...)
		return nil
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Put value to database
func (b *BoltKV) Put(key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(bucketCollections)).Put([]byte(key), value); err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
		return nil
	})
}

// NewBoltKV creates BoltKV instance and initialize bucket
func NewBoltKV(db *bolt.DB) (*BoltKV, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCollections))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &BoltKV{db: db}, nil
}
