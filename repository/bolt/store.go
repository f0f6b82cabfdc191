// Package bolt persists lists, tasks and clients in a single bbolt file.
// bbolt admits one writer at a time, which makes every Atomic unit serializable.
package bolt

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/fastygo/tasklists/repository"
)

var (
	bucketLists   = []byte("lists")
	bucketTasks   = []byte("tasks")
	bucketClients = []byte("clients")
)

// Store wraps a bbolt database. When tx is set the store is bound to an open
// read-write transaction created by Atomic.
type Store struct {
	db *bbolt.DB
	tx *bbolt.Tx
}

// Open initializes the database file and ensures the buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketLists, bucketTasks, bucketClients} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Lists() repository.ListRepository     { return listRepo{s} }
func (s *Store) Tasks() repository.TaskRepository     { return taskRepo{s} }
func (s *Store) Clients() repository.ClientRepository { return clientRepo{s} }

func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}
	if s.db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return fn(ctx, &Store{db: s.db, tx: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketLists) == nil {
			return bbolt.ErrBucketNotFound
		}
		return nil
	})
}

// Close closes the bbolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil || s.tx != nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) view(fn func(tx *bbolt.Tx) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	if s.db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	return s.db.View(fn)
}

func (s *Store) update(fn func(tx *bbolt.Tx) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	if s.db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	return s.db.Update(fn)
}

func get(tx *bbolt.Tx, bucket []byte, id string, dst interface{}) (bool, error) {
	raw := tx.Bucket(bucket).Get([]byte(id))
	if raw == nil {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func put(tx *bbolt.Tx, bucket []byte, id string, src interface{}) error {
	payload, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return tx.Bucket(bucket).Put([]byte(id), payload)
}

var _ repository.Store = (*Store)(nil)
