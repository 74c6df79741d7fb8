// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/paratools/taucmdr/pkg/constants"
	bolt "go.etcd.io/bbolt"
)

// ErrNotFound reports a record name absent from its bucket.
var ErrNotFound = errors.New("record not found")

// Kind names a record bucket.
type Kind string

const (
	KindProject     Kind = "projects"
	KindTarget      Kind = "targets"
	KindApplication Kind = "applications"
	KindTrial       Kind = "trials"
)

var kinds = []Kind{KindProject, KindTarget, KindApplication, KindTrial}

// Database is the records store of one storage level: a single bbolt
// file with one bucket per record kind and JSON values keyed by name.
type Database struct {
	db *bolt.DB
}

// OpenDatabase opens (creating if needed) the records database at path.
// The open times out rather than blocking forever on a file locked by
// another process.
func OpenDatabase(path string) (*Database, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DefaultPerms755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("opening records database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, kind := range kinds {
			if _, err := tx.CreateBucketIfNotExists([]byte(kind)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// Put stores record under name, replacing any previous value.
func (d *Database) Put(kind Kind, name string, record interface{}) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(kind)).Put([]byte(name), encoded)
	})
}

// Get decodes the record stored under name into out.
func (d *Database) Get(kind Kind, name string, out interface{}) error {
	return d.db.View(func(tx *bolt.Tx) error {
		item := tx.Bucket([]byte(kind)).Get([]byte(name))
		if item == nil {
			return fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
		}
		return json.Unmarshal(item, out)
	})
}

func (d *Database) Exists(kind Kind, name string) (bool, error) {
	var found bool
	err := d.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket([]byte(kind)).Get([]byte(name)) != nil
		return nil
	})
	return found, err
}

func (d *Database) Delete(kind Kind, name string) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(kind))
		if bucket.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
		}
		return bucket.Delete([]byte(name))
	})
}

// List returns the names stored for kind in key order.
func (d *Database) List(kind Kind) ([]string, error) {
	var names []string
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(kind)).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}
