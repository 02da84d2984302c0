// Package vectorcache memoizes generated mock-transaction test vectors
// by (mode, seed) in a bbolt database, the same embedded-KV pattern the
// node store uses for chain data: one bucket, binary keys, JSON values.
// Regenerating a large-data or multi-input-cell fixture is not free, and
// the vector generator is re-run constantly while iterating on a single
// test case, so memoizing by the only two inputs that determine its
// output avoids redoing that work.
package vectorcache

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketVectors = []byte("vectors_by_key")

// Cache is a bbolt-backed store of previously generated vectors, keyed
// by a caller-supplied Key.
type Cache struct {
	db *bolt.DB
}

// Key identifies a single generated vector: its mode name and the seed
// it was derived from.
type Key struct {
	Mode string
	Seed int64
}

func (k Key) bytes() []byte {
	return []byte(fmt.Sprintf("%s/%d", k.Mode, k.Seed))
}

// Open opens (creating if necessary) the bbolt database at path.
func Open(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open vector cache: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketVectors)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create vector bucket: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get looks up a previously stored vector by key. The zero value and
// ok=false are returned on a cache miss.
func (c *Cache) Get(key Key, out any) (ok bool, err error) {
	err = c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketVectors).Get(key.bytes())
		if v == nil {
			return nil
		}
		ok = true
		return json.Unmarshal(v, out)
	})
	return ok, err
}

// Put stores value under key, overwriting any previous entry.
func (c *Cache) Put(key Key, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal vector: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVectors).Put(key.bytes(), encoded)
	})
}
