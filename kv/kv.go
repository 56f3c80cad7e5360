// Package kv wraps the embedded ordered key-value store (boltdb) that backs
// every sub-tree the store needs: folder schemas, partitioned item data,
// per-partition inverted indexes, partition routing and file blobs. All of
// these sub-trees live inside one physical database file; a sub-tree is
// nothing more than a named top-level bucket.
package kv

import (
	"time"

	"github.com/boltdb/bolt"

	"github.com/foliant-db/foliant/ferrors"
)

// Store is a handle on one physical boltdb file. Routing scopes do not get
// files of their own; callers prefix sub-tree names with the scope key, so
// several scopes can share one Store. It is safe for concurrent use; boltdb serializes writers and allows
// concurrent readers internally.
type Store struct {
	db   *bolt.DB
	path string
}

// Open opens (creating if necessary) the boltdb file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, ferrors.BackendError.New(err.Error())
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the underlying file handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return ferrors.BackendError.New(err.Error())
	}
	return nil
}

// Path returns the filesystem path of the backing file.
func (s *Store) Path() string { return s.path }

// Put writes key/value into the named sub-tree, creating the sub-tree if it
// does not yet exist.
func (s *Store) Put(tree string, key, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(tree))
		if err != nil {
			return err
		}
		return b.Put(key, value)
	})
	if err != nil {
		return ferrors.BackendError.New(err.Error())
	}
	return nil
}

// Get reads a key from the named sub-tree. It returns (nil, false, nil) when
// the sub-tree or the key does not exist.
func (s *Store) Get(tree string, key []byte) ([]byte, bool, error) {
	var out []byte
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tree))
		if b == nil {
			return nil
		}
		v := b.Get(key)
		if v == nil {
			return nil
		}
		found = true
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, false, ferrors.BackendError.New(err.Error())
	}
	return out, found, nil
}

// Delete removes a key from the named sub-tree. Deleting a missing key is
// not an error.
func (s *Store) Delete(tree string, key []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tree))
		if b == nil {
			return nil
		}
		return b.Delete(key)
	})
	if err != nil {
		return ferrors.BackendError.New(err.Error())
	}
	return nil
}

// Iterate calls fn for every key/value pair in the named sub-tree in key
// order, stopping early if fn returns an error. Iterating a missing sub-tree
// is a no-op.
func (s *Store) Iterate(tree string, fn func(key, value []byte) error) error {
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(tree))
		if b == nil {
			return nil
		}
		return b.ForEach(fn)
	})
	if err != nil {
		return ferrors.BackendError.New(err.Error())
	}
	return nil
}

// Count returns the number of keys in the named sub-tree.
func (s *Store) Count(tree string) (int, error) {
	n := 0
	err := s.Iterate(tree, func(_, _ []byte) error {
		n++
		return nil
	})
	return n, err
}

// Drop removes the named sub-tree and everything in it. Dropping a missing
// sub-tree is not an error.
func (s *Store) Drop(tree string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(tree))
		if err == bolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
	if err != nil {
		return ferrors.BackendError.New(err.Error())
	}
	return nil
}

// Update runs fn inside a single read-write transaction scoped to the named
// sub-tree, which is created if missing. Used for operations that must
// observe-then-mutate atomically, such as partition assignment.
func (s *Store) Update(tree string, fn func(b *bolt.Bucket) error) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(tree))
		if err != nil {
			return err
		}
		return fn(b)
	})
	if err != nil {
		return ferrors.BackendError.New(err.Error())
	}
	return nil
}
