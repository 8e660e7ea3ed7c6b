// Package snapshot persists named graph documents for the Scry workbench.
//
// The workbench lets a user save the currently loaded graph under a name
// and re-open it in a later session. Snapshots live in a BadgerDB key-value
// store, serialized through the pkg/graph JSON interchange format, so a
// snapshot written by one Scry version stays readable by the next.
//
// Key Structure:
//   - 0x01 + name -> JSON(graph)
//
// Example:
//
//	store, err := snapshot.Open("./snapshots")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	store.Save("imports-march", g)
//	g2, err := store.Load("imports-march")
package snapshot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/scrylabs/scry/pkg/graph"
)

// Errors returned by the store.
var (
	ErrNotFound    = errors.New("snapshot not found")
	ErrInvalidName = errors.New("invalid snapshot name")
	ErrStoreClosed = errors.New("snapshot store closed")
)

// prefixGraph namespaces graph records so future record types can share
// the database.
const prefixGraph = byte(0x01)

// Store is a thread-safe snapshot store backed by BadgerDB.
type Store struct {
	db     *badger.DB
	log    *logrus.Entry
	mu     sync.RWMutex
	closed bool
}

// Options configures the snapshot store.
type Options struct {
	// Dir is the directory for the database files. Required unless
	// InMemory is set.
	Dir string
	// InMemory runs the store without touching disk. Used by tests.
	InMemory bool
}

// Open opens (creating if necessary) the snapshot store in dir.
func Open(dir string) (*Store, error) {
	return OpenWithOptions(Options{Dir: dir})
}

// OpenWithOptions opens a snapshot store with explicit options.
func OpenWithOptions(opts Options) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Dir).
		WithInMemory(opts.InMemory).
		WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &Store{
		db:  db,
		log: logrus.WithField("component", "snapshot"),
	}, nil
}

func graphKey(name string) []byte {
	return append([]byte{prefixGraph}, name...)
}

// Save stores the graph under name, overwriting any previous snapshot of
// that name.
func (s *Store) Save(name string, g *graph.Graph) error {
	if name == "" {
		return ErrInvalidName
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	data, err := g.Encode()
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", name, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(graphKey(name), data)
	})
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", name, err)
	}
	s.log.WithFields(logrus.Fields{
		"name":  name,
		"nodes": g.Order(),
		"edges": g.Size(),
	}).Debug("snapshot saved")
	return nil
}

// Load reads the named snapshot back into an indexed graph.
func (s *Store) Load(name string) (*graph.Graph, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(graphKey(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	return graph.Decode(data)
}

// List returns the names of every stored snapshot in key order.
func (s *Store) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte{prefixGraph}
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			names = append(names, string(key[1:]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return names, nil
}

// Delete removes the named snapshot. Deleting a missing snapshot reports
// ErrNotFound so the CLI can tell the user instead of silently succeeding.
func (s *Store) Delete(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(graphKey(name)); err != nil {
			return err
		}
		return txn.Delete(graphKey(name))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("delete snapshot %q: %w", name, err)
	}
	return nil
}

// Close releases the underlying database. The store is unusable afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
