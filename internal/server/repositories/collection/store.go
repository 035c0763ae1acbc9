// Package collection implements an ordered, in-memory list of records backed
// by a JSON array file. The list is the source of truth between loads and
// flushes; flushing is always explicit.
package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/dmitrijs2005/mediakeeper/internal/filex"
)

// Entity is a record the store can key. WithKey returns a copy carrying id.
type Entity[T any] interface {
	Key() uint64
	WithKey(id uint64) T
}

// Hook runs inside a mutation, under the store's write lock, before the
// change becomes visible. current is the live list and must not be retained
// or modified. A non-nil error aborts the mutation.
type Hook[T any] func(current []T, candidate T) error

// writeFile is swapped in tests to simulate I/O failures.
var writeFile = filex.WriteFileAtomic

type Store[T Entity[T]] struct {
	path string

	mu    sync.RWMutex
	items []T

	flushMu sync.Mutex
}

// Open loads the store from path, creating the file (and its directory) when
// absent. An empty file is an empty list. Anything that is not a JSON array of
// T with unique non-zero ids is an error.
func Open[T Entity[T]](path string) (*Store[T], error) {
	data, err := filex.ReadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	items := []T{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode store %s: %w", path, err)
		}
		if items == nil {
			items = []T{}
		}
	}

	seen := make(map[uint64]struct{}, len(items))
	for _, it := range items {
		id := it.Key()
		if id == 0 {
			return nil, fmt.Errorf("decode store %s: record with id 0", path)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("decode store %s: duplicate id %d", path, id)
		}
		seen[id] = struct{}{}
	}

	return &Store[T]{path: path, items: items}, nil
}

func (s *Store[T]) Path() string { return s.path }

// nextID applies the monotonic rule: one past the largest id, or 1.
func (s *Store[T]) nextID() uint64 {
	var highest uint64
	for _, it := range s.items {
		if k := it.Key(); k > highest {
			highest = k
		}
	}
	return highest + 1
}

func (s *Store[T]) indexOf(id uint64) int {
	return slices.IndexFunc(s.items, func(it T) bool { return it.Key() == id })
}

// Append assigns the next id to record, runs hooks and appends it. The record
// is visible to readers as soon as Append returns.
func (s *Store[T]) Append(record T, hooks ...Hook[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := record.WithKey(s.nextID())
	for _, h := range hooks {
		if err := h(s.items, candidate); err != nil {
			var zero T
			return zero, err
		}
	}

	s.items = append(s.items, candidate)
	return candidate, nil
}

func (s *Store[T]) FindByID(id uint64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// FindAllWhere returns the records matching pred as of the call. Later
// mutations do not affect the returned sequence.
func (s *Store[T]) FindAllWhere(pred func(T) bool) iter.Seq[T] {
	s.mu.RLock()
	var matched []T
	for _, it := range s.items {
		if pred(it) {
			matched = append(matched, it)
		}
	}
	s.mu.RUnlock()

	return slices.Values(matched)
}

// All returns a copy of the list in insertion order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ReplaceByID merges update into the record with id, keeping its slot and its
// id, then runs hooks against the merged candidate.
func (s *Store[T]) ReplaceByID(id uint64, update func(T) (T, error), hooks ...Hook[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i := s.indexOf(id)
	if i < 0 {
		return zero, common.ErrorNotFound
	}

	candidate, err := update(s.items[i])
	if err != nil {
		return zero, err
	}
	candidate = candidate.WithKey(id)

	for _, h := range hooks {
		if err := h(s.items, candidate); err != nil {
			return zero, err
		}
	}

	s.items[i] = candidate
	return candidate, nil
}

// RemoveByID runs hooks with the record about to be removed, then removes it.
// A hook error leaves the record in place.
func (s *Store[T]) RemoveByID(id uint64, hooks ...Hook[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i := s.indexOf(id)
	if i < 0 {
		return zero, common.ErrorNotFound
	}

	removed := s.items[i]
	for _, h := range hooks {
		if err := h(s.items, removed); err != nil {
			return zero, err
		}
	}

	s.items = slices.Delete(s.items, i, i+1)
	return removed, nil
}

// Flush overwrites the backing file with the whole list. The list is encoded
// under the read lock so the file matches a single point in time; the write
// happens after the lock is released. Concurrent flushes are serialized.
func (s *Store[T]) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	data, err := json.MarshalIndent(s.items, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", common.ErrorPersistence, s.path, err)
	}

	if err := writeFile(s.path, data); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorPersistence, err)
	}
	return nil
}
