// Package pagestore implements the event store on a single page file: an
// id cell in region 0 and a slotted record table in region 1. One process
// owns the file exclusively; operations are serialized so every
// read-modify-write runs to completion before the next begins.
package pagestore

import (
	"context"
	"fmt"
	"sync"

	"github.com/gatherhq/gather/internal/codec"
	"github.com/gatherhq/gather/internal/model"
	"github.com/gatherhq/gather/internal/pagefile"
)

// Fixed region layout. Reopening a file finds the same regions; there is
// no migration step.
const (
	counterRegion = 0
	tableRegion   = 1
)

// firstID is the initial counter value, so the first event created gets
// id 1 and the counter always stays above the largest issued id.
const firstID = 1

// Store is the page-file-backed store.Store implementation.
type Store struct {
	mu    sync.Mutex
	file  *pagefile.File
	ids   *IDCell
	table *Table
}

// Open opens or creates the page file at path and mounts the counter and
// record table regions. Idempotent: an existing file comes back with the
// layout and contents it had at last shutdown.
func Open(path string) (*Store, error) {
	file, err := pagefile.Open(path)
	if err != nil {
		return nil, err
	}

	ids, err := OpenIDCell(file.Region(counterRegion), firstID)
	if err != nil {
		file.Close()
		return nil, err
	}

	table, err := OpenTable(file.Region(tableRegion))
	if err != nil {
		file.Close()
		return nil, err
	}

	return &Store{file: file, ids: ids, table: table}, nil
}

// NextID issues a fresh id: read the counter, persist counter+1, hand out
// the value read. Safe because operations are serialized on s.mu.
func (s *Store) NextID(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.ids.Get()
	if _, err := s.ids.Set(id + 1); err != nil {
		return 0, fmt.Errorf("pagestore: advance id counter: %w", err)
	}
	return id, nil
}

// GetEvent returns the event stored under id, or nil if absent.
func (s *Store) GetEvent(_ context.Context, id uint64) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

// PutEvent encodes the event and inserts it under its id, returning the
// previous value if one existed.
func (s *Store) PutEvent(_ context.Context, event *model.Event) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.table.Insert(event.ID, codec.Encode(event))
	if err != nil {
		return nil, fmt.Errorf("pagestore: put event %d: %w", event.ID, err)
	}
	if prev == nil {
		return nil, nil
	}

	decoded, err := codec.Decode(prev)
	if err != nil {
		return nil, fmt.Errorf("pagestore: previous record %d is corrupt: %w", event.ID, err)
	}
	return decoded, nil
}

// DeleteEvent removes the event under id and returns it, or nil if absent.
func (s *Store) DeleteEvent(_ context.Context, id uint64) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.table.Remove(id)
	if err != nil {
		return nil, fmt.Errorf("pagestore: delete event %d: %w", id, err)
	}
	if prev == nil {
		return nil, nil
	}

	decoded, err := codec.Decode(prev)
	if err != nil {
		return nil, fmt.Errorf("pagestore: removed record %d is corrupt: %w", id, err)
	}
	return decoded, nil
}

// ListEvents returns all events in ascending id order.
func (s *Store) ListEvents(_ context.Context) ([]*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]*model.Event, 0, s.table.Len())
	for _, id := range s.table.Keys() {
		event, err := s.getLocked(id)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// Close closes the underlying page file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

func (s *Store) getLocked(id uint64) (*model.Event, error) {
	data, ok, err := s.table.Get(id)
	if err != nil {
		return nil, fmt.Errorf("pagestore: get event %d: %w", id, err)
	}
	if !ok {
		return nil, nil
	}

	event, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("pagestore: record %d is corrupt: %w", id, err)
	}
	return event, nil
}
