package sync

import (
	"context"
	"sort"

	"github.com/gatherhq/gather/internal/model"
)

// mockStore is an in-memory store.Store for sync tests.
type mockStore struct {
	nextID uint64
	events map[uint64]*model.Event
}

func newMockStore() *mockStore {
	return &mockStore{nextID: 1, events: make(map[uint64]*model.Event)}
}

func (m *mockStore) NextID(_ context.Context) (uint64, error) {
	id := m.nextID
	m.nextID++
	return id, nil
}

func (m *mockStore) GetEvent(_ context.Context, id uint64) (*model.Event, error) {
	return m.events[id], nil
}

func (m *mockStore) PutEvent(_ context.Context, event *model.Event) (*model.Event, error) {
	prev := m.events[event.ID]
	m.events[event.ID] = event.Clone()
	return prev, nil
}

func (m *mockStore) DeleteEvent(_ context.Context, id uint64) (*model.Event, error) {
	prev := m.events[id]
	delete(m.events, id)
	return prev, nil
}

func (m *mockStore) ListEvents(_ context.Context) ([]*model.Event, error) {
	ids := make([]uint64, 0, len(m.events))
	for id := range m.events {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	list := make([]*model.Event, 0, len(ids))
	for _, id := range ids {
		list = append(list, m.events[id])
	}
	return list, nil
}

func (m *mockStore) Close() error { return nil }
