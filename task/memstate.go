package task

import (
	"fmt"
	"sync"
)

// MemStore is an in-memory StateStore. It backs chunker and runner
// tests; production runs use FSStore.
type MemStore struct {
	mtx   sync.Mutex
	state map[[2]int]Status
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{state: map[[2]int]Status{}}
}

// Status reports the recorded status, Pending when unrecorded.
func (m *MemStore) Status(index, phase int) (Status, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.state[[2]int{index, phase}], nil
}

// Mark records a status transition.
func (m *MemStore) Mark(index, phase int, s Status, note Note) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if s == Pending {
		delete(m.state, [2]int{index, phase})
		return nil
	}
	m.state[[2]int{index, phase}] = s
	return nil
}

// Unlock clears Running and Failed records.
func (m *MemStore) Unlock() ([]string, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	var removed []string
	for k, s := range m.state {
		if s == Running || s == Failed {
			delete(m.state, k)
			removed = append(removed, fmt.Sprintf("task-%s-%d", IndexStr(k[0]), k[1]))
		}
	}
	return removed, nil
}
