package eventlog

import (
	"sync"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

// Memory is a Log kept in process memory. The zero value is ready to use.
type Memory struct {
	mtx     sync.RWMutex
	records []Record
}

// NewMemory returns empty in-memory Log.
func NewMemory() *Memory {
	return new(Memory)
}

// Append implements Log.
func (m *Memory) Append(events ...state.NotificationEvent) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	var prev Record
	if n := len(m.records); n > 0 {
		prev = m.records[n-1]
	}

	next := uint64(len(m.records))
	recs, err := chainRecords(next, prev.Hash, events)
	if err != nil {
		return err
	}

	m.records = append(m.records, recs...)
	return nil
}

// Records implements Log.
func (m *Memory) Records() ([]Record, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	res := make([]Record, len(m.records))
	copy(res, m.records)
	return res, nil
}

// Len returns number of records in the log.
func (m *Memory) Len() int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	return len(m.records)
}
