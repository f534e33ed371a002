// persistence/memory.go
package persistence

import (
	"sort"
	"sync"

	"github.com/wfunc/snake/models"
)

// Memory 进程内存储, database.driver = none 时使用
type Memory struct {
	mu      sync.RWMutex
	records map[string]models.GameRecord
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]models.GameRecord)}
}

func (m *Memory) SaveGameRecord(record models.GameRecord) error {
	if err := validate(record); err != nil {
		return err
	}
	m.mu.Lock()
	m.records[record.ID] = record
	m.mu.Unlock()
	return nil
}

func (m *Memory) LoadGameRecord(id string) (models.GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return models.GameRecord{}, ErrRecordNotFound
	}
	return r, nil
}

func (m *Memory) TopScores(limit int) ([]models.GameRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	out := make([]models.GameRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Better(out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Close() error {
	return nil
}
