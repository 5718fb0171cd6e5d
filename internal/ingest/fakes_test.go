package ingest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/hmrtn/gtc-api/internal/domain"
)

// MockRecordWriter is a mock implementation of repository.RecordWriter
type MockRecordWriter struct {
	mock.Mock
}

func (m *MockRecordWriter) InsertBatch(ctx context.Context, kind domain.Kind, rows [][]interface{}) (int64, error) {
	args := m.Called(ctx, kind, rows)
	return args.Get(0).(int64), args.Error(1)
}

// memoryStore emulates insert-or-ignore tables keyed by id
type memoryStore struct {
	mu      sync.Mutex
	tables  map[domain.Kind]map[string][]interface{}
	batches []batchCall
	failOn  func(kind domain.Kind, call int) error
}

type batchCall struct {
	kind domain.Kind
	size int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{tables: make(map[domain.Kind]map[string][]interface{})}
}

func (s *memoryStore) InsertBatch(_ context.Context, kind domain.Kind, rows [][]interface{}) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOn != nil {
		if err := s.failOn(kind, len(s.batches)); err != nil {
			return 0, err
		}
	}
	s.batches = append(s.batches, batchCall{kind: kind, size: len(rows)})

	table, ok := s.tables[kind]
	if !ok {
		table = make(map[string][]interface{})
		s.tables[kind] = table
	}

	var inserted int64
	for _, row := range rows {
		id := row[0].(string)
		if _, exists := table[id]; exists {
			continue
		}
		table[id] = row
		inserted++
	}
	return inserted, nil
}

func (s *memoryStore) count(kind domain.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables[kind])
}

func (s *memoryStore) has(kind domain.Kind, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tables[kind][id]
	return ok
}

func (s *memoryStore) row(kind domain.Kind, id string) []interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables[kind][id]
}

// pagedSource serves records sorted by id and counts requests
type pagedSource[T interface{ RecordID() string }] struct {
	mu       sync.Mutex
	records  []T
	requests int
	onPage   func(after string)
	err      error
}

func newPagedSource[T interface{ RecordID() string }](records []T) *pagedSource[T] {
	sorted := make([]T, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RecordID() < sorted[j].RecordID() })
	return &pagedSource[T]{records: sorted}
}

func (s *pagedSource[T]) Page(_ context.Context, first int, after string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests++
	if s.onPage != nil {
		s.onPage(after)
	}
	if s.err != nil {
		return nil, s.err
	}

	var page []T
	for _, r := range s.records {
		if r.RecordID() > after {
			page = append(page, r)
			if len(page) == first {
				break
			}
		}
	}
	return page, nil
}

func (s *pagedSource[T]) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func programs(prefix string, from, to int) []domain.Program {
	out := make([]domain.Program, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, domain.Program{
			ID:        fmt.Sprintf("%s%04d", prefix, i),
			CreatedAt: "1672531200",
			UpdatedAt: "1672531200",
		})
	}
	return out
}
