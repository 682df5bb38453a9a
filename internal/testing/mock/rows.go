package mock

import (
	"sync"

	"smartspace/internal/smartspace"
)

// RowSource is an in-memory row source. Rows published before a consumer
// subscribes are replayed to it.
type RowSource struct {
	publisher *smartspace.Publisher

	mu     sync.Mutex
	closed bool
}

// NewRowSource returns an empty RowSource.
func NewRowSource() *RowSource {
	return &RowSource{publisher: smartspace.NewPublisher()}
}

// Publish delivers rows to subscribers.
func (s *RowSource) Publish(rows []smartspace.Row) {
	s.publisher.Publish(rows)
}

// Rows subscribes to published row sets.
func (s *RowSource) Rows() (<-chan []smartspace.Row, func()) {
	return s.publisher.Subscribe()
}

// Close marks the source closed.
func (s *RowSource) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Closed reports whether Close was called.
func (s *RowSource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
