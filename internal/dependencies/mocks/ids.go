package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/leaderboard-go/internal/dependencies/ids"
)

// MockIDs is a mock implementation of ids.Generator for testing
type MockIDs struct {
	mu sync.Mutex

	// Results is a queue of ids to return from NewID
	Results []string
	index   int

	// counter backs the fallback ids once the queue is exhausted
	counter int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a new MockIDs
func NewMockIDs() *MockIDs {
	return &MockIDs{}
}

// NewID returns the next queued id, or a sequential "id-N" once the queue is empty
func (m *MockIDs) NewID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index < len(m.Results) {
		result := m.Results[m.index]
		m.index++
		return result
	}
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

// Queue adds values to the result queue
func (m *MockIDs) Queue(values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results = append(m.Results, values...)
}

// Reset clears all queued results
func (m *MockIDs) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results = nil
	m.index = 0
	m.counter = 0
}
