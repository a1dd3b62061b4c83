package nats

import (
	"context"
	"sync"

	"github.com/brojonat/wrapped/service/wrapped"
)

// MockPublisher is a mock implementation of Publisher for testing.
type MockPublisher struct {
	mu              sync.RWMutex
	publishedEvents []*SummaryEvent
	publishError    error
	closed          bool
}

// NewMockPublisher creates a new mock publisher for testing.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		publishedEvents: make([]*SummaryEvent, 0),
	}
}

// PublishSummary records the event and returns any configured error.
func (m *MockPublisher) PublishSummary(ctx context.Context, address string, summary *wrapped.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.publishError != nil {
		return m.publishError
	}

	m.publishedEvents = append(m.publishedEvents, FromSummary(address, summary))
	return nil
}

// Close marks the publisher as closed.
func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetPublishError makes subsequent publishes fail with err.
func (m *MockPublisher) SetPublishError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishError = err
}

// GetPublishedEvents returns all published events (for testing).
func (m *MockPublisher) GetPublishedEvents() []*SummaryEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]*SummaryEvent, len(m.publishedEvents))
	copy(events, m.publishedEvents)
	return events
}

// GetPublishedEventsForAddress returns events published for a specific wallet.
func (m *MockPublisher) GetPublishedEventsForAddress(address string) []*SummaryEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var events []*SummaryEvent
	for _, event := range m.publishedEvents {
		if event.Address == address {
			events = append(events, event)
		}
	}
	return events
}

// IsClosed returns whether Close was called.
func (m *MockPublisher) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}
