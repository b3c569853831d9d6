package printer

import (
	"context"
	"fmt"
	"sync"
)

// MockClient implements Client for testing. It records printed messages and
// can be switched into a failing mode.
type MockClient struct {
	mu      sync.Mutex
	printed []string
	fail    bool
}

// NewMockClient creates a MockClient.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Print records the message, or fails with ErrUnavailable in failing mode.
func (m *MockClient) Print(ctx context.Context, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return fmt.Errorf("%w: mock failure", ErrUnavailable)
	}
	m.printed = append(m.printed, message)
	return nil
}

// SetFail switches the failing mode on or off.
func (m *MockClient) SetFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

// Printed returns a copy of the recorded messages.
func (m *MockClient) Printed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.printed...)
}
