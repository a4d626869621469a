package testutil

import (
	"fmt"
	"sync"

	"github.com/JPM1118/harerace/internal/sprites"
)

// MockRegistrar implements sprites.Registrar for testing.
type MockRegistrar struct {
	mu     sync.Mutex
	Names  []string
	Frames map[string]sprites.Frame
	// Reject makes registration fail for the listed names.
	Reject map[string]bool
}

func (m *MockRegistrar) RegisterSprite(name string, f sprites.Frame) (sprites.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Reject[name] {
		return "", fmt.Errorf("rejected %s", name)
	}
	if m.Frames == nil {
		m.Frames = make(map[string]sprites.Frame)
	}
	m.Names = append(m.Names, name)
	m.Frames[name] = f
	return sprites.Handle(name), nil
}

// Registered returns the number of accepted registrations.
func (m *MockRegistrar) Registered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Names)
}
