// Package clipboard abstracts system clipboard access so the session
// logic can be tested without a display server.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard reads and writes text.
type Clipboard interface {
	Get() (string, error)
	Set(text string) error
}

// System is the OS clipboard.
type System struct{}

// NewSystem returns the system clipboard.
func NewSystem() *System { return &System{} }

// Get returns the clipboard text.
func (*System) Get() (string, error) {
	return clipboard.ReadAll()
}

// Set replaces the clipboard text.
func (*System) Set(text string) error {
	return clipboard.WriteAll(text)
}

// Memory is an in-process clipboard for tests.
type Memory struct {
	mu   sync.Mutex
	text string
}

// NewMemory returns an empty in-memory clipboard.
func NewMemory() *Memory { return &Memory{} }

// Get returns the stored text.
func (m *Memory) Get() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// Set replaces the stored text.
func (m *Memory) Set(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}
