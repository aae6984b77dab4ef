package mocks

import (
	"image"
	"sync"

	"github.com/user/pfmshot/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	HeaderJSON []byte
	Preview    image.Image
	RunJSON    []byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{enabled: enabled}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveHeaderJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HeaderJSON = data
	return nil
}

func (m *DebugSink) SavePreview(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Preview = img
	return nil
}

func (m *DebugSink) SaveRunJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunJSON = data
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
