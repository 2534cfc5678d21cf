package mocks

import (
	"sync"

	"github.com/angelstreet/automai-sub009/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink that records
// saved payloads in memory.
type DebugSink struct {
	enabled bool

	mu      sync.Mutex
	Batches map[int][]byte
	States  [][]byte
}

// NewDebugSink creates a mock sink with the given enabled state.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled: enabled,
		Batches: make(map[int][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveBatchJSON(tick int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Batches[tick] = data
	return nil
}

func (m *DebugSink) SaveStateJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.States = append(m.States, data)
	return nil
}

// FileSystem is a mock implementation of ports.FileSystem that keeps
// files in memory.
type FileSystem struct {
	mu    sync.Mutex
	Files map[string][]byte
	Dirs  []string

	WriteFileFunc func(path string, data []byte) error
}

// NewFileSystem creates an empty in-memory filesystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{Files: make(map[string][]byte)}
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(path, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[path] = data
	return nil
}

func (m *FileSystem) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dirs = append(m.Dirs, path)
	return nil
}

// Ensure mocks implement the sink ports
var (
	_ ports.DebugSink  = (*DebugSink)(nil)
	_ ports.FileSystem = (*FileSystem)(nil)
)
