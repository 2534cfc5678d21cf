// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"path/filepath"

	"github.com/angelstreet/automai-sub009/pkg/ports"
)

// Sink saves monitoring debug output to files.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a new file sink rooted at baseDir.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveBatchJSON saves one ingestion batch as JSON.
func (s *Sink) SaveBatchJSON(tick int, data []byte) error {
	dir := filepath.Join(s.baseDir, "batches")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("batch-%06d.json", tick))
	return s.fs.WriteFile(path, data)
}

// SaveStateJSON saves a monitoring state snapshot as JSON.
func (s *Sink) SaveStateJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "state.json")
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
