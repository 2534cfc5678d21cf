package ports

// DebugSink abstracts debug output for intermediate monitoring results.
// It allows saving ingestion batches and state snapshots for offline
// inspection of a monitoring run.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveBatchJSON saves one ingestion batch as JSON, keyed by the tick
	// sequence it was appended on.
	SaveBatchJSON(tick int, data []byte) error

	// SaveStateJSON saves a monitoring state snapshot as JSON.
	SaveStateJSON(data []byte) error
}

// FileSystem abstracts the file system operations the debug sink needs.
type FileSystem interface {
	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error
}
