package statsd

import (
	"fmt"
	"strings"

	"statsd/storage"
)

// Sink names a storage backend.
type Sink string

const (
	SinkText   Sink = "text"
	SinkCSV    Sink = "csv"
	SinkSQLite Sink = "sqlite"
)

// Extension returns the file extension a path must carry for the sink.
func (s Sink) Extension() string {
	switch s {
	case SinkText:
		return ".txt"
	case SinkCSV:
		return ".csv"
	case SinkSQLite:
		return ".db"
	default:
		return ""
	}
}

// Open returns a client for the named sink. See NewText, NewCSV and NewSQLite.
func Open(sink Sink, path string, opts ...Option) (*Client, error) {
	switch sink {
	case SinkText:
		return NewText(path, opts...)
	case SinkCSV:
		return NewCSV(path, opts...)
	case SinkSQLite:
		return NewSQLite(path, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown sink %q", ErrInvalidConfig, sink)
	}
}

// NewText returns a client writing space-separated lines to path, which
// must end in ".txt". The file is truncated.
func NewText(path string, opts ...Option) (*Client, error) {
	if err := checkExtension(SinkText, path); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	store, err := storage.NewText(path, storageOptions(cfg)...)
	if err != nil {
		return nil, err
	}
	return newClient(store, cfg), nil
}

// NewCSV returns a client writing semicolon-delimited rows to path, which
// must end in ".csv". The file is truncated and a header row is written.
func NewCSV(path string, opts ...Option) (*Client, error) {
	if err := checkExtension(SinkCSV, path); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	store, err := storage.NewCSV(path, storageOptions(cfg)...)
	if err != nil {
		return nil, err
	}
	return newClient(store, cfg), nil
}

// NewSQLite returns a client inserting rows into the SQLite database at
// path, which must end in ".db". Existing rows are discarded.
func NewSQLite(path string, opts ...Option) (*Client, error) {
	if err := checkExtension(SinkSQLite, path); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	store, err := storage.NewSQLite(path, storage.WithLogger(cfg.log))
	if err != nil {
		return nil, err
	}
	return newClient(store, cfg), nil
}

// checkExtension runs before any file-system access.
func checkExtension(sink Sink, path string) error {
	ext := sink.Extension()
	if !strings.HasSuffix(path, ext) {
		return fmt.Errorf("%w: %s sink requires a %q file, got %q", ErrInvalidConfig, sink, ext, path)
	}
	return nil
}

func storageOptions(cfg config) []storage.Option {
	return []storage.Option{
		storage.WithFs(cfg.fs),
		storage.WithLogger(cfg.log),
	}
}
