package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// file is the part shared by the line-oriented sinks: it owns the target
// path and knows how to reset it and append an encoded batch to it.
type file struct {
	fs   afero.Fs
	path string
	log  *zap.Logger
}

func newFile(path string, o options) file {
	return file{fs: o.fs, path: path, log: o.log.With(zap.String("path", path))}
}

// truncate empties the target (creating it and its directory if needed)
// and writes prefix, which may be empty.
func (f file) truncate(prefix []byte) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := f.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create dir %s: %w", ErrWrite, dir, err)
		}
	}
	return f.write(os.O_CREATE|os.O_TRUNC|os.O_WRONLY, prefix)
}

// appendBatch writes data after the current end of the target in one call.
func (f file) appendBatch(data []byte) error {
	return f.write(os.O_CREATE|os.O_APPEND|os.O_WRONLY, data)
}

func (f file) write(flag int, data []byte) error {
	fh, err := f.fs.OpenFile(f.path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrWrite, f.path, err)
	}
	if len(data) > 0 {
		if _, err := fh.Write(data); err != nil {
			_ = fh.Close()
			return fmt.Errorf("%w: write %s: %w", ErrWrite, f.path, err)
		}
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrWrite, f.path, err)
	}
	return nil
}

// Close is a no-op: the file is opened and closed on every write.
func (f file) Close() error { return nil }
