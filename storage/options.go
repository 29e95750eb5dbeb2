package storage

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type options struct {
	fs  afero.Fs
	log *zap.Logger
}

// Option customises a Store at construction time.
type Option func(*options)

// WithFs makes file-backed stores write through fs instead of the OS file system.
// The SQLite store always uses the OS file system and ignores it.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithLogger sets the logger used for debug events.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		fs:  afero.NewOsFs(),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
