package statsd

import (
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultBufferSize is the number of records buffered before an automatic flush.
const DefaultBufferSize = 10

type config struct {
	bufferSize int
	log        *zap.Logger
	observer   Observer
	clock      func() time.Time
	fs         afero.Fs
}

// Option configures a Client.
type Option func(*config)

// WithBufferSize sets the flush threshold. Values below 1 flush on every record.
func WithBufferSize(n int) Option {
	return func(c *config) { c.bufferSize = n }
}

// WithLogger sets the logger used by the client and its storage.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// WithObserver attaches an Observer to the client.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithClock overrides the time source used to stamp records. By default
// records are stamped with metrics.Now.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.clock = now
		}
	}
}

// WithFs makes file sinks write through fs. It has no effect on SQLite.
func WithFs(fs afero.Fs) Option {
	return func(c *config) { c.fs = fs }
}

func newConfig(opts []Option) config {
	c := config{
		bufferSize: DefaultBufferSize,
		log:        zap.NewNop(),
		observer:   NopObserver(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}
