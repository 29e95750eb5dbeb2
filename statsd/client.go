package statsd

import (
	"errors"

	"go.uber.org/zap"

	"statsd/metrics"
	"statsd/storage"
)

// Client buffers counter events in memory and hands them to a Store in
// batches. A Client is not safe for concurrent use.
type Client struct {
	bufferSize int
	store      storage.Store
	buffer     []metrics.Record

	stamp    func() string
	log      *zap.Logger
	observer Observer
}

// New wraps an already initialised store. The client owns the store from
// now on and closes it in Close.
func New(store storage.Store, opts ...Option) *Client {
	cfg := newConfig(opts)
	return newClient(store, cfg)
}

func newClient(store storage.Store, cfg config) *Client {
	stamp := metrics.Now
	if cfg.clock != nil {
		stamp = func() string { return metrics.Timestamp(cfg.clock()) }
	}
	return &Client{
		bufferSize: cfg.bufferSize,
		store:      store,
		stamp:      stamp,
		log:        cfg.log,
		observer:   cfg.observer,
	}
}

// Log buffers a value for the named metric. When the buffer reaches the
// configured size it is flushed before Log returns.
func (c *Client) Log(name string, value int64) error {
	c.buffer = append(c.buffer, metrics.Record{
		Timestamp: c.stamp(),
		Name:      name,
		Value:     value,
	})
	c.observer.Logged(name, value)
	c.observer.Buffered(len(c.buffer))

	if len(c.buffer) >= c.bufferSize {
		return c.Flush()
	}
	return nil
}

// Incr logs a value of 1.
func (c *Client) Incr(name string) error {
	return c.Log(name, 1)
}

// Decr logs a value of -1.
func (c *Client) Decr(name string) error {
	return c.Log(name, -1)
}

// Flush saves all buffered records and empties the buffer. It does nothing
// when the buffer is empty. If the store fails the records stay buffered
// and a later Flush sends them again; there is no retry or deduplication.
func (c *Client) Flush() error {
	n := len(c.buffer)
	if n == 0 {
		return nil
	}
	if err := c.store.Save(c.buffer); err != nil {
		c.observer.FlushFailed(n, err)
		return err
	}
	c.buffer = nil
	c.observer.Flushed(n)
	c.observer.Buffered(0)
	c.log.Debug("metrics flushed", zap.Int("records", n))
	return nil
}

// Len returns the number of buffered records.
func (c *Client) Len() int {
	return len(c.buffer)
}

// Close flushes the buffer and releases the store. If the flush fails the
// store stays open and the records stay buffered, so Close can be called
// again once the sink is writable.
func (c *Client) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	return c.store.Close()
}

// Use calls fn with c and closes c when fn returns, including when fn
// returns an error or panics, so buffered records are not lost. Errors from
// fn and Close are joined. When the final flush fails the store is left
// open; see Close.
func Use(c *Client, fn func(*Client) error) (err error) {
	defer func() {
		if cerr := c.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(c)
}
