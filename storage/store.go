package storage

import (
	"errors"

	"statsd/metrics"
)

const Namespace = "storage"

// ErrWrite is returned, wrapped together with the underlying cause, whenever
// a sink cannot be initialised or appended to.
var ErrWrite = errors.New(Namespace + ": write failed")

// Store abstracts a durable sink for metric records.
type Store interface {
	// Setup prepares the sink from an empty state, discarding anything
	// previously stored at the target. Constructors call it exactly once.
	Setup() error

	// Save appends records, in order, after whatever was already saved.
	// Callers never pass an empty batch.
	Save(records []metrics.Record) error

	// Close releases any resources (e.g. DB connections).
	Close() error
}
