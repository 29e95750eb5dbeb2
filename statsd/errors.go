package statsd

import "errors"

const Namespace = "statsd"

// ErrInvalidConfig is returned by the constructors when the target path
// does not match the requested sink.
var ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
