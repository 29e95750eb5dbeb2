package statsd

// Observer receives notifications about the buffer lifecycle. It lets the
// client be instrumented (see the promstats package) without depending on
// a metrics backend.
type Observer interface {
	// Logged is called after a record has been buffered.
	Logged(name string, value int64)
	// Flushed is called after a batch of n records has been saved.
	Flushed(n int)
	// FlushFailed is called when saving a batch of n records failed.
	FlushFailed(n int, err error)
	// Buffered reports the number of records currently held in memory.
	Buffered(n int)
}

type nopObserver struct{}

func (nopObserver) Logged(string, int64)   {}
func (nopObserver) Flushed(int)            {}
func (nopObserver) FlushFailed(int, error) {}
func (nopObserver) Buffered(int)           {}

// NopObserver returns an Observer that ignores every notification.
func NopObserver() Observer { return nopObserver{} }
