package metrics

import (
	"strconv"
	"time"
)

// TimestampLayout renders an instant with seconds precision and a numeric
// zone offset, e.g. 2024-03-01T12:00:05+0000.
const TimestampLayout = "2006-01-02T15:04:05-0700"

// Header holds the column names of a persisted record.
var Header = []string{"timestamp", "metric_name", "metric_value"}

// Record is a single counter event waiting to be persisted.
// Records are passed by value and never modified after creation.
type Record struct {
	Timestamp string // formatted with TimestampLayout, always UTC
	Name      string // e.g. "http_requests"
	Value     int64  // e.g. 1 for an increment, -1 for a decrement
}

// NewRecord stamps a record with the supplied instant.
func NewRecord(ts time.Time, name string, value int64) Record {
	return Record{
		Timestamp: Timestamp(ts),
		Name:      name,
		Value:     value,
	}
}

// Fields returns the record as three columns in Header order.
func (r Record) Fields() []string {
	return []string{r.Timestamp, r.Name, strconv.FormatInt(r.Value, 10)}
}

// Now returns the current UTC time formatted with TimestampLayout. Clients
// stamp records with it unless given another clock.
func Now() string {
	return Timestamp(time.Now())
}

// Timestamp formats t in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
