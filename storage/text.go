package storage

import (
	"bytes"
	"strconv"

	"go.uber.org/zap"

	"statsd/metrics"
)

// Text stores records as space-separated lines with no header.
type Text struct {
	file
}

// NewText truncates the file at path and returns a store appending to it.
func NewText(path string, opts ...Option) (*Text, error) {
	s := &Text{file: newFile(path, applyOptions(opts))}
	if err := s.Setup(); err != nil {
		return nil, err
	}
	return s, nil
}

// Setup implements Store.
func (s *Text) Setup() error {
	if err := s.truncate(nil); err != nil {
		return err
	}
	s.log.Debug("text storage initialised")
	return nil
}

// Save implements Store.
func (s *Text) Save(records []metrics.Record) error {
	var buf bytes.Buffer
	for _, r := range records {
		buf.WriteString(r.Timestamp)
		buf.WriteByte(' ')
		buf.WriteString(r.Name)
		buf.WriteByte(' ')
		buf.WriteString(strconv.FormatInt(r.Value, 10))
		buf.WriteByte('\n')
	}
	if err := s.appendBatch(buf.Bytes()); err != nil {
		return err
	}
	s.log.Debug("records appended", zap.Int("records", len(records)))
	return nil
}

var _ Store = (*Text)(nil)
