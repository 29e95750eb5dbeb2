package storage

import (
	"bytes"
	"strings"

	"go.uber.org/zap"

	"statsd/metrics"
)

// Delimiter separates the columns of a CSV row.
const Delimiter = ';'

// CSV stores records as semicolon-delimited rows below a header row.
type CSV struct {
	file
}

// NewCSV truncates the file at path, writes the header row and returns
// a store appending to it.
func NewCSV(path string, opts ...Option) (*CSV, error) {
	s := &CSV{file: newFile(path, applyOptions(opts))}
	if err := s.Setup(); err != nil {
		return nil, err
	}
	return s, nil
}

// Setup implements Store.
func (s *CSV) Setup() error {
	if err := s.truncate(encodeRows([][]string{metrics.Header})); err != nil {
		return err
	}
	s.log.Debug("csv storage initialised")
	return nil
}

// Save implements Store.
func (s *CSV) Save(records []metrics.Record) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Fields())
	}
	if err := s.appendBatch(encodeRows(rows)); err != nil {
		return err
	}
	s.log.Debug("records appended", zap.Int("records", len(records)))
	return nil
}

// encodeRows renders rows with Delimiter and "\n" line endings.
func encodeRows(rows [][]string) []byte {
	var buf bytes.Buffer
	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				buf.WriteByte(Delimiter)
			}
			writeField(&buf, field)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// writeField quotes a field only when it contains the delimiter, a quote or
// a line break; embedded quotes are doubled. Anything else, leading
// whitespace included, is written verbatim.
func writeField(buf *bytes.Buffer, field string) {
	if !strings.ContainsAny(field, string(Delimiter)+"\"\r\n") {
		buf.WriteString(field)
		return
	}
	buf.WriteByte('"')
	buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
	buf.WriteByte('"')
}

var _ Store = (*CSV)(nil)
