package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statsd/metrics"
)

func sampleRecords() []metrics.Record {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	return []metrics.Record{
		metrics.NewRecord(ts, "hits", 1),
		metrics.NewRecord(ts.Add(time.Second), "errors", -1),
		metrics.NewRecord(ts.Add(2*time.Second), "bytes", 4096),
	}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	b, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(b)
}

func TestCSV_SetupWritesHeaderAndTruncates(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "m.csv", []byte("stale\ncontent\n"), 0o644))

	_, err := NewCSV("m.csv", WithFs(fs))
	require.NoError(t, err)

	assert.Equal(t, "timestamp;metric_name;metric_value\n", readFile(t, fs, "m.csv"))
}

func TestCSV_SaveAppendsRowsInOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewCSV("m.csv", WithFs(fs))
	require.NoError(t, err)

	recs := sampleRecords()
	require.NoError(t, s.Save(recs[:2]))
	require.NoError(t, s.Save(recs[2:]))

	want := "timestamp;metric_name;metric_value\n" +
		"2024-05-06T07:08:09+0000;hits;1\n" +
		"2024-05-06T07:08:10+0000;errors;-1\n" +
		"2024-05-06T07:08:11+0000;bytes;4096\n"
	assert.Equal(t, want, readFile(t, fs, "m.csv"))
}

func TestCSV_RoundTripBySplitting(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewCSV("m.csv", WithFs(fs))
	require.NoError(t, err)

	recs := sampleRecords()
	require.NoError(t, s.Save(recs))

	lines := strings.Split(strings.TrimSuffix(readFile(t, fs, "m.csv"), "\n"), "\n")
	require.Len(t, lines, len(recs)+1)

	var got [][]string
	for _, line := range lines[1:] {
		got = append(got, strings.Split(line, ";"))
	}
	for i, r := range recs {
		assert.Equal(t, r.Fields(), got[i])
	}
}

func TestCSV_FieldQuoting(t *testing.T) {
	tests := []struct {
		name   string
		metric string
		want   string
	}{
		{"plain", "hits", "hits"},
		{"leading_space", " hits", " hits"},
		{"leading_tab", "\thits", "\thits"},
		{"backslash_dot", `\.`, `\.`},
		{"delimiter", "a;b", `"a;b"`},
		{"quote", `say "hi"`, `"say ""hi"""`},
		{"newline", "a\nb", "\"a\nb\""},
		{"carriage_return", "a\rb", "\"a\rb\""},
	}
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			s, err := NewCSV("m.csv", WithFs(fs))
			require.NoError(t, err)

			require.NoError(t, s.Save([]metrics.Record{metrics.NewRecord(ts, tt.metric, 2)}))

			want := "timestamp;metric_name;metric_value\n" +
				"2024-05-06T07:08:09+0000;" + tt.want + ";2\n"
			assert.Equal(t, want, readFile(t, fs, "m.csv"))
		})
	}
}

func TestCSV_RoundTripKeepsWhitespace(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewCSV("m.csv", WithFs(fs))
	require.NoError(t, err)

	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	recs := []metrics.Record{
		metrics.NewRecord(ts, " hits", 1),
		metrics.NewRecord(ts, `\.`, -1),
	}
	require.NoError(t, s.Save(recs))

	lines := strings.Split(strings.TrimSuffix(readFile(t, fs, "m.csv"), "\n"), "\n")
	require.Len(t, lines, 3)
	for i, line := range lines[1:] {
		assert.Equal(t, recs[i].Fields(), strings.Split(line, ";"))
	}
}

func TestText_SetupTruncatesWithoutHeader(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "m.txt", []byte("old line\n"), 0o644))

	_, err := NewText("m.txt", WithFs(fs))
	require.NoError(t, err)

	assert.Empty(t, readFile(t, fs, "m.txt"))
}

func TestText_SaveAppendsLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := NewText("m.txt", WithFs(fs))
	require.NoError(t, err)

	recs := sampleRecords()
	require.NoError(t, s.Save(recs[:1]))
	require.NoError(t, s.Save(recs[1:]))

	want := "2024-05-06T07:08:09+0000 hits 1\n" +
		"2024-05-06T07:08:10+0000 errors -1\n" +
		"2024-05-06T07:08:11+0000 bytes 4096\n"
	assert.Equal(t, want, readFile(t, fs, "m.txt"))
}

func TestFileStores_CreateParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "m.txt")

	s, err := NewText(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(sampleRecords()[:1]))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06T07:08:09+0000 hits 1\n", string(b))
	assert.NoError(t, s.Close())
}

func TestFileStores_SetupFailureWrapsErrWrite(t *testing.T) {
	ro := afero.NewReadOnlyFs(afero.NewMemMapFs())

	_, err := NewCSV("m.csv", WithFs(ro))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)

	_, err = NewText("m.txt", WithFs(ro))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)
}

func TestFileStores_SaveFailureWrapsErrWrite(t *testing.T) {
	mem := afero.NewMemMapFs()

	csvStore, err := NewCSV("m.csv", WithFs(mem))
	require.NoError(t, err)
	csvStore.fs = afero.NewReadOnlyFs(mem)

	err = csvStore.Save(sampleRecords())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)
	assert.Equal(t, "timestamp;metric_name;metric_value\n", readFile(t, mem, "m.csv"))

	textStore, err := NewText("m.txt", WithFs(mem))
	require.NoError(t, err)
	textStore.fs = afero.NewReadOnlyFs(mem)

	err = textStore.Save(sampleRecords())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)
}
