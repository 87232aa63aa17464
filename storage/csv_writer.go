package storage

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/rotisserie/eris"

	"landscout/models"
)

var recordHeader = []string{
	"id", "address", "price", "acres", "score", "latitude", "longitude", "drive_miles", "url", "type",
}

// RecordWriter writes normalized records as CSV, one line per record under a
// fixed header. It is safe for concurrent use.
type RecordWriter struct {
	mu     sync.Mutex
	writer *csv.Writer
	closer io.Closer
}

// NewRecordWriter writes the header row to w and returns a writer for records.
func NewRecordWriter(w io.Writer) (*RecordWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(recordHeader); err != nil {
		return nil, eris.Wrap(err, "csv: write header")
	}
	cw.Flush()
	return &RecordWriter{writer: cw}, nil
}

// NewRecordFileWriter creates (or truncates) the file at path. Intermediate
// directories are created automatically.
func NewRecordFileWriter(path string) (*RecordWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, eris.Wrap(err, "csv: create output dir")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: create file %q", path)
	}

	rw, err := NewRecordWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	rw.closer = f
	return rw, nil
}

// Write appends records in the given order.
func (w *RecordWriter) Write(records []models.PropertyRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID),
			r.Address,
			formatFloat(r.Price),
			formatFloat(r.Acres),
			strconv.Itoa(r.Score),
			formatFloat(r.Latitude),
			formatFloat(r.Longitude),
			strconv.Itoa(r.DriveMiles),
			r.URL,
			r.Type,
		}
		if err := w.writer.Write(row); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}

	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes and closes the underlying file, if the writer owns one.
func (w *RecordWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.writer.Flush()
	if w.closer == nil {
		return w.writer.Error()
	}
	return w.closer.Close()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
