package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/depscout/depscout/internal/dependents"
)

// Writer streams dependent records as NDJSON, one record per line, in the
// order they are persisted. The harvest's page loop is strictly sequential,
// so the writer assumes a single caller and does no locking.
type Writer struct {
	encoder   *json.Encoder
	count     int
	closeFunc func() error
}

// NewWriter creates an NDJSON writer over w. Used by --ndjson to mirror
// records to stdout.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		encoder: json.NewEncoder(w),
	}
}

// NewFileWriter creates an NDJSON writer backed by filename, truncating any
// existing content. Used by --ndjson-out. The caller must call Close when
// done.
func NewFileWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer{
		encoder:   json.NewEncoder(file),
		closeFunc: file.Close,
	}, nil
}

// Write implements RecordWriter. The record is flushed immediately; nothing
// is buffered across records.
func (w *Writer) Write(rec dependents.Record) error {
	if err := w.encoder.Encode(rec); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

// Close implements RecordWriter. It closes the underlying file, if any.
func (w *Writer) Close() error {
	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}
