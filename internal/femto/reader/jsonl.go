package reader

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/femto/internal/femto/event"
)

// maxLineSize bounds one encoded event.
const maxLineSize = 64 * 1024 * 1024

// JSONL reads events written one JSON object per line. Blank lines are
// skipped.
type JSONL struct {
	name   string
	sc     *bufio.Scanner
	closer io.Closer
	line   int
	events int
}

// OpenJSONL opens path for reading.
func OpenJSONL(path string) (*JSONL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event file: %w", err)
	}
	r := NewJSONL(f, path)
	r.closer = f
	return r, nil
}

// NewJSONL reads from r. name is used in reports and errors.
func NewJSONL(r io.Reader, name string) *JSONL {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &JSONL{name: name, sc: sc}
}

func (r *JSONL) Next(ctx context.Context) (*event.Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return nil, fmt.Errorf("%s: %w", r.name, err)
			}
			return nil, io.EOF
		}
		r.line++
		b := r.sc.Bytes()
		if len(b) == 0 {
			continue
		}
		var ev event.Event
		if err := json.Unmarshal(b, &ev); err != nil {
			return nil, fmt.Errorf("%s:%d: failed to decode event: %w", r.name, r.line, err)
		}
		r.events++
		return &ev, nil
	}
}

func (r *JSONL) Report() string {
	return fmt.Sprintf("jsonl reader %s: %d events from %d lines\n", r.name, r.events, r.line)
}

func (r *JSONL) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// JSONLWriter writes every event it receives as one JSON line.
type JSONLWriter struct {
	name   string
	w      *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
	events int
}

// CreateJSONL creates or truncates path.
func CreateJSONL(path string) (*JSONLWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event file: %w", err)
	}
	w := NewJSONLWriter(f, path)
	w.closer = f
	return w, nil
}

// NewJSONLWriter writes to w. name is used in reports.
func NewJSONLWriter(w io.Writer, name string) *JSONLWriter {
	bw := bufio.NewWriter(w)
	return &JSONLWriter{name: name, w: bw, enc: json.NewEncoder(bw)}
}

func (w *JSONLWriter) WriteEvent(ev *event.Event) error {
	if err := w.enc.Encode(ev); err != nil {
		return fmt.Errorf("failed to encode event %d: %w", ev.EventID, err)
	}
	w.events++
	return nil
}

func (w *JSONLWriter) Report() string {
	return fmt.Sprintf("jsonl writer %s: %d events\n", w.name, w.events)
}

// Close flushes buffered events and closes the file.
func (w *JSONLWriter) Close() error {
	err := w.w.Flush()
	if w.closer != nil {
		err = errors.Join(err, w.closer.Close())
	}
	return err
}
