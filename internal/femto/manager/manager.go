// Package manager drives a run: it pulls events from a Reader, hands each one
// to the registered writers and then to every analysis in registration order,
// and finishes the analyses when the stream ends.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/banshee-data/femto/internal/femto"
	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/timeutil"
)

// Reader is an event source. Next returns io.EOF at the end of the stream.
type Reader interface {
	Next(ctx context.Context) (*event.Event, error)
	Report() string
	Close() error
}

// Writer receives every event before the analyses do.
type Writer interface {
	WriteEvent(ev *event.Event) error
	Report() string
	Close() error
}

// Analysis is the part of an analysis driver the manager needs.
// *analysis.Analysis implements it.
type Analysis interface {
	Name() string
	ProcessEvent(ev *event.Event)
	Finish()
	Report() string
}

// Manager owns one reader, its writers and analyses. It is not safe for
// concurrent use.
type Manager struct {
	reader    Reader
	writers   []Writer
	analyses  []Analysis
	maxEvents int
	clock     timeutil.Clock

	events   int64
	finished bool
	elapsed  time.Duration
}

// New returns a manager reading from r. maxEvents <= 0 means no limit.
func New(r Reader, maxEvents int) *Manager {
	return &Manager{reader: r, maxEvents: maxEvents, clock: timeutil.RealClock{}}
}

// SetClock replaces the clock used for elapsed time.
func (m *Manager) SetClock(c timeutil.Clock) { m.clock = c }

// AddAnalysis appends a to the processing order.
func (m *Manager) AddAnalysis(a Analysis) { m.analyses = append(m.analyses, a) }

// AddWriter appends w to the writers.
func (m *Manager) AddWriter(w Writer) { m.writers = append(m.writers, w) }

// Analyses returns the registered analyses in processing order.
func (m *Manager) Analyses() []Analysis { return m.analyses }

// EventsRead is the number of events handed to the analyses so far.
func (m *Manager) EventsRead() int64 { return m.events }

// Run processes events until the reader is exhausted, maxEvents is reached,
// ctx is cancelled or the reader or a writer fails. The analyses are
// finished in every case. A clean end of stream returns nil.
func (m *Manager) Run(ctx context.Context) error {
	start := m.clock.Now()
	err := m.loop(ctx)
	m.finish()
	m.elapsed += m.clock.Since(start)
	femto.Opsf("[Manager] processed %d events in %s", m.events, m.elapsed.Round(time.Millisecond))
	return err
}

func (m *Manager) loop(ctx context.Context) error {
	for m.maxEvents <= 0 || m.events < int64(m.maxEvents) {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, err := m.reader.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event %d: %w", m.events, err)
		}
		if ev == nil {
			continue
		}
		for _, w := range m.writers {
			if err := w.WriteEvent(ev); err != nil {
				return fmt.Errorf("failed to write event %d: %w", ev.EventID, err)
			}
		}
		for _, a := range m.analyses {
			a.ProcessEvent(ev)
		}
		m.events++
		if m.events%1000 == 0 {
			femto.Diagf("[Manager] processed %d events", m.events)
		}
	}
	return nil
}

func (m *Manager) finish() {
	if m.finished {
		return
	}
	m.finished = true
	for _, a := range m.analyses {
		a.Finish()
	}
}

// Close closes the writers and the reader, returning every error joined.
func (m *Manager) Close() error {
	var errs []error
	for _, w := range m.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close writer: %w", err))
		}
	}
	if err := m.reader.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close reader: %w", err))
	}
	return errors.Join(errs...)
}

// Report combines the reader, writer and analysis reports.
func (m *Manager) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Manager: %d events in %s\n", m.events, m.elapsed.Round(time.Millisecond))
	sb.WriteString("Reader: ")
	sb.WriteString(m.reader.Report())
	for _, w := range m.writers {
		sb.WriteString("Writer: ")
		sb.WriteString(w.Report())
	}
	for i, a := range m.analyses {
		fmt.Fprintf(&sb, "\nAnalysis %d (%s)\n", i, a.Name())
		sb.WriteString(a.Report())
	}
	return sb.String()
}
