package cut

import (
	"fmt"
	"strings"

	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/hist"
	"github.com/banshee-data/femto/internal/femto/pair"
	"github.com/banshee-data/femto/internal/femto/particle"
)

// Monitor observes entities routed to it by a MonitorHandler. Embed
// NopMonitor and override the fills that matter.
type Monitor interface {
	EventBegin(ev *event.Event)
	EventEnd(ev *event.Event)
	Finish()
	FillEvent(ev *event.Event)
	FillTrack(t *event.Track)
	FillV0(v *event.V0)
	FillXi(x *event.Xi)
	FillKink(k *event.Kink)
	FillPair(p *pair.Pair)
	FillCollection(ev *event.Event, c particle.Collection)
	Report() string
	OutputList() []hist.Output
}

// NopMonitor implements Monitor with no-ops.
type NopMonitor struct{}

func (NopMonitor) EventBegin(*event.Event)                          {}
func (NopMonitor) EventEnd(*event.Event)                            {}
func (NopMonitor) Finish()                                          {}
func (NopMonitor) FillEvent(*event.Event)                           {}
func (NopMonitor) FillTrack(*event.Track)                           {}
func (NopMonitor) FillV0(*event.V0)                                 {}
func (NopMonitor) FillXi(*event.Xi)                                 {}
func (NopMonitor) FillKink(*event.Kink)                             {}
func (NopMonitor) FillPair(*pair.Pair)                              {}
func (NopMonitor) FillCollection(*event.Event, particle.Collection) {}
func (NopMonitor) Report() string                                   { return "" }
func (NopMonitor) OutputList() []hist.Output                        { return nil }

// MonitorHandler keeps two ordered monitor lists and routes each verdict to
// one of them.
type MonitorHandler struct {
	passMonitors []Monitor
	failMonitors []Monitor
}

// AddMonitors appends a pass monitor and a fail monitor. Either may be nil.
func (h *MonitorHandler) AddMonitors(pass, fail Monitor) {
	if pass != nil {
		h.passMonitors = append(h.passMonitors, pass)
	}
	if fail != nil {
		h.failMonitors = append(h.failMonitors, fail)
	}
}

// CloneMonitor returns an empty monitor of the same kind and binning as m
// when m supports cloning.
func CloneMonitor(m Monitor) (Monitor, error) {
	if cl, ok := m.(interface{ Clone() (Monitor, error) }); ok {
		return cl.Clone()
	}
	return nil, fmt.Errorf("%w: monitor %T", ErrCloneNotSupported, m)
}

// clone rebuilds both monitor lists, in order, from fresh monitor copies.
func (h *MonitorHandler) clone() (MonitorHandler, error) {
	var cp MonitorHandler
	for _, m := range h.passMonitors {
		cl, err := CloneMonitor(m)
		if err != nil {
			return MonitorHandler{}, fmt.Errorf("pass monitor: %w", err)
		}
		cp.passMonitors = append(cp.passMonitors, cl)
	}
	for _, m := range h.failMonitors {
		cl, err := CloneMonitor(m)
		if err != nil {
			return MonitorHandler{}, fmt.Errorf("fail monitor: %w", err)
		}
		cp.failMonitors = append(cp.failMonitors, cl)
	}
	return cp, nil
}

func (h *MonitorHandler) PassMonitors() []Monitor { return h.passMonitors }
func (h *MonitorHandler) FailMonitors() []Monitor { return h.failMonitors }

func (h *MonitorHandler) pick(passed bool) []Monitor {
	if passed {
		return h.passMonitors
	}
	return h.failMonitors
}

func (h *MonitorHandler) FillEventMonitor(ev *event.Event, passed bool) {
	for _, m := range h.pick(passed) {
		m.FillEvent(ev)
	}
}

func (h *MonitorHandler) FillTrackMonitor(t *event.Track, passed bool) {
	for _, m := range h.pick(passed) {
		m.FillTrack(t)
	}
}

func (h *MonitorHandler) FillV0Monitor(v *event.V0, passed bool) {
	for _, m := range h.pick(passed) {
		m.FillV0(v)
	}
}

func (h *MonitorHandler) FillXiMonitor(x *event.Xi, passed bool) {
	for _, m := range h.pick(passed) {
		m.FillXi(x)
	}
}

func (h *MonitorHandler) FillKinkMonitor(k *event.Kink, passed bool) {
	for _, m := range h.pick(passed) {
		m.FillKink(k)
	}
}

func (h *MonitorHandler) FillPairMonitor(p *pair.Pair, passed bool) {
	for _, m := range h.pick(passed) {
		m.FillPair(p)
	}
}

// FillCollectionMonitor hands the accepted collection to the pass monitors.
func (h *MonitorHandler) FillCollectionMonitor(ev *event.Event, c particle.Collection) {
	for _, m := range h.passMonitors {
		m.FillCollection(ev, c)
	}
}

func (h *MonitorHandler) EventBegin(ev *event.Event) {
	for _, m := range h.passMonitors {
		m.EventBegin(ev)
	}
	for _, m := range h.failMonitors {
		m.EventBegin(ev)
	}
}

func (h *MonitorHandler) EventEnd(ev *event.Event) {
	for _, m := range h.passMonitors {
		m.EventEnd(ev)
	}
	for _, m := range h.failMonitors {
		m.EventEnd(ev)
	}
}

func (h *MonitorHandler) Finish() {
	for _, m := range h.passMonitors {
		m.Finish()
	}
	for _, m := range h.failMonitors {
		m.Finish()
	}
}

// OutputList collects the pass monitors' outputs, then the fail monitors'.
func (h *MonitorHandler) OutputList() []hist.Output {
	var out []hist.Output
	for _, m := range h.passMonitors {
		out = append(out, m.OutputList()...)
	}
	for _, m := range h.failMonitors {
		out = append(out, m.OutputList()...)
	}
	return out
}

// MonitorReport joins the non-empty monitor reports.
func (h *MonitorHandler) MonitorReport() string {
	var sb strings.Builder
	for _, m := range append(append([]Monitor(nil), h.passMonitors...), h.failMonitors...) {
		if r := m.Report(); r != "" {
			sb.WriteString(r)
			if !strings.HasSuffix(r, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}
