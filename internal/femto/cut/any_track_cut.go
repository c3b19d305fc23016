package cut

import (
	"errors"
	"fmt"
	"strings"

	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/particle"
)

// AnyTrackCut accepts a track when any of its sub-cuts does. Sub-cuts are
// evaluated in order and evaluation stops at the first pass, so later
// sub-cuts only count tracks the earlier ones rejected.
type AnyTrackCut struct {
	Base

	ParticleMass float64
	Cuts         []TrackCut
}

// NewAnyTrackCut combines cuts under one mass hypothesis.
func NewAnyTrackCut(mass float64, cuts ...TrackCut) *AnyTrackCut {
	return &AnyTrackCut{ParticleMass: mass, Cuts: cuts}
}

func (c *AnyTrackCut) Kind() particle.Kind { return particle.KindTrack }
func (c *AnyTrackCut) Mass() float64       { return c.ParticleMass }

func (c *AnyTrackCut) PassTrack(t *event.Track) bool {
	for _, sub := range c.Cuts {
		if sub.PassTrack(t) {
			return c.Record(true)
		}
	}
	return c.Record(false)
}

func (c *AnyTrackCut) EventBegin(ev *event.Event) {
	for _, sub := range c.Cuts {
		sub.EventBegin(ev)
	}
	c.MonitorHandler.EventBegin(ev)
}

func (c *AnyTrackCut) EventEnd(ev *event.Event) {
	for _, sub := range c.Cuts {
		sub.EventEnd(ev)
	}
	c.MonitorHandler.EventEnd(ev)
}

func (c *AnyTrackCut) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "AnyTrackCut of %d cuts: %s\n", len(c.Cuts), c.Counters.String())
	for _, sub := range c.Cuts {
		sb.WriteString("  " + sub.Report())
	}
	sb.WriteString(c.MonitorReport())
	return sb.String()
}

func (c *AnyTrackCut) Settings() []string {
	s := []string{"track_cut.type=any", fmt.Sprintf("track_cut.mass=%g", c.ParticleMass)}
	for i, sub := range c.Cuts {
		if cfg, ok := sub.(Configurable); ok {
			for _, line := range cfg.Settings() {
				s = append(s, fmt.Sprintf("any[%d].%s", i, line))
			}
		}
	}
	return s
}

// Clone clones every sub-cut and monitor; it fails if any of them cannot be
// cloned.
func (c *AnyTrackCut) Clone() (ParticleCut, error) {
	b, err := c.cloneBase()
	if err != nil {
		return nil, err
	}
	cp := &AnyTrackCut{Base: b, ParticleMass: c.ParticleMass}
	for i, sub := range c.Cuts {
		cl, err := CloneParticleCut(sub)
		if err != nil {
			return nil, fmt.Errorf("sub-cut %d: %w", i, err)
		}
		tc, ok := cl.(TrackCut)
		if !ok {
			return nil, errors.New("cloned sub-cut is not a track cut")
		}
		cp.Cuts = append(cp.Cuts, tc)
	}
	return cp, nil
}
