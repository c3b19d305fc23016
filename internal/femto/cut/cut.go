// Package cut defines the admission predicates applied by the analysis
// drivers at event, particle and pair level, the monitors that observe their
// verdicts, and a set of concrete cuts.
//
// A cut never mutates the entity it inspects. Monitors are observers only.
package cut

import (
	"errors"
	"fmt"

	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/hist"
	"github.com/banshee-data/femto/internal/femto/pair"
	"github.com/banshee-data/femto/internal/femto/particle"
)

// ErrCloneNotSupported is returned when a cut has no Clone implementation.
var ErrCloneNotSupported = errors.New("cut: clone not supported")

// Hooks are the per-event notifications every cut receives.
type Hooks interface {
	EventBegin(ev *event.Event)
	EventEnd(ev *event.Event)
	Report() string
}

// EventCut admits or rejects whole events.
type EventCut interface {
	Hooks
	Pass(ev *event.Event) bool
	FillEventMonitor(ev *event.Event, passed bool)
}

// ParticleCut selects one detector collection and assigns a mass hypothesis.
// Implementations also satisfy the sub-interface matching Kind.
type ParticleCut interface {
	Hooks
	Kind() particle.Kind
	Mass() float64
	FillCollectionMonitor(ev *event.Event, c particle.Collection)
}

type TrackCut interface {
	ParticleCut
	PassTrack(t *event.Track) bool
	FillTrackMonitor(t *event.Track, passed bool)
}

type V0Cut interface {
	ParticleCut
	PassV0(v *event.V0) bool
	FillV0Monitor(v *event.V0, passed bool)
}

type XiCut interface {
	ParticleCut
	PassXi(x *event.Xi) bool
	FillXiMonitor(x *event.Xi, passed bool)
}

type KinkCut interface {
	ParticleCut
	PassKink(k *event.Kink) bool
	FillKinkMonitor(k *event.Kink, passed bool)
}

// PairCut admits or rejects pairs before they reach any accumulator.
type PairCut interface {
	Hooks
	Pass(p *pair.Pair) bool
	FillPairMonitor(p *pair.Pair, passed bool)
}

// CheckKind verifies that c implements the sub-interface its Kind promises.
func CheckKind(c ParticleCut) error {
	var ok bool
	switch c.Kind() {
	case particle.KindTrack:
		_, ok = c.(TrackCut)
	case particle.KindV0:
		_, ok = c.(V0Cut)
	case particle.KindXi:
		_, ok = c.(XiCut)
	case particle.KindKink:
		_, ok = c.(KinkCut)
	}
	if !ok {
		return fmt.Errorf("cut %T declares kind %s but does not implement it", c, c.Kind())
	}
	return nil
}

// Finisher is implemented by cuts that own monitors needing end-of-run work.
type Finisher interface {
	Finish()
}

// Outputter is implemented by cuts whose monitors produce histograms.
type Outputter interface {
	OutputList() []hist.Output
}

// Configurable cuts list their parameters as key=value lines.
type Configurable interface {
	Settings() []string
}

// CloneEventCut deep-copies c when it supports cloning.
func CloneEventCut(c EventCut) (EventCut, error) {
	if cl, ok := c.(interface{ Clone() (EventCut, error) }); ok {
		return cl.Clone()
	}
	return nil, fmt.Errorf("%w: %T", ErrCloneNotSupported, c)
}

// CloneParticleCut deep-copies c when it supports cloning.
func CloneParticleCut(c ParticleCut) (ParticleCut, error) {
	if cl, ok := c.(interface{ Clone() (ParticleCut, error) }); ok {
		return cl.Clone()
	}
	return nil, fmt.Errorf("%w: %T", ErrCloneNotSupported, c)
}

// ClonePairCut deep-copies c when it supports cloning.
func ClonePairCut(c PairCut) (PairCut, error) {
	if cl, ok := c.(interface{ Clone() (PairCut, error) }); ok {
		return cl.Clone()
	}
	return nil, fmt.Errorf("%w: %T", ErrCloneNotSupported, c)
}

// Counters tallies pass/fail verdicts.
type Counters struct {
	NPassed int64
	NFailed int64
}

// Record counts the verdict and returns it.
func (c *Counters) Record(passed bool) bool {
	if passed {
		c.NPassed++
	} else {
		c.NFailed++
	}
	return passed
}

func (c *Counters) String() string {
	return fmt.Sprintf("passed %d failed %d", c.NPassed, c.NFailed)
}

// Base bundles a monitor handler and counters; concrete cuts embed it to get
// the hook and monitor plumbing.
type Base struct {
	MonitorHandler
	Counters
}

// cloneBase returns zeroed counters and fresh copies of every monitor.
func (b *Base) cloneBase() (Base, error) {
	h, err := b.MonitorHandler.clone()
	if err != nil {
		return Base{}, err
	}
	return Base{MonitorHandler: h}, nil
}
