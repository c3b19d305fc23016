package analysis

import (
	"math"

	"github.com/banshee-data/femto/internal/femto"
	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/mixing"
)

type driver int

const (
	driverBase driver = iota
	driverVertex
	driverVertexMult
	driverReactionPlane
	driverLikeSign
)

var driverNames = [...]string{"base", "vertex", "vertex_mult", "reaction_plane", "like_sign"}

func (d driver) String() string { return driverNames[d] }

func named(a mixing.Axis, name string) mixing.Axis {
	if a.Name == "" {
		a.Name = name
	}
	return a
}

// NewVertexAnalysis mixes only events whose primary-vertex z falls in the
// same bin of vz. Events outside vz are counted and skipped entirely.
func NewVertexAnalysis(cfg Config, vz mixing.Axis, opts ...Option) (*Analysis, error) {
	return build(cfg, driverVertex, []mixing.Axis{named(vz, "vertex_z")}, opts)
}

// NewVertexMultAnalysis bins the mixing on vertex z and reference
// multiplicity.
func NewVertexMultAnalysis(cfg Config, vz, mult mixing.Axis, opts ...Option) (*Analysis, error) {
	return build(cfg, driverVertexMult,
		[]mixing.Axis{named(vz, "vertex_z"), named(mult, "ref_mult")}, opts)
}

// NewReactionPlaneAnalysis bins the mixing on vertex z, reference
// multiplicity and the event-plane angle folded into [0, pi). Events without
// an event plane are counted and skipped.
func NewReactionPlaneAnalysis(cfg Config, vz, mult, rp mixing.Axis, opts ...Option) (*Analysis, error) {
	return build(cfg, driverReactionPlane,
		[]mixing.Axis{named(vz, "vertex_z"), named(mult, "ref_mult"), named(rp, "reaction_plane")}, opts)
}

// NewLikeSignAnalysis is a vertex analysis that also pairs same-charge
// particles within each collection and hands them to the accumulators
// implementing corrfctn.LikeSign. It requires DistinctSpecies, collection 1
// holding the positive and collection 2 the negative particles.
func NewLikeSignAnalysis(cfg Config, vz mixing.Axis, opts ...Option) (*Analysis, error) {
	return build(cfg, driverLikeSign, []mixing.Axis{named(vz, "vertex_z")}, opts)
}

// foldPlane maps an event-plane angle into [0, pi).
func foldPlane(psi float64) float64 {
	if psi < 0 {
		psi += 2 * math.Pi
	}
	psi = math.Mod(psi, math.Pi)
	if psi < 0 {
		psi = 0
	}
	return psi
}

// keys extracts the mixing-bin keys of ev. ok is false for an event that
// carries no event plane in a reaction-plane analysis.
func (a *Analysis) keys(ev *event.Event) (k [3]float64, ok bool) {
	switch a.mode {
	case driverBase:
	case driverVertex, driverLikeSign:
		k[0] = ev.PrimaryVertex.Z
	case driverVertexMult:
		k[0], k[1] = ev.PrimaryVertex.Z, float64(ev.RefMult)
	case driverReactionPlane:
		if !ev.HasEventPlane() {
			return k, false
		}
		a.rp = foldPlane(ev.EventPlaneAngle)
		k[0], k[1], k[2] = ev.PrimaryVertex.Z, float64(ev.RefMult), a.rp
	}
	return k, true
}

// locate finds the mixing buffer for ev. A miss is counted per axis and
// means the event is not processed at all.
func (a *Analysis) locate(ev *event.Event) (*mixing.Buffer, bool) {
	k, ok := a.keys(ev)
	if !ok {
		a.stats.NoEventPlane++
		if a.metrics != nil {
			a.metrics.EventRejected(a.cfg.Name, "no_event_plane")
		}
		femto.Tracef("[Analysis] %s: event %d has no event plane", a.cfg.Name, ev.EventID)
		return nil, false
	}
	if buf, ok := a.mix.Lookup(k[0], k[1], k[2]); ok {
		return buf, true
	}
	for i, ax := range a.axes {
		side := ""
		switch ax.Classify(k[i]) {
		case mixing.Underflow:
			a.stats.Underflow[i]++
			side = "underflow"
		case mixing.Overflow:
			a.stats.Overflow[i]++
			side = "overflow"
		default:
			continue
		}
		if a.metrics != nil {
			a.metrics.BinMiss(a.cfg.Name, ax.Name, side)
		}
	}
	femto.Tracef("[Analysis] %s: event %d outside mixing bins %v", a.cfg.Name, ev.EventID, k)
	return nil, false
}
