// Package particle wraps detector objects with a mass hypothesis and groups
// the accepted particles of one event into a PicoEvent.
package particle

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/femto/internal/femto/event"
)

// Kind names the detector collection a particle cut selects from.
type Kind int

const (
	KindTrack Kind = iota
	KindV0
	KindXi
	KindKink
)

func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindV0:
		return "v0"
	case KindXi:
		return "xi"
	case KindKink:
		return "kink"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a configuration name to a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range []Kind{KindTrack, KindV0, KindXi, KindKink} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Particle is one detector object under a mass hypothesis. Exactly one of the
// detector pointers is set, matching Kind. The detector object is not owned.
type Particle struct {
	kind  Kind
	track *event.Track
	v0    *event.V0
	xi    *event.Xi
	kink  *event.Kink

	mom    fmom.PxPyPzE
	mass   float64
	vertex r3.Vec
}

func energy(p r3.Vec, mass float64) float64 {
	return math.Sqrt(r3.Dot(p, p) + mass*mass)
}

func newParticle(kind Kind, p r3.Vec, mass float64, vertex r3.Vec) Particle {
	return Particle{
		kind:   kind,
		mom:    fmom.NewPxPyPzE(p.X, p.Y, p.Z, energy(p, mass)),
		mass:   mass,
		vertex: vertex,
	}
}

// FromTrack builds a particle from a track. Primary tracks use the primary
// momentum, others the global momentum.
func FromTrack(t *event.Track, mass float64, vertex r3.Vec) Particle {
	p := newParticle(KindTrack, t.Momentum(), mass, vertex)
	p.track = t
	return p
}

// FromV0 builds a particle from the reconstructed V0 momentum.
func FromV0(v *event.V0, mass float64, vertex r3.Vec) Particle {
	p := newParticle(KindV0, v.Momentum, mass, vertex)
	p.v0 = v
	return p
}

// FromXi builds a particle from the reconstructed cascade momentum.
func FromXi(x *event.Xi, mass float64, vertex r3.Vec) Particle {
	p := newParticle(KindXi, x.Momentum, mass, vertex)
	p.xi = x
	return p
}

// FromKink builds a particle from the parent track momentum of a kink.
func FromKink(k *event.Kink, mass float64, vertex r3.Vec) Particle {
	p := newParticle(KindKink, k.ParentMomentum, mass, vertex)
	p.kink = k
	return p
}

func (p *Particle) Kind() Kind          { return p.kind }
func (p *Particle) Track() *event.Track { return p.track }
func (p *Particle) V0() *event.V0       { return p.v0 }
func (p *Particle) Xi() *event.Xi       { return p.xi }
func (p *Particle) Kink() *event.Kink   { return p.kink }

// FourMomentum returns the cached four-momentum.
func (p *Particle) FourMomentum() *fmom.PxPyPzE { return &p.mom }

// Momentum returns the three-momentum.
func (p *Particle) Momentum() r3.Vec {
	return r3.Vec{X: p.mom.Px(), Y: p.mom.Py(), Z: p.mom.Pz()}
}

func (p *Particle) Px() float64 { return p.mom.Px() }
func (p *Particle) Py() float64 { return p.mom.Py() }
func (p *Particle) Pz() float64 { return p.mom.Pz() }
func (p *Particle) E() float64  { return p.mom.E() }
func (p *Particle) Pt() float64 { return math.Hypot(p.mom.Px(), p.mom.Py()) }

// P is the magnitude of the three-momentum.
func (p *Particle) P() float64 {
	return r3.Norm(p.Momentum())
}

// Mass is the hypothesis mass the particle was built with.
func (p *Particle) Mass() float64 { return p.mass }

// PrimaryVertex is the vertex of the event the particle came from.
func (p *Particle) PrimaryVertex() r3.Vec { return p.vertex }

// Phi is the azimuth in (-pi, pi].
func (p *Particle) Phi() float64 {
	return math.Atan2(p.mom.Py(), p.mom.Px())
}

// Eta is the pseudorapidity. A particle along the beam axis gets +-Inf.
func (p *Particle) Eta() float64 {
	pt := p.Pt()
	pz := p.mom.Pz()
	if pt == 0 {
		return math.Copysign(math.Inf(1), pz)
	}
	return math.Asinh(pz / pt)
}

// Rapidity is 0.5 ln((E+pz)/(E-pz)).
func (p *Particle) Rapidity() float64 {
	e, pz := p.mom.E(), p.mom.Pz()
	return 0.5 * math.Log((e+pz)/(e-pz))
}

// Charge of the underlying object; V0s are neutral.
func (p *Particle) Charge() int {
	switch p.kind {
	case KindTrack:
		return p.track.Charge
	case KindXi:
		return p.xi.Charge
	case KindKink:
		return p.kink.ParentCharge
	}
	return 0
}

// TrackID is the id of the underlying detector object.
func (p *Particle) TrackID() int {
	switch p.kind {
	case KindTrack:
		return p.track.ID
	case KindV0:
		return p.v0.ID
	case KindXi:
		return p.xi.ID
	case KindKink:
		return p.kink.ID
	}
	return -1
}

// NHits is the number of TPC hits of the underlying object.
func (p *Particle) NHits() int {
	switch p.kind {
	case KindTrack:
		return p.track.NHits
	case KindV0:
		return p.v0.NHits
	case KindXi:
		return p.xi.NHits
	case KindKink:
		return p.kink.NHits
	}
	return 0
}

// TopologyMap is the two-word TPC pad-row hit pattern.
func (p *Particle) TopologyMap() [2]uint32 {
	switch p.kind {
	case KindTrack:
		return p.track.TopologyMap
	case KindV0:
		return p.v0.TopologyMap
	case KindXi:
		return p.xi.TopologyMap
	case KindKink:
		return p.kink.TopologyMap
	}
	return [2]uint32{}
}
