package cut

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/particle"
)

// MomentumCut is a kinematic-only selection usable on any particle kind.
// Charge is checked when RequireCharge is set.
type MomentumCut struct {
	Base

	Of            particle.Kind
	ParticleMass  float64
	Pt            Range
	Eta           Range
	RequireCharge bool
	Charge        int
}

// NewMomentumCut returns a cut accepting everything of the given kind.
func NewMomentumCut(kind particle.Kind, mass float64) *MomentumCut {
	return &MomentumCut{Of: kind, ParticleMass: mass, Pt: All(), Eta: All()}
}

func (c *MomentumCut) Kind() particle.Kind { return c.Of }
func (c *MomentumCut) Mass() float64       { return c.ParticleMass }

func (c *MomentumCut) pass(p r3.Vec, charge int) bool {
	if c.RequireCharge && charge != c.Charge {
		return c.Record(false)
	}
	return c.Record(c.Pt.Contains(math.Hypot(p.X, p.Y)) && c.Eta.Contains(pseudorapidity(p)))
}

func (c *MomentumCut) PassTrack(t *event.Track) bool { return c.pass(t.Momentum(), t.Charge) }
func (c *MomentumCut) PassV0(v *event.V0) bool       { return c.pass(v.Momentum, 0) }
func (c *MomentumCut) PassXi(x *event.Xi) bool       { return c.pass(x.Momentum, x.Charge) }
func (c *MomentumCut) PassKink(k *event.Kink) bool {
	return c.pass(k.ParentMomentum, k.ParentCharge)
}

func (c *MomentumCut) Report() string {
	return fmt.Sprintf("MomentumCut %s pt %s eta %s: %s\n", c.Of, c.Pt, c.Eta, c.Counters.String()) +
		c.MonitorReport()
}

func (c *MomentumCut) Settings() []string {
	s := []string{
		"particle_cut.type=momentum",
		"particle_cut.kind=" + c.Of.String(),
		fmt.Sprintf("particle_cut.mass=%g", c.ParticleMass),
		"particle_cut.pt=" + c.Pt.String(),
		"particle_cut.eta=" + c.Eta.String(),
	}
	if c.RequireCharge {
		s = append(s, fmt.Sprintf("particle_cut.charge=%d", c.Charge))
	}
	return s
}

func (c *MomentumCut) Clone() (ParticleCut, error) {
	b, err := c.cloneBase()
	if err != nil {
		return nil, err
	}
	cp := *c
	cp.Base = b
	return &cp, nil
}

// BasicV0Cut selects V0 candidates on decay topology.
type BasicV0Cut struct {
	Base

	ParticleMass float64
	Pt           Range
	Eta          Range
	DCADaughters Range
	DCAToPrimary Range
	DecayLength  Range

	vertex r3.Vec
}

// NewBasicV0Cut returns a cut with open topology windows.
func NewBasicV0Cut(mass float64) *BasicV0Cut {
	return &BasicV0Cut{
		ParticleMass: mass,
		Pt:           All(),
		Eta:          All(),
		DCADaughters: Range{0, 1},
		DCAToPrimary: Range{0, 1},
		DecayLength:  Range{2, math.Inf(1)},
	}
}

func (c *BasicV0Cut) Kind() particle.Kind { return particle.KindV0 }
func (c *BasicV0Cut) Mass() float64       { return c.ParticleMass }

// EventBegin records the primary vertex used for the decay length.
func (c *BasicV0Cut) EventBegin(ev *event.Event) {
	c.vertex = ev.PrimaryVertex
	c.MonitorHandler.EventBegin(ev)
}

func (c *BasicV0Cut) PassV0(v *event.V0) bool {
	p := v.Momentum
	return c.Record(c.Pt.Contains(math.Hypot(p.X, p.Y)) &&
		c.Eta.Contains(pseudorapidity(p)) &&
		c.DCADaughters.Contains(v.DCADaughters) &&
		c.DCAToPrimary.Contains(v.DCAToPrimary) &&
		c.DecayLength.Contains(v.DecayLength(c.vertex)))
}

func (c *BasicV0Cut) Report() string {
	return fmt.Sprintf("BasicV0Cut dcaDaughters %s decayLength %s: %s\n",
		c.DCADaughters, c.DecayLength, c.Counters.String()) + c.MonitorReport()
}

func (c *BasicV0Cut) Settings() []string {
	return []string{
		"v0_cut.type=basic",
		fmt.Sprintf("v0_cut.mass=%g", c.ParticleMass),
		"v0_cut.pt=" + c.Pt.String(),
		"v0_cut.eta=" + c.Eta.String(),
		"v0_cut.dca_daughters=" + c.DCADaughters.String(),
		"v0_cut.dca_primary=" + c.DCAToPrimary.String(),
		"v0_cut.decay_length=" + c.DecayLength.String(),
	}
}

func (c *BasicV0Cut) Clone() (ParticleCut, error) {
	b, err := c.cloneBase()
	if err != nil {
		return nil, err
	}
	cp := *c
	cp.Base = b
	return &cp, nil
}
