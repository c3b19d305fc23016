// Package pair provides the reusable two-particle cursor the analysis drivers
// re-point for every combination. Derived quantities are computed on first
// use and cached until either particle changes.
package pair

import (
	"math"
	"math/rand/v2"

	"go-hep.org/x/hep/fmom"

	"github.com/banshee-data/femto/internal/femto/particle"
)

const (
	cacheQInv uint32 = 1 << iota
	cacheSum
	cacheCMS
	cacheOutPF
	cacheNonID
	cacheQuality
	cacheQuality2
)

// Pair is a non-owning view over two particles.
type Pair struct {
	p1, p2 *particle.Particle
	rng    *rand.Rand
	valid  uint32

	qInv float64

	sx, sy, sz, se float64

	qOutCMS, qSideCMS, qLongCMS float64
	qOutPF                      float64

	kStar, kOut, kSide, kLong, cvk float64

	quality, quality2 float64
}

// New returns an empty cursor. rng feeds the random-ordering variants; nil
// gives a fixed-seed source.
func New(rng *rand.Rand) *Pair {
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}
	return &Pair{rng: rng}
}

// Set points the cursor at a new combination.
func (p *Pair) Set(a, b *particle.Particle) {
	p.p1, p.p2 = a, b
	p.valid = 0
}

func (p *Pair) SetTrack1(a *particle.Particle) {
	p.p1 = a
	p.valid = 0
}

func (p *Pair) SetTrack2(b *particle.Particle) {
	p.p2 = b
	p.valid = 0
}

func (p *Pair) Track1() *particle.Particle { return p.p1 }
func (p *Pair) Track2() *particle.Particle { return p.p2 }

// signedMass follows the convention that a space-like four-vector has a
// negative mass: -sqrt(-m2).
func signedMass(e, px, py, pz float64) float64 {
	m2 := e*e - px*px - py*py - pz*pz
	if m2 < 0 {
		return -math.Sqrt(-m2)
	}
	return math.Sqrt(m2)
}

func (p *Pair) sum() {
	if p.valid&cacheSum != 0 {
		return
	}
	p.sx = p.p1.Px() + p.p2.Px()
	p.sy = p.p1.Py() + p.p2.Py()
	p.sz = p.p1.Pz() + p.p2.Pz()
	p.se = p.p1.E() + p.p2.E()
	p.valid |= cacheSum
}

// FourMomentumSum is p1 + p2.
func (p *Pair) FourMomentumSum() fmom.PxPyPzE {
	p.sum()
	return fmom.NewPxPyPzE(p.sx, p.sy, p.sz, p.se)
}

// FourMomentumDiff is p1 - p2.
func (p *Pair) FourMomentumDiff() fmom.PxPyPzE {
	return fmom.NewPxPyPzE(
		p.p1.Px()-p.p2.Px(),
		p.p1.Py()-p.p2.Py(),
		p.p1.Pz()-p.p2.Pz(),
		p.p1.E()-p.p2.E(),
	)
}

// QInv is the invariant relative momentum, -M(p1 - p2). It is positive for
// the usual space-like difference.
func (p *Pair) QInv() float64 {
	if p.valid&cacheQInv == 0 {
		p.qInv = -signedMass(
			p.p1.E()-p.p2.E(),
			p.p1.Px()-p.p2.Px(),
			p.p1.Py()-p.p2.Py(),
			p.p1.Pz()-p.p2.Pz(),
		)
		p.valid |= cacheQInv
	}
	return p.qInv
}

// PT is the transverse momentum of the pair.
func (p *Pair) PT() float64 {
	p.sum()
	return math.Hypot(p.sx, p.sy)
}

// KT is half the pair transverse momentum.
func (p *Pair) KT() float64 { return 0.5 * p.PT() }

// MT is the transverse mass built from kT and the average hypothesis mass.
func (p *Pair) MT() float64 {
	m := 0.5 * (p.p1.Mass() + p.p2.Mass())
	kt := p.KT()
	return math.Sqrt(kt*kt + m*m)
}

// MInv is the invariant mass of the pair.
func (p *Pair) MInv() float64 {
	p.sum()
	return signedMass(p.se, p.sx, p.sy, p.sz)
}

// PTot is the magnitude of the pair three-momentum.
func (p *Pair) PTot() float64 {
	p.sum()
	return math.Sqrt(p.sx*p.sx + p.sy*p.sy + p.sz*p.sz)
}

// Energy is the summed energy.
func (p *Pair) Energy() float64 {
	p.sum()
	return p.se
}

// Rapidity of the pair.
func (p *Pair) Rapidity() float64 {
	p.sum()
	return 0.5 * math.Log((p.se+p.sz)/(p.se-p.sz))
}

// Eta is the pseudorapidity of the pair momentum.
func (p *Pair) Eta() float64 {
	p.sum()
	pt := math.Hypot(p.sx, p.sy)
	if pt == 0 {
		return math.Copysign(math.Inf(1), p.sz)
	}
	return math.Asinh(p.sz / pt)
}

// Phi is the azimuth of the pair momentum in (-pi, pi].
func (p *Pair) Phi() float64 {
	p.sum()
	return math.Atan2(p.sy, p.sx)
}

// EmissionAngle is the pair azimuth in degrees, in [0, 360).
func (p *Pair) EmissionAngle() float64 {
	a := p.Phi() * 180 / math.Pi
	if a < 0 {
		a += 360
	}
	return a
}

func (p *Pair) DeltaPhi() float64 { return p.p1.Phi() - p.p2.Phi() }
func (p *Pair) DeltaEta() float64 { return p.p1.Eta() - p.p2.Eta() }

// RValue is sqrt(dEta^2 + dPhi^2).
func (p *Pair) RValue() float64 {
	de, dp := p.DeltaEta(), p.DeltaPhi()
	return math.Sqrt(de*de + dp*dp)
}

// OpeningAngle is the angle between the two momenta in degrees.
func (p *Pair) OpeningAngle() float64 {
	a, b := p.p1.Momentum(), p.p2.Momentum()
	na := math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
	nb := math.Sqrt(b.X*b.X + b.Y*b.Y + b.Z*b.Z)
	if na == 0 || nb == 0 {
		return 0
	}
	c := (a.X*b.X + a.Y*b.Y + a.Z*b.Z) / (na * nb)
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

// PInv is sqrt(|(p1+p2)^2 - (E1-E2)^2|) over three-momenta.
func (p *Pair) PInv() float64 {
	p.sum()
	de := p.p1.E() - p.p2.E()
	v := p.sx*p.sx + p.sy*p.sy + p.sz*p.sz - de*de
	return math.Sqrt(math.Abs(v))
}
