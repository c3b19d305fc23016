package cut

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/particle"
)

// PIDMode selects the detector used for particle identification.
type PIDMode int

const (
	// PIDTPC uses TPC dE/dx only.
	PIDTPC PIDMode = iota
	// PIDTOF uses time-of-flight mass squared only.
	PIDTOF
	// PIDTPCTOF requires a TOF match and checks both detectors.
	PIDTPCTOF
	// PIDTOFIfAvailable uses TPC+TOF for matched tracks and TPC otherwise.
	PIDTOFIfAvailable
)

var pidModeNames = [...]string{"tpc", "tof", "tpc+tof", "tof-if-available"}

func (m PIDMode) String() string {
	if m < 0 || int(m) >= len(pidModeNames) {
		return fmt.Sprintf("PIDMode(%d)", int(m))
	}
	return pidModeNames[m]
}

// ParsePIDMode maps a configuration name to a PIDMode.
func ParsePIDMode(s string) (PIDMode, bool) {
	for i, n := range pidModeNames {
		if n == s {
			return PIDMode(i), true
		}
	}
	return 0, false
}

// BasicTrackCut selects charged tracks of one species.
type BasicTrackCut struct {
	Base

	ParticleMass float64
	Primary      bool
	Charge       int
	NHits        IntRange
	MinFitRatio  float64
	Pt           Range
	P            Range
	Rapidity     Range
	Eta          Range
	DCA          Range

	Species     event.Species
	PID         PIDMode
	NSigma      Range // TPC-only window for the target species
	NSigmaOther Range // competing species must lie outside this window
	TPCMom      Range
	TofMassSqr  Range
	TofMom      Range
	TnTNSigma   Range // TPC window applied together with TOF
}

// NewBasicTrackCut returns a cut for primary tracks of the given species and
// charge with the usual acceptance windows.
func NewBasicTrackCut(species event.Species, charge int, mass float64) *BasicTrackCut {
	return &BasicTrackCut{
		ParticleMass: mass,
		Primary:      true,
		Charge:       charge,
		NHits:        IntRange{10, 100},
		Pt:           Range{0.05, 2},
		P:            Range{0.1, 2},
		Rapidity:     Range{-1.1, 1.1},
		Eta:          Range{-1, 1},
		DCA:          Range{-0.1, 3},
		Species:      species,
		PID:          PIDTOFIfAvailable,
		NSigma:       Range{-100, 100},
		NSigmaOther:  Range{0, 0},
		TPCMom:       Range{0.1, 0.55},
		TofMassSqr:   Range{-0.15, 1.2},
		TofMom:       Range{0.1, 1.45},
		TnTNSigma:    Range{-100, 100},
	}
}

func (c *BasicTrackCut) Kind() particle.Kind { return particle.KindTrack }
func (c *BasicTrackCut) Mass() float64       { return c.ParticleMass }

func rapidity(p r3.Vec, mass float64) float64 {
	e := math.Sqrt(r3.Dot(p, p) + mass*mass)
	return 0.5 * math.Log((e+p.Z)/(e-p.Z))
}

func pseudorapidity(p r3.Vec) float64 {
	pt := math.Hypot(p.X, p.Y)
	if pt == 0 {
		return math.Copysign(math.Inf(1), p.Z)
	}
	return math.Asinh(p.Z / pt)
}

func (c *BasicTrackCut) passKinematics(t *event.Track, mom r3.Vec) bool {
	pt := math.Hypot(mom.X, mom.Y)
	p := r3.Norm(mom)
	return c.NHits.Contains(t.NHits) &&
		t.FitRatio() >= c.MinFitRatio &&
		c.Pt.Contains(pt) &&
		c.P.Contains(p) &&
		c.Rapidity.Contains(rapidity(mom, c.ParticleMass)) &&
		c.Eta.Contains(pseudorapidity(mom)) &&
		c.DCA.Contains(r3.Norm(t.DCA))
}

func (c *BasicTrackCut) passTPC(t *event.Track, p float64) bool {
	if !c.NSigma.Contains(t.NSigmaOf(c.Species)) || !c.TPCMom.Contains(p) {
		return false
	}
	for _, s := range event.AllSpecies() {
		if s != c.Species && !c.NSigmaOther.Outside(t.NSigmaOf(s)) {
			return false
		}
	}
	return true
}

func (c *BasicTrackCut) passTOF(t *event.Track, p float64) bool {
	return t.HasTof() && c.TofMassSqr.Contains(t.MassSqr()) && c.TofMom.Contains(p)
}

func (c *BasicTrackCut) passTPCTOF(t *event.Track, p float64) bool {
	return c.passTOF(t, p) && c.TnTNSigma.Contains(t.NSigmaOf(c.Species))
}

func (c *BasicTrackCut) passPID(t *event.Track, p float64) bool {
	switch c.PID {
	case PIDTPC:
		return c.passTPC(t, p)
	case PIDTOF:
		return c.passTOF(t, p)
	case PIDTPCTOF:
		return c.passTPCTOF(t, p)
	case PIDTOFIfAvailable:
		if t.HasTof() {
			return c.passTPCTOF(t, p)
		}
		return c.passTPC(t, p)
	}
	return false
}

// PassTrack checks type, charge and kinematics first and PID last.
func (c *BasicTrackCut) PassTrack(t *event.Track) bool {
	if t.Primary != c.Primary || t.Charge != c.Charge {
		return c.Record(false)
	}
	mom := t.Momentum()
	if !c.passKinematics(t, mom) {
		return c.Record(false)
	}
	return c.Record(c.passPID(t, r3.Norm(mom)))
}

func (c *BasicTrackCut) Report() string {
	return fmt.Sprintf("BasicTrackCut %s%+d pid=%s pt %s eta %s: %s\n",
		c.Species, c.Charge, c.PID, c.Pt, c.Eta, c.Counters.String()) + c.MonitorReport()
}

func (c *BasicTrackCut) Settings() []string {
	return []string{
		"track_cut.type=basic",
		fmt.Sprintf("track_cut.mass=%g", c.ParticleMass),
		fmt.Sprintf("track_cut.primary=%t", c.Primary),
		fmt.Sprintf("track_cut.charge=%d", c.Charge),
		"track_cut.nhits=" + c.NHits.String(),
		fmt.Sprintf("track_cut.min_fit_ratio=%g", c.MinFitRatio),
		"track_cut.pt=" + c.Pt.String(),
		"track_cut.p=" + c.P.String(),
		"track_cut.rapidity=" + c.Rapidity.String(),
		"track_cut.eta=" + c.Eta.String(),
		"track_cut.dca=" + c.DCA.String(),
		"track_cut.species=" + c.Species.String(),
		"track_cut.pid=" + c.PID.String(),
		"track_cut.nsigma=" + c.NSigma.String(),
		"track_cut.nsigma_other=" + c.NSigmaOther.String(),
		"track_cut.tpc_mom=" + c.TPCMom.String(),
		"track_cut.tof_mass_sqr=" + c.TofMassSqr.String(),
		"track_cut.tof_mom=" + c.TofMom.String(),
		"track_cut.tnt_nsigma=" + c.TnTNSigma.String(),
	}
}

func (c *BasicTrackCut) Clone() (ParticleCut, error) {
	b, err := c.cloneBase()
	if err != nil {
		return nil, err
	}
	cp := *c
	cp.Base = b
	return &cp, nil
}
