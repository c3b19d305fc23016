package event

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Species indexes the particle-identification hypotheses carried by a track.
type Species int

const (
	Electron Species = iota
	Pion
	Kaon
	Proton
	numSpecies
)

var speciesNames = [...]string{"electron", "pion", "kaon", "proton"}

// Masses in GeV/c^2.
var speciesMasses = [...]float64{0.000510999, 0.13957, 0.493677, 0.938272}

func (s Species) String() string {
	if s < 0 || s >= numSpecies {
		return "unknown"
	}
	return speciesNames[s]
}

// Mass is the rest mass of the species in GeV/c^2.
func (s Species) Mass() float64 {
	if s < 0 || s >= numSpecies {
		return 0
	}
	return speciesMasses[s]
}

// ParseSpecies maps a configuration name to a Species.
func ParseSpecies(name string) (Species, bool) {
	for i, n := range speciesNames {
		if n == name {
			return Species(i), true
		}
	}
	return 0, false
}

// AllSpecies lists every PID hypothesis in index order.
func AllSpecies() []Species {
	return []Species{Electron, Pion, Kaon, Proton}
}

// Track is a reconstructed charged track.
type Track struct {
	ID          int        `json:"id"`
	Charge      int        `json:"charge"`
	NHits       int        `json:"nhits"`
	NHitsFit    int        `json:"nhits_fit"`
	NHitsPoss   int        `json:"nhits_poss"`
	NHitsDedx   int        `json:"nhits_dedx"`
	Primary     bool       `json:"primary"`
	PMom        r3.Vec     `json:"pmom"`
	GMom        r3.Vec     `json:"gmom"`
	DCA         r3.Vec     `json:"dca"`
	NSigma      [4]float64 `json:"nsigma"`
	TofBeta     float64    `json:"tof_beta"`
	TopologyMap [2]uint32  `json:"topology"`
	PDG         int        `json:"pdg,omitempty"`
}

// Momentum returns the primary momentum for primary tracks and the global
// momentum otherwise.
func (t *Track) Momentum() r3.Vec {
	if t.Primary {
		return t.PMom
	}
	return t.GMom
}

// NSigmaOf returns the TPC dE/dx deviation for the given hypothesis.
func (t *Track) NSigmaOf(s Species) float64 {
	if s < 0 || s >= numSpecies {
		return math.Inf(1)
	}
	return t.NSigma[s]
}

// HasTof reports whether the track has a valid time-of-flight match.
func (t *Track) HasTof() bool {
	return t.TofBeta > 0
}

// MassSqr is the squared mass from time of flight, or -999 without a match.
func (t *Track) MassSqr() float64 {
	if !t.HasTof() {
		return -999
	}
	p2 := r3.Dot(t.Momentum(), t.Momentum())
	return p2 * (1/(t.TofBeta*t.TofBeta) - 1)
}

// FitRatio is nHitsFit / nHitsPoss, or zero when nothing was possible.
func (t *Track) FitRatio() float64 {
	if t.NHitsPoss <= 0 {
		return 0
	}
	return float64(t.NHitsFit) / float64(t.NHitsPoss)
}
