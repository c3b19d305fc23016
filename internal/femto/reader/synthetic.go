// Package reader provides the event sources and sinks used by the manager:
// a seeded synthetic generator, a JSON-lines reader and writer, and an LCIO
// reader for Monte Carlo truth files.
package reader

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/femto/internal/femto/event"
)

// SyntheticConfig shapes the generated events.
type SyntheticConfig struct {
	Events       int     // number of events, <= 0 for an endless stream
	Seed         uint64  // PCG seed
	MultMin      int     // tracks per event, inclusive
	MultMax      int     // tracks per event, inclusive
	VertexZMin   float64 // uniform vertex z range
	VertexZMax   float64
	Temperature  float64 // inverse slope of the pt spectrum, GeV
	NoPlaneEvery int     // every n-th event has no event plane, 0 disables
}

// DefaultSyntheticConfig returns a mid-central pion source.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Events:      1000,
		Seed:        1,
		MultMin:     20,
		MultMax:     60,
		VertexZMin:  -30,
		VertexZMax:  30,
		Temperature: 0.25,
	}
}

// Synthetic generates pion events with thermal transverse momenta, a flat
// rapidity plateau and a random event plane. The stream is fully determined
// by the seed.
type Synthetic struct {
	cfg  SyntheticConfig
	rng  *rand.Rand
	next int
}

// NewSynthetic validates cfg and returns a generator.
func NewSynthetic(cfg SyntheticConfig) (*Synthetic, error) {
	if cfg.MultMin < 0 || cfg.MultMax < cfg.MultMin {
		return nil, fmt.Errorf("invalid multiplicity range [%d, %d]", cfg.MultMin, cfg.MultMax)
	}
	if cfg.VertexZMax < cfg.VertexZMin {
		return nil, fmt.Errorf("invalid vertex z range [%g, %g]", cfg.VertexZMin, cfg.VertexZMax)
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.25
	}
	return &Synthetic{cfg: cfg, rng: rand.New(rand.NewPCG(cfg.Seed, 0x9e3779b97f4a7c15))}, nil
}

// Next returns the next generated event or io.EOF once Events are produced.
func (s *Synthetic) Next(ctx context.Context) (*event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.cfg.Events > 0 && s.next >= s.cfg.Events {
		return nil, io.EOF
	}
	id := s.next
	s.next++

	n := s.cfg.MultMin + s.rng.IntN(s.cfg.MultMax-s.cfg.MultMin+1)
	vz := s.cfg.VertexZMin + s.rng.Float64()*(s.cfg.VertexZMax-s.cfg.VertexZMin)
	ev := &event.Event{
		RunNumber:       1,
		EventID:         id,
		RefMult:         n,
		Cent9:           8 - min(8, n/10),
		PrimaryVertex:   r3.Vec{X: 0.1 * s.rng.NormFloat64(), Y: 0.1 * s.rng.NormFloat64(), Z: vz},
		VpdVz:           vz + s.rng.NormFloat64(),
		EventPlaneAngle: s.rng.Float64() * math.Pi,
		MagneticField:   -4.98,
		BTofMatched:     n / 2,
		BTofTrayMult:    n,
		Tracks:          make([]event.Track, n),
	}
	if s.cfg.NoPlaneEvery > 0 && (id+1)%s.cfg.NoPlaneEvery == 0 {
		ev.EventPlaneAngle = event.NoEventPlane
	}
	for i := range ev.Tracks {
		ev.Tracks[i] = s.track(i)
	}
	return ev, nil
}

// track draws one primary pion with pt from a Gamma(2, T) spectrum.
func (s *Synthetic) track(id int) event.Track {
	const mass = 0.13957
	pt := -s.cfg.Temperature * math.Log(s.rng.Float64()*s.rng.Float64()+1e-12)
	y := 2*s.rng.Float64() - 1
	phi := 2 * math.Pi * s.rng.Float64()
	mt := math.Hypot(pt, mass)
	p := r3.Vec{X: pt * math.Cos(phi), Y: pt * math.Sin(phi), Z: mt * math.Sinh(y)}
	pmag := r3.Norm(p)

	charge := 1
	if s.rng.IntN(2) == 0 {
		charge = -1
	}
	nFit := 15 + s.rng.IntN(30)
	t := event.Track{
		ID:        id,
		Charge:    charge,
		NHits:     nFit + 2,
		NHitsFit:  nFit,
		NHitsPoss: 45,
		NHitsDedx: nFit - 5,
		Primary:   true,
		PMom:      p,
		GMom:      p,
		DCA:       r3.Vec{X: 0.3 * s.rng.NormFloat64(), Y: 0.3 * s.rng.NormFloat64(), Z: 0.3 * s.rng.NormFloat64()},
		NSigma: [4]float64{
			4 + s.rng.NormFloat64(),
			s.rng.NormFloat64(),
			-3 + s.rng.NormFloat64(),
			-6 + s.rng.NormFloat64(),
		},
		PDG: 211 * charge,
	}
	t.TopologyMap[0] = uint32(s.rng.Uint64())
	if s.rng.Float64() < 0.6 {
		t.TofBeta = pmag / math.Hypot(pmag, mass)
	}
	return t
}

func (s *Synthetic) Report() string {
	return fmt.Sprintf("synthetic source seed %d: %d events generated, multiplicity [%d, %d], vz [%g, %g]\n",
		s.cfg.Seed, s.next, s.cfg.MultMin, s.cfg.MultMax, s.cfg.VertexZMin, s.cfg.VertexZMax)
}

func (s *Synthetic) Close() error { return nil }
