package reader

import (
	"context"
	"fmt"
	"io"
	"math"

	"go-hep.org/x/hep/lcio"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/femto/internal/femto/event"
)

// MCParticleCollection is the LCIO collection holding generator truth.
const MCParticleCollection = "MCParticle"

// LCIO turns the final-state charged MC particles of an LCIO file into
// primary tracks with ideal detector response. The event vertex is the
// production vertex of the first final-state particle.
type LCIO struct {
	path    string
	r       *lcio.Reader
	events  int
	skipped int
}

// OpenLCIO opens an LCIO file.
func OpenLCIO(path string) (*LCIO, error) {
	r, err := lcio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lcio file: %w", err)
	}
	return &LCIO{path: path, r: r}, nil
}

func (l *LCIO) Next(ctx context.Context) (*event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !l.r.Next() {
		if err := l.r.Err(); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%s: %w", l.path, err)
		}
		return nil, io.EOF
	}
	lev := l.r.Event()
	ev := &event.Event{
		RunNumber:       int(lev.RunNumber),
		EventID:         int(lev.EventNumber),
		EventPlaneAngle: event.NoEventPlane,
	}
	l.events++

	coll, ok := lev.Get(MCParticleCollection).(*lcio.McParticleContainer)
	if !ok {
		l.skipped++
		return ev, nil
	}
	haveVertex := false
	for i := range coll.Particles {
		mc := &coll.Particles[i]
		if mc.GenStatus != 1 || mc.Charge == 0 {
			continue
		}
		if !haveVertex {
			ev.PrimaryVertex = r3.Vec{X: mc.Vertex[0], Y: mc.Vertex[1], Z: mc.Vertex[2]}
			haveVertex = true
		}
		ev.Tracks = append(ev.Tracks, mcTrack(i, mc))
	}
	ev.RefMult = len(ev.Tracks)
	return ev, nil
}

// mcTrack builds an ideal track: full hit count, zero DCA and an exact
// time-of-flight match.
func mcTrack(id int, mc *lcio.McParticle) event.Track {
	p := r3.Vec{X: mc.P[0], Y: mc.P[1], Z: mc.P[2]}
	charge := 1
	if mc.Charge < 0 {
		charge = -1
	}
	t := event.Track{
		ID:        id,
		Charge:    charge,
		NHits:     45,
		NHitsFit:  45,
		NHitsPoss: 45,
		NHitsDedx: 40,
		Primary:   true,
		PMom:      p,
		GMom:      p,
		PDG:       int(mc.PDG),
	}
	for s := range t.NSigma {
		t.NSigma[s] = 10
	}
	if s, ok := speciesOf(int(mc.PDG)); ok {
		t.NSigma[s] = 0
	}
	if pm := r3.Norm(p); pm > 0 {
		t.TofBeta = pm / math.Hypot(pm, mc.Mass)
	}
	return t
}

func speciesOf(pdg int) (event.Species, bool) {
	if pdg < 0 {
		pdg = -pdg
	}
	switch pdg {
	case 11:
		return event.Electron, true
	case 211:
		return event.Pion, true
	case 321:
		return event.Kaon, true
	case 2212:
		return event.Proton, true
	}
	return 0, false
}

func (l *LCIO) Report() string {
	return fmt.Sprintf("lcio reader %s: %d events, %d without %s\n", l.path, l.events, l.skipped, MCParticleCollection)
}

func (l *LCIO) Close() error { return l.r.Close() }
