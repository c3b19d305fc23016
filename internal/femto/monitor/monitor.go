// Package monitor provides histogramming cut monitors. A monitor is attached
// to a cut's pass or fail list and fills hbook histograms with the quantities
// the cut looked at.
package monitor

import (
	"fmt"
	"math"
	"strings"

	"github.com/banshee-data/femto/internal/femto/cut"
	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/hist"
	"github.com/banshee-data/femto/internal/femto/pair"
	"github.com/banshee-data/femto/internal/femto/particle"
)

func report(name string, hs ...*hist.H1) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "monitor %s:", name)
	for _, h := range hs {
		fmt.Fprintf(&sb, " %s=%d", h.Name(), h.Entries())
	}
	sb.WriteByte('\n')
	return sb.String()
}

func outputs(hs ...*hist.H1) []hist.Output {
	out := make([]hist.Output, len(hs))
	for i, h := range hs {
		out[i] = h
	}
	return out
}

// Event fills vertex and multiplicity distributions.
type Event struct {
	cut.NopMonitor

	name              string
	VertexZ, VertexR  *hist.H1
	RefMult, VpdVzDif *hist.H1
}

// NewEvent books event histograms named "<name>_<quantity>".
func NewEvent(name string) *Event {
	return &Event{
		name:     name,
		VertexZ:  hist.NewH1(name+"_vz", "primary vertex z; v_{z} (cm)", 200, -100, 100),
		VertexR:  hist.NewH1(name+"_vr", "primary vertex r; v_{r} (cm)", 100, 0, 5),
		RefMult:  hist.NewH1(name+"_refmult", "reference multiplicity; refMult", 100, 0, 1000),
		VpdVzDif: hist.NewH1(name+"_vpd_dvz", "VPD v_{z} - TPC v_{z}; #Delta v_{z} (cm)", 100, -20, 20),
	}
}

func (m *Event) FillEvent(ev *event.Event) {
	m.VertexZ.Fill(ev.PrimaryVertex.Z, 1)
	m.VertexR.Fill(ev.VertexR(0, 0), 1)
	m.RefMult.Fill(float64(ev.RefMult), 1)
	m.VpdVzDif.Fill(ev.VpdVz-ev.PrimaryVertex.Z, 1)
}

func (m *Event) Report() string {
	return report(m.name, m.VertexZ, m.VertexR, m.RefMult, m.VpdVzDif)
}

func (m *Event) OutputList() []hist.Output {
	return outputs(m.VertexZ, m.VertexR, m.RefMult, m.VpdVzDif)
}

// Clone returns an Event with the same histogram names and binning and no
// entries.
func (m *Event) Clone() (cut.Monitor, error) {
	return &Event{
		name:     m.name,
		VertexZ:  m.VertexZ.Empty(),
		VertexR:  m.VertexR.Empty(),
		RefMult:  m.RefMult.Empty(),
		VpdVzDif: m.VpdVzDif.Empty(),
	}, nil
}

// Track fills single-track kinematics and quality. It also counts the size
// of each accepted collection.
type Track struct {
	cut.NopMonitor

	name                 string
	mass                 float64
	Pt, Eta, Phi         *hist.H1
	NHits, DCA, Multiple *hist.H1
}

// NewTrack books track histograms; mass is used for nothing but the title.
func NewTrack(name string, mass float64) *Track {
	title := func(q string) string { return fmt.Sprintf("%s (m=%.4g); %s", name, mass, q) }
	return &Track{
		name:     name,
		mass:     mass,
		Pt:       hist.NewH1(name+"_pt", title("p_{T} (GeV/c)"), 100, 0, 3),
		Eta:      hist.NewH1(name+"_eta", title("#eta"), 100, -2, 2),
		Phi:      hist.NewH1(name+"_phi", title("#phi"), 72, -math.Pi, math.Pi),
		NHits:    hist.NewH1(name+"_nhits", title("nHits"), 80, 0, 80),
		DCA:      hist.NewH1(name+"_dca", title("DCA (cm)"), 100, 0, 5),
		Multiple: hist.NewH1(name+"_mult", title("particles per event"), 200, 0, 200),
	}
}

func (m *Track) FillTrack(t *event.Track) {
	p := t.Momentum()
	pt := math.Hypot(p.X, p.Y)
	m.Pt.Fill(pt, 1)
	if pt > 0 {
		m.Eta.Fill(math.Asinh(p.Z/pt), 1)
	}
	m.Phi.Fill(math.Atan2(p.Y, p.X), 1)
	m.NHits.Fill(float64(t.NHits), 1)
	m.DCA.Fill(math.Sqrt(t.DCA.X*t.DCA.X+t.DCA.Y*t.DCA.Y+t.DCA.Z*t.DCA.Z), 1)
}

func (m *Track) FillCollection(_ *event.Event, c particle.Collection) {
	m.Multiple.Fill(float64(len(c)), 1)
}

func (m *Track) Report() string {
	return report(m.name, m.Pt, m.Eta, m.Phi, m.NHits, m.DCA, m.Multiple)
}

func (m *Track) OutputList() []hist.Output {
	return outputs(m.Pt, m.Eta, m.Phi, m.NHits, m.DCA, m.Multiple)
}

func (m *Track) Clone() (cut.Monitor, error) {
	return &Track{
		name:     m.name,
		mass:     m.mass,
		Pt:       m.Pt.Empty(),
		Eta:      m.Eta.Empty(),
		Phi:      m.Phi.Empty(),
		NHits:    m.NHits.Empty(),
		DCA:      m.DCA.Empty(),
		Multiple: m.Multiple.Empty(),
	}, nil
}

// Pair fills qInv, kT and opening-angle distributions.
type Pair struct {
	cut.NopMonitor

	name                   string
	QInv, KT, OpeningAngle *hist.H1
}

// NewPair books pair histograms.
func NewPair(name string) *Pair {
	return &Pair{
		name:         name,
		QInv:         hist.NewH1(name+"_qinv", "pair qInv; q_{inv} (GeV/c)", 100, 0, 1),
		KT:           hist.NewH1(name+"_kt", "pair kT; k_{T} (GeV/c)", 100, 0, 2),
		OpeningAngle: hist.NewH1(name+"_angle", "opening angle; #theta (deg)", 90, 0, 180),
	}
}

func (m *Pair) FillPair(p *pair.Pair) {
	m.QInv.Fill(math.Abs(p.QInv()), 1)
	m.KT.Fill(p.KT(), 1)
	m.OpeningAngle.Fill(p.OpeningAngle(), 1)
}

func (m *Pair) Report() string { return report(m.name, m.QInv, m.KT, m.OpeningAngle) }

func (m *Pair) OutputList() []hist.Output {
	return outputs(m.QInv, m.KT, m.OpeningAngle)
}

func (m *Pair) Clone() (cut.Monitor, error) {
	return &Pair{
		name:         m.name,
		QInv:         m.QInv.Empty(),
		KT:           m.KT.Empty(),
		OpeningAngle: m.OpeningAngle.Empty(),
	}, nil
}

// Attach books a pass and a fail monitor on h named "<prefix>_pass" and
// "<prefix>_fail" using newMon.
func Attach[M cut.Monitor](h interface{ AddMonitors(pass, fail cut.Monitor) }, prefix string, newMon func(string) M) (pass, fail M) {
	pass, fail = newMon(prefix+"_pass"), newMon(prefix+"_fail")
	h.AddMonitors(pass, fail)
	return pass, fail
}
