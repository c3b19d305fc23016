package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/femto/internal/femto/cut"
	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/pair"
	"github.com/banshee-data/femto/internal/femto/particle"
)

var (
	_ cut.Monitor = (*Event)(nil)
	_ cut.Monitor = (*Track)(nil)
	_ cut.Monitor = (*Pair)(nil)
)

func TestEventMonitorRouting(t *testing.T) {
	t.Parallel()
	ec := cut.NewBasicEventCut()
	pass, fail := Attach(ec, "ev", NewEvent)

	good := &event.Event{PrimaryVertex: r3.Vec{Z: 5}, RefMult: 100, VpdVz: 6}
	bad := &event.Event{PrimaryVertex: r3.Vec{Z: 150}}
	ec.FillEventMonitor(good, ec.Pass(good))
	ec.FillEventMonitor(bad, ec.Pass(bad))

	assert.InDelta(t, 1, pass.VertexZ.Integral(-100, 100), 1e-12)
	assert.InDelta(t, 1, pass.VpdVzDif.Integral(-20, 20), 1e-12)
	assert.Zero(t, fail.VertexZ.Integral(-100, 100), "vz=150 lands in overflow")
	assert.Equal(t, "ev_pass_vz", pass.VertexZ.Name())
	assert.Len(t, ec.OutputList(), 8)
	assert.Contains(t, ec.Report(), "monitor ev_pass")
}

func TestTrackMonitor(t *testing.T) {
	t.Parallel()
	m := NewTrack("pi", 0.13957)
	tr := &event.Track{Primary: true, NHits: 30, PMom: r3.Vec{X: 0.5}, DCA: r3.Vec{X: 0.3, Y: 0.4}}
	m.FillTrack(tr)
	m.FillCollection(nil, make(particle.Collection, 7))

	assert.InDelta(t, 1, m.Pt.Integral(0.4, 0.6), 1e-12)
	assert.InDelta(t, 1, m.DCA.Integral(0.45, 0.55), 1e-12)
	assert.InDelta(t, 1, m.Multiple.Integral(6.5, 7.5), 1e-12)
	assert.Len(t, m.OutputList(), 6)
}

func TestMonitorClone(t *testing.T) {
	t.Parallel()
	tc := cut.NewMomentumCut(particle.KindTrack, 0.13957)
	tpass, _ := Attach(tc, "pi", func(n string) *Track { return NewTrack(n, 0.13957) })
	tr := &event.Track{Primary: true, NHits: 30, PMom: r3.Vec{X: 0.5}}
	tc.FillTrackMonitor(tr, true)

	cl, err := cut.CloneParticleCut(tc)
	require.NoError(t, err)
	cp := cl.(*cut.MomentumCut)
	require.Len(t, cp.PassMonitors(), 1)
	require.Len(t, cp.FailMonitors(), 1)
	ctr, ok := cp.PassMonitors()[0].(*Track)
	require.True(t, ok)
	assert.NotSame(t, tpass, ctr)
	assert.NotSame(t, tpass.Pt, ctr.Pt)
	assert.Equal(t, "pi_pass_pt", ctr.Pt.Name())
	assert.Equal(t, tpass.Pt.Len(), ctr.Pt.Len())
	assert.Zero(t, ctr.Pt.Entries())

	cp.FillTrackMonitor(tr, true)
	assert.Equal(t, 1, int(tpass.Pt.Entries()), "clone fills its own histograms")

	ec := cut.NewBasicEventCut()
	Attach(ec, "ev", NewEvent)
	ecl, err := cut.CloneEventCut(ec)
	require.NoError(t, err)
	assert.IsType(t, &Event{}, ecl.(*cut.BasicEventCut).FailMonitors()[0])

	pc := cut.NewBasicPairCut()
	Attach(pc, "pp", NewPair)
	pcl, err := cut.ClonePairCut(pc)
	require.NoError(t, err)
	assert.Len(t, pcl.(*cut.BasicPairCut).OutputList(), 6)
}

func TestPairMonitor(t *testing.T) {
	t.Parallel()
	a := particle.FromTrack(&event.Track{Primary: true, PMom: r3.Vec{X: 0.3}}, 0.13957, r3.Vec{})
	b := particle.FromTrack(&event.Track{Primary: true, PMom: r3.Vec{Y: 0.3}}, 0.13957, r3.Vec{})
	p := pair.New(nil)
	p.Set(&a, &b)

	m := NewPair("pp")
	m.FillPair(p)
	assert.InDelta(t, 1, m.OpeningAngle.Integral(89, 91), 1e-12)
	assert.InDelta(t, 1, m.KT.Integral(0, 2), 1e-12)
	assert.Contains(t, m.Report(), "pp_qinv=1")
}
