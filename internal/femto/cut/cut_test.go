package cut

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/hist"
	"github.com/banshee-data/femto/internal/femto/pair"
	"github.com/banshee-data/femto/internal/femto/particle"
)

const pionMass = 0.13957

type countingMonitor struct {
	NopMonitor
	events, tracks, pairs, collections int
	begins, ends, finishes             int
}

func (m *countingMonitor) FillEvent(*event.Event)                           { m.events++ }
func (m *countingMonitor) FillTrack(*event.Track)                           { m.tracks++ }
func (m *countingMonitor) FillPair(*pair.Pair)                              { m.pairs++ }
func (m *countingMonitor) FillCollection(*event.Event, particle.Collection) { m.collections++ }
func (m *countingMonitor) EventBegin(*event.Event)                          { m.begins++ }
func (m *countingMonitor) EventEnd(*event.Event)                            { m.ends++ }
func (m *countingMonitor) Finish()                                          { m.finishes++ }
func (m *countingMonitor) OutputList() []hist.Output {
	return []hist.Output{hist.NewH1("m", "", 1, 0, 1)}
}
func (m *countingMonitor) Clone() (Monitor, error) { return &countingMonitor{}, nil }

// opaqueMonitor has no Clone.
type opaqueMonitor struct{ NopMonitor }

func goodPion() *event.Track {
	return &event.Track{
		ID: 1, Charge: 1, NHits: 30, NHitsFit: 25, NHitsPoss: 40, Primary: true,
		PMom:   r3.Vec{X: 0.2, Y: 0.2, Z: 0.05},
		DCA:    r3.Vec{X: 0.5},
		NSigma: [4]float64{5, 0.3, -4, -6},
	}
}

func TestMonitorHandlerRouting(t *testing.T) {
	t.Parallel()
	var h MonitorHandler
	pass, fail := &countingMonitor{}, &countingMonitor{}
	h.AddMonitors(pass, fail)
	h.AddMonitors(nil, nil)

	ev := &event.Event{}
	h.FillEventMonitor(ev, true)
	h.FillEventMonitor(ev, false)
	h.FillEventMonitor(ev, false)
	h.FillTrackMonitor(&event.Track{}, true)
	h.FillCollectionMonitor(ev, nil)
	h.EventBegin(ev)
	h.EventEnd(ev)
	h.Finish()

	assert.Equal(t, 1, pass.events)
	assert.Equal(t, 2, fail.events)
	assert.Equal(t, 1, pass.tracks)
	assert.Equal(t, 1, pass.collections)
	assert.Zero(t, fail.collections)
	assert.Equal(t, 1, pass.begins)
	assert.Equal(t, 1, fail.ends)
	assert.Equal(t, 1, fail.finishes)
	assert.Len(t, h.OutputList(), 2)
	assert.Len(t, h.PassMonitors(), 1)
	assert.Len(t, h.FailMonitors(), 1)
}

func TestBasicEventCut(t *testing.T) {
	t.Parallel()
	base := func() *event.Event {
		return &event.Event{RunNumber: 100, RefMult: 50, PrimaryVertex: r3.Vec{X: 0.1, Y: 0.1, Z: 10}, VpdVz: 11}
	}
	tests := []struct {
		name   string
		mutate func(*event.Event)
		setup  func(*BasicEventCut)
		want   bool
	}{
		{"default passes", nil, nil, true},
		{"vertex z outside", func(e *event.Event) { e.PrimaryVertex.Z = 500 }, nil, false},
		{"vertex z on edge", func(e *event.Event) { e.PrimaryVertex.Z = 100; e.VpdVz = 100 }, nil, true},
		{"vertex r outside", func(e *event.Event) { e.PrimaryVertex.X = 4 }, nil, false},
		{"vertex r shifted back inside", func(e *event.Event) { e.PrimaryVertex.X = 4 }, func(c *BasicEventCut) { c.VertexXShift = 3.5 }, true},
		{"vpd difference", nil, func(c *BasicEventCut) { c.VpdVzDiff = Range{-0.5, 0.5} }, false},
		{"ref mult", nil, func(c *BasicEventCut) { c.RefMult = IntRange{60, 100} }, false},
		{"bad run rejected", nil, func(c *BasicEventCut) { c.BadRuns = NewBadRunList(99, 100) }, false},
		{"other bad runs ignored", nil, func(c *BasicEventCut) { c.BadRuns = NewBadRunList(99) }, true},
		{"trigger required", nil, func(c *BasicEventCut) { c.Triggers = []uint32{7} }, false},
		{"trigger matched", func(e *event.Event) { e.TriggerIDs = []uint32{3, 7} }, func(c *BasicEventCut) { c.Triggers = []uint32{7} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := base()
			if tt.mutate != nil {
				tt.mutate(ev)
			}
			c := NewBasicEventCut()
			if tt.setup != nil {
				tt.setup(c)
			}
			assert.Equal(t, tt.want, c.Pass(ev))
			if tt.want {
				assert.Equal(t, int64(1), c.NPassed)
			} else {
				assert.Equal(t, int64(1), c.NFailed)
			}
		})
	}
}

func TestBasicEventCutClone(t *testing.T) {
	t.Parallel()
	c := NewBasicEventCut()
	c.Triggers = []uint32{1}
	c.BadRuns = NewBadRunList(5)
	pass, fail := &countingMonitor{}, &countingMonitor{}
	c.AddMonitors(pass, fail)
	c.FillEventMonitor(&event.Event{}, c.Pass(&event.Event{}))

	cl, err := CloneEventCut(c)
	require.NoError(t, err)
	cp := cl.(*BasicEventCut)
	assert.Zero(t, cp.NPassed+cp.NFailed)
	assert.Equal(t, c.VertexZ, cp.VertexZ)

	require.Len(t, cp.PassMonitors(), 1)
	require.Len(t, cp.FailMonitors(), 1)
	assert.NotSame(t, pass, cp.PassMonitors()[0])
	assert.NotSame(t, fail, cp.FailMonitors()[0])
	assert.Equal(t, 1, pass.events+fail.events)
	cp.FillEventMonitor(&event.Event{}, true)
	cp.FillEventMonitor(&event.Event{}, false)
	assert.Equal(t, 1, cp.PassMonitors()[0].(*countingMonitor).events)
	assert.Equal(t, 1, cp.FailMonitors()[0].(*countingMonitor).events)
	assert.Equal(t, 1, pass.events+fail.events, "original monitors untouched by the clone")

	cp.Triggers[0] = 9
	cp.BadRuns[6] = struct{}{}
	assert.Equal(t, uint32(1), c.Triggers[0])
	assert.False(t, c.BadRuns.Contains(6))
	assert.NotEmpty(t, c.Settings())
}

type opaqueEventCut struct{ NopMonitor }

func (opaqueEventCut) Pass(*event.Event) bool              { return true }
func (opaqueEventCut) FillEventMonitor(*event.Event, bool) {}

func TestCloneNotSupported(t *testing.T) {
	t.Parallel()
	_, err := CloneEventCut(opaqueEventCut{})
	assert.ErrorIs(t, err, ErrCloneNotSupported)

	ec := NewBasicEventCut()
	ec.AddMonitors(&countingMonitor{}, &opaqueMonitor{})
	_, err = CloneEventCut(ec)
	assert.ErrorIs(t, err, ErrCloneNotSupported)

	tc := NewMomentumCut(particle.KindTrack, pionMass)
	tc.AddMonitors(&opaqueMonitor{}, nil)
	_, err = CloneParticleCut(tc)
	assert.ErrorIs(t, err, ErrCloneNotSupported)

	_, err = CloneParticleCut(NewAnyTrackCut(pionMass, tc))
	assert.ErrorIs(t, err, ErrCloneNotSupported, "a sub-cut's monitor fails the whole clone")

	pc := NewBasicPairCut()
	pc.AddMonitors(nil, &opaqueMonitor{})
	_, err = ClonePairCut(pc)
	assert.ErrorIs(t, err, ErrCloneNotSupported)
}

func TestBasicTrackCutPID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mode   PIDMode
		mutate func(*event.Track)
		setup  func(*BasicTrackCut)
		want   bool
	}{
		{"tpc pion", PIDTPC, nil, nil, true},
		{"wrong charge", PIDTPC, func(tr *event.Track) { tr.Charge = -1 }, nil, false},
		{"global track", PIDTPC, func(tr *event.Track) { tr.Primary = false; tr.GMom = tr.PMom }, nil, false},
		{"too few hits", PIDTPC, func(tr *event.Track) { tr.NHits = 5 }, nil, false},
		{"fit ratio", PIDTPC, nil, func(c *BasicTrackCut) { c.MinFitRatio = 0.7 }, false},
		{"nsigma window", PIDTPC, nil, func(c *BasicTrackCut) { c.NSigma = Range{-0.2, 0.2} }, false},
		{"other species too close", PIDTPC, nil, func(c *BasicTrackCut) { c.NSigmaOther = Range{-4.5, 4.5} }, false},
		{"other species excluded", PIDTPC, nil, func(c *BasicTrackCut) { c.NSigmaOther = Range{-3, 3} }, true},
		{"tpc momentum window", PIDTPC, func(tr *event.Track) { tr.PMom = r3.Vec{X: 0.6} }, nil, false},
		{"tof without match", PIDTOF, nil, nil, false},
		{"tof pion", PIDTOF, func(tr *event.Track) { tr.TofBeta = 0.9 }, nil, true},
		{"tpc+tof needs match", PIDTPCTOF, nil, nil, false},
		{"auto falls back to tpc", PIDTOFIfAvailable, nil, nil, true},
		{"auto uses tof mass", PIDTOFIfAvailable, func(tr *event.Track) { tr.TofBeta = 0.2 }, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := goodPion()
			if tt.mutate != nil {
				tt.mutate(tr)
			}
			c := NewBasicTrackCut(event.Pion, 1, pionMass)
			c.PID = tt.mode
			if tt.setup != nil {
				tt.setup(c)
			}
			assert.Equal(t, tt.want, c.PassTrack(tr))
		})
	}
}

func TestCheckKind(t *testing.T) {
	t.Parallel()
	assert.NoError(t, CheckKind(NewBasicTrackCut(event.Pion, 1, pionMass)))
	assert.NoError(t, CheckKind(NewBasicV0Cut(1.115)))
	assert.NoError(t, CheckKind(NewMomentumCut(particle.KindKink, 0.49)))
	assert.Error(t, CheckKind(&wrongKind{BasicTrackCut: NewBasicTrackCut(event.Pion, 1, pionMass)}))
}

type wrongKind struct{ *BasicTrackCut }

func (w *wrongKind) Kind() particle.Kind { return particle.KindV0 }

func TestAnyTrackCut(t *testing.T) {
	t.Parallel()
	pos := NewMomentumCut(particle.KindTrack, pionMass)
	pos.RequireCharge, pos.Charge = true, 1
	neg := NewMomentumCut(particle.KindTrack, pionMass)
	neg.RequireCharge, neg.Charge = true, -1
	either := NewAnyTrackCut(pionMass, pos, neg)

	assert.True(t, either.PassTrack(&event.Track{Charge: 1, PMom: r3.Vec{X: 1}, Primary: true}))
	assert.True(t, either.PassTrack(&event.Track{Charge: -1, PMom: r3.Vec{X: 1}, Primary: true}))
	assert.False(t, either.PassTrack(&event.Track{Charge: 0, PMom: r3.Vec{X: 1}, Primary: true}))
	assert.Equal(t, int64(2), either.NPassed)
	assert.Equal(t, int64(1), neg.NPassed)
	assert.Equal(t, int64(1), neg.NFailed)
	assert.Equal(t, int64(2), pos.NFailed)

	cl, err := either.Clone()
	require.NoError(t, err)
	assert.Len(t, cl.(*AnyTrackCut).Cuts, 2)
	assert.NotSame(t, pos, cl.(*AnyTrackCut).Cuts[0])
	assert.Contains(t, either.Settings(), "any[1].particle_cut.charge=-1")
}

func TestBasicV0CutDecayLength(t *testing.T) {
	t.Parallel()
	c := NewBasicV0Cut(1.115683)
	c.EventBegin(&event.Event{PrimaryVertex: r3.Vec{Z: 10}})
	near := &event.V0{Momentum: r3.Vec{X: 1}, DecayVertex: r3.Vec{Z: 11}, DCADaughters: 0.5, DCAToPrimary: 0.5}
	far := &event.V0{Momentum: r3.Vec{X: 1}, DecayVertex: r3.Vec{Z: 15}, DCADaughters: 0.5, DCAToPrimary: 0.5}
	assert.False(t, c.PassV0(near))
	assert.True(t, c.PassV0(far))
}

func TestBasicPairCut(t *testing.T) {
	t.Parallel()
	mk := func(px, py float64) *particle.Particle {
		p := particle.FromTrack(&event.Track{Primary: true, PMom: r3.Vec{X: px, Y: py}, NHits: 20,
			TopologyMap: [2]uint32{0xFFFF00, 0}}, pionMass, r3.Vec{})
		return &p
	}
	p := pair.New(nil)
	p.Set(mk(0.3, 0), mk(0.2, 0.1))

	c := NewBasicPairCut()
	// Both tracks share every row: quality -16/40.
	assert.True(t, c.Pass(p))
	c.Quality = Range{-0.3, 1}
	assert.False(t, c.Pass(p))

	c = NewBasicPairCut()
	c.KT = Range{0.3, 1}
	assert.False(t, c.Pass(p))

	c = NewBasicPairCut()
	c.RValueMin = 10
	assert.False(t, c.Pass(p))
	assert.Equal(t, int64(1), c.NFailed)

	var all AcceptAllPairs
	assert.True(t, all.Pass(p))
	cl, err := ClonePairCut(&all)
	require.NoError(t, err)
	assert.IsType(t, &AcceptAllPairs{}, cl)
}

func TestBadRunList(t *testing.T) {
	t.Parallel()
	var nilList BadRunList
	assert.False(t, nilList.Contains(1))
	l := NewBadRunList(30, 10, 20)
	assert.Equal(t, []int{10, 20, 30}, l.Runs())
	assert.True(t, l.Contains(20))
}

func TestParsePIDMode(t *testing.T) {
	t.Parallel()
	for _, m := range []PIDMode{PIDTPC, PIDTOF, PIDTPCTOF, PIDTOFIfAvailable} {
		got, ok := ParsePIDMode(m.String())
		require.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok := ParsePIDMode("rich")
	assert.False(t, ok)
}
