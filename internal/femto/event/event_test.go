package event

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestTrackMomentumSelectsPrimary(t *testing.T) {
	t.Parallel()
	tr := Track{Primary: true, PMom: r3.Vec{X: 1}, GMom: r3.Vec{X: 2}}
	assert.Equal(t, 1.0, tr.Momentum().X)
	tr.Primary = false
	assert.Equal(t, 2.0, tr.Momentum().X)
}

func TestTrackMassSqr(t *testing.T) {
	t.Parallel()
	tr := Track{Primary: true, PMom: r3.Vec{X: 1}}
	assert.Equal(t, -999.0, tr.MassSqr())

	tr.TofBeta = 1 / math.Sqrt2
	assert.InDelta(t, 1.0, tr.MassSqr(), 1e-12)
}

func TestTrackFitRatio(t *testing.T) {
	t.Parallel()
	assert.Zero(t, (&Track{NHitsFit: 10}).FitRatio())
	assert.InDelta(t, 0.5, (&Track{NHitsFit: 10, NHitsPoss: 20}).FitRatio(), 1e-12)
}

func TestParseSpecies(t *testing.T) {
	t.Parallel()
	for _, s := range AllSpecies() {
		got, ok := ParseSpecies(s.String())
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ParseSpecies("muon")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Species(17).String())
}

func TestEventHelpers(t *testing.T) {
	t.Parallel()
	ev := Event{
		PrimaryVertex:   r3.Vec{X: 3, Y: 4},
		TriggerIDs:      []uint32{450005, 450015},
		EventPlaneAngle: NoEventPlane,
	}
	assert.True(t, ev.HasTrigger(450015))
	assert.False(t, ev.HasTrigger(1))
	assert.False(t, ev.HasEventPlane())
	assert.InDelta(t, 5.0, ev.VertexR(0, 0), 1e-12)
	assert.InDelta(t, 0.0, ev.VertexR(3, 4), 1e-12)

	ev.EventPlaneAngle = 0.3
	assert.True(t, ev.HasEventPlane())
}

func TestV0DecayLength(t *testing.T) {
	t.Parallel()
	v := V0{DecayVertex: r3.Vec{X: 1, Y: 2, Z: 2}}
	assert.InDelta(t, 3.0, v.DecayLength(r3.Vec{}), 1e-12)
}
