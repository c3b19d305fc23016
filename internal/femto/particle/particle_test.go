package particle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/femto/internal/femto/event"
)

const pionMass = 0.13957

func TestFromTrackKinematics(t *testing.T) {
	t.Parallel()
	tr := &event.Track{ID: 7, Charge: -1, NHits: 30, Primary: true, PMom: r3.Vec{X: 0.3, Y: 0.4, Z: 0}}
	p := FromTrack(tr, pionMass, r3.Vec{Z: 5})

	assert.Equal(t, KindTrack, p.Kind())
	assert.Same(t, tr, p.Track())
	assert.InDelta(t, 0.5, p.Pt(), 1e-12)
	assert.InDelta(t, 0.5, p.P(), 1e-12)
	assert.InDelta(t, math.Sqrt(0.25+pionMass*pionMass), p.E(), 1e-12)
	assert.InDelta(t, 0.0, p.Eta(), 1e-12)
	assert.InDelta(t, 0.0, p.Rapidity(), 1e-12)
	assert.InDelta(t, math.Atan2(0.4, 0.3), p.Phi(), 1e-12)
	assert.Equal(t, -1, p.Charge())
	assert.Equal(t, 7, p.TrackID())
	assert.Equal(t, 30, p.NHits())
	assert.Equal(t, 5.0, p.PrimaryVertex().Z)
}

func TestFromTrackUsesGlobalMomentumForSecondaries(t *testing.T) {
	t.Parallel()
	tr := &event.Track{PMom: r3.Vec{X: 1}, GMom: r3.Vec{X: 2}}
	p := FromTrack(tr, pionMass, r3.Vec{})
	assert.InDelta(t, 2.0, p.Px(), 1e-12)
}

func TestDecayKinds(t *testing.T) {
	t.Parallel()
	v0 := FromV0(&event.V0{ID: 1, Momentum: r3.Vec{Z: 1}}, 1.115683, r3.Vec{})
	xi := FromXi(&event.Xi{ID: 2, Charge: -1, Momentum: r3.Vec{X: 1}}, 1.32171, r3.Vec{})
	kink := FromKink(&event.Kink{ID: 3, ParentCharge: 1, ParentMomentum: r3.Vec{Y: 1}}, 0.493677, r3.Vec{})

	assert.Equal(t, KindV0, v0.Kind())
	assert.Equal(t, 0, v0.Charge())
	assert.True(t, math.IsInf(v0.Eta(), 1))
	assert.Equal(t, -1, xi.Charge())
	assert.Equal(t, 2, xi.TrackID())
	assert.Equal(t, 1, kink.Charge())
	assert.InDelta(t, 1.0, kink.Py(), 1e-12)
}

func TestParseKind(t *testing.T) {
	t.Parallel()
	for _, k := range []Kind{KindTrack, KindV0, KindXi, KindKink} {
		got, ok := ParseKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("photon")
	assert.False(t, ok)
}

func TestPicoEventReleaseOnce(t *testing.T) {
	t.Parallel()
	var counter LifecycleCounter
	p := NewPicoEvent(&counter)
	p.First = Collection{FromTrack(&event.Track{}, pionMass, r3.Vec{})}
	p.Second = Collection{FromTrack(&event.Track{}, pionMass, r3.Vec{})}

	assert.Equal(t, 1, counter.Live())
	p.Release()
	assert.True(t, p.Released())
	assert.Nil(t, p.First)
	assert.Nil(t, p.Second)
	assert.Equal(t, 0, counter.Live())

	assert.Panics(t, func() { p.Release() })
	created, released := counter.Counts()
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, released)
}
