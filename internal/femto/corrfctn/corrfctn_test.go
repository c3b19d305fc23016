package corrfctn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/femto/internal/config"
	"github.com/banshee-data/femto/internal/femto/cut"
	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/hist"
	"github.com/banshee-data/femto/internal/femto/pair"
	"github.com/banshee-data/femto/internal/femto/particle"
)

const pionMass = 0.13957

var (
	_ LikeSign      = (*LikeSignQInv)(nil)
	_ AnalysisAware = (*BertschPratt3D)(nil)
	_ Cloner        = (*OneD)(nil)
	_ Cloner        = (*KtQInv)(nil)
	_ Cloner        = (*BertschPratt3D)(nil)
)

func pion(px, py, pz float64) particle.Particle {
	t := &event.Track{Charge: 1, Primary: true, PMom: r3.Vec{X: px, Y: py, Z: pz}}
	return particle.FromTrack(t, pionMass, r3.Vec{})
}

// closePair returns a low-q pion pair with kT near 0.305 GeV/c.
func closePair() (*pair.Pair, *particle.Particle, *particle.Particle) {
	a, b := pion(0.3, 0, 0), pion(0.31, 0.02, 0)
	p := pair.New(nil)
	p.Set(&a, &b)
	return p, &a, &b
}

type fixedPlane float64

func (f fixedPlane) CurrentReactionPlane() float64 { return float64(f) }

// opaquePairCut accepts everything and cannot be cloned.
type opaquePairCut struct{}

func (opaquePairCut) Pass(*pair.Pair) bool             { return true }
func (opaquePairCut) FillPairMonitor(*pair.Pair, bool) {}
func (opaquePairCut) EventBegin(*event.Event)          {}
func (opaquePairCut) EventEnd(*event.Event)            {}
func (opaquePairCut) Report() string                   { return "" }

func TestQInvFillAndFinish(t *testing.T) {
	t.Parallel()
	cf := NewQInv("pp", 20, 0, 0.2)
	cf.NormLo, cf.NormHi = 0, 0.2
	p, _, _ := closePair()

	cf.AddRealPair(p)
	cf.AddRealPair(p)
	cf.AddMixedPair(p)
	cf.AddMixedPair(p)
	cf.AddMixedPair(p)
	cf.AddMixedPair(p)

	assert.InDelta(t, 2, cf.Num.Integral(0, 0.2), 1e-12)
	assert.InDelta(t, 4, cf.Den.Integral(0, 0.2), 1e-12)

	cf.Finish()
	require.NotNil(t, cf.Ratio)
	assert.InDelta(t, 2, cf.Ratio.Scale, 1e-12)
	assert.InDelta(t, 1, cf.Ratio.Mean(), 1e-12)
	assert.Len(t, cf.OutputList(), 3)
	assert.Contains(t, cf.Report(), "No pair cut specific")
}

func TestPrivatePairCutRejects(t *testing.T) {
	t.Parallel()
	pc := cut.NewBasicPairCut()
	pc.QInv = cut.Range{Lo: 0.5, Hi: 1}
	cf := NewQInv("pp", 20, 0, 0.2)
	cf.PairCut = pc
	p, _, _ := closePair()

	cf.AddRealPair(p)
	cf.AddMixedPair(p)

	assert.Zero(t, cf.Num.Integral(0, 0.2))
	assert.Zero(t, cf.Den.Integral(0, 0.2))
	assert.Equal(t, int64(2), pc.NFailed)
	assert.Contains(t, cf.Report(), "Pair cut specific")
}

func TestKStarIsHalfQInvForIdenticalMasses(t *testing.T) {
	t.Parallel()
	p, _, _ := closePair()
	qi := NewQInv("q", 100, 0, 0.1)
	ks := NewKStar("k", 100, 0, 0.05)
	qi.AddRealPair(p)
	ks.AddRealPair(p)
	assert.InDelta(t, p.QInv()/2, p.KStar(), 1e-9)
	assert.InDelta(t, 1, ks.Num.Integral(0, 0.05), 1e-12)
}

func TestKtQInvBins(t *testing.T) {
	t.Parallel()
	cf := NewKtQInv("kt", 10, 0, 0.2, 2, 0.1, 0.5)
	p, _, _ := closePair()

	cf.AddRealPair(p) // kT ~ 0.305, second bin
	cf.AddMixedPair(p)

	assert.Zero(t, cf.Num[0].Integral(0, 0.2))
	assert.InDelta(t, 1, cf.Num[1].Integral(0, 0.2), 1e-12)
	assert.InDelta(t, 1, cf.Den[1].Integral(0, 0.2), 1e-12)

	far := NewKtQInv("kt", 10, 0, 0.2, 2, 0.5, 1.0)
	far.AddRealPair(p)
	assert.Zero(t, far.Num[0].Integral(0, 0.2)+far.Num[1].Integral(0, 0.2))

	cf.Finish()
	assert.Len(t, cf.OutputList(), 6)
}

func TestBertschPrattReactionPlaneBins(t *testing.T) {
	t.Parallel()
	p, _, _ := closePair() // pair azimuth ~ 0.033 rad

	tests := []struct {
		name  string
		plane float64
		slot  int
	}{
		{"in plane", 0, 0},
		{"behind plane", 0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf := NewBertschPratt3D("bp", FrameLCMS, 4, -0.1, 0.1, 1, 0, 1, 2, 0, 6.283185307179586)
			cf.SetAnalysis(fixedPlane(tt.plane))
			cf.AddRealPair(p)
			cf.AddMixedPair(p)
			for i := range cf.Num {
				want := int64(0)
				if i == tt.slot {
					want = 1
				}
				assert.Equal(t, want, cf.Num[i].Entries(), "num slot %d", i)
				assert.Equal(t, want, cf.Den[i].Entries(), "den slot %d", i)
			}
			assert.InDelta(t, p.QInv(), cf.DenW[tt.slot].SumW(), 1e-12)
		})
	}
}

func TestBertschPrattEventPlaneFallback(t *testing.T) {
	t.Parallel()
	p, _, _ := closePair()
	cf := NewBertschPratt3D("bp", FrameLCMS, 4, -0.1, 0.1, 1, 0, 1, 2, 0, 6.283185307179586)
	cf.EventBegin(&event.Event{EventPlaneAngle: 0.5})
	cf.AddRealPair(p)
	assert.Equal(t, int64(1), cf.Num[1].Entries())
}

func TestBertschPrattFoldsWithNegativePlaneEdge(t *testing.T) {
	t.Parallel()
	p, a, b := closePair()
	cf := NewBertschPratt3D("bp", FramePF, 2, -0.1, 0.1, 1, 0, 1, 1, -3.14, 3.14)

	cf.AddRealPair(p)
	p.Set(b, a)
	cf.AddRealPair(p)

	proj := cf.Num[0].Projection(0)
	assert.Zero(t, proj[0], "folded qout never negative")
	assert.InDelta(t, 2, proj[1], 1e-12)
}

func TestLikeSignQInv(t *testing.T) {
	t.Parallel()
	cf := NewLikeSignQInv("ls", 10, 0, 0.2)
	p, _, _ := closePair()

	cf.AddRealPair(p)
	cf.AddMixedPair(p)
	cf.AddLikeSignPositivePair(p)
	cf.AddLikeSignPositivePair(p)
	cf.AddLikeSignNegativePair(p)

	assert.InDelta(t, 2, cf.Pos.Integral(0, 0.2), 1e-12)
	assert.InDelta(t, 1, cf.Neg.Integral(0, 0.2), 1e-12)
	cf.Finish()
	assert.Len(t, cf.OutputList(), 7)
	assert.Contains(t, cf.Report(), "positive like-sign:\t2")
}

func TestClone(t *testing.T) {
	t.Parallel()
	p, _, _ := closePair()
	orig := NewQInv("pp", 20, 0, 0.2)
	orig.PairCut = cut.NewBasicPairCut()
	orig.AddRealPair(p)

	c, err := Clone(orig)
	require.NoError(t, err)
	cl := c.(*OneD)
	assert.Zero(t, cl.Num.Integral(0, 0.2))
	assert.Equal(t, orig.Num.Len(), cl.Num.Len())
	require.NotNil(t, cl.PairCut)
	assert.NotSame(t, orig.PairCut, cl.PairCut)

	bp := NewBertschPratt3D("bp", FrameLCMS, 4, -0.1, 0.1, 2, 0, 1, 1, 0, 1)
	bp.PairCut = opaquePairCut{}
	_, err = Clone(bp)
	assert.True(t, errors.Is(err, cut.ErrCloneNotSupported))

	_, err = Clone(struct{ CorrFctn }{})
	assert.ErrorIs(t, err, ErrCloneNotSupported)
}

func TestFromConfig(t *testing.T) {
	t.Parallel()
	str := func(s string) *string { return &s }
	num := func(v int) *int { return &v }

	tests := []struct {
		name    string
		cfg     config.CorrFctnConfig
		want    any
		outputs int
		wantErr bool
	}{
		{"qinv", config.CorrFctnConfig{Type: "qinv"}, &OneD{}, 2, false},
		{"kstar", config.CorrFctnConfig{Type: "kstar"}, &OneD{}, 2, false},
		{"qinv random flip", config.CorrFctnConfig{Type: "qinv_random_flip"}, &OneD{}, 2, false},
		{"ykp qpar", config.CorrFctnConfig{Type: "ykp_qpar"}, &OneD{}, 2, false},
		{"kt", config.CorrFctnConfig{Type: "kt_qinv", KtBins: num(3)}, &KtQInv{}, 6, false},
		{"bp3d", config.CorrFctnConfig{Type: "bp3d", KtBins: num(2), RPBins: num(2), Bins: num(4)}, &BertschPratt3D{}, 16, false},
		{"like sign", config.CorrFctnConfig{Type: "like_sign_qinv", PairCut: &config.PairCutConfig{Type: str("all")}}, &LikeSignQInv{}, 4, false},
		{"bad frame", config.CorrFctnConfig{Type: "bp3d", Frame: str("bf")}, nil, 0, true},
		{"bad type", config.CorrFctnConfig{Type: "nope"}, nil, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf, err := FromConfig(&tt.cfg, 0)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, cf)
			assert.Len(t, cf.OutputList(), tt.outputs)
		})
	}
}

func TestOutputsAreNamed(t *testing.T) {
	t.Parallel()
	cf := NewQInv("pp", 20, 0, 0.2)
	cf.Finish()
	names := []string{}
	for _, o := range cf.OutputList() {
		names = append(names, o.Name())
	}
	assert.Equal(t, []string{"num_pp", "den_pp", "cf_pp"}, names)
	var _ hist.Output = cf.Ratio
}
