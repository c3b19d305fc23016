package cut

import (
	"fmt"
	"math"

	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/pair"
)

// AcceptAllPairs is the explicit accept-everything pair cut.
type AcceptAllPairs struct {
	Counters
}

func (a *AcceptAllPairs) Pass(*pair.Pair) bool {
	a.NPassed++
	return true
}

func (*AcceptAllPairs) FillPairMonitor(*pair.Pair, bool) {}
func (*AcceptAllPairs) EventBegin(*event.Event)          {}
func (*AcceptAllPairs) EventEnd(*event.Event)            {}

func (a *AcceptAllPairs) Report() string {
	return fmt.Sprintf("AcceptAllPairs: %d pairs\n", a.NPassed)
}

func (*AcceptAllPairs) Settings() []string { return []string{"pair_cut.type=all"} }

func (*AcceptAllPairs) Clone() (PairCut, error) { return &AcceptAllPairs{}, nil }

// BasicPairCut applies kinematic and track-splitting windows to pairs.
type BasicPairCut struct {
	Base

	Quality      Range
	KT           Range
	PT           Range
	OpeningAngle Range
	Rapidity     Range
	Eta          Range
	QInv         Range // applied to |qInv|
	MInv         Range // applied to |mInv|
	RValueMin    float64
}

// NewBasicPairCut returns a cut with open kinematic windows, |eta| <= 3.5 and
// the splitting quality bounded to [-1, 1].
func NewBasicPairCut() *BasicPairCut {
	return &BasicPairCut{
		Quality:      Range{-1, 1},
		KT:           Range{-1e9, 1e9},
		PT:           Range{-1e9, 1e9},
		OpeningAngle: Range{-1e9, 1e9},
		Rapidity:     Range{-1e9, 1e9},
		Eta:          Range{-3.5, 3.5},
		QInv:         Range{-0.01, 1e9},
		MInv:         Range{-1e9, 1e9},
	}
}

func (c *BasicPairCut) Pass(p *pair.Pair) bool {
	return c.Record(c.Quality.Contains(p.Quality()) &&
		c.KT.Contains(p.KT()) &&
		c.PT.Contains(p.PT()) &&
		c.OpeningAngle.Contains(p.OpeningAngle()) &&
		c.Rapidity.Contains(p.Rapidity()) &&
		c.Eta.Contains(p.Eta()) &&
		c.QInv.Contains(math.Abs(p.QInv())) &&
		c.MInv.Contains(math.Abs(p.MInv())) &&
		p.RValue() >= c.RValueMin)
}

func (c *BasicPairCut) Report() string {
	return fmt.Sprintf("BasicPairCut quality %s kT %s qInv %s: %s\n",
		c.Quality, c.KT, c.QInv, c.Counters.String()) + c.MonitorReport()
}

func (c *BasicPairCut) Settings() []string {
	return []string{
		"pair_cut.type=basic",
		"pair_cut.quality=" + c.Quality.String(),
		"pair_cut.kt=" + c.KT.String(),
		"pair_cut.pt=" + c.PT.String(),
		"pair_cut.opening_angle=" + c.OpeningAngle.String(),
		"pair_cut.rapidity=" + c.Rapidity.String(),
		"pair_cut.eta=" + c.Eta.String(),
		"pair_cut.qinv=" + c.QInv.String(),
		"pair_cut.minv=" + c.MInv.String(),
		fmt.Sprintf("pair_cut.rvalue_min=%g", c.RValueMin),
	}
}

func (c *BasicPairCut) Clone() (PairCut, error) {
	b, err := c.cloneBase()
	if err != nil {
		return nil, err
	}
	cp := *c
	cp.Base = b
	return &cp, nil
}
