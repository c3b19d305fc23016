package corrfctn

import (
	"fmt"
	"math"
	"strings"

	"github.com/banshee-data/femto/internal/femto/hist"
	"github.com/banshee-data/femto/internal/femto/pair"
)

// LikeSignQInv books |qInv| for unlike-sign real pairs, mixed pairs and the
// positive and negative like-sign pairs of a like-sign analysis. Finish
// divides each of the three real distributions by the mixed one.
type LikeSignQInv struct {
	Base

	NormLo, NormHi float64

	name string
	Num  *hist.H1
	Den  *hist.H1
	Pos  *hist.H1
	Neg  *hist.H1

	Ratio    *hist.Ratio
	PosRatio *hist.Ratio
	NegRatio *hist.Ratio
}

// NewLikeSignQInv books four |qInv| histograms of bins bins over [lo, hi).
func NewLikeSignQInv(name string, bins int, lo, hi float64) *LikeSignQInv {
	title := name + "; qInv (GeV/c)"
	return &LikeSignQInv{
		NormLo: lo + 0.75*(hi-lo),
		NormHi: hi,
		name:   name,
		Num:    hist.NewH1("num_"+name, title, bins, lo, hi),
		Den:    hist.NewH1("den_"+name, title, bins, lo, hi),
		Pos:    hist.NewH1("pos_"+name, title, bins, lo, hi),
		Neg:    hist.NewH1("neg_"+name, title, bins, lo, hi),
	}
}

func (c *LikeSignQInv) Name() string { return c.name }

func (c *LikeSignQInv) fill(h *hist.H1, p *pair.Pair) {
	if c.accept(p) {
		h.Fill(math.Abs(p.QInv()), 1)
	}
}

func (c *LikeSignQInv) AddRealPair(p *pair.Pair)             { c.fill(c.Num, p) }
func (c *LikeSignQInv) AddMixedPair(p *pair.Pair)            { c.fill(c.Den, p) }
func (c *LikeSignQInv) AddLikeSignPositivePair(p *pair.Pair) { c.fill(c.Pos, p) }
func (c *LikeSignQInv) AddLikeSignNegativePair(p *pair.Pair) { c.fill(c.Neg, p) }

func (c *LikeSignQInv) Finish() {
	c.Ratio = hist.Divide("cf_"+c.name, c.Num.Title(), c.Num, c.Den, c.NormLo, c.NormHi)
	c.PosRatio = hist.Divide("cfpos_"+c.name, c.Pos.Title(), c.Pos, c.Den, c.NormLo, c.NormHi)
	c.NegRatio = hist.Divide("cfneg_"+c.name, c.Neg.Title(), c.Neg, c.Den, c.NormLo, c.NormHi)
}

func (c *LikeSignQInv) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Like-sign qInv correlation function %s:\n", c.name)
	fmt.Fprintf(&sb, "Number of entries in numerator:\t%d\n", c.Num.Entries())
	fmt.Fprintf(&sb, "Number of entries in denominator:\t%d\n", c.Den.Entries())
	fmt.Fprintf(&sb, "Number of entries in positive like-sign:\t%d\n", c.Pos.Entries())
	fmt.Fprintf(&sb, "Number of entries in negative like-sign:\t%d\n", c.Neg.Entries())
	c.cutReport(&sb)
	return sb.String()
}

func (c *LikeSignQInv) OutputList() []hist.Output {
	out := []hist.Output{c.Num, c.Den, c.Pos, c.Neg}
	if c.Ratio != nil {
		out = append(out, c.Ratio, c.PosRatio, c.NegRatio)
	}
	return out
}

func (c *LikeSignQInv) Clone() (CorrFctn, error) {
	b, err := c.cloneBase()
	if err != nil {
		return nil, err
	}
	cl := NewLikeSignQInv(c.name, c.Num.Len(), c.Num.XMin(), c.Num.XMax())
	cl.Base = b
	cl.NormLo, cl.NormHi = c.NormLo, c.NormHi
	return cl, nil
}
