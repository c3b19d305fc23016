package corrfctn

import (
	"fmt"
	"math"
	"strings"

	"github.com/banshee-data/femto/internal/femto/hist"
	"github.com/banshee-data/femto/internal/femto/pair"
)

// variable selects the one-dimensional pair quantity an accumulator bins.
type variable int

const (
	varQInv variable = iota
	varKStar
	varQInvRandomFlip
	varYKPQPar
)

func (v variable) of(p *pair.Pair) float64 {
	switch v {
	case varKStar:
		return p.KStar()
	case varQInvRandomFlip:
		return math.Abs(p.QInvRandomFlippedXY())
	case varYKPQPar:
		qP, _, _ := p.QYKPLCMS()
		return qP
	default:
		return math.Abs(p.QInv())
	}
}

func (v variable) label() string {
	switch v {
	case varKStar:
		return "k*"
	case varQInvRandomFlip:
		return "qInv flipped"
	case varYKPQPar:
		return "q_{#parallel} YKP"
	}
	return "qInv"
}

// OneD is a numerator/denominator pair over a single pair variable. Finish
// divides them into Ratio, normalized to one in [NormLo, NormHi].
type OneD struct {
	Base

	NormLo, NormHi float64

	name  string
	v     variable
	Num   *hist.H1
	Den   *hist.H1
	Ratio *hist.Ratio
}

func newOneD(name string, v variable, bins int, lo, hi float64) *OneD {
	title := fmt.Sprintf("%s; %s (GeV/c)", name, v.label())
	return &OneD{
		NormLo: lo + 0.75*(hi-lo),
		NormHi: hi,
		name:   name,
		v:      v,
		Num:    hist.NewH1("num_"+name, title, bins, lo, hi),
		Den:    hist.NewH1("den_"+name, title, bins, lo, hi),
	}
}

// NewQInv books |qInv| histograms of bins bins over [lo, hi).
func NewQInv(name string, bins int, lo, hi float64) *OneD {
	return newOneD(name, varQInv, bins, lo, hi)
}

// NewQInvRandomFlip books |qInv| histograms with the transverse momentum of
// one randomly chosen particle reversed, drawn from the analysis' seeded
// generator.
func NewQInvRandomFlip(name string, bins int, lo, hi float64) *OneD {
	return newOneD(name, varQInvRandomFlip, bins, lo, hi)
}

// NewYKPQPar books the signed longitudinal YKP component in the LCMS. The
// sign of each pair is drawn at random, so the range should be symmetric
// about zero.
func NewYKPQPar(name string, bins int, lo, hi float64) *OneD {
	return newOneD(name, varYKPQPar, bins, lo, hi)
}

// NewKStar books k* histograms, the relative momentum for particles of
// different mass.
func NewKStar(name string, bins int, lo, hi float64) *OneD {
	return newOneD(name, varKStar, bins, lo, hi)
}

func (c *OneD) Name() string { return c.name }

func (c *OneD) AddRealPair(p *pair.Pair) {
	if !c.accept(p) {
		return
	}
	c.Num.Fill(c.v.of(p), 1)
}

func (c *OneD) AddMixedPair(p *pair.Pair) {
	if !c.accept(p) {
		return
	}
	c.Den.Fill(c.v.of(p), 1)
}

func (c *OneD) Finish() {
	c.Ratio = hist.Divide("cf_"+c.name, c.Num.Title(), c.Num, c.Den, c.NormLo, c.NormHi)
}

func (c *OneD) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s correlation function %s:\n", c.v.label(), c.name)
	fmt.Fprintf(&sb, "Number of entries in numerator:\t%d\n", c.Num.Entries())
	fmt.Fprintf(&sb, "Number of entries in denominator:\t%d\n", c.Den.Entries())
	if c.Ratio != nil {
		fmt.Fprintf(&sb, "Normalization:\t%g\n", c.Ratio.Scale)
	}
	c.cutReport(&sb)
	return sb.String()
}

func (c *OneD) OutputList() []hist.Output {
	out := []hist.Output{c.Num, c.Den}
	if c.Ratio != nil {
		out = append(out, c.Ratio)
	}
	return out
}

func (c *OneD) Clone() (CorrFctn, error) {
	b, err := c.cloneBase()
	if err != nil {
		return nil, err
	}
	return &OneD{
		Base:   b,
		NormLo: c.NormLo,
		NormHi: c.NormHi,
		name:   c.name,
		v:      c.v,
		Num:    c.Num.Empty(),
		Den:    c.Den.Empty(),
	}, nil
}

// KtQInv splits the |qInv| correlation function in bins of pair kT. Pairs
// outside the kT range are dropped.
type KtQInv struct {
	Base

	NormLo, NormHi float64

	name    string
	ktBins  int
	ktMin   float64
	ktWidth float64
	Num     []*hist.H1
	Den     []*hist.H1
	Ratio   []*hist.Ratio
}

// NewKtQInv books one numerator and denominator per kT bin.
func NewKtQInv(name string, bins int, lo, hi float64, ktBins int, ktMin, ktMax float64) *KtQInv {
	c := &KtQInv{
		NormLo:  lo + 0.75*(hi-lo),
		NormHi:  hi,
		name:    name,
		ktBins:  ktBins,
		ktMin:   ktMin,
		ktWidth: (ktMax - ktMin) / float64(ktBins),
		Num:     make([]*hist.H1, ktBins),
		Den:     make([]*hist.H1, ktBins),
	}
	for i := range ktBins {
		title := fmt.Sprintf("%s kT [%.3g,%.3g); qInv (GeV/c)", name, c.ktEdge(i), c.ktEdge(i+1))
		c.Num[i] = hist.NewH1(fmt.Sprintf("num_%s_kt%d", name, i), title, bins, lo, hi)
		c.Den[i] = hist.NewH1(fmt.Sprintf("den_%s_kt%d", name, i), title, bins, lo, hi)
	}
	return c
}

func (c *KtQInv) ktEdge(i int) float64 { return c.ktMin + float64(i)*c.ktWidth }

func (c *KtQInv) ktBin(p *pair.Pair) (int, bool) {
	return binOf(p.KT(), c.ktMin, c.ktWidth, c.ktBins)
}

// binOf maps v to floor((v-lo)/width) when that lies in [0, n).
func binOf(v, lo, width float64, n int) (int, bool) {
	f := math.Floor((v - lo) / width)
	if !(f >= 0 && f < float64(n)) {
		return 0, false
	}
	return int(f), true
}

func (c *KtQInv) Name() string { return c.name }

func (c *KtQInv) AddRealPair(p *pair.Pair) {
	if !c.accept(p) {
		return
	}
	if i, ok := c.ktBin(p); ok {
		c.Num[i].Fill(math.Abs(p.QInv()), 1)
	}
}

func (c *KtQInv) AddMixedPair(p *pair.Pair) {
	if !c.accept(p) {
		return
	}
	if i, ok := c.ktBin(p); ok {
		c.Den[i].Fill(math.Abs(p.QInv()), 1)
	}
}

func (c *KtQInv) Finish() {
	c.Ratio = make([]*hist.Ratio, c.ktBins)
	for i := range c.ktBins {
		c.Ratio[i] = hist.Divide(fmt.Sprintf("cf_%s_kt%d", c.name, i), c.Num[i].Title(),
			c.Num[i], c.Den[i], c.NormLo, c.NormHi)
	}
}

func (c *KtQInv) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "kT-binned qInv correlation function %s:\n", c.name)
	for i := range c.ktBins {
		fmt.Fprintf(&sb, "kT [%.3g,%.3g): numerator %d denominator %d\n",
			c.ktEdge(i), c.ktEdge(i+1), c.Num[i].Entries(), c.Den[i].Entries())
	}
	c.cutReport(&sb)
	return sb.String()
}

func (c *KtQInv) OutputList() []hist.Output {
	out := make([]hist.Output, 0, 3*c.ktBins)
	for i := range c.ktBins {
		out = append(out, c.Num[i], c.Den[i])
	}
	for _, r := range c.Ratio {
		out = append(out, r)
	}
	return out
}

func (c *KtQInv) Clone() (CorrFctn, error) {
	b, err := c.cloneBase()
	if err != nil {
		return nil, err
	}
	n := c.Num[0]
	cl := NewKtQInv(c.name, n.Len(), n.XMin(), n.XMax(), c.ktBins, c.ktMin, c.ktEdge(c.ktBins))
	cl.Base = b
	cl.NormLo, cl.NormHi = c.NormLo, c.NormHi
	return cl, nil
}
