package corrfctn

import (
	"fmt"
	"math"
	"strings"

	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/hist"
	"github.com/banshee-data/femto/internal/femto/pair"
)

// Frame is the reference frame of the Bertsch-Pratt decomposition.
type Frame int

const (
	// FrameLCMS is the longitudinally co-moving system.
	FrameLCMS Frame = iota
	// FramePF is the pair rest frame.
	FramePF
)

func (f Frame) String() string {
	if f == FramePF {
		return "pf"
	}
	return "lcms"
}

// ParseFrame maps "lcms" or "pf" to a Frame.
func ParseFrame(s string) (Frame, bool) {
	switch s {
	case "lcms":
		return FrameLCMS, true
	case "pf":
		return FramePF, true
	}
	return 0, false
}

// BertschPratt3D accumulates (qout, qside, qlong) in kT bins and, when more
// than one reaction-plane bin is booked, in bins of the pair azimuth relative
// to the event plane. Real pairs fill Num and NumW, mixed pairs fill Den and
// DenW; the W histograms carry |qInv| as weight.
//
// With a negative lower reaction-plane edge the components are folded to
// their absolute values.
type BertschPratt3D struct {
	Base

	name    string
	frame   Frame
	fold    bool
	ktBins  int
	ktMin   float64
	ktWidth float64
	rpBins  int
	rpMin   float64
	rpWidth float64

	Num, Den, NumW, DenW []*hist.H3

	plane PlaneSource
	ev    *event.Event
}

// NewBertschPratt3D books qBins^3 cells over [qLo, qHi) for every kT and
// reaction-plane bin.
func NewBertschPratt3D(name string, frame Frame, qBins int, qLo, qHi float64,
	ktBins int, ktMin, ktMax float64, rpBins int, rpMin, rpMax float64) *BertschPratt3D {
	c := &BertschPratt3D{
		name:    name,
		frame:   frame,
		fold:    rpMin < 0,
		ktBins:  ktBins,
		ktMin:   ktMin,
		ktWidth: (ktMax - ktMin) / float64(ktBins),
		rpBins:  rpBins,
		rpMin:   rpMin,
		rpWidth: (rpMax - rpMin) / float64(rpBins),
	}
	n := ktBins * rpBins
	c.Num = make([]*hist.H3, n)
	c.Den = make([]*hist.H3, n)
	c.NumW = make([]*hist.H3, n)
	c.DenW = make([]*hist.H3, n)
	for rp := range rpBins {
		for kt := range ktBins {
			i := kt + ktBins*rp
			suffix := fmt.Sprintf("%s_kt%d_rp%d", name, kt, rp)
			title := fmt.Sprintf("%s %s kT bin %d RP bin %d; q_{out}; q_{side}; q_{long}", name, frame, kt, rp)
			c.Num[i] = hist.NewH3("num_"+suffix, title, qBins, qLo, qHi)
			c.Den[i] = hist.NewH3("den_"+suffix, title, qBins, qLo, qHi)
			c.NumW[i] = hist.NewH3("numw_"+suffix, title, qBins, qLo, qHi)
			c.DenW[i] = hist.NewH3("denw_"+suffix, title, qBins, qLo, qHi)
		}
	}
	return c
}

func (c *BertschPratt3D) Name() string { return c.name }

// SetAnalysis supplies the event-plane angle of a reaction-plane analysis.
func (c *BertschPratt3D) SetAnalysis(src PlaneSource) { c.plane = src }

func (c *BertschPratt3D) EventBegin(ev *event.Event) {
	c.ev = ev
	c.Base.EventBegin(ev)
}

func (c *BertschPratt3D) eventPlane() float64 {
	if c.plane != nil {
		return c.plane.CurrentReactionPlane()
	}
	if c.ev != nil {
		return c.ev.EventPlaneAngle
	}
	return 0
}

// index returns the histogram slot of p, or false when p falls outside the
// kT or reaction-plane binning.
func (c *BertschPratt3D) index(p *pair.Pair) (int, bool) {
	kt, ok := binOf(p.KT(), c.ktMin, c.ktWidth, c.ktBins)
	if !ok {
		return 0, false
	}
	rp := 0
	if c.rpBins > 1 {
		d := p.Phi() - c.eventPlane()
		if d < 0 {
			d += 2 * math.Pi
		}
		if rp, ok = binOf(d, c.rpMin, c.rpWidth, c.rpBins); !ok {
			return 0, false
		}
	}
	return kt + c.ktBins*rp, true
}

func (c *BertschPratt3D) components(p *pair.Pair) (out, side, long float64) {
	if c.frame == FramePF {
		out, side, long = p.QOutPF(), p.QSidePF(), p.QLongPF()
	} else {
		out, side, long = p.QOutCMS(), p.QSideCMS(), p.QLongCMS()
	}
	if c.fold {
		out, side, long = math.Abs(out), math.Abs(side), math.Abs(long)
	}
	return out, side, long
}

func (c *BertschPratt3D) AddRealPair(p *pair.Pair) {
	if !c.accept(p) {
		return
	}
	i, ok := c.index(p)
	if !ok {
		return
	}
	o, s, l := c.components(p)
	c.Num[i].Fill(o, s, l, 1)
	c.NumW[i].Fill(o, s, l, math.Abs(p.QInv()))
}

func (c *BertschPratt3D) AddMixedPair(p *pair.Pair) {
	if !c.accept(p) {
		return
	}
	i, ok := c.index(p)
	if !ok {
		return
	}
	o, s, l := c.components(p)
	c.Den[i].Fill(o, s, l, 1)
	c.DenW[i].Fill(o, s, l, math.Abs(p.QInv()))
}

// Finish leaves the 3-D histograms as they are; the fit happens downstream.
func (c *BertschPratt3D) Finish() {}

func (c *BertschPratt3D) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s frame Bertsch-Pratt 3D correlation function %s:\n", strings.ToUpper(c.frame.String()), c.name)
	var num, den int64
	for i := range c.Num {
		num += c.Num[i].Entries()
		den += c.Den[i].Entries()
	}
	fmt.Fprintf(&sb, "Number of entries in numerator:\t%d\n", num)
	fmt.Fprintf(&sb, "Number of entries in denominator:\t%d\n", den)
	fmt.Fprintf(&sb, "kT bins %d, reaction-plane bins %d\n", c.ktBins, c.rpBins)
	c.cutReport(&sb)
	return sb.String()
}

func (c *BertschPratt3D) OutputList() []hist.Output {
	out := make([]hist.Output, 0, 4*len(c.Num))
	for i := range c.Num {
		out = append(out, c.Num[i], c.Den[i], c.NumW[i], c.DenW[i])
	}
	return out
}

func (c *BertschPratt3D) Clone() (CorrFctn, error) {
	b, err := c.cloneBase()
	if err != nil {
		return nil, err
	}
	cl := &BertschPratt3D{
		Base:    b,
		name:    c.name,
		frame:   c.frame,
		fold:    c.fold,
		ktBins:  c.ktBins,
		ktMin:   c.ktMin,
		ktWidth: c.ktWidth,
		rpBins:  c.rpBins,
		rpMin:   c.rpMin,
		rpWidth: c.rpWidth,
	}
	for i := range c.Num {
		cl.Num = append(cl.Num, c.Num[i].Empty())
		cl.Den = append(cl.Den, c.Den[i].Empty())
		cl.NumW = append(cl.NumW, c.NumW[i].Empty())
		cl.DenW = append(cl.DenW, c.DenW[i].Empty())
	}
	return cl, nil
}
