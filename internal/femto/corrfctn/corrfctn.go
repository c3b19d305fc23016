// Package corrfctn holds the correlation-function accumulators that receive
// real and mixed pairs from an analysis.
//
// Every accumulator owns fixed-size histograms booked at construction, so
// the per-pair path does index arithmetic only. An accumulator may carry a
// private pair cut that is checked before anything is filled.
package corrfctn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/banshee-data/femto/internal/femto/cut"
	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/hist"
	"github.com/banshee-data/femto/internal/femto/pair"
)

// ErrCloneNotSupported is returned by Clone for accumulators without a Clone
// method.
var ErrCloneNotSupported = errors.New("corrfctn: clone not supported")

// CorrFctn accumulates pairs dispatched by an analysis.
type CorrFctn interface {
	AddRealPair(p *pair.Pair)
	AddMixedPair(p *pair.Pair)
	EventBegin(ev *event.Event)
	EventEnd(ev *event.Event)
	Finish()
	Report() string
	OutputList() []hist.Output
}

// LikeSign accumulators additionally receive same-charge pairs from a
// like-sign analysis.
type LikeSign interface {
	CorrFctn
	AddLikeSignPositivePair(p *pair.Pair)
	AddLikeSignNegativePair(p *pair.Pair)
}

// Cloner is implemented by accumulators that can produce an empty copy with
// the same binning and private cut.
type Cloner interface {
	Clone() (CorrFctn, error)
}

// PlaneSource exposes the event-plane angle of the event being processed.
type PlaneSource interface {
	CurrentReactionPlane() float64
}

// AnalysisAware accumulators are handed their owning analysis when they are
// added to it.
type AnalysisAware interface {
	SetAnalysis(src PlaneSource)
}

// Clone copies c when it implements Cloner.
func Clone(c CorrFctn) (CorrFctn, error) {
	if cl, ok := c.(Cloner); ok {
		return cl.Clone()
	}
	return nil, fmt.Errorf("%w: %T", ErrCloneNotSupported, c)
}

// Base carries the optional private pair cut shared by all accumulators.
type Base struct {
	PairCut cut.PairCut
}

func (b *Base) accept(p *pair.Pair) bool {
	return b.PairCut == nil || b.PairCut.Pass(p)
}

func (b *Base) EventBegin(ev *event.Event) {
	if b.PairCut != nil {
		b.PairCut.EventBegin(ev)
	}
}

func (b *Base) EventEnd(ev *event.Event) {
	if b.PairCut != nil {
		b.PairCut.EventEnd(ev)
	}
}

func (b *Base) cloneBase() (Base, error) {
	if b.PairCut == nil {
		return Base{}, nil
	}
	pc, err := cut.ClonePairCut(b.PairCut)
	if err != nil {
		return Base{}, fmt.Errorf("failed to clone private pair cut: %w", err)
	}
	return Base{PairCut: pc}, nil
}

func (b *Base) cutReport(sb *strings.Builder) {
	if b.PairCut == nil {
		sb.WriteString("No pair cut specific to this correlation function\n")
		return
	}
	sb.WriteString("Pair cut specific to this correlation function:\n")
	sb.WriteString(b.PairCut.Report())
}
