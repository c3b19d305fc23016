package analysis

import (
	"fmt"
	"strings"

	"github.com/banshee-data/femto/internal/femto"
	"github.com/banshee-data/femto/internal/femto/corrfctn"
	"github.com/banshee-data/femto/internal/femto/cut"
	"github.com/banshee-data/femto/internal/femto/hist"
)

// Finish finishes every accumulator and cut monitor and releases the events
// still held for mixing.
func (a *Analysis) Finish() {
	for _, c := range a.corrFctns {
		c.Finish()
	}
	for _, h := range a.hooks() {
		if f, ok := h.(cut.Finisher); ok {
			f.Finish()
		}
	}
	a.mix.Drain()
	femto.Diagf("[Analysis] %s finished: %d events processed, %d passed, %d real and %d mixed pairs accepted",
		a.cfg.Name, a.stats.EventsProcessed, a.stats.EventsPassed,
		a.stats.RealPairsPassed, a.stats.MixedPairsPassed)
}

// Report describes the counters, cuts and accumulators.
func (a *Analysis) Report() string {
	s := a.stats
	var sb strings.Builder
	sb.WriteString("-----------\nHbt Analysis Report: " + a.cfg.Name + "\n")
	fmt.Fprintf(&sb, "Driver %s, species %s, mixing depth %d, min collection size %d\n",
		a.mode, a.cfg.Species, a.cfg.MixingDepth, a.minSize)
	fmt.Fprintf(&sb, "Events processed %d passed %d failed %d\n", s.EventsProcessed, s.EventsPassed, s.EventsFailed)
	fmt.Fprintf(&sb, "Real pairs %d accepted %d\n", s.RealPairs, s.RealPairsPassed)
	fmt.Fprintf(&sb, "Mixed pairs %d accepted %d\n", s.MixedPairs, s.MixedPairsPassed)
	if a.mode == driverLikeSign {
		fmt.Fprintf(&sb, "Like-sign pairs +%d/%d -%d/%d\n",
			s.LikeSignPosPassed, s.LikeSignPos, s.LikeSignNegPassed, s.LikeSignNeg)
	}
	for i, ax := range a.axes {
		if a.mode == driverBase {
			break
		}
		fmt.Fprintf(&sb, "Mixing axis %s: %d bins [%g,%g) underflow %d overflow %d\n",
			ax.Name, ax.Bins, ax.Min, ax.Max, s.Underflow[i], s.Overflow[i])
	}
	if a.mode == driverReactionPlane {
		fmt.Fprintf(&sb, "Events without event plane %d\n", s.NoEventPlane)
	}

	sb.WriteString("\nEvent Cuts:\n")
	sb.WriteString(a.cfg.EventCut.Report())
	sb.WriteString("\nParticle Cuts - First Particle:\n")
	sb.WriteString(a.cfg.FirstCut.Report())
	sb.WriteString("\nParticle Cuts - Second Particle:\n")
	if a.identical() {
		sb.WriteString("same as first particle\n")
	} else {
		sb.WriteString(a.cfg.SecondCut.Report())
	}
	sb.WriteString("\nPair Cuts:\n")
	sb.WriteString(a.cfg.PairCut.Report())
	sb.WriteString("\nCorrelation Functions:\n")
	if len(a.corrFctns) == 0 {
		sb.WriteString("no correlation functions in this analysis\n")
	}
	for _, c := range a.corrFctns {
		sb.WriteString(c.Report())
		sb.WriteString("\n")
	}
	sb.WriteString("-------------\n")
	return sb.String()
}

// Settings lists the analysis parameters and those of every configurable cut
// as key=value lines.
func (a *Analysis) Settings() []string {
	s := []string{
		"analysis.name=" + a.cfg.Name,
		"analysis.driver=" + a.mode.String(),
		"analysis.species=" + a.cfg.Species.String(),
		fmt.Sprintf("analysis.mixing_depth=%d", a.cfg.MixingDepth),
		fmt.Sprintf("analysis.min_collection_size=%d", a.minSize),
		fmt.Sprintf("analysis.seed=%d", a.cfg.Seed),
	}
	if a.mode != driverBase {
		for _, ax := range a.axes {
			s = append(s, fmt.Sprintf("analysis.axis.%s=%d[%g,%g)", ax.Name, ax.Bins, ax.Min, ax.Max))
		}
	}
	prefixes := []string{"event.", "first.", "second.", "pair."}
	if a.identical() {
		prefixes = []string{"event.", "first.", "pair."}
	}
	for i, h := range a.hooks() {
		if c, ok := h.(cut.Configurable); ok {
			for _, line := range c.Settings() {
				s = append(s, prefixes[i]+line)
			}
		}
	}
	return s
}

// OutputList collects the cut monitor histograms (first and second particle
// cut, pair cut, event cut) followed by every accumulator's outputs.
func (a *Analysis) OutputList() []hist.Output {
	var out []hist.Output
	order := []cut.Hooks{a.cfg.FirstCut}
	if !a.identical() {
		order = append(order, a.cfg.SecondCut)
	}
	order = append(order, a.cfg.PairCut, a.cfg.EventCut)
	for _, h := range order {
		if o, ok := h.(cut.Outputter); ok {
			out = append(out, o.OutputList()...)
		}
	}
	for _, c := range a.corrFctns {
		out = append(out, c.OutputList()...)
	}
	return out
}

// Clone returns an analysis with copies of every cut and of every cloneable
// accumulator, fresh mixing buffers and zeroed counters. Accumulators that
// cannot be cloned are left out; cuts that cannot be cloned are an error.
func (a *Analysis) Clone() (*Analysis, error) {
	cfg := a.cfg
	var err error
	if cfg.EventCut, err = cut.CloneEventCut(a.cfg.EventCut); err != nil {
		return nil, fmt.Errorf("failed to clone event cut: %w", err)
	}
	if cfg.FirstCut, err = cut.CloneParticleCut(a.cfg.FirstCut); err != nil {
		return nil, fmt.Errorf("failed to clone first particle cut: %w", err)
	}
	if a.identical() {
		cfg.SecondCut = cfg.FirstCut
	} else if cfg.SecondCut, err = cut.CloneParticleCut(a.cfg.SecondCut); err != nil {
		return nil, fmt.Errorf("failed to clone second particle cut: %w", err)
	}
	if cfg.PairCut, err = cut.ClonePairCut(a.cfg.PairCut); err != nil {
		return nil, fmt.Errorf("failed to clone pair cut: %w", err)
	}

	cl, err := build(cfg, a.mode, a.axes, nil)
	if err != nil {
		return nil, err
	}
	cl.life, cl.metrics = a.life, a.metrics
	for _, c := range a.corrFctns {
		cc, err := corrfctn.Clone(c)
		if err != nil {
			femto.Diagf("[Analysis] %s: skipping accumulator in clone: %v", a.cfg.Name, err)
			continue
		}
		cl.AddCorrFctn(cc)
	}
	return cl, nil
}
