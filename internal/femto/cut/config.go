package cut

import (
	"errors"
	"fmt"

	"github.com/banshee-data/femto/internal/config"
	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/particle"
)

func window(w []float64, def Range) Range {
	lo, hi := config.Window(w, def.Lo, def.Hi)
	return Range{Lo: lo, Hi: hi}
}

func intWindow(w []int, def IntRange) IntRange {
	lo, hi := config.IntWindow(w, def.Lo, def.Hi)
	return IntRange{Lo: lo, Hi: hi}
}

// EventCutFromConfig builds a BasicEventCut. A nil config yields the
// defaults of NewBasicEventCut.
func EventCutFromConfig(c *config.EventCutConfig) (*BasicEventCut, error) {
	ec := NewBasicEventCut()
	if c == nil {
		return ec, nil
	}
	ec.RefMult = intWindow(c.RefMult, ec.RefMult)
	ec.VertexZ = window(c.VertexZ, ec.VertexZ)
	ec.VpdVzDiff = window(c.VpdVzDiff, ec.VpdVzDiff)
	ec.VertexR = window(c.VertexR, ec.VertexR)
	ec.Cent9 = intWindow(c.Cent9, ec.Cent9)
	ec.EventPlane = window(c.EventPlane, ec.EventPlane)
	if c.VertexXShift != nil {
		ec.VertexXShift = *c.VertexXShift
	}
	if c.VertexYShift != nil {
		ec.VertexYShift = *c.VertexYShift
	}
	ec.Triggers = append([]uint32(nil), c.Triggers...)
	runs, err := c.GetBadRuns()
	if err != nil {
		return nil, fmt.Errorf("failed to load bad runs: %w", err)
	}
	if len(runs) > 0 {
		ec.BadRuns = NewBadRunList(runs...)
	}
	return ec, nil
}

// ParticleCutFromConfig builds the particle cut named by c.Type.
func ParticleCutFromConfig(c *config.ParticleCutConfig) (ParticleCut, error) {
	if c == nil {
		return nil, errors.New("particle cut config is nil")
	}
	species, ok := event.ParseSpecies(c.GetSpecies())
	if !ok {
		return nil, fmt.Errorf("unknown species %q", c.GetSpecies())
	}
	mass := species.Mass()
	if c.Mass != nil {
		mass = *c.Mass
	}

	switch c.GetType() {
	case "track":
		return trackCutFromConfig(c, species, mass)
	case "momentum":
		kind := particle.KindTrack
		if c.Kind != nil {
			if kind, ok = particle.ParseKind(*c.Kind); !ok {
				return nil, fmt.Errorf("unknown particle kind %q", *c.Kind)
			}
		}
		mc := NewMomentumCut(kind, mass)
		mc.Pt = window(c.Pt, mc.Pt)
		mc.Eta = window(c.Eta, mc.Eta)
		if c.Charge != nil {
			mc.RequireCharge = true
			mc.Charge = *c.Charge
		}
		return mc, nil
	case "v0":
		vc := NewBasicV0Cut(mass)
		vc.Pt = window(c.Pt, vc.Pt)
		vc.Eta = window(c.Eta, vc.Eta)
		vc.DCADaughters = window(c.DCADaughters, vc.DCADaughters)
		vc.DCAToPrimary = window(c.DCAToPrimary, vc.DCAToPrimary)
		vc.DecayLength = window(c.DecayLength, vc.DecayLength)
		return vc, nil
	case "any":
		ac := NewAnyTrackCut(mass)
		for i := range c.Any {
			sub := c.Any[i]
			if sub.GetType() != "track" {
				return nil, fmt.Errorf("any[%d]: sub-cut type %q is not track", i, sub.GetType())
			}
			sp, ok := event.ParseSpecies(sub.GetSpecies())
			if !ok {
				return nil, fmt.Errorf("any[%d]: unknown species %q", i, sub.GetSpecies())
			}
			tc, err := trackCutFromConfig(&sub, sp, mass)
			if err != nil {
				return nil, fmt.Errorf("any[%d]: %w", i, err)
			}
			ac.Cuts = append(ac.Cuts, tc)
		}
		if len(ac.Cuts) == 0 {
			return nil, errors.New("any cut needs at least one sub-cut")
		}
		return ac, nil
	}
	return nil, fmt.Errorf("unknown particle cut type %q", c.GetType())
}

func trackCutFromConfig(c *config.ParticleCutConfig, species event.Species, mass float64) (*BasicTrackCut, error) {
	tc := NewBasicTrackCut(species, c.GetCharge(), mass)
	if c.Primary != nil {
		tc.Primary = *c.Primary
	}
	tc.NHits = intWindow(c.NHits, tc.NHits)
	if c.MinFitRatio != nil {
		tc.MinFitRatio = *c.MinFitRatio
	}
	tc.Pt = window(c.Pt, tc.Pt)
	tc.P = window(c.P, tc.P)
	tc.Rapidity = window(c.Rapidity, tc.Rapidity)
	tc.Eta = window(c.Eta, tc.Eta)
	tc.DCA = window(c.DCA, tc.DCA)
	if c.PID != nil {
		mode, ok := ParsePIDMode(*c.PID)
		if !ok {
			return nil, fmt.Errorf("unknown pid mode %q", *c.PID)
		}
		tc.PID = mode
	}
	tc.NSigma = window(c.NSigma, tc.NSigma)
	tc.NSigmaOther = window(c.NSigmaOther, tc.NSigmaOther)
	tc.TPCMom = window(c.TPCMom, tc.TPCMom)
	tc.TofMassSqr = window(c.TofMassSqr, tc.TofMassSqr)
	tc.TofMom = window(c.TofMom, tc.TofMom)
	return tc, nil
}

// PairCutFromConfig builds a BasicPairCut, or AcceptAllPairs for type "all".
// A nil config yields the defaults of NewBasicPairCut.
func PairCutFromConfig(c *config.PairCutConfig) (PairCut, error) {
	switch c.GetType() {
	case "all":
		return &AcceptAllPairs{}, nil
	case "basic":
	default:
		return nil, fmt.Errorf("unknown pair cut type %q", c.GetType())
	}
	pc := NewBasicPairCut()
	if c == nil {
		return pc, nil
	}
	pc.Quality = window(c.Quality, pc.Quality)
	pc.KT = window(c.KT, pc.KT)
	pc.PT = window(c.PT, pc.PT)
	pc.OpeningAngle = window(c.OpeningAngle, pc.OpeningAngle)
	pc.Rapidity = window(c.Rapidity, pc.Rapidity)
	pc.Eta = window(c.Eta, pc.Eta)
	pc.QInv = window(c.QInv, pc.QInv)
	pc.MInv = window(c.MInv, pc.MInv)
	if c.RValueMin != nil {
		pc.RValueMin = *c.RValueMin
	}
	return pc, nil
}
