package analysis

import (
	"fmt"
	"math"

	"github.com/banshee-data/femto/internal/config"
	"github.com/banshee-data/femto/internal/femto/corrfctn"
	"github.com/banshee-data/femto/internal/femto/cut"
	"github.com/banshee-data/femto/internal/femto/mixing"
	"github.com/banshee-data/femto/internal/femto/monitor"
)

func axisFromConfig(name string, c *config.AxisConfig, bins int, lo, hi float64) mixing.Axis {
	return mixing.Axis{Name: name, Bins: c.GetBins(bins), Min: c.GetMin(lo), Max: c.GetMax(hi)}
}

func particleCutFromConfig(c *config.ParticleCutConfig, name string) (cut.ParticleCut, error) {
	pc, err := cut.ParticleCutFromConfig(c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if c.GetMonitor() {
		if h, ok := pc.(interface {
			AddMonitors(pass, fail cut.Monitor)
		}); ok {
			monitor.Attach(h, name, func(n string) *monitor.Track { return monitor.NewTrack(n, pc.Mass()) })
		}
	}
	return pc, nil
}

// FromConfig assembles the analysis described by c: its cuts with monitors,
// its accumulators and the driver selected by c.Driver. i numbers unnamed
// analyses.
func FromConfig(c *config.AnalysisConfig, i int, opts ...Option) (*Analysis, error) {
	name := c.GetName(i)

	ec, err := cut.EventCutFromConfig(c.EventCut)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", name, err)
	}
	if c.EventCut.GetMonitor() {
		monitor.Attach(ec, name+"_event", monitor.NewEvent)
	}

	first := c.FirstParticle
	if first == nil {
		first = &config.ParticleCutConfig{}
	}
	fc, err := particleCutFromConfig(first, name+"_first")
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", name, err)
	}

	species := IdenticalSpecies
	var sc cut.ParticleCut
	if c.GetSpecies() == config.SpeciesDistinct {
		species = DistinctSpecies
		if c.SecondParticle == nil {
			return nil, fmt.Errorf("analysis %s: %w: second particle", name, ErrNoParticleCut)
		}
		if sc, err = particleCutFromConfig(c.SecondParticle, name+"_second"); err != nil {
			return nil, fmt.Errorf("analysis %s: %w", name, err)
		}
	}

	pc, err := cut.PairCutFromConfig(c.PairCut)
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", name, err)
	}
	if c.PairCut.GetMonitor() {
		if h, ok := pc.(*cut.BasicPairCut); ok {
			monitor.Attach(h, name+"_pair", monitor.NewPair)
		}
	}

	cfg := Config{
		Name:              name,
		Species:           species,
		EventCut:          ec,
		FirstCut:          fc,
		SecondCut:         sc,
		PairCut:           pc,
		MinCollectionSize: c.GetMinCollectionSize(),
		MixingDepth:       c.GetMixingDepth(),
		Seed:              c.GetSeed(),
	}

	vz := axisFromConfig("vertex_z", c.VertexZ, 10, -100, 100)
	mult := axisFromConfig("ref_mult", c.RefMult, 1, 0, 1000)
	rp := axisFromConfig("reaction_plane", c.ReactionPlane, 1, 0, math.Pi)

	var a *Analysis
	switch c.GetDriver() {
	case config.DriverBase:
		a, err = New(cfg, opts...)
	case config.DriverVertex:
		a, err = NewVertexAnalysis(cfg, vz, opts...)
	case config.DriverVertexMult:
		a, err = NewVertexMultAnalysis(cfg, vz, mult, opts...)
	case config.DriverReactionPlane:
		a, err = NewReactionPlaneAnalysis(cfg, vz, mult, rp, opts...)
	case config.DriverLikeSign:
		a, err = NewLikeSignAnalysis(cfg, vz, opts...)
	default:
		err = fmt.Errorf("unknown driver %q", c.GetDriver())
	}
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", name, err)
	}

	for j := range c.CorrFctns {
		cf, err := corrfctn.FromConfig(&c.CorrFctns[j], j)
		if err != nil {
			return nil, fmt.Errorf("analysis %s: %w", name, err)
		}
		a.AddCorrFctn(cf)
	}
	return a, nil
}
