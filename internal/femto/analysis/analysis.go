// Package analysis is the pairing engine. An Analysis takes one event at a
// time, filters it through its event and particle cuts, builds real pairs
// within the event and mixed pairs against earlier events held in a mixing
// buffer, and hands every pair that passes the pair cut to its correlation
// functions in registration order.
//
// The binned drivers (vertex, vertex x multiplicity, reaction plane,
// like-sign) are the same state machine with a different mixing-buffer
// lookup.
package analysis

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/banshee-data/femto/internal/femto/corrfctn"
	"github.com/banshee-data/femto/internal/femto/cut"
	"github.com/banshee-data/femto/internal/femto/mixing"
	"github.com/banshee-data/femto/internal/femto/pair"
	"github.com/banshee-data/femto/internal/femto/particle"
)

var (
	ErrNoEventCut      = errors.New("analysis: event cut is required")
	ErrNoParticleCut   = errors.New("analysis: particle cut is required")
	ErrNoPairCut       = errors.New("analysis: pair cut is required")
	ErrSpeciesMismatch = errors.New("analysis: cuts do not match species mode")
	ErrCutKindMismatch = errors.New("analysis: particle cut does not implement its kind")
)

// Species tells whether the two particles of a pair come from one collection
// or from two.
type Species int

const (
	// DistinctSpecies pairs collection 1 with collection 2.
	DistinctSpecies Species = iota
	// IdenticalSpecies pairs collection 1 with itself; collection 2 is never
	// filled.
	IdenticalSpecies
)

func (s Species) String() string {
	if s == IdenticalSpecies {
		return "identical"
	}
	return "distinct"
}

// Config is the fixed wiring of an analysis.
type Config struct {
	Name    string
	Species Species

	EventCut  cut.EventCut
	FirstCut  cut.ParticleCut
	SecondCut cut.ParticleCut // nil or FirstCut in IdenticalSpecies
	PairCut   cut.PairCut

	// MinCollectionSize is the smallest collection an event may contribute.
	MinCollectionSize int
	// MixingDepth is the capacity of each mixing buffer.
	MixingDepth int
	// Seed drives the pair randomization.
	Seed uint64
}

// Metrics receives per-event counter deltas. monitoring.Metrics satisfies it.
type Metrics interface {
	EventProcessed(analysis string)
	EventAccepted(analysis string)
	EventRejected(analysis, reason string)
	PairsAccepted(analysis, kind string, n int64)
	BinMiss(analysis, axis, side string)
}

// Stats are the counters an analysis keeps while running.
type Stats struct {
	EventsProcessed int64
	EventsPassed    int64
	EventsFailed    int64

	RealPairs         int64
	RealPairsPassed   int64
	MixedPairs        int64
	MixedPairsPassed  int64
	LikeSignPos       int64
	LikeSignPosPassed int64
	LikeSignNeg       int64
	LikeSignNegPassed int64
	NoEventPlane      int64
	Underflow         [3]int64
	Overflow          [3]int64
}

// Option customizes an Analysis.
type Option func(*Analysis)

// WithLifecycle observes every PicoEvent the analysis creates and releases.
func WithLifecycle(l particle.Lifecycle) Option {
	return func(a *Analysis) { a.life = l }
}

// WithMetrics pushes per-event counters to m.
func WithMetrics(m Metrics) Option {
	return func(a *Analysis) { a.metrics = m }
}

// Analysis runs the filter, pair, mix and dispatch pipeline for one event
// stream. It is not safe for concurrent use.
type Analysis struct {
	cfg     Config
	mode    driver
	axes    []mixing.Axis
	mix     *mixing.Hideaway
	minSize int

	corrFctns []corrfctn.CorrFctn
	likeSign  []corrfctn.LikeSign

	rng  *rand.Rand
	pair *pair.Pair
	pico *particle.PicoEvent
	rp   float64

	life    particle.Lifecycle
	metrics Metrics
	stats   Stats
}

// New builds an analysis with a single unbinned mixing buffer.
func New(cfg Config, opts ...Option) (*Analysis, error) {
	return build(cfg, driverBase, []mixing.Axis{mixing.Unbounded()}, opts)
}

func build(cfg Config, mode driver, axes []mixing.Axis, opts []Option) (*Analysis, error) {
	if err := checkConfig(&cfg, mode); err != nil {
		return nil, err
	}
	mix, err := mixing.NewHideaway(cfg.MixingDepth, axes...)
	if err != nil {
		return nil, fmt.Errorf("failed to build mixing buffers for %s: %w", cfg.Name, err)
	}
	a := &Analysis{
		cfg:     cfg,
		mode:    mode,
		axes:    mix.Axes(),
		mix:     mix,
		minSize: cfg.MinCollectionSize,
		rng:     rand.New(rand.NewPCG(cfg.Seed, 0)),
	}
	if mode == driverLikeSign {
		a.minSize = max(a.minSize, 1)
	}
	a.pair = pair.New(a.rng)
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

func checkConfig(cfg *Config, mode driver) error {
	if cfg.EventCut == nil {
		return ErrNoEventCut
	}
	if cfg.PairCut == nil {
		return ErrNoPairCut
	}
	if cfg.FirstCut == nil {
		return fmt.Errorf("%w: first particle", ErrNoParticleCut)
	}
	switch cfg.Species {
	case IdenticalSpecies:
		if cfg.SecondCut != nil && cfg.SecondCut != cfg.FirstCut {
			return fmt.Errorf("%w: identical species needs one particle cut", ErrSpeciesMismatch)
		}
		cfg.SecondCut = cfg.FirstCut
		if mode == driverLikeSign {
			return fmt.Errorf("%w: like-sign analysis needs distinct species", ErrSpeciesMismatch)
		}
	case DistinctSpecies:
		if cfg.SecondCut == nil {
			return fmt.Errorf("%w: second particle", ErrNoParticleCut)
		}
	default:
		return fmt.Errorf("%w: unknown species %d", ErrSpeciesMismatch, cfg.Species)
	}
	for _, c := range []cut.ParticleCut{cfg.FirstCut, cfg.SecondCut} {
		if err := cut.CheckKind(c); err != nil {
			return fmt.Errorf("%w: %v", ErrCutKindMismatch, err)
		}
	}
	if cfg.Name == "" {
		cfg.Name = "analysis"
	}
	return nil
}

// AddCorrFctn appends c to the dispatch list. Accumulators implementing
// corrfctn.AnalysisAware are handed the analysis.
func (a *Analysis) AddCorrFctn(c corrfctn.CorrFctn) {
	a.corrFctns = append(a.corrFctns, c)
	if ls, ok := c.(corrfctn.LikeSign); ok {
		a.likeSign = append(a.likeSign, ls)
	}
	if aw, ok := c.(corrfctn.AnalysisAware); ok {
		aw.SetAnalysis(a)
	}
}

// CorrFctns returns the accumulators in dispatch order.
func (a *Analysis) CorrFctns() []corrfctn.CorrFctn { return a.corrFctns }

func (a *Analysis) Name() string               { return a.cfg.Name }
func (a *Analysis) Species() Species           { return a.cfg.Species }
func (a *Analysis) EventCut() cut.EventCut     { return a.cfg.EventCut }
func (a *Analysis) FirstCut() cut.ParticleCut  { return a.cfg.FirstCut }
func (a *Analysis) SecondCut() cut.ParticleCut { return a.cfg.SecondCut }
func (a *Analysis) PairCut() cut.PairCut       { return a.cfg.PairCut }
func (a *Analysis) Stats() Stats               { return a.stats }

// Mixing exposes the mixing buffers.
func (a *Analysis) Mixing() *mixing.Hideaway { return a.mix }

// CurrentReactionPlane is the folded event-plane angle of the event being
// processed by a reaction-plane analysis, zero otherwise.
func (a *Analysis) CurrentReactionPlane() float64 { return a.rp }

// identical reports whether collection 2 is unused.
func (a *Analysis) identical() bool { return a.cfg.Species == IdenticalSpecies }
