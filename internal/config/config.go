package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical analysis defaults file.
const DefaultConfigPath = "config/femto.defaults.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Driver names accepted in AnalysisConfig.Driver.
const (
	DriverBase          = "base"
	DriverVertex        = "vertex"
	DriverVertexMult    = "vertex_mult"
	DriverReactionPlane = "reaction_plane"
	DriverLikeSign      = "like_sign"
)

// Species modes accepted in AnalysisConfig.Species.
const (
	SpeciesIdentical = "identical"
	SpeciesDistinct  = "distinct"
)

// Accumulator types accepted in CorrFctnConfig.Type.
const (
	CorrFctnQInv           = "qinv"
	CorrFctnKStar          = "kstar"
	CorrFctnQInvRandomFlip = "qinv_random_flip"
	CorrFctnYKPQPar        = "ykp_qpar"
	CorrFctnKtQInv         = "kt_qinv"
	CorrFctnBP3D           = "bp3d"
	CorrFctnLikeSignQInv   = "like_sign_qinv"
)

var validate = validator.New()

// Config is the root of an analysis run: where events come from and which
// analyses consume them. Analyses run in the order they are listed.
type Config struct {
	Reader   *ReaderConfig    `json:"reader,omitempty" yaml:"reader,omitempty"`
	Analyses []AnalysisConfig `json:"analyses" yaml:"analyses" validate:"required,min=1,dive"`
}

// ReaderConfig selects the event source.
type ReaderConfig struct {
	Type      *string `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=lcio jsonl synthetic"`
	Path      *string `json:"path,omitempty" yaml:"path,omitempty"`
	MaxEvents *int    `json:"max_events,omitempty" yaml:"max_events,omitempty" validate:"omitempty,gte=0"`

	// Synthetic generator
	Events       *int      `json:"events,omitempty" yaml:"events,omitempty" validate:"omitempty,gte=0"`
	Seed         *uint64   `json:"seed,omitempty" yaml:"seed,omitempty"`
	Multiplicity []int     `json:"multiplicity,omitempty" yaml:"multiplicity,omitempty" validate:"omitempty,len=2"`
	VertexZ      []float64 `json:"vertex_z,omitempty" yaml:"vertex_z,omitempty" validate:"omitempty,len=2"`
}

// AnalysisConfig describes one driver with its cuts and accumulators.
type AnalysisConfig struct {
	Name              *string `json:"name,omitempty" yaml:"name,omitempty"`
	Driver            *string `json:"driver,omitempty" yaml:"driver,omitempty" validate:"omitempty,oneof=base vertex vertex_mult reaction_plane like_sign"`
	Species           *string `json:"species,omitempty" yaml:"species,omitempty" validate:"omitempty,oneof=identical distinct"`
	MinCollectionSize *int    `json:"min_collection_size,omitempty" yaml:"min_collection_size,omitempty" validate:"omitempty,gte=0"`
	MixingDepth       *int    `json:"mixing_depth,omitempty" yaml:"mixing_depth,omitempty" validate:"omitempty,gt=0"`
	Seed              *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	VertexZ       *AxisConfig `json:"vertex_z,omitempty" yaml:"vertex_z,omitempty"`
	RefMult       *AxisConfig `json:"ref_mult,omitempty" yaml:"ref_mult,omitempty"`
	ReactionPlane *AxisConfig `json:"reaction_plane,omitempty" yaml:"reaction_plane,omitempty"`

	EventCut       *EventCutConfig    `json:"event_cut,omitempty" yaml:"event_cut,omitempty"`
	FirstParticle  *ParticleCutConfig `json:"first_particle,omitempty" yaml:"first_particle,omitempty"`
	SecondParticle *ParticleCutConfig `json:"second_particle,omitempty" yaml:"second_particle,omitempty"`
	PairCut        *PairCutConfig     `json:"pair_cut,omitempty" yaml:"pair_cut,omitempty"`
	CorrFctns      []CorrFctnConfig   `json:"corr_fctns,omitempty" yaml:"corr_fctns,omitempty" validate:"dive"`
}

// AxisConfig books one mixing-bin axis.
type AxisConfig struct {
	Bins *int     `json:"bins,omitempty" yaml:"bins,omitempty" validate:"omitempty,gt=0"`
	Min  *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max  *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// EventCutConfig holds BasicEventCut windows. Windows are [lo, hi] pairs.
type EventCutConfig struct {
	RefMult      []int     `json:"ref_mult,omitempty" yaml:"ref_mult,omitempty" validate:"omitempty,len=2"`
	VertexZ      []float64 `json:"vertex_z,omitempty" yaml:"vertex_z,omitempty" validate:"omitempty,len=2"`
	VpdVzDiff    []float64 `json:"vpd_vz_diff,omitempty" yaml:"vpd_vz_diff,omitempty" validate:"omitempty,len=2"`
	VertexR      []float64 `json:"vertex_r,omitempty" yaml:"vertex_r,omitempty" validate:"omitempty,len=2"`
	VertexXShift *float64  `json:"vertex_x_shift,omitempty" yaml:"vertex_x_shift,omitempty"`
	VertexYShift *float64  `json:"vertex_y_shift,omitempty" yaml:"vertex_y_shift,omitempty"`
	Cent9        []int     `json:"cent9,omitempty" yaml:"cent9,omitempty" validate:"omitempty,len=2"`
	EventPlane   []float64 `json:"event_plane,omitempty" yaml:"event_plane,omitempty" validate:"omitempty,len=2"`
	Triggers     []uint32  `json:"triggers,omitempty" yaml:"triggers,omitempty"`
	BadRuns      []int     `json:"bad_runs,omitempty" yaml:"bad_runs,omitempty"`
	BadRunFile   *string   `json:"bad_run_file,omitempty" yaml:"bad_run_file,omitempty"`
	Monitor      *bool     `json:"monitor,omitempty" yaml:"monitor,omitempty"`
}

// ParticleCutConfig holds the parameters of every particle cut type. Type
// picks the cut; fields not used by that cut are ignored.
type ParticleCutConfig struct {
	Type    *string  `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=track momentum v0 any"`
	Kind    *string  `json:"kind,omitempty" yaml:"kind,omitempty" validate:"omitempty,oneof=track v0 xi kink"`
	Species *string  `json:"species,omitempty" yaml:"species,omitempty" validate:"omitempty,oneof=electron pion kaon proton"`
	Charge  *int     `json:"charge,omitempty" yaml:"charge,omitempty" validate:"omitempty,oneof=-1 0 1"`
	Mass    *float64 `json:"mass,omitempty" yaml:"mass,omitempty" validate:"omitempty,gte=0"`
	Primary *bool    `json:"primary,omitempty" yaml:"primary,omitempty"`

	NHits       []int     `json:"n_hits,omitempty" yaml:"n_hits,omitempty" validate:"omitempty,len=2"`
	MinFitRatio *float64  `json:"min_fit_ratio,omitempty" yaml:"min_fit_ratio,omitempty" validate:"omitempty,gte=0,lte=1"`
	Pt          []float64 `json:"pt,omitempty" yaml:"pt,omitempty" validate:"omitempty,len=2"`
	P           []float64 `json:"p,omitempty" yaml:"p,omitempty" validate:"omitempty,len=2"`
	Rapidity    []float64 `json:"rapidity,omitempty" yaml:"rapidity,omitempty" validate:"omitempty,len=2"`
	Eta         []float64 `json:"eta,omitempty" yaml:"eta,omitempty" validate:"omitempty,len=2"`
	DCA         []float64 `json:"dca,omitempty" yaml:"dca,omitempty" validate:"omitempty,len=2"`

	PID         *string   `json:"pid,omitempty" yaml:"pid,omitempty" validate:"omitempty,oneof=tpc tof tpc+tof tof-if-available"`
	NSigma      []float64 `json:"n_sigma,omitempty" yaml:"n_sigma,omitempty" validate:"omitempty,len=2"`
	NSigmaOther []float64 `json:"n_sigma_other,omitempty" yaml:"n_sigma_other,omitempty" validate:"omitempty,len=2"`
	TPCMom      []float64 `json:"tpc_mom,omitempty" yaml:"tpc_mom,omitempty" validate:"omitempty,len=2"`
	TofMassSqr  []float64 `json:"tof_mass_sqr,omitempty" yaml:"tof_mass_sqr,omitempty" validate:"omitempty,len=2"`
	TofMom      []float64 `json:"tof_mom,omitempty" yaml:"tof_mom,omitempty" validate:"omitempty,len=2"`

	// V0 cuts
	DCADaughters []float64 `json:"dca_daughters,omitempty" yaml:"dca_daughters,omitempty" validate:"omitempty,len=2"`
	DCAToPrimary []float64 `json:"dca_to_primary,omitempty" yaml:"dca_to_primary,omitempty" validate:"omitempty,len=2"`
	DecayLength  []float64 `json:"decay_length,omitempty" yaml:"decay_length,omitempty" validate:"omitempty,len=2"`

	// Any-of sub-cuts, all of type track.
	Any []ParticleCutConfig `json:"any,omitempty" yaml:"any,omitempty" validate:"dive"`

	Monitor *bool `json:"monitor,omitempty" yaml:"monitor,omitempty"`
}

// PairCutConfig holds BasicPairCut windows. Type "all" accepts every pair.
type PairCutConfig struct {
	Type         *string   `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=basic all"`
	Quality      []float64 `json:"quality,omitempty" yaml:"quality,omitempty" validate:"omitempty,len=2"`
	KT           []float64 `json:"kt,omitempty" yaml:"kt,omitempty" validate:"omitempty,len=2"`
	PT           []float64 `json:"pt,omitempty" yaml:"pt,omitempty" validate:"omitempty,len=2"`
	OpeningAngle []float64 `json:"opening_angle,omitempty" yaml:"opening_angle,omitempty" validate:"omitempty,len=2"`
	Rapidity     []float64 `json:"rapidity,omitempty" yaml:"rapidity,omitempty" validate:"omitempty,len=2"`
	Eta          []float64 `json:"eta,omitempty" yaml:"eta,omitempty" validate:"omitempty,len=2"`
	QInv         []float64 `json:"qinv,omitempty" yaml:"qinv,omitempty" validate:"omitempty,len=2"`
	MInv         []float64 `json:"minv,omitempty" yaml:"minv,omitempty" validate:"omitempty,len=2"`
	RValueMin    *float64  `json:"r_value_min,omitempty" yaml:"r_value_min,omitempty"`
	Monitor      *bool     `json:"monitor,omitempty" yaml:"monitor,omitempty"`
}

// CorrFctnConfig books one accumulator.
type CorrFctnConfig struct {
	Type   string   `json:"type" yaml:"type" validate:"required,oneof=qinv kstar qinv_random_flip ykp_qpar kt_qinv bp3d like_sign_qinv"`
	Name   *string  `json:"name,omitempty" yaml:"name,omitempty"`
	Bins   *int     `json:"bins,omitempty" yaml:"bins,omitempty" validate:"omitempty,gt=0"`
	QMin   *float64 `json:"q_min,omitempty" yaml:"q_min,omitempty"`
	QMax   *float64 `json:"q_max,omitempty" yaml:"q_max,omitempty"`
	NormLo *float64 `json:"norm_lo,omitempty" yaml:"norm_lo,omitempty"`
	NormHi *float64 `json:"norm_hi,omitempty" yaml:"norm_hi,omitempty"`

	// Bertsch-Pratt frame: "lcms" or "pf".
	Frame  *string  `json:"frame,omitempty" yaml:"frame,omitempty" validate:"omitempty,oneof=lcms pf"`
	KtBins *int     `json:"kt_bins,omitempty" yaml:"kt_bins,omitempty" validate:"omitempty,gt=0"`
	KtMin  *float64 `json:"kt_min,omitempty" yaml:"kt_min,omitempty"`
	KtMax  *float64 `json:"kt_max,omitempty" yaml:"kt_max,omitempty"`
	RPBins *int     `json:"rp_bins,omitempty" yaml:"rp_bins,omitempty" validate:"omitempty,gt=0"`
	RPMin  *float64 `json:"rp_min,omitempty" yaml:"rp_min,omitempty"`
	RPMax  *float64 `json:"rp_max,omitempty" yaml:"rp_max,omitempty"`

	PairCut *PairCutConfig `json:"pair_cut,omitempty" yaml:"pair_cut,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyConfig returns a Config with no analyses.
func EmptyConfig() *Config {
	return &Config{}
}

// LoadConfig loads a Config from a JSON or YAML file.
// The file must be under the max file size. Fields omitted from the file
// fall back to the defaults returned by the Get* methods.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	data, err := readLimited(cleanPath)
	if err != nil {
		return nil, err
	}

	cfg := EmptyConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func readLimited(path string) ([]byte, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return data, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *Config {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/femto/analysis/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate runs the struct-tag checks and the cross-field checks the tags
// cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	var errs []error
	for i := range c.Analyses {
		if err := c.Analyses[i].validate(); err != nil {
			errs = append(errs, fmt.Errorf("analyses[%d] (%s): %w", i, c.Analyses[i].GetName(i), err))
		}
	}
	return errors.Join(errs...)
}

func checkWindow(name string, w []float64) error {
	if len(w) == 2 && w[0] > w[1] {
		return fmt.Errorf("%s lower edge %g above upper edge %g", name, w[0], w[1])
	}
	return nil
}

func checkAxis(name string, a *AxisConfig, defMin, defMax float64) error {
	if a == nil {
		return nil
	}
	if lo, hi := a.GetMin(defMin), a.GetMax(defMax); lo >= hi {
		return fmt.Errorf("%s axis min %g must be below max %g", name, lo, hi)
	}
	return nil
}

func (a *AnalysisConfig) validate() error {
	var errs []error
	if a.GetDriver() == DriverLikeSign && a.GetSpecies() != SpeciesDistinct {
		errs = append(errs, fmt.Errorf("driver %s requires species %s", DriverLikeSign, SpeciesDistinct))
	}
	if a.GetSpecies() == SpeciesDistinct && a.SecondParticle == nil {
		errs = append(errs, errors.New("species distinct requires second_particle"))
	}
	errs = append(errs,
		checkAxis("vertex_z", a.VertexZ, -100, 100),
		checkAxis("ref_mult", a.RefMult, 0, 1000),
		checkAxis("reaction_plane", a.ReactionPlane, 0, math.Pi),
	)
	if a.PairCut != nil {
		errs = append(errs, a.PairCut.validate())
	}
	for i := range a.CorrFctns {
		if err := a.CorrFctns[i].validate(); err != nil {
			errs = append(errs, fmt.Errorf("corr_fctns[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (p *PairCutConfig) validate() error {
	return errors.Join(
		checkWindow("quality", p.Quality),
		checkWindow("kt", p.KT),
		checkWindow("pt", p.PT),
		checkWindow("qinv", p.QInv),
	)
}

func (c *CorrFctnConfig) validate() error {
	var errs []error
	if lo, hi := c.GetQMin(), c.GetQMax(); lo >= hi {
		errs = append(errs, fmt.Errorf("q_min %g must be below q_max %g", lo, hi))
	}
	if lo, hi := c.GetKtMin(), c.GetKtMax(); lo >= hi {
		errs = append(errs, fmt.Errorf("kt_min %g must be below kt_max %g", lo, hi))
	}
	if lo, hi := c.GetRPMin(), c.GetRPMax(); lo >= hi {
		errs = append(errs, fmt.Errorf("rp_min %g must be below rp_max %g", lo, hi))
	}
	if c.PairCut != nil {
		errs = append(errs, c.PairCut.validate())
	}
	return errors.Join(errs...)
}

// GetReader returns the reader section or an empty one.
func (c *Config) GetReader() *ReaderConfig {
	if c.Reader == nil {
		return &ReaderConfig{}
	}
	return c.Reader
}

// GetType returns the reader type or the default "synthetic".
func (r *ReaderConfig) GetType() string {
	if r.Type == nil || *r.Type == "" {
		return "synthetic"
	}
	return *r.Type
}

// GetPath returns the input path or "".
func (r *ReaderConfig) GetPath() string {
	if r.Path == nil {
		return ""
	}
	return *r.Path
}

// GetMaxEvents returns the event limit; zero means unlimited.
func (r *ReaderConfig) GetMaxEvents() int {
	if r.MaxEvents == nil {
		return 0
	}
	return *r.MaxEvents
}

// GetEvents returns the synthetic event count or the default 1000.
func (r *ReaderConfig) GetEvents() int {
	if r.Events == nil {
		return 1000
	}
	return *r.Events
}

// GetSeed returns the synthetic generator seed or the default 1.
func (r *ReaderConfig) GetSeed() uint64 {
	if r.Seed == nil {
		return 1
	}
	return *r.Seed
}

// GetMultiplicity returns the synthetic track-count window or [20, 60].
func (r *ReaderConfig) GetMultiplicity() (lo, hi int) {
	if len(r.Multiplicity) != 2 {
		return 20, 60
	}
	return r.Multiplicity[0], r.Multiplicity[1]
}

// GetVertexZ returns the synthetic vertex-z window or [-30, 30].
func (r *ReaderConfig) GetVertexZ() (lo, hi float64) {
	return Window(r.VertexZ, -30, 30)
}

// Window returns w as a pair or the given defaults when w is unset.
func Window(w []float64, lo, hi float64) (float64, float64) {
	if len(w) != 2 {
		return lo, hi
	}
	return w[0], w[1]
}

// IntWindow is Window for integer windows.
func IntWindow(w []int, lo, hi int) (int, int) {
	if len(w) != 2 {
		return lo, hi
	}
	return w[0], w[1]
}

// GetName returns the analysis name or "analysis<i>".
func (a *AnalysisConfig) GetName(i int) string {
	if a.Name == nil || *a.Name == "" {
		return fmt.Sprintf("analysis%d", i)
	}
	return *a.Name
}

// GetDriver returns the driver name or the default "base".
func (a *AnalysisConfig) GetDriver() string {
	if a.Driver == nil || *a.Driver == "" {
		return DriverBase
	}
	return *a.Driver
}

// GetSpecies returns the species mode or the default "identical".
func (a *AnalysisConfig) GetSpecies() string {
	if a.Species == nil || *a.Species == "" {
		return SpeciesIdentical
	}
	return *a.Species
}

// GetMinCollectionSize returns the minimum collection size or the default 0.
func (a *AnalysisConfig) GetMinCollectionSize() int {
	if a.MinCollectionSize == nil {
		return 0
	}
	return *a.MinCollectionSize
}

// GetMixingDepth returns the mixing buffer capacity or the default 5.
func (a *AnalysisConfig) GetMixingDepth() int {
	if a.MixingDepth == nil {
		return 5
	}
	return *a.MixingDepth
}

// GetSeed returns the pair randomization seed or the default 0.
func (a *AnalysisConfig) GetSeed() uint64 {
	if a.Seed == nil {
		return 0
	}
	return *a.Seed
}

// GetBins returns the axis bin count or def.
func (a *AxisConfig) GetBins(def int) int {
	if a == nil || a.Bins == nil {
		return def
	}
	return *a.Bins
}

// GetMin returns the axis lower edge or def.
func (a *AxisConfig) GetMin(def float64) float64 {
	if a == nil || a.Min == nil {
		return def
	}
	return *a.Min
}

// GetMax returns the axis upper edge or def.
func (a *AxisConfig) GetMax(def float64) float64 {
	if a == nil || a.Max == nil {
		return def
	}
	return *a.Max
}

// GetMonitor reports whether the event cut books monitors. Default true.
func (e *EventCutConfig) GetMonitor() bool {
	if e == nil || e.Monitor == nil {
		return true
	}
	return *e.Monitor
}

// GetType returns the particle cut type or the default "track".
func (p *ParticleCutConfig) GetType() string {
	if p.Type == nil || *p.Type == "" {
		return "track"
	}
	return *p.Type
}

// GetSpecies returns the species name or the default "pion".
func (p *ParticleCutConfig) GetSpecies() string {
	if p.Species == nil || *p.Species == "" {
		return "pion"
	}
	return *p.Species
}

// GetCharge returns the required charge or the default +1.
func (p *ParticleCutConfig) GetCharge() int {
	if p.Charge == nil {
		return 1
	}
	return *p.Charge
}

// GetMonitor reports whether the cut books monitors. Default true.
func (p *ParticleCutConfig) GetMonitor() bool {
	if p.Monitor == nil {
		return true
	}
	return *p.Monitor
}

// GetType returns the pair cut type or the default "basic".
func (p *PairCutConfig) GetType() string {
	if p == nil || p.Type == nil || *p.Type == "" {
		return "basic"
	}
	return *p.Type
}

// GetMonitor reports whether the pair cut books monitors. Default true.
func (p *PairCutConfig) GetMonitor() bool {
	if p == nil || p.Monitor == nil {
		return true
	}
	return *p.Monitor
}

// GetName returns the accumulator name or the type followed by i.
func (c *CorrFctnConfig) GetName(i int) string {
	if c.Name == nil || *c.Name == "" {
		return fmt.Sprintf("%s%d", c.Type, i)
	}
	return *c.Name
}

// GetBins returns the q bin count or the default 40.
func (c *CorrFctnConfig) GetBins() int {
	if c.Bins == nil {
		return 40
	}
	return *c.Bins
}

// GetQMin returns the lower q edge. Signed components (Bertsch-Pratt, YKP)
// default to a symmetric range, the others start at zero.
func (c *CorrFctnConfig) GetQMin() float64 {
	if c.QMin == nil {
		if c.Type == CorrFctnBP3D || c.Type == CorrFctnYKPQPar {
			return -c.GetQMax()
		}
		return 0
	}
	return *c.QMin
}

// GetQMax returns the upper q edge or the default 0.2 GeV/c.
func (c *CorrFctnConfig) GetQMax() float64 {
	if c.QMax == nil {
		return 0.2
	}
	return *c.QMax
}

// GetNormRange returns the normalization window or the upper quarter of the
// q range.
func (c *CorrFctnConfig) GetNormRange() (lo, hi float64) {
	qlo, qhi := c.GetQMin(), c.GetQMax()
	lo, hi = qlo+0.75*(qhi-qlo), qhi
	if c.NormLo != nil {
		lo = *c.NormLo
	}
	if c.NormHi != nil {
		hi = *c.NormHi
	}
	return lo, hi
}

// GetFrame returns the Bertsch-Pratt frame or the default "lcms".
func (c *CorrFctnConfig) GetFrame() string {
	if c.Frame == nil || *c.Frame == "" {
		return "lcms"
	}
	return *c.Frame
}

// GetKtBins returns the kT bin count or the default 1.
func (c *CorrFctnConfig) GetKtBins() int {
	if c.KtBins == nil {
		return 1
	}
	return *c.KtBins
}

// GetKtMin returns the lower kT edge or the default 0.
func (c *CorrFctnConfig) GetKtMin() float64 {
	if c.KtMin == nil {
		return 0
	}
	return *c.KtMin
}

// GetKtMax returns the upper kT edge or the default 10 GeV/c.
func (c *CorrFctnConfig) GetKtMax() float64 {
	if c.KtMax == nil {
		return 10
	}
	return *c.KtMax
}

// GetRPBins returns the reaction-plane bin count or the default 1.
func (c *CorrFctnConfig) GetRPBins() int {
	if c.RPBins == nil {
		return 1
	}
	return *c.RPBins
}

// GetRPMin returns the lower pair-angle edge or the default 0.
func (c *CorrFctnConfig) GetRPMin() float64 {
	if c.RPMin == nil {
		return 0
	}
	return *c.RPMin
}

// GetRPMax returns the upper pair-angle edge or the default 2π.
func (c *CorrFctnConfig) GetRPMax() float64 {
	if c.RPMax == nil {
		return 2 * math.Pi
	}
	return *c.RPMax
}
