package cut

import (
	"fmt"
	"math"
)

// Range is an inclusive [Lo, Hi] window.
type Range struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// All accepts every finite value.
func All() Range { return Range{Lo: math.Inf(-1), Hi: math.Inf(1)} }

func (r Range) Contains(v float64) bool { return r.Lo <= v && v <= r.Hi }

// Outside reports whether v lies at or beyond either edge, the exclusion
// window used for competing PID hypotheses.
func (r Range) Outside(v float64) bool { return v <= r.Lo || v >= r.Hi }

func (r Range) String() string { return fmt.Sprintf("[%g,%g]", r.Lo, r.Hi) }

// IntRange is an inclusive integer window.
type IntRange struct {
	Lo int `json:"lo" yaml:"lo"`
	Hi int `json:"hi" yaml:"hi"`
}

func (r IntRange) Contains(v int) bool { return r.Lo <= v && v <= r.Hi }

func (r IntRange) String() string { return fmt.Sprintf("[%d,%d]", r.Lo, r.Hi) }
