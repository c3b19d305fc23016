package mixing

import (
	"fmt"
	"math"
)

// Axis is one binning dimension over [Min, Max) split into Bins equal bins.
type Axis struct {
	Name string
	Bins int
	Min  float64
	Max  float64
}

// Unbounded is a single bin spanning the whole real line.
func Unbounded() Axis {
	return Axis{Name: "all", Bins: 1, Min: math.Inf(-1), Max: math.Inf(1)}
}

func (a Axis) validate() error {
	if a.Bins < 1 {
		return fmt.Errorf("%w %q: bins must be at least 1, got %d", ErrInvalidAxis, a.Name, a.Bins)
	}
	if math.IsNaN(a.Min) || math.IsNaN(a.Max) || a.Min >= a.Max {
		return fmt.Errorf("%w %q: min %g must be below max %g", ErrInvalidAxis, a.Name, a.Min, a.Max)
	}
	return nil
}

func (a Axis) unbounded() bool {
	return math.IsInf(a.Min, -1) && math.IsInf(a.Max, 1)
}

// Bin maps v to floor((v-Min)/step). ok is false outside [0, Bins). An
// unbounded axis maps every value to bin 0.
func (a Axis) Bin(v float64) (int, bool) {
	if a.unbounded() {
		return 0, !math.IsNaN(v)
	}
	step := (a.Max - a.Min) / float64(a.Bins)
	f := math.Floor((v - a.Min) / step)
	if math.IsNaN(f) || f < 0 || f >= float64(a.Bins) {
		return 0, false
	}
	return int(f), true
}

// Miss classifies a value the axis rejected.
type Miss int

const (
	Hit Miss = iota
	Underflow
	Overflow
)

// Classify reports whether v falls below, inside or above the axis range.
func (a Axis) Classify(v float64) Miss {
	if _, ok := a.Bin(v); ok {
		return Hit
	}
	if v < a.Min || math.IsNaN(v) {
		return Underflow
	}
	return Overflow
}

// Hideaway is a grid of independent buffers selected by one to three
// continuous keys. The first axis varies fastest in the flat index.
type Hideaway struct {
	axes    [3]Axis
	nAxes   int
	buffers []*Buffer
}

// NewHideaway builds one buffer of the given capacity per grid cell.
// Missing axes are unbounded.
func NewHideaway(capacity int, axes ...Axis) (*Hideaway, error) {
	if len(axes) < 1 || len(axes) > 3 {
		return nil, fmt.Errorf("%w: need 1 to 3 axes, got %d", ErrInvalidAxis, len(axes))
	}
	h := &Hideaway{nAxes: len(axes)}
	cells := 1
	for i := range h.axes {
		if i < len(axes) {
			if err := axes[i].validate(); err != nil {
				return nil, err
			}
			h.axes[i] = axes[i]
		} else {
			h.axes[i] = Unbounded()
		}
		cells *= h.axes[i].Bins
	}
	h.buffers = make([]*Buffer, cells)
	for i := range h.buffers {
		b, err := NewBuffer(capacity)
		if err != nil {
			return nil, err
		}
		h.buffers[i] = b
	}
	return h, nil
}

// Axes returns the configured axes, excluding the implicit unbounded ones.
func (h *Hideaway) Axes() []Axis {
	return append([]Axis(nil), h.axes[:h.nAxes]...)
}

// Index returns the flat buffer index for the key, or false when any axis
// rejects its value.
func (h *Hideaway) Index(x, y, z float64) (int, bool) {
	ix, ok := h.axes[0].Bin(x)
	if !ok {
		return 0, false
	}
	iy, ok := h.axes[1].Bin(y)
	if !ok {
		return 0, false
	}
	iz, ok := h.axes[2].Bin(z)
	if !ok {
		return 0, false
	}
	nx, ny := h.axes[0].Bins, h.axes[1].Bins
	return ix + nx*(iy+ny*iz), true
}

// Lookup returns the buffer for the key.
func (h *Hideaway) Lookup(x, y, z float64) (*Buffer, bool) {
	idx, ok := h.Index(x, y, z)
	if !ok {
		return nil, false
	}
	return h.buffers[idx], true
}

// Len is the number of buffers.
func (h *Hideaway) Len() int { return len(h.buffers) }

// Buffer returns the buffer at a flat index.
func (h *Hideaway) Buffer(i int) *Buffer { return h.buffers[i] }

// Stored is the total number of events held across all buffers.
func (h *Hideaway) Stored() int {
	n := 0
	for _, b := range h.buffers {
		n += b.Len()
	}
	return n
}

// Drain releases every stored event in every buffer.
func (h *Hideaway) Drain() {
	for _, b := range h.buffers {
		b.Drain()
	}
}
