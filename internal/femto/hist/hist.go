// Package hist provides the histogram outputs filled by correlation functions
// and cut monitors. One-dimensional histograms are go-hep hbook histograms;
// three-dimensional ones are flat grids since hbook has no 3-D type.
package hist

import (
	"math"

	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/floats"
)

// Point is one flattened bin of an output.
type Point struct {
	Index   int
	X, Y, Z float64
	Value   float64
	Err     float64
	Entries int64
}

// Output is anything that ends up in the run's output list.
type Output interface {
	Name() string
	Title() string
	Dims() int
	Points() []Point
}

// H1 is a named hbook.H1D.
type H1 struct {
	name  string
	title string
	h     *hbook.H1D
}

// NewH1 books a histogram of n bins over [lo, hi).
func NewH1(name, title string, n int, lo, hi float64) *H1 {
	h := hbook.NewH1D(n, lo, hi)
	h.Annotation()["name"] = name
	h.Annotation()["title"] = title
	return &H1{name: name, title: title, h: h}
}

func (h *H1) Name() string  { return h.name }
func (h *H1) Title() string { return h.title }
func (h *H1) Dims() int     { return 1 }

// Fill adds weight w at x. Values outside the range land in the hbook
// under/overflow bins.
func (h *H1) Fill(x, w float64) { h.h.Fill(x, w) }

// Hist exposes the underlying hbook histogram.
func (h *H1) Hist() *hbook.H1D { return h.h }

func (h *H1) Len() int            { return h.h.Len() }
func (h *H1) XMin() float64       { return h.h.XMin() }
func (h *H1) XMax() float64       { return h.h.XMax() }
func (h *H1) Entries() int64      { return h.h.Entries() }
func (h *H1) Value(i int) float64 { return h.h.Binning.Bins[i].SumW() }
func (h *H1) Center(i int) float64 {
	return h.h.Binning.Bins[i].XMid()
}

// Values returns the in-range bin contents.
func (h *H1) Values() []float64 {
	out := make([]float64, h.Len())
	for i := range out {
		out[i] = h.Value(i)
	}
	return out
}

// Integral sums the bins whose centres lie in [lo, hi].
func (h *H1) Integral(lo, hi float64) float64 {
	var sum float64
	for i := range h.Len() {
		if c := h.Center(i); c >= lo && c <= hi {
			sum += h.Value(i)
		}
	}
	return sum
}

// Empty returns a new histogram with the same binning and no entries.
func (h *H1) Empty() *H1 {
	return NewH1(h.name, h.title, h.Len(), h.XMin(), h.XMax())
}

func (h *H1) Points() []Point {
	pts := make([]Point, h.Len())
	for i := range pts {
		b := &h.h.Binning.Bins[i]
		pts[i] = Point{
			Index:   i,
			X:       b.XMid(),
			Value:   b.SumW(),
			Err:     math.Sqrt(b.SumW2()),
			Entries: b.Entries(),
		}
	}
	return pts
}

// Ratio is a derived numerator/denominator curve with propagated errors.
type Ratio struct {
	name  string
	title string
	Scale float64
	X     []float64
	Y     []float64
	Err   []float64
}

// Divide builds num/den scaled so that the ratio is one in [normLo, normHi].
// Bins with an empty denominator get a zero ratio. A normalization window
// without entries leaves the scale at one.
func Divide(name, title string, num, den *H1, normLo, normHi float64) *Ratio {
	r := &Ratio{name: name, title: title, Scale: 1}
	numV, denV := num.Values(), den.Values()
	nInt, dInt := num.Integral(normLo, normHi), den.Integral(normLo, normHi)
	if nInt > 0 && dInt > 0 {
		r.Scale = dInt / nInt
	}
	r.X = make([]float64, len(numV))
	r.Y = make([]float64, len(numV))
	r.Err = make([]float64, len(numV))
	for i := range numV {
		r.X[i] = num.Center(i)
		if denV[i] == 0 {
			continue
		}
		r.Y[i] = r.Scale * numV[i] / denV[i]
		if numV[i] > 0 {
			r.Err[i] = r.Y[i] * math.Sqrt(1/numV[i]+1/denV[i])
		}
	}
	return r
}

func (r *Ratio) Name() string  { return r.name }
func (r *Ratio) Title() string { return r.title }
func (r *Ratio) Dims() int     { return 1 }

// Mean is the average ratio over non-empty bins.
func (r *Ratio) Mean() float64 {
	var ys []float64
	for _, y := range r.Y {
		if y != 0 {
			ys = append(ys, y)
		}
	}
	if len(ys) == 0 {
		return 0
	}
	return floats.Sum(ys) / float64(len(ys))
}

func (r *Ratio) Points() []Point {
	pts := make([]Point, len(r.X))
	for i := range pts {
		pts[i] = Point{Index: i, X: r.X[i], Value: r.Y[i], Err: r.Err[i]}
	}
	return pts
}
