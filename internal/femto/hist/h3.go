package hist

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// H3 is a fixed-binning three-dimensional histogram stored as a flat array,
// x fastest. Out-of-range fills are counted but not stored.
type H3 struct {
	name, title string
	n           [3]int
	lo, width   [3]float64
	sumw        []float64
	sumw2       []float64
	entries     []int64
	outside     int64
}

// NewH3 books n bins over [lo, hi) on every axis.
func NewH3(name, title string, n int, lo, hi float64) *H3 {
	return NewH3Axes(name, title, [3]int{n, n, n}, [3]float64{lo, lo, lo}, [3]float64{hi, hi, hi})
}

// NewH3Axes books independent binning per axis.
func NewH3Axes(name, title string, n [3]int, lo, hi [3]float64) *H3 {
	h := &H3{name: name, title: title, n: n, lo: lo}
	for i := range 3 {
		h.width[i] = (hi[i] - lo[i]) / float64(n[i])
	}
	cells := n[0] * n[1] * n[2]
	h.sumw = make([]float64, cells)
	h.sumw2 = make([]float64, cells)
	h.entries = make([]int64, cells)
	return h
}

func (h *H3) Name() string  { return h.name }
func (h *H3) Title() string { return h.title }
func (h *H3) Dims() int     { return 3 }

func (h *H3) axisBin(axis int, v float64) (int, bool) {
	f := math.Floor((v - h.lo[axis]) / h.width[axis])
	if !(f >= 0 && f < float64(h.n[axis])) {
		return 0, false
	}
	return int(f), true
}

// Fill adds weight w at (x, y, z).
func (h *H3) Fill(x, y, z, w float64) {
	ix, okx := h.axisBin(0, x)
	iy, oky := h.axisBin(1, y)
	iz, okz := h.axisBin(2, z)
	if !okx || !oky || !okz {
		h.outside++
		return
	}
	i := ix + h.n[0]*(iy+h.n[1]*iz)
	h.sumw[i] += w
	h.sumw2[i] += w * w
	h.entries[i]++
}

// At returns the content of bin (ix, iy, iz).
func (h *H3) At(ix, iy, iz int) float64 {
	return h.sumw[ix+h.n[0]*(iy+h.n[1]*iz)]
}

// Bins returns the number of bins per axis.
func (h *H3) Bins() [3]int { return h.n }

// SumW is the total in-range weight.
func (h *H3) SumW() float64 { return floats.Sum(h.sumw) }

// Outside counts fills that fell off the grid.
func (h *H3) Outside() int64 { return h.outside }

// Entries is the number of in-range fills.
func (h *H3) Entries() int64 {
	var n int64
	for _, e := range h.entries {
		n += e
	}
	return n
}

// Empty returns a new histogram with the same binning and no entries.
func (h *H3) Empty() *H3 {
	var hi [3]float64
	for i := range 3 {
		hi[i] = h.lo[i] + h.width[i]*float64(h.n[i])
	}
	return NewH3Axes(h.name, h.title, h.n, h.lo, hi)
}

func (h *H3) center(axis, i int) float64 {
	return h.lo[axis] + (float64(i)+0.5)*h.width[axis]
}

func (h *H3) Points() []Point {
	pts := make([]Point, 0, len(h.sumw))
	for iz := range h.n[2] {
		for iy := range h.n[1] {
			for ix := range h.n[0] {
				i := ix + h.n[0]*(iy+h.n[1]*iz)
				pts = append(pts, Point{
					Index:   i,
					X:       h.center(0, ix),
					Y:       h.center(1, iy),
					Z:       h.center(2, iz),
					Value:   h.sumw[i],
					Err:     math.Sqrt(h.sumw2[i]),
					Entries: h.entries[i],
				})
			}
		}
	}
	return pts
}

// Projection sums the grid onto one axis.
func (h *H3) Projection(axis int) []float64 {
	out := make([]float64, h.n[axis])
	for iz := range h.n[2] {
		for iy := range h.n[1] {
			for ix := range h.n[0] {
				idx := [3]int{ix, iy, iz}
				out[idx[axis]] += h.sumw[ix+h.n[0]*(iy+h.n[1]*iz)]
			}
		}
	}
	return out
}
