package hist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestH1FillAndIntegral(t *testing.T) {
	t.Parallel()
	h := NewH1("qinv_num", "numerator", 10, 0, 1)
	h.Fill(0.05, 1)
	h.Fill(0.15, 2)
	h.Fill(0.95, 1)
	h.Fill(2.0, 1) // overflow

	assert.Equal(t, "qinv_num", h.Name())
	assert.Equal(t, 1, h.Dims())
	assert.Equal(t, 10, h.Len())
	assert.InDelta(t, 1.0, h.Value(0), 1e-12)
	assert.InDelta(t, 2.0, h.Value(1), 1e-12)
	assert.InDelta(t, 0.05, h.Center(0), 1e-12)
	assert.InDelta(t, 3.0, h.Integral(0, 0.2), 1e-12)
	assert.InDelta(t, 4.0, h.Integral(0, 1), 1e-12)

	pts := h.Points()
	require.Len(t, pts, 10)
	assert.Equal(t, int64(1), pts[9].Entries)
	assert.InDelta(t, 2.0, pts[1].Err, 1e-12)

	e := h.Empty()
	assert.Equal(t, h.Len(), e.Len())
	assert.Zero(t, e.Integral(0, 1))
}

func TestDivideNormalizes(t *testing.T) {
	t.Parallel()
	num := NewH1("num", "", 4, 0, 4)
	den := NewH1("den", "", 4, 0, 4)
	for i, n := range []float64{10, 20, 20, 20} {
		num.Fill(float64(i)+0.5, n)
	}
	for i, d := range []float64{20, 40, 40, 0} {
		den.Fill(float64(i)+0.5, d)
	}

	r := Divide("cf", "ratio", num, den, 1, 3)
	assert.InDelta(t, 2.0, r.Scale, 1e-12)
	assert.InDelta(t, 1.0, r.Y[0], 1e-12)
	assert.InDelta(t, 1.0, r.Y[1], 1e-12)
	assert.Zero(t, r.Y[3], "empty denominator gives zero")
	assert.Greater(t, r.Err[1], 0.0)
	assert.InDelta(t, 1.0, r.Mean(), 1e-12)
	assert.Len(t, r.Points(), 4)
}

func TestDivideEmptyWindowKeepsUnitScale(t *testing.T) {
	t.Parallel()
	num := NewH1("num", "", 2, 0, 2)
	den := NewH1("den", "", 2, 0, 2)
	r := Divide("cf", "", num, den, 0, 2)
	assert.Equal(t, 1.0, r.Scale)
	assert.Zero(t, r.Mean())
}

func TestH3(t *testing.T) {
	t.Parallel()
	h := NewH3("bp", "out side long", 4, -1, 1)
	h.Fill(-0.9, 0.1, 0.6, 1)
	h.Fill(-0.9, 0.1, 0.6, 2)
	h.Fill(0.9, -0.9, -0.1, 1)
	h.Fill(1.5, 0, 0, 1)

	assert.Equal(t, [3]int{4, 4, 4}, h.Bins())
	assert.InDelta(t, 3.0, h.At(0, 2, 3), 1e-12)
	assert.InDelta(t, 1.0, h.At(3, 0, 1), 1e-12)
	assert.InDelta(t, 4.0, h.SumW(), 1e-12)
	assert.Equal(t, int64(3), h.Entries())
	assert.Equal(t, int64(1), h.Outside())
	assert.Equal(t, []float64{3, 0, 0, 1}, h.Projection(0))
	assert.Equal(t, []float64{0, 1, 0, 3}, h.Projection(2))

	pts := h.Points()
	require.Len(t, pts, 64)
	p := pts[0+4*(2+4*3)]
	assert.InDelta(t, -0.75, p.X, 1e-12)
	assert.InDelta(t, 0.25, p.Y, 1e-12)
	assert.InDelta(t, 0.75, p.Z, 1e-12)
	assert.InDelta(t, 3.0, p.Value, 1e-12)

	assert.Zero(t, h.Empty().SumW())
}
