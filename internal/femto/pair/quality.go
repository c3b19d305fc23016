package pair

import "math/bits"

const (
	rowMaskInner uint32 = 0xFFFFFF00 // pad rows 1-24 live in bits 8..31 of word 0
	rowMaskOuter uint32 = 0x1FFFFF   // pad rows 25-45 live in bits 0..20 of word 1
)

// Quality estimates track splitting from the TPC topology maps. Rows hit by
// exactly one track count +1, rows hit by both count -1, normalized by the
// summed hit count. Values near -0.5 indicate a split track.
func (p *Pair) Quality() float64 {
	if p.valid&cacheQuality == 0 {
		p.quality = p.topologyScore(true)
		p.valid |= cacheQuality
	}
	return p.quality
}

// Quality2 counts only rows hit by exactly one track.
func (p *Pair) Quality2() float64 {
	if p.valid&cacheQuality2 == 0 {
		p.quality2 = p.topologyScore(false)
		p.valid |= cacheQuality2
	}
	return p.quality2
}

func (p *Pair) topologyScore(penalizeShared bool) float64 {
	m1, m2 := p.p1.TopologyMap(), p.p2.TopologyMap()
	a0, a1 := m1[0]&rowMaskInner, m1[1]&rowMaskOuter
	b0, b1 := m2[0]&rowMaskInner, m2[1]&rowMaskOuter

	score := bits.OnesCount32(a0^b0) + bits.OnesCount32(a1^b1)
	if penalizeShared {
		score -= bits.OnesCount32(a0&b0) + bits.OnesCount32(a1&b1)
	}
	hits := p.p1.NHits() + p.p2.NHits()
	if hits == 0 {
		return 0
	}
	return float64(score) / float64(hits)
}
