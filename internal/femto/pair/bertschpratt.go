package pair

import "math"

func (p *Pair) cms() {
	if p.valid&cacheCMS != 0 {
		return
	}
	x1, y1, z1, t1 := p.p1.Px(), p.p1.Py(), p.p1.Pz(), p.p1.E()
	x2, y2, z2, t2 := p.p2.Px(), p.p2.Py(), p.p2.Pz(), p.p2.E()

	dx, dy, dz, dt := x1-x2, y1-y2, z1-z2, t1-t2
	xt, yt, zz, tt := x1+x2, y1+y2, z1+z2, t1+t2

	k1 := math.Sqrt(xt*xt + yt*yt)
	if k1 != 0 {
		p.qOutCMS = (dx*xt + dy*yt) / k1
		p.qSideCMS = 2 * (x2*y1 - x1*y2) / k1
	} else {
		p.qOutCMS, p.qSideCMS = 0, 0
	}

	beta := zz / tt
	gamma := 1 / math.Sqrt(1-beta*beta)
	p.qLongCMS = gamma * (dz - beta*dt)
	p.valid |= cacheCMS
}

// QOutCMS is the out component in the longitudinally co-moving frame.
func (p *Pair) QOutCMS() float64 {
	p.cms()
	return p.qOutCMS
}

// QSideCMS is the side component, perpendicular to the pair transverse momentum.
func (p *Pair) QSideCMS() float64 {
	p.cms()
	return p.qSideCMS
}

// QLongCMS is the long component, boosted to zero pair longitudinal momentum.
func (p *Pair) QLongCMS() float64 {
	p.cms()
	return p.qLongCMS
}

// QOutPF is the out component boosted into the pair rest frame.
func (p *Pair) QOutPF() float64 {
	if p.valid&cacheOutPF == 0 {
		dt := p.p1.E() - p.p2.E()
		tt := p.p1.E() + p.p2.E()
		xt := p.p1.Px() + p.p2.Px()
		yt := p.p1.Py() + p.p2.Py()
		bOut := math.Sqrt(xt*xt+yt*yt) / tt
		gOut := 1 / math.Sqrt(1-bOut*bOut)
		p.qOutPF = gOut * (p.QOutCMS() - bOut*dt)
		p.valid |= cacheOutPF
	}
	return p.qOutPF
}

func (p *Pair) QSidePF() float64 { return p.QSideCMS() }
func (p *Pair) QLongPF() float64 { return p.QLongCMS() }

// QLongBF is the long component in a frame moving with velocity beta along
// the beam.
func (p *Pair) QLongBF(beta float64) float64 {
	dz := p.p1.Pz() - p.p2.Pz()
	dt := p.p1.E() - p.p2.E()
	gamma := 1 / math.Sqrt(1-beta*beta)
	return gamma * (dz - beta*dt)
}

// boost applies a pure Lorentz boost with velocity (bx, by, bz).
func boost(e, x, y, z, bx, by, bz float64) (float64, float64, float64, float64) {
	b2 := bx*bx + by*by + bz*bz
	if b2 == 0 {
		return e, x, y, z
	}
	gamma := 1 / math.Sqrt(1-b2)
	bp := bx*x + by*y + bz*z
	g2 := (gamma - 1) / b2
	f := g2*bp + gamma*e
	return gamma * (e + bp), x + f*bx, y + f*by, z + f*bz
}

// ykp returns (qP, qT, q0) of the difference of the two four-vectors after
// boosting with beta, in random order.
func (p *Pair) ykp(bx, by, bz float64) (qP, qT, q0 float64) {
	e1, x1, y1, z1 := boost(p.p1.E(), p.p1.Px(), p.p1.Py(), p.p1.Pz(), bx, by, bz)
	e2, x2, y2, z2 := boost(p.p2.E(), p.p2.Px(), p.p2.Py(), p.p2.Pz(), bx, by, bz)
	de, dx, dy, dz := e1-e2, x1-x2, y1-y2, z1-z2
	if p.rng.Float64() <= 0.5 {
		de, dx, dy, dz = -de, -dx, -dy, -dz
	}
	return dz, math.Hypot(dx, dy), de
}

// QYKPCMS is the Yano-Koonin-Podgoretskii decomposition in the lab frame.
func (p *Pair) QYKPCMS() (qP, qT, q0 float64) {
	return p.ykp(0, 0, 0)
}

// QYKPLCMS is the Yano-Koonin-Podgoretskii decomposition in the frame where
// pz1 + pz2 = 0.
func (p *Pair) QYKPLCMS() (qP, qT, q0 float64) {
	p.sum()
	return p.ykp(0, 0, -p.sz/p.se)
}

// QYKPPF is the Yano-Koonin-Podgoretskii decomposition in the pair rest frame.
func (p *Pair) QYKPPF() (qP, qT, q0 float64) {
	p.sum()
	return p.ykp(-p.sx/p.se, -p.sy/p.se, -p.sz/p.se)
}
