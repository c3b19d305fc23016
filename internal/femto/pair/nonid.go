package pair

import "math"

func restMass(e, px, py, pz float64) float64 {
	m2 := e*e - px*px - py*py - pz*pz
	if m2 > 0 {
		return math.Sqrt(m2)
	}
	return 0
}

// nonID computes k* and its out/side/long projections for particles of
// possibly different mass.
func (p *Pair) nonID() {
	if p.valid&cacheNonID != 0 {
		return
	}
	px1, py1, pz1, e1 := p.p1.Px(), p.p1.Py(), p.p1.Pz(), p.p1.E()
	px2, py2, pz2, e2 := p.p2.Px(), p.p2.Py(), p.p2.Pz(), p.p2.E()
	m1 := restMass(e1, px1, py1, pz1)
	m2 := restMass(e2, px2, py2, pz2)

	sx, sy, sz, se := px1+px2, py1+py2, pz1+pz2, e1+e2

	ptrans := sx*sx + sy*sy
	mtrans := se*se - sz*sz
	pinv := math.Sqrt(mtrans - ptrans)
	mtrans = math.Sqrt(mtrans)
	ptrans = math.Sqrt(ptrans)

	de, dx, dy, dz := e1-e2, px1-px2, py1-py2, pz1-pz2
	qinvL := de*de - dx*dx - dy*dy - dz*dz

	q := (m1*m1 - m2*m2) / pinv
	q = math.Sqrt(q*q - qinvL)
	p.kStar = q / 2

	// LCMS
	beta := sz / se
	gamma := se / mtrans
	pz1L := gamma * (pz1 - beta*e1)
	e1L := gamma * (e1 - beta*pz1)
	p.kLong = pz1L

	var px1R float64
	if ptrans != 0 {
		px1R = (px1*sx + py1*sy) / ptrans
		p.kSide = (-px1*sy + py1*sx) / ptrans
	} else {
		px1R = 0
		p.kSide = 0
	}

	// LCMS to pair rest frame
	beta = ptrans / mtrans
	gamma = mtrans / pinv
	p.kOut = gamma * (px1R - beta*e1L)

	norm := math.Sqrt(ptrans*ptrans + sz*sz)
	if p.kStar != 0 && norm != 0 {
		p.cvk = (p.kOut*ptrans + p.kLong*sz) / p.kStar / norm
	} else {
		p.cvk = 0
	}
	p.valid |= cacheNonID
}

// KStar is the momentum of either particle in the pair rest frame.
func (p *Pair) KStar() float64 {
	p.nonID()
	return p.kStar
}

func (p *Pair) KStarOut() float64 {
	p.nonID()
	return p.kOut
}

func (p *Pair) KStarSide() float64 {
	p.nonID()
	return p.kSide
}

func (p *Pair) KStarLong() float64 {
	p.nonID()
	return p.kLong
}

// CVK is the cosine between k* and the pair velocity.
func (p *Pair) CVK() float64 {
	p.nonID()
	return p.cvk
}

// flippedKStar boosts the first particle, with its three-momentum reversed,
// into the rest frame of the flipped pair.
func (p *Pair) flippedKStar() (kx, ky, kz, gbx, gby, gbz, gamma float64) {
	x1, y1, z1, e1 := -p.p1.Px(), -p.p1.Py(), -p.p1.Pz(), p.p1.E()
	sx, sy, sz := x1+p.p2.Px(), y1+p.p2.Py(), z1+p.p2.Pz()
	se := e1 + p.p2.E()
	m := signedMass(se, sx, sy, sz)

	gbx, gby, gbz = sx/m, sy/m, sz/m
	gamma = se / m
	gb2 := gbx*gbx + gby*gby + gbz*gbz
	var lx, ly, lz float64
	if gb2 != 0 {
		proj := (x1*gbx + y1*gby + z1*gbz) / gb2
		lx, ly, lz = proj*gbx, proj*gby, proj*gbz
	}

	kx = x1 + (gamma-1)*lx - e1*gbx
	ky = y1 + (gamma-1)*ly - e1*gby
	kz = z1 + (gamma-1)*lz - e1*gbz
	return kx, ky, kz, gbx, gby, gbz, gamma
}

// KStarFlipped is k* with the first particle's three-momentum reversed.
func (p *Pair) KStarFlipped() float64 {
	kx, ky, kz, _, _, _, _ := p.flippedKStar()
	return math.Sqrt(kx*kx + ky*ky + kz*kz)
}

// CVKFlipped is the velocity projection of the flipped k*.
func (p *Pair) CVKFlipped() float64 {
	kx, ky, kz, gbx, gby, gbz, gamma := p.flippedKStar()
	return (gbx*kx + gby*ky + gbz*kz) / gamma
}

func (p *Pair) qInvWith(x1, y1, z1, x2, y2, z2 float64) float64 {
	return -signedMass(p.p1.E()-p.p2.E(), x1-x2, y1-y2, z1-z2)
}

// QInvFlippedXY is qInv with the transverse momentum of the first particle
// reversed.
func (p *Pair) QInvFlippedXY() float64 {
	return p.qInvWith(-p.p1.Px(), -p.p1.Py(), p.p1.Pz(), p.p2.Px(), p.p2.Py(), p.p2.Pz())
}

// QInvFlippedXYZ is qInv with the full three-momentum of the first particle
// reversed.
func (p *Pair) QInvFlippedXYZ() float64 {
	return p.qInvWith(-p.p1.Px(), -p.p1.Py(), -p.p1.Pz(), p.p2.Px(), p.p2.Py(), p.p2.Pz())
}

// QInvRandomFlippedXY reverses the transverse momentum of a randomly chosen
// particle.
func (p *Pair) QInvRandomFlippedXY() float64 {
	x1, y1, z1 := p.p1.Px(), p.p1.Py(), p.p1.Pz()
	x2, y2, z2 := p.p2.Px(), p.p2.Py(), p.p2.Pz()
	if p.rng.Float64() > 0.5 {
		x1, y1 = -x1, -y1
	} else {
		x2, y2 = -x2, -y2
	}
	return p.qInvWith(x1, y1, z1, x2, y2, z2)
}

// QInvRandomFlippedXYZ reverses the three-momentum of a randomly chosen
// particle.
func (p *Pair) QInvRandomFlippedXYZ() float64 {
	x1, y1, z1 := p.p1.Px(), p.p1.Py(), p.p1.Pz()
	x2, y2, z2 := p.p2.Px(), p.p2.Py(), p.p2.Pz()
	if p.rng.Float64() > 0.5 {
		x1, y1, z1 = -x1, -y1, -z1
	} else {
		x2, y2, z2 = -x2, -y2, -z2
	}
	return p.qInvWith(x1, y1, z1, x2, y2, z2)
}
