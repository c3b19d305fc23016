package analysis

import (
	"github.com/banshee-data/femto/internal/femto"
	"github.com/banshee-data/femto/internal/femto/cut"
	"github.com/banshee-data/femto/internal/femto/event"
	"github.com/banshee-data/femto/internal/femto/mixing"
	"github.com/banshee-data/femto/internal/femto/particle"
)

type pairKind int

const (
	realPair pairKind = iota
	mixedPair
	likeSignPos
	likeSignNeg
)

// ProcessEvent runs one event through the pipeline. Cut failures, bin misses
// and small collections are counted, never returned.
func (a *Analysis) ProcessEvent(ev *event.Event) {
	buf, ok := a.locate(ev)
	if !ok {
		return
	}
	before := a.stats
	a.stats.EventsProcessed++
	a.eventBegin(ev)
	a.process(ev, buf)
	a.eventEnd(ev)
	a.pushMetrics(before)
}

func (a *Analysis) process(ev *event.Event, buf *mixing.Buffer) {
	a.pico = nil
	if !a.cfg.EventCut.Pass(ev) {
		a.cfg.EventCut.FillEventMonitor(ev, false)
		a.reject("event_cut")
		return
	}

	pico := particle.NewPicoEvent(a.life)
	pico.EventID, pico.RunNumber = ev.EventID, ev.RunNumber
	pico.First = fillCollection(a.cfg.FirstCut, ev)
	if !a.identical() {
		pico.Second = fillCollection(a.cfg.SecondCut, ev)
	}
	if femto.TraceEnabled() {
		femto.Tracef("[Analysis] %s: event %d collections %d/%d",
			a.cfg.Name, ev.EventID, len(pico.First), len(pico.Second))
	}

	passed := len(pico.First) >= a.minSize &&
		(a.identical() || len(pico.Second) >= a.minSize)
	a.cfg.EventCut.FillEventMonitor(ev, passed)
	if !passed {
		pico.Release()
		a.reject("size")
		return
	}
	a.stats.EventsPassed++
	a.pico = pico

	if a.identical() {
		a.pairsWithin(pico.First, true, realPair)
	} else {
		a.pairsAcross(pico.First, pico.Second, realPair)
	}
	if a.mode == driverLikeSign {
		a.pairsWithin(pico.First, false, likeSignPos)
		a.pairsWithin(pico.Second, false, likeSignNeg)
	}
	for stored := range buf.All() {
		if a.identical() {
			a.pairsAcross(pico.First, stored.First, mixedPair)
		} else {
			a.pairsAcross(pico.First, stored.Second, mixedPair)
			a.pairsAcross(stored.First, pico.Second, mixedPair)
		}
	}

	buf.Push(pico)
	a.pico = nil
}

func (a *Analysis) reject(reason string) {
	a.stats.EventsFailed++
	if a.metrics != nil {
		a.metrics.EventRejected(a.cfg.Name, reason)
	}
}

// fillCollection applies c to the detector collection selected by its kind.
// Every verdict goes to the cut's monitors, then the accepted collection does.
func fillCollection(c cut.ParticleCut, ev *event.Event) particle.Collection {
	var coll particle.Collection
	vtx := ev.PrimaryVertex
	m := c.Mass()
	switch c.Kind() {
	case particle.KindTrack:
		tc := c.(cut.TrackCut)
		for i := range ev.Tracks {
			t := &ev.Tracks[i]
			ok := tc.PassTrack(t)
			tc.FillTrackMonitor(t, ok)
			if ok {
				coll = append(coll, particle.FromTrack(t, m, vtx))
			}
		}
	case particle.KindV0:
		vc := c.(cut.V0Cut)
		for i := range ev.V0s {
			v := &ev.V0s[i]
			ok := vc.PassV0(v)
			vc.FillV0Monitor(v, ok)
			if ok {
				coll = append(coll, particle.FromV0(v, m, vtx))
			}
		}
	case particle.KindXi:
		xc := c.(cut.XiCut)
		for i := range ev.Xis {
			x := &ev.Xis[i]
			ok := xc.PassXi(x)
			xc.FillXiMonitor(x, ok)
			if ok {
				coll = append(coll, particle.FromXi(x, m, vtx))
			}
		}
	case particle.KindKink:
		kc := c.(cut.KinkCut)
		for i := range ev.Kinks {
			k := &ev.Kinks[i]
			ok := kc.PassKink(k)
			kc.FillKinkMonitor(k, ok)
			if ok {
				coll = append(coll, particle.FromKink(k, m, vtx))
			}
		}
	}
	c.FillCollectionMonitor(ev, coll)
	return coll
}

// swapSeed is the initial orientation of the identical real-pair loop. It
// alternates from event to event so neither particle slot is systematically
// the first.
func (a *Analysis) swapSeed() bool { return a.stats.EventsProcessed%2 == 1 }

// pairsWithin visits every i<j of c. With swap the orientation alternates
// on each pair, starting from swapSeed.
func (a *Analysis) pairsWithin(c particle.Collection, swap bool, kind pairKind) {
	flip := swap && a.swapSeed()
	for i := 0; i < len(c)-1; i++ {
		for j := i + 1; j < len(c); j++ {
			if flip {
				a.pair.Set(c.At(j), c.At(i))
			} else {
				a.pair.Set(c.At(i), c.At(j))
			}
			if swap {
				flip = !flip
			}
			a.evaluate(kind)
		}
	}
}

// pairsAcross visits outer x inner. The outer particle is always track 1,
// so mixed pairs keep the current event's particle first.
func (a *Analysis) pairsAcross(outer, inner particle.Collection, kind pairKind) {
	for i := range outer {
		for j := range inner {
			a.pair.Set(outer.At(i), inner.At(j))
			a.evaluate(kind)
		}
	}
}

func (a *Analysis) evaluate(kind pairKind) {
	p := a.pair
	ok := a.cfg.PairCut.Pass(p)
	a.cfg.PairCut.FillPairMonitor(p, ok)
	switch kind {
	case realPair:
		a.stats.RealPairs++
		if ok {
			a.stats.RealPairsPassed++
			for _, c := range a.corrFctns {
				c.AddRealPair(p)
			}
		}
	case mixedPair:
		a.stats.MixedPairs++
		if ok {
			a.stats.MixedPairsPassed++
			for _, c := range a.corrFctns {
				c.AddMixedPair(p)
			}
		}
	case likeSignPos:
		a.stats.LikeSignPos++
		if ok {
			a.stats.LikeSignPosPassed++
			for _, c := range a.likeSign {
				c.AddLikeSignPositivePair(p)
			}
		}
	case likeSignNeg:
		a.stats.LikeSignNeg++
		if ok {
			a.stats.LikeSignNegPassed++
			for _, c := range a.likeSign {
				c.AddLikeSignNegativePair(p)
			}
		}
	}
}

// hooks lists every participant of the per-event notifications, each once.
func (a *Analysis) hooks() []cut.Hooks {
	h := []cut.Hooks{a.cfg.EventCut, a.cfg.FirstCut}
	if !a.identical() {
		h = append(h, a.cfg.SecondCut)
	}
	return append(h, a.cfg.PairCut)
}

func (a *Analysis) eventBegin(ev *event.Event) {
	for _, h := range a.hooks() {
		h.EventBegin(ev)
	}
	for _, c := range a.corrFctns {
		c.EventBegin(ev)
	}
}

func (a *Analysis) eventEnd(ev *event.Event) {
	for _, h := range a.hooks() {
		h.EventEnd(ev)
	}
	for _, c := range a.corrFctns {
		c.EventEnd(ev)
	}
}

func (a *Analysis) pushMetrics(before Stats) {
	if a.metrics == nil {
		return
	}
	name := a.cfg.Name
	a.metrics.EventProcessed(name)
	if a.stats.EventsPassed > before.EventsPassed {
		a.metrics.EventAccepted(name)
	}
	if n := a.stats.RealPairsPassed - before.RealPairsPassed; n > 0 {
		a.metrics.PairsAccepted(name, "real", n)
	}
	if n := a.stats.MixedPairsPassed - before.MixedPairsPassed; n > 0 {
		a.metrics.PairsAccepted(name, "mixed", n)
	}
	if n := (a.stats.LikeSignPosPassed + a.stats.LikeSignNegPassed) -
		(before.LikeSignPosPassed + before.LikeSignNegPassed); n > 0 {
		a.metrics.PairsAccepted(name, "like_sign", n)
	}
}
