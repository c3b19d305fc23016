package corrfctn

import (
	"fmt"

	"github.com/banshee-data/femto/internal/config"
	"github.com/banshee-data/femto/internal/femto/cut"
)

// FromConfig books the accumulator described by c. i numbers unnamed
// accumulators.
func FromConfig(c *config.CorrFctnConfig, i int) (CorrFctn, error) {
	name := c.GetName(i)
	bins, lo, hi := c.GetBins(), c.GetQMin(), c.GetQMax()
	normLo, normHi := c.GetNormRange()

	var cf CorrFctn
	var base *Base
	switch c.Type {
	case config.CorrFctnQInv, config.CorrFctnKStar, config.CorrFctnQInvRandomFlip, config.CorrFctnYKPQPar:
		var od *OneD
		switch c.Type {
		case config.CorrFctnKStar:
			od = NewKStar(name, bins, lo, hi)
		case config.CorrFctnQInvRandomFlip:
			od = NewQInvRandomFlip(name, bins, lo, hi)
		case config.CorrFctnYKPQPar:
			od = NewYKPQPar(name, bins, lo, hi)
		default:
			od = NewQInv(name, bins, lo, hi)
		}
		od.NormLo, od.NormHi = normLo, normHi
		cf, base = od, &od.Base
	case config.CorrFctnKtQInv:
		kq := NewKtQInv(name, bins, lo, hi, c.GetKtBins(), c.GetKtMin(), c.GetKtMax())
		kq.NormLo, kq.NormHi = normLo, normHi
		cf, base = kq, &kq.Base
	case config.CorrFctnBP3D:
		frame, ok := ParseFrame(c.GetFrame())
		if !ok {
			return nil, fmt.Errorf("corr_fctn %s: unknown frame %q", name, c.GetFrame())
		}
		bp := NewBertschPratt3D(name, frame, bins, lo, hi,
			c.GetKtBins(), c.GetKtMin(), c.GetKtMax(),
			c.GetRPBins(), c.GetRPMin(), c.GetRPMax())
		cf, base = bp, &bp.Base
	case config.CorrFctnLikeSignQInv:
		ls := NewLikeSignQInv(name, bins, lo, hi)
		ls.NormLo, ls.NormHi = normLo, normHi
		cf, base = ls, &ls.Base
	default:
		return nil, fmt.Errorf("corr_fctn %s: unknown type %q", name, c.Type)
	}

	if c.PairCut != nil {
		pc, err := cut.PairCutFromConfig(c.PairCut)
		if err != nil {
			return nil, fmt.Errorf("corr_fctn %s: %w", name, err)
		}
		base.PairCut = pc
	}
	return cf, nil
}
