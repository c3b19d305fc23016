package event

import "gonum.org/v1/gonum/spatial/r3"

// V0 is a neutral two-body decay candidate.
type V0 struct {
	ID           int       `json:"id"`
	Momentum     r3.Vec    `json:"mom"`
	DecayVertex  r3.Vec    `json:"decay_vertex"`
	DCADaughters float64   `json:"dca_daughters"`
	DCAToPrimary float64   `json:"dca_primary"`
	PosTrackID   int       `json:"pos_id"`
	NegTrackID   int       `json:"neg_id"`
	TopologyMap  [2]uint32 `json:"topology"`
	NHits        int       `json:"nhits"`
}

// DecayLength is the distance from the primary vertex pv to the decay vertex.
func (v *V0) DecayLength(pv r3.Vec) float64 {
	return r3.Norm(r3.Sub(v.DecayVertex, pv))
}

// Xi is a charged cascade decay candidate.
type Xi struct {
	ID             int       `json:"id"`
	Charge         int       `json:"charge"`
	Momentum       r3.Vec    `json:"mom"`
	DecayVertex    r3.Vec    `json:"decay_vertex"`
	DCAXiDaughters float64   `json:"dca_daughters"`
	DCAXiToPrimary float64   `json:"dca_primary"`
	BachelorID     int       `json:"bachelor_id"`
	TopologyMap    [2]uint32 `json:"topology"`
	NHits          int       `json:"nhits"`
}

// Kink is a charged track that decays in flight into one charged daughter.
type Kink struct {
	ID               int       `json:"id"`
	ParentCharge     int       `json:"charge"`
	ParentMomentum   r3.Vec    `json:"parent_mom"`
	DaughterMomentum r3.Vec    `json:"daughter_mom"`
	DecayAngle       float64   `json:"decay_angle"`
	ParentTrackID    int       `json:"parent_id"`
	TopologyMap      [2]uint32 `json:"topology"`
	NHits            int       `json:"nhits"`
}
