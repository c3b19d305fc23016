// Package event holds the detector-level input consumed by the analysis
// drivers: one collision with its primary vertex, scalar bulk properties and
// the reconstructed track, V0, Xi and kink collections.
package event

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// NoEventPlane is the event-plane angle carried by events without a
// reconstructed event plane. Any angle below NoEventPlaneThreshold is treated
// the same way.
const (
	NoEventPlane          = -999.0
	NoEventPlaneThreshold = -990.0
)

// Event is one recorded collision. Drivers treat it as read-only.
type Event struct {
	RunNumber       int      `json:"run"`
	EventID         int      `json:"event"`
	RefMult         int      `json:"ref_mult"`
	Cent9           int      `json:"cent9"`
	PrimaryVertex   r3.Vec   `json:"vertex"`
	VpdVz           float64  `json:"vpd_vz"`
	EventPlaneAngle float64  `json:"event_plane"`
	MagneticField   float64  `json:"bfield"`
	Sphericity      float64  `json:"sphericity"`
	BTofTrayMult    int      `json:"btof_tray_mult"`
	BTofMatched     int      `json:"btof_matched"`
	TriggerIDs      []uint32 `json:"triggers,omitempty"`

	Tracks []Track `json:"tracks,omitempty"`
	V0s    []V0    `json:"v0s,omitempty"`
	Xis    []Xi    `json:"xis,omitempty"`
	Kinks  []Kink  `json:"kinks,omitempty"`
}

// HasTrigger reports whether id is among the fired trigger ids.
func (e *Event) HasTrigger(id uint32) bool {
	return slices.Contains(e.TriggerIDs, id)
}

// HasEventPlane reports whether the event carries a reconstructed event plane.
func (e *Event) HasEventPlane() bool {
	return e.EventPlaneAngle >= NoEventPlaneThreshold
}

// VertexR returns the transverse distance of the primary vertex from (x0, y0).
func (e *Event) VertexR(x0, y0 float64) float64 {
	return math.Hypot(e.PrimaryVertex.X-x0, e.PrimaryVertex.Y-y0)
}
