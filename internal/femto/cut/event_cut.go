package cut

import (
	"fmt"
	"math"
	"slices"

	"github.com/banshee-data/femto/internal/femto/event"
)

// BasicEventCut selects events on bulk properties, vertex position, trigger
// and run quality. All windows are inclusive.
type BasicEventCut struct {
	Base

	RefMult      IntRange
	VertexZ      Range
	VpdVzDiff    Range
	VertexR      Range
	VertexXShift float64
	VertexYShift float64
	Sphericity   Range
	BTofTrayMult IntRange
	BTofMatched  IntRange
	Cent9        IntRange
	EventPlane   Range
	Triggers     []uint32
	BadRuns      BadRunList
}

// NewBasicEventCut returns a cut with permissive defaults and a vertex-z
// window of [-100, 100].
func NewBasicEventCut() *BasicEventCut {
	return &BasicEventCut{
		RefMult:      IntRange{0, math.MaxUint16},
		VertexZ:      Range{-100, 100},
		VpdVzDiff:    Range{-1000, 1000},
		VertexR:      Range{-1, 3},
		Sphericity:   Range{-10, 10},
		BTofTrayMult: IntRange{0, math.MaxUint16},
		BTofMatched:  IntRange{0, math.MaxUint16},
		Cent9:        IntRange{-20, 20},
		EventPlane:   Range{-1000, 1000},
	}
}

func (c *BasicEventCut) passTrigger(ev *event.Event) bool {
	if len(c.Triggers) == 0 {
		return true
	}
	for _, id := range c.Triggers {
		if ev.HasTrigger(id) {
			return true
		}
	}
	return false
}

// Pass applies every window and counts the verdict. Events whose run is in
// BadRuns are rejected.
func (c *BasicEventCut) Pass(ev *event.Event) bool {
	vz := ev.PrimaryVertex.Z
	ok := c.RefMult.Contains(ev.RefMult) &&
		c.VertexZ.Contains(vz) &&
		c.VpdVzDiff.Contains(ev.VpdVz-vz) &&
		c.VertexR.Contains(ev.VertexR(c.VertexXShift, c.VertexYShift)) &&
		c.Sphericity.Contains(ev.Sphericity) &&
		c.BTofTrayMult.Contains(ev.BTofTrayMult) &&
		c.BTofMatched.Contains(ev.BTofMatched) &&
		c.Cent9.Contains(ev.Cent9) &&
		c.EventPlane.Contains(ev.EventPlaneAngle) &&
		!c.BadRuns.Contains(ev.RunNumber) &&
		c.passTrigger(ev)
	return c.Record(ok)
}

func (c *BasicEventCut) Report() string {
	return fmt.Sprintf("BasicEventCut: refMult %s vz %s vr %s cent9 %s: %s\n",
		c.RefMult, c.VertexZ, c.VertexR, c.Cent9, c.Counters.String()) + c.MonitorReport()
}

func (c *BasicEventCut) Settings() []string {
	return []string{
		"event_cut.type=basic",
		"event_cut.ref_mult=" + c.RefMult.String(),
		"event_cut.vertex_z=" + c.VertexZ.String(),
		"event_cut.vpd_vz_diff=" + c.VpdVzDiff.String(),
		"event_cut.vertex_r=" + c.VertexR.String(),
		fmt.Sprintf("event_cut.vertex_shift=(%g,%g)", c.VertexXShift, c.VertexYShift),
		"event_cut.sphericity=" + c.Sphericity.String(),
		"event_cut.btof_tray_mult=" + c.BTofTrayMult.String(),
		"event_cut.btof_matched=" + c.BTofMatched.String(),
		"event_cut.cent9=" + c.Cent9.String(),
		"event_cut.event_plane=" + c.EventPlane.String(),
		fmt.Sprintf("event_cut.triggers=%v", c.Triggers),
		fmt.Sprintf("event_cut.bad_runs=%d", len(c.BadRuns)),
	}
}

// Clone copies the parameters and rebuilds the monitors empty. The clone has
// zeroed counters.
func (c *BasicEventCut) Clone() (EventCut, error) {
	b, err := c.cloneBase()
	if err != nil {
		return nil, err
	}
	cp := *c
	cp.Base = b
	cp.Triggers = slices.Clone(c.Triggers)
	if c.BadRuns != nil {
		cp.BadRuns = NewBadRunList(c.BadRuns.Runs()...)
	}
	return &cp, nil
}
