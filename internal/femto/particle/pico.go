package particle

// Collection is the ordered set of accepted particles of one species in one
// event. Pairs point into it, so it must not grow after filtering is done.
type Collection []Particle

// At returns a pointer to the i-th particle.
func (c Collection) At(i int) *Particle { return &c[i] }

// Lifecycle observes PicoEvent creation and release.
type Lifecycle interface {
	Created(*PicoEvent)
	Released(*PicoEvent)
}

// PicoEvent is the particle snapshot of one event that passed the event cut.
// It has exactly one owner at a time: the analysis' current slot or a mixing
// buffer. Release must be called exactly once.
type PicoEvent struct {
	First  Collection
	Second Collection

	// EventID and RunNumber identify the source event in traces and tests.
	EventID   int
	RunNumber int

	released bool
	life     Lifecycle
}

// NewPicoEvent allocates an empty snapshot. life may be nil.
func NewPicoEvent(life Lifecycle) *PicoEvent {
	p := &PicoEvent{life: life}
	if life != nil {
		life.Created(p)
	}
	return p
}

// Release drops the particle collections. Releasing twice panics.
func (p *PicoEvent) Release() {
	if p.released {
		panic("particle: PicoEvent released twice")
	}
	p.released = true
	p.First, p.Second = nil, nil
	if p.life != nil {
		p.life.Released(p)
	}
}

// Released reports whether Release has been called.
func (p *PicoEvent) Released() bool { return p.released }

// LifecycleCounter counts creations and releases.
type LifecycleCounter struct {
	created  int
	released int
}

func (c *LifecycleCounter) Created(*PicoEvent)  { c.created++ }
func (c *LifecycleCounter) Released(*PicoEvent) { c.released++ }

// Counts returns the number of created and released snapshots.
func (c *LifecycleCounter) Counts() (created, released int) {
	return c.created, c.released
}

// Live is the number of snapshots created but not yet released.
func (c *LifecycleCounter) Live() int { return c.created - c.released }
