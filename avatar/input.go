package avatar

// EdgeDetector turns a sampled button level into down/up edges by comparing
// it with the level seen on the previous sample.
type EdgeDetector struct {
	last bool
}

// Sample records level and returns the edges since the previous sample.
func (d *EdgeDetector) Sample(level bool) (down, up bool) {
	down = level && !d.last
	up = !level && d.last
	d.last = level
	return down, up
}

// TickInput is everything the controller consumes in one tick.
type TickInput struct {
	FireDown bool
	FireUp   bool

	// Contacts lists the hazards the avatar overlaps this tick, by id.
	Contacts []uint

	// Dt is the tick length in seconds.
	Dt float64
}
