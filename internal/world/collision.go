package world

// ActorHalf is half the collision footprint of an actor in world units.
const ActorHalf = 14.0

// MaxSpeedStepPerSecond bounds how fast an actor's smoothed speed may change,
// so terrain transitions ramp over a few hundred milliseconds instead of
// snapping.
const MaxSpeedStepPerSecond = 400.0

// speedSmoothingRate is the exponential approach rate toward the target
// speed, in 1/seconds.
const speedSmoothingRate = 6.0

// Collider resolves movement legality and speed smoothing against a grid.
type Collider struct {
	grid *Grid
}

// NewCollider wraps a grid in the collision service.
func NewCollider(grid *Grid) *Collider {
	return &Collider{grid: grid}
}

// CanOccupy reports whether an actor with the given capability may stand at
// the candidate position.
func (c *Collider) CanOccupy(capability Capability, pos Vec2) bool {
	if c == nil || c.grid == nil {
		return false
	}
	col, row, ok := c.grid.WorldToGrid(pos)
	if !ok {
		return false
	}
	return c.grid.WalkableFor(col, row, capability)
}

// SmoothedSpeed moves current toward target with a bounded per-tick step.
// The change never exceeds MaxSpeedStepPerSecond*dt and the result is never
// negative.
func (c *Collider) SmoothedSpeed(current, target, dt float64) float64 {
	return SmoothSpeed(current, target, dt)
}

// SmoothSpeed is the smoothing primitive shared by the collider and tests.
func SmoothSpeed(current, target, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	step := (target - current) * Clamp(dt*speedSmoothingRate, 0, 1)
	maxStep := MaxSpeedStepPerSecond * dt
	if step > maxStep {
		step = maxStep
	} else if step < -maxStep {
		step = -maxStep
	}
	next := current + step
	if next < 0 {
		next = 0
	}
	return next
}

// Step advances a position by velocity*dt with axis-separated collision
// resolution: when the combined move is illegal each axis is retried alone,
// so actors slide along obstacle edges instead of sticking to them. The
// result is always clamped inside the world.
func (c *Collider) Step(pos, velocity Vec2, capability Capability, dt float64) Vec2 {
	if c == nil || c.grid == nil {
		return pos
	}
	delta := velocity.Scale(dt)
	candidate := c.grid.ClampToWorld(pos.Add(delta), ActorHalf)
	if c.CanOccupy(capability, candidate) {
		return candidate
	}
	xOnly := c.grid.ClampToWorld(Vec2{X: pos.X + delta.X, Y: pos.Y}, ActorHalf)
	if delta.X != 0 && c.CanOccupy(capability, xOnly) {
		return xOnly
	}
	yOnly := c.grid.ClampToWorld(Vec2{X: pos.X, Y: pos.Y + delta.Y}, ActorHalf)
	if delta.Y != 0 && c.CanOccupy(capability, yOnly) {
		return yOnly
	}
	return pos
}
