package enemy

import "emberfall/server/internal/world"

// MotionHistorySize is the ring capacity: roughly two seconds of samples at
// the default 15 Hz tick rate.
const MotionHistorySize = 30

type motionSample struct {
	pos world.Vec2
	vel world.Vec2
	dt  float64
}

// MotionHistory is a fixed-capacity ring of recent positions and velocities,
// overwritten oldest-first. Stuck detection only trusts a full buffer.
type MotionHistory struct {
	samples [MotionHistorySize]motionSample
	head    int
	count   int
}

// NewMotionHistory returns an empty history.
func NewMotionHistory() *MotionHistory {
	return &MotionHistory{}
}

// Push records one tick's position and velocity.
func (h *MotionHistory) Push(pos, vel world.Vec2, dt float64) {
	if h == nil {
		return
	}
	h.samples[h.head] = motionSample{pos: pos, vel: vel, dt: dt}
	h.head = (h.head + 1) % MotionHistorySize
	if h.count < MotionHistorySize {
		h.count++
	}
}

// Count reports how many samples are recorded.
func (h *MotionHistory) Count() int {
	if h == nil {
		return 0
	}
	return h.count
}

// Full reports whether the ring has reached capacity.
func (h *MotionHistory) Full() bool {
	return h != nil && h.count == MotionHistorySize
}

// Reset discards all samples.
func (h *MotionHistory) Reset() {
	if h == nil {
		return
	}
	h.head = 0
	h.count = 0
}

func (h *MotionHistory) at(i int) motionSample {
	// i counts from the oldest recorded sample.
	start := h.head - h.count
	if start < 0 {
		start += MotionHistorySize
	}
	return h.samples[(start+i)%MotionHistorySize]
}

// Oldest returns the oldest recorded position.
func (h *MotionHistory) Oldest() world.Vec2 {
	if h == nil || h.count == 0 {
		return world.Vec2{}
	}
	return h.at(0).pos
}

// Newest returns the most recent recorded position.
func (h *MotionHistory) Newest() world.Vec2 {
	if h == nil || h.count == 0 {
		return world.Vec2{}
	}
	return h.at(h.count - 1).pos
}

// WindowSeconds reports the simulated time between the oldest and newest
// recorded samples: the sum of the intervals separating them, matching the
// span NetDisplacement measures over.
func (h *MotionHistory) WindowSeconds() float64 {
	if h == nil {
		return 0
	}
	total := 0.0
	for i := 1; i < h.count; i++ {
		total += h.at(i).dt
	}
	return total
}

// NetDisplacement reports the straight-line distance between the oldest and
// newest positions.
func (h *MotionHistory) NetDisplacement() float64 {
	if h == nil || h.count < 2 {
		return 0
	}
	return world.Dist(h.Oldest(), h.Newest())
}

// MeanSpeed reports the average instantaneous velocity magnitude across the
// recorded samples.
func (h *MotionHistory) MeanSpeed() float64 {
	if h == nil || h.count == 0 {
		return 0
	}
	total := 0.0
	for i := 0; i < h.count; i++ {
		total += h.at(i).vel.Length()
	}
	return total / float64(h.count)
}
