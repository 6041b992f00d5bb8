package reel

import "math"

// Motion is an interruptible, target-seeking offset model. The current value
// eases toward the target a fixed fraction per frame; retargeting mid-flight
// supersedes the previous animation rather than queuing behind it.
type Motion struct {
	current   float64
	target    float64
	animating bool
}

const (
	// Fraction of the remaining distance covered per frame. At 30fps this
	// settles a full-viewport transition in roughly a third of a second.
	smoothing = 0.25
	// Distance below which the motion snaps to its target and stops.
	settleEpsilon = 0.05
)

// SnapTo jumps straight to v, cancelling any in-flight animation.
func (m *Motion) SnapTo(v float64) {
	m.current = v
	m.target = v
	m.animating = false
}

// AnimateTo retargets the motion. Any previous target is abandoned.
func (m *Motion) AnimateTo(v float64) {
	m.target = v
	if math.Abs(m.target-m.current) < settleEpsilon {
		m.SnapTo(v)
		return
	}
	m.animating = true
}

// Tick advances one frame. It reports whether the motion is still animating.
func (m *Motion) Tick() bool {
	if !m.animating {
		return false
	}
	m.current += (m.target - m.current) * smoothing
	if math.Abs(m.target-m.current) < settleEpsilon {
		m.SnapTo(m.target)
	}
	return m.animating
}

func (m *Motion) Current() float64 { return m.current }

func (m *Motion) Target() float64 { return m.target }

func (m *Motion) Animating() bool { return m.animating }
