// Package state holds the pure gesture-interpretation helpers behind the
// reel TUI: drag tracking with release velocity, wheel debouncing and click
// zones. Everything here is deterministic given the event timestamps.
package state

import "time"

// tapSlop is the largest total travel, in rows, still treated as a tap
// rather than a drag.
const tapSlop = 1.0

// WheelDebounce is the quiet period between accepted wheel steps, matching
// the reel's one-item-per-gesture navigation.
const WheelDebounce = 400 * time.Millisecond

const actionColumnWidth = 14

// DragTracker turns press/motion/release rows into drag deltas and a release
// velocity in rows per second. One tracker instance serves the whole session.
type DragTracker struct {
	active   bool
	startY   int
	startX   int
	lastY    int
	lastAt   time.Time
	velocity float64
}

func (d *DragTracker) Start(x, y int, at time.Time) {
	d.active = true
	d.startX = x
	d.startY = y
	d.lastY = y
	d.lastAt = at
	d.velocity = 0
}

// Move reports the total delta from the drag origin. Motion events arriving
// without a preceding press are ignored.
func (d *DragTracker) Move(y int, at time.Time) (float64, bool) {
	if !d.active {
		return 0, false
	}
	dt := at.Sub(d.lastAt).Seconds()
	if dt > 0 {
		inst := float64(y-d.lastY) / dt
		// Light smoothing so a single jittery event cannot fake a flick.
		d.velocity = 0.7*inst + 0.3*d.velocity
	}
	d.lastY = y
	d.lastAt = at
	return float64(y - d.startY), true
}

// End finishes the gesture. tapped is true when the pointer barely moved, in
// which case the release should be treated as a click-zone tap instead of a
// drag decision.
func (d *DragTracker) End(y int, at time.Time) (total, velocity float64, tapped, ok bool) {
	if !d.active {
		return 0, 0, false, false
	}
	total, _ = d.Move(y, at)
	velocity = d.velocity
	d.active = false
	tapped = total >= -tapSlop && total <= tapSlop
	return total, velocity, tapped, true
}

func (d *DragTracker) Active() bool { return d.active }

// StartX returns the column of the press, used to suppress click-zone taps
// over the action column.
func (d *DragTracker) StartX() int { return d.startX }

// WheelGate debounces wheel events so a fast scroll burst advances exactly
// one item.
type WheelGate struct {
	lastAt time.Time
}

func (w *WheelGate) Allow(at time.Time) bool {
	if !w.lastAt.IsZero() && at.Sub(w.lastAt) < WheelDebounce {
		return false
	}
	w.lastAt = at
	return true
}

// ClickZoneStep maps a tap row to a discrete navigation: the top half of the
// viewport steps back, the bottom half forward.
func ClickZoneStep(y, height int) int {
	if height <= 0 {
		return 0
	}
	if y < height/2 {
		return -1
	}
	return 1
}

// InActionColumn reports whether a tap landed on the interactive action
// column on the card's right edge, which suppresses click-zone navigation.
func InActionColumn(x, width int) bool {
	if width <= 0 {
		return false
	}
	return x >= width-actionColumnWidth
}
