// Package reel owns the navigation state of the feed: which item is current,
// where the visual offset sits, and how gestures translate into index moves.
// It is a pure state machine with no I/O; callers drive it from a single
// goroutine and feed it frame ticks while an animation is in flight.
package reel

import "github.com/gigglegrid/reel-cli/internal/feed"

const (
	// Fraction of the viewport a drag must cover to commit a navigation.
	// The comparison is inclusive: a drag ending exactly on the threshold
	// advances.
	dragThresholdFrac = 0.25
	// Release speed, in viewport extents per second, above which a short
	// drag still counts as a flick.
	flickVelocity = 1.2
	// Damping applied to drag distance beyond the first or last resting
	// position (the rubber-band).
	rubberDamping = 0.2
	// How close to the loaded end the current index may get before the
	// engine asks for the next page.
	pageLookahead = 2
)

// Engine is the reel navigation state machine.
type Engine struct {
	items    []feed.Item
	seen     map[string]struct{}
	index    int
	motion   Motion
	dragging bool
	viewport float64

	// Length of the list when the last page request was signalled. A new
	// request fires only after an append has grown the list past it, so the
	// trigger is one-shot per threshold crossing.
	requestedAt int
}

// New returns an empty engine. Viewport extent defaults to 1 so offsets are
// well-defined before the first resize arrives.
func New() *Engine {
	return &Engine{seen: make(map[string]struct{}), viewport: 1, requestedAt: -1}
}

// Initialize replaces the list, resets the index to 0 and snaps the offset to
// the first item's resting position. Malformed items (no media URL) and
// duplicates are skipped.
func (e *Engine) Initialize(items []feed.Item) {
	e.items = nil
	e.seen = make(map[string]struct{})
	e.appendFiltered(items)
	e.index = 0
	e.requestedAt = -1
	e.motion.SnapTo(e.RestingOffset(0))
	e.dragging = false
}

// Append de-duplicates by id against the existing list and appends the rest
// in order. The current index and offset are untouched.
func (e *Engine) Append(items []feed.Item) int {
	return e.appendFiltered(items)
}

func (e *Engine) appendFiltered(items []feed.Item) int {
	added := 0
	for _, item := range items {
		if item.MediaURL == "" {
			continue
		}
		if _, dup := e.seen[item.ID]; dup {
			continue
		}
		e.seen[item.ID] = struct{}{}
		e.items = append(e.items, item)
		added++
	}
	return added
}

// SetViewport updates the extent (terminal rows) used for resting positions
// and the drag threshold. The offset is re-snapped so the current item stays
// at rest after a resize.
func (e *Engine) SetViewport(extent float64) {
	if extent <= 0 {
		extent = 1
	}
	e.viewport = extent
	if !e.dragging && !e.motion.Animating() {
		e.motion.SnapTo(e.RestingOffset(e.index))
	}
}

// RestingOffset is the animation target for index i: each item occupies one
// viewport extent, stacked downward.
func (e *Engine) RestingOffset(i int) float64 {
	return -float64(i) * e.viewport
}

// DragMove follows the pointer while a drag is active. Travel beyond the
// first or last item's resting position is damped into a rubber-band; the
// index never changes here.
func (e *Engine) DragMove(deltaY float64) {
	if len(e.items) == 0 {
		return
	}
	e.dragging = true
	rest := e.RestingOffset(e.index)
	offset := rest + deltaY

	first := e.RestingOffset(0)
	last := e.RestingOffset(len(e.items) - 1)
	if offset > first {
		offset = first + (offset-first)*rubberDamping
	} else if offset < last {
		offset = last + (offset-last)*rubberDamping
	}
	e.motion.SnapTo(offset)
}

// DragEnd commits or abandons the gesture: a drag covering at least a quarter
// of the viewport, or released at flick speed, moves one step in its
// direction; anything else snaps back. The resulting index is clamped and the
// offset always animates to its resting position.
func (e *Engine) DragEnd(totalDeltaY, velocityY float64) {
	e.dragging = false
	if len(e.items) == 0 {
		return
	}

	next := e.index
	threshold := e.viewport * dragThresholdFrac
	flick := e.viewport * flickVelocity
	if abs(totalDeltaY) >= threshold || abs(velocityY) >= flick {
		if totalDeltaY < 0 {
			next++
		} else if totalDeltaY > 0 {
			next--
		}
	}
	e.setIndex(next)
}

// Step moves the index by exactly one in the given direction (negative is
// toward the first item), clamped. Used by arrow keys and click zones.
func (e *Engine) Step(direction int) {
	if len(e.items) == 0 {
		return
	}
	if direction > 0 {
		e.setIndex(e.index + 1)
	} else if direction < 0 {
		e.setIndex(e.index - 1)
	}
}

func (e *Engine) setIndex(i int) {
	if i < 0 {
		i = 0
	}
	if i > len(e.items)-1 {
		i = len(e.items) - 1
	}
	e.index = i
	e.motion.AnimateTo(e.RestingOffset(i))
}

// WantsNextPage reports, exactly once per crossing, that the current index is
// within the lookahead of the loaded end. It re-arms only when an append has
// grown the list.
func (e *Engine) WantsNextPage() bool {
	if len(e.items) == 0 {
		return false
	}
	if e.index < len(e.items)-1-pageLookahead {
		return false
	}
	if e.requestedAt == len(e.items) {
		return false
	}
	e.requestedAt = len(e.items)
	return true
}

// Tick advances the offset animation one frame and reports whether more
// frames are needed.
func (e *Engine) Tick() bool { return e.motion.Tick() }

func (e *Engine) CurrentIndex() int { return e.index }

func (e *Engine) Offset() float64 { return e.motion.Current() }

func (e *Engine) Animating() bool { return e.motion.Animating() }

func (e *Engine) Dragging() bool { return e.dragging }

func (e *Engine) Len() int { return len(e.items) }

func (e *Engine) Item(i int) feed.Item {
	return e.items[i]
}

// Current returns the active item, or false when the list is empty.
func (e *Engine) Current() (feed.Item, bool) {
	if len(e.items) == 0 {
		return feed.Item{}, false
	}
	return e.items[e.index], true
}

// AttachedIDs lists the ids inside the preload window, in index order. The
// social tracker subscribes to exactly this set.
func (e *Engine) AttachedIDs() []string {
	lo, hi := Window(e.index, len(e.items))
	if hi < lo {
		return nil
	}
	ids := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		ids = append(ids, e.items[i].ID)
	}
	return ids
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
