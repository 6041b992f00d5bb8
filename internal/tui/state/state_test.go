package state

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestDragTracker_ReportsTotalDelta(t *testing.T) {
	var d DragTracker
	d.Start(10, 20, t0)

	delta, ok := d.Move(15, t0.Add(50*time.Millisecond))
	if !ok || delta != -5 {
		t.Fatalf("expected delta -5, got %f ok=%v", delta, ok)
	}

	delta, ok = d.Move(12, t0.Add(100*time.Millisecond))
	if !ok || delta != -8 {
		t.Fatalf("deltas measure from the origin, got %f ok=%v", delta, ok)
	}
}

func TestDragTracker_MotionWithoutPressIgnored(t *testing.T) {
	var d DragTracker
	if _, ok := d.Move(5, t0); ok {
		t.Fatal("motion before press must be ignored")
	}
	if _, _, _, ok := d.End(5, t0); ok {
		t.Fatal("release before press must be ignored")
	}
}

func TestDragTracker_EndReportsVelocity(t *testing.T) {
	var d DragTracker
	d.Start(0, 30, t0)
	d.Move(25, t0.Add(100*time.Millisecond))

	_, velocity, tapped, ok := d.End(20, t0.Add(200*time.Millisecond))
	if !ok {
		t.Fatal("expected an active gesture")
	}
	if tapped {
		t.Fatal("10 rows of travel is not a tap")
	}
	if velocity >= 0 {
		t.Fatalf("upward drag should report negative velocity, got %f", velocity)
	}
	if d.Active() {
		t.Fatal("gesture must deactivate on release")
	}
}

func TestDragTracker_TinyTravelIsATap(t *testing.T) {
	var d DragTracker
	d.Start(4, 10, t0)
	total, _, tapped, ok := d.End(10, t0.Add(80*time.Millisecond))
	if !ok || !tapped {
		t.Fatalf("stationary release should be a tap, total=%f", total)
	}
	if d.StartX() != 4 {
		t.Fatalf("unexpected start column: %d", d.StartX())
	}
}

func TestWheelGate_DebouncesBursts(t *testing.T) {
	var w WheelGate
	if !w.Allow(t0) {
		t.Fatal("first event must pass")
	}
	if w.Allow(t0.Add(100 * time.Millisecond)) {
		t.Fatal("event inside the debounce window must be dropped")
	}
	if !w.Allow(t0.Add(WheelDebounce + time.Millisecond)) {
		t.Fatal("event after the window must pass")
	}
}

func TestClickZoneStep(t *testing.T) {
	if got := ClickZoneStep(3, 30); got != -1 {
		t.Fatalf("top half should step back, got %d", got)
	}
	if got := ClickZoneStep(20, 30); got != 1 {
		t.Fatalf("bottom half should step forward, got %d", got)
	}
	if got := ClickZoneStep(5, 0); got != 0 {
		t.Fatalf("zero height is a no-op, got %d", got)
	}
}

func TestInActionColumn(t *testing.T) {
	if !InActionColumn(75, 80) {
		t.Fatal("right edge should be the action column")
	}
	if InActionColumn(10, 80) {
		t.Fatal("left side is not the action column")
	}
	if InActionColumn(5, 0) {
		t.Fatal("zero width has no action column")
	}
}
