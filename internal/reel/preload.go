package reel

// preloadRadius is how many items on each side of the active one keep their
// media attached. The resulting window never exceeds 2*preloadRadius+1 items,
// which also caps the number of live social subscriptions.
const preloadRadius = 2

// Window returns the inclusive index range [lo, hi] around index whose media
// should stay attached, clipped to the loaded list.
func Window(index, length int) (lo, hi int) {
	if length <= 0 {
		return 0, -1
	}
	if index < 0 {
		index = 0
	}
	if index >= length {
		index = length - 1
	}
	lo = index - preloadRadius
	if lo < 0 {
		lo = 0
	}
	hi = index + preloadRadius
	if hi > length-1 {
		hi = length - 1
	}
	return lo, hi
}

// Attached reports whether item i falls inside the preload window for index.
// Detached items render a placeholder and perform no playback.
func Attached(i, index, length int) bool {
	lo, hi := Window(index, length)
	return i >= lo && i <= hi
}
