// Package social tracks per-item like/comment state for one viewer: live
// aggregate counters and the viewer's own like flag, with optimistic local
// updates reconciled against backend-confirmed snapshots.
package social

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gigglegrid/reel-cli/internal/syncstore"
)

// Subscription is the cancelable handle returned by backend watches.
type Subscription interface {
	Cancel()
}

// Backend is the slice of the sync store the tracker needs.
type Backend interface {
	AdjustLikes(ctx context.Context, id string, delta int) error
	SetLiked(ctx context.Context, id, viewerID string, liked bool) error
	WatchVideo(id string, fn func(syncstore.VideoDoc)) Subscription
	WatchLiked(id, viewerID string, fn func(bool)) Subscription
}

// Snapshot is the displayable social state of one item.
type Snapshot struct {
	ItemID   string
	Likes    int
	Comments int
	Liked    bool
}

type itemState struct {
	likes    int
	comments int
	liked    bool

	// Last backend-confirmed values, untouched by optimistic nudges. Failed
	// mutations roll the displayed state back to these.
	baseLikes int
	baseLiked bool

	videoSub Subscription
	likedSub Subscription

	// At most one like mutation is in flight per item. A toggle issued
	// while one is pending coalesces into queued, last writer wins.
	inflight bool
	queued   *bool
}

// Tracker manages live social subscriptions for the items inside the preload
// window and serializes like mutations per item.
type Tracker struct {
	backend  Backend
	viewerID string
	logger   *slog.Logger

	mu      sync.Mutex
	items   map[string]*itemState
	updates chan Snapshot

	mutateTimeout time.Duration
}

func NewTracker(backend Backend, viewerID string, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		backend:       backend,
		viewerID:      viewerID,
		logger:        logger,
		items:         make(map[string]*itemState),
		updates:       make(chan Snapshot, 64),
		mutateTimeout: 5 * time.Second,
	}
}

// Updates delivers state snapshots as backend data or optimistic changes
// land. The TUI drains this channel from a command loop.
func (t *Tracker) Updates() <-chan Snapshot { return t.updates }

// Track opens both live feeds for the item: the aggregate counters and this
// viewer's like flag. Tracking an already-tracked item is a no-op.
func (t *Tracker) Track(itemID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.items[itemID]; ok {
		return
	}
	st := &itemState{}
	t.items[itemID] = st

	st.videoSub = t.backend.WatchVideo(itemID, func(doc syncstore.VideoDoc) {
		t.mu.Lock()
		defer t.mu.Unlock()
		st, ok := t.items[itemID]
		if !ok {
			return
		}
		st.likes = doc.Likes
		st.baseLikes = doc.Likes
		st.comments = doc.Comments
		t.pushLocked(itemID, st)
	})
	st.likedSub = t.backend.WatchLiked(itemID, t.viewerID, func(liked bool) {
		t.mu.Lock()
		defer t.mu.Unlock()
		st, ok := t.items[itemID]
		if !ok {
			return
		}
		// While a mutation is unresolved the optimistic flag stands; the
		// confirming snapshot arrives again once the write lands. The
		// authoritative value still becomes the rollback baseline.
		st.baseLiked = liked
		if st.inflight || st.queued != nil {
			return
		}
		st.liked = liked
		t.pushLocked(itemID, st)
	})
}

// Untrack cancels both subscriptions and drops the item's state. Any
// still-pending mutation completes against the backend but its confirmation
// no longer touches local state.
func (t *Tracker) Untrack(itemID string) {
	t.mu.Lock()
	st, ok := t.items[itemID]
	if ok {
		delete(t.items, itemID)
	}
	t.mu.Unlock()
	if !ok {
		return
	}
	if st.videoSub != nil {
		st.videoSub.Cancel()
	}
	if st.likedSub != nil {
		st.likedSub.Cancel()
	}
}

// SetTracked reconciles the tracked set to exactly ids (the preload window),
// keeping the live-subscription count bounded by the window size.
func (t *Tracker) SetTracked(ids []string) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	t.mu.Lock()
	var drop []string
	for id := range t.items {
		if _, keep := want[id]; !keep {
			drop = append(drop, id)
		}
	}
	t.mu.Unlock()

	for _, id := range drop {
		t.Untrack(id)
	}
	for _, id := range ids {
		t.Track(id)
	}
}

// Snapshot returns the current state for an item; ok is false when the item
// is not tracked.
func (t *Tracker) Snapshot(itemID string) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.items[itemID]
	if !ok {
		return Snapshot{}, false
	}
	return snapshotOf(itemID, st), true
}

// ToggleLike optimistically flips the viewer's like flag and nudges the
// displayed count, then issues the authoritative writes. Failed writes roll
// the optimistic change back. Toggles for an item with a mutation already in
// flight coalesce instead of racing.
func (t *Tracker) ToggleLike(itemID string) {
	t.mu.Lock()
	st, ok := t.items[itemID]
	if !ok {
		t.mu.Unlock()
		return
	}

	target := !st.liked
	st.liked = target
	if target {
		st.likes++
	} else if st.likes > 0 {
		st.likes--
	}
	t.pushLocked(itemID, st)

	if st.inflight {
		st.queued = &target
		t.mu.Unlock()
		return
	}
	st.inflight = true
	t.mu.Unlock()

	go t.mutate(itemID, target)
}

func (t *Tracker) mutate(itemID string, liked bool) {
	err := t.writeLike(itemID, liked)

	t.mu.Lock()
	st, tracked := t.items[itemID]
	if !tracked {
		// Item left the preload window mid-flight; drop the confirmation.
		t.mu.Unlock()
		return
	}

	if err != nil {
		t.logger.Warn("like mutation failed, rolling back",
			"item", itemID, "liked", liked, "error", err)
		// Restore the last confirmed state rather than undoing a single
		// nudge: a queued toggle may have applied a second nudge whose write
		// never happened either.
		st.liked = st.baseLiked
		st.likes = st.baseLikes
		st.inflight = false
		st.queued = nil
		t.pushLocked(itemID, st)
		t.mu.Unlock()
		return
	}

	if st.queued != nil && *st.queued != liked {
		next := *st.queued
		st.queued = nil
		t.mu.Unlock()
		go t.mutate(itemID, next)
		return
	}
	st.queued = nil
	st.inflight = false
	t.mu.Unlock()
}

func (t *Tracker) writeLike(itemID string, liked bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), t.mutateTimeout)
	defer cancel()

	if err := t.backend.SetLiked(ctx, itemID, t.viewerID, liked); err != nil {
		return err
	}
	delta := 1
	if !liked {
		delta = -1
	}
	return t.backend.AdjustLikes(ctx, itemID, delta)
}

func (t *Tracker) pushLocked(itemID string, st *itemState) {
	snap := snapshotOf(itemID, st)
	select {
	case t.updates <- snap:
	default:
		// Consumer is behind; drop the oldest so the latest state wins.
		select {
		case <-t.updates:
		default:
		}
		select {
		case t.updates <- snap:
		default:
		}
	}
}

func snapshotOf(itemID string, st *itemState) Snapshot {
	return Snapshot{ItemID: itemID, Likes: st.likes, Comments: st.comments, Liked: st.liked}
}

// Close cancels every live subscription.
func (t *Tracker) Close() {
	t.mu.Lock()
	states := make([]*itemState, 0, len(t.items))
	for id, st := range t.items {
		states = append(states, st)
		delete(t.items, id)
	}
	t.mu.Unlock()
	for _, st := range states {
		if st.videoSub != nil {
			st.videoSub.Cancel()
		}
		if st.likedSub != nil {
			st.likedSub.Cancel()
		}
	}
}
