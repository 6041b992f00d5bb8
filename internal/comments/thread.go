// Package comments maintains the live comment thread for the one item whose
// comment view is open. Exactly one thread subscription exists at a time;
// opening a new thread tears down the previous one first.
package comments

import (
	"context"
	"strings"
	"sync"

	"github.com/gigglegrid/reel-cli/internal/syncstore"
)

// Subscription is the cancelable handle returned by backend watches.
type Subscription interface {
	Cancel()
}

// Backend is the slice of the sync store the thread store needs.
type Backend interface {
	AddComment(ctx context.Context, id, userID, text string) error
	WatchComments(id string, fn func([]syncstore.Comment)) Subscription
}

// ThreadSnapshot is the ordered comment list for the open item.
type ThreadSnapshot struct {
	ItemID   string
	Comments []syncstore.Comment
}

type Threads struct {
	backend  Backend
	viewerID string

	mu     sync.Mutex
	openID string
	sub    Subscription

	updates chan ThreadSnapshot
}

func NewThreads(backend Backend, viewerID string) *Threads {
	return &Threads{
		backend:  backend,
		viewerID: viewerID,
		updates:  make(chan ThreadSnapshot, 16),
	}
}

// Updates delivers thread snapshots, ordered by timestamp ascending, as the
// backend pushes them.
func (t *Threads) Updates() <-chan ThreadSnapshot { return t.updates }

// Open subscribes to itemID's comment thread, implicitly closing whichever
// thread was open before. Re-opening the current thread is a no-op.
func (t *Threads) Open(itemID string) {
	t.mu.Lock()
	if t.openID == itemID {
		t.mu.Unlock()
		return
	}
	prev := t.sub
	t.openID = itemID
	t.sub = t.backend.WatchComments(itemID, func(list []syncstore.Comment) {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.openID != itemID {
			return
		}
		t.pushLocked(ThreadSnapshot{ItemID: itemID, Comments: list})
	})
	t.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}
}

// Close tears down the open thread's subscription, if any.
func (t *Threads) Close() {
	t.mu.Lock()
	sub := t.sub
	t.sub = nil
	t.openID = ""
	t.mu.Unlock()
	if sub != nil {
		sub.Cancel()
	}
}

// OpenID returns the id of the currently open thread, or "".
func (t *Threads) OpenID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.openID
}

// Post appends a comment. Whitespace-only text is a silent no-op, not an
// error. The live subscription reflects the new comment; no optimistic
// append happens here.
func (t *Threads) Post(ctx context.Context, itemID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return t.backend.AddComment(ctx, itemID, t.viewerID, text)
}

func (t *Threads) pushLocked(snap ThreadSnapshot) {
	select {
	case t.updates <- snap:
	default:
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
