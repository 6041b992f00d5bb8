package syncstore

import (
	"context"
	"sync"
	"time"
)

// Subscription is a cancelable live feed of snapshots for one watched
// document or collection. Delivery and cancellation serialize on the same
// mutex, so after Cancel returns no further callback will run.
type Subscription struct {
	mu       sync.Mutex
	canceled bool
	deliver  func()
	registry *registry
	key      watchKey
}

func (s *Subscription) Cancel() {
	s.mu.Lock()
	s.canceled = true
	s.mu.Unlock()
	s.registry.remove(s.key, s)
}

func (s *Subscription) fire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.canceled {
		return
	}
	s.deliver()
}

type watchKind int

const (
	watchVideo watchKind = iota
	watchLiked
	watchComments
)

type watchKey struct {
	kind   watchKind
	id     string
	viewer string
}

type registry struct {
	mu   sync.Mutex
	subs map[watchKey][]*Subscription
}

func newRegistry() *registry {
	return &registry{subs: make(map[watchKey][]*Subscription)}
}

func (r *registry) add(key watchKey, deliver func()) *Subscription {
	sub := &Subscription{deliver: deliver, registry: r, key: key}
	r.mu.Lock()
	r.subs[key] = append(r.subs[key], sub)
	r.mu.Unlock()
	// Initial snapshot, matching the push-on-subscribe semantics consumers
	// rely on for first paint.
	go sub.fire()
	return sub
}

func (r *registry) remove(key watchKey, sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.subs[key][:0]
	for _, s := range r.subs[key] {
		if s != sub {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(r.subs, key)
		return
	}
	r.subs[key] = kept
}

func (r *registry) notify(key watchKey) {
	r.mu.Lock()
	subs := append([]*Subscription(nil), r.subs[key]...)
	r.mu.Unlock()
	for _, sub := range subs {
		sub.fire()
	}
}

func (r *registry) notifyVideo(id string) {
	r.notify(watchKey{kind: watchVideo, id: id})
}

func (r *registry) notifyLiked(id, viewer string) {
	r.notify(watchKey{kind: watchLiked, id: id, viewer: viewer})
}

func (r *registry) notifyComments(id string) {
	r.notify(watchKey{kind: watchComments, id: id})
}

const watchReadTimeout = 5 * time.Second

// WatchVideo subscribes to the canonical record for id. The callback receives
// a snapshot immediately and again after every local write that touches it.
// Callbacks run on store goroutines; the caller must not assume any
// particular one.
func (s *Store) WatchVideo(id string, fn func(VideoDoc)) *Subscription {
	return s.watchers.add(watchKey{kind: watchVideo, id: id}, func() {
		ctx, cancel := context.WithTimeout(context.Background(), watchReadTimeout)
		defer cancel()
		doc, err := s.Video(ctx, id)
		if err != nil {
			return
		}
		fn(doc)
	})
}

// WatchLiked subscribes to one viewer's like flag for id.
func (s *Store) WatchLiked(id, viewerID string, fn func(bool)) *Subscription {
	return s.watchers.add(watchKey{kind: watchLiked, id: id, viewer: viewerID}, func() {
		ctx, cancel := context.WithTimeout(context.Background(), watchReadTimeout)
		defer cancel()
		liked, err := s.Liked(ctx, id, viewerID)
		if err != nil {
			return
		}
		fn(liked)
	})
}

// WatchComments subscribes to the ordered comment thread for id.
func (s *Store) WatchComments(id string, fn func([]Comment)) *Subscription {
	return s.watchers.add(watchKey{kind: watchComments, id: id}, func() {
		ctx, cancel := context.WithTimeout(context.Background(), watchReadTimeout)
		defer cancel()
		comments, err := s.Comments(ctx, id)
		if err != nil {
			return
		}
		fn(comments)
	})
}
