package syncstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "sync.db"), "testns")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Init(context.Background()))
	return store
}

func TestCheckWritable(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CheckWritable(context.Background()))
	// Repeat writes upsert the same meta row.
	require.NoError(t, store.CheckWritable(context.Background()))
}

func TestMirrorVideo_MergePreservesCounters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.MirrorVideo(ctx, VideoDoc{ID: "v1", Title: "first", URL: "https://cdn/v1.mp4"}))
	require.NoError(t, store.AdjustLikes(ctx, "v1", 3))
	require.NoError(t, store.AddComment(ctx, "v1", "u1", "hello"))

	// Re-mirroring the same video (a later fetch) must not reset aggregates.
	require.NoError(t, store.MirrorVideo(ctx, VideoDoc{ID: "v1", Title: "renamed", URL: "https://cdn/v1-hd.mp4"}))

	doc, err := store.Video(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", doc.Title)
	assert.Equal(t, "https://cdn/v1-hd.mp4", doc.URL)
	assert.Equal(t, 3, doc.Likes)
	assert.Equal(t, 1, doc.Comments)
}

func TestVideo_MissingDocIsZeroValued(t *testing.T) {
	store := newTestStore(t)
	doc, err := store.Video(context.Background(), "nope")
	require.NoError(t, err)
	assert.Equal(t, VideoDoc{ID: "nope"}, doc)
}

func TestAdjustLikes_FloorsAtZero(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.MirrorVideo(ctx, VideoDoc{ID: "v1", Title: "t", URL: "u"}))

	require.NoError(t, store.AdjustLikes(ctx, "v1", 2))
	require.NoError(t, store.AdjustLikes(ctx, "v1", -5))

	doc, err := store.Video(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Likes)
}

func TestAdjustLikes_UnknownVideoFails(t *testing.T) {
	store := newTestStore(t)
	err := store.AdjustLikes(context.Background(), "ghost", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such video")
}

func TestSetLiked_LastWriterWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	liked, err := store.Liked(ctx, "v1", "viewer-a")
	require.NoError(t, err)
	assert.False(t, liked, "absent flag reads as false")

	require.NoError(t, store.SetLiked(ctx, "v1", "viewer-a", true))
	require.NoError(t, store.SetLiked(ctx, "v1", "viewer-a", false))
	require.NoError(t, store.SetLiked(ctx, "v1", "viewer-a", true))

	liked, err = store.Liked(ctx, "v1", "viewer-a")
	require.NoError(t, err)
	assert.True(t, liked)

	// Flags are scoped per viewer.
	liked, err = store.Liked(ctx, "v1", "viewer-b")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestAddComment_OrderedWithStoreTimestamps(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.MirrorVideo(ctx, VideoDoc{ID: "v1", Title: "t", URL: "u"}))

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	store.nowFn = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	require.NoError(t, store.AddComment(ctx, "v1", "u1", "first"))
	require.NoError(t, store.AddComment(ctx, "v1", "u2", "second"))
	require.NoError(t, store.AddComment(ctx, "v1", "u1", "third"))

	comments, err := store.Comments(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{comments[0].Text, comments[1].Text, comments[2].Text})
	assert.True(t, comments[0].CreatedAt.Before(comments[1].CreatedAt))
	assert.Equal(t, "u2", comments[1].UserID)

	doc, err := store.Video(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Comments, "comment counter bumps with each append")
}

func TestAddComment_ZeroNanosecondTimestampOrdersCorrectly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.MirrorVideo(ctx, VideoDoc{ID: "v1", Title: "t", URL: "u"}))

	// A whole-second timestamp must still sort before a fractional one half a
	// second later; a variable-width fractional part would order them
	// lexicographically the other way round.
	whole := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	stamps := []time.Time{whole, whole.Add(500 * time.Millisecond)}
	store.nowFn = func() time.Time {
		next := stamps[0]
		stamps = stamps[1:]
		return next
	}

	require.NoError(t, store.AddComment(ctx, "v1", "u1", "first"))
	require.NoError(t, store.AddComment(ctx, "v1", "u2", "second"))

	comments, err := store.Comments(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
	assert.True(t, comments[0].CreatedAt.Equal(whole))
}

func TestAddComment_SameTimestampKeepsInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.MirrorVideo(ctx, VideoDoc{ID: "v1", Title: "t", URL: "u"}))

	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store.nowFn = func() time.Time { return fixed }

	require.NoError(t, store.AddComment(ctx, "v1", "u1", "a"))
	require.NoError(t, store.AddComment(ctx, "v1", "u1", "b"))

	comments, err := store.Comments(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "a", comments[0].Text)
	assert.Equal(t, "b", comments[1].Text)
}

func TestViewerID_StableAcrossReads(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.ViewerID(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := store.ViewerID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNamespaceIsolation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sync.db")

	a, err := New(path, "ns-a")
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Init(context.Background()))

	b, err := New(path, "ns-b")
	require.NoError(t, err)
	defer b.Close()

	ctx := context.Background()
	require.NoError(t, a.MirrorVideo(ctx, VideoDoc{ID: "v1", Title: "t", URL: "u"}))
	require.NoError(t, a.AdjustLikes(ctx, "v1", 4))

	doc, err := b.Video(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Likes, "namespaces must not leak counters")
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch delivery")
		panic("unreachable")
	}
}

func TestWatchVideo_InitialAndWriteDeliveries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.MirrorVideo(ctx, VideoDoc{ID: "v1", Title: "t", URL: "u"}))

	docs := make(chan VideoDoc, 8)
	sub := store.WatchVideo("v1", func(doc VideoDoc) { docs <- doc })
	defer sub.Cancel()

	initial := waitFor(t, docs)
	assert.Equal(t, 0, initial.Likes)

	require.NoError(t, store.AdjustLikes(ctx, "v1", 1))
	updated := waitFor(t, docs)
	assert.Equal(t, 1, updated.Likes)
}

func TestWatchLiked_ScopedToViewer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	flags := make(chan bool, 8)
	sub := store.WatchLiked("v1", "viewer-a", func(liked bool) { flags <- liked })
	defer sub.Cancel()

	assert.False(t, waitFor(t, flags), "initial snapshot")

	// Another viewer's write must not reach this subscription.
	require.NoError(t, store.SetLiked(ctx, "v1", "viewer-b", true))
	require.NoError(t, store.SetLiked(ctx, "v1", "viewer-a", true))
	assert.True(t, waitFor(t, flags))
}

func TestWatchComments_DeliversFullThread(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.MirrorVideo(ctx, VideoDoc{ID: "v1", Title: "t", URL: "u"}))
	require.NoError(t, store.AddComment(ctx, "v1", "u1", "before subscribe"))

	threads := make(chan []Comment, 8)
	sub := store.WatchComments("v1", func(cs []Comment) { threads <- cs })
	defer sub.Cancel()

	initial := waitFor(t, threads)
	require.Len(t, initial, 1)

	require.NoError(t, store.AddComment(ctx, "v1", "u2", "after subscribe"))
	updated := waitFor(t, threads)
	require.Len(t, updated, 2)
	assert.Equal(t, "after subscribe", updated[1].Text)
}

func TestSubscription_CancelStopsDelivery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.MirrorVideo(ctx, VideoDoc{ID: "v1", Title: "t", URL: "u"}))

	docs := make(chan VideoDoc, 8)
	sub := store.WatchVideo("v1", func(doc VideoDoc) { docs <- doc })
	waitFor(t, docs)

	sub.Cancel()
	require.NoError(t, store.AdjustLikes(ctx, "v1", 1))

	select {
	case doc := <-docs:
		t.Fatalf("canceled subscription still delivered: %+v", doc)
	case <-time.After(100 * time.Millisecond):
	}
}
