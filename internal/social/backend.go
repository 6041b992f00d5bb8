package social

import (
	"context"

	"github.com/gigglegrid/reel-cli/internal/syncstore"
)

// StoreBackend adapts *syncstore.Store to the Backend interface, narrowing
// the concrete subscription type to the Cancel-only handle the tracker needs.
type StoreBackend struct {
	Store *syncstore.Store
}

func (b StoreBackend) AdjustLikes(ctx context.Context, id string, delta int) error {
	return b.Store.AdjustLikes(ctx, id, delta)
}

func (b StoreBackend) SetLiked(ctx context.Context, id, viewerID string, liked bool) error {
	return b.Store.SetLiked(ctx, id, viewerID, liked)
}

func (b StoreBackend) WatchVideo(id string, fn func(syncstore.VideoDoc)) Subscription {
	return b.Store.WatchVideo(id, fn)
}

func (b StoreBackend) WatchLiked(id, viewerID string, fn func(bool)) Subscription {
	return b.Store.WatchLiked(id, viewerID, fn)
}
