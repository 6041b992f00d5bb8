package comments

import (
	"context"

	"github.com/gigglegrid/reel-cli/internal/syncstore"
)

// StoreBackend adapts *syncstore.Store to the Backend interface.
type StoreBackend struct {
	Store *syncstore.Store
}

func (b StoreBackend) AddComment(ctx context.Context, id, userID, text string) error {
	return b.Store.AddComment(ctx, id, userID, text)
}

func (b StoreBackend) WatchComments(id string, fn func([]syncstore.Comment)) Subscription {
	return b.Store.WatchComments(id, fn)
}
