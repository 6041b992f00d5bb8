// Package identity resolves the viewer id used for per-viewer like flags and
// comment authorship.
package identity

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Store persists a stable anonymous identity across runs.
type Store interface {
	ViewerID(ctx context.Context) (string, error)
}

// Identity is the resolved viewer.
type Identity struct {
	ViewerID string
	// Degraded marks a process-local random id handed out because the
	// persistent store was unavailable. Downstream treatment is identical;
	// only logging distinguishes it.
	Degraded bool
}

// Resolve prefers an explicitly configured id, then the store-persisted
// anonymous id, then a throwaway random one.
func Resolve(ctx context.Context, explicit string, store Store, logger *slog.Logger) Identity {
	if logger == nil {
		logger = slog.Default()
	}
	if explicit != "" {
		return Identity{ViewerID: explicit}
	}

	id, err := store.ViewerID(ctx)
	if err == nil && id != "" {
		return Identity{ViewerID: id}
	}

	fallback := uuid.NewString()
	logger.Warn("identity store unavailable, using ephemeral viewer id",
		"viewer", fallback, "error", err)
	return Identity{ViewerID: fallback, Degraded: true}
}
