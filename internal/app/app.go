package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/gigglegrid/reel-cli/internal/feed"
	"github.com/gigglegrid/reel-cli/internal/pexels"
	"github.com/gigglegrid/reel-cli/internal/syncstore"
)

// DefaultPerPage matches the provider page size used for the reel.
const DefaultPerPage = 15

// randomStartPages is the range the initial fetch is randomized over.
const randomStartPages = 10

// ErrNoVideos reports that neither the randomized start page nor the page-1
// fallback produced any usable items.
var ErrNoVideos = errors.New("no videos available for query")

type Provider interface {
	Search(ctx context.Context, query string, page, perPage int) (pexels.SearchResult, error)
}

type Mirror interface {
	MirrorVideo(ctx context.Context, doc syncstore.VideoDoc) error
}

// Service fetches provider pages, normalizes them into feed items and mirrors
// each item into the sync store as a canonical record. Pages are fetched
// strictly in sequence; a second fetch never starts before the prior resolves.
type Service struct {
	provider Provider
	mirror   Mirror
	query    string
	perPage  int
	logger   *slog.Logger
	randFn   func(n int) int

	mu       sync.Mutex
	nextPage int
	busy     bool
}

func NewService(provider Provider, mirror Mirror, query string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		mirror:   mirror,
		query:    query,
		perPage:  DefaultPerPage,
		logger:   logger,
		randFn:   rand.Intn,
		nextPage: 2,
	}
}

// Initial fetches the randomized start page (1..10). An empty result on a
// page other than 1 triggers exactly one fallback fetch of page 1 before
// giving up with ErrNoVideos. Subsequent More calls continue from page 2.
func (s *Service) Initial(ctx context.Context) ([]feed.Item, error) {
	page := s.randFn(randomStartPages) + 1
	items, err := s.fetchPage(ctx, page)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 && page > 1 {
		s.logger.Info("empty start page, falling back to page 1", "page", page)
		items, err = s.fetchPage(ctx, 1)
		if err != nil {
			return nil, err
		}
	}
	if len(items) == 0 {
		return nil, ErrNoVideos
	}

	s.mu.Lock()
	s.nextPage = 2
	s.mu.Unlock()
	return items, nil
}

// More fetches the next sequential page. Overlapping calls return nil without
// fetching, preserving append order and preventing duplicate-id races.
func (s *Service) More(ctx context.Context) ([]feed.Item, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, nil
	}
	s.busy = true
	page := s.nextPage
	s.mu.Unlock()

	items, err := s.fetchPage(ctx, page)

	s.mu.Lock()
	s.busy = false
	if err == nil {
		s.nextPage = page + 1
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) fetchPage(ctx context.Context, page int) ([]feed.Item, error) {
	result, err := s.provider.Search(ctx, s.query, page, s.perPage)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}

	items := make([]feed.Item, 0, len(result.Videos))
	for _, video := range result.Videos {
		item, ok := feed.FromPexels(video)
		if !ok {
			continue
		}
		items = append(items, item)
		if err := s.mirror.MirrorVideo(ctx, syncstore.VideoDoc{
			ID:              item.ID,
			Title:           item.Title,
			URL:             item.MediaURL,
			Thumbnail:       item.ThumbnailURL,
			Photographer:    item.Author,
			PhotographerURL: item.AuthorURL,
		}); err != nil {
			// Social state degrades independently; the reel keeps going.
			s.logger.Warn("mirror video failed", "item", item.ID, "error", err)
		}
	}
	return items, nil
}
