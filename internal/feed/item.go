package feed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gigglegrid/reel-cli/internal/pexels"
)

// Item is one immutable feed entry. Like and comment aggregates are not
// stored here; they live in the social tracker, mirrored from the sync store.
type Item struct {
	ID           string
	MediaURL     string
	ThumbnailURL string
	Title        string
	Description  string
	Author       string
	AuthorURL    string
}

const (
	preferredQuality = "hd"
	maxWidth         = 1080
	fallbackTitle    = "Funny Meme"
)

// FromPexels normalizes a raw Pexels video into an Item. It picks the first
// HD rendition no wider than 1080px, falling back to the first rendition with
// a link. Videos without any usable rendition report ok=false and are dropped
// by the caller.
func FromPexels(v pexels.Video) (Item, bool) {
	link := pickRendition(v.VideoFiles)
	if link == "" {
		return Item{}, false
	}
	return Item{
		ID:           strconv.FormatInt(v.ID, 10),
		MediaURL:     link,
		ThumbnailURL: v.Image,
		Title:        titleFromURL(v.URL),
		Description:  fmt.Sprintf("A hilarious video from Pexels by %s.", v.User.Name),
		Author:       v.User.Name,
		AuthorURL:    v.User.URL,
	}, true
}

func pickRendition(files []pexels.VideoFile) string {
	for _, f := range files {
		if f.Quality == preferredQuality && f.Width <= maxWidth && f.Link != "" {
			return f.Link
		}
	}
	for _, f := range files {
		if f.Link != "" {
			return f.Link
		}
	}
	return ""
}

// titleFromURL turns a Pexels page URL slug into a readable title,
// e.g. https://www.pexels.com/video/a-cat-doing-things-12345/ -> "a cat doing things 12345".
func titleFromURL(pageURL string) string {
	trimmed := strings.TrimRight(pageURL, "/")
	slug := trimmed
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		slug = trimmed[i+1:]
	}
	slug = strings.TrimSuffix(slug, ".html")
	slug = strings.ReplaceAll(slug, "-", " ")
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return fallbackTitle
	}
	return slug
}
