// Package syncstore is the shared social-state backend: a document store
// keyed by namespace and video id, holding canonical video records, aggregate
// like/comment counters, per-viewer like flags and comment threads, with
// push-style watch subscriptions over local writes.
package syncstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// VideoDoc is the canonical record for one video.
type VideoDoc struct {
	ID              string
	Title           string
	URL             string
	Thumbnail       string
	Photographer    string
	PhotographerURL string
	Likes           int
	Comments        int
}

// Comment is one entry in a video's comment thread.
type Comment struct {
	ID        int64
	VideoID   string
	UserID    string
	Text      string
	CreatedAt time.Time
}

// timeLayout is the stored timestamp format. Unlike RFC3339Nano it keeps a
// fixed-width fractional part, so lexicographic ORDER BY matches timestamp
// order even when the nanoseconds are exactly zero.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	db        *sql.DB
	namespace string
	watchers  *registry
	nowFn     func() time.Time
}

func New(path, namespace string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Store{
		db:        db,
		namespace: namespace,
		watchers:  newRegistry(),
		nowFn:     time.Now,
	}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS videos (
  namespace TEXT NOT NULL,
  id TEXT NOT NULL,
  title TEXT NOT NULL,
  url TEXT NOT NULL,
  thumbnail TEXT,
  photographer TEXT,
  photographer_url TEXT,
  likes INTEGER NOT NULL DEFAULT 0,
  comments INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (namespace, id)
);
CREATE TABLE IF NOT EXISTS video_likes (
  namespace TEXT NOT NULL,
  video_id TEXT NOT NULL,
  viewer_id TEXT NOT NULL,
  liked INTEGER NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (namespace, video_id, viewer_id)
);
CREATE TABLE IF NOT EXISTS video_comments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  namespace TEXT NOT NULL,
  video_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  body TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_video_comments_thread
  ON video_comments (namespace, video_id, created_at);
CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable verifies the database accepts writes before the TUI starts.
func (s *Store) CheckWritable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('write_check', ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		s.nowFn().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	return nil
}

// MirrorVideo upserts the canonical record for a freshly fetched item.
// Metadata is merged; existing like and comment counters are preserved.
func (s *Store) MirrorVideo(ctx context.Context, doc VideoDoc) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO videos (namespace, id, title, url, thumbnail, photographer, photographer_url, likes, comments)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(namespace, id) DO UPDATE SET
  title=excluded.title,
  url=excluded.url,
  thumbnail=excluded.thumbnail,
  photographer=excluded.photographer,
  photographer_url=excluded.photographer_url
`, s.namespace, doc.ID, doc.Title, doc.URL, doc.Thumbnail, doc.Photographer, doc.PhotographerURL, doc.Likes, doc.Comments)
	if err != nil {
		return fmt.Errorf("mirror video %s: %w", doc.ID, err)
	}
	s.watchers.notifyVideo(doc.ID)
	return nil
}

// Video is a point read of one canonical record.
func (s *Store) Video(ctx context.Context, id string) (VideoDoc, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, title, url, thumbnail, photographer, photographer_url, likes, comments
FROM videos WHERE namespace = ? AND id = ?
`, s.namespace, id)

	var doc VideoDoc
	err := row.Scan(&doc.ID, &doc.Title, &doc.URL, &doc.Thumbnail,
		&doc.Photographer, &doc.PhotographerURL, &doc.Likes, &doc.Comments)
	if errors.Is(err, sql.ErrNoRows) {
		return VideoDoc{ID: id}, nil
	}
	if err != nil {
		return VideoDoc{}, fmt.Errorf("read video %s: %w", id, err)
	}
	return doc, nil
}

// AdjustLikes atomically applies delta to the aggregate like counter,
// flooring at zero.
func (s *Store) AdjustLikes(ctx context.Context, id string, delta int) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE videos SET likes = MAX(0, likes + ?) WHERE namespace = ? AND id = ?
`, delta, s.namespace, id)
	if err != nil {
		return fmt.Errorf("adjust likes for %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("adjust likes for %s: no such video", id)
	}
	s.watchers.notifyVideo(id)
	return nil
}

// SetLiked writes the per-viewer like flag with a merge (last writer wins).
func (s *Store) SetLiked(ctx context.Context, id, viewerID string, liked bool) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO video_likes (namespace, video_id, viewer_id, liked, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(namespace, video_id, viewer_id) DO UPDATE SET
  liked=excluded.liked,
  updated_at=excluded.updated_at
`, s.namespace, id, viewerID, boolInt(liked), s.nowFn().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("set liked for %s: %w", id, err)
	}
	s.watchers.notifyLiked(id, viewerID)
	return nil
}

// Liked is a point read of the viewer's like flag; absent means false.
func (s *Store) Liked(ctx context.Context, id, viewerID string) (bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT liked FROM video_likes WHERE namespace = ? AND video_id = ? AND viewer_id = ?
`, s.namespace, id, viewerID)

	var liked int
	err := row.Scan(&liked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read liked for %s: %w", id, err)
	}
	return liked != 0, nil
}

// AddComment appends a comment with a store-assigned timestamp and bumps the
// video's aggregate comment counter in the same transaction.
func (s *Store) AddComment(ctx context.Context, id, userID, text string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.nowFn().UTC().Format(timeLayout)
	if _, err := tx.ExecContext(ctx, `
INSERT INTO video_comments (namespace, video_id, user_id, body, created_at)
VALUES (?, ?, ?, ?, ?)
`, s.namespace, id, userID, text, now); err != nil {
		return fmt.Errorf("add comment to %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `
UPDATE videos SET comments = comments + 1 WHERE namespace = ? AND id = ?
`, s.namespace, id); err != nil {
		return fmt.Errorf("bump comment count for %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	s.watchers.notifyComments(id)
	s.watchers.notifyVideo(id)
	return nil
}

// Comments returns the full thread ordered by timestamp ascending, ties
// broken by insertion order.
func (s *Store) Comments(ctx context.Context, id string) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, video_id, user_id, body, created_at
FROM video_comments
WHERE namespace = ? AND video_id = ?
ORDER BY created_at ASC, id ASC
`, s.namespace, id)
	if err != nil {
		return nil, fmt.Errorf("query comments for %s: %w", id, err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		var createdAt string
		if err := rows.Scan(&c.ID, &c.VideoID, &c.UserID, &c.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse comment created_at %q: %w", createdAt, err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return comments, nil
}

// ViewerID returns the stable anonymous viewer identity, creating and
// persisting one on first use.
func (s *Store) ViewerID(ctx context.Context) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'viewer_id'`)
	var id string
	err := row.Scan(&id)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("read viewer id: %w", err)
	}

	id = uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('viewer_id', ?)`, id); err != nil {
		return "", fmt.Errorf("persist viewer id: %w", err)
	}
	return id, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
