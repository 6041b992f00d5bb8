package actions

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gigglegrid/reel-cli/internal/comments"
	"github.com/gigglegrid/reel-cli/internal/feed"
	"github.com/gigglegrid/reel-cli/internal/social"
)

type Service interface {
	Initial(ctx context.Context) ([]feed.Item, error)
	More(ctx context.Context) ([]feed.Item, error)
}

type InitialLoadedMsg struct {
	Items    []feed.Item
	Duration time.Duration
}

type InitialErrorMsg struct {
	Err error
}

type MoreLoadedMsg struct {
	Items []feed.Item
}

type MoreErrorMsg struct {
	Err error
}

type SocialMsg social.Snapshot

type ThreadMsg comments.ThreadSnapshot

type CommentPostedMsg struct {
	Err error
}

type ShareResultMsg struct {
	URL    string
	Copied bool
}

type OpenResultMsg struct {
	URL string
	Err error
}

// FrameMsg drives the offset animation while the motion model is active.
type FrameMsg time.Time

type ClearStatusMsg struct {
	ID int
}

const fetchTimeout = 15 * time.Second

// FrameInterval is the animation cadence for reel transitions.
const FrameInterval = time.Second / 30

func InitialLoadCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		start := time.Now()

		items, err := service.Initial(ctx)
		if err != nil {
			return InitialErrorMsg{Err: err}
		}
		return InitialLoadedMsg{Items: items, Duration: time.Since(start)}
	}
}

func LoadMoreCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		items, err := service.More(ctx)
		if err != nil {
			return MoreErrorMsg{Err: err}
		}
		return MoreLoadedMsg{Items: items}
	}
}

// WaitSocialCmd blocks on the tracker's update stream and surfaces the next
// snapshot as a message. The model re-issues it after each delivery.
func WaitSocialCmd(updates <-chan social.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return SocialMsg(snap)
	}
}

func WaitThreadCmd(updates <-chan comments.ThreadSnapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return ThreadMsg(snap)
	}
}

func PostCommentCmd(threads *comments.Threads, itemID, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return CommentPostedMsg{Err: threads.Post(ctx, itemID, text)}
	}
}

func ShareCmd(copyFn func(string) error, mediaURL string) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil && copyFn(mediaURL) == nil {
			return ShareResultMsg{URL: mediaURL, Copied: true}
		}
		return ShareResultMsg{URL: mediaURL, Copied: false}
	}
}

// OpenCmd hands a page URL to the platform browser opener.
func OpenCmd(openFn func(string) error, pageURL string) tea.Cmd {
	return func() tea.Msg {
		return OpenResultMsg{URL: pageURL, Err: openFn(pageURL)}
	}
}

func FrameCmd() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func ClearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
