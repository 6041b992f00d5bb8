package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gigglegrid/reel-cli/internal/comments"
	"github.com/gigglegrid/reel-cli/internal/reel"
	"github.com/gigglegrid/reel-cli/internal/social"
	"github.com/gigglegrid/reel-cli/internal/tui/actions"
	"github.com/gigglegrid/reel-cli/internal/tui/platform"
	"github.com/gigglegrid/reel-cli/internal/tui/state"
	"github.com/gigglegrid/reel-cli/internal/tui/theme"
)

// footerHeight is the chrome below the reel viewport.
const footerHeight = 2

const statusClearAfter = 4 * time.Second

type Model struct {
	service actions.Service
	engine  *reel.Engine
	tracker *social.Tracker
	threads *comments.Threads
	theme   theme.Theme

	width  int
	height int

	splash      bool
	loading     bool
	loadingMore bool
	fatalErr    error
	status      string
	statusID    int

	muted         bool
	hintDismissed bool
	showHelp      bool

	social map[string]social.Snapshot
	broken map[string]bool

	commentsOpen bool
	commentInput string
	thread       comments.ThreadSnapshot

	drag      state.DragTracker
	wheel     state.WheelGate
	animating bool

	copyFn func(string) error
	openFn func(string) error
	nowFn  func() time.Time
}

func NewModel(service actions.Service, engine *reel.Engine, tracker *social.Tracker, threads *comments.Threads) Model {
	return Model{
		service: service,
		engine:  engine,
		tracker: tracker,
		threads: threads,
		theme:   theme.Default(),
		splash:  true,
		loading: true,
		muted:   true,
		social:  make(map[string]social.Snapshot),
		broken:  make(map[string]bool),
		copyFn:  platform.CopyToClipboard,
		openFn:  platform.OpenURLInBrowser,
		nowFn:   time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{actions.InitialLoadCmd(m.service)}
	if m.tracker != nil {
		cmds = append(cmds, actions.WaitSocialCmd(m.tracker.Updates()))
	}
	if m.threads != nil {
		cmds = append(cmds, actions.WaitThreadCmd(m.threads.Updates()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.engine.SetViewport(float64(m.reelHeight()))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case actions.InitialLoadedMsg:
		m.splash = false
		m.loading = false
		m.fatalErr = nil
		m.engine.Initialize(msg.Items)
		m.engine.SetViewport(float64(m.reelHeight()))
		return m, m.afterNavigation()

	case actions.InitialErrorMsg:
		m.splash = false
		m.loading = false
		m.fatalErr = msg.Err
		return m, nil

	case actions.MoreLoadedMsg:
		m.loadingMore = false
		if len(msg.Items) > 0 {
			m.engine.Append(msg.Items)
		}
		return m, m.afterNavigation()

	case actions.MoreErrorMsg:
		m.loadingMore = false
		return m, m.setStatus("Could not load more videos: " + msg.Err.Error())

	case actions.SocialMsg:
		m.social[msg.ItemID] = social.Snapshot(msg)
		return m, actions.WaitSocialCmd(m.tracker.Updates())

	case actions.ThreadMsg:
		if m.commentsOpen && m.threads.OpenID() == msg.ItemID {
			m.thread = comments.ThreadSnapshot(msg)
		}
		return m, actions.WaitThreadCmd(m.threads.Updates())

	case actions.CommentPostedMsg:
		if msg.Err != nil {
			return m, m.setStatus("Comment failed: " + msg.Err.Error())
		}
		return m, nil

	case actions.ShareResultMsg:
		if msg.Copied {
			return m, m.setStatus("Media URL copied to clipboard")
		}
		return m, m.setStatus("Share: " + msg.URL)

	case actions.OpenResultMsg:
		if msg.Err != nil {
			return m, m.setStatus("Could not open browser: " + msg.Err.Error())
		}
		return m, m.setStatus("Opened author page in browser")

	case actions.FrameMsg:
		if m.engine.Tick() {
			return m, actions.FrameCmd()
		}
		m.animating = false
		return m, nil

	case actions.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.commentsOpen {
		return m.handleCommentKey(msg)
	}

	switch msg.String() {
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.showHelp {
		switch msg.String() {
		case "esc":
			m.showHelp = false
			return m, nil
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.engine.Step(-1)
		return m, m.afterNavigation()
	case "down", "j":
		m.engine.Step(1)
		return m, m.afterNavigation()
	case "m":
		m.muted = !m.muted
		m.hintDismissed = true
		return m, nil
	case "l":
		if item, ok := m.engine.Current(); ok {
			m.tracker.ToggleLike(item.ID)
		}
		return m, nil
	case "c":
		if item, ok := m.engine.Current(); ok {
			m.commentsOpen = true
			m.commentInput = ""
			m.thread = comments.ThreadSnapshot{ItemID: item.ID}
			m.threads.Open(item.ID)
		}
		return m, nil
	case "s":
		item, ok := m.engine.Current()
		if !ok {
			return m, nil
		}
		mediaURL, err := platform.ValidateMediaURL(item.MediaURL)
		if err != nil {
			m.MarkBroken(item.ID)
			return m, m.setStatus(err.Error())
		}
		return m, actions.ShareCmd(m.copyFn, mediaURL)
	case "o":
		item, ok := m.engine.Current()
		if !ok {
			return m, nil
		}
		if item.AuthorURL == "" {
			return m, m.setStatus("No author page for this video")
		}
		return m, actions.OpenCmd(m.openFn, item.AuthorURL)
	case "r":
		// Reload waits for any in-flight page fetch so fetches stay
		// strictly sequential.
		if m.loading || m.loadingMore {
			return m, nil
		}
		m.loading = true
		m.fatalErr = nil
		m.status = ""
		return m, actions.InitialLoadCmd(m.service)
	}
	return m, nil
}

func (m Model) handleCommentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.commentsOpen = false
		m.commentInput = ""
		m.threads.Close()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		itemID := m.threads.OpenID()
		text := m.commentInput
		// The input clears immediately; the live subscription reflects the
		// comment once the write lands.
		m.commentInput = ""
		if itemID == "" {
			return m, nil
		}
		return m, actions.PostCommentCmd(m.threads, itemID, text)
	case "backspace":
		if len(m.commentInput) > 0 {
			runes := []rune(m.commentInput)
			m.commentInput = string(runes[:len(runes)-1])
		}
		return m, nil
	}
	if msg.Type == tea.KeyRunes {
		m.commentInput += string(msg.Runes)
	} else if msg.Type == tea.KeySpace {
		m.commentInput += " "
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.commentsOpen || m.showHelp {
		return m, nil
	}
	now := m.nowFn()

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Action == tea.MouseActionPress && m.wheel.Allow(now) {
			m.engine.Step(-1)
			return m, m.afterNavigation()
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if msg.Action == tea.MouseActionPress && m.wheel.Allow(now) {
			m.engine.Step(1)
			return m, m.afterNavigation()
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.drag.Start(msg.X, msg.Y, now)
		}
		return m, nil
	case tea.MouseActionMotion:
		if delta, ok := m.drag.Move(msg.Y, now); ok {
			m.engine.DragMove(delta)
		}
		return m, nil
	case tea.MouseActionRelease:
		total, velocity, tapped, ok := m.drag.End(msg.Y, now)
		if !ok {
			return m, nil
		}
		if tapped {
			// Snap back from the (negligible) drag before deciding the tap.
			m.engine.DragEnd(0, 0)
			if state.InActionColumn(m.drag.StartX(), m.width) {
				return m, m.afterNavigation()
			}
			step := state.ClickZoneStep(msg.Y, m.reelHeight())
			m.engine.Step(step)
			return m, m.afterNavigation()
		}
		m.engine.DragEnd(total, velocity)
		return m, m.afterNavigation()
	}
	return m, nil
}

// afterNavigation reconciles everything derived from the current index: the
// social subscription window, the pagination trigger and the frame loop.
func (m *Model) afterNavigation() tea.Cmd {
	var cmds []tea.Cmd

	if m.tracker != nil {
		m.tracker.SetTracked(m.engine.AttachedIDs())
	}

	if m.engine.WantsNextPage() && !m.loadingMore {
		m.loadingMore = true
		cmds = append(cmds, actions.LoadMoreCmd(m.service))
	}

	if m.engine.Animating() && !m.animating {
		m.animating = true
		cmds = append(cmds, actions.FrameCmd())
	}

	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.status = text
	m.statusID++
	return actions.ClearStatusCmd(m.statusID, statusClearAfter)
}

// MarkBroken records a per-item media failure; the card shows a non-blocking
// broken-media affordance and navigation is unaffected.
func (m *Model) MarkBroken(itemID string) {
	m.broken[itemID] = true
}

func (m Model) reelHeight() int {
	h := m.height - footerHeight
	if h < 1 {
		return 1
	}
	return h
}
