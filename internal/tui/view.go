package tui

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/gigglegrid/reel-cli/internal/feed"
	"github.com/gigglegrid/reel-cli/internal/reel"
	"github.com/gigglegrid/reel-cli/internal/social"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.splash {
		return m.splashView()
	}
	if m.showHelp {
		return m.helpView()
	}
	if m.commentsOpen {
		return m.commentsView()
	}
	if m.fatalErr != nil && m.engine.Len() == 0 {
		return m.errorView()
	}
	return m.reelView()
}

func (m Model) splashView() string {
	title := m.theme.AppTitle.Render("Giggle") + m.theme.AppAccent.Render("Grid")
	lines := []string{title, "", m.theme.StateLoad.Render("Loading GiggleGrid...")}
	return centerBlock(lines, m.width, m.height)
}

func (m Model) errorView() string {
	lines := []string{
		m.theme.StateWarn.Render("Failed to load videos"),
		"",
		wrapToWidth(m.fatalErr.Error(), m.width-4),
		"",
		m.theme.CardBody.Render("Check PEXELS_API_KEY and your network connection. Press r to retry, q to quit."),
	}
	return centerBlock(lines, m.width, m.height)
}

func (m Model) helpView() string {
	lines := []string{
		m.theme.ModalHeader.Render("Keys"),
		"",
		"Navigation:",
		"  j/k or arrows move one video; mouse wheel steps with a debounce",
		"  drag with the mouse: release past a quarter of the screen (or flick) to commit",
		"  click top half = previous, bottom half = next",
		"Actions:",
		"  l like, c comments, s share (copies media URL), m mute/unmute",
		"  o open the author's Pexels page in a browser",
		"Other:",
		"  r reload feed, ? toggle help, q quit",
	}
	return padToHeight(strings.Join(lines, "\n"), m.height)
}

// reelView samples the vertically stacked cards through the animated offset,
// so transitions and rubber-band overshoot scroll the actual card content.
func (m Model) reelView() string {
	h := m.reelHeight()
	offset := m.engine.Offset()
	extent := float64(h)

	cards := make(map[int][]string)
	rows := make([]string, 0, m.height)
	for r := 0; r < h; r++ {
		world := float64(r) - offset
		idx := int(math.Floor(world / extent))
		if idx < 0 || idx >= m.engine.Len() {
			rows = append(rows, "")
			continue
		}
		lines, ok := cards[idx]
		if !ok {
			lines = m.cardLines(idx, h)
			cards[idx] = lines
		}
		inRow := int(world - float64(idx)*extent)
		if inRow < 0 {
			inRow = 0
		}
		if inRow >= len(lines) {
			inRow = len(lines) - 1
		}
		rows = append(rows, lines[inRow])
	}

	rows = append(rows, m.footer()...)
	return strings.Join(rows, "\n")
}

// cardLines renders item idx as exactly height lines: media area on top,
// metadata pinned to the bottom, the action column on the right edge.
func (m Model) cardLines(idx, height int) []string {
	item := m.engine.Item(idx)
	active := idx == m.engine.CurrentIndex()
	attached := reel.Attached(idx, m.engine.CurrentIndex(), m.engine.Len())

	lines := make([]string, height)

	meta := m.cardMeta(item, active)
	actionsCol := m.cardActions(item)

	// Media area fills whatever the metadata block does not use.
	mediaHeight := height - len(meta)
	if mediaHeight < 1 {
		mediaHeight = 1
	}
	media := m.mediaLines(item, active, attached, mediaHeight)

	i := 0
	for _, l := range media {
		if i >= height {
			break
		}
		lines[i] = l
		i++
	}
	for _, l := range meta {
		if i >= height {
			break
		}
		lines[i] = l
		i++
	}

	// Overlay the action column on the card's lower right.
	start := height - len(actionsCol) - len(meta)
	if start < 0 {
		start = 0
	}
	for j, l := range actionsCol {
		row := start + j
		if row >= 0 && row < height {
			lines[row] = overlayRight(lines[row], l, m.width)
		}
	}

	return lines
}

func (m Model) mediaLines(item feed.Item, active, attached bool, height int) []string {
	lines := make([]string, height)
	mid := height / 2

	switch {
	case m.broken[item.ID]:
		lines[mid] = centerLine(m.theme.Broken.Render("Media unavailable for this video"), m.width)
	case !attached:
		lines[mid] = centerLine(m.theme.Placeholder.Render("Video not loaded (scroll closer)"), m.width)
	case active:
		label := "playing"
		if m.muted {
			label = "playing (muted)"
		}
		lines[mid] = centerLine(m.theme.StateIdle.Render("> "+label), m.width)
		if m.muted && !m.hintDismissed && mid+1 < height {
			lines[mid+1] = centerLine(m.theme.Hint.Render("press m to unmute"), m.width)
		}
	default:
		lines[mid] = centerLine(m.theme.Placeholder.Render("|| paused"), m.width)
	}
	return lines
}

func (m Model) cardMeta(item feed.Item, active bool) []string {
	textWidth := m.width - 2
	title := truncateRunes(item.Title, textWidth)
	desc := truncateRunes(item.Description, textWidth)
	byline := truncateRunes(fmt.Sprintf("By %s (Pexels)", item.Author), textWidth)

	titleStyle := m.theme.CardTitle
	if !active {
		titleStyle = m.theme.CardBody
	}
	return []string{
		" " + titleStyle.Render(title),
		" " + m.theme.CardBody.Render(desc),
		" " + m.theme.CardAuthor.Render(byline),
	}
}

func (m Model) cardActions(item feed.Item) []string {
	snap, tracked := m.social[item.ID]
	likes := "-"
	commentCount := "-"
	if tracked {
		likes = social.FormatCount(snap.Likes)
		commentCount = social.FormatCount(snap.Comments)
	}
	heart := "[ ]"
	if snap.Liked {
		heart = "[x]"
	}
	return []string{
		m.theme.StyleCount(snap.Liked, fmt.Sprintf("%s %s like", heart, likes)),
		m.theme.CountIdle.Render(fmt.Sprintf("(c) %s cmnt", commentCount)),
		m.theme.CountIdle.Render("(s) share"),
	}
}

func (m Model) commentsView() string {
	header := m.theme.ModalHeader.Render(fmt.Sprintf("Comments (%d)", len(m.thread.Comments)))
	lines := []string{header, strings.Repeat("-", max(1, m.width-1))}

	listHeight := m.height - 4
	start := 0
	if len(m.thread.Comments) > listHeight {
		start = len(m.thread.Comments) - listHeight
	}
	if len(m.thread.Comments) == 0 {
		lines = append(lines, m.theme.Placeholder.Render("No comments yet. Be the first!"))
	}
	for _, c := range m.thread.Comments[start:] {
		user := m.theme.CommentUser.Render(shortUserID(c.UserID))
		when := m.theme.CommentTime.Render(c.CreatedAt.Local().Format("2006-01-02 15:04"))
		lines = append(lines, fmt.Sprintf("%s %s", user, when))
		lines = append(lines, "  "+truncateRunes(c.Text, m.width-3))
	}

	body := padToHeight(strings.Join(lines, "\n"), m.height-1)
	input := m.theme.InputPrompt.Render("> ") + m.commentInput + "_"
	return body + "\n" + input
}

func (m Model) footer() []string {
	position := "-/-"
	if m.engine.Len() > 0 {
		position = fmt.Sprintf("%d/%d", m.engine.CurrentIndex()+1, m.engine.Len())
	}
	st := m.theme.StateIdle.Render("idle")
	if m.loading || m.loadingMore {
		st = m.theme.StateLoad.Render("loading")
	}
	first := fmt.Sprintf("Video: %s | State: %s | ? help, q quit", position, st)

	second := ""
	if m.status != "" {
		second = m.theme.StateWarn.Render(truncateRunes(m.status, m.width-1))
	}
	return []string{first, second}
}

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func visibleLen(s string) int {
	return len([]rune(reANSICodes.ReplaceAllString(s, "")))
}

func shortUserID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:8] + "..." + id[len(id)-4:]
}

func centerLine(s string, width int) string {
	pad := (width - visibleLen(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

func centerBlock(lines []string, width, height int) string {
	top := (height - len(lines)) / 2
	if top < 0 {
		top = 0
	}
	out := make([]string, 0, height)
	for i := 0; i < top; i++ {
		out = append(out, "")
	}
	for _, l := range lines {
		out = append(out, centerLine(l, width))
	}
	return padToHeight(strings.Join(out, "\n"), height)
}

func padToHeight(s string, height int) string {
	lines := strings.Split(s, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}

func overlayRight(base, overlay string, width int) string {
	baseLen := visibleLen(base)
	pad := width - visibleLen(overlay) - 1 - baseLen
	if pad < 1 {
		pad = 1
	}
	return base + strings.Repeat(" ", pad) + overlay
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

func wrapToWidth(s string, width int) string {
	if width < 10 {
		width = 10
	}
	var b strings.Builder
	line := 0
	for _, word := range strings.Fields(s) {
		if line > 0 && line+len(word)+1 > width {
			b.WriteString("\n")
			line = 0
		} else if line > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(word)
		line += len(word)
	}
	return b.String()
}
