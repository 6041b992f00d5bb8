package theme

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	AppTitle    lipgloss.Style
	AppAccent   lipgloss.Style
	CardTitle   lipgloss.Style
	CardBody    lipgloss.Style
	CardAuthor  lipgloss.Style
	CountLiked  lipgloss.Style
	CountIdle   lipgloss.Style
	Hint        lipgloss.Style
	Placeholder lipgloss.Style
	Broken      lipgloss.Style
	StateIdle   lipgloss.Style
	StateWarn   lipgloss.Style
	StateLoad   lipgloss.Style
	ModalHeader lipgloss.Style
	CommentUser lipgloss.Style
	CommentTime lipgloss.Style
	InputPrompt lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpOverlay1 := lipgloss.Color("#7f849c")

	return Theme{
		AppTitle:    lipgloss.NewStyle().Bold(true).Foreground(cpText),
		AppAccent:   lipgloss.NewStyle().Bold(true).Foreground(cpRed),
		CardTitle:   lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		CardBody:    lipgloss.NewStyle().Foreground(cpSubtext0),
		CardAuthor:  lipgloss.NewStyle().Foreground(cpOverlay1),
		CountLiked:  lipgloss.NewStyle().Bold(true).Foreground(cpRed),
		CountIdle:   lipgloss.NewStyle().Foreground(cpText),
		Hint:        lipgloss.NewStyle().Foreground(cpYellow),
		Placeholder: lipgloss.NewStyle().Foreground(cpOverlay1),
		Broken:      lipgloss.NewStyle().Foreground(cpRed),
		StateIdle:   lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:   lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:   lipgloss.NewStyle().Foreground(cpPeach),
		ModalHeader: lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		CommentUser: lipgloss.NewStyle().Bold(true).Foreground(cpLavender),
		CommentTime: lipgloss.NewStyle().Foreground(cpOverlay1),
		InputPrompt: lipgloss.NewStyle().Foreground(cpMauve),
	}
}

// StyleCount renders a like counter, highlighted when the viewer has liked.
func (t Theme) StyleCount(liked bool, label string) string {
	if liked {
		return t.CountLiked.Render(label)
	}
	return t.CountIdle.Render(label)
}
