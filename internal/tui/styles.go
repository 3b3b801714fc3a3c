package tui

import (
	"github.com/charmbracelet/lipgloss"

	"docs-chat/internal/domain"
)

// palette holds the colors for one display mode.
type palette struct {
	Background lipgloss.Color
	Text       lipgloss.Color
	UserBubble lipgloss.Color
	BotBubble  lipgloss.Color
	Border     lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Danger     lipgloss.Color
}

var (
	lightPalette = palette{
		Background: lipgloss.Color("#FFFFFF"),
		Text:       lipgloss.Color("#333333"),
		UserBubble: lipgloss.Color("#E0F7FA"),
		BotBubble:  lipgloss.Color("#E8EAF6"),
		Border:     lipgloss.Color("#DDDDDD"),
		Accent:     lipgloss.Color("#1976D2"),
		Muted:      lipgloss.Color("#757575"),
		Danger:     lipgloss.Color("#D32F2F"),
	}
	darkPalette = palette{
		Background: lipgloss.Color("#333333"),
		Text:       lipgloss.Color("#FFFFFF"),
		UserBubble: lipgloss.Color("#4F4F4F"),
		BotBubble:  lipgloss.Color("#6C6C6C"),
		Border:     lipgloss.Color("#CCCCCC"),
		Accent:     lipgloss.Color("#90CAF9"),
		Muted:      lipgloss.Color("#BDBDBD"),
		Danger:     lipgloss.Color("#EF9A9A"),
	}
)

func paletteFor(mode domain.Mode) palette {
	if mode.IsDark() {
		return darkPalette
	}
	return lightPalette
}

type styles struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	MenuHint lipgloss.Style

	UserBubble lipgloss.Style
	BotBubble  lipgloss.Style
	Badge      lipgloss.Style

	CitationBox    lipgloss.Style
	CitationTitle  lipgloss.Style
	Excerpt        lipgloss.Style
	Trigger        lipgloss.Style
	TriggerFocused lipgloss.Style
	TriggerOpen    lipgloss.Style

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	RowKey     lipgloss.Style
	RowValue   lipgloss.Style
	Link       lipgloss.Style

	Menu         lipgloss.Style
	MenuSelected lipgloss.Style

	Input  lipgloss.Style
	Help   lipgloss.Style
	Status lipgloss.Style
}

func newStyles(mode domain.Mode) styles {
	p := paletteFor(mode)
	bubble := lipgloss.NewStyle().
		Padding(0, 1).
		MarginBottom(1).
		Foreground(p.Text)

	return styles{
		Header: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Background).
			Bold(true).
			Padding(0, 1),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		MenuHint: lipgloss.NewStyle().Foreground(p.Muted),

		UserBubble: bubble.Background(p.UserBubble),
		BotBubble:  bubble.Background(p.BotBubble),
		Badge:      lipgloss.NewStyle().Foreground(p.Danger).Bold(true),

		CitationBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1).
			MarginTop(1),
		CitationTitle:  lipgloss.NewStyle().Bold(true),
		Excerpt:        lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Trigger:        lipgloss.NewStyle().Foreground(p.Accent),
		TriggerFocused: lipgloss.NewStyle().Foreground(p.Background).Background(p.Accent).Bold(true),
		TriggerOpen:    lipgloss.NewStyle().Foreground(p.Accent).Underline(true).Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1).
			MarginTop(1),
		PanelTitle: lipgloss.NewStyle().Bold(true),
		RowKey:     lipgloss.NewStyle().Bold(true),
		RowValue:   lipgloss.NewStyle().Foreground(p.Muted),
		Link:       lipgloss.NewStyle().Foreground(p.Accent).Underline(true),

		Menu: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		MenuSelected: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border),
		Help:   lipgloss.NewStyle().Foreground(p.Muted),
		Status: lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
	}
}
