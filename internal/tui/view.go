package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"docs-chat/internal/domain"
	"docs-chat/internal/render"
)

const (
	menuHint     = "ctrl+o menu"
	thinkingText = "Thinking..."
	guardrailTag = "Guardrail intervened"
)

func (m Model) View() string {
	body := m.viewport.View()
	if m.menuOpen {
		body = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Right, lipgloss.Top, m.menuView())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), body, m.footerView())
}

func (m Model) headerView() string {
	title := m.styles.Title.Render(HeaderTitle)
	hint := m.styles.MenuHint.Render(menuHint)
	gap := max(1, m.width-lipgloss.Width(title)-lipgloss.Width(hint)-2)
	return m.styles.Header.Render(title + strings.Repeat(" ", gap) + hint)
}

func (m Model) menuView() string {
	check := "[ ]"
	if m.mode.IsDark() {
		check = "[x]"
	}
	lines := []string{
		m.styles.Title.Render("Settings"),
		m.styles.MenuSelected.Render(check + " Dark mode"),
		m.styles.Help.Render("enter toggle · esc close"),
	}
	return m.styles.Menu.Render(strings.Join(lines, "\n"))
}

func (m Model) footerView() string {
	input := m.styles.Input.Width(max(1, m.width-2)).Render(m.input.View())
	line := m.styles.Help.Render(m.helpText())
	if m.status != "" {
		line = m.styles.Status.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, input, line)
}

func (m Model) helpText() string {
	if m.focus != noFocus {
		return "enter open/close · esc close · y copy link · tab next"
	}
	return "enter send · tab references · ctrl+o menu · ctrl+c quit"
}

// renderLog draws every message in order, then the loading bubble if a call
// is outstanding.
func (m *Model) renderLog() string {
	if m.conv == nil {
		return ""
	}
	var focused triggerRef
	if ref, ok := m.focused(); ok {
		focused = ref
	}

	var b strings.Builder
	for _, msg := range m.conv.Messages() {
		switch {
		case msg.Sender == domain.SenderUser:
			b.WriteString(m.userBubble(msg.Text))
		case msg.IsReply():
			b.WriteString(m.replyBlock(m.viewFor(msg), focused))
		default:
			b.WriteString(m.botBubble(msg.Text))
		}
		b.WriteString("\n")
	}
	if m.conv.Pending() {
		b.WriteString(m.botBubble(m.spin.View() + " " + thinkingText))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) bubbleWidth(text string) int {
	limit := max(10, m.width*3/4)
	return min(lipgloss.Width(text)+2, limit)
}

func (m *Model) userBubble(text string) string {
	bubble := m.styles.UserBubble.Width(m.bubbleWidth(text)).Render(text)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, bubble)
}

func (m *Model) botBubble(text string) string {
	return m.styles.BotBubble.Width(m.bubbleWidth(text)).Render(text)
}

func (m *Model) replyBlock(view render.ResponseView, focused triggerRef) string {
	parts := []string{m.botBubble(m.markdownText(view.Text))}
	if view.Intervened {
		parts = append(parts, m.styles.Badge.Render(guardrailTag))
	}
	for _, c := range view.Citations {
		parts = append(parts, m.citationBlock(c, focused))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) markdownText(text string) string {
	if m.md == nil {
		return text
	}
	out, err := m.md.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func (m *Model) citationBlock(c *render.CitationView, focused triggerRef) string {
	lines := []string{m.styles.CitationTitle.Render(c.Title)}
	if c.Excerpt != "" {
		lines = append(lines, m.styles.Excerpt.Render(c.Excerpt))
	}

	triggers := make([]string, 0, len(c.Triggers))
	for _, tr := range c.Triggers {
		label := "[" + tr.Label + "]"
		style := m.styles.Trigger
		switch {
		case focused.citation == c && focused.index == tr.Index:
			style = m.styles.TriggerFocused
		case c.OpenIndex() == tr.Index:
			style = m.styles.TriggerOpen
		}
		triggers = append(triggers, style.Render(label))
	}
	if len(triggers) > 0 {
		lines = append(lines, strings.Join(triggers, " "))
	}

	if panel, ok := c.Panel(); ok {
		lines = append(lines, m.panelBlock(panel))
	}
	return m.styles.CitationBox.Width(max(20, m.width-4)).Render(strings.Join(lines, "\n"))
}

func (m *Model) panelBlock(p render.ReferencePanel) string {
	lines := []string{m.styles.PanelTitle.Render(p.Title), p.Body}
	if p.Location != "" {
		lines = append(lines, fmt.Sprintf("Location (%s): %s", p.LocationType, p.Location))
	}
	for _, row := range p.Rows {
		lines = append(lines, m.styles.RowKey.Render(row.Key+": ")+m.styles.RowValue.Render(row.Value))
		if row.LinkURL != "" {
			lines = append(lines, m.styles.Link.Render(row.LinkLabel)+" "+row.LinkURL)
		}
	}
	return m.styles.Panel.Width(max(16, m.width-10)).Render(strings.Join(lines, "\n"))
}
