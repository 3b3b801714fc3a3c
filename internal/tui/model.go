// Package tui is the interactive terminal shell: header with a settings menu,
// the conversation log, and the input box.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"docs-chat/internal/domain"
	"docs-chat/internal/render"
	"docs-chat/internal/usecase"
)

const (
	HeaderTitle      = "AMP Documentation Chat"
	InputPlaceholder = "Type your message..."

	defaultWidth    = 80
	defaultHeight   = 24
	defaultWordWrap = 80
	headerHeight    = 1
	footerHeight    = 4
	noFocus         = -1
)

var clipboardWrite = clipboard.WriteAll

// replyMsg carries the bot message appended by a finished submit.
type replyMsg struct {
	message domain.Message
}

type copiedMsg struct {
	err error
}

// logWatch records that the conversation log changed since the last frame.
// The listener runs on whatever goroutine mutated the log, so it only flips a
// flag; Update picks it up and scrolls.
type logWatch struct {
	changed atomic.Bool
}

func (w *logWatch) observe(usecase.Event) {
	w.changed.Store(true)
}

// triggerRef addresses one reference trigger in the log.
type triggerRef struct {
	messageID string
	citation  *render.CitationView
	index     int
}

type Model struct {
	ctx    context.Context
	conv   *usecase.Conversation
	prefs  *usecase.PreferenceService
	logger *slog.Logger
	watch  *logWatch

	mode     domain.Mode
	styles   styles
	markdown bool
	wordWrap int
	md       *glamour.TermRenderer

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	views    map[string]render.ResponseView
	focus    int
	menuOpen bool
	status   string

	width  int
	height int
}

type Option func(*Model)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// WithWordWrap caps the markdown wrap width.
func WithWordWrap(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.wordWrap = n
		}
	}
}

// WithMarkdown switches glamour rendering of reply text on or off.
func WithMarkdown(enabled bool) Option {
	return func(m *Model) {
		m.markdown = enabled
	}
}

// New builds the shell around a fresh conversation. The stored display mode is
// loaded up front.
func New(client usecase.Retriever, prefs *usecase.PreferenceService, opts ...Option) (Model, error) {
	if prefs == nil {
		return Model{}, errors.New("tui: preference service must not be nil")
	}
	m := Model{
		ctx:      context.Background(),
		prefs:    prefs,
		logger:   slog.Default(),
		watch:    &logWatch{},
		markdown: true,
		wordWrap: defaultWordWrap,
		views:    make(map[string]render.ResponseView),
		focus:    noFocus,
	}
	for _, opt := range opts {
		opt(&m)
	}

	conv, err := usecase.NewConversation(client,
		usecase.WithLogger(m.logger),
		usecase.WithListener(m.watch.observe),
	)
	if err != nil {
		return Model{}, err
	}
	m.conv = conv

	m.input = textinput.New()
	m.input.Placeholder = InputPlaceholder
	m.input.Prompt = "> "
	m.input.Focus()

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot

	m.viewport = viewport.New(defaultWidth, defaultHeight-headerHeight-footerHeight)
	m.setMode(prefs.Load(m.ctx))
	m.resize(defaultWidth, defaultHeight)
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Mode returns the active display mode.
func (m Model) Mode() domain.Mode {
	return m.mode
}

func (m Model) Conversation() *usecase.Conversation {
	return m.conv
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case replyMsg:
		m.input.SetValue(m.conv.Draft())
		m.logger.DebugContext(m.ctx, "reply settled", "message_id", msg.message.ID)

	case copiedMsg:
		if msg.err != nil {
			m.logger.WarnContext(m.ctx, "clipboard write failed", "err", msg.err)
			m.status = "Could not copy link"
		} else {
			m.status = "Link copied"
		}

	case spinner.TickMsg:
		if m.conv.Pending() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
			m.refresh()
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.watch.changed.Swap(false) {
		m.refresh()
		m.viewport.GotoBottom()
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(k tea.KeyMsg) tea.Cmd {
	if k.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.menuOpen {
		return m.handleMenuKey(k)
	}

	switch k.String() {
	case "ctrl+o":
		m.menuOpen = true
		return nil
	case "tab":
		m.moveFocus(1)
		return nil
	case "shift+tab":
		m.moveFocus(-1)
		return nil
	case "up":
		m.viewport.LineUp(1)
		return nil
	case "down":
		m.viewport.LineDown(1)
		return nil
	case "pgup":
		m.viewport.HalfViewUp()
		return nil
	case "pgdown":
		m.viewport.HalfViewDown()
		return nil
	}

	if m.focus != noFocus {
		if cmd, handled := m.handleBrowseKey(k); handled {
			return cmd
		}
		m.focus = noFocus
		m.refresh()
	}

	if k.String() == "enter" {
		return m.submit()
	}

	m.status = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(k)
	m.conv.SetDraft(m.input.Value())
	return cmd
}

func (m *Model) handleMenuKey(k tea.KeyMsg) tea.Cmd {
	switch {
	case k.Type == tea.KeyEsc || k.Type == tea.KeyCtrlO:
		m.menuOpen = false
	case k.Type == tea.KeyEnter || k.Type == tea.KeySpace:
		m.toggleMode()
	}
	return nil
}

// handleBrowseKey handles keys while a reference trigger has focus. It reports
// false for keys that should fall through to the input.
func (m *Model) handleBrowseKey(k tea.KeyMsg) (tea.Cmd, bool) {
	ref, ok := m.focused()
	if !ok {
		return nil, false
	}
	switch k.String() {
	case "enter":
		ref.citation.Toggle(ref.index)
		m.refresh()
		return nil, true
	case "esc":
		if ref.citation.OpenIndex() >= 0 {
			ref.citation.Close()
		} else {
			m.focus = noFocus
		}
		m.refresh()
		return nil, true
	case "y":
		panel, _ := ref.citation.PanelAt(ref.index)
		if panel.SignedURL == "" {
			m.status = "No link for this reference"
			return nil, true
		}
		url := panel.SignedURL
		return func() tea.Msg {
			return copiedMsg{err: clipboardWrite(url)}
		}, true
	}
	return nil, false
}

// submit appends the user message now and runs the API call off the event
// loop. Any text is sent, including an empty line.
func (m *Model) submit() tea.Cmd {
	ex := m.conv.Begin(m.input.Value())
	m.status = ""
	m.logger.DebugContext(m.ctx, "submitting message", "message_id", ex.Request.ID)

	conv, ctx := m.conv, m.ctx
	complete := func() tea.Msg {
		return replyMsg{message: conv.Complete(ctx, ex)}
	}
	return tea.Batch(complete, m.spin.Tick)
}

func (m *Model) toggleMode() {
	next, err := m.prefs.Toggle(m.ctx, m.mode)
	if err != nil {
		m.logger.WarnContext(m.ctx, "display mode not saved", "mode", next, "err", err)
		m.status = "Display mode not saved"
	}
	m.setMode(next)
}

func (m *Model) setMode(mode domain.Mode) {
	m.mode = mode
	m.styles = newStyles(mode)
	m.md = m.newMarkdownRenderer()
	m.refresh()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = width
	m.viewport.Height = max(1, height-headerHeight-footerHeight)
	m.input.Width = max(1, width-len(m.input.Prompt)-4)
	m.md = m.newMarkdownRenderer()
	m.refresh()
}

func (m *Model) newMarkdownRenderer() *glamour.TermRenderer {
	if !m.markdown {
		return nil
	}
	wrap := m.wordWrap
	if m.width > 0 {
		wrap = min(wrap, max(20, m.width-8))
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.mode.String()),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable", "err", err)
		return nil
	}
	return r
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderLog())
}

func (m *Model) viewFor(msg domain.Message) render.ResponseView {
	if v, ok := m.views[msg.ID]; ok {
		return v
	}
	v := render.RenderResponse(msg.Reply)
	m.views[msg.ID] = v
	return v
}

// triggers lists every reference trigger in log order. The log only grows, so
// an index into this list stays valid across appends.
func (m *Model) triggers() []triggerRef {
	var out []triggerRef
	for _, msg := range m.conv.Messages() {
		if !msg.IsReply() {
			continue
		}
		view := m.viewFor(msg)
		for _, c := range view.Citations {
			for _, tr := range c.Triggers {
				out = append(out, triggerRef{messageID: msg.ID, citation: c, index: tr.Index})
			}
		}
	}
	return out
}

func (m *Model) focused() (triggerRef, bool) {
	if m.focus == noFocus {
		return triggerRef{}, false
	}
	all := m.triggers()
	if m.focus >= len(all) {
		return triggerRef{}, false
	}
	return all[m.focus], true
}

func (m *Model) moveFocus(delta int) {
	n := len(m.triggers())
	if n == 0 {
		m.status = "No references to browse"
		return
	}
	switch {
	case m.focus == noFocus && delta > 0:
		m.focus = 0
	case m.focus == noFocus:
		m.focus = n - 1
	default:
		m.focus = (m.focus + delta + n) % n
	}
	m.status = ""
	m.refresh()
}
