package tui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/franzer/glitchnav/internal/config"
	"github.com/franzer/glitchnav/internal/scramble"
	"github.com/franzer/glitchnav/internal/types"
)

const (
	// navRow is the screen row the link bar is drawn on.
	navRow    = 2
	navMargin = 2
	separator = " "
)

type styles struct {
	title  lipgloss.Style
	link   lipgloss.Style
	hover  lipgloss.Style
	plain  lipgloss.Style
	detail lipgloss.Style
	status lipgloss.Style
}

func newStyles(noColor bool) styles {
	base := lipgloss.NewStyle().Padding(0, 1)
	if noColor {
		return styles{
			title:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
			link:   base,
			hover:  base.Underline(true),
			plain:  base,
			detail: lipgloss.NewStyle(),
			status: lipgloss.NewStyle(),
		}
	}
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1),
		link: base.
			Foreground(lipgloss.Color("15")),
		hover: base.
			Foreground(lipgloss.Color("232")).
			Background(lipgloss.Color("51")).
			Bold(true),
		plain: base.
			Foreground(lipgloss.Color("244")),
		detail: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")),
		status: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7")),
	}
}

type statusMsg string

// span is the horizontal extent of a link on navRow, [x0, x1).
type span struct {
	id     string
	x0, x1 int
}

// Model is the bubbletea model of the navigation bar.
type Model struct {
	engine   *scramble.Engine
	sched    *teaScheduler
	settings config.Settings
	links    []types.Link
	styles   styles
	keys     keyMap
	help     help.Model
	input    textinput.Model
	logger   *log.Logger

	hovered string // link under the pointer or keyboard focus
	focus   int    // index into links, -1 when nothing is focused

	width    int
	height   int
	ready    bool
	quitting bool
	adding   bool
	showHelp bool

	statusMessage string
	statusTimeout *time.Time

	copyText func(string) error
}

// NewModel builds the model and installs the effect on every selected link
// that carries text. A nil logger disables lifecycle logging.
func NewModel(settings config.Settings, logger *log.Logger) Model {
	sched := newTeaScheduler()
	cfg := settings.Engine()
	if logger != nil {
		cfg.Observer = func(ev scramble.Event) {
			logger.Printf("%s: session %s after %d ticks", ev.Target, ev.Kind, ev.Ticks)
		}
	}
	eng := scramble.New(sched, cfg)

	links := append([]types.Link(nil), settings.Links...)
	for _, l := range links {
		if settings.Installed(l) {
			eng.Attach(l.ID, l.Text)
		}
	}

	ti := textinput.New()
	ti.Placeholder = "Link text..."
	ti.CharLimit = 40
	ti.Width = 40
	ti.Prompt = "+ "

	return Model{
		engine:        eng,
		sched:         sched,
		settings:      settings,
		links:         links,
		styles:        newStyles(settings.NoColor),
		keys:          defaultKeyMap(),
		help:          help.New(),
		input:         ti,
		logger:        logger,
		focus:         -1,
		statusMessage: "hover a link, or tab through them",
		copyText:      clipboard.WriteAll,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.expireStatus(time.Now())

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case timerFiredMsg:
		m.sched.fire(msg.id)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionMotion || msg.Action == tea.MouseActionPress {
			id := m.hitTest(msg.X, msg.Y)
			m.focus = m.indexOf(id)
			m.hover(id)
		}

	case statusMsg:
		m.setStatus(string(msg))

	case tea.KeyMsg:
		if m.adding {
			cmds = append(cmds, m.updateAdding(msg))
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.engine.Close()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
		case key.Matches(msg, m.keys.Next):
			m.moveFocus(1)
		case key.Matches(msg, m.keys.Prev):
			m.moveFocus(-1)
		case key.Matches(msg, m.keys.Leave):
			m.focus = -1
			m.hover("")
		case key.Matches(msg, m.keys.Copy):
			cmds = append(cmds, m.copyFocused())
		case key.Matches(msg, m.keys.Detach):
			m.detachFocused()
		case key.Matches(msg, m.keys.Add):
			m.adding = true
			m.input.SetValue("")
			cmds = append(cmds, m.input.Focus())
		}
	}

	cmds = append(cmds, m.sched.flush())
	return m, tea.Batch(cmds...)
}

// hover moves the pointer onto id: the previous link gets pointer-leave,
// the new one pointer-enter. An empty id means no link is hovered.
func (m *Model) hover(id string) {
	if id == m.hovered {
		return
	}
	if m.hovered != "" {
		m.engine.Deactivate(m.hovered)
	}
	m.hovered = id
	if id == "" {
		return
	}
	if err := m.engine.Activate(id); err != nil {
		m.setStatus(fmt.Sprintf("Effect error: %v", err))
	}
}

func (m *Model) moveFocus(dir int) {
	if len(m.links) == 0 {
		return
	}
	switch {
	case m.focus < 0 && dir > 0:
		m.focus = 0
	case m.focus < 0:
		m.focus = len(m.links) - 1
	default:
		m.focus = (m.focus + dir + len(m.links)) % len(m.links)
	}
	m.hover(m.links[m.focus].ID)
}

func (m *Model) indexOf(id string) int {
	for i, l := range m.links {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) focused() (types.Link, bool) {
	if m.focus < 0 || m.focus >= len(m.links) {
		return types.Link{}, false
	}
	return m.links[m.focus], true
}

func (m *Model) copyFocused() tea.Cmd {
	l, ok := m.focused()
	if !ok {
		return func() tea.Msg { return statusMsg("No link focused") }
	}
	text, ok := m.engine.Original(l.ID)
	if !ok {
		text = l.Caption()
	}
	if err := m.copyText(text); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	return func() tea.Msg { return statusMsg(fmt.Sprintf("Copied %q", text)) }
}

func (m *Model) detachFocused() {
	l, ok := m.focused()
	if !ok {
		m.setStatus("No link focused")
		return
	}
	if _, attached := m.engine.Original(l.ID); !attached {
		m.setStatus(fmt.Sprintf("%s has no effect installed", l.ID))
		return
	}
	m.engine.Detach(l.ID)
	m.setStatus(fmt.Sprintf("Removed effect from %s", l.ID))
}

func (m *Model) updateAdding(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		return nil
	case tea.KeyEnter:
		m.adding = false
		m.input.Blur()
		m.addLink(strings.TrimSpace(m.input.Value()))
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) addLink(text string) {
	if text == "" {
		m.setStatus("Empty link text, nothing added")
		return
	}
	base := "nav/" + slug(text)
	id := base
	for n := 2; m.indexOf(id) >= 0; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	l := types.Link{ID: id, Text: text}
	m.links = append(m.links, l)
	if m.settings.Installed(l) {
		m.engine.Attach(l.ID, l.Text)
		m.setStatus(fmt.Sprintf("Added %s", id))
		return
	}
	m.setStatus(fmt.Sprintf("Added %s (not selected for the effect)", id))
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "link"
	}
	return out
}

func (m *Model) setStatus(s string) {
	m.statusMessage = s
	timeout := time.Now().Add(5 * time.Second)
	m.statusTimeout = &timeout
}

func (m *Model) expireStatus(now time.Time) {
	if m.statusTimeout != nil && now.After(*m.statusTimeout) {
		m.statusMessage = ""
		m.statusTimeout = nil
	}
}

// baseText is the text whose width reserves a link's slot. Scrambled frames
// keep the rune count of the original, so slots stay put while a link
// scrambles.
func (m *Model) baseText(l types.Link) string {
	if text, ok := m.engine.Original(l.ID); ok {
		return text
	}
	return l.Caption()
}

func (m *Model) layout() []span {
	spans := make([]span, 0, len(m.links))
	x := navMargin
	for _, l := range m.links {
		w := lipgloss.Width(m.baseText(l)) + 2
		spans = append(spans, span{id: l.ID, x0: x, x1: x + w})
		x += w + lipgloss.Width(separator)
	}
	return spans
}

// hitTest returns the link under screen cell (x, y), or "".
func (m *Model) hitTest(x, y int) string {
	if y != navRow {
		return ""
	}
	for _, s := range m.layout() {
		if x >= s.x0 && x < s.x1 {
			return s.id
		}
	}
	return ""
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("glitchnav"))
	b.WriteString("\n\n")

	items := make([]string, 0, len(m.links))
	for i, l := range m.links {
		text, attached := m.engine.Display(l.ID)
		if !attached {
			text = l.Caption()
		}
		st := m.styles.link
		switch {
		case l.ID == m.hovered || i == m.focus:
			st = m.styles.hover
		case !attached:
			st = m.styles.plain
		}
		w := lipgloss.Width(m.baseText(l)) + 2
		items = append(items, st.Width(w).Render(text))
	}
	b.WriteString(strings.Repeat(" ", navMargin))
	b.WriteString(strings.Join(items, separator))
	b.WriteString("\n\n")

	b.WriteString(m.styles.detail.Render(m.detailLine()))
	b.WriteString("\n\n")

	if m.adding {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	if m.statusMessage != "" {
		b.WriteString(m.styles.status.Render(" " + m.statusMessage + " "))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) detailLine() string {
	if m.hovered == "" {
		return fmt.Sprintf("%d links, %d with glitch", len(m.links), len(m.engine.Targets()))
	}
	original, attached := m.engine.Original(m.hovered)
	if !attached {
		return fmt.Sprintf("%s  no effect", m.hovered)
	}
	if p, ok := m.engine.Progress(m.hovered); ok {
		return fmt.Sprintf("%s  resolving %.1f/%d", m.hovered, p, len([]rune(original)))
	}
	return fmt.Sprintf("%s  resolved", m.hovered)
}
