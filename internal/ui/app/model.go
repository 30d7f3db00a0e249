package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	evaldto "fieldaudit/internal/modules/evaluation/dto"
	reportdto "fieldaudit/internal/modules/report/dto"
	"fieldaudit/internal/platform/clock"
	"fieldaudit/internal/ui/components"
	"fieldaudit/internal/ui/theme"
	evaluationview "fieldaudit/internal/ui/views/evaluation"
	historyview "fieldaudit/internal/ui/views/history"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type evaluationPort interface {
	evaluationview.Port
	Types(ctx context.Context) ([]evaldto.TypeOutput, error)
	Start(ctx context.Context, evalType, areaCode, date string, today time.Time) (evaldto.SessionOutput, error)
	Save(ctx context.Context) (evaldto.SaveOutput, error)
	Discard(ctx context.Context) error
}

type historyPort interface {
	historyview.Port
	Delete(ctx context.Context, id string) error
}

type reportPort interface {
	ExportAll(ctx context.Context, format string) (reportdto.ExportOutput, error)
	ExportMonth(ctx context.Context, format, group, month string) (reportdto.ExportOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabEvaluation tabID = iota
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Avaliação", "Histórico"}

// ─── async messages ───────────────────────────────────────────────────────────

type startedMsg struct {
	session evaldto.SessionOutput
	err     error
}

type typesMsg struct {
	types []evaldto.TypeOutput
	err   error
}

type savedMsg struct {
	out evaldto.SaveOutput
	err error
}

type discardedMsg struct{ err error }

type deletedMsg struct {
	id  string
	err error
}

type exportedMsg struct {
	out reportdto.ExportOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Move    key.Binding
	Choice  key.Binding
	Measure key.Binding
	Finish  key.Binding
	Group   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Move:    key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("←↑↓→", "move")),
		Choice:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "x"), key.WithHelp("0-9/x", "mark sample")),
		Measure: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "measure hole")),
		Finish:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
		Group:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "history filter")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Move, k.Choice, k.Measure, k.Finish},
		{k.Tab, k.Group},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette; sample entry and history browsing live in sub-views.
type Model struct {
	evaluation evaluationPort
	history    historyPort
	report     reportPort
	clock      clock.Clock

	evalView    evaluationview.Model
	historyView historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(evaluation evaluationPort, history historyPort, report reportPort, clk clock.Clock) Model {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return Model{
		evaluation:  evaluation,
		history:     history,
		report:      report,
		clock:       clk,
		evalView:    evaluationview.New(evaluation),
		historyView: historyview.New(history),
		activeTab:   tabEvaluation,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "pronto",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.evalView.Init(), m.historyView.Init())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case startedMsg:
		if msg.err != nil {
			m.status = "start failed: " + msg.err.Error()
			return m, nil
		}
		m.activeTab = tabEvaluation
		m.status = fmt.Sprintf("avaliação iniciada: %s %s", msg.session.TypeLabel, msg.session.AreaCode)
		var cmd tea.Cmd
		m.evalView, cmd = m.evalView.Update(evaluationview.SessionMsg{Session: msg.session})
		return m, cmd

	case typesMsg:
		if msg.err != nil {
			m.status = "types: " + msg.err.Error()
			return m, nil
		}
		names := make([]string, len(msg.types))
		for i, t := range msg.types {
			names[i] = t.Type
		}
		m.status = "tipos: " + strings.Join(names, " ")
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "avaliação salva: " + msg.out.ID
		return m, tea.Batch(m.evalView.Reload(), m.historyView.Reload())

	case discardedMsg:
		if msg.err != nil {
			m.status = "discard failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "avaliação descartada"
		return m, m.evalView.Reload()

	case deletedMsg:
		if msg.err != nil {
			m.status = "delete failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "avaliação excluída: " + msg.id
		return m, m.historyView.Reload()

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("exportadas %d avaliações: %s", msg.out.Rows, msg.out.Path)
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Command)

	case components.PaletteCancelMsg:
		m.status = "pronto"
		return m, nil

	// Session and results messages always reach the evaluation view, even
	// while the history tab is showing.
	case evaluationview.SessionMsg, evaluationview.ResultsMsg:
		var cmd tea.Cmd
		m.evalView, cmd = m.evalView.Update(msg)
		return m, cmd

	case historyview.MonthsLoadedMsg, historyview.DetailLoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the sub-view while it owns free typing.
		if m.subViewTyping() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabEvaluation:
		m.evalView, tabCmd = m.evalView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabHistory:
		content = m.historyView.View()
	default:
		content = m.evalView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "fieldaudit  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.evalView.Active() {
		s := m.evalView.Session()
		left = theme.Hot.Render(fmt.Sprintf("● %s %d/%d", s.AreaCode, s.EvaluatedCount, s.TotalSamples)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(c components.Command) (tea.Model, tea.Cmd) {
	switch c.Name {
	case "eval:start":
		if len(c.Args) < 2 {
			m.status = "usage: eval:start <type> <area> [dd/mm/yyyy]"
			return m, nil
		}
		return m, m.startCmd(c.Arg(0), c.Arg(1), c.Arg(2))

	case "eval:types":
		return m, m.typesCmd()

	case "eval:finish":
		m.activeTab = tabEvaluation
		return m, m.finishCmd()

	case "eval:save":
		return m, m.saveCmd()

	case "eval:discard":
		return m, m.discardCmd()

	case "history:delete":
		id := c.Arg(0)
		if selected, ok := m.historyView.SelectedID(); id == "" && ok {
			id = selected
		}
		if id == "" {
			m.status = "no evaluation selected"
			return m, nil
		}
		return m, m.deleteCmd(id)

	case "history:refresh":
		return m, m.historyView.Reload()

	case "export:all":
		return m, m.exportAllCmd(c.Arg(0))

	case "export:month":
		month, format := "", ""
		for _, p := range c.Args {
			if strings.Contains(p, "-") {
				month = p
			} else {
				format = p
			}
		}
		if month == "" {
			month, _ = m.historyView.SelectedMonth()
		}
		if month == "" {
			m.status = "usage: export:month [YYYY-MM] [xlsx|markdown]"
			return m, nil
		}
		return m, m.exportMonthCmd(format, m.historyView.Group(), month)

	default:
		m.status = "unknown command: " + c.Name
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewTyping reports whether a sub-view text field has focus, in which
// case global key bindings must yield to allow free typing.
func (m Model) subViewTyping() bool {
	switch m.activeTab {
	case tabEvaluation:
		return m.evalView.Editing()
	case tabHistory:
		return m.historyView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.evalView, _ = m.evalView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) startCmd(evalType, areaCode, date string) tea.Cmd {
	today := m.clock.Now()
	return func() tea.Msg {
		s, err := m.evaluation.Start(context.Background(), evalType, areaCode, date, today)
		return startedMsg{session: s, err: err}
	}
}

func (m Model) typesCmd() tea.Cmd {
	return func() tea.Msg {
		types, err := m.evaluation.Types(context.Background())
		return typesMsg{types: types, err: err}
	}
}

func (m Model) finishCmd() tea.Cmd {
	return func() tea.Msg {
		r, err := m.evaluation.Finish(context.Background())
		return evaluationview.ResultsMsg{Results: r, Err: err}
	}
}

func (m Model) saveCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.evaluation.Save(context.Background())
		return savedMsg{out: out, err: err}
	}
}

func (m Model) discardCmd() tea.Cmd {
	return func() tea.Msg {
		return discardedMsg{err: m.evaluation.Discard(context.Background())}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: m.history.Delete(context.Background(), id)}
	}
}

func (m Model) exportAllCmd(format string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.report.ExportAll(context.Background(), format)
		return exportedMsg{out: out, err: err}
	}
}

func (m Model) exportMonthCmd(format, group, month string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.report.ExportMonth(context.Background(), format, group, month)
		return exportedMsg{out: out, err: err}
	}
}
