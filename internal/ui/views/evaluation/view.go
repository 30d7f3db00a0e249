package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	evaldto "fieldaudit/internal/modules/evaluation/dto"
	apperrors "fieldaudit/internal/platform/errors"
	"fieldaudit/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the evaluation handler.
// Sample numbers are 1-based.
type Port interface {
	Show(ctx context.Context) (evaldto.SessionOutput, error)
	Mark(ctx context.Context, number int, status string) (evaldto.SessionOutput, error)
	Focus(ctx context.Context, number int) (evaldto.SessionOutput, error)
	Measure(ctx context.Context, number int, field, raw string) (evaldto.SessionOutput, error)
	Finish(ctx context.Context) (evaldto.ResultsOutput, error)
	Results(ctx context.Context, id string) (evaldto.ResultsOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// SessionMsg carries the active session after a load or an edit.
type SessionMsg struct {
	Session evaldto.SessionOutput
	Err     error
}

// ResultsMsg carries results after finish or on reload of a finished session.
type ResultsMsg struct {
	Results evaldto.ResultsOutput
	Err     error
}

const columns = 10

var choiceKeys = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0"}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	session evaldto.SessionOutput
	active  bool
	results evaldto.ResultsOutput
	hasRes  bool
	cursor  int
	field   string
	input   textinput.Model
	side    viewport.Model
	message string
	width   int
	height  int
}

func New(port Port) Model {
	ti := textinput.New()
	ti.Placeholder = "meters, e.g. 3,05"
	ti.CharLimit = 16

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	return Model{port: port, input: ti, side: vp}
}

func (m Model) Init() tea.Cmd { return m.Reload() }

// Reload fetches the active session from storage.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return SessionMsg{Err: apperrors.ErrNoActiveSession}
		}
		s, err := m.port.Show(context.Background())
		return SessionMsg{Session: s, Err: err}
	}
}

// Active reports whether an evaluation is in progress.
func (m Model) Active() bool { return m.active }

func (m Model) Session() evaldto.SessionOutput { return m.session }

// Editing reports whether the measurement input owns the keyboard.
func (m Model) Editing() bool { return m.field != "" }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case SessionMsg:
		if msg.Err != nil {
			m.active = false
			m.hasRes = false
			m.session = evaldto.SessionOutput{}
			if !errors.Is(msg.Err, apperrors.ErrNoActiveSession) {
				m.message = msg.Err.Error()
			}
			m.refreshSide()
			return m, nil
		}
		first := !m.active
		m.active = true
		m.session = msg.Session
		m.message = ""
		if !msg.Session.Locked {
			m.hasRes = false
		}
		if msg.Session.HasFocus {
			m.cursor = msg.Session.Focus
		} else if first {
			m.cursor = 0
		}
		m.refreshSide()
		if msg.Session.Locked && !m.hasRes {
			return m, m.resultsCmd()
		}

	case ResultsMsg:
		if msg.Err != nil {
			m.message = msg.Err.Error()
			m.refreshSide()
			return m, nil
		}
		m.results = msg.Results
		m.hasRes = true
		m.refreshSide()
		return m, m.Reload()

	case editFailedMsg:
		m.message = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if !m.active {
			return m, nil
		}
		if m.field != "" {
			return m.updateInput(msg)
		}
		return m.updateGrid(msg)
	}

	var cmd tea.Cmd
	m.side, cmd = m.side.Update(msg)
	return m, cmd
}

func (m Model) updateGrid(msg tea.KeyMsg) (Model, tea.Cmd) {
	total := len(m.session.Samples)
	switch msg.String() {
	case "left":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right":
		if m.cursor < total-1 {
			m.cursor++
		}
	case "up":
		if m.cursor >= columns {
			m.cursor -= columns
		}
	case "down":
		if m.cursor+columns < total {
			m.cursor += columns
		}
	case "f":
		return m, m.finishCmd()
	case "x":
		if !m.distance() {
			return m, m.markCmd(m.session.Unevaluated)
		}
	case "enter":
		if m.distance() && !m.session.Locked {
			m.field = "street"
			m.input.SetValue("")
			return m, tea.Batch(m.focusCmd(), m.input.Focus())
		}
	default:
		if m.distance() || m.session.Locked {
			break
		}
		for i, k := range choiceKeys {
			if msg.String() == k && i < len(m.session.Choices) {
				return m, m.markCmd(m.session.Choices[i].Status)
			}
		}
	}
	m.refreshSide()
	return m, nil
}

// updateInput collects street then line for the selected hole.
func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.field = ""
		m.input.Blur()
		m.refreshSide()
		return m, nil
	case "enter":
		field, raw := m.field, m.input.Value()
		if field == "street" {
			m.field = "line"
		} else {
			m.field = ""
			m.input.Blur()
		}
		m.input.SetValue("")
		m.refreshSide()
		return m, m.measureCmd(field, raw)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.active {
		body := theme.Muted.Render("No active evaluation.\n\nPress : and run eval:start <type> <area> [dd/mm/yyyy]")
		if m.message != "" {
			body = theme.Hot.Render(m.message) + "\n\n" + body
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}

	gridW := m.width * 6 / 10
	sideW := m.width - gridW

	var sb strings.Builder
	s := m.session
	sb.WriteString(theme.Title.Render(fmt.Sprintf("%s  %s  %s", s.TypeLabel, s.AreaCode, s.Date)) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d/%d %s avaliadas", s.EvaluatedCount, s.TotalSamples, s.SampleTerm)) + "\n\n")
	sb.WriteString(m.renderGrid())
	if m.field != "" {
		sb.WriteString("\n" + theme.Hot.Render(fmt.Sprintf("#%d %s: ", m.cursor+1, m.field)) + m.input.View() + "\n")
	}
	if m.message != "" {
		sb.WriteString("\n" + theme.Hot.Render(m.message) + "\n")
	}

	gridPane := lipgloss.NewStyle().Width(gridW).Height(m.height).Render(sb.String())
	sidePane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(sideW - 2).
		Height(m.height - 2).
		Render(m.side.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, gridPane, sidePane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) distance() bool { return m.session.Category == "hole_distance" }

func (m *Model) resize() {
	sideW := m.width - m.width*6/10
	m.side.Width = sideW - 4
	m.side.Height = m.height - 4
	m.refreshSide()
}

// renderGrid draws the rows around the cursor that fit the pane.
func (m Model) renderGrid() string {
	rows := (len(m.session.Samples) + columns - 1) / columns
	visible := m.height - 8
	if visible < 1 || visible > rows {
		visible = rows
	}
	first := m.cursor/columns - visible/2
	if first > rows-visible {
		first = rows - visible
	}
	if first < 0 {
		first = 0
	}

	var sb strings.Builder
	for row := first; row < first+visible; row++ {
		for col := 0; col < columns; col++ {
			i := row*columns + col
			if i >= len(m.session.Samples) {
				break
			}
			sample := m.session.Samples[i]
			cell := fmt.Sprintf("%3d %-6s", i+1, sample.Short)
			switch {
			case i == m.cursor:
				cell = theme.SampleCursor.Render(cell)
			case sample.Status == m.session.Pass:
				cell = theme.SampleOK.Render(cell)
			case sample.Status == m.session.Unevaluated:
				cell = theme.Muted.Render(cell)
			default:
				cell = theme.SampleProblem.Render(cell)
			}
			if col > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(cell)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) refreshSide() {
	m.side.SetContent(m.renderSide())
}

func (m Model) renderSide() string {
	if !m.active {
		return ""
	}
	if m.hasRes && m.session.Locked {
		return renderResults(m.results)
	}
	var sb strings.Builder
	if m.cursor < len(m.session.Samples) {
		sample := m.session.Samples[m.cursor]
		sb.WriteString(theme.Title.Render(fmt.Sprintf("%s %d", m.session.SampleTerm, m.cursor+1)) + "\n")
		sb.WriteString(sample.Label + "\n")
		if m.distance() {
			sb.WriteString(theme.Muted.Render("rua:   ") + meters(sample.Street) + "\n")
			sb.WriteString(theme.Muted.Render("linha: ") + meters(sample.Line) + "\n")
		}
		sb.WriteString("\n")
	}
	if m.distance() {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d medições pendentes", m.session.MissingMeasurements)) + "\n\n")
		sb.WriteString(theme.Muted.Render("enter: medir rua e linha\nf: finalizar"))
		return sb.String()
	}
	for i, c := range m.session.Choices {
		if i >= len(choiceKeys) {
			break
		}
		sb.WriteString(theme.Hot.Render(choiceKeys[i]) + "  " + c.Label + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("x: limpar  f: finalizar"))
	return sb.String()
}

func renderResults(r evaldto.ResultsOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Resultados") + "\n\n")
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("total:     "), r.TotalSamples))
	sb.WriteString(fmt.Sprintf("%s%.1f%%\n", theme.Muted.Render("qualidade: "), r.QualityRate))
	sb.WriteString(fmt.Sprintf("%s%.1f%%\n", theme.Muted.Render("problemas: "), r.ProblemRate))
	sb.WriteString(theme.Quality(r.Label).Render(r.Label) + "\n\n")
	for _, p := range r.Breakdown {
		sb.WriteString(fmt.Sprintf("%-22s %4d  %5.1f%%\n", p.Label, p.Count, p.Percentage))
	}
	sb.WriteString("\n" + theme.Muted.Render(":eval:save  :eval:discard"))
	return sb.String()
}

func meters(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64) + " m"
}

func (m Model) markCmd(status string) tea.Cmd {
	number := m.cursor + 1
	return func() tea.Msg {
		s, err := m.port.Mark(context.Background(), number, status)
		return editResult(s, err)
	}
}

func (m Model) focusCmd() tea.Cmd {
	number := m.cursor + 1
	return func() tea.Msg {
		s, err := m.port.Focus(context.Background(), number)
		return editResult(s, err)
	}
}

func (m Model) measureCmd(field, raw string) tea.Cmd {
	number := m.cursor + 1
	return func() tea.Msg {
		s, err := m.port.Measure(context.Background(), number, field, raw)
		return editResult(s, err)
	}
}

func (m Model) finishCmd() tea.Cmd {
	return func() tea.Msg {
		r, err := m.port.Finish(context.Background())
		return ResultsMsg{Results: r, Err: err}
	}
}

func (m Model) resultsCmd() tea.Cmd {
	return func() tea.Msg {
		r, err := m.port.Results(context.Background(), "")
		return ResultsMsg{Results: r, Err: err}
	}
}

// editResult keeps the current session on screen when an edit is rejected.
func editResult(s evaldto.SessionOutput, err error) tea.Msg {
	if err != nil {
		return editFailedMsg{err: err}
	}
	return SessionMsg{Session: s}
}

type editFailedMsg struct{ err error }
