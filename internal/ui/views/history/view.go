package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	historydto "fieldaudit/internal/modules/history/dto"
	"fieldaudit/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	ByMonth(ctx context.Context, group string) ([]historydto.MonthOutput, error)
	Show(ctx context.Context, id string) (historydto.DetailOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type MonthsLoadedMsg struct {
	Group  string
	Months []historydto.MonthOutput
	Err    error
}

type DetailLoadedMsg struct {
	Detail historydto.DetailOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type evaluationItem struct {
	month   historydto.MonthOutput
	summary historydto.SummaryOutput
}

func (i evaluationItem) Title() string {
	return fmt.Sprintf("%s  %s  %s", i.summary.Date, i.summary.AreaCode, i.summary.TypeLabel)
}
func (i evaluationItem) Description() string {
	return fmt.Sprintf("%s · %.1f%% %s", i.month.Label, i.summary.QualityRate, i.summary.Label)
}
func (i evaluationItem) FilterValue() string {
	return i.summary.AreaCode + " " + i.summary.TypeLabel + " " + i.summary.Date
}

var groups = []string{"", "seedlings", "holes"}

var groupTitles = map[string]string{"": "Histórico", "seedlings": "Histórico · Mudas", "holes": "Histórico · Covas"}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	list    list.Model
	group   int
	detail  historydto.DetailOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = groupTitles[""]
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, list: l, preview: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches saved evaluations for the current group filter.
func (m Model) Reload() tea.Cmd {
	group := groups[m.group]
	return func() tea.Msg {
		if m.port == nil {
			return MonthsLoadedMsg{Group: group}
		}
		months, err := m.port.ByMonth(context.Background(), group)
		return MonthsLoadedMsg{Group: group, Months: months, Err: err}
	}
}

// Group is the active filter: "", seedlings or holes.
func (m Model) Group() string { return groups[m.group] }

// SelectedID returns the id of the highlighted evaluation, if any.
func (m Model) SelectedID() (string, bool) {
	if item, ok := m.list.SelectedItem().(evaluationItem); ok {
		return item.summary.ID, true
	}
	return "", false
}

// SelectedMonth returns the month key of the highlighted evaluation.
func (m Model) SelectedMonth() (string, bool) {
	if item, ok := m.list.SelectedItem().(evaluationItem); ok {
		return item.month.Key, true
	}
	return "", false
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case MonthsLoadedMsg:
		m.loading = false
		m.list.Title = groupTitles[msg.Group]
		if msg.Err != nil {
			m.list.Title = groupTitles[msg.Group] + " · " + msg.Err.Error()
			return m, nil
		}
		var items []list.Item
		for _, month := range msg.Months {
			for _, s := range month.Evaluations {
				items = append(items, evaluationItem{month: month, summary: s})
			}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(items) == 0 {
			m.detail = historydto.DetailOutput{}
			m.preview.SetContent(m.renderDetail())
		} else if first, ok := items[0].(evaluationItem); ok {
			cmds = append(cmds, m.loadDetailCmd(first.summary.ID))
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if !m.Filtering() && msg.String() == "g" {
			m.group = (m.group + 1) % len(groups)
			m.loading = true
			return m, m.Reload()
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(evaluationItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.summary.ID))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Carregando histórico…")
	}

	listW := m.width * 5 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 5 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	d := m.detail.Summary
	if d.ID == "" {
		return theme.Muted.Render("Nenhuma avaliação salva")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.TypeLabel) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:        ") + d.ID + "\n")
	sb.WriteString(theme.Muted.Render("área:      ") + d.AreaCode + "\n")
	sb.WriteString(theme.Muted.Render("data:      ") + d.Date + "\n")
	sb.WriteString(theme.Muted.Render("salva em:  ") + d.SavedAt.Local().Format(time.DateTime) + "\n")
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("amostras:  "), d.TotalSamples))
	sb.WriteString(fmt.Sprintf("%s%.1f%%\n", theme.Muted.Render("qualidade: "), d.QualityRate))
	sb.WriteString(fmt.Sprintf("%s%.1f%%\n", theme.Muted.Render("problemas: "), d.ProblemRate))
	sb.WriteString(theme.Hot.Render(d.Label) + "\n")
	sb.WriteString("\n" + theme.Muted.Render("g: filtro  :history:delete  :export:month"))
	return sb.String()
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.Show(context.Background(), id)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
