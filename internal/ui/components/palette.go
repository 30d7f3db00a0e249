package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fieldaudit/internal/ui/theme"
)

// Command is a palette entry as typed by the user: a name and its arguments.
type Command struct {
	Name string
	Args []string
}

// Arg returns the i-th argument or "".
func (c Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// PaletteSubmitMsg is emitted when the user confirms a non-empty command.
type PaletteSubmitMsg struct{ Command Command }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

// CommandSpec documents one palette command.
type CommandSpec struct {
	Name  string
	Usage string
	Help  string
}

// Commands is the palette catalogue. app.Model dispatches on Name.
var Commands = []CommandSpec{
	{"eval:start", "<tipo> <área> [dd/mm/aaaa]", "iniciar avaliação"},
	{"eval:types", "", "listar tipos de avaliação"},
	{"eval:finish", "", "finalizar e calcular resultados"},
	{"eval:save", "", "salvar no histórico"},
	{"eval:discard", "", "descartar avaliação ativa"},
	{"history:delete", "[id]", "excluir avaliação"},
	{"history:refresh", "", "recarregar histórico"},
	{"export:all", "[xlsx|markdown]", "exportar tudo"},
	{"export:month", "[AAAA-MM] [xlsx|markdown]", "exportar um mês"},
}

const maxHints = 5

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle  = lipgloss.NewStyle().Foreground(theme.Subtext0)
	usageStyle = lipgloss.NewStyle().Foreground(theme.Lavender)
)

// ParseCommand splits palette input on whitespace.
func ParseCommand(input string) (Command, bool) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return Command{}, false
	}
	return Command{Name: strings.ToLower(parts[0]), Args: parts[1:]}, true
}

// Matching returns the commands whose name starts with the first word of input.
func Matching(input string) []CommandSpec {
	prefix := ""
	if parts := strings.Fields(strings.ToLower(input)); len(parts) > 0 {
		prefix = parts[0]
	}
	var out []CommandSpec
	for _, c := range Commands {
		if strings.HasPrefix(c.Name, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// Palette is a command-palette overlay backed by bubbles/textinput.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

// NewPalette creates an inactive Palette ready to be opened.
func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "digite um comando…"
	ti.CharLimit = 256
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette with an empty input and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// Value is the current input text.
func (p Palette) Value() string { return p.input.Value() }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			cmd, ok := ParseCommand(p.input.Value())
			p.close()
			if !ok {
				return p, func() tea.Msg { return PaletteCancelMsg{} }
			}
			return p, func() tea.Msg { return PaletteSubmitMsg{Command: cmd} }
		case "tab":
			// Complete the command name while no argument has been typed.
			if value := p.input.Value(); !strings.Contains(value, " ") {
				if matches := Matching(value); len(matches) == 1 {
					p.input.SetValue(matches[0].Name + " ")
					p.input.CursorEnd()
				}
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	matching := Matching(p.input.Value())
	if len(matching) > maxHints {
		matching = matching[:maxHints]
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Comandos") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if len(matching) > 0 {
		sb.WriteString("\n")
		for _, c := range matching {
			line := "  " + c.Name
			if c.Usage != "" {
				line += " " + usageStyle.Render(c.Usage)
			}
			sb.WriteString(line + hintStyle.Render("  "+c.Help) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
