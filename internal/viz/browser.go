package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/combustlab/internal/testmatrix"
)

// Browser is a Bubble Tea model for paging through the replicates of one
// matrix.
type Browser struct {
	summary    testmatrix.Summary
	replicates [][]testmatrix.Condition

	replicate int
	cursor    int
	offset    int
	theme     Theme

	width  int
	height int
}

func NewBrowser(summary testmatrix.Summary, replicates [][]testmatrix.Condition) Browser {
	return Browser{
		summary:    summary,
		replicates: replicates,
		theme:      ThemeFlame,
		width:      100,
		height:     24,
	}
}

// WithTheme returns a copy of b using theme.
func (b Browser) WithTheme(theme Theme) Browser {
	b.theme = theme
	return b
}

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Replicate() int { return b.replicate }
func (b Browser) Cursor() int    { return b.cursor }

func (b Browser) rows() int {
	if b.replicate >= len(b.replicates) {
		return 0
	}
	return len(b.replicates[b.replicate])
}

// visible is the number of table rows that fit: the header, hint and
// table chrome take eight lines.
func (b Browser) visible() int {
	n := b.height - 8
	if n < 1 {
		n = 1
	}
	return n
}

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.clamp()
	}
	return b, nil
}

func (b Browser) handleKey(msg tea.KeyMsg) (Browser, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return b, tea.Quit
	case "right", "l", "tab":
		if len(b.replicates) > 0 {
			b.replicate = (b.replicate + 1) % len(b.replicates)
		}
	case "left", "h", "shift+tab":
		if len(b.replicates) > 0 {
			b.replicate = (b.replicate - 1 + len(b.replicates)) % len(b.replicates)
		}
	case "down", "j":
		b.cursor++
	case "up", "k":
		b.cursor--
	case "g", "home":
		b.cursor = 0
	case "G", "end":
		b.cursor = b.rows() - 1
	case "t":
		b.theme = nextTheme(b.theme)
	}
	b.clamp()
	return b, nil
}

func (b *Browser) clamp() {
	if n := b.rows(); b.cursor >= n {
		b.cursor = n - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if v := b.visible(); b.cursor >= b.offset+v {
		b.offset = b.cursor - v + 1
	}
}

func (b Browser) View() string {
	st := stylesFor(b.theme)
	var s strings.Builder

	s.WriteString(st.title.Render("combustlab"))
	s.WriteString("  ")
	s.WriteString(st.label.Render(SummaryLine(b.summary)))
	s.WriteString("\n")

	if len(b.replicates) == 0 {
		s.WriteString(st.hint.Render("no replicates"))
		s.WriteString("\n")
		return s.String()
	}

	s.WriteString(st.value.Render(fmt.Sprintf("replicate %d/%d", b.replicate+1, len(b.replicates))))
	s.WriteString(st.label.Render(fmt.Sprintf("  condition %d/%d", b.cursor+1, b.rows())))
	s.WriteString("\n")

	rep := b.replicates[b.replicate]
	end := b.offset + b.visible()
	if end > len(rep) {
		end = len(rep)
	}
	rows := conditionRows(rep[b.offset:end], b.offset)
	s.WriteString(newTable(st, conditionHeaders, rows, b.cursor-b.offset).String())
	s.WriteString("\n")
	s.WriteString(st.hint.Render("←/→ replicate  ↑/↓ condition  t theme  q quit"))
	s.WriteString("\n")
	return s.String()
}
