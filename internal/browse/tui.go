package browse

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rexlunae/employment-barage/internal/model"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

const dateLayout = "2006-01-02"

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	descBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

type browseModel struct {
	jobs           []model.Job
	cursor         int
	listViewport   viewport.Model
	previewPort    viewport.Model
	detailViewport viewport.Model
	width          int
	height         int
	ready          bool
	view           viewState
	openURL        func(string)

	wantQuit bool
}

func newBrowseModel(jobs []model.Job) browseModel {
	sortJobsByDate(jobs)
	return browseModel{jobs: jobs, openURL: openURL}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "o":
		if job, ok := m.selected(); ok {
			m.openURL(job.SourceURL)
		}
		return m, nil
	case "enter":
		if _, ok := m.selected(); ok {
			m.view = viewDetail
			m.detailViewport = viewport.New(max(m.width-4, 20), max(m.height-4, 5))
			m.detailViewport.SetContent(m.renderDetail(true))
		}
		return m, nil
	}

	// Forward other keys (pgup/pgdn/home/end) to the list viewport.
	var cmd tea.Cmd
	m.listViewport, cmd = m.listViewport.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		if job, ok := m.selected(); ok {
			m.openURL(job.SourceURL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m browseModel) selected() (model.Job, bool) {
	if len(m.jobs) == 0 {
		return model.Job{}, false
	}
	return m.jobs[m.cursor], true
}

func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.jobs)-1, 0))
	m.recalcContent()
	m.ensureCursorVisible()
}

func (m *browseModel) ensureCursorVisible() {
	vp := &m.listViewport
	cursorTop := m.cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < vp.YOffset {
		vp.SetYOffset(cursorTop)
	} else if cursorBottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursorBottom - vp.Height + 1)
	}
}

func (m *browseModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes; the list gets two fifths.
	listWidth := max((m.width-5)*2/5, 20)
	previewWidth := max(m.width-5-listWidth, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.listViewport = viewport.New(listWidth, paneHeight)
		m.previewPort = viewport.New(previewWidth, paneHeight)
		m.ready = true
	} else {
		m.listViewport.Width = listWidth
		m.listViewport.Height = paneHeight
		m.previewPort.Width = previewWidth
		m.previewPort.Height = paneHeight
	}
	if m.view == viewDetail {
		m.detailViewport.Width = max(m.width-4, 20)
		m.detailViewport.Height = max(m.height-4, 5)
		m.detailViewport.SetContent(m.renderDetail(true))
	}

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.listViewport.SetContent(renderJobs(m.jobs, m.cursor))
	m.previewPort.SetContent(m.renderDetail(false))
	m.previewPort.SetYOffset(0)
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	listWidth := m.listViewport.Width
	previewWidth := m.previewPort.Width

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth+2).Render(headerStyle.Render(fmt.Sprintf(" Jobs (%d)", len(m.jobs)))),
		" ",
		lipgloss.NewStyle().Width(previewWidth+2).Render(headerStyle.Render(" Preview")),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		activeBorderStyle.Width(listWidth).Render(m.listViewport.View()),
		" ",
		inactiveBorderStyle.Width(previewWidth).Render(m.previewPort.View()),
	)

	statusText := fmt.Sprintf(" %d jobs    ↑/↓ cursor  Enter detail  o open  Esc back  q quit", len(m.jobs))
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")
	content := activeBorderStyle.Width(m.width - 2).Render(m.detailViewport.View())
	statusBar := statusBarStyle.Width(m.width).Render(" o open URL  esc/backspace back  ↑/↓ scroll  q quit")
	return title + "\n" + content + "\n" + statusBar
}

// renderDetail renders the selected job. The preview pane gets the fields
// only; the full view also carries the wrapped description.
func (m browseModel) renderDetail(full bool) string {
	j, ok := m.selected()
	if !ok {
		return "  (no job selected)"
	}
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	addField("Title", j.Title)
	addField("Company", j.Company)
	addField("Location", j.Location)
	addField("Source", j.Source.DisplayName())
	if !j.PostedAt.IsZero() {
		addField("Posted", j.PostedAt.Format(dateLayout))
	}
	if j.Salary != nil {
		addField("Salary", j.Salary.String())
	}
	if len(j.Requirements) > 0 {
		addField("Requirements", strings.Join(j.Requirements, ", "))
	}
	addField("URL", j.SourceURL)

	if !full || j.Description == "" {
		return b.String()
	}

	wrapWidth := max(m.width-8, 20)
	label := "── Description "
	fill := strings.Repeat("─", max(wrapWidth-len([]rune(label)), 3))
	b.WriteByte('\n')
	b.WriteString(descDividerStyle.Render(label+fill) + "\n\n")
	b.WriteString(descBodyStyle.Render(wrapParagraphs(j.Description, wrapWidth)) + "\n")
	return b.String()
}

func renderJobs(jobs []model.Job, cursor int) string {
	if len(jobs) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, j := range jobs {
		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if i == cursor {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(j.Title))
		b.WriteByte('\n')

		posted := "n/a"
		if !j.PostedAt.IsZero() {
			posted = j.PostedAt.Format(dateLayout)
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s · %s", j.Company, j.Location, posted)))
		b.WriteByte('\n')

		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// sortJobsByDate orders jobs newest first; undated jobs go last.
func sortJobsByDate(jobs []model.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		a, b := jobs[i].PostedAt, jobs[j].PostedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
}

// wrapParagraphs word-wraps each paragraph of text, keeping blank lines between them.
func wrapParagraphs(text string, width int) string {
	paras := strings.Split(text, "\n")
	for i, p := range paras {
		paras[i] = wordWrap(p, width)
	}
	return strings.Join(paras, "\n")
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	if url == "" {
		return
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunBrowser launches the full-screen list/detail browser over jobs.
// Returns wantQuit=true if the user pressed q/ctrl+c, false if they pressed
// esc to return to the source picker.
func RunBrowser(jobs []model.Job) (bool, error) {
	p := tea.NewProgram(newBrowseModel(jobs), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(browseModel)
	return final.wantQuit, nil
}
