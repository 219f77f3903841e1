package browse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rexlunae/employment-barage/internal/model"
)

const fetchTimeout = 2 * time.Minute

var errCancelled = errors.New("cancelled")

// FetchFunc loads jobs for the browser.
type FetchFunc func(ctx context.Context) ([]model.Job, error)

type fetchDoneMsg struct {
	jobs []model.Job
	err  error
}

type loaderModel struct {
	label   string
	fetchFn FetchFunc
	spinner spinner.Model
	cancel  context.CancelFunc
	ctx     context.Context
	result  []model.Job
	err     error
	done    bool
}

func newLoaderModel(label string, fetchFn FetchFunc) loaderModel {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	return loaderModel{
		label:   label,
		fetchFn: fetchFn,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("33"))),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doFetch(), m.spinner.Tick)
}

func (m loaderModel) doFetch() tea.Cmd {
	ctx, fetchFn := m.ctx, m.fetchFn
	return func() tea.Msg {
		jobs, err := fetchFn(ctx)
		return fetchDoneMsg{jobs: jobs, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchDoneMsg:
		m.result = msg.jobs
		if m.err == nil {
			m.err = msg.err
		}
		m.done = true
		m.cancel()
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = errCancelled
			m.cancel()
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Fetching jobs from %s...\n", m.spinner.View(), m.label)
}

// RunLoader shows a spinner while fetchFn runs. It renders inline (no alt screen).
func RunLoader(label string, fetchFn FetchFunc) ([]model.Job, error) {
	m := newLoaderModel(label, fetchFn)
	defer m.cancel()

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
