package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// fetchFunc produces the rendered output of a one-shot command.
type fetchFunc func(ctx context.Context) (string, error)

// runFetch shows a spinner on stderr while fetch runs, then prints its
// output to stdout.
func runFetch(ctx context.Context, label string, fetch fetchFunc) error {
	p := tea.NewProgram(newFetchModel(ctx, label, fetch), tea.WithOutput(os.Stderr), tea.WithInput(nil))
	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("run %s: %w", label, err)
	}

	fm, ok := m.(fetchModel)
	if !ok {
		return fmt.Errorf("unexpected model type from tea program")
	}
	if fm.err != nil {
		return fm.err
	}
	fmt.Print(fm.output)
	return nil
}

// fetchDoneMsg carries the rendered output back to the TUI.
type fetchDoneMsg struct {
	output string
	err    error
}

type fetchModel struct {
	ctx     context.Context
	label   string
	fetch   fetchFunc
	spinner spinner.Model
	output  string
	err     error
	done    bool
}

func newFetchModel(ctx context.Context, label string, fetch fetchFunc) fetchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleInfo
	return fetchModel{
		ctx:     ctx,
		label:   label,
		fetch:   fetch,
		spinner: s,
	}
}

func (m fetchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run())
}

func (m fetchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = context.Canceled
			m.done = true
			return m, tea.Quit
		}
	case fetchDoneMsg:
		m.output = msg.output
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View only draws the spinner; the output is printed once the program exits
// so it can be piped.
func (m fetchModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + styleDim.Render(" Loading "+m.label+"...") + "\n"
}

func (m fetchModel) run() tea.Cmd {
	return func() tea.Msg {
		out, err := m.fetch(m.ctx)
		return fetchDoneMsg{output: out, err: err}
	}
}
