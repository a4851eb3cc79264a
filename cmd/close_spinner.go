package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type closeProgressDoneMsg struct {
	err error
}

type closeProgressModel struct {
	spinner spinner.Model
	label   string
	run     tea.Cmd
	err     error
	done    bool
}

func newCloseProgressModel(label string, run tea.Cmd) closeProgressModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return closeProgressModel{
		spinner: s,
		label:   label,
		run:     run,
	}
}

func (m closeProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m closeProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case closeProgressDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m closeProgressModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// runWithCloseProgress shows a bounded spinner while an operation that
// begins by closing the current session runs to completion.
func runWithCloseProgress(ctx context.Context, output io.Writer, label string, op func(context.Context) error) error {
	runCmd := func() tea.Msg {
		return closeProgressDoneMsg{err: op(ctx)}
	}

	p := tea.NewProgram(
		newCloseProgressModel(label, runCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(closeProgressModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
