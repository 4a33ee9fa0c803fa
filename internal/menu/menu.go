// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package menu implements the interactive terminal menu.
//
// The menu walks the user through picking two strategies to compare, or
// launching the interactive GPU view. The work itself is injected through
// Actions so the state machine can be driven without a terminal.
package menu

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gogpu/fractal"
)

// Title is shown above every screen.
const Title = "Mandelbrot Fractal"

// sameStrategyMessage matches the report printed for a self-comparison.
const sameStrategyMessage = "Selected fractals are the same! Please choose different ones."

// Actions performs the work selected in the menu.
type Actions struct {
	// Compare generates both strategies and returns the report text.
	Compare func(first, second fractal.Strategy) (string, error)

	// Interactive opens the live GPU view and blocks until it is closed.
	Interactive func() error
}

type screen uint8

const (
	screenMain screen = iota
	screenFirst
	screenSecond
	screenBusy
	screenResult
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headingStyle  = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

var headings = [...]string{
	screenMain:   "----- MAIN MENU -----",
	screenFirst:  "--- SELECT FIRST FRACTAL GENERATOR ---",
	screenSecond: "--- SELECT SECOND FRACTAL GENERATOR ---",
}

type compareDoneMsg struct {
	text string
	err  error
}

type interactiveDoneMsg struct{ err error }

// Model is the bubbletea model of the menu.
type Model struct {
	actions Actions

	screen screen
	cursor int
	first  fractal.Strategy
	busy   string
	output string
	err    error
}

// New returns a model on the main screen.
func New(actions Actions) Model {
	return Model{actions: actions}
}

// Run shows the menu on the terminal until the user exits.
func Run(actions Actions, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(New(actions), opts...).Run()
	return err
}

// options returns the entries of the current screen, the trailing
// Exit or Back entry included.
func (m Model) options() []string {
	switch m.screen {
	case screenMain:
		return []string{"Start Comparison", "Start Interactive Fractal", "Exit"}
	case screenFirst, screenSecond:
		all := fractal.Strategies()
		out := make([]string, 0, len(all)+1)
		for _, s := range all {
			out = append(out, s.Label())
		}
		return append(out, "Back")
	case screenResult:
		return []string{"Back"}
	default:
		return nil
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(Title)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case compareDoneMsg:
		m.screen, m.cursor = screenResult, 0
		m.output, m.err = msg.text, msg.err
		return m, nil

	case interactiveDoneMsg:
		m.screen, m.cursor = screenMain, 0
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "ctrl+c":
		return m, tea.Quit
	}
	if m.screen == screenBusy {
		return m, nil
	}

	n := len(m.options())
	switch k.String() {
	case "q", "esc":
		if m.screen == screenMain {
			return m, tea.Quit
		}
		return m.back(), nil
	case "up", "k":
		m.cursor = (m.cursor - 1 + n) % n
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % n
	case "enter", " ":
		return m.selectOption()
	default:
		if r := k.Runes; len(r) == 1 && r[0] >= '1' && int(r[0]-'1') < n {
			m.cursor = int(r[0] - '1')
			return m.selectOption()
		}
	}
	return m, nil
}

// back leaves the current screen the way its Back entry does.
func (m Model) back() Model {
	switch m.screen {
	case screenSecond:
		m.screen = screenFirst
	default:
		m.screen = screenMain
	}
	m.cursor = 0
	return m
}

func (m Model) selectOption() (tea.Model, tea.Cmd) {
	last := len(m.options()) - 1

	switch m.screen {
	case screenMain:
		switch m.cursor {
		case 0:
			m.screen, m.cursor, m.err = screenFirst, 0, nil
			return m, nil
		case 1:
			return m.startInteractive()
		default:
			return m, tea.Quit
		}

	case screenFirst:
		if m.cursor == last {
			return m.back(), nil
		}
		m.first = fractal.Strategies()[m.cursor]
		m.screen, m.cursor = screenSecond, 0
		return m, nil

	case screenSecond:
		if m.cursor == last {
			return m.back(), nil
		}
		return m.startCompare(fractal.Strategies()[m.cursor])

	case screenResult:
		m.output, m.err = "", nil
		return m.back(), nil
	}
	return m, nil
}

func (m Model) startCompare(second fractal.Strategy) (tea.Model, tea.Cmd) {
	first := m.first
	if first == second {
		m.screen, m.cursor = screenResult, 0
		m.output, m.err = "", fractal.ErrSameStrategy
		return m, nil
	}

	m.screen = screenBusy
	m.busy = fmt.Sprintf("Comparing %s with %s...", first.Label(), second.Label())
	compare := m.actions.Compare
	return m, func() tea.Msg {
		if compare == nil {
			return compareDoneMsg{err: errors.New("menu: comparison not configured")}
		}
		text, err := compare(first, second)
		return compareDoneMsg{text: text, err: err}
	}
}

func (m Model) startInteractive() (tea.Model, tea.Cmd) {
	m.screen = screenBusy
	m.busy = "Interactive fractal running. Close the window to return."
	interactive := m.actions.Interactive
	return m, func() tea.Msg {
		if interactive == nil {
			return interactiveDoneMsg{err: errors.New("menu: interactive view not configured")}
		}
		return interactiveDoneMsg{err: interactive()}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n\n")

	switch m.screen {
	case screenBusy:
		b.WriteString(m.busy)
		b.WriteString("\n")
		return b.String()

	case screenResult:
		if errors.Is(m.err, fractal.ErrSameStrategy) {
			b.WriteString(sameStrategyMessage)
			b.WriteString("\n")
		} else {
			b.WriteString(m.output)
			if m.err != nil {
				b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		m.writeOptions(&b, 0)

	default:
		b.WriteString(headingStyle.Render(headings[m.screen]))
		b.WriteString("\n\n")
		m.writeOptions(&b, len(m.options())-1)
		if m.err != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑/↓ move • enter select • q back"))
	b.WriteString("\n")
	return b.String()
}

// writeOptions lists the entries, separating the one at index gap by a
// blank line.
func (m Model) writeOptions(b *strings.Builder, gap int) {
	for i, opt := range m.options() {
		if i == gap && gap > 0 {
			b.WriteString("\n")
		}
		line := fmt.Sprintf("%d.%s", i+1, opt)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("► " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
}
