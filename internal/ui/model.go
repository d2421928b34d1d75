// ABOUTME: Bubbletea model for batch render progress
// ABOUTME: Tracks written files and drives a progress bar until the batch finishes
package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is reported when the user quits before the batch finishes
var ErrCancelled = errors.New("render cancelled")

// maxListedFiles bounds how many written files the view shows
const maxListedFiles = 8

// ProgressMsg reports one finished image
type ProgressMsg struct {
	Done  int
	Total int
	Path  string
}

// DoneMsg reports the end of the batch
type DoneMsg struct {
	Err error
}

// Model represents the TUI state
type Model struct {
	title    string
	progress progress.Model

	done  int
	total int
	files []string

	finished bool
	err      error

	width int
}

// NewModel creates a progress model for a batch titled title
func NewModel(title string) Model {
	p := progress.New(
		progress.WithScaledGradient("#5A56E0", "#EE6FF8"),
		progress.WithoutPercentage(),
	)

	return Model{
		title:    title,
		progress: p,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if !m.finished {
				m.err = ErrCancelled
			}
			m.finished = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 12
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}

	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
		if msg.Path != "" {
			m.files = append(m.files, msg.Path)
		}

	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// Percent returns the completed fraction in [0, 1]
func (m Model) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

// Files returns the paths written so far
func (m Model) Files() []string {
	return m.files
}

// Err returns the batch error, or ErrCancelled when the user quit early
func (m Model) Err() error {
	return m.err
}

// View renders the TUI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString("  " + m.progress.ViewAs(m.Percent()))
	b.WriteString(fmt.Sprintf("  %d/%d\n\n", m.done, m.total))

	files := m.files
	if len(files) > maxListedFiles {
		b.WriteString(fileStyle.Render(fmt.Sprintf("  ... %d earlier", len(files)-maxListedFiles)) + "\n")
		files = files[len(files)-maxListedFiles:]
	}
	for _, f := range files {
		b.WriteString(fileStyle.Render("  ✓ "+filepath.Base(f)) + "\n")
	}

	if m.err != nil && !errors.Is(m.err, ErrCancelled) {
		b.WriteString("\n" + errorStyle.Render("  error: "+m.err.Error()) + "\n")
	}

	if !m.finished {
		b.WriteString("\n" + helpStyle.Render("  q: cancel") + "\n")
	}

	return b.String()
}
