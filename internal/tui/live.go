// Package tui renders a live terminal view of a running Monte Carlo
// simulation: progress, per-move acceptance, and an energy sparkline.
package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const historyCapacity = 200

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// Progress is one snapshot of the running simulation, pushed by the
// driver goroutine.
type Progress struct {
	Iteration  int
	Total      int
	Energy     float64
	Acceptance map[string]float64
}

type progressMsg Progress

type finishedMsg struct{}

// Model consumes Progress snapshots from a channel until it closes.
type Model struct {
	progress      <-chan Progress
	last          Progress
	energyHistory []float64
	finished      bool
}

func NewModel(progress <-chan Progress) Model {
	return Model{
		progress:      progress,
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.wait()
}

func (m Model) wait() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-m.progress
		if !ok {
			return finishedMsg{}
		}
		return progressMsg(p)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case progressMsg:
		m.last = Progress(msg)
		m.energyHistory = append(m.energyHistory, m.last.Energy)
		if len(m.energyHistory) > historyCapacity {
			m.energyHistory = m.energyHistory[1:]
		}
		return m, m.wait()
	case finishedMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("metropolis monte carlo"))
	b.WriteByte('\n')

	pct := 0.0
	if m.last.Total > 0 {
		pct = 100 * float64(m.last.Iteration) / float64(m.last.Total)
	}
	b.WriteString(labelStyle.Render("iteration"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d / %d (%.1f%%)", m.last.Iteration, m.last.Total, pct)))
	b.WriteByte('\n')

	b.WriteString(labelStyle.Render("energy"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.6g", m.last.Energy)))
	b.WriteByte('\n')

	names := make([]string, 0, len(m.last.Acceptance))
	for name := range m.last.Acceptance {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(labelStyle.Render(name))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f%% accepted", 100*m.last.Acceptance[name])))
		b.WriteByte('\n')
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(6),
			asciigraph.Width(60),
			asciigraph.Caption("total energy"),
		)
		b.WriteString(graphStyle.Render(chart))
		b.WriteByte('\n')
	}

	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteByte('\n')
	return b.String()
}
