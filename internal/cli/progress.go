package cli

import (
	"fmt"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/raphaelgruber/vaultmap-go/internal/models"
	"github.com/raphaelgruber/vaultmap-go/internal/vault"
)

// scanProgressMsg carries per-document scan progress.
type scanProgressMsg struct {
	done  int
	total int
}

// scanDoneMsg carries the completed snapshot.
type scanDoneMsg struct {
	notes []models.Note
	err   error
}

// scanModel is the bubbletea model for vault scan progress.
type scanModel struct {
	progress progress.Model
	done     int
	total    int
	finished bool
	quitting bool
	notes    []models.Note
	err      error
}

func newScanModel() scanModel {
	return scanModel{
		progress: progress.New(
			progress.WithDefaultBlend(),
			progress.WithWidth(40),
		),
	}
}

// Init returns the initial command.
func (m scanModel) Init() tea.Cmd {
	return m.progress.Init()
}

// Update handles messages and returns the updated model.
func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case scanProgressMsg:
		m.done = msg.done
		m.total = msg.total
		return m, nil

	case scanDoneMsg:
		m.finished = true
		m.notes = msg.notes
		m.err = msg.err
		return m, tea.Quit

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m scanModel) View() tea.View {
	if m.finished || m.quitting {
		return tea.NewView("")
	}

	var pct float64
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}

	status := styleDim.Render("scanning vault")
	counts := fmt.Sprintf("%d/%d notes", m.done, m.total)
	return tea.NewView(fmt.Sprintf("%s %s %s\n", status, m.progress.ViewAs(pct), counts))
}

// scanWithProgress scans the scope, showing a progress bar on interactive
// terminals. JSON mode and pipes get a plain scan.
func scanWithProgress(s *vault.Scanner, scope string) ([]models.Note, error) {
	if jsonOutput || !isTTY() {
		return s.Scan(scope)
	}

	p := tea.NewProgram(newScanModel())
	s.SetProgress(func(done, total int) {
		p.Send(scanProgressMsg{done: done, total: total})
	})
	go func() {
		notes, err := s.Scan(scope)
		p.Send(scanDoneMsg{notes: notes, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress display: %w", err)
	}

	m := final.(scanModel)
	if m.quitting {
		return nil, fmt.Errorf("scan interrupted")
	}
	return m.notes, m.err
}
