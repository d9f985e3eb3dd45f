package main

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/cyberia-to/uhash/internal/miner"
)

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	tuiRateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	tuiHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tuiNoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

type tickMsg time.Time

type tuiModel struct {
	m          *miner.Miner
	bar        progress.Model
	proofs     []miner.Proof
	hashrate   float64
	copyNotice bool
	width      int
}

func newTUIModel(m *miner.Miner) tuiModel {
	return tuiModel{m: m, bar: progress.New(progress.WithDefaultGradient())}
}

func tuiTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (t tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (t tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		t.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return t, tea.Quit
		case "c":
			// Copy the most recently found proof's hash to the system
			// clipboard, the same "press a key, copy the selection" flow
			// the teacher's chat UI uses for copying message text.
			if len(t.proofs) > 0 {
				latest := t.proofs[len(t.proofs)-1]
				if err := clipboard.WriteAll(fmt.Sprintf("%x", latest.Hash)); err == nil {
					t.copyNotice = true
				}
			}
		}
	case tickMsg:
		t.hashrate = t.m.HashRate()
		t.proofs = append(t.proofs, t.m.Proofs().Drain()...)
		return t, tuiTick()
	}
	return t, nil
}

func (t tuiModel) View() string {
	body := fmt.Sprintf(
		"%s\n\n  %s %.0f hashes/sec\n  proofs found: %d\n\n%s\n",
		tuiTitleStyle.Render("uhash miner"),
		tuiRateStyle.Render("rate:"),
		t.hashrate,
		len(t.proofs),
		tuiHintStyle.Render("press q to quit, c to copy the latest proof hash"),
	)

	if t.copyNotice {
		notice := "✓ copied latest proof hash to clipboard"
		// Measure in display cells, not bytes, before truncating to the
		// terminal width — the same measurement the teacher's chat view
		// uses so wide/ambiguous runes don't overflow the line.
		if t.width > 0 && ansi.StringWidth(notice) > t.width {
			notice = ansi.Truncate(notice, t.width, "…")
		}
		body += tuiNoticeStyle.Render(notice)
	}
	return body
}

// runHashrateTUI blocks, rendering a live hashrate view until the user
// quits, in the same register as the teacher's charm-based monitor UI.
func runHashrateTUI(m *miner.Miner) {
	p := tea.NewProgram(newTUIModel(m))
	if _, err := p.Run(); err != nil {
		fmt.Println("tui error:", err)
	}
}
