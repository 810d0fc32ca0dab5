package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// StartSummary holds what the start banner shows.
type StartSummary struct {
	ServerDir string
	Core      string
	MinRAM    int
	MaxRAM    int
}

var (
	startColor = lipgloss.Color("10")
	stopColor  = lipgloss.Color("9")
)

func (u *UI) banner(color lipgloss.Color, lines ...string) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		Padding(0, 4).
		Align(lipgloss.Center)
	if u.color {
		style = style.
			BorderForeground(color).
			Foreground(color).
			Bold(true)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// PrintStartBanner announces a server launch.
func (u *UI) PrintStartBanner(s *StartSummary) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintln(u.out)
	fmt.Fprintln(u.out, u.banner(startColor,
		"STARTING THE SERVER...",
		"",
		fmt.Sprintf("Server's directory: %s", s.ServerDir),
		fmt.Sprintf("Core: %s", s.Core),
		fmt.Sprintf("Min RAM: %dG", s.MinRAM),
		fmt.Sprintf("Max RAM: %dG", s.MaxRAM),
	))
	fmt.Fprintln(u.out)
}

// PrintStopBanner announces a graceful shutdown after an interrupt.
func (u *UI) PrintStopBanner() {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintln(u.out)
	fmt.Fprintln(u.out, u.banner(stopColor,
		"CTRL + C",
		"STOPPING THE SERVER",
	))
	fmt.Fprintln(u.out)
}
