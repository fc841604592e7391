package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/cantinho/internal/achievement"
)

// viewState represents the currently active view.
type viewState int

const (
	viewPlants viewState = iota
	viewGuide
	viewAchievements
	viewHistory
	viewSettings
)

var viewNames = []string{"Plantas", "Enciclopédia", "Conquistas", "Histórico", "Ajustes"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// unlockMsg carries an achievement unlocked by any component.
type unlockMsg struct {
	def achievement.Definition
}

// --- Helpers ---

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: fmt.Sprintf("Erro: %v", err), isError: true} }
}

// waitForUnlock blocks until the tracker reports an unlock.
func waitForUnlock(ch <-chan achievement.Definition) tea.Cmd {
	return func() tea.Msg {
		d, ok := <-ch
		if !ok {
			return nil
		}
		return unlockMsg{def: d}
	}
}

func formatDate(t time.Time) string {
	return t.Local().Format("02/01/2006")
}

// formatDaysAgo renders the result of Plant.DaysSinceWatered.
func formatDaysAgo(days int, ok bool) string {
	switch {
	case !ok:
		return "Nunca regada"
	case days <= 0:
		return "Hoje"
	case days == 1:
		return "Ontem"
	default:
		return fmt.Sprintf("Há %d dias", days)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
