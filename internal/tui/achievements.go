package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/cantinho/internal/achievement"
	"github.com/sadopc/cantinho/internal/garden"
)

type achievementsModel struct {
	garden *garden.Garden
	width  int
	height int

	statuses []achievement.Status
	summary  achievement.Summary
	cursor   int

	bar progress.Model
}

func newAchievementsModel(g *garden.Garden) achievementsModel {
	return achievementsModel{
		garden: g,
		bar: progress.New(
			progress.WithGradient(string(colorPrimary), string(colorSecondary)),
			progress.WithoutPercentage(),
		),
	}
}

func (m *achievementsModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.bar.Width = max(10, min(60, w-20))
}

type achievementsDataMsg struct {
	statuses []achievement.Status
	summary  achievement.Summary
}

func (m achievementsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return achievementsDataMsg{
			statuses: m.garden.Achievements.Statuses(),
			summary:  m.garden.Achievements.Summary(),
		}
	}
}

func (m achievementsModel) update(msg tea.Msg) (achievementsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case achievementsDataMsg:
		m.statuses = msg.statuses
		m.summary = msg.summary
		if m.cursor >= len(m.statuses) {
			m.cursor = max(0, len(m.statuses)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.statuses)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m achievementsModel) view() string {
	w := m.width - 4

	pct := m.summary.Percent()
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Conquistas"),
		"",
		m.bar.ViewAs(pct/100)+"  "+statValueStyle.Render(fmt.Sprintf("%d/%d", m.summary.Unlocked, m.summary.Total))+
			mutedStyle.Render(fmt.Sprintf(" (%.0f%%)", pct)),
	)

	rows := []string{header, ""}
	for i, st := range m.statuses {
		rows = append(rows, m.renderStatus(st, i == m.cursor))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m achievementsModel) renderStatus(st achievement.Status, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}

	icon, title := "🔒", lockedStyle.Render(st.Title)
	if st.Unlocked {
		icon, title = "🏆", unlockedStyle.Render(st.Title)
	}
	if selected {
		title = selectedItemStyle.Render(st.Title)
	}

	var extra string
	switch {
	case st.Unlocked && !st.UnlockedAt.IsZero():
		extra = successStyle.Render("desbloqueada em " + formatDate(st.UnlockedAt))
	case st.Kind == achievement.KindProgress:
		extra = highlightStyle.Render(fmt.Sprintf("%d/%d %s", st.Progress.Current, st.Progress.Total, st.Unit))
	}

	line := fmt.Sprintf("%s%s %s  %s", cursor, icon, title, extra)
	return line + "\n" + mutedStyle.Render("     "+st.Description)
}
