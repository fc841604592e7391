package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/cantinho/internal/achievement"
	"github.com/sadopc/cantinho/internal/garden"
)

// App is the root Bubble Tea model.
type App struct {
	garden *garden.Garden
	width  int
	height int

	activeView viewState
	showHelp   bool

	plants       plantsModel
	guide        guideModel
	achievements achievementsModel
	history      historyModel
	settings     settingsModel

	unlocks <-chan achievement.Definition

	help    help.Model
	status  string
	isError bool
}

func NewApp(g *garden.Garden) App {
	h := help.New()
	h.ShowAll = false

	// Unlocks can fire from any component; they reach the UI through this
	// channel. Sends never block the tracker.
	ch := make(chan achievement.Definition, 16)
	g.Achievements.OnUnlock(func(d achievement.Definition) {
		select {
		case ch <- d:
		default:
		}
	})

	return App{
		garden:       g,
		activeView:   viewPlants,
		plants:       newPlantsModel(g),
		guide:        newGuideModel(g),
		achievements: newAchievementsModel(g),
		history:      newHistoryModel(g),
		settings:     newSettingsModel(g),
		unlocks:      ch,
		help:         h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.plants.Init(),
		tickCmd(),
		waitForUnlock(a.unlocks),
	)
}

// tickCmd keeps the date-dependent labels fresh across midnight.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.plants.setSize(a.width, contentHeight)
		a.guide.setSize(a.width, contentHeight)
		a.achievements.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewPlants)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewGuide)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewAchievements)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewHistory)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		return a, tea.Batch(tickCmd(), a.refreshCurrentView())

	case statusMsg:
		a.status = msg.text
		a.isError = msg.isError
		return a, a.refreshCurrentView()

	case unlockMsg:
		a.status = "🏆 Conquista desbloqueada: " + msg.def.Title
		a.isError = false
		cmds := []tea.Cmd{waitForUnlock(a.unlocks)}
		if a.activeView == viewAchievements {
			cmds = append(cmds, a.achievements.refresh())
		}
		return a, tea.Batch(cmds...)
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewPlants:
		a.plants, cmd = a.plants.update(msg)
	case viewGuide:
		a.guide, cmd = a.guide.update(msg)
	case viewAchievements:
		a.achievements, cmd = a.achievements.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewPlants:
		return a.plants.formActive
	case viewGuide:
		return a.guide.searching
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewPlants:
		return a.plants.refresh()
	case viewGuide:
		return a.guide.refresh()
	case viewAchievements:
		return a.achievements.refresh()
	case viewHistory:
		return a.history.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Carregando..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewPlants:
		content = a.plants.view()
	case viewGuide:
		content = a.guide.view()
	case viewAchievements:
		content = a.achievements.view()
	case viewHistory:
		content = a.history.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(1, a.height-headerHeight-footerHeight)

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("🌱 cantinho")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.isError {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	left := footerStyle.Render(helpView)
	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(status)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}
