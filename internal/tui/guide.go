package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/cantinho/internal/encyclopedia"
	"github.com/sadopc/cantinho/internal/garden"
)

// guideFilters is the cycle order of the f key.
var guideFilters = append([]string{encyclopedia.FilterAll, encyclopedia.FilterFavorites}, encyclopedia.Categories()...)

type guideModel struct {
	garden *garden.Garden
	width  int
	height int

	items     []encyclopedia.Item
	filterIdx int
	cursor    int

	searching bool
	search    textinput.Model

	detail *encyclopedia.Entry
}

func newGuideModel(g *garden.Garden) guideModel {
	ti := textinput.New()
	ti.Placeholder = "nome ou nome científico"
	ti.Prompt = "/ "
	ti.CharLimit = 40
	return guideModel{
		garden: g,
		search: ti,
	}
}

func (m *guideModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.search.Width = max(10, w-12)
}

func (m guideModel) filter() string {
	return guideFilters[m.filterIdx]
}

type guideDataMsg struct {
	items []encyclopedia.Item
}

func (m guideModel) refresh() tea.Cmd {
	f, q := m.filter(), m.search.Value()
	return func() tea.Msg {
		return guideDataMsg{items: m.garden.Guide.Filter(f, q)}
	}
}

func (m guideModel) selected() (encyclopedia.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return encyclopedia.Item{}, false
	}
	return m.items[m.cursor], true
}

func (m guideModel) update(msg tea.Msg) (guideModel, tea.Cmd) {
	if m.searching {
		return m.updateSearch(msg)
	}

	switch msg := msg.(type) {
	case guideDataMsg:
		m.items = msg.items
		if m.cursor >= len(m.items) {
			m.cursor = max(0, len(m.items)-1)
		}
		return m, nil

	case tea.KeyMsg:
		if m.detail != nil {
			switch {
			case key.Matches(msg, keys.Back), key.Matches(msg, keys.Enter):
				m.detail = nil
				return m, nil
			case key.Matches(msg, keys.Favorite):
				return m, m.toggle(m.detail.ID, m.detail.Name)
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Filter):
			m.filterIdx = (m.filterIdx + 1) % len(guideFilters)
			m.cursor = 0
			return m, m.refresh()
		case key.Matches(msg, keys.Search):
			m.searching = true
			return m, m.search.Focus()
		case key.Matches(msg, keys.Favorite):
			if it, ok := m.selected(); ok {
				return m, m.toggle(it.ID, it.Name)
			}
		case key.Matches(msg, keys.Enter):
			if it, ok := m.selected(); ok {
				e, err := m.garden.Guide.View(it.ID)
				if err != nil {
					return m, errorCmd(err)
				}
				m.detail = &e
				return m, m.refresh()
			}
		}
	}
	return m, nil
}

func (m guideModel) updateSearch(msg tea.Msg) (guideModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			m.cursor = 0
			return m, m.refresh()
		case "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	return m, tea.Batch(cmd, m.refresh())
}

func (m guideModel) toggle(id int, name string) tea.Cmd {
	return func() tea.Msg {
		fav, err := m.garden.Guide.Toggle(id)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Erro: %v", err), isError: true}
		}
		if fav {
			return statusMsg{text: fmt.Sprintf("⭐ %s nos favoritos", name)}
		}
		return statusMsg{text: fmt.Sprintf("%s removida dos favoritos", name)}
	}
}

func (m guideModel) view() string {
	w := m.width - 4
	if m.detail != nil {
		return m.renderDetail(*m.detail, w)
	}

	var tabs []string
	for i, f := range guideFilters {
		label := encyclopedia.CategoryLabel(f)
		if i == m.filterIdx {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Enciclopédia")+"  "+mutedStyle.Render(fmt.Sprintf("%d favorita(s)  %d vista(s)", m.garden.Guide.FavoriteCount(), m.garden.Guide.ViewedCount())),
		lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)

	var rows []string
	rows = append(rows, header, "")
	if m.searching || m.search.Value() != "" {
		rows = append(rows, m.search.View(), "")
	}

	if len(m.items) == 0 {
		rows = append(rows, mutedStyle.Render("  Nenhuma planta encontrada"))
	}
	for i, it := range m.items {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		star := "  "
		if it.Favorite {
			star = accentStyle.Render("★ ")
		}
		seen := ""
		if it.Viewed {
			seen = mutedStyle.Render(" ✓")
		}
		row := style.Render(fmt.Sprintf("%s%-20s", cursor, truncate(it.Name, 20))) + " " + star +
			subtitleStyle.Render(fmt.Sprintf("%-24s", truncate(it.ScientificName, 24))) + " " +
			highlightStyle.Render(encyclopedia.CategoryLabel(it.Category)) + seen
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: detalhes  s: favoritar  f: categoria  /: buscar"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m guideModel) renderDetail(e encyclopedia.Entry, w int) string {
	star := mutedStyle.Render("☆ não favorita")
	if m.garden.Guide.IsFavorite(e.ID) {
		star = accentStyle.Render("★ favorita")
	}
	desc := lipgloss.NewStyle().Width(max(20, w-6)).Render(e.Description)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("🌿 "+e.Name),
		subtitleStyle.Render(e.ScientificName),
		highlightStyle.Render(encyclopedia.CategoryLabel(e.Category))+"  "+star,
		"",
		desc,
		"",
		mutedStyle.Render("  s: favoritar  esc: voltar"),
	)
	return activePanelStyle.Width(w).Render(content)
}
